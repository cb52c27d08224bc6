package eventpublisher

import (
	"hema-storefront/internal/eventpublisher/event"
)

type Publisher interface {
	Subscribe(event.EventWChannel)
	Unsubscribe(event.EventWChannel)
}
