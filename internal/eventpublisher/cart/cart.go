package cart

import (
	"context"
	"sync"
	"time"

	"hema-storefront/internal/eventpublisher"
	"hema-storefront/internal/eventpublisher/common"
	"hema-storefront/internal/eventpublisher/event"
	"hema-storefront/internal/model"
	"hema-storefront/internal/repository/helper"

	"github.com/rs/zerolog/log"
)

const (
	writeTimeout          = time.Second
	writeFailureThreshold = 3
	notifyTimeout         = 100 * time.Millisecond
	queueSize             = 64
)

// CartPublisher fans cart snapshots out to subscribers in the order they were
// committed. Notify only queues; Start does the delivery.
type CartPublisher interface {
	eventpublisher.Publisher
	Start(ctx context.Context) error
	Notify(ctx context.Context, snapshot model.CartSnapshot) error
}

type cartPublisher struct {
	events     chan model.CartSnapshot
	submanager *common.SubManager
	publisher  *common.PublisherWithFailureThreshold
}

func New() CartPublisher {
	return &cartPublisher{
		events:     make(chan model.CartSnapshot, queueSize),
		submanager: common.NewSubManager(),
		publisher:  common.NewPublisherWithFailureThreshold(writeTimeout, writeFailureThreshold),
	}
}

func (p *cartPublisher) Subscribe(subscriber event.EventWChannel) {
	p.submanager.Subscribe(subscriber)
}

func (p *cartPublisher) Unsubscribe(subscriber event.EventWChannel) {
	p.submanager.Unsubscribe(subscriber)
	p.publisher.Forget(subscriber)
}

func (p *cartPublisher) Notify(ctx context.Context, snapshot model.CartSnapshot) error {
	return helper.NonblockingWrite(context.WithoutCancel(ctx), notifyTimeout, p.events, snapshot)
}

// publish delivers one snapshot to every subscriber before the next one is taken,
// so each subscriber sees snapshots in commit order.
func (p *cartPublisher) publish(ctx context.Context, snapshot model.CartSnapshot) {
	var wg sync.WaitGroup
	p.submanager.OnSubscribers(func(subscriber event.EventWChannel) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.publisher.Publish(ctx, subscriber, event.Event{Message: snapshot}); err != nil {
				log.Warn().Err(err).Msg("cart publisher: dropping slow subscriber")
				p.Unsubscribe(subscriber)
			}
		}()
	})
	wg.Wait()
}

func (p *cartPublisher) Start(ctx context.Context) error {
	defer p.submanager.UnsubscribeAll()

	for {
		select {
		case <-ctx.Done():
			log.Info().Err(ctx.Err()).Msg("CartPublisher stopped")
			return ctx.Err()
		case snapshot := <-p.events:
			log.Debug().Int("count", snapshot.Count).Int("subscribers", p.submanager.Len()).Msg("publish cart snapshot")
			p.publish(ctx, snapshot)
		}
	}
}
