package common

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hema-storefront/internal/eventpublisher/event"
)

var ErrWriteFailure = fmt.Errorf("write failure threshold exceeded")

// PublisherWithFailureThreshold writes events to subscribers with a timeout and
// reports ErrWriteFailure once a subscriber has missed writeFailureThreshold
// events in a row.
type PublisherWithFailureThreshold struct {
	writeTimeout          time.Duration
	writeFailureThreshold int
	failureCount          map[event.EventWChannel]int
	failureMu             sync.Mutex
}

func NewPublisherWithFailureThreshold(writeTimeout time.Duration, writeFailureThreshold int) *PublisherWithFailureThreshold {
	return &PublisherWithFailureThreshold{
		writeTimeout:          writeTimeout,
		writeFailureThreshold: writeFailureThreshold,
		failureCount:          make(map[event.EventWChannel]int),
	}
}

func (p *PublisherWithFailureThreshold) Publish(ctx context.Context, subscriber event.EventWChannel, e event.Event) (err error) {
	defer func() {
		// the subscriber may have been closed by an Unsubscribe racing with this write
		if r := recover(); r != nil {
			p.Forget(subscriber)
			err = ErrWriteFailure
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	select {
	case subscriber <- e:
		p.failureMu.Lock()
		delete(p.failureCount, subscriber)
		p.failureMu.Unlock()
		return nil
	case <-ctx.Done():
		p.failureMu.Lock()
		count := p.failureCount[subscriber] + 1
		p.failureCount[subscriber] = count
		p.failureMu.Unlock()

		if count >= p.writeFailureThreshold {
			p.Forget(subscriber)
			return ErrWriteFailure
		}
		return nil
	}
}

// Forget drops the failure history of subscriber.
func (p *PublisherWithFailureThreshold) Forget(subscriber event.EventWChannel) {
	p.failureMu.Lock()
	defer p.failureMu.Unlock()
	delete(p.failureCount, subscriber)
}
