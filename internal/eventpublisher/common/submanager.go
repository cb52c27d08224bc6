package common

import (
	"sync"

	"hema-storefront/internal/eventpublisher/event"
)

// SubManager tracks the subscribers of a publisher. Unsubscribing closes the channel.
type SubManager struct {
	subscribers    map[event.EventWChannel]struct{}
	subscriptionMu sync.RWMutex
}

func NewSubManager() *SubManager {
	return &SubManager{
		subscribers: make(map[event.EventWChannel]struct{}),
	}
}

func (m *SubManager) Subscribe(subscriber event.EventWChannel) {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	if _, ok := m.subscribers[subscriber]; !ok {
		m.subscribers[subscriber] = struct{}{}
	}
}

func (m *SubManager) Unsubscribe(subscriber event.EventWChannel) {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	// only act on the subscribed channels
	if _, ok := m.subscribers[subscriber]; !ok {
		return
	}
	delete(m.subscribers, subscriber)
	close(subscriber)
}

func (m *SubManager) UnsubscribeAll() {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	for subscriber := range m.subscribers {
		delete(m.subscribers, subscriber)
		close(subscriber)
	}
}

func (m *SubManager) Len() int {
	m.subscriptionMu.RLock()
	defer m.subscriptionMu.RUnlock()
	return len(m.subscribers)
}

func (m *SubManager) OnSubscribers(do func(event.EventWChannel)) {
	m.subscriptionMu.RLock()

	// 'do' may unsubscribe, so iterate over a copy taken under the read lock
	subsCopy := make([]event.EventWChannel, 0, len(m.subscribers))
	for subscriber := range m.subscribers {
		subsCopy = append(subsCopy, subscriber)
	}
	m.subscriptionMu.RUnlock()

	for _, subscriber := range subsCopy {
		do(subscriber)
	}
}
