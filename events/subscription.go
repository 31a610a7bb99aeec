// Package events carries change notifications between services, such as
// "the coin catalog was refreshed".
package events

import (
	"context"
	"sync"
)

// ISubscription is a single listener registration
type ISubscription interface {
	// Chan delivers one value per coalesced notification
	Chan() <-chan struct{}
	// Cancel unsubscribes and stops a running Watch. Safe for repeated calls.
	Cancel()
	// Watch calls cb for every notification until the subscription is
	// cancelled or parentCtx is done. If callNow is true cb runs once
	// synchronously before Watch returns.
	Watch(parentCtx context.Context, cb func(), callNow bool) ISubscription
}

// ISubscriptionManager fans notifications out to subscribers
type ISubscriptionManager interface {
	Subscribe() ISubscription
	// Emit notifies every subscriber without blocking. A subscriber that has
	// not consumed its previous notification is not notified twice.
	Emit(ctx context.Context)
}

// Subscription implements ISubscription
type Subscription struct {
	ch     chan struct{}
	mgr    *SubscriptionManager
	once   sync.Once
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Subscription) Chan() <-chan struct{} { return s.ch }

func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.mu.Lock()
		cancel, done := s.cancel, s.done
		s.mu.Unlock()

		s.mgr.remove(s)
		if cancel != nil {
			cancel()
			<-done
		}
	})
}

func (s *Subscription) Watch(parentCtx context.Context, cb func(), callNow bool) ISubscription {
	ctx, cancel := context.WithCancel(parentCtx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	if callNow {
		cb()
	}

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				s.mgr.remove(s)
				return
			case _, ok := <-s.ch:
				if !ok {
					return
				}
				cb()
			}
		}
	}()

	return s
}

// SubscriptionManager implements ISubscriptionManager
type SubscriptionManager struct {
	mu          sync.RWMutex
	subscribers map[*Subscription]struct{}
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subscribers: make(map[*Subscription]struct{}),
	}
}

func (m *SubscriptionManager) Subscribe() ISubscription {
	sub := &Subscription{ch: make(chan struct{}, 1), mgr: m}

	m.mu.Lock()
	m.subscribers[sub] = struct{}{}
	m.mu.Unlock()

	return sub
}

// Len returns the number of active subscribers
func (m *SubscriptionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}

func (m *SubscriptionManager) remove(sub *Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, sub)
}

func (m *SubscriptionManager) Emit(ctx context.Context) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for sub := range m.subscribers {
		select {
		case <-ctx.Done():
			return
		case sub.ch <- struct{}{}:
		default:
			// already pending
		}
	}
}
