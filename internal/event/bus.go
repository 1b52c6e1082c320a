package event

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// PanicHandler observes recovered handler panics.
type PanicHandler func(ev any, sub *Subscription, recovered any)

// Stats summarizes bus activity.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler installs a panic observer.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) { b.onPanic = h }
}

// Bus delivers events synchronously to matching subscriptions. It is safe
// for concurrent use; handlers may subscribe and unsubscribe during
// delivery.
type Bus struct {
	mu      sync.RWMutex
	subs    map[string]*Subscription
	seq     uint64
	onPanic PanicHandler

	published atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	panics    atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{subs: make(map[string]*Subscription)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for events whose topic matches pattern.
func (b *Bus) Subscribe(pattern Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	cfg := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&cfg)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	sub := &Subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: handler,
		config:  cfg,
		seq:     b.seq,
		bus:     b,
	}
	b.subs[sub.id] = sub
	return sub, nil
}

// Unsubscribe cancels sub.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil || sub.bus != b {
		return ErrSubscriptionNotFound
	}
	return sub.Unsubscribe()
}

func (b *Bus) remove(id string) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

func (b *Bus) matching(t Topic) []*Subscription {
	b.mu.RLock()
	out := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if t.Matches(s.pattern) {
			out = append(out, s)
		}
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].config.Priority != out[j].config.Priority {
			return out[i].config.Priority < out[j].config.Priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Publish delivers ev to every matching subscription. ev must implement
// TopicProvider. Handler errors and panics do not stop delivery; they are
// joined into the returned error.
func (b *Bus) Publish(ev any) error {
	tp, ok := ev.(TopicProvider)
	if !ok || !tp.EventTopic().IsValid() || tp.EventTopic().IsWildcard() {
		return ErrInvalidEvent
	}
	t := tp.EventTopic()
	b.published.Add(1)

	var errs []error
	for _, sub := range b.matching(t) {
		if !sub.shouldDeliver(ev) {
			continue
		}
		if err := b.deliver(sub, ev); err != nil {
			errs = append(errs, &HandlerError{SubscriptionID: sub.id, Topic: t, Err: err})
			continue
		}
		b.delivered.Add(1)
		if sub.config.Once {
			_ = sub.Unsubscribe()
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) deliver(sub *Subscription, ev any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			if b.onPanic != nil {
				b.onPanic(ev, sub, r)
			}
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	if err = sub.handler(ev); err != nil {
		b.failed.Add(1)
	}
	return err
}

// Count returns the number of live subscriptions.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats returns delivery counters.
func (b *Bus) Stats() Stats {
	active := 0
	b.mu.RLock()
	for _, s := range b.subs {
		if s.IsActive() {
			active++
		}
	}
	b.mu.RUnlock()
	return Stats{
		EventsPublished:   b.published.Load(),
		EventsDelivered:   b.delivered.Load(),
		HandlerErrors:     b.failed.Load(),
		HandlerPanics:     b.panics.Load(),
		ActiveSubscribers: active,
	}
}
