// Package feed delivers repository change events to subscribers.
//
// Publish is synchronous: every subscriber has returned before Publish
// does, in the order the subscribers registered. A subscriber must not
// subscribe or unsubscribe from inside its own callback.
package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PolarWolf314/securevault/internal/record"
)

// Kind names the mutation an Event describes.
type Kind string

const (
	KindAdded    Kind = "added"
	KindRemoved  Kind = "removed"
	KindModified Kind = "modified"
	KindCleared  Kind = "cleared"
)

// Event describes one applied change.
type Event struct {
	ID       uuid.UUID
	Kind     Kind
	Category string
	Record   record.Record
	// Previous is set for KindModified only.
	Previous record.Record
	At       time.Time
}

// NewEvent returns an Event with a fresh ID and the current time.
func NewEvent(kind Kind, category string, r record.Record) Event {
	return Event{
		ID:       uuid.New(),
		Kind:     kind,
		Category: category,
		Record:   r,
		At:       time.Now().UTC(),
	}
}

// Subscriber receives events.
type Subscriber interface {
	Notify(Event)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(Event)

func (f SubscriberFunc) Notify(e Event) { f(e) }

// Feed fans events out to subscribers. The zero value is ready to use.
type Feed struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id  int
	sub Subscriber
}

// Subscribe registers s and returns a function that removes it again.
func (f *Feed) Subscribe(s Subscriber) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.subs = append(f.subs, subscription{id: id, sub: s})

	var once sync.Once
	return func() {
		once.Do(func() { f.remove(id) })
	}
}

func (f *Feed) remove(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, s := range f.subs {
		if s.id == id {
			f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every current subscriber.
func (f *Feed) Publish(e Event) {
	f.mu.Lock()
	subs := make([]subscription, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, s := range subs {
		s.sub.Notify(e)
	}
}

// Len returns the number of subscribers.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
