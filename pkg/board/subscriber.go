package board

import (
	"github.com/travigo/liveboard/pkg/ctdf"
)

// Change describes a single UpdateFeed call. Tracked and Previous are only populated when
// the update was valid and the feed owns platforms.
type Change struct {
	FeedID   string
	Snapshot ctdf.FeedSnapshot

	Previous map[string]*ctdf.TrackedDeparture
	Tracked  map[string]*ctdf.TrackedDeparture
}

// ChangedPlatforms lists the platforms whose tracked departure differs from before the update
func (c Change) ChangedPlatforms() []string {
	var changed []string

	for platform, tracked := range c.Tracked {
		if !tracked.Equal(c.Previous[platform]) {
			changed = append(changed, platform)
		}
	}

	return changed
}

type Subscriber interface {
	BoardChanged(change Change)
}

type SubscriberFunc func(change Change)

func (f SubscriberFunc) BoardChanged(change Change) {
	f(change)
}

func (b *Board) Subscribe(subscriber Subscriber) {
	b.subscribersMutex.Lock()
	defer b.subscribersMutex.Unlock()

	b.subscribers = append(b.subscribers, subscriber)
}

func (b *Board) notify(change Change) {
	b.subscribersMutex.RLock()
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.subscribersMutex.RUnlock()

	for _, subscriber := range subscribers {
		subscriber.BoardChanged(change)
	}
}
