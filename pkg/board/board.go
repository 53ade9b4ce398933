package board

import (
	"errors"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/liveboard/pkg/ctdf"
	"github.com/travigo/liveboard/pkg/platformtracker"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrUnknownFeed = errors.New("unknown feed")

// Board is the single source of truth for every feed snapshot and tracked platform.
// Snapshots are only ever replaced whole, readers always get copies.
type Board struct {
	mutex sync.RWMutex

	feeds   map[string]*ctdf.FeedSnapshot
	tracked map[string]*ctdf.TrackedDeparture

	// feed ID => platforms whose tracked departure is derived from that feed
	platformOwners map[string][]string

	subscribersMutex sync.RWMutex
	subscribers      []Subscriber

	now func() time.Time
}

// New creates a board with every feed present but empty and invalid.
// tracking maps a feed ID to the platforms it is responsible for.
func New(feedIDs []string, tracking map[string][]string) *Board {
	b := &Board{
		feeds:          map[string]*ctdf.FeedSnapshot{},
		tracked:        map[string]*ctdf.TrackedDeparture{},
		platformOwners: map[string][]string{},
		now:            time.Now,
	}

	for _, feedID := range feedIDs {
		b.feeds[feedID] = ctdf.NewEmptyFeedSnapshot(feedID)
	}

	for feedID, platforms := range tracking {
		if _, exists := b.feeds[feedID]; !exists {
			log.Warn().Str("feed", feedID).Strs("platforms", platforms).Msg("Ignoring platform tracking for unknown feed")
			continue
		}

		b.platformOwners[feedID] = slices.Clone(platforms)
		for _, platform := range platforms {
			b.tracked[platform] = nil
		}
	}

	return b
}

// UpdateFeed replaces the snapshot for feedID. An invalid update keeps the previous
// services and tracked departures and only marks the snapshot as stale.
func (b *Board) UpdateFeed(feedID string, services []ctdf.Service, valid bool) error {
	b.mutex.Lock()

	previous, exists := b.feeds[feedID]
	if !exists {
		b.mutex.Unlock()
		return ErrUnknownFeed
	}

	now := b.now()
	snapshot := &ctdf.FeedSnapshot{
		FeedID:        feedID,
		LastAttemptAt: now,
		Valid:         valid,
		Revision:      previous.Revision + 1,
	}

	if valid {
		snapshot.Services = copyServices(services)
		snapshot.FetchedAt = now
	} else {
		snapshot.Services = previous.Services
		snapshot.FetchedAt = previous.FetchedAt
	}

	b.feeds[feedID] = snapshot

	change := Change{
		FeedID:   feedID,
		Snapshot: copySnapshot(snapshot),
		Previous: map[string]*ctdf.TrackedDeparture{},
		Tracked:  map[string]*ctdf.TrackedDeparture{},
	}

	if valid {
		platforms := b.platformOwners[feedID]

		for _, platform := range platforms {
			change.Previous[platform] = b.tracked[platform]
			b.tracked[platform] = nil
		}

		for platform, tracked := range platformtracker.TrackAll(snapshot, platforms) {
			b.tracked[platform] = tracked
			change.Tracked[platform] = copyTrackedDeparture(tracked)
		}
	}

	b.mutex.Unlock()

	log.Debug().
		Str("feed", feedID).
		Bool("valid", valid).
		Int("services", len(snapshot.Services)).
		Int("tracked", len(change.Tracked)).
		Msg("Updated feed snapshot")

	b.notify(change)

	return nil
}

func (b *Board) GetFeedSnapshot(feedID string) (ctdf.FeedSnapshot, bool) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	snapshot, exists := b.feeds[feedID]
	if !exists {
		return ctdf.FeedSnapshot{}, false
	}

	return copySnapshot(snapshot), true
}

func (b *Board) GetTrackedDeparture(platform string) *ctdf.TrackedDeparture {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return copyTrackedDeparture(b.tracked[platform])
}

func (b *Board) FeedIDs() []string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	feedIDs := maps.Keys(b.feeds)
	slices.Sort(feedIDs)

	return feedIDs
}

func (b *Board) TrackedPlatforms() []string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	platforms := maps.Keys(b.tracked)
	slices.Sort(platforms)

	return platforms
}

func (b *Board) IsTrackedPlatform(platform string) bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	_, exists := b.tracked[platform]
	return exists
}

func copySnapshot(snapshot *ctdf.FeedSnapshot) ctdf.FeedSnapshot {
	copied := *snapshot
	copied.Services = copyServices(snapshot.Services)

	return copied
}

func copyServices(services []ctdf.Service) []ctdf.Service {
	copied := make([]ctdf.Service, 0, len(services))

	if err := copier.CopyWithOption(&copied, &services, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Msg("Failed to copy services")
		return make([]ctdf.Service, 0)
	}

	if copied == nil {
		copied = make([]ctdf.Service, 0)
	}

	return copied
}

func copyTrackedDeparture(tracked *ctdf.TrackedDeparture) *ctdf.TrackedDeparture {
	if tracked == nil {
		return nil
	}

	var copied ctdf.TrackedDeparture
	if err := copier.CopyWithOption(&copied, tracked, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Str("platform", tracked.Platform).Msg("Failed to copy tracked departure")
		return nil
	}

	return &copied
}
