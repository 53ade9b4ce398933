package ctdf

import "time"

type FeedSnapshot struct {
	FeedID   string    `groups:"basic"`
	Services []Service `groups:"basic"`

	// FetchedAt is the time of the last successful poll, LastAttemptAt of the last poll of any outcome
	FetchedAt     time.Time `groups:"basic"`
	LastAttemptAt time.Time `groups:"detailed"`

	// Valid is false when the most recent poll failed and Services is being retained from an earlier one
	Valid bool `groups:"basic"`

	// Revision counts the updates applied to this feed since startup
	Revision uint64 `groups:"internal"`
}

func NewEmptyFeedSnapshot(feedID string) *FeedSnapshot {
	return &FeedSnapshot{
		FeedID:   feedID,
		Services: []Service{},
		Valid:    false,
	}
}

func (f *FeedSnapshot) IsStale() bool {
	return !f.Valid && !f.FetchedAt.IsZero()
}
