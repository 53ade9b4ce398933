package boardcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/liveboard/pkg/board"
	"github.com/travigo/liveboard/pkg/ctdf"
)

const (
	DefaultExpiration = 10 * time.Minute

	feedKeyFormat     = "liveboard:feed:%s"
	platformKeyFormat = "liveboard:platform:%s"
)

// Cache mirrors board changes into redis so other processes can read the current board.
// It is write only, nothing is read back on startup.
type Cache struct {
	Cache *cache.Cache[string]
}

func New(client *redis.Client, expiration time.Duration) *Cache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &Cache{
		Cache: cache.New[string](redisStore),
	}
}

type cachedFeed struct {
	FeedID    string
	Valid     bool
	FetchedAt time.Time
	Rows      []ctdf.DepartureBoardRow
}

func (c *Cache) BoardChanged(change board.Change) {
	ctx := context.Background()

	if err := c.setJSON(ctx, FeedKey(change.FeedID), cachedFeed{
		FeedID:    change.FeedID,
		Valid:     change.Snapshot.Valid,
		FetchedAt: change.Snapshot.FetchedAt,
		Rows:      ctdf.GenerateDepartureBoardRows(change.Snapshot.Services),
	}); err != nil {
		log.Error().Err(err).Str("feed", change.FeedID).Msg("Failed to cache feed snapshot")
	}

	for platform, tracked := range change.Tracked {
		if tracked == nil {
			if err := c.Cache.Delete(ctx, PlatformKey(platform)); err != nil {
				log.Debug().Err(err).Str("platform", platform).Msg("Failed to remove cached tracked departure")
			}
			continue
		}

		if err := c.setJSON(ctx, PlatformKey(platform), tracked); err != nil {
			log.Error().Err(err).Str("platform", platform).Msg("Failed to cache tracked departure")
		}
	}
}

func (c *Cache) setJSON(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Cache.Set(ctx, key, string(encoded))
}

func FeedKey(feedID string) string {
	return fmt.Sprintf(feedKeyFormat, feedID)
}

func PlatformKey(platform string) string {
	return fmt.Sprintf(platformKeyFormat, platform)
}
