package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceTTL = 24 * time.Hour

// Presence mirrors live room membership into Redis sets so the room info API
// can answer participant counts without touching the relay. Sets are keyed by
// connection id, not participant label: labels are client-chosen and may
// collide, while each connection counts as one member. The mirror is best
// effort; the in-memory directory stays authoritative.
type Presence struct {
	rdb *redis.Client
}

func NewPresence(rdb *redis.Client) *Presence {
	return &Presence{rdb: rdb}
}

// Add records a connection in the room's presence set.
func (p *Presence) Add(ctx context.Context, roomID, connID string) error {
	key := peersKey(roomID)
	pipe := p.rdb.TxPipeline()
	pipe.SAdd(ctx, key, connID)
	pipe.Expire(ctx, key, presenceTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Remove drops a connection from the room's presence set.
func (p *Presence) Remove(ctx context.Context, roomID, connID string) error {
	return p.rdb.SRem(ctx, peersKey(roomID), connID).Err()
}

// Count returns how many participants the room currently holds.
func (p *Presence) Count(ctx context.Context, roomID string) (int64, error) {
	return p.rdb.SCard(ctx, peersKey(roomID)).Result()
}

func peersKey(roomID string) string { return "room:" + roomID + ":peers" }
