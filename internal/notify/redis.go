package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisChannel = "comanda.notifications"

// RedisMirror republishes hub events on a redis channel so dashboards
// running in other processes see them too. Publish failures are logged
// and dropped; notifications are best effort.
type RedisMirror struct {
	rdb *redis.Client
}

func NewRedisMirror(addr string) *RedisMirror {
	return &RedisMirror{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (m *RedisMirror) Mirror(e Event) {
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.rdb.Publish(ctx, redisChannel, b).Err(); err != nil {
		log.Printf("[notify] redis publish failed: %v", err)
	}
}

func (m *RedisMirror) Close() error { return m.rdb.Close() }
