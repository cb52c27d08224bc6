package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"hema-storefront/internal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const embeddingKeyPrefix = "search:embedding:"

// EmbeddingCache keeps the query embedding returned with a first page so later
// pages of the same query can be fetched without embedding it again.
type EmbeddingCache interface {
	Get(ctx context.Context, query string) ([]float32, bool)
	Set(ctx context.Context, query string, embedding []float32)
}

func embeddingKey(query string) string {
	return embeddingKeyPrefix + utils.Hash(strings.ToLower(strings.TrimSpace(query)))
}

type memoryEntry struct {
	embedding []float32
	expiresAt time.Time
}

// MemoryCache is a process local EmbeddingCache.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ EmbeddingCache = (*MemoryCache)(nil)

func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &MemoryCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, query string) ([]float32, bool) {
	key := embeddingKey(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.embedding, true
}

func (c *MemoryCache) Set(_ context.Context, query string, embedding []float32) {
	if len(embedding) == 0 {
		return
	}
	key := embeddingKey(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evict()
	}
	c.entries[key] = memoryEntry{
		embedding: embedding,
		expiresAt: c.now().Add(c.ttl),
	}
}

// evict drops expired entries, or everything when none has expired yet.
func (c *MemoryCache) evict() {
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) >= c.maxSize {
		c.entries = make(map[string]memoryEntry)
	}
}

// RedisCache shares embeddings between storefront instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ EmbeddingCache = RedisCache{}

func NewRedisCache(client *redis.Client, ttl time.Duration) RedisCache {
	return RedisCache{client: client, ttl: ttl}
}

// OpenRedis connects to addr and checks the connection.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	log.Info().Msgf("connected to redis at %s", addr)
	return client, nil
}

func (c RedisCache) Get(ctx context.Context, query string) ([]float32, bool) {
	raw, err := c.client.Get(ctx, embeddingKey(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("embedding cache: get failed")
		return nil, false
	}

	var embedding []float32
	if err := json.Unmarshal(raw, &embedding); err != nil {
		log.Warn().Err(err).Msg("embedding cache: corrupt entry")
		return nil, false
	}
	return embedding, len(embedding) > 0
}

func (c RedisCache) Set(ctx context.Context, query string, embedding []float32) {
	if len(embedding) == 0 {
		return
	}
	raw, err := json.Marshal(embedding)
	if err != nil {
		log.Warn().Err(err).Msg("embedding cache: encode failed")
		return
	}
	if err := c.client.Set(ctx, embeddingKey(query), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("embedding cache: set failed")
	}
}
