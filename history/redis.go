package history

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisOpTimeout bounds each history operation against the server.
const redisOpTimeout = 5 * time.Second

// RedisStore keeps run history in redis so multiple launcher hosts share one
// name space. Minting reserves the name atomically: SADD returns 1 only for
// the first writer, so concurrent mints cannot hand out the same name.
type RedisStore struct {
	client *redis.Client
	prefix string
	rng    *rand.Rand
}

// NewRedisStore connects to the redis instance named by url
// (e.g. "redis://localhost:6379/0") and verifies it is reachable.
func NewRedisStore(url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := opContext()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, prefix), nil
}

// NewRedisStoreWithClient wraps an existing client (test injection).
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "nextflow:history"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}

func (s *RedisStore) namesKey() string { return s.prefix + ":names" }
func (s *RedisStore) orderKey() string { return s.prefix + ":order" }

func (s *RedisStore) recordKey(name string) string {
	return s.prefix + ":record:" + name
}

// Exists reports whether a run name is present in the shared name set.
func (s *RedisStore) Exists(name string) (bool, error) {
	ctx, cancel := opContext()
	defer cancel()

	ok, err := s.client.SIsMember(ctx, s.namesKey(), name).Result()
	if err != nil {
		return false, fmt.Errorf("checking run name in redis: %w", err)
	}
	return ok, nil
}

// MintName atomically reserves and returns a fresh run name.
func (s *RedisStore) MintName() (string, error) {
	return mintName(s.rng, func(candidate string) (bool, error) {
		ctx, cancel := opContext()
		defer cancel()

		added, err := s.client.SAdd(ctx, s.namesKey(), candidate).Result()
		if err != nil {
			return false, fmt.Errorf("reserving run name in redis: %w", err)
		}
		// added == 0 means another launcher holds the name: keep looking.
		return added == 0, nil
	})
}

// Append records a run. The name lands in the name set as well, covering
// explicitly supplied names that were never minted.
func (s *RedisStore) Append(rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding history record: %w", err)
	}

	ctx, cancel := opContext()
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, s.namesKey(), rec.Name)
	pipe.Set(ctx, s.recordKey(rec.Name), payload, 0)
	pipe.RPush(ctx, s.orderKey(), rec.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing history record to redis: %w", err)
	}
	return nil
}

// List returns recorded runs, newest first.
func (s *RedisStore) List(limit int) ([]Record, error) {
	ctx, cancel := opContext()
	defer cancel()

	names, err := s.client.LRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing history from redis: %w", err)
	}

	records := make([]Record, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		if limit > 0 && len(records) == limit {
			break
		}
		payload, err := s.client.Get(ctx, s.recordKey(names[i])).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("reading history record %q: %w", names[i], err)
		}
		var rec Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close releases the underlying client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
