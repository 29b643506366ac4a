package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"trivia-duel-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// PackLoader fetches pack content from a backing store (e.g., Postgres).
type PackLoader interface {
	LoadPack(ctx context.Context, name string) (domain.QuestionPack, error)
	ListPacks(ctx context.Context) ([]string, error)
}

// PackRepository caches whole packs as JSON in Redis and falls back to a
// loader on cache miss. Packs are stored as: SET duel:pack:{name} {json}.
// It implements app.PackCatalog.
type PackRepository struct {
	client *redis.Client
	loader PackLoader
	ttl    time.Duration
	sf     singleflight.Group

	// rnd is shared by cache fills for different pack names, which run
	// concurrently under singleflight.
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPackRepository(client *redis.Client, loader PackLoader, ttl time.Duration) *PackRepository {
	return &PackRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PackRepository) LoadPack(ctx context.Context, name string) (domain.QuestionPack, error) {
	key := r.packKey(name)

	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		if pack, ok := decodePack(raw); ok {
			return pack, nil
		}
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := r.client.Get(ctx, key).Bytes()
		if err == nil {
			if pack, ok := decodePack(raw); ok {
				return pack, nil
			}
		}

		pack, err := r.loader.LoadPack(ctx, name)
		if err != nil {
			return domain.QuestionPack{}, err
		}

		if encoded, err := json.Marshal(pack); err == nil {
			_ = r.client.Set(ctx, key, encoded, r.ttlWithJitter()).Err()
		}
		return pack, nil
	})
	if err != nil {
		return domain.QuestionPack{}, err
	}
	return result.(domain.QuestionPack), nil
}

func (r *PackRepository) ListPacks(ctx context.Context) ([]string, error) {
	return r.loader.ListPacks(ctx)
}

func (r *PackRepository) packKey(name string) string {
	return "duel:pack:" + name
}

func decodePack(raw []byte) (domain.QuestionPack, bool) {
	var pack domain.QuestionPack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return domain.QuestionPack{}, false
	}
	return pack, len(pack.Questions) > 0
}

func (r *PackRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
