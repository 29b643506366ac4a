package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-duel-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// PackLoader fetches pack content from a backing store (e.g., Postgres).
type PackLoader interface {
	LoadPack(ctx context.Context, name string) (domain.QuestionPack, error)
	ListPacks(ctx context.Context) ([]string, error)
}

// PackRepository caches packs with TTL to avoid repeated store hits. It
// implements app.PackCatalog.
type PackRepository struct {
	loader PackLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPack
}

type cachedPack struct {
	pack      domain.QuestionPack
	expiresAt time.Time
}

func NewPackRepository(loader PackLoader, ttl time.Duration) *PackRepository {
	return &PackRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPack),
	}
}

func (r *PackRepository) LoadPack(ctx context.Context, name string) (domain.QuestionPack, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[name]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.pack, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[name]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.pack, nil
		}
		r.mu.RUnlock()

		pack, err := r.loader.LoadPack(ctx, name)
		if err != nil {
			return domain.QuestionPack{}, err
		}

		r.mu.Lock()
		r.cache[name] = cachedPack{
			pack:      pack,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
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

func (r *PackRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticPackLoader is a simple loader backed by an in-memory map (useful for
// tests/demos).
type StaticPackLoader struct {
	packs map[string]domain.QuestionPack
}

func NewStaticPackLoader(packs map[string]domain.QuestionPack) *StaticPackLoader {
	return &StaticPackLoader{packs: packs}
}

func (l *StaticPackLoader) LoadPack(_ context.Context, name string) (domain.QuestionPack, error) {
	if pack, ok := l.packs[name]; ok {
		return pack, nil
	}
	return domain.QuestionPack{}, domain.ErrPackNotFound
}

func (l *StaticPackLoader) ListPacks(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(l.packs))
	for name := range l.packs {
		names = append(names, name)
	}
	return names, nil
}
