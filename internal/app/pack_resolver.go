package app

import (
	"context"
	"math/rand"
	"sync"

	"trivia-duel-service/internal/domain"
)

// PackCatalog abstracts where uploaded question packs come from
// (in-memory, Postgres behind a cache, etc).
type PackCatalog interface {
	LoadPack(ctx context.Context, name string) (domain.QuestionPack, error)
	ListPacks(ctx context.Context) ([]string, error)
}

// PackResolver turns a create-time pack selection into question content:
// the builtin placeholder pool, a specific uploaded pack, or a uniformly
// random uploaded pack. It implements PackRepository.
type PackResolver struct {
	catalog     PackCatalog
	placeholder domain.QuestionPack

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPackResolver(catalog PackCatalog, placeholder domain.QuestionPack, rnd *rand.Rand) *PackResolver {
	return &PackResolver{catalog: catalog, placeholder: placeholder, rnd: rnd}
}

func (r *PackResolver) GetPack(ctx context.Context, sel domain.PackSelection) (domain.QuestionPack, error) {
	switch sel.Type {
	case domain.PackSpecific:
		if sel.SpecificFile == "" {
			return domain.QuestionPack{}, domain.ErrPackNotFound
		}
		return r.catalog.LoadPack(ctx, sel.SpecificFile)
	case domain.PackRandom:
		names, err := r.catalog.ListPacks(ctx)
		if err != nil {
			return domain.QuestionPack{}, err
		}
		if len(names) == 0 {
			return domain.QuestionPack{}, domain.ErrPackNotFound
		}
		r.mu.Lock()
		name := names[r.rnd.Intn(len(names))]
		r.mu.Unlock()
		return r.catalog.LoadPack(ctx, name)
	default:
		return r.placeholder, nil
	}
}
