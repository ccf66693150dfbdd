package storage

import (
	"context"
	"encoding/json"

	"coinquest/internal/store"
)

// KidRepo gives typed access to the kids collection. Reads of a missing or
// corrupt blob degrade to an empty collection; only real store failures
// propagate. Every write persists the whole collection in one statement.
type KidRepo struct {
	kv *store.Store
}

func NewKidRepo(kv *store.Store) *KidRepo {
	return &KidRepo{kv: kv}
}

func (r *KidRepo) List(ctx context.Context) ([]Kid, error) {
	raw, err := r.kv.Get(ctx, KeyKids)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var kids []Kid
	if err := json.Unmarshal(raw, &kids); err != nil {
		// Corrupt payload degrades to empty rather than poisoning every caller.
		return nil, nil
	}
	return kids, nil
}

func (r *KidRepo) Get(ctx context.Context, id string) (*Kid, error) {
	if id == "" {
		return nil, nil
	}
	kids, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range kids {
		if kids[i].ID == id {
			k := kids[i]
			return &k, nil
		}
	}
	return nil, nil
}

func (r *KidRepo) Add(ctx context.Context, kid Kid) error {
	kids, err := r.List(ctx)
	if err != nil {
		return err
	}
	kids = append(kids, kid)
	return r.kv.PutJSON(ctx, KeyKids, kids)
}

// Update replaces the stored record matching kid.ID. It returns (nil, nil)
// when the id is not present: a lost update, not an error, which callers must
// handle.
func (r *KidRepo) Update(ctx context.Context, kid Kid) (*Kid, error) {
	kids, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range kids {
		if kids[i].ID == kid.ID {
			kids[i] = kid
			if err := r.kv.PutJSON(ctx, KeyKids, kids); err != nil {
				return nil, err
			}
			return &kid, nil
		}
	}
	return nil, nil
}

// Delete removes the kid from the kids collection only. Transactions and
// per-kid gamification keys are intentionally left behind.
func (r *KidRepo) Delete(ctx context.Context, id string) error {
	kids, err := r.List(ctx)
	if err != nil {
		return err
	}
	filtered := kids[:0]
	for _, k := range kids {
		if k.ID != id {
			filtered = append(filtered, k)
		}
	}
	return r.kv.PutJSON(ctx, KeyKids, filtered)
}
