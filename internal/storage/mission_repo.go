package storage

import (
	"context"
	"encoding/json"

	"coinquest/internal/store"
)

// MissionRepo gives typed access to the missions collection and the daily
// refresh marker.
type MissionRepo struct {
	kv *store.Store
}

func NewMissionRepo(kv *store.Store) *MissionRepo {
	return &MissionRepo{kv: kv}
}

func (r *MissionRepo) List(ctx context.Context) ([]Mission, error) {
	raw, err := r.kv.Get(ctx, KeyMissions)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var missions []Mission
	if err := json.Unmarshal(raw, &missions); err != nil {
		return nil, nil
	}
	return missions, nil
}

func (r *MissionRepo) Get(ctx context.Context, id string) (*Mission, error) {
	if id == "" {
		return nil, nil
	}
	missions, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range missions {
		if missions[i].ID == id {
			m := missions[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (r *MissionRepo) Add(ctx context.Context, mission Mission) error {
	missions, err := r.List(ctx)
	if err != nil {
		return err
	}
	missions = append(missions, mission)
	return r.kv.PutJSON(ctx, KeyMissions, missions)
}

func (r *MissionRepo) Update(ctx context.Context, mission Mission) (*Mission, error) {
	missions, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range missions {
		if missions[i].ID == mission.ID {
			missions[i] = mission
			if err := r.kv.PutJSON(ctx, KeyMissions, missions); err != nil {
				return nil, err
			}
			return &mission, nil
		}
	}
	return nil, nil
}

func (r *MissionRepo) Delete(ctx context.Context, id string) error {
	missions, err := r.List(ctx)
	if err != nil {
		return err
	}
	filtered := missions[:0]
	for _, m := range missions {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}
	return r.kv.PutJSON(ctx, KeyMissions, filtered)
}

// Replace overwrites the entire missions collection. Used by the daily
// refresh, which owns the isDaily partition.
func (r *MissionRepo) Replace(ctx context.Context, missions []Mission) error {
	return r.kv.PutJSON(ctx, KeyMissions, missions)
}

// LastRefresh returns the stored refresh date marker ("2006-01-02"), or ""
// when no refresh has ever run.
func (r *MissionRepo) LastRefresh(ctx context.Context) (string, error) {
	raw, err := r.kv.Get(ctx, KeyLastRefresh)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *MissionRepo) SetLastRefresh(ctx context.Context, date string) error {
	return r.kv.Put(ctx, KeyLastRefresh, []byte(date))
}
