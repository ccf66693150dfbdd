package engine

import (
	"context"

	"github.com/google/uuid"

	"coinquest/internal/storage"
)

type CreateMissionInput struct {
	Title         string
	Description   string
	AgeGroup      string
	Reward        int
	Type          string
	ScheduledDate string // "2006-01-02", empty = any day
	WeeklyDays    []int  // 0=Sunday..6=Saturday, empty = every day
}

// CreateMission appends a parent-authored mission. Custom missions are not
// part of the daily partition and survive the daily refresh.
func (s *Service) CreateMission(ctx context.Context, in CreateMissionInput) (*storage.Mission, error) {
	const op = "create mission"

	if err := validateMissionInput(in.Title, in.Reward); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	ageGroup := in.AgeGroup
	if ageGroup == "" {
		ageGroup = storage.AgeGroupBoth
	}
	switch ageGroup {
	case storage.AgeGroupBoth, storage.AgeGroupFour, storage.AgeGroupNine:
	default:
		return nil, s.fail(ctx, op, validationf("age group must be both, 4+ or 9+"))
	}
	for _, d := range in.WeeklyDays {
		if d < 0 || d > 6 {
			return nil, s.fail(ctx, op, validationf("weekly days must be 0-6"))
		}
	}

	mission := storage.Mission{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Description:   in.Description,
		AgeGroup:      ageGroup,
		Reward:        in.Reward,
		Type:          in.Type,
		Status:        storage.MissionActive,
		ScheduledDate: in.ScheduledDate,
		WeeklyDays:    in.WeeklyDays,
		IsDaily:       false,
		CreatedAt:     s.now(),
	}

	if err := s.missions.Add(ctx, mission); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return &mission, nil
}

func (s *Service) Missions(ctx context.Context) ([]storage.Mission, error) {
	missions, err := s.missions.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list missions", err)
	}
	return missions, nil
}

func (s *Service) UpdateMission(ctx context.Context, mission storage.Mission) (*storage.Mission, error) {
	const op = "update mission"
	if err := requireID(mission.ID, "mission id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	updated, err := s.missions.Update(ctx, mission)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return updated, nil
}

func (s *Service) DeleteMission(ctx context.Context, id string) error {
	const op = "delete mission"
	if err := requireID(id, "mission id"); err != nil {
		return s.fail(ctx, op, err)
	}
	if err := s.missions.Delete(ctx, id); err != nil {
		return s.fail(ctx, op, err)
	}
	return nil
}

// FilteredMissions returns the missions visible to a kid of the given age
// today. It first makes sure the daily pool has been refreshed for today.
func (s *Service) FilteredMissions(ctx context.Context, age int) ([]storage.Mission, error) {
	const op = "filter missions"

	if age < 0 {
		return nil, s.fail(ctx, op, validationf("age must not be negative"))
	}
	if _, err := s.RefreshDailyMissions(ctx); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	missions, err := s.missions.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}

	var visible []storage.Mission
	for _, m := range missions {
		if s.visibleToday(m, age) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

// visibleToday applies the visibility invariant: active status, age-group
// match, scheduled-date match and weekly-day match, all simultaneously.
func (s *Service) visibleToday(m storage.Mission, age int) bool {
	if m.Status != storage.MissionActive {
		return false
	}

	ageOK := m.AgeGroup == storage.AgeGroupBoth ||
		(age >= 9 && m.AgeGroup == storage.AgeGroupNine) ||
		(age >= 4 && m.AgeGroup == storage.AgeGroupFour)
	if !ageOK {
		return false
	}

	if m.ScheduledDate != "" && m.ScheduledDate != s.today() {
		return false
	}

	if len(m.WeeklyDays) > 0 {
		weekday := int(s.now().Weekday())
		match := false
		for _, d := range m.WeeklyDays {
			if d == weekday {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	return true
}
