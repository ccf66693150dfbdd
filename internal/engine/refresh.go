package engine

import (
	"context"
	"fmt"
	"math/rand"

	"coinquest/internal/storage"
)

const dailyPoolSize = 5

// dailyPool is the fixed template set the daily missions are sampled from.
func dailyPool() []storage.Mission {
	return []storage.Mission{
		{Title: "Make Your Bed", Description: "Make your bed neatly", AgeGroup: storage.AgeGroupBoth, Reward: 5, Type: "chore"},
		{Title: "Math Practice", Description: "Complete 10 math problems", AgeGroup: storage.AgeGroupNine, Reward: 10, Type: "math"},
		{Title: "Count to 10", Description: "Count from 1 to 10", AgeGroup: storage.AgeGroupFour, Reward: 3, Type: "math"},
		{Title: "Help with Dishes", Description: "Help put dishes away", AgeGroup: storage.AgeGroupBoth, Reward: 8, Type: "chore"},
		{Title: "Focus Time", Description: "5 minutes of quiet focus", AgeGroup: storage.AgeGroupBoth, Reward: 7, Type: "focus"},
		{Title: "Tidy Toys", Description: "Put all toys in their place", AgeGroup: storage.AgeGroupFour, Reward: 4, Type: "chore"},
		{Title: "Reading Time", Description: "Read for 15 minutes", AgeGroup: storage.AgeGroupNine, Reward: 8, Type: "focus"},
		{Title: "Help Cook", Description: "Help prepare a meal", AgeGroup: storage.AgeGroupBoth, Reward: 12, Type: "chore"},
		{Title: "Practice Writing", Description: "Write your name 5 times", AgeGroup: storage.AgeGroupFour, Reward: 6, Type: "focus"},
		{Title: "Money Math", Description: "Count coins and bills", AgeGroup: storage.AgeGroupNine, Reward: 15, Type: "math"},
	}
}

// RefreshDailyMissions regenerates the daily mission partition once per
// calendar day, gated by the stored refresh marker. It reports whether a
// refresh ran. The operation is idempotent for a given date: a second call on
// the same day changes nothing.
//
// Only isDaily missions are replaced; parent-authored missions survive. Every
// kid's completed set is reset so yesterday's completions do not gate today's
// pool.
func (s *Service) RefreshDailyMissions(ctx context.Context) (bool, error) {
	const op = "daily mission refresh"

	today := s.today()
	last, err := s.missions.LastRefresh(ctx)
	if err != nil {
		return false, s.fail(ctx, op, err)
	}
	if last == today {
		return false, nil
	}

	existing, err := s.missions.List(ctx)
	if err != nil {
		return false, s.fail(ctx, op, err)
	}
	var kept []storage.Mission
	for _, m := range existing {
		if !m.IsDaily {
			kept = append(kept, m)
		}
	}

	pool := dailyPool()
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	now := s.now()
	for i := 0; i < dailyPoolSize && i < len(pool); i++ {
		m := pool[i]
		m.ID = fmt.Sprintf("daily-%d-%d", now.UnixMilli(), i)
		m.Status = storage.MissionActive
		m.IsDaily = true
		m.CreatedAt = now
		kept = append(kept, m)
	}

	if err := s.missions.Replace(ctx, kept); err != nil {
		return false, s.fail(ctx, op, err)
	}

	kids, err := s.kids.List(ctx)
	if err != nil {
		return false, s.fail(ctx, op, err)
	}
	for _, kid := range kids {
		kid.CompletedMissions = []string{}
		if _, err := s.kids.Update(ctx, kid); err != nil {
			return false, s.fail(ctx, op, err)
		}
	}

	if err := s.missions.SetLastRefresh(ctx, today); err != nil {
		return false, s.fail(ctx, op, err)
	}
	return true, nil
}
