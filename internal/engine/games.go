package engine

import (
	"context"
	"fmt"

	"coinquest/internal/reward"
	"coinquest/internal/storage"
)

const coinsPerCorrectAnswer = 2

// GameOutcome reports what one game session paid out and moved.
type GameOutcome struct {
	Kid             *storage.Kid
	Correct         int
	Total           int
	Perfect         bool
	CoinsEarned     int
	StreakBonus     int
	GameStreak      reward.StreakData
	PerfectStreak   reward.StreakData
	StreakReward    *reward.StreakReward
	NewAchievements []reward.AchievementDef
	Stats           reward.GameStats
}

// RecordGameSession settles one finished game: it charges the daily play
// limit, stores the per-question results, pays two coins per correct answer
// plus the game streak bonus through the ledger, and drives the game and
// perfect streaks. An imperfect session breaks the perfect streak the same
// way a missed day would.
func (s *Service) RecordGameSession(ctx context.Context, kidID, gameType string, results []reward.GameResult) (*GameOutcome, error) {
	const op = "record game session"

	if err := requireID(kidID, "kid id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	known := false
	for _, typ := range reward.GameTypes() {
		if typ == gameType {
			known = true
			break
		}
	}
	if !known {
		return nil, s.fail(ctx, op, validationf("unknown game type %q", gameType))
	}
	if len(results) == 0 {
		return nil, s.fail(ctx, op, validationf("no answers recorded"))
	}

	kid, err := s.kids.Get(ctx, kidID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if kid == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "kid", ID: kidID})
	}
	if !s.games.CanPlay(ctx, kidID, gameType) {
		return nil, s.fail(ctx, op, validationf("daily play limit for %s reached", gameType))
	}

	s.games.RecordPlay(ctx, kidID, gameType)
	correct := 0
	for _, r := range results {
		s.games.RecordResult(ctx, kidID, gameType, r)
		if r.Correct {
			correct++
		}
	}
	perfect := correct == len(results)

	outcome := &GameOutcome{
		Kid:           kid,
		Correct:       correct,
		Total:         len(results),
		Perfect:       perfect,
		CoinsEarned:   correct * coinsPerCorrectAnswer,
		GameStreak:    s.streaks.Update(ctx, kidID, reward.StreakGame, true),
		PerfectStreak: s.streaks.Update(ctx, kidID, reward.StreakPerfect, perfect),
	}
	outcome.StreakBonus = s.streaks.Bonus(ctx, kidID, reward.StreakGame)

	if total := outcome.CoinsEarned + outcome.StreakBonus; total > 0 {
		description := fmt.Sprintf("%s game: %d/%d correct", titleCase(gameType), correct, len(results))
		paid, err := s.payBonus(ctx, kidID, total, description)
		if err != nil {
			return nil, s.fail(ctx, op, err)
		}
		outcome.Kid = paid
		kid = paid
	}

	// Advisory from here on, like the mission completion pipeline.
	if r := s.streaks.CheckReward(ctx, kidID, reward.StreakGame, outcome.GameStreak.Current); r != nil {
		outcome.StreakReward = r
		if paid, err := s.payBonus(ctx, kidID, r.Coins, "Streak reward: "+r.Title); err != nil {
			s.log.Debug().Err(err).Str("kid", kidID).Msg("game streak reward payout failed")
		} else {
			outcome.Kid = paid
			kid = paid
		}
	}

	if gameType == "math" {
		s.weekly.Increment(ctx, kidID, "math_master", 1)
	}
	s.weekly.AddPoints(ctx, kidID, kid.Name, outcome.CoinsEarned+outcome.StreakBonus)

	outcome.NewAchievements = s.achievements.Check(ctx, kidID, s.statsSnapshot(ctx, kid, false))
	outcome.Stats = s.games.Stats(ctx, kidID, gameType)

	switch {
	case len(outcome.NewAchievements) > 0:
		s.avatars.SetMood(ctx, kidID, reward.TriggerAchievementUnlock)
	case outcome.Stats.Accuracy >= 80:
		s.avatars.SetMood(ctx, kidID, reward.TriggerGoodPerformance)
	}
	s.avatars.FeedPet(ctx, kidID, 1)

	return outcome, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
