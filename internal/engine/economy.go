package engine

import (
	"context"
	"fmt"
	"math"

	"coinquest/internal/reward"
	"coinquest/internal/storage"
)

// CompleteResult reports what a mission completion paid out, including the
// best-effort reward side effects, for notification display.
type CompleteResult struct {
	Kid                 *storage.Kid
	Mission             *storage.Mission
	CoinsAwarded        int
	Streak              reward.StreakData
	StreakReward        *reward.StreakReward
	NewAchievements     []reward.AchievementDef
	CompletedChallenges []reward.Challenge
}

// CompleteMission is the economy core: award coins, mark the mission
// completed, append the earn transaction, then drive the advisory reward
// pipeline.
//
// The kid write and the ledger append are two independent store writes. If
// the first succeeds and the second fails the kid is paid but unlogged; that
// inconsistency is surfaced to the caller as an error rather than hidden.
func (s *Service) CompleteMission(ctx context.Context, kidID, missionID, notes string) (*CompleteResult, error) {
	const op = "complete mission"

	if err := requireID(kidID, "kid id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if err := requireID(missionID, "mission id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	kid, err := s.kids.Get(ctx, kidID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if kid == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "kid", ID: kidID})
	}

	// Idempotency guard: completing twice must not double-pay.
	for _, done := range kid.CompletedMissions {
		if done == missionID {
			return nil, s.fail(ctx, op, validationf("mission already completed"))
		}
	}

	mission, err := s.missions.Get(ctx, missionID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if mission == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "mission", ID: missionID})
	}
	// A negative reward is corrupt data, not a zero payout.
	if mission.Reward < 0 {
		return nil, s.fail(ctx, op, fmt.Errorf("mission %q has corrupt reward %d", missionID, mission.Reward))
	}

	kid.Coins += mission.Reward
	kid.CompletedMissions = append(kid.CompletedMissions, missionID)
	updated, err := s.kids.Update(ctx, *kid)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if updated == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "kid", ID: kidID})
	}

	tx := storage.Transaction{
		ID:          newTxID(s.now()),
		KidID:       kidID,
		MissionID:   missionID,
		Type:        storage.TxEarn,
		Amount:      float64(mission.Reward),
		Description: mission.Title,
		Notes:       notes,
		Timestamp:   s.now(),
	}
	if err := s.txs.Append(ctx, tx); err != nil {
		return nil, s.fail(ctx, op, fmt.Errorf("mission paid but ledger write failed: %w", err))
	}

	result := &CompleteResult{Kid: updated, Mission: mission, CoinsAwarded: mission.Reward}
	s.applyCompletionRewards(ctx, result)
	return result, nil
}

// applyCompletionRewards runs the advisory pipeline after the economy commit:
// streak, streak threshold payout, weekly challenges, leaderboard,
// achievements, avatar mood, pet growth. Each step is best-effort and must
// never undo or block the authoritative coin award.
func (s *Service) applyCompletionRewards(ctx context.Context, result *CompleteResult) {
	kid := result.Kid

	result.Streak = s.streaks.Update(ctx, kid.ID, reward.StreakMission, true)
	if r := s.streaks.CheckReward(ctx, kid.ID, reward.StreakMission, result.Streak.Current); r != nil {
		result.StreakReward = r
		if paid, err := s.payBonus(ctx, kid.ID, r.Coins, "Streak reward: "+r.Title); err != nil {
			s.log.Debug().Err(err).Str("kid", kid.ID).Msg("streak reward payout failed")
		} else {
			result.Kid = paid
			kid = paid
		}
	}

	s.weekly.Increment(ctx, kid.ID, "mission_hero", 1)
	s.weekly.Increment(ctx, kid.ID, "coin_collector", result.CoinsAwarded)
	s.weekly.AddPoints(ctx, kid.ID, kid.Name, result.CoinsAwarded)
	result.CompletedChallenges = s.weekly.Completed(ctx, kid.ID)

	result.NewAchievements = s.achievements.Check(ctx, kid.ID, s.statsSnapshot(ctx, kid, true))
	if len(result.NewAchievements) > 0 {
		s.avatars.SetMood(ctx, kid.ID, reward.TriggerAchievementUnlock)
	} else {
		s.avatars.SetMood(ctx, kid.ID, reward.TriggerMissionComplete)
	}
	s.avatars.FeedPet(ctx, kid.ID, 1)
}

// payBonus applies an advisory coin payout through the sanctioned balance
// path and logs it to the ledger.
func (s *Service) payBonus(ctx context.Context, kidID string, coins int, description string) (*storage.Kid, error) {
	kid, err := s.UpdateKidBalance(ctx, kidID, coins, 0)
	if err != nil {
		return nil, err
	}
	if kid == nil {
		return nil, NotFoundError{Entity: "kid", ID: kidID}
	}
	tx := storage.Transaction{
		ID:          newTxID(s.now()),
		KidID:       kidID,
		Type:        storage.TxEarn,
		Amount:      float64(coins),
		Description: description,
		Timestamp:   s.now(),
	}
	if err := s.txs.Append(ctx, tx); err != nil {
		return nil, err
	}
	return kid, nil
}

// statsSnapshot assembles the achievement-check snapshot from the ledger and
// the reward subsystems. justCompleted gates the time-of-day achievements,
// which only make sense right after a mission completion.
func (s *Service) statsSnapshot(ctx context.Context, kid *storage.Kid, justCompleted bool) reward.Stats {
	totalMissions := 0
	if txs, err := s.txs.ListByKid(ctx, kid.ID); err == nil {
		for _, t := range txs {
			if t.Type == storage.TxEarn && t.MissionID != "" {
				totalMissions++
			}
		}
	}

	played := s.games.PlayedTypes(ctx, kid.ID)
	perfect := 0
	for _, typ := range played {
		stats := s.games.Stats(ctx, kid.ID, typ)
		if stats.TotalQuestions > 0 && stats.Accuracy == 100 {
			perfect++
		}
	}

	return reward.Stats{
		LoginStreak:          s.streaks.Get(ctx, kid.ID, reward.StreakLogin).Current,
		TotalMissions:        totalMissions,
		TotalCoins:           kid.Coins,
		PerfectGames:         perfect,
		GamesPlayed:          played,
		MissionJustCompleted: justCompleted,
	}
}

// UncompleteMission is the inverse of CompleteMission: deduct the reward
// (floored at zero), unmark the mission, and delete exactly the matching earn
// entry. Matching prefers the missionId foreign key; legacy entries without
// one fall back to the most recent (kid, title, earn) match.
func (s *Service) UncompleteMission(ctx context.Context, kidID, missionID string) (*storage.Kid, error) {
	const op = "uncomplete mission"

	if err := requireID(kidID, "kid id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if err := requireID(missionID, "mission id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	kid, err := s.kids.Get(ctx, kidID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if kid == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "kid", ID: kidID})
	}

	mission, err := s.missions.Get(ctx, missionID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if mission == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "mission", ID: missionID})
	}

	completedAt := -1
	for i, done := range kid.CompletedMissions {
		if done == missionID {
			completedAt = i
			break
		}
	}
	if completedAt < 0 {
		return nil, s.fail(ctx, op, validationf("mission not completed yet"))
	}

	kid.Coins -= mission.Reward
	if kid.Coins < 0 {
		kid.Coins = 0
	}
	kid.CompletedMissions = append(kid.CompletedMissions[:completedAt], kid.CompletedMissions[completedAt+1:]...)
	updated, err := s.kids.Update(ctx, *kid)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if updated == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "kid", ID: kidID})
	}

	txs, err := s.txs.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	remove := -1
	for i := len(txs) - 1; i >= 0; i-- {
		t := txs[i]
		if t.KidID != kidID || t.Type != storage.TxEarn {
			continue
		}
		if t.MissionID == missionID || (t.MissionID == "" && t.Description == mission.Title) {
			remove = i
			break
		}
	}
	if remove >= 0 {
		txs = append(txs[:remove], txs[remove+1:]...)
		if err := s.txs.Replace(ctx, txs); err != nil {
			return nil, s.fail(ctx, op, err)
		}
	}

	return updated, nil
}

var moneyDescriptions = map[string]string{
	storage.TxSaved: "Saved %d coins",
	storage.TxSpent: "Spent %d coins",
	storage.TxGave:  "Gave %d coins",
	storage.TxAdd:   "Added to savings",
	storage.TxSpend: "Spent earnings",
}

func moneyDescription(actionType string, amount float64) string {
	tmpl, ok := moneyDescriptions[actionType]
	if !ok {
		return fmt.Sprintf("%s: %g", actionType, amount)
	}
	switch actionType {
	case storage.TxSaved, storage.TxSpent, storage.TxGave:
		return fmt.Sprintf(tmpl, int(amount))
	default:
		return tmpl
	}
}

// ProcessMoneyAction applies a manual balance change. Saved/Spent/Gave deduct
// coins; Add and Spend adjust the real-money figure. Over-spends are rejected
// outright, never clamped. Every success appends exactly one transaction.
func (s *Service) ProcessMoneyAction(ctx context.Context, kidID, actionType string, amount float64) (*storage.Kid, error) {
	const op = "money action"

	if err := requireID(kidID, "kid id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if err := validateAmount(amount); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	kid, err := s.kids.Get(ctx, kidID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if kid == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "kid", ID: kidID})
	}

	switch actionType {
	case storage.TxSaved, storage.TxSpent, storage.TxGave:
		if amount != math.Trunc(amount) {
			return nil, s.fail(ctx, op, validationf("coin amounts must be whole numbers"))
		}
		coins := int(amount)
		if kid.Coins < coins {
			return nil, s.fail(ctx, op, validationf("insufficient coins"))
		}
		kid.Coins -= coins
	case storage.TxAdd:
		kid.RealMoney += amount
	case storage.TxSpend:
		if kid.RealMoney < amount {
			return nil, s.fail(ctx, op, validationf("insufficient real money"))
		}
		kid.RealMoney -= amount
	default:
		return nil, s.fail(ctx, op, validationf("invalid action type %q", actionType))
	}

	updated, err := s.kids.Update(ctx, *kid)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if updated == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "kid", ID: kidID})
	}

	tx := storage.Transaction{
		ID:          newTxID(s.now()),
		KidID:       kidID,
		Type:        actionType,
		Amount:      amount,
		Description: moneyDescription(actionType, amount),
		Timestamp:   s.now(),
	}
	if err := s.txs.Append(ctx, tx); err != nil {
		return nil, s.fail(ctx, op, fmt.Errorf("balance updated but ledger write failed: %w", err))
	}

	return updated, nil
}

func (s *Service) KidTransactions(ctx context.Context, kidID string) ([]storage.Transaction, error) {
	txs, err := s.txs.ListByKid(ctx, kidID)
	if err != nil {
		return nil, s.fail(ctx, "list transactions", err)
	}
	return txs, nil
}
