package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"coinquest/internal/reward"
	"coinquest/internal/storage"
	"coinquest/internal/store"
)

func newTestService(t *testing.T) (*Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	kv, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	svc := NewService(kv, zerolog.Nop())
	cleanup := func() {
		_ = kv.Close()
	}
	return svc, cleanup
}

// setClock pins the service clock (the reward subsystems keep their own).
func setClock(svc *Service, at time.Time) {
	svc.now = func() time.Time { return at }
}

func addKid(t *testing.T, svc *Service, name string, age int) *storage.Kid {
	t.Helper()
	kid, err := svc.CreateKid(context.Background(), CreateKidInput{Name: name, Age: age})
	if err != nil {
		t.Fatalf("CreateKid(%q): %v", name, err)
	}
	return kid
}

func addMission(t *testing.T, svc *Service, in CreateMissionInput) *storage.Mission {
	t.Helper()
	m, err := svc.CreateMission(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateMission(%q): %v", in.Title, err)
	}
	return m
}

func TestCreateKidDefaultsAndCollision(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "  Emma Rose ", 8)
	if kid.ID != "emmarose" {
		t.Fatalf("id=%q, want emmarose", kid.ID)
	}
	if kid.Name != "Emma Rose" {
		t.Fatalf("name=%q, want trimmed", kid.Name)
	}
	if kid.Coins != 0 || kid.RealMoney != 0 || kid.Stars != 0 {
		t.Fatalf("new kid balances not zeroed: %+v", kid)
	}
	if len(kid.CompletedMissions) != 0 {
		t.Fatalf("new kid has completed missions")
	}
	if kid.AIProfile.LearningStyle != "visual" {
		t.Fatalf("default AI profile missing: %+v", kid.AIProfile)
	}

	_, err := svc.CreateKid(ctx, CreateKidInput{Name: "emma  ROSE", Age: 9})
	if !IsValidation(err) {
		t.Fatalf("expected validation error on id collision, got %v", err)
	}
}

func TestCreateKidValidation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	cases := []CreateKidInput{
		{Name: "", Age: 8},
		{Name: "Zoe", Age: 2},
		{Name: "Zoe", Age: 19},
	}
	for _, in := range cases {
		if _, err := svc.CreateKid(ctx, in); !IsValidation(err) {
			t.Fatalf("CreateKid(%+v): expected validation error, got %v", in, err)
		}
	}
}

func TestCompleteMissionPaysOnce(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Leo", 10)
	mission := addMission(t, svc, CreateMissionInput{Title: "Water the plants", Reward: 10, Type: "chore"})

	res, err := svc.CompleteMission(ctx, kid.ID, mission.ID, "did it before school")
	if err != nil {
		t.Fatalf("CompleteMission: %v", err)
	}
	if res.CoinsAwarded != 10 || res.Kid.Coins != 10 {
		t.Fatalf("awarded=%d coins=%d, want 10/10", res.CoinsAwarded, res.Kid.Coins)
	}
	if res.Streak.Current != 1 {
		t.Fatalf("mission streak=%d, want 1", res.Streak.Current)
	}

	if _, err := svc.CompleteMission(ctx, kid.ID, mission.ID, ""); !IsValidation(err) {
		t.Fatalf("expected validation error on double completion, got %v", err)
	}

	got, err := svc.Kid(ctx, kid.ID)
	if err != nil {
		t.Fatalf("Kid: %v", err)
	}
	if got.Coins != 10 {
		t.Fatalf("double completion changed balance: %d", got.Coins)
	}

	txs, err := svc.KidTransactions(ctx, kid.ID)
	if err != nil {
		t.Fatalf("KidTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("ledger entries=%d, want 1", len(txs))
	}
	tx := txs[0]
	if tx.Type != storage.TxEarn || tx.Amount != 10 || tx.MissionID != mission.ID {
		t.Fatalf("ledger entry=%+v", tx)
	}
	if tx.Description != mission.Title || tx.Notes != "did it before school" {
		t.Fatalf("ledger entry text=%+v", tx)
	}
}

func TestCompleteMissionUnknownIDs(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Mia", 7)
	mission := addMission(t, svc, CreateMissionInput{Title: "Feed the cat", Reward: 5})

	if _, err := svc.CompleteMission(ctx, "nobody", mission.ID, ""); !IsNotFound(err) {
		t.Fatalf("expected not-found for unknown kid, got %v", err)
	}
	if _, err := svc.CompleteMission(ctx, kid.ID, "no-such-mission", ""); !IsNotFound(err) {
		t.Fatalf("expected not-found for unknown mission, got %v", err)
	}
}

func TestUncompleteMissionReversesExactly(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Noah", 9)
	m1 := addMission(t, svc, CreateMissionInput{Title: "Sweep the floor", Reward: 8})
	m2 := addMission(t, svc, CreateMissionInput{Title: "Sweep the floor", Reward: 8})

	if _, err := svc.CompleteMission(ctx, kid.ID, m1.ID, ""); err != nil {
		t.Fatalf("complete m1: %v", err)
	}
	if _, err := svc.CompleteMission(ctx, kid.ID, m2.ID, ""); err != nil {
		t.Fatalf("complete m2: %v", err)
	}

	got, err := svc.UncompleteMission(ctx, kid.ID, m1.ID)
	if err != nil {
		t.Fatalf("UncompleteMission: %v", err)
	}
	if got.Coins != 8 {
		t.Fatalf("coins=%d, want 8", got.Coins)
	}
	if len(got.CompletedMissions) != 1 || got.CompletedMissions[0] != m2.ID {
		t.Fatalf("completed=%v, want just %s", got.CompletedMissions, m2.ID)
	}

	// Even with identical titles, the foreign key removes m1's entry only.
	txs, err := svc.KidTransactions(ctx, kid.ID)
	if err != nil {
		t.Fatalf("KidTransactions: %v", err)
	}
	earns := 0
	for _, tx := range txs {
		if tx.Type == storage.TxEarn && tx.MissionID != "" {
			earns++
			if tx.MissionID != m2.ID {
				t.Fatalf("surviving entry points at %s, want %s", tx.MissionID, m2.ID)
			}
		}
	}
	if earns != 1 {
		t.Fatalf("mission earn entries=%d, want 1", earns)
	}

	if _, err := svc.UncompleteMission(ctx, kid.ID, m1.ID); !IsValidation(err) {
		t.Fatalf("expected validation error undoing twice, got %v", err)
	}
}

func TestUncompleteMissionFloorsAtZero(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Ava", 6)
	mission := addMission(t, svc, CreateMissionInput{Title: "Set the table", Reward: 10})

	if _, err := svc.CompleteMission(ctx, kid.ID, mission.ID, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := svc.ProcessMoneyAction(ctx, kid.ID, storage.TxSpent, 10); err != nil {
		t.Fatalf("spend coins: %v", err)
	}

	got, err := svc.UncompleteMission(ctx, kid.ID, mission.ID)
	if err != nil {
		t.Fatalf("UncompleteMission: %v", err)
	}
	if got.Coins != 0 {
		t.Fatalf("coins=%d, want floor at 0", got.Coins)
	}
}

func TestProcessMoneyActionCoins(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Ben", 11)
	mission := addMission(t, svc, CreateMissionInput{Title: "Homework", Reward: 20})
	if _, err := svc.CompleteMission(ctx, kid.ID, mission.ID, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Over-spends are rejected outright, never clamped.
	if _, err := svc.ProcessMoneyAction(ctx, kid.ID, storage.TxGave, 25); !IsValidation(err) {
		t.Fatalf("expected validation error on overdraft, got %v", err)
	}
	got, _ := svc.Kid(ctx, kid.ID)
	if got.Coins != 20 {
		t.Fatalf("failed action changed balance: %d", got.Coins)
	}

	if _, err := svc.ProcessMoneyAction(ctx, kid.ID, storage.TxSaved, 7.5); !IsValidation(err) {
		t.Fatalf("expected validation error on fractional coins, got %v", err)
	}
	if _, err := svc.ProcessMoneyAction(ctx, kid.ID, storage.TxSaved, -3); !IsValidation(err) {
		t.Fatalf("expected validation error on negative amount, got %v", err)
	}
	if _, err := svc.ProcessMoneyAction(ctx, kid.ID, "Steal", 5); !IsValidation(err) {
		t.Fatalf("expected validation error on unknown action, got %v", err)
	}

	after, err := svc.ProcessMoneyAction(ctx, kid.ID, storage.TxSpent, 12)
	if err != nil {
		t.Fatalf("Spent: %v", err)
	}
	if after.Coins != 8 {
		t.Fatalf("coins=%d, want 8", after.Coins)
	}

	txs, _ := svc.KidTransactions(ctx, kid.ID)
	if len(txs) != 2 {
		t.Fatalf("ledger entries=%d, want 2 (failed actions must not log)", len(txs))
	}
	last := txs[len(txs)-1]
	if last.Type != storage.TxSpent || last.Description != "Spent 12 coins" {
		t.Fatalf("ledger entry=%+v", last)
	}
}

func TestProcessMoneyActionRealMoney(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Ruby", 10)

	if _, err := svc.ProcessMoneyAction(ctx, kid.ID, storage.TxAdd, 10.50); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.ProcessMoneyAction(ctx, kid.ID, storage.TxSpend, 20); !IsValidation(err) {
		t.Fatalf("expected validation error spending more than saved, got %v", err)
	}
	got, err := svc.ProcessMoneyAction(ctx, kid.ID, storage.TxSpend, 3.25)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if got.RealMoney != 7.25 {
		t.Fatalf("realMoney=%v, want 7.25", got.RealMoney)
	}
	if got.Coins != 0 {
		t.Fatalf("real-money actions touched coins: %d", got.Coins)
	}
}

func TestUpdateKidBalanceClamps(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Theo", 8)
	got, err := svc.UpdateKidBalance(ctx, kid.ID, -50, -10)
	if err != nil {
		t.Fatalf("UpdateKidBalance: %v", err)
	}
	if got.Coins != 0 || got.RealMoney != 0 {
		t.Fatalf("balances=%d/%v, want clamped to 0", got.Coins, got.RealMoney)
	}
	if _, err := svc.UpdateKidBalance(ctx, "nobody", 5, 0); !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestVisibilityFilter(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	// Wednesday, 2026-01-07.
	setClock(svc, time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC))

	older := addMission(t, svc, CreateMissionInput{Title: "Long division", AgeGroup: storage.AgeGroupNine, Reward: 10})
	younger := addMission(t, svc, CreateMissionInput{Title: "Count blocks", AgeGroup: storage.AgeGroupFour, Reward: 5})
	everyone := addMission(t, svc, CreateMissionInput{Title: "Brush teeth", Reward: 3})
	todayOnly := addMission(t, svc, CreateMissionInput{Title: "Dentist prep", Reward: 5, ScheduledDate: "2026-01-07"})
	otherDay := addMission(t, svc, CreateMissionInput{Title: "Library run", Reward: 5, ScheduledDate: "2026-01-08"})
	wednesdays := addMission(t, svc, CreateMissionInput{Title: "Trash day", Reward: 6, WeeklyDays: []int{3}})
	weekends := addMission(t, svc, CreateMissionInput{Title: "Wash the car", Reward: 10, WeeklyDays: []int{0, 6}})

	paused := addMission(t, svc, CreateMissionInput{Title: "Paused one", Reward: 5})
	paused.Status = storage.MissionInactive
	if _, err := svc.UpdateMission(ctx, *paused); err != nil {
		t.Fatalf("UpdateMission: %v", err)
	}

	visibleTo := func(age int) map[string]bool {
		t.Helper()
		missions, err := svc.FilteredMissions(ctx, age)
		if err != nil {
			t.Fatalf("FilteredMissions(%d): %v", age, err)
		}
		set := map[string]bool{}
		for _, m := range missions {
			set[m.ID] = true
		}
		return set
	}

	eight := visibleTo(8)
	for id, want := range map[string]bool{
		older.ID:      false,
		younger.ID:    true,
		everyone.ID:   true,
		todayOnly.ID:  true,
		otherDay.ID:   false,
		wednesdays.ID: true,
		weekends.ID:   false,
		paused.ID:     false,
	} {
		if eight[id] != want {
			t.Fatalf("age 8 visibility of %s=%v, want %v", id, eight[id], want)
		}
	}

	ten := visibleTo(10)
	if !ten[older.ID] || !ten[younger.ID] {
		t.Fatalf("age 10 should see both age groups")
	}

	three := visibleTo(3)
	if three[younger.ID] || three[older.ID] || !three[everyone.ID] {
		t.Fatalf("age 3 should only see 'both' missions")
	}

	if _, err := svc.FilteredMissions(ctx, -1); !IsValidation(err) {
		t.Fatalf("expected validation error for negative age, got %v", err)
	}
}

func TestRefreshDailyMissions(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	day1 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	setClock(svc, day1)

	kid := addKid(t, svc, "Iris", 9)
	custom := addMission(t, svc, CreateMissionInput{Title: "Practice piano", Reward: 15})

	ran, err := svc.RefreshDailyMissions(ctx)
	if err != nil {
		t.Fatalf("refresh day1: %v", err)
	}
	if !ran {
		t.Fatalf("expected first refresh to run")
	}

	missions, _ := svc.Missions(ctx)
	daily := map[string]bool{}
	customSeen := false
	for _, m := range missions {
		if m.IsDaily {
			daily[m.ID] = true
		}
		if m.ID == custom.ID {
			customSeen = true
		}
	}
	if len(daily) != dailyPoolSize {
		t.Fatalf("daily missions=%d, want %d", len(daily), dailyPoolSize)
	}
	if !customSeen {
		t.Fatalf("refresh dropped the custom mission")
	}

	// Same day: no-op.
	ran, err = svc.RefreshDailyMissions(ctx)
	if err != nil {
		t.Fatalf("refresh day1 again: %v", err)
	}
	if ran {
		t.Fatalf("second same-day refresh ran")
	}

	if _, err := svc.CompleteMission(ctx, kid.ID, custom.ID, ""); err != nil {
		t.Fatalf("complete custom: %v", err)
	}

	setClock(svc, day1.AddDate(0, 0, 1))
	ran, err = svc.RefreshDailyMissions(ctx)
	if err != nil {
		t.Fatalf("refresh day2: %v", err)
	}
	if !ran {
		t.Fatalf("expected next-day refresh to run")
	}

	missions, _ = svc.Missions(ctx)
	customSeen = false
	newDaily := 0
	for _, m := range missions {
		if m.IsDaily {
			newDaily++
			if daily[m.ID] {
				t.Fatalf("day2 kept day1 daily mission %s", m.ID)
			}
		}
		if m.ID == custom.ID {
			customSeen = true
		}
	}
	if newDaily != dailyPoolSize || !customSeen {
		t.Fatalf("day2 board wrong: daily=%d customSeen=%v", newDaily, customSeen)
	}

	got, _ := svc.Kid(ctx, kid.ID)
	if len(got.CompletedMissions) != 0 {
		t.Fatalf("refresh did not reset completed set: %v", got.CompletedMissions)
	}
	if got.Coins != 15 {
		t.Fatalf("refresh touched the balance: %d", got.Coins)
	}
}

func TestCompletionDrivesWeeklyProgress(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Finn", 9)
	mission := addMission(t, svc, CreateMissionInput{Title: "Rake leaves", Reward: 12})

	if _, err := svc.CompleteMission(ctx, kid.ID, mission.ID, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	progress := svc.Weekly().Progress(ctx, kid.ID)
	if progress["mission_hero"] != 1 {
		t.Fatalf("mission_hero=%d, want 1", progress["mission_hero"])
	}
	if progress["coin_collector"] != 12 {
		t.Fatalf("coin_collector=%d, want 12", progress["coin_collector"])
	}

	board := svc.Weekly().Leaderboard(ctx)
	if len(board) != 1 || board[0].KidID != kid.ID || board[0].Points != 12 {
		t.Fatalf("leaderboard=%+v", board)
	}
}

func TestBuyStock(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "June", 12)
	if _, err := svc.ProcessMoneyAction(ctx, kid.ID, storage.TxAdd, 100); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := svc.BuyStock(ctx, kid.ID, "MOON", 10); !IsValidation(err) {
		t.Fatalf("expected validation error on unknown symbol, got %v", err)
	}
	if _, err := svc.BuyStock(ctx, kid.ID, "TOYZ", 500); !IsValidation(err) {
		t.Fatalf("expected validation error on insufficient funds, got %v", err)
	}

	got, err := svc.BuyStock(ctx, kid.ID, "TOYZ", 51)
	if err != nil {
		t.Fatalf("BuyStock: %v", err)
	}
	if got.RealMoney != 49 {
		t.Fatalf("realMoney=%v, want 49", got.RealMoney)
	}
	if len(got.Portfolio) != 1 {
		t.Fatalf("portfolio=%+v", got.Portfolio)
	}
	h := got.Portfolio[0]
	if h.Symbol != "TOYZ" || h.Price != 25.5 || h.Shares != 2 {
		t.Fatalf("holding=%+v, want 2 shares of TOYZ at 25.5", h)
	}

	txs, _ := svc.KidTransactions(ctx, kid.ID)
	last := txs[len(txs)-1]
	if last.Type != storage.TxSpend || last.Description != "Invested in TOYZ" {
		t.Fatalf("investment ledger entry=%+v", last)
	}
}

func TestStreakSaverPurchaseAndUse(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Ivy", 10)

	if _, err := svc.BuyStreakSaver(ctx, kid.ID, reward.SaverFreeze); !IsValidation(err) {
		t.Fatalf("expected validation error buying without coins, got %v", err)
	}

	if _, err := svc.UpdateKidBalance(ctx, kid.ID, 60, 0); err != nil {
		t.Fatalf("fund kid: %v", err)
	}
	got, err := svc.BuyStreakSaver(ctx, kid.ID, reward.SaverFreeze)
	if err != nil {
		t.Fatalf("BuyStreakSaver: %v", err)
	}
	if got.Coins != 10 {
		t.Fatalf("coins=%d, want 10 after 50-coin freeze", got.Coins)
	}
	if inv := svc.Streaks().PowerUps(ctx, kid.ID); inv[reward.SaverFreeze] != 1 {
		t.Fatalf("inventory=%v, want one freeze", inv)
	}

	txs, _ := svc.KidTransactions(ctx, kid.ID)
	last := txs[len(txs)-1]
	if last.Type != storage.TxSpent || last.Description != "Power-up: Streak Freeze" {
		t.Fatalf("purchase ledger entry=%+v", last)
	}

	if err := svc.UseStreakSaver(ctx, kid.ID, reward.StreakMission, reward.SaverFreeze); err != nil {
		t.Fatalf("UseStreakSaver: %v", err)
	}
	if inv := svc.Streaks().PowerUps(ctx, kid.ID); inv[reward.SaverFreeze] != 0 {
		t.Fatalf("inventory after use=%v, want empty", inv)
	}
	if data := svc.Streaks().Get(ctx, kid.ID, reward.StreakMission); !data.FreezeUsed {
		t.Fatalf("freeze not armed on streak: %+v", data)
	}

	if err := svc.UseStreakSaver(ctx, kid.ID, reward.StreakMission, reward.SaverFreeze); !IsValidation(err) {
		t.Fatalf("expected validation error using empty inventory, got %v", err)
	}
}

func TestGenerateProblems(t *testing.T) {
	for _, age := range []int{6, 12} {
		problems, err := GenerateProblems("math", age, 10)
		if err != nil {
			t.Fatalf("GenerateProblems(math, %d): %v", age, err)
		}
		if len(problems) != 10 {
			t.Fatalf("problems=%d, want 10", len(problems))
		}
		for _, p := range problems {
			if p.Question == "" {
				t.Fatalf("empty question for age %d", age)
			}
			if p.Answer < 0 {
				t.Fatalf("negative answer %d for %q", p.Answer, p.Question)
			}
		}
	}

	problems, err := GenerateProblems("money", 10, 0)
	if err != nil {
		t.Fatalf("GenerateProblems(money): %v", err)
	}
	if len(problems) != defaultProblemCount {
		t.Fatalf("default count=%d, want %d", len(problems), defaultProblemCount)
	}

	if _, err := GenerateProblems("science", 10, 5); !IsValidation(err) {
		t.Fatalf("expected validation error for science, got %v", err)
	}
}

func gameAnswers(correct, total int) []reward.GameResult {
	results := make([]reward.GameResult, total)
	for i := range results {
		results[i] = reward.GameResult{
			Question:   "2 + 2 = ?",
			UserAnswer: "4",
			Correct:    i < correct,
			TimeSpent:  3000,
		}
	}
	return results
}

func TestRecordGameSession(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Omar", 9)

	outcome, err := svc.RecordGameSession(ctx, kid.ID, "math", gameAnswers(8, 10))
	if err != nil {
		t.Fatalf("RecordGameSession: %v", err)
	}
	if outcome.Correct != 8 || outcome.Total != 10 || outcome.Perfect {
		t.Fatalf("outcome=%+v, want 8/10 imperfect", outcome)
	}
	if outcome.CoinsEarned != 16 {
		t.Fatalf("coins earned=%d, want 16 (2 per correct answer)", outcome.CoinsEarned)
	}
	// A 1-day game streak pays one coin scaled by the 1.5x multiplier.
	if outcome.StreakBonus != 2 {
		t.Fatalf("streak bonus=%d, want 2", outcome.StreakBonus)
	}
	if outcome.Kid.Coins != 18 {
		t.Fatalf("balance=%d, want 18", outcome.Kid.Coins)
	}
	if outcome.GameStreak.Current != 1 {
		t.Fatalf("game streak=%d, want 1", outcome.GameStreak.Current)
	}
	if outcome.PerfectStreak.Current != 0 {
		t.Fatalf("perfect streak=%d, want 0 after a miss", outcome.PerfectStreak.Current)
	}
	if outcome.Stats.TotalQuestions != 10 || outcome.Stats.Accuracy != 80 {
		t.Fatalf("stats=%+v, want 10 questions at 80%%", outcome.Stats)
	}

	txs, _ := svc.KidTransactions(ctx, kid.ID)
	if len(txs) != 1 {
		t.Fatalf("ledger entries=%d, want 1", len(txs))
	}
	tx := txs[0]
	if tx.Type != storage.TxEarn || tx.Amount != 18 || tx.Description != "Math game: 8/10 correct" {
		t.Fatalf("ledger entry=%+v", tx)
	}

	if progress := svc.Weekly().Progress(ctx, kid.ID); progress["math_master"] != 1 {
		t.Fatalf("math_master=%d, want 1", progress["math_master"])
	}

	// The daily limit blocks a second session and leaves the balance alone.
	if _, err := svc.RecordGameSession(ctx, kid.ID, "math", gameAnswers(10, 10)); !IsValidation(err) {
		t.Fatalf("expected validation error on second play, got %v", err)
	}
	got, _ := svc.Kid(ctx, kid.ID)
	if got.Coins != 18 {
		t.Fatalf("blocked session changed balance: %d", got.Coins)
	}
}

func TestRecordGameSessionPerfect(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Lena", 10)

	outcome, err := svc.RecordGameSession(ctx, kid.ID, "money", gameAnswers(10, 10))
	if err != nil {
		t.Fatalf("RecordGameSession: %v", err)
	}
	if !outcome.Perfect {
		t.Fatalf("outcome=%+v, want perfect", outcome)
	}
	if outcome.PerfectStreak.Current != 1 {
		t.Fatalf("perfect streak=%d, want 1", outcome.PerfectStreak.Current)
	}
	if outcome.Kid.Coins != 22 {
		t.Fatalf("balance=%d, want 20 + streak bonus 2", outcome.Kid.Coins)
	}

	found := false
	for _, a := range outcome.NewAchievements {
		if a.ID == "math_perfect" {
			found = true
		}
	}
	if !found {
		t.Fatalf("perfect game did not unlock math_perfect: %+v", outcome.NewAchievements)
	}
}

func TestRecordGameSessionValidation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Sami", 7)

	if _, err := svc.RecordGameSession(ctx, kid.ID, "checkers", gameAnswers(1, 1)); !IsValidation(err) {
		t.Fatalf("expected validation error on unknown game type, got %v", err)
	}
	if _, err := svc.RecordGameSession(ctx, kid.ID, "math", nil); !IsValidation(err) {
		t.Fatalf("expected validation error on empty results, got %v", err)
	}
	if _, err := svc.RecordGameSession(ctx, "nobody", "math", gameAnswers(1, 1)); !IsNotFound(err) {
		t.Fatalf("expected not-found for unknown kid, got %v", err)
	}
}

func TestRecordLoginOncePerDay(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	kid := addKid(t, svc, "Max", 8)

	data := svc.RecordLogin(ctx, kid.ID)
	if data.Current != 1 {
		t.Fatalf("login streak=%d, want 1", data.Current)
	}
	data = svc.RecordLogin(ctx, kid.ID)
	if data.Current != 1 {
		t.Fatalf("same-day login incremented: %d", data.Current)
	}
	if got := svc.RecordLogin(ctx, ""); got.Current != 0 {
		t.Fatalf("empty kid id recorded a login: %+v", got)
	}
}
