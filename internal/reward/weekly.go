package reward

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"coinquest/internal/store"
)

// WeekInfo identifies the Monday-anchored week a moment belongs to.
type WeekInfo struct {
	WeekID   string
	Start    time.Time
	End      time.Time
	DaysLeft int
}

// WeekOf computes the week bucket for now. The id embeds the Monday's date so
// progress and leaderboard keys roll over together.
func WeekOf(now time.Time) WeekInfo {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, 7)
	daysLeft := int(end.Sub(now).Hours()/24) + 1
	if daysLeft > 7 {
		daysLeft = 7
	}
	return WeekInfo{
		WeekID:   fmt.Sprintf("week_%d_%02d_%02d", start.Year(), int(start.Month()), start.Day()),
		Start:    start,
		End:      end.Add(-time.Nanosecond),
		DaysLeft: daysLeft,
	}
}

type Challenge struct {
	ID          string
	Title       string
	Description string
	Target      int
	Reward      int
	Emoji       string
}

func Challenges() []Challenge {
	return []Challenge{
		{ID: "math_master", Title: "Math Master Challenge", Description: "Complete 5 math games this week", Target: 5, Reward: 50, Emoji: "🧮"},
		{ID: "mission_hero", Title: "Mission Hero", Description: "Complete 10 missions this week", Target: 10, Reward: 75, Emoji: "🎯"},
		{ID: "streak_keeper", Title: "Streak Keeper", Description: "Login 7 days in a row", Target: 7, Reward: 100, Emoji: "🔥"},
		{ID: "coin_collector", Title: "Coin Collector", Description: "Earn 200 coins this week", Target: 200, Reward: 25, Emoji: "💰"},
	}
}

// LeaderboardEntry accumulates points per kid within one week.
type LeaderboardEntry struct {
	KidID   string `json:"kidId"`
	KidName string `json:"kidName"`
	Points  int    `json:"points"`
}

const leaderboardSize = 10

// Weekly tracks per-kid challenge counters and the shared leaderboard, both
// keyed by week id. Advisory like the other reward subsystems.
type Weekly struct {
	kv  *store.Store
	log zerolog.Logger
	now func() time.Time
}

func NewWeekly(kv *store.Store, log zerolog.Logger) *Weekly {
	return &Weekly{kv: kv, log: log, now: time.Now}
}

func (w *Weekly) progressKey(kidID string) string {
	return fmt.Sprintf("weekly_progress_%s_%s", kidID, WeekOf(w.now()).WeekID)
}

func (w *Weekly) leaderboardKey() string {
	return fmt.Sprintf("weekly_leaderboard_%s", WeekOf(w.now()).WeekID)
}

func (w *Weekly) Progress(ctx context.Context, kidID string) map[string]int {
	progress := map[string]int{}
	if _, err := w.kv.GetJSON(ctx, w.progressKey(kidID), &progress); err != nil {
		w.log.Debug().Err(err).Str("kid", kidID).Msg("weekly progress read failed")
		return map[string]int{}
	}
	return progress
}

// Increment adds delta to one challenge counter and returns the full map.
func (w *Weekly) Increment(ctx context.Context, kidID, challengeID string, delta int) map[string]int {
	progress := w.Progress(ctx, kidID)
	progress[challengeID] += delta
	if err := w.kv.PutJSON(ctx, w.progressKey(kidID), progress); err != nil {
		w.log.Debug().Err(err).Str("kid", kidID).Msg("weekly progress write failed")
	}
	return progress
}

func (w *Weekly) Leaderboard(ctx context.Context) []LeaderboardEntry {
	var board []LeaderboardEntry
	if _, err := w.kv.GetJSON(ctx, w.leaderboardKey(), &board); err != nil {
		w.log.Debug().Err(err).Msg("leaderboard read failed")
		return nil
	}
	return board
}

// AddPoints credits points to the kid's leaderboard entry, re-sorts by score
// descending (stable on ties), and truncates to the top 10.
func (w *Weekly) AddPoints(ctx context.Context, kidID, kidName string, points int) []LeaderboardEntry {
	board := w.Leaderboard(ctx)
	found := false
	for i := range board {
		if board[i].KidID == kidID {
			board[i].Points += points
			found = true
			break
		}
	}
	if !found {
		board = append(board, LeaderboardEntry{KidID: kidID, KidName: kidName, Points: points})
	}
	sort.SliceStable(board, func(i, j int) bool { return board[i].Points > board[j].Points })
	if len(board) > leaderboardSize {
		board = board[:leaderboardSize]
	}
	if err := w.kv.PutJSON(ctx, w.leaderboardKey(), board); err != nil {
		w.log.Debug().Err(err).Msg("leaderboard write failed")
	}
	return board
}

// Completed returns the challenges whose target the kid has reached this week.
func (w *Weekly) Completed(ctx context.Context, kidID string) []Challenge {
	progress := w.Progress(ctx, kidID)
	var done []Challenge
	for _, c := range Challenges() {
		if progress[c.ID] >= c.Target {
			done = append(done, c)
		}
	}
	return done
}
