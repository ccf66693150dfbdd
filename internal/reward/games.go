package reward

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"coinquest/internal/store"
)

// One play per game type per day, 10 questions each.
var dailyGameLimits = map[string]int{
	"math":      1,
	"money":     1,
	"english":   1,
	"science":   1,
	"geography": 1,
	"focus":     1,
}

// GameTypes lists the known mini-game categories.
func GameTypes() []string {
	return []string{"math", "money", "english", "science", "geography", "focus"}
}

const historyLimit = 50

// GameResult is one answered question in a kid's game history.
type GameResult struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	UserAnswer string    `json:"userAnswer,omitempty"`
	Correct    bool      `json:"correct"`
	TimeSpent  int       `json:"timeSpent"` // milliseconds
	Timestamp  time.Time `json:"timestamp"`
}

// GameStats summarizes a kid's history for one game type.
type GameStats struct {
	Accuracy       int // percent
	TotalQuestions int
	AvgTimeSec     int
	Streak         int // trailing consecutive correct answers
}

// Games tracks per-day play limits and a bounded result history per
// (kid, game type).
type Games struct {
	kv  *store.Store
	log zerolog.Logger
	now func() time.Time
}

func NewGames(kv *store.Store, log zerolog.Logger) *Games {
	return &Games{kv: kv, log: log, now: time.Now}
}

func (g *Games) playsKey(kidID, gameType string) string {
	return fmt.Sprintf("game_plays_%s_%s_%s", kidID, gameType, g.now().Format(dayLayout))
}

func historyKey(kidID, gameType string) string {
	return fmt.Sprintf("%s_history_%s", gameType, kidID)
}

func (g *Games) PlaysToday(ctx context.Context, kidID, gameType string) int {
	raw, err := g.kv.Get(ctx, g.playsKey(kidID, gameType))
	if err != nil || raw == nil {
		return 0
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0
	}
	return n
}

func (g *Games) CanPlay(ctx context.Context, kidID, gameType string) bool {
	if kidID == "" || gameType == "" {
		return false
	}
	limit, ok := dailyGameLimits[gameType]
	if !ok {
		limit = 2
	}
	return g.PlaysToday(ctx, kidID, gameType) < limit
}

func (g *Games) RemainingPlays(ctx context.Context, kidID, gameType string) int {
	limit, ok := dailyGameLimits[gameType]
	if !ok {
		limit = 2
	}
	remaining := limit - g.PlaysToday(ctx, kidID, gameType)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (g *Games) RecordPlay(ctx context.Context, kidID, gameType string) {
	plays := g.PlaysToday(ctx, kidID, gameType) + 1
	if err := g.kv.Put(ctx, g.playsKey(kidID, gameType), []byte(strconv.Itoa(plays))); err != nil {
		g.log.Debug().Err(err).Str("kid", kidID).Str("game", gameType).Msg("game play write failed")
	}
}

// History returns the bounded result log, newest last.
func (g *Games) History(ctx context.Context, kidID, gameType string) []GameResult {
	var history []GameResult
	if _, err := g.kv.GetJSON(ctx, historyKey(kidID, gameType), &history); err != nil {
		g.log.Debug().Err(err).Str("kid", kidID).Str("game", gameType).Msg("game history read failed")
		return nil
	}
	return history
}

// RecordResult appends one answered question, dropping the oldest entry once
// the ring reaches its cap.
func (g *Games) RecordResult(ctx context.Context, kidID, gameType string, result GameResult) {
	if result.Timestamp.IsZero() {
		result.Timestamp = g.now()
	}
	if result.ID == "" {
		result.ID = strconv.FormatInt(g.now().UnixMilli(), 10)
	}
	history := g.History(ctx, kidID, gameType)
	history = append(history, result)
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	if err := g.kv.PutJSON(ctx, historyKey(kidID, gameType), history); err != nil {
		g.log.Debug().Err(err).Str("kid", kidID).Str("game", gameType).Msg("game history write failed")
	}
}

func (g *Games) Stats(ctx context.Context, kidID, gameType string) GameStats {
	history := g.History(ctx, kidID, gameType)
	if len(history) == 0 {
		return GameStats{}
	}

	correct := 0
	totalTime := 0
	for _, r := range history {
		if r.Correct {
			correct++
		}
		totalTime += r.TimeSpent
	}

	streak := 0
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].Correct {
			break
		}
		streak++
	}

	return GameStats{
		Accuracy:       correct * 100 / len(history),
		TotalQuestions: len(history),
		AvgTimeSec:     totalTime / len(history) / 1000,
		Streak:         streak,
	}
}

// PlayedTypes returns the game types the kid has any history for.
func (g *Games) PlayedTypes(ctx context.Context, kidID string) []string {
	var played []string
	for _, typ := range GameTypes() {
		if len(g.History(ctx, kidID, typ)) > 0 {
			played = append(played, typ)
		}
	}
	return played
}
