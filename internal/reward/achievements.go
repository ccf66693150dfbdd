package reward

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"coinquest/internal/store"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AchievementDef is a catalog entry. Points live here, not per unlock.
type AchievementDef struct {
	ID          string
	Name        string
	Description string
	Emoji       string
	Rarity      Rarity
	Points      int
}

var Catalog = map[string]AchievementDef{
	"streak_3":  {ID: "streak_3", Name: "Getting Started", Description: "3 day login streak", Emoji: "🔥", Rarity: RarityCommon, Points: 10},
	"streak_7":  {ID: "streak_7", Name: "Week Warrior", Description: "7 day login streak", Emoji: "⚡", Rarity: RarityUncommon, Points: 25},
	"streak_30": {ID: "streak_30", Name: "Month Master", Description: "30 day login streak", Emoji: "💎", Rarity: RarityRare, Points: 100},

	"missions_10":  {ID: "missions_10", Name: "Mission Rookie", Description: "Complete 10 missions", Emoji: "🎯", Rarity: RarityCommon, Points: 15},
	"missions_50":  {ID: "missions_50", Name: "Mission Expert", Description: "Complete 50 missions", Emoji: "🏹", Rarity: RarityUncommon, Points: 50},
	"missions_100": {ID: "missions_100", Name: "Mission Legend", Description: "Complete 100 missions", Emoji: "🏆", Rarity: RarityEpic, Points: 150},

	"math_perfect": {ID: "math_perfect", Name: "Math Genius", Description: "Perfect score in math game", Emoji: "🧮", Rarity: RarityUncommon, Points: 30},
	"all_games":    {ID: "all_games", Name: "Game Explorer", Description: "Play all game types", Emoji: "🎮", Rarity: RarityRare, Points: 75},

	"coins_100":  {ID: "coins_100", Name: "Coin Collector", Description: "Earn 100 coins", Emoji: "💰", Rarity: RarityCommon, Points: 20},
	"coins_500":  {ID: "coins_500", Name: "Treasure Hunter", Description: "Earn 500 coins", Emoji: "💎", Rarity: RarityUncommon, Points: 40},
	"coins_1000": {ID: "coins_1000", Name: "Millionaire", Description: "Earn 1000 coins", Emoji: "👑", Rarity: RarityEpic, Points: 100},

	"early_bird": {ID: "early_bird", Name: "Early Bird", Description: "Complete mission before 9 AM", Emoji: "🌅", Rarity: RarityUncommon, Points: 25},
	"night_owl":  {ID: "night_owl", Name: "Night Owl", Description: "Complete mission after 8 PM", Emoji: "🦉", Rarity: RarityUncommon, Points: 25},
}

// Stats is the caller-supplied snapshot that unlock thresholds are checked
// against.
type Stats struct {
	LoginStreak          int
	TotalMissions        int
	TotalCoins           int
	PerfectGames         int
	GamesPlayed          []string
	MissionJustCompleted bool
}

// AchievementStats summarizes a kid's unlocks.
type AchievementStats struct {
	Total       int
	TotalPoints int
	RarityCount map[Rarity]int
	Completion  int // percent of catalog
}

// Achievements maintains the monotonically growing unlock set per kid. Unlocks
// are idempotent via set membership; a one-shot timestamp key records when
// each id was earned.
type Achievements struct {
	kv  *store.Store
	log zerolog.Logger
	now func() time.Time
}

func NewAchievements(kv *store.Store, log zerolog.Logger) *Achievements {
	return &Achievements{kv: kv, log: log, now: time.Now}
}

func achievementsKey(kidID string) string {
	return fmt.Sprintf("achievements_%s", kidID)
}

func (a *Achievements) Unlocked(ctx context.Context, kidID string) []string {
	if kidID == "" {
		return nil
	}
	var ids []string
	if _, err := a.kv.GetJSON(ctx, achievementsKey(kidID), &ids); err != nil {
		a.log.Debug().Err(err).Str("kid", kidID).Msg("achievements read failed")
		return nil
	}
	return ids
}

// Unlock adds an id to the kid's set. It returns the catalog entry the first
// time and nil on repeats or unknown ids.
func (a *Achievements) Unlock(ctx context.Context, kidID, id string) *AchievementDef {
	def, ok := Catalog[id]
	if !ok || kidID == "" {
		return nil
	}
	ids := a.Unlocked(ctx, kidID)
	for _, have := range ids {
		if have == id {
			return nil
		}
	}
	ids = append(ids, id)
	if err := a.kv.PutJSON(ctx, achievementsKey(kidID), ids); err != nil {
		a.log.Debug().Err(err).Str("kid", kidID).Str("achievement", id).Msg("achievement write failed")
		return nil
	}
	stampKey := fmt.Sprintf("achievement_time_%s_%s", kidID, id)
	if err := a.kv.Put(ctx, stampKey, []byte(a.now().Format(time.RFC3339))); err != nil {
		a.log.Debug().Err(err).Str("kid", kidID).Msg("achievement timestamp write failed")
	}
	return &def
}

// Check compares the snapshot against every threshold and returns the
// newly-unlocked entries, for notification display. Re-invoking with the same
// or lower stats returns nothing new.
func (a *Achievements) Check(ctx context.Context, kidID string, stats Stats) []AchievementDef {
	var unlocked []AchievementDef
	add := func(id string) {
		if def := a.Unlock(ctx, kidID, id); def != nil {
			unlocked = append(unlocked, *def)
		}
	}

	if stats.LoginStreak >= 3 {
		add("streak_3")
	}
	if stats.LoginStreak >= 7 {
		add("streak_7")
	}
	if stats.LoginStreak >= 30 {
		add("streak_30")
	}

	if stats.TotalMissions >= 10 {
		add("missions_10")
	}
	if stats.TotalMissions >= 50 {
		add("missions_50")
	}
	if stats.TotalMissions >= 100 {
		add("missions_100")
	}

	if stats.TotalCoins >= 100 {
		add("coins_100")
	}
	if stats.TotalCoins >= 500 {
		add("coins_500")
	}
	if stats.TotalCoins >= 1000 {
		add("coins_1000")
	}

	if stats.PerfectGames > 0 {
		add("math_perfect")
	}
	if len(stats.GamesPlayed) >= 4 {
		add("all_games")
	}

	if stats.MissionJustCompleted {
		hour := a.now().Hour()
		if hour < 9 {
			add("early_bird")
		}
		if hour >= 20 {
			add("night_owl")
		}
	}

	return unlocked
}

func (a *Achievements) Summary(ctx context.Context, kidID string) AchievementStats {
	out := AchievementStats{RarityCount: map[Rarity]int{}}
	ids := a.Unlocked(ctx, kidID)
	for _, id := range ids {
		def, ok := Catalog[id]
		if !ok {
			continue
		}
		out.Total++
		out.TotalPoints += def.Points
		out.RarityCount[def.Rarity]++
	}
	if len(Catalog) > 0 {
		out.Completion = out.Total * 100 / len(Catalog)
	}
	return out
}
