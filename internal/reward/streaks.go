package reward

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"coinquest/internal/store"
)

type StreakType string

const (
	StreakLogin   StreakType = "login"
	StreakMission StreakType = "mission"
	StreakGame    StreakType = "game"
	StreakPerfect StreakType = "perfect"
)

type StreakInfo struct {
	Name       string
	Emoji      string
	Multiplier float64
}

var StreakTypes = map[StreakType]StreakInfo{
	StreakLogin:   {Name: "Daily Login", Emoji: "🔥", Multiplier: 1},
	StreakMission: {Name: "Mission Streak", Emoji: "🎯", Multiplier: 2},
	StreakGame:    {Name: "Game Streak", Emoji: "🎮", Multiplier: 1.5},
	StreakPerfect: {Name: "Perfect Score", Emoji: "⭐", Multiplier: 3},
}

// StreakReward is a one-time payout for hitting a day-count threshold.
type StreakReward struct {
	Coins int
	Title string
	Emoji string
}

var StreakRewards = map[int]StreakReward{
	3:   {Coins: 10, Title: "Getting Hot!", Emoji: "🔥"},
	7:   {Coins: 25, Title: "On Fire!", Emoji: "🔥🔥"},
	14:  {Coins: 50, Title: "Blazing!", Emoji: "🔥🔥🔥"},
	30:  {Coins: 100, Title: "Legendary!", Emoji: "👑"},
	50:  {Coins: 200, Title: "Unstoppable!", Emoji: "🌟"},
	100: {Coins: 500, Title: "Master Streaker!", Emoji: "💎"},
}

type SaverType string

const (
	SaverFreeze SaverType = "freeze"
	SaverDouble SaverType = "double"
	SaverBoost  SaverType = "boost"
)

type Saver struct {
	Name        string
	Cost        int
	Description string
}

var Savers = map[SaverType]Saver{
	SaverFreeze: {Name: "Streak Freeze", Cost: 50, Description: "Protect your streak for 1 day"},
	SaverDouble: {Name: "Double Coins", Cost: 30, Description: "Double coins for next activity"},
	SaverBoost:  {Name: "Streak Boost", Cost: 75, Description: "Add +1 to current streak"},
}

// StreakData is the stored per-(kid, type) record. LastDate is a "2006-01-02"
// day string; at most one increment happens per calendar day.
type StreakData struct {
	Current          int    `json:"current"`
	Best             int    `json:"best"`
	LastDate         string `json:"lastDate,omitempty"`
	FreezeUsed       bool   `json:"freezeUsed"`
	MultiplierActive bool   `json:"multiplierActive"`
}

const dayLayout = "2006-01-02"

// Streaks tracks consecutive-day counters per kid and type. It is advisory:
// every method degrades to zero values on storage trouble instead of failing,
// so streak bookkeeping can never block the coin-award path.
type Streaks struct {
	kv  *store.Store
	log zerolog.Logger
	now func() time.Time
}

func NewStreaks(kv *store.Store, log zerolog.Logger) *Streaks {
	return &Streaks{kv: kv, log: log, now: time.Now}
}

func streakKey(kidID string, typ StreakType) string {
	return fmt.Sprintf("streak_%s_%s", typ, kidID)
}

func (s *Streaks) Get(ctx context.Context, kidID string, typ StreakType) StreakData {
	var data StreakData
	if _, err := s.kv.GetJSON(ctx, streakKey(kidID, typ), &data); err != nil {
		s.log.Debug().Err(err).Str("kid", kidID).Str("type", string(typ)).Msg("streak read failed")
		return StreakData{}
	}
	return data
}

// Update applies one day's outcome to the streak. Calling it twice on the same
// calendar day is a no-op. A gap of more than one day resets the streak unless
// a freeze is consumed.
func (s *Streaks) Update(ctx context.Context, kidID string, typ StreakType, success bool) StreakData {
	today := s.now().Format(dayLayout)
	yesterday := s.now().AddDate(0, 0, -1).Format(dayLayout)

	data := s.Get(ctx, kidID, typ)
	if data.LastDate == today {
		return data
	}

	if success {
		switch {
		case data.LastDate == yesterday || data.Current == 0:
			data.Current++
			if data.Current > data.Best {
				data.Best = data.Current
			}
		case data.FreezeUsed:
			data.Current++
			data.FreezeUsed = false
		default:
			data.Current = 1
		}
	} else {
		if data.FreezeUsed {
			data.FreezeUsed = false
		} else {
			data.Current = 0
		}
	}
	data.LastDate = today

	if err := s.kv.PutJSON(ctx, streakKey(kidID, typ), data); err != nil {
		s.log.Debug().Err(err).Str("kid", kidID).Str("type", string(typ)).Msg("streak write failed")
	}
	return data
}

// CheckReward returns the threshold payout for the current streak length, at
// most once per (kid, type, threshold). The guard is a one-shot key.
func (s *Streaks) CheckReward(ctx context.Context, kidID string, typ StreakType, current int) *StreakReward {
	r, ok := StreakRewards[current]
	if !ok {
		return nil
	}
	guard := fmt.Sprintf("streak_reward_%s_%s_%d", typ, kidID, current)
	raw, err := s.kv.Get(ctx, guard)
	if err != nil {
		s.log.Debug().Err(err).Str("kid", kidID).Msg("streak reward guard read failed")
		return nil
	}
	if raw != nil {
		return nil
	}
	if err := s.kv.Put(ctx, guard, []byte("true")); err != nil {
		s.log.Debug().Err(err).Str("kid", kidID).Msg("streak reward guard write failed")
		return nil
	}
	return &r
}

// UseSaver consumes a power-up effect on the streak record. The caller is
// responsible for having charged the coins.
func (s *Streaks) UseSaver(ctx context.Context, kidID string, typ StreakType, saver SaverType) bool {
	if _, ok := Savers[saver]; !ok {
		return false
	}
	data := s.Get(ctx, kidID, typ)
	switch saver {
	case SaverFreeze:
		data.FreezeUsed = true
	case SaverDouble:
		data.MultiplierActive = true
	case SaverBoost:
		data.Current++
		if data.Current > data.Best {
			data.Best = data.Current
		}
	}
	if err := s.kv.PutJSON(ctx, streakKey(kidID, typ), data); err != nil {
		s.log.Debug().Err(err).Str("kid", kidID).Msg("streak saver write failed")
		return false
	}
	return true
}

// Bonus computes the streak coin bonus for an activity: one coin per streak
// day capped at 10, scaled by the type multiplier, doubled (once) while the
// double power-up is active.
func (s *Streaks) Bonus(ctx context.Context, kidID string, typ StreakType) int {
	data := s.Get(ctx, kidID, typ)
	mult := 1.0
	if info, ok := StreakTypes[typ]; ok {
		mult = info.Multiplier
	}

	days := data.Current
	if days > 10 {
		days = 10
	}
	bonus := float64(days) * mult

	if data.MultiplierActive {
		bonus *= 2
		data.MultiplierActive = false
		if err := s.kv.PutJSON(ctx, streakKey(kidID, typ), data); err != nil {
			s.log.Debug().Err(err).Str("kid", kidID).Msg("streak multiplier reset failed")
		}
	}
	return int(bonus + 0.5)
}

func (s *Streaks) All(ctx context.Context, kidID string) map[StreakType]StreakData {
	out := make(map[StreakType]StreakData, len(StreakTypes))
	for typ := range StreakTypes {
		out[typ] = s.Get(ctx, kidID, typ)
	}
	return out
}

// PowerUps returns the kid's saver inventory.
func (s *Streaks) PowerUps(ctx context.Context, kidID string) map[SaverType]int {
	key := fmt.Sprintf("streak_powerups_%s", kidID)
	inv := map[SaverType]int{}
	if _, err := s.kv.GetJSON(ctx, key, &inv); err != nil {
		s.log.Debug().Err(err).Str("kid", kidID).Msg("powerup read failed")
		return map[SaverType]int{}
	}
	return inv
}

func (s *Streaks) AddPowerUp(ctx context.Context, kidID string, saver SaverType, quantity int) {
	key := fmt.Sprintf("streak_powerups_%s", kidID)
	inv := s.PowerUps(ctx, kidID)
	inv[saver] += quantity
	if err := s.kv.PutJSON(ctx, key, inv); err != nil {
		s.log.Debug().Err(err).Str("kid", kidID).Msg("powerup write failed")
	}
}
