package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"coinquest/internal/reward"
	"coinquest/internal/storage"
	"coinquest/internal/store"
)

// Service composes the repositories and reward subsystems behind the
// operations the CLI and TUI call. It is constructed once at the entry point;
// there is no ambient singleton.
type Service struct {
	kv  *store.Store
	log zerolog.Logger

	kids     *storage.KidRepo
	missions *storage.MissionRepo
	txs      *storage.TransactionRepo

	streaks      *reward.Streaks
	achievements *reward.Achievements
	weekly       *reward.Weekly
	avatars      *reward.Avatars
	games        *reward.Games
	story        *reward.Story

	now func() time.Time
}

func NewService(kv *store.Store, log zerolog.Logger) *Service {
	return &Service{
		kv:           kv,
		log:          log,
		kids:         storage.NewKidRepo(kv),
		missions:     storage.NewMissionRepo(kv),
		txs:          storage.NewTransactionRepo(kv),
		streaks:      reward.NewStreaks(kv, log),
		achievements: reward.NewAchievements(kv, log),
		weekly:       reward.NewWeekly(kv, log),
		avatars:      reward.NewAvatars(kv, log),
		games:        reward.NewGames(kv, log),
		story:        reward.NewStory(kv, log),
		now:          time.Now,
	}
}

func (s *Service) KidRepo() *storage.KidRepo                 { return s.kids }
func (s *Service) MissionRepo() *storage.MissionRepo         { return s.missions }
func (s *Service) TransactionRepo() *storage.TransactionRepo { return s.txs }

// Now exposes the service clock so display code stays on the same time source.
func (s *Service) Now() time.Time { return s.now() }

func (s *Service) Streaks() *reward.Streaks           { return s.streaks }
func (s *Service) Achievements() *reward.Achievements { return s.achievements }
func (s *Service) Weekly() *reward.Weekly             { return s.weekly }
func (s *Service) Avatars() *reward.Avatars           { return s.avatars }
func (s *Service) Games() *reward.Games               { return s.games }
func (s *Service) Story() *reward.Story               { return s.story }

// RecordLogin counts today toward the kid's login streak. At most one
// increment per calendar day; safe to call from every kid-facing view.
func (s *Service) RecordLogin(ctx context.Context, kidID string) reward.StreakData {
	if kidID == "" {
		return reward.StreakData{}
	}
	data := s.streaks.Update(ctx, kidID, reward.StreakLogin, true)
	if r := s.streaks.CheckReward(ctx, kidID, reward.StreakLogin, data.Current); r != nil {
		if _, err := s.payBonus(ctx, kidID, r.Coins, "Streak reward: "+r.Title); err != nil {
			s.log.Debug().Err(err).Str("kid", kidID).Msg("login streak reward payout failed")
		}
	}
	return data
}

const errLogKey = "app_errors"
const errLogLimit = 50

type errLogEntry struct {
	Message   string    `json:"message"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
}

// fail enriches an error with the operation name, logs it, and keeps the last
// 50 entries in the store for debugging. Validation and not-found errors pass
// through errors.As unchanged.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	s.log.Debug().Err(err).Str("op", op).Msg("operation failed")

	var ring []errLogEntry
	if _, rerr := s.kv.GetJSON(ctx, errLogKey, &ring); rerr == nil {
		ring = append(ring, errLogEntry{Message: err.Error(), Context: op, Timestamp: s.now()})
		if len(ring) > errLogLimit {
			ring = ring[len(ring)-errLogLimit:]
		}
		// Best effort: the error ring must never mask the real failure.
		_ = s.kv.PutJSON(ctx, errLogKey, ring)
	}

	return fmt.Errorf("%s: %w", op, err)
}

const dateLayout = "2006-01-02"

func (s *Service) today() string {
	return s.now().Format(dateLayout)
}

// newTxID returns a time-based ledger id, unique within a single-process
// session at millisecond resolution.
func newTxID(now time.Time) string {
	return fmt.Sprintf("%d", now.UnixMilli())
}
