package engine

import (
	"context"
	"strings"

	"coinquest/internal/storage"
)

// slugFromName derives the stable kid id: lowercased, all whitespace removed.
// The id is never regenerated, even if the kid is renamed later.
func slugFromName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "")
}

type CreateKidInput struct {
	Name   string
	Age    int
	Gender string
}

// CreateKid validates the input, derives the id, rejects id collisions, and
// writes the new profile with every counter zeroed and the default AI profile.
func (s *Service) CreateKid(ctx context.Context, in CreateKidInput) (*storage.Kid, error) {
	const op = "create kid"

	if err := validateKidInput(in.Name, in.Age); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	name := strings.TrimSpace(in.Name)
	id := slugFromName(name)

	existing, err := s.kids.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if existing != nil {
		return nil, s.fail(ctx, op, validationf("a kid with this name already exists"))
	}

	gender := in.Gender
	if gender == "" {
		gender = "boy"
	}

	kid := storage.Kid{
		ID:                id,
		Name:              name,
		Age:               in.Age,
		Gender:            gender,
		Coins:             0,
		Stars:             0,
		RealMoney:         0,
		Portfolio:         []storage.Holding{},
		CompletedMissions: []string{},
		AIProfile: storage.AIProfile{
			LearningStyle:         "visual",
			FinancialPersonality:  "balanced",
			EngagementLevel:       "medium",
			PreferredMissionTypes: []string{"chore", "math"},
		},
		CreatedAt: s.now(),
	}

	if err := s.kids.Add(ctx, kid); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return &kid, nil
}

func (s *Service) Kids(ctx context.Context) ([]storage.Kid, error) {
	kids, err := s.kids.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list kids", err)
	}
	return kids, nil
}

func (s *Service) Kid(ctx context.Context, id string) (*storage.Kid, error) {
	const op = "get kid"
	if err := requireID(id, "kid id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	kid, err := s.kids.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return kid, nil
}

// UpdateKid replaces the stored profile by id. A missing id yields (nil, nil):
// the caller must treat it as a lost update, not an exception.
func (s *Service) UpdateKid(ctx context.Context, kid storage.Kid) (*storage.Kid, error) {
	const op = "update kid"
	if err := requireID(kid.ID, "kid id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	updated, err := s.kids.Update(ctx, kid)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return updated, nil
}

// DeleteKid removes the profile from the kids collection only. Transactions
// and gamification keys for the kid are orphaned, not purged.
func (s *Service) DeleteKid(ctx context.Context, id string) error {
	const op = "delete kid"
	if err := requireID(id, "kid id"); err != nil {
		return s.fail(ctx, op, err)
	}
	if err := s.kids.Delete(ctx, id); err != nil {
		return s.fail(ctx, op, err)
	}
	return nil
}

// UpdateKidBalance applies relative deltas to both balances, clamping each
// result at a floor of zero. This is the only sanctioned path for
// delta-based balance changes.
func (s *Service) UpdateKidBalance(ctx context.Context, id string, coinDelta int, moneyDelta float64) (*storage.Kid, error) {
	const op = "update kid balance"
	if err := requireID(id, "kid id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	kid, err := s.kids.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if kid == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "kid", ID: id})
	}

	kid.Coins += coinDelta
	if kid.Coins < 0 {
		kid.Coins = 0
	}
	kid.RealMoney += moneyDelta
	if kid.RealMoney < 0 {
		kid.RealMoney = 0
	}

	updated, err := s.kids.Update(ctx, *kid)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return updated, nil
}
