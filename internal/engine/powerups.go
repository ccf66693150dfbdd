package engine

import (
	"context"

	"coinquest/internal/reward"
	"coinquest/internal/storage"
)

// BuyStreakSaver charges the saver's coin cost and adds one to the kid's
// power-up inventory. Insufficient coins are rejected, not clamped.
func (s *Service) BuyStreakSaver(ctx context.Context, kidID string, saver reward.SaverType) (*storage.Kid, error) {
	const op = "buy power-up"

	if err := requireID(kidID, "kid id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	info, ok := reward.Savers[saver]
	if !ok {
		return nil, s.fail(ctx, op, validationf("unknown power-up %q", saver))
	}

	kid, err := s.kids.Get(ctx, kidID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if kid == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "kid", ID: kidID})
	}
	if kid.Coins < info.Cost {
		return nil, s.fail(ctx, op, validationf("insufficient coins"))
	}

	kid.Coins -= info.Cost
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
		Type:        storage.TxSpent,
		Amount:      float64(info.Cost),
		Description: "Power-up: " + info.Name,
		Timestamp:   s.now(),
	}
	if err := s.txs.Append(ctx, tx); err != nil {
		return nil, s.fail(ctx, op, err)
	}

	s.streaks.AddPowerUp(ctx, kidID, saver, 1)
	return updated, nil
}

// UseStreakSaver consumes one saver from the inventory and applies its effect
// to the given streak.
func (s *Service) UseStreakSaver(ctx context.Context, kidID string, typ reward.StreakType, saver reward.SaverType) error {
	const op = "use power-up"

	if err := requireID(kidID, "kid id"); err != nil {
		return s.fail(ctx, op, err)
	}
	if _, ok := reward.Savers[saver]; !ok {
		return s.fail(ctx, op, validationf("unknown power-up %q", saver))
	}
	if _, ok := reward.StreakTypes[typ]; !ok {
		return s.fail(ctx, op, validationf("unknown streak type %q", typ))
	}

	inventory := s.streaks.PowerUps(ctx, kidID)
	if inventory[saver] < 1 {
		return s.fail(ctx, op, validationf("no %s power-up in inventory", saver))
	}

	s.streaks.AddPowerUp(ctx, kidID, saver, -1)
	if !s.streaks.UseSaver(ctx, kidID, typ, saver) {
		// Put it back rather than losing a paid power-up.
		s.streaks.AddPowerUp(ctx, kidID, saver, 1)
		return s.fail(ctx, op, validationf("power-up could not be applied"))
	}
	return nil
}
