package engine

import (
	"context"
	"fmt"

	"coinquest/internal/storage"
)

// stockPrices is the kid-friendly fixture table the portfolio trades against.
var stockPrices = map[string]float64{
	"APPL": 150.0,
	"TOYZ": 25.5,
	"GAME": 42.0,
	"CNDY": 12.75,
	"ROBO": 88.0,
	"PETS": 31.25,
}

// StockSymbols returns the tradable symbols in a stable order.
func StockSymbols() []string {
	return []string{"APPL", "TOYZ", "GAME", "CNDY", "ROBO", "PETS"}
}

func StockPrice(symbol string) (float64, bool) {
	price, ok := stockPrices[symbol]
	return price, ok
}

// BuyStock invests part of the kid's real-money savings into a symbol: the
// amount is deducted, a holding is appended to the portfolio, and a Spend
// entry is logged so the ledger stays complete.
func (s *Service) BuyStock(ctx context.Context, kidID, symbol string, amount float64) (*storage.Kid, error) {
	const op = "buy stock"

	if err := requireID(kidID, "kid id"); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if err := validateAmount(amount); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	price, ok := stockPrices[symbol]
	if !ok {
		return nil, s.fail(ctx, op, validationf("unknown stock symbol %q", symbol))
	}

	kid, err := s.kids.Get(ctx, kidID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	if kid == nil {
		return nil, s.fail(ctx, op, NotFoundError{Entity: "kid", ID: kidID})
	}
	if kid.RealMoney < amount {
		return nil, s.fail(ctx, op, validationf("insufficient funds for this investment"))
	}

	kid.RealMoney -= amount
	kid.Portfolio = append(kid.Portfolio, storage.Holding{
		Symbol:      symbol,
		Shares:      amount / price,
		Price:       price,
		PurchasedAt: s.now(),
	})

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
		Type:        storage.TxSpend,
		Amount:      amount,
		Description: fmt.Sprintf("Invested in %s", symbol),
		Timestamp:   s.now(),
	}
	if err := s.txs.Append(ctx, tx); err != nil {
		return nil, s.fail(ctx, op, fmt.Errorf("investment applied but ledger write failed: %w", err))
	}

	return updated, nil
}
