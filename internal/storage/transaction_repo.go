package storage

import (
	"context"
	"encoding/json"

	"coinquest/internal/store"
)

// TransactionRepo gives typed access to the shared transaction ledger. The
// ledger is append-only; Replace exists only for the mission-uncomplete path,
// which removes exactly one matching earn entry.
type TransactionRepo struct {
	kv *store.Store
}

func NewTransactionRepo(kv *store.Store) *TransactionRepo {
	return &TransactionRepo{kv: kv}
}

func (r *TransactionRepo) List(ctx context.Context) ([]Transaction, error) {
	raw, err := r.kv.Get(ctx, KeyTransactions)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var txs []Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		return nil, nil
	}
	return txs, nil
}

func (r *TransactionRepo) ListByKid(ctx context.Context, kidID string) ([]Transaction, error) {
	if kidID == "" {
		return nil, nil
	}
	txs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Transaction
	for _, t := range txs {
		if t.KidID == kidID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TransactionRepo) Append(ctx context.Context, tx Transaction) error {
	txs, err := r.List(ctx)
	if err != nil {
		return err
	}
	txs = append(txs, tx)
	return r.kv.PutJSON(ctx, KeyTransactions, txs)
}

func (r *TransactionRepo) Replace(ctx context.Context, txs []Transaction) error {
	return r.kv.PutJSON(ctx, KeyTransactions, txs)
}
