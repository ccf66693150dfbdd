package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"coinquest/internal/storage"
	"coinquest/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <kid-id>",
		Short: "Show a kid's transaction ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			txs, err := svc.KidTransactions(ctx, args[0])
			if err != nil {
				return err
			}
			if len(txs) == 0 {
				fmt.Println(ui.Muted.Render("No transactions yet."))
				return nil
			}
			if limit > 0 && len(txs) > limit {
				txs = txs[len(txs)-limit:]
			}

			fmt.Println(ui.Heading(ui.IconCoin, "History"))
			for _, tx := range txs {
				fmt.Printf("  %s  %s%s  %s\n",
					ui.Muted.Render(tx.Timestamp.Format("2006-01-02 15:04")),
					txAmount(tx),
					notesSuffix(tx.Notes),
					tx.Description,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "show at most this many entries (0 = all)")
	return cmd
}

// txAmount renders a signed amount: coins for earn and the coin actions,
// dollars for the real-money actions.
func txAmount(tx storage.Transaction) string {
	switch tx.Type {
	case storage.TxEarn:
		return ui.Good.Render(fmt.Sprintf("+%d %s", int(tx.Amount), ui.IconCoin))
	case storage.TxSaved, storage.TxSpent, storage.TxGave:
		return ui.Warn.Render(fmt.Sprintf("-%d %s", int(tx.Amount), ui.IconCoin))
	case storage.TxAdd:
		return ui.Good.Render(fmt.Sprintf("+$%.2f", tx.Amount))
	case storage.TxSpend:
		return ui.Warn.Render(fmt.Sprintf("-$%.2f", tx.Amount))
	default:
		return fmt.Sprintf("%g", tx.Amount)
	}
}

func notesSuffix(notes string) string {
	if notes == "" {
		return ""
	}
	return ui.Muted.Render(" (" + notes + ")")
}
