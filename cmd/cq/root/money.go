package root

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"coinquest/internal/storage"
	"coinquest/internal/ui"
)

var moneyActions = map[string]string{
	"saved": storage.TxSaved,
	"spent": storage.TxSpent,
	"gave":  storage.TxGave,
	"add":   storage.TxAdd,
	"spend": storage.TxSpend,
}

func newMoneyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "money <kid-id> <action> <amount>",
		Short: "Record a manual balance change",
		Long: `Record a manual balance change.

Coin actions (whole numbers, deducted from coins):
  saved   put coins aside
  spent   spend coins
  gave    give coins away

Real-money actions (dollars):
  add     add to savings
  spend   spend from savings`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, ok := moneyActions[strings.ToLower(args[1])]
			if !ok {
				return fmt.Errorf("unknown action %q (want saved, spent, gave, add or spend)", args[1])
			}
			amount, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("amount %q is not a number", args[2])
			}

			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			kid, err := svc.ProcessMoneyAction(ctx, args[0], action, amount)
			if err != nil {
				return err
			}

			fmt.Println(ui.Heading(ui.IconMoney, "Recorded"))
			fmt.Println(ui.LabelValue("Coins", ui.Coins(kid.Coins)))
			fmt.Println(ui.LabelValue("Savings", ui.Money(kid.RealMoney)))
			return nil
		},
	}
}
