package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"coinquest/internal/ui"
)

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <kid-id> <mission-id>",
		Short: "Take back a mission completion",
		Long:  "Deducts the reward (never below zero), unmarks the mission and removes the matching ledger entry.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			kid, err := svc.UncompleteMission(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Println(ui.Heading(ui.IconUndo, "Mission undone"))
			fmt.Println(ui.LabelValue("Balance", ui.Coins(kid.Coins)))
			return nil
		},
	}
}
