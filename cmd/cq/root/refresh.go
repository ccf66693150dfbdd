package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"coinquest/internal/ui"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Regenerate today's daily missions if not done yet",
		Long:  "Runs the once-per-day refresh: replaces the auto-generated daily missions and resets every kid's completed set. Custom missions are untouched. A second run on the same day does nothing.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ran, err := svc.RefreshDailyMissions(ctx)
			if err != nil {
				return err
			}
			if !ran {
				fmt.Println(ui.Muted.Render("Already refreshed today."))
				return nil
			}
			fmt.Println(ui.Good.Render(ui.IconSparkle + " Daily missions refreshed."))
			return nil
		},
	}
}
