package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"coinquest/internal/reward"
	"coinquest/internal/ui"
)

func newDoCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "do <kid-id> <mission-id>",
		Short: "Complete a mission and collect the reward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.CompleteMission(ctx, args[0], args[1], notes)
			if err != nil {
				return err
			}

			fmt.Println(ui.Heading(ui.IconDone, result.Mission.Title))
			fmt.Printf("%s earned %s  (balance %s)\n",
				result.Kid.Name,
				ui.Gold.Render(fmt.Sprintf("+%d", result.CoinsAwarded)),
				ui.Coins(result.Kid.Coins),
			)

			if result.Streak.Current > 1 {
				fmt.Printf("%s %d day mission streak!\n", ui.IconFire, result.Streak.Current)
			}
			if r := result.StreakReward; r != nil {
				fmt.Printf("%s %s %s\n", r.Emoji, ui.Gold.Render(r.Title), ui.Coins(r.Coins))
			}
			for _, a := range result.NewAchievements {
				fmt.Printf("%s Achievement unlocked: %s %s (%d pts)\n", ui.IconTrophy, a.Emoji, a.Name, a.Points)
			}
			for _, c := range result.CompletedChallenges {
				fmt.Printf("%s Weekly challenge done: %s %s\n", c.Emoji, c.Title, ui.Coins(c.Reward))
			}

			printMood(svc.Avatars().Get(ctx, result.Kid.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "optional note on the ledger entry")
	return cmd
}

func printMood(avatar reward.Avatar) {
	if avatar.Mood != "" && avatar.Mood != "happy" {
		fmt.Println(ui.Muted.Render("Your buddy is feeling " + avatar.Mood + "."))
	}
}
