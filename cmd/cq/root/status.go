package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"coinquest/internal/engine"
	"coinquest/internal/reward"
	"coinquest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <kid-id>",
		Short: "Show a kid's full progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			kid, err := svc.Kid(ctx, args[0])
			if err != nil {
				return err
			}
			if kid == nil {
				return engine.NotFoundError{Entity: "kid", ID: args[0]}
			}

			svc.RecordLogin(ctx, kid.ID)

			avatar := svc.Avatars().Get(ctx, kid.ID)
			fmt.Println(ui.Heading(ui.IconKid, kid.Name))
			fmt.Println(ui.LabelValue("Coins", ui.Coins(kid.Coins)))
			fmt.Println(ui.LabelValue("Savings", ui.Money(kid.RealMoney)))
			fmt.Println(ui.LabelValue("Stars", fmt.Sprintf("%s %d", ui.IconStar, kid.Stars)))
			fmt.Println(ui.LabelValue("Completed today", len(kid.CompletedMissions)))
			fmt.Println(ui.LabelValue("Mood", avatar.Mood))

			fmt.Println()
			fmt.Println(ui.H2.Render(ui.IconFire + " Streaks"))
			streaks := svc.Streaks().All(ctx, kid.ID)
			for _, typ := range []reward.StreakType{reward.StreakLogin, reward.StreakMission, reward.StreakGame, reward.StreakPerfect} {
				info := reward.StreakTypes[typ]
				data := streaks[typ]
				fmt.Printf("  %s %-14s current %-3d best %d\n", info.Emoji, info.Name, data.Current, data.Best)
			}

			fmt.Println()
			fmt.Println(ui.H2.Render(ui.IconTrophy + " Achievements"))
			summary := svc.Achievements().Summary(ctx, kid.ID)
			fmt.Printf("  %d/%d unlocked (%d%%), %d points\n",
				summary.Total, len(reward.Catalog), summary.Completion, summary.TotalPoints)

			fmt.Println()
			week := reward.WeekOf(svc.Now())
			fmt.Println(ui.H2.Render(ui.IconSparkle + " Weekly challenges (" + fmt.Sprintf("%d days left", week.DaysLeft) + ")"))
			progress := svc.Weekly().Progress(ctx, kid.ID)
			for _, c := range reward.Challenges() {
				done := ""
				if progress[c.ID] >= c.Target {
					done = " " + ui.IconDone
				}
				fmt.Printf("  %s %-24s %d/%d%s\n", c.Emoji, c.Title, progress[c.ID], c.Target, done)
			}

			if board := svc.Weekly().Leaderboard(ctx); len(board) > 0 {
				fmt.Println()
				fmt.Println(ui.H2.Render("🏅 Leaderboard"))
				for i, entry := range board {
					marker := "  "
					if entry.KidID == kid.ID {
						marker = ui.Gold.Render("➤ ")
					}
					fmt.Printf("%s%2d. %-16s %d pts\n", marker, i+1, entry.KidName, entry.Points)
				}
			}

			if story := svc.Story().Progress(ctx, kid.ID); len(story.CompletedChapters) > 0 || story.CurrentScene != nil {
				fmt.Println()
				line := fmt.Sprintf("%d chapters done", len(story.CompletedChapters))
				if story.CurrentScene != nil {
					line += fmt.Sprintf(", reading %s/%s", story.CurrentScene.ChapterID, story.CurrentScene.SceneID)
				}
				fmt.Println(ui.LabelValue("Story", line))
			}

			if avatar.Pet != "none" {
				pet := svc.Avatars().PetLevel(ctx, kid.ID)
				fmt.Println()
				fmt.Println(ui.LabelValue("Pet", fmt.Sprintf("level %d (%s) %s", pet.Level, pet.Name, pet.Bonus)))
			}

			if len(kid.Portfolio) > 0 {
				fmt.Println()
				fmt.Println(ui.H2.Render(ui.IconChart + " Portfolio"))
				for _, h := range kid.Portfolio {
					fmt.Printf("  %-5s %.4f shares @ $%.2f\n", h.Symbol, h.Shares, h.Price)
				}
			}
			return nil
		},
	}
}
