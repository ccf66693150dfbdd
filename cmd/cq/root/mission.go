package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"coinquest/internal/engine"
	"coinquest/internal/storage"
	"coinquest/internal/ui"
)

func newMissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mission",
		Aliases: []string{"m"},
		Short:   "Manage missions",
	}
	cmd.AddCommand(newMissionAddCmd(), newMissionListCmd(), newMissionRemoveCmd())
	return cmd
}

func newMissionAddCmd() *cobra.Command {
	var (
		description string
		ageGroup    string
		rewardCoins int
		missionType string
		date        string
		days        []int
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a custom mission",
		Long:  "Create a parent-authored mission. Custom missions survive the daily refresh.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			mission, err := svc.CreateMission(ctx, engine.CreateMissionInput{
				Title:         args[0],
				Description:   description,
				AgeGroup:      ageGroup,
				Reward:        rewardCoins,
				Type:          missionType,
				ScheduledDate: date,
				WeeklyDays:    days,
			})
			if err != nil {
				return err
			}

			fmt.Println(ui.Heading(ui.IconMission, mission.Title))
			fmt.Println(ui.LabelValue("ID", mission.ID))
			fmt.Println(ui.LabelValue("Reward", ui.Coins(mission.Reward)))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "desc", "", "mission description")
	cmd.Flags().StringVar(&ageGroup, "age-group", storage.AgeGroupBoth, "both, 4+ or 9+")
	cmd.Flags().IntVar(&rewardCoins, "reward", 10, "coin reward (1-100)")
	cmd.Flags().StringVar(&missionType, "type", "chore", "mission type (chore, math, reading, ...)")
	cmd.Flags().StringVar(&date, "date", "", "only show on this date (YYYY-MM-DD)")
	cmd.Flags().IntSliceVar(&days, "days", nil, "only show on these weekdays (0=Sunday..6=Saturday)")
	return cmd
}

func newMissionListCmd() *cobra.Command {
	var age int
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List missions (today's board by default)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var missions []storage.Mission
			if all {
				missions, err = svc.Missions(ctx)
			} else {
				missions, err = svc.FilteredMissions(ctx, effectiveListAge(age))
			}
			if err != nil {
				return err
			}
			if len(missions) == 0 {
				fmt.Println(ui.Muted.Render("No missions."))
				return nil
			}

			fmt.Println(ui.Heading(ui.IconMission, "Missions"))
			for _, m := range missions {
				kind := "custom"
				if m.IsDaily {
					kind = "daily"
				}
				fmt.Printf("  %s  %-28s %s  %-6s %-6s %s\n",
					ui.Key.Render(m.ID),
					m.Title,
					ui.Coins(m.Reward),
					m.AgeGroup,
					kind,
					ui.StatusText(m.Status),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&age, "age", -1, "filter by kid age (unset shows every age group)")
	cmd.Flags().BoolVar(&all, "all", false, "show every mission, ignoring visibility rules")
	return cmd
}

// effectiveListAge maps the unset --age flag to an age that satisfies every
// age group, so the default listing hides nothing.
func effectiveListAge(age int) int {
	if age < 0 {
		return 18
	}
	return age
}

func newMissionRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <mission-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a mission",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.DeleteMission(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(ui.Muted.Render("Removed " + args[0]))
			return nil
		},
	}
}
