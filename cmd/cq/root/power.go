package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"coinquest/internal/reward"
	"coinquest/internal/ui"
)

func newPowerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "power",
		Short: "Buy and use streak power-ups",
	}
	cmd.AddCommand(newPowerListCmd(), newPowerBuyCmd(), newPowerUseCmd())
	return cmd
}

func saverFromArg(arg string) (reward.SaverType, error) {
	saver := reward.SaverType(strings.ToLower(arg))
	if _, ok := reward.Savers[saver]; !ok {
		return "", fmt.Errorf("unknown power-up %q (want freeze, double or boost)", arg)
	}
	return saver, nil
}

func streakTypeFromArg(arg string) (reward.StreakType, error) {
	typ := reward.StreakType(strings.ToLower(arg))
	if _, ok := reward.StreakTypes[typ]; !ok {
		return "", fmt.Errorf("unknown streak type %q (want login, mission, game or perfect)", arg)
	}
	return typ, nil
}

func newPowerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [kid-id]",
		Aliases: []string{"ls"},
		Short:   "Show the power-up shop, and a kid's inventory if given",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(ui.Heading(ui.IconSparkle, "Power-up shop"))
			for _, saver := range []reward.SaverType{reward.SaverFreeze, reward.SaverDouble, reward.SaverBoost} {
				info := reward.Savers[saver]
				fmt.Printf("  %-8s %-14s %s  %s\n", saver, info.Name, ui.Coins(info.Cost), ui.Muted.Render(info.Description))
			}
			if len(args) == 0 {
				return nil
			}

			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Println()
			fmt.Println(ui.H2.Render("Inventory"))
			inventory := svc.Streaks().PowerUps(ctx, args[0])
			for _, saver := range []reward.SaverType{reward.SaverFreeze, reward.SaverDouble, reward.SaverBoost} {
				fmt.Printf("  %-8s x%d\n", saver, inventory[saver])
			}
			return nil
		},
	}
}

func newPowerBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <kid-id> <freeze|double|boost>",
		Short: "Buy a power-up with coins",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			saver, err := saverFromArg(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			kid, err := svc.BuyStreakSaver(ctx, args[0], saver)
			if err != nil {
				return err
			}
			fmt.Println(ui.Heading(ui.IconSparkle, "Bought "+reward.Savers[saver].Name))
			fmt.Println(ui.LabelValue("Balance", ui.Coins(kid.Coins)))
			return nil
		},
	}
}

func newPowerUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <kid-id> <streak-type> <freeze|double|boost>",
		Short: "Apply a power-up to a streak",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := streakTypeFromArg(args[1])
			if err != nil {
				return err
			}
			saver, err := saverFromArg(args[2])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.UseStreakSaver(ctx, args[0], typ, saver); err != nil {
				return err
			}
			fmt.Println(ui.Good.Render(ui.IconSparkle + " " + reward.Savers[saver].Name + " applied."))
			return nil
		},
	}
}
