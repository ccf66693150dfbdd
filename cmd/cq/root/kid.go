package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"coinquest/internal/engine"
	"coinquest/internal/ui"
)

func newKidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kid",
		Short: "Manage kid profiles",
	}
	cmd.AddCommand(newKidAddCmd(), newKidListCmd(), newKidRemoveCmd())
	return cmd
}

func newKidAddCmd() *cobra.Command {
	var age int
	var gender string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a kid profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			kid, err := svc.CreateKid(ctx, engine.CreateKidInput{
				Name:   args[0],
				Age:    age,
				Gender: gender,
			})
			if err != nil {
				return err
			}

			fmt.Println(ui.Heading(ui.IconKid, "Welcome, "+kid.Name+"!"))
			fmt.Println(ui.LabelValue("ID", kid.ID))
			fmt.Println(ui.LabelValue("Age", kid.Age))
			fmt.Println(ui.LabelValue("Coins", ui.Coins(kid.Coins)))
			return nil
		},
	}

	cmd.Flags().IntVar(&age, "age", 0, "kid's age (3-18)")
	cmd.Flags().StringVar(&gender, "gender", "", "boy or girl")
	_ = cmd.MarkFlagRequired("age")
	return cmd
}

func newKidListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List kid profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			kids, err := svc.Kids(ctx)
			if err != nil {
				return err
			}
			if len(kids) == 0 {
				fmt.Println(ui.Muted.Render("No kids yet. Add one with: cq kid add <name> --age <n>"))
				return nil
			}

			fmt.Println(ui.Heading(ui.IconKid, "Kids"))
			for _, kid := range kids {
				fmt.Printf("  %s  %s (age %d)  %s  %s\n",
					ui.Key.Render(kid.ID),
					kid.Name,
					kid.Age,
					ui.Coins(kid.Coins),
					ui.Money(kid.RealMoney),
				)
			}
			return nil
		},
	}
}

func newKidRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <kid-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a kid profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.DeleteKid(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(ui.Muted.Render("Removed " + args[0]))
			return nil
		},
	}
}
