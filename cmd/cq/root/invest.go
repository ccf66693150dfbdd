package root

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"coinquest/internal/engine"
	"coinquest/internal/ui"
)

func newInvestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invest [kid-id symbol amount]",
		Short: "Buy kid-friendly stocks with savings",
		Long:  "With no arguments, shows the price board. With three, invests that much savings into the symbol.",
		Args:  cobra.RangeArgs(0, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println(ui.Heading(ui.IconChart, "Stock prices"))
				for _, symbol := range engine.StockSymbols() {
					price, _ := engine.StockPrice(symbol)
					fmt.Printf("  %s  $%.2f\n", ui.Key.Render(symbol), price)
				}
				return nil
			}
			if len(args) != 3 {
				return fmt.Errorf("want either no arguments or: <kid-id> <symbol> <amount>")
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

			kid, err := svc.BuyStock(ctx, args[0], args[1], amount)
			if err != nil {
				return err
			}

			holding := kid.Portfolio[len(kid.Portfolio)-1]
			fmt.Println(ui.Heading(ui.IconChart, "Invested in "+holding.Symbol))
			fmt.Printf("  %.4f shares at $%.2f\n", holding.Shares, holding.Price)
			fmt.Println(ui.LabelValue("Savings left", ui.Money(kid.RealMoney)))
			return nil
		},
	}
}
