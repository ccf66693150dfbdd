package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coinquest/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "cq",
	Short:         "CoinQuest — local-first mission and coin tracker for kids",
	Long:          "CoinQuest is a local-first CLI/TUI for kid profiles: daily missions, a coin economy, streaks, achievements and weekly challenges.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newKidCmd(),
		newMissionCmd(),
		newDoCmd(),
		newUndoCmd(),
		newMoneyCmd(),
		newInvestCmd(),
		newPlayCmd(),
		newPowerCmd(),
		newStatusCmd(),
		newHistoryCmd(),
		newRefreshCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
