package root

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"coinquest/internal/engine"
	"coinquest/internal/reward"
	"coinquest/internal/ui"
)

func newPlayCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "play <kid-id> <game-type>",
		Short: "Play a quiz mini-game for coins",
		Long: "Run an interactive quiz session. Each game type can be played once per day;\n" +
			"every correct answer pays 2 coins plus the game streak bonus.\n" +
			"Game types: " + strings.Join(reward.GameTypes(), ", ") + ".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			kidID, gameType := args[0], args[1]
			kid, err := svc.Kid(ctx, kidID)
			if err != nil {
				return err
			}
			if kid == nil {
				return engine.NotFoundError{Entity: "kid", ID: kidID}
			}
			if !svc.Games().CanPlay(ctx, kid.ID, gameType) {
				return fmt.Errorf("%s already played %s today, try again tomorrow", kid.Name, gameType)
			}

			problems, err := engine.GenerateProblems(gameType, kid.Age, count)
			if err != nil {
				return err
			}

			fmt.Println(ui.Heading("🎮", fmt.Sprintf("%s quiz for %s", gameType, kid.Name)))
			fmt.Println(ui.Muted.Render(fmt.Sprintf("%d questions, 2 coins per correct answer. Go!", len(problems))))
			fmt.Println()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			results := make([]reward.GameResult, 0, len(problems))
			for i, p := range problems {
				fmt.Printf("%2d. %s ", i+1, p.Question)
				start := svc.Now()
				if !scanner.Scan() {
					break
				}
				answer := strings.TrimSpace(scanner.Text())
				n, convErr := strconv.Atoi(answer)
				correct := convErr == nil && n == p.Answer
				if correct {
					fmt.Println("    " + ui.Good.Render("Correct!"))
				} else {
					fmt.Printf("    %s The answer was %d.\n", ui.Bad.Render("Not quite."), p.Answer)
				}
				results = append(results, reward.GameResult{
					Question:   p.Question,
					UserAnswer: answer,
					Correct:    correct,
					TimeSpent:  int(svc.Now().Sub(start).Milliseconds()),
				})
			}
			if len(results) == 0 {
				return fmt.Errorf("no answers given, session not recorded")
			}

			outcome, err := svc.RecordGameSession(ctx, kid.ID, gameType, results)
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Println(ui.Heading(ui.IconDone, fmt.Sprintf("%d/%d correct", outcome.Correct, outcome.Total)))
			if outcome.Perfect {
				fmt.Println(ui.Gold.Render(ui.IconStar + " Perfect score!"))
			}
			fmt.Printf("%s earned %s",
				outcome.Kid.Name, ui.Gold.Render(fmt.Sprintf("+%d", outcome.CoinsEarned)))
			if outcome.StreakBonus > 0 {
				fmt.Printf(" %s streak bonus", ui.Gold.Render(fmt.Sprintf("+%d", outcome.StreakBonus)))
			}
			fmt.Printf("  (balance %s)\n", ui.Coins(outcome.Kid.Coins))

			if outcome.GameStreak.Current > 1 {
				fmt.Printf("%s %d day game streak!\n", ui.IconFire, outcome.GameStreak.Current)
			}
			if r := outcome.StreakReward; r != nil {
				fmt.Printf("%s %s %s\n", r.Emoji, ui.Gold.Render(r.Title), ui.Coins(r.Coins))
			}
			for _, a := range outcome.NewAchievements {
				fmt.Printf("%s Achievement unlocked: %s %s (%d pts)\n", ui.IconTrophy, a.Emoji, a.Name, a.Points)
			}

			stats := outcome.Stats
			fmt.Println(ui.Muted.Render(fmt.Sprintf("All-time %s: %d%% accuracy over %d questions",
				gameType, stats.Accuracy, stats.TotalQuestions)))
			printMood(svc.Avatars().Get(ctx, outcome.Kid.ID))
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "number of questions (default 10)")
	return cmd
}
