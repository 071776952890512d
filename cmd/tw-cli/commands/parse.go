package commands

import (
	"fmt"
	"os"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"

	"github.com/spf13/cobra"
)

var hubType string
var hubId int64

func init() {
	parseHubCmd.Flags().StringVar(&hubType, "type", "predefined", "Event type used when the page has no type badge.")
	parseHubCmd.Flags().Int64Var(&hubId, "id", 0, "Tournament id, the hub page does not contain it.")

	parseCmd.AddCommand(parseTournamentsCmd, parseHubCmd, parseMatchesCmd, parseBracketsCmd)
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parses saved trackwrestling pages without touching the network.",
}

func readPage(path string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(contents), nil
}

var parseTournamentsCmd = &cobra.Command{
	Use:   "tournaments <file>",
	Short: "Parses a saved tournament search page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := readPage(args[0])
		if err != nil {
			return err
		}
		tournaments, skipped, err := tw.ParseTournamentListItems(page)
		if err != nil {
			return err
		}
		for _, item := range skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s\n", item.Error())
		}
		renderTournaments(cmd.OutOrStdout(), tournaments)
		return nil
	},
}

var parseHubCmd = &cobra.Command{
	Use:   "hub <file> [--id <id>] [--type <type>]",
	Short: "Parses a saved tournament hub page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fallback, err := tw.ParseEventType(hubType)
		if err != nil {
			return err
		}
		page, err := readPage(args[0])
		if err != nil {
			return err
		}
		tournament, err := tw.ParseTournamentHub(page, hubId, fallback)
		if err != nil {
			return err
		}
		renderTournament(cmd.OutOrStdout(), tournament)
		return nil
	},
}

var parseMatchesCmd = &cobra.Command{
	Use:   "matches <file>",
	Short: "Parses a saved mat assignment page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := readPage(args[0])
		if err != nil {
			return err
		}
		matches, err := tw.ParseMatches(page)
		if err != nil {
			return err
		}
		renderMatches(cmd.OutOrStdout(), matches)
		return nil
	},
}

var parseBracketsCmd = &cobra.Command{
	Use:   "brackets <file>",
	Short: "Parses a saved bracket viewer page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := readPage(args[0])
		if err != nil {
			return err
		}
		data, err := tw.ParseBracketPayload(page)
		if err != nil {
			return err
		}
		renderBrackets(cmd.OutOrStdout(), data)
		return nil
	},
}
