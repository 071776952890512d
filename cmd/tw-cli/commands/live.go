package commands

import (
	"fmt"
	"strconv"
	"strings"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"

	"github.com/spf13/cobra"
)

var bracketWeight string
var bracketPages string

func init() {
	bracketsCmd.Flags().StringVar(&bracketWeight, "html", "", "Print the rendered bracket of this weight id instead of the weight table.")
	bracketsCmd.Flags().StringVar(&bracketPages, "pages", "", "Comma separated page ids for --html, defaults to the pages shown by the site.")

	rootCmd.AddCommand(searchCmd, hubCmd, matchesCmd, bracketsCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Searches tournaments by name.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		tournaments, err := client.SearchTournaments(cmd.Context(), query)
		if err != nil {
			return err
		}
		renderTournaments(cmd.OutOrStdout(), tournaments)
		return nil
	},
}

var hubCmd = &cobra.Command{
	Use:   "hub <type> <id>",
	Short: "Shows a tournament's hub page.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventType, id, err := tournamentArgs(args)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		tournament, err := client.TournamentHub(cmd.Context(), eventType, id)
		if err != nil {
			return err
		}
		renderTournament(cmd.OutOrStdout(), tournament)
		return nil
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches <type> <id>",
	Short: "Shows the current mat assignments of a tournament.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventType, id, err := tournamentArgs(args)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		matches, err := client.MatAssignments(cmd.Context(), eventType, id)
		if err != nil {
			return err
		}
		renderMatches(cmd.OutOrStdout(), matches)
		return nil
	},
}

func parsePageList(value string) ([]int64, error) {
	var pages []int64
	for _, part := range strings.Split(value, ",") {
		page, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

var bracketsCmd = &cobra.Command{
	Use:   "brackets <type> <id> [--html <weight id> [--pages 1,2]]",
	Short: "Shows the weights and bracket templates of a tournament.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventType, id, err := tournamentArgs(args)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		var pages []int64
		if bracketPages != "" {
			pages, err = parsePageList(bracketPages)
			if err != nil {
				return err
			}
		}

		var data tw.BracketData
		if bracketWeight == "" || len(pages) == 0 {
			data, err = client.Brackets(cmd.Context(), eventType, id)
			if err != nil {
				return err
			}
		}
		if bracketWeight == "" {
			renderBrackets(cmd.OutOrStdout(), data)
			return nil
		}

		if len(pages) == 0 {
			weight, ok := data.Weight(bracketWeight)
			if !ok {
				return fmt.Errorf("unknown weight %q", bracketWeight)
			}
			templates := data.TemplatesFor(weight.BracketID)
			if len(templates) > 0 {
				pages = templates[0].VisiblePageIDs()
			}
		}
		body, err := client.BracketHTML(cmd.Context(), eventType, id, bracketWeight, pages)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	},
}
