package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
	"trackwrestling-backend/internal/components/chrono"
	"trackwrestling-backend/internal/components/telemetry"
	"trackwrestling-backend/lib/restyutil"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"
	"trackwrestling-backend/lib/scrapers/trackwrestling/core"
	otelsetup "trackwrestling-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	baseUrl           string
	dumpDir           string
	requestsPerSecond float64
	timeout           time.Duration
	verbose           bool
)

var rootCmd = &cobra.Command{
	Use:   "tw-cli",
	Short: "tw-cli queries trackwrestling and parses saved trackwrestling pages.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		otelsetup.InitSlog(verbose)
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&baseUrl, "base-url", core.DefaultBaseUrl, "The trackwrestling site to query.")
	flags.StringVar(&dumpDir, "dump", "", "Write raw http exchanges into this directory (it is cleared first).")
	flags.Float64Var(&requestsPerSecond, "rps", 2, "Maximum requests per second.")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "Timeout of a single request.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() (*core.Client, error) {
	opts := core.ClientOptions{
		BaseUrl:           baseUrl,
		RequestsPerSecond: requestsPerSecond,
		Timeout:           timeout,
	}
	if dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(dumpDir)
		if err != nil {
			return nil, err
		}
		opts.Output = output
	}
	return core.NewClient(opts, chrono.NewStandardTime(nil), telemetry.SlogAPI{})
}

// tournamentArgs reads the "<type> <id>" positional arguments.
func tournamentArgs(args []string) (tw.EventType, int64, error) {
	eventType, err := tw.ParseEventType(args[0])
	if err != nil {
		return 0, 0, err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid tournament id %q", args[1])
	}
	return eventType, id, nil
}
