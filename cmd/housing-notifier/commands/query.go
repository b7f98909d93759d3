package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"housing-notifier/internal/components/chrono"
	"housing-notifier/internal/housing"
	"housing-notifier/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Prints the GraphQL request that check would send, without sending it.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		clock, err := chrono.NewStandardImpl(cfg.Timezone)
		if err != nil {
			serviceutil.Fatal("failed to load timezone", err)
		}
		criteria, err := housing.ResolveCriteria(cfg.Search, clock)
		if err != nil {
			serviceutil.Fatal("failed to resolve search criteria", err)
		}

		body, err := json.MarshalIndent(housing.BuildQuery(criteria), "", "  ")
		if err != nil {
			serviceutil.Fatal("failed to encode request", err)
		}
		fmt.Fprintf(os.Stderr, "POST %s\n", cfg.ApiUrl)
		fmt.Fprintln(os.Stdout, string(body))
	},
}
