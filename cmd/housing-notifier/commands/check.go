package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"housing-notifier/internal/components/chrono"
	"housing-notifier/internal/components/telemetry"
	"housing-notifier/internal/config"
	"housing-notifier/internal/housing"
	"housing-notifier/internal/notify"
	"housing-notifier/internal/report"
	"housing-notifier/internal/transport"
	"housing-notifier/internal/watch"
	"housing-notifier/lib/restyutil"
	"housing-notifier/lib/serviceutil"

	"github.com/spf13/cobra"
)

var checkTable *bool

func init() {
	checkTable = checkCmd.Flags().Bool("table", false, "Print available units as a table.")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [--table]",
	Short: "Searches for available housing once, prints the result and notifies if anything is available.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := cmd.Context()

		otel, err := telemetry.Setup(ctx, serviceName, cfg.Otlp)
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := otel.Shutdown(ctx)
			if err != nil {
				slog.Warn("failed to flush telemetry", "err", err)
			}
		}()

		runId := watch.NewRunId()
		tel := telemetry.NewSlogAPI(nil).With("run", runId)

		clock, err := chrono.NewStandardImpl(cfg.Timezone)
		if err != nil {
			serviceutil.Fatal("failed to load timezone", err)
		}
		criteria, err := housing.ResolveCriteria(cfg.Search, clock)
		if err != nil {
			serviceutil.Fatal("failed to resolve search criteria", err)
		}

		housingClient, err := housing.NewClient(
			cfg.ApiUrl,
			newTransport(cfg, "graphql", tel),
			tel,
		)
		if err != nil {
			serviceutil.Fatal("failed to create housing client", err)
		}

		watcher := watch.NewWatcher(
			housingClient,
			newNotifier(cfg, tel),
			watch.Options{
				Criteria: criteria,
				Message:  cfg.Notify.Message,
				Output:   os.Stdout,
				Report:   report.Options{Table: *checkTable},
				RunId:    runId,
			},
			tel,
		)

		summary := watcher.Run(ctx)
		tel.ReportDebug(
			"run finished",
			summary.Outcome.String(),
			summary.Notified,
		)
	},
}

func newTransport(cfg config.Config, name string, tel telemetry.API) *transport.Client {
	opts := transport.Options{
		Name:      name,
		Timeout:   cfg.Timeout,
		UserAgent: serviceName,
	}
	if *verbose && cfg.Log.DumpHttp {
		output, err := restyutil.NewFilesystemOutput(filepath.Join(".dev", "resty", name))
		if err != nil {
			slog.Warn("failed to create http dump directory", "err", err)
		} else {
			opts.Output = output
		}
	}
	return transport.NewClient(tel, opts)
}

func newNotifier(cfg config.Config, tel telemetry.API) notify.Notifier {
	username := cfg.Notify.Username
	if username == "" {
		username = notify.DefaultUsername
	}

	channels := notify.Fanout{
		notify.NewDiscord(
			cfg.DiscordWebhookUrl,
			username,
			newTransport(cfg, "discord", tel),
			tel,
		),
	}

	if cfg.Notify.Smtp != nil {
		smtp := cfg.Notify.Smtp
		channels = append(channels, notify.NewEmail(notify.EmailOptions{
			Server:       smtp.Server,
			Port:         smtp.Port,
			EmailAddress: smtp.EmailAddress,
			Password:     smtp.Password,
			To:           smtp.To,
			Subject:      smtp.Subject,
		}, tel))
	}

	return channels
}
