package notify

import (
	"context"

	"housing-notifier/internal/components/telemetry"
	"housing-notifier/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("housing-notifier/notify")

const (
	report_discord_notify = "discord.notify"
)

type discordPayload struct {
	Content  string `json:"content"`
	Username string `json:"username"`
}

// Discord posts messages to a Discord webhook.
type Discord struct {
	webhookUrl string
	username   string
	http       Poster
	tel        telemetry.API
}

func NewDiscord(webhookUrl, username string, http Poster, tel telemetry.API) Discord {
	if username == "" {
		username = DefaultUsername
	}
	return Discord{
		webhookUrl: webhookUrl,
		username:   username,
		http:       http,
		tel:        telemetry.NewScopedAPI("notify", tel),
	}
}

func (d Discord) Notify(ctx context.Context, message string) error {
	ctx, span := tracer.Start(ctx, "notify:discord")
	defer span.End()

	if d.webhookUrl == "" {
		err := &NotificationDeliveryError{
			Channel: "discord",
			Err:     &config.ConfigurationError{Key: config.EnvDiscordWebhookUrl},
		}
		span.SetStatus(codes.Error, "missing webhook url")
		d.tel.ReportBroken(report_discord_notify, err)
		return err
	}

	_, err := d.http.Post(ctx, d.webhookUrl, nil, discordPayload{
		Content:  message,
		Username: d.username,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deliver")
		wrapped := &NotificationDeliveryError{Channel: "discord", Err: err}
		d.tel.ReportBroken(report_discord_notify, wrapped)
		return wrapped
	}

	d.tel.ReportDebug(report_discord_notify, "delivered")
	return nil
}
