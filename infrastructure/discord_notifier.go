package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"lottogen/domain/entities"
	"lottogen/domain/interfaces"
	"lottogen/infrastructure/export"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	embedColorComplete = 0x2ECC71
	embedColorPartial  = 0xE67E22
)

// WebhookExecutor is the part of *discordgo.Session used to post to a webhook
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts generated tickets to a Discord channel webhook
type DiscordNotifier struct {
	executor  WebhookExecutor
	webhookID string
	token     string
	chart     *export.ChartRenderer
}

var _ interfaces.ResultSink = (*DiscordNotifier)(nil)

// NewDiscordNotifier creates a notifier for the given webhook
func NewDiscordNotifier(executor WebhookExecutor, webhookID, token string, chart *export.ChartRenderer) *DiscordNotifier {
	if chart == nil {
		chart = export.NewChartRenderer()
	}
	return &DiscordNotifier{
		executor:  executor,
		webhookID: webhookID,
		token:     token,
		chart:     chart,
	}
}

// NewDiscordSession creates an unauthenticated session; webhook calls carry their own token
func NewDiscordSession() (*discordgo.Session, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return session, nil
}

// Name identifies the sink in logs
func (n *DiscordNotifier) Name() string {
	return "discord"
}

// Deliver posts the tickets as an embed with the frequency chart attached
func (n *DiscordNotifier) Deliver(ctx context.Context, run *entities.GenerationRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := buildWebhookParams(run)

	if run.Frequency != nil {
		png, err := n.chart.Render(run.Frequency, run.TopK)
		if err != nil {
			log.WithError(err).Warn("Failed to render chart for Discord, sending tickets only")
		} else {
			params.Files = []*discordgo.File{{
				Name:        export.ChartFile,
				ContentType: "image/png",
				Reader:      bytes.NewReader(png),
			}}
			params.Embeds[0].Image = &discordgo.MessageEmbedImage{URL: "attachment://" + export.ChartFile}
		}
	}

	if _, err := n.executor.WebhookExecute(n.webhookID, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to execute Discord webhook: %w", err)
	}

	log.WithFields(log.Fields{
		"run_id":  run.ID,
		"tickets": run.Produced(),
	}).Info("Posted tickets to Discord")
	return nil
}

func buildWebhookParams(run *entities.GenerationRun) *discordgo.WebhookParams {
	var lines strings.Builder
	for i, t := range run.Tickets {
		fmt.Fprintf(&lines, "**%d.** `%s`\n", i+1, t)
	}
	if len(run.Tickets) == 0 {
		lines.WriteString("_Nessuna schedina generata_")
	}

	color := embedColorComplete
	fields := []*discordgo.MessageEmbedField{
		{Name: "Estrazioni", Value: fmt.Sprintf("%d (%d-%d)", run.DrawCount, run.FromYear, run.ToYear), Inline: true},
		{Name: "Top K", Value: fmt.Sprintf("%d", run.TopK), Inline: true},
		{Name: "Schedine", Value: fmt.Sprintf("%d/%d", run.Produced(), run.Requested), Inline: true},
	}
	if run.IsPartial() {
		color = embedColorPartial
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Attenzione",
			Value: "Generate meno schedine distinte di quelle richieste",
		})
	}

	return &discordgo.WebhookParams{
		Username: "lottogen",
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Schedine SuperEnalotto",
			Description: lines.String(),
			Color:       color,
			Fields:      fields,
			Footer:      &discordgo.MessageEmbedFooter{Text: run.ID.String()},
			Timestamp:   run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}},
	}
}
