package notify

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Result reports what happened to one notification.
type Result int

const (
	// Suppressed means the profit gate rejected the message; nothing was
	// sent and that is not an error.
	Suppressed Result = iota
	// Sent means the channel accepted the message.
	Sent
	// Failed means delivery failed; the message is dropped and the
	// cooldown is armed.
	Failed
)

// Sender is the one method of the Telegram bot API the notifier uses.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgModels.Message, error)
}

// Config holds the notifier's gate and back-off settings.
type Config struct {
	ChatID string
	// MinimumProfit gates delivery: totalProfit must strictly exceed it.
	MinimumProfit float64
	// Cooldown is how long sends stay blocked after a delivery failure.
	Cooldown time.Duration
}

// Telegram delivers composed messages to one fixed chat. After a failed
// send it arms a cooldown; the next send waits out the remainder instead
// of hitting the API immediately. The failed message itself is dropped,
// never retried.
type Telegram struct {
	sender Sender
	cfg    Config
	logger *zap.Logger

	coolUntil time.Time

	now  func() time.Time
	wait func(context.Context, time.Duration) error
}

func New(sender Sender, cfg Config, logger *zap.Logger) *Telegram {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Telegram{
		sender: sender,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		wait:   waitFor,
	}
}

// Notify applies the profit gate and delivers text to the configured chat.
// Equality with the threshold suppresses. The notifier is used by a single
// event loop, so no locking guards coolUntil.
func (t *Telegram) Notify(ctx context.Context, text string, totalProfit float64) Result {
	if totalProfit <= t.cfg.MinimumProfit {
		t.logger.Info("profit below threshold, not sending",
			zap.Float64("total_profit", totalProfit),
			zap.Float64("minimum_profit", t.cfg.MinimumProfit),
		)
		return Suppressed
	}

	if remaining := t.coolUntil.Sub(t.now()); remaining > 0 {
		t.logger.Warn("delivery cooling down", zap.Duration("remaining", remaining))
		if err := t.wait(ctx, remaining); err != nil {
			return Failed
		}
	}

	_, err := t.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    t.cfg.ChatID,
		Text:      text,
		ParseMode: tgModels.ParseModeHTML,
	})
	if err != nil {
		t.logger.Error("message delivery failed", zap.Error(err))
		t.coolUntil = t.now().Add(t.cfg.Cooldown)
		return Failed
	}

	t.logger.Info("message sent", zap.Float64("total_profit", totalProfit))
	return Sent
}

func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
