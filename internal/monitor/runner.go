package monitor

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/mteam88/rand-floor-monitor/internal/chain"
	"github.com/mteam88/rand-floor-monitor/internal/collections"
	"github.com/mteam88/rand-floor-monitor/internal/compose"
	"github.com/mteam88/rand-floor-monitor/internal/flooring"
	"github.com/mteam88/rand-floor-monitor/internal/model"
	"github.com/mteam88/rand-floor-monitor/internal/notify"
)

const logChannelBuffer = 16

// EventEnricher resolves the market data for one event.
type EventEnricher interface {
	EnrichEvent(ctx context.Context, ev model.FragmentEvent) (model.ReferenceToken, []model.EnrichedToken)
}

// Notifier gates and delivers one composed message.
type Notifier interface {
	Notify(ctx context.Context, text string, totalProfit float64) notify.Result
}

// RunConfig holds runtime settings for the monitor loop.
type RunConfig struct {
	ContractAddress common.Address
	// StartBlock 0 means subscribe from the current head; a positive
	// value asks the node to start the subscription from that block.
	StartBlock uint64
}

// Runner consumes FragmentNft logs in subscription order and processes one
// event fully (enrich, compose, notify) before the next.
type Runner struct {
	cfg      RunConfig
	chain    *chain.Client
	registry *collections.Registry
	enricher EventEnricher
	notifier Notifier
	logger   *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, chainClient *chain.Client, registry *collections.Registry, enricher EventEnricher, notifier Notifier, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		chain:    chainClient,
		registry: registry,
		enricher: enricher,
		notifier: notifier,
		logger:   logger,
	}
}

// Run executes the subscription loop. It returns on context cancellation
// or when the subscription itself fails; the latter is fatal and left to
// an external supervisor restart.
func (r *Runner) Run(ctx context.Context) error {
	if r.chain == nil {
		return fmt.Errorf("chain client is nil")
	}
	if r.enricher == nil {
		return fmt.Errorf("enricher is nil")
	}
	if r.notifier == nil {
		return fmt.Errorf("notifier is nil")
	}

	topic, err := flooring.FragmentNftTopic()
	if err != nil {
		return fmt.Errorf("fragment topic: %w", err)
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{r.cfg.ContractAddress},
		Topics:    [][]common.Hash{{topic}},
	}
	if r.cfg.StartBlock > 0 {
		query.FromBlock = new(big.Int).SetUint64(r.cfg.StartBlock)
		r.logger.Info("starting from block", zap.Uint64("block", r.cfg.StartBlock))
	} else {
		r.logger.Info("starting from latest block")
	}

	logs := make(chan types.Log, logChannelBuffer)
	sub, err := r.chain.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("subscribe logs: %w", err)
	}
	defer sub.Unsubscribe()

	r.logger.Info("monitor started", zap.String("contract", r.cfg.ContractAddress.Hex()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("log subscription: %w", err)
		case log := <-logs:
			r.processLog(ctx, log)
		}
	}
}

// processLog runs the full pipeline for one log. Enrichment failures have
// already been degraded to absent fields by the enricher; only a log that
// cannot be decoded is skipped.
func (r *Runner) processLog(ctx context.Context, log types.Log) {
	ev, err := flooring.ParseFragmentNft(log)
	if err != nil {
		r.logger.Warn("undecodable log",
			zap.String("tx_hash", log.TxHash.Hex()),
			zap.Uint64("block_number", log.BlockNumber),
			zap.Error(err),
		)
		return
	}

	r.logger.Info("fragment event",
		zap.String("collection", ev.Collection),
		zap.Int("tokens", len(ev.TokenIDs)),
		zap.Uint64("block_number", ev.BlockNumber),
		zap.String("tx_hash", ev.TxHash),
	)

	reference, tokens := r.enricher.EnrichEvent(ctx, ev)

	label := ev.Collection
	if slug, ok := r.registry.Resolve(ev.Collection); ok {
		label = slug
	}

	notification := compose.Build(ev, label, reference, tokens)
	text := compose.Render(notification)

	result := r.notifier.Notify(ctx, text, notification.TotalProfit)
	r.logger.Info("event processed",
		zap.String("tx_hash", ev.TxHash),
		zap.Float64("total_profit", notification.TotalProfit),
		zap.Int("result", int(result)),
	)
}
