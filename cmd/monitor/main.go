package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-telegram/bot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mteam88/rand-floor-monitor/internal/chain"
	"github.com/mteam88/rand-floor-monitor/internal/collections"
	"github.com/mteam88/rand-floor-monitor/internal/config"
	"github.com/mteam88/rand-floor-monitor/internal/enrich"
	"github.com/mteam88/rand-floor-monitor/internal/externals/deepnftvalue"
	"github.com/mteam88/rand-floor-monitor/internal/externals/moralis"
	"github.com/mteam88/rand-floor-monitor/internal/externals/reservoir"
	"github.com/mteam88/rand-floor-monitor/internal/flooring"
	"github.com/mteam88/rand-floor-monitor/internal/monitor"
	"github.com/mteam88/rand-floor-monitor/internal/notify"
)

func main() {
	root := &cobra.Command{
		Use:          "monitor",
		Short:        "Flooring fragmentation monitor",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the monitor",
		RunE:  runMonitor,
	}

	runCmd.Flags().String("ws-rpc", "", "websocket RPC URL for the log subscription")
	runCmd.Flags().String("http-rpc", "", "HTTP RPC URL for read-only calls (defaults to ws-rpc)")
	runCmd.Flags().String("contract", config.FlooringContract, "Flooring contract address")
	runCmd.Flags().String("info-contract", config.CollectionInfoContract, "Flooring contract serving collectionInfo")
	runCmd.Flags().Uint64("start-block", 0, "start block (0 means latest)")
	runCmd.Flags().Float64("minimum-profit", 0, "minimum total profit in ETH to notify")
	runCmd.Flags().Float64("peg-ratio", 1_000_000, "fragment tokens pegged to one NFT")
	runCmd.Flags().Int("fragment-decimals", 18, "fragment token decimals")
	runCmd.Flags().String("telegram-chat", "@flooring_monitor", "telegram chat identifier")
	runCmd.Flags().Duration("send-cooldown", 35*time.Second, "cooldown after a failed send")
	runCmd.Flags().Duration("http-timeout", 10*time.Second, "external API call timeout")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.WSRPCURL == "" {
		return fmt.Errorf("ws rpc url is required")
	}
	if cfg.TelegramToken == "" {
		return fmt.Errorf("telegram token is required")
	}
	if !common.IsHexAddress(cfg.Contract) {
		return fmt.Errorf("invalid contract address: %s", cfg.Contract)
	}
	if !common.IsHexAddress(cfg.InfoContract) {
		return fmt.Errorf("invalid info contract address: %s", cfg.InfoContract)
	}
	contractAddress := common.HexToAddress(cfg.Contract)
	infoAddress := common.HexToAddress(cfg.InfoContract)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	subClient, err := chain.NewClient(ctx, cfg.WSRPCURL)
	if err != nil {
		return fmt.Errorf("connect ws rpc: %w", err)
	}
	defer subClient.Close()

	callClient := subClient
	if cfg.HTTPRPCURL != "" {
		callClient, err = chain.NewClient(ctx, cfg.HTTPRPCURL)
		if err != nil {
			return fmt.Errorf("connect http rpc: %w", err)
		}
		defer callClient.Close()
	}

	registry := collections.NewRegistry(cfg.Collections)
	contract := flooring.NewContract(callClient, infoAddress)

	valuations := deepnftvalue.New(cfg.DeepNFTValueURL, cfg.DeepNFTValueKey, cfg.HTTPTimeout, logger)
	bids := reservoir.New(cfg.ReservoirURL, cfg.ReservoirKey, cfg.HTTPTimeout, logger)
	prices := moralis.New(cfg.MoralisURL, cfg.MoralisKey, cfg.HTTPTimeout)

	enricher := enrich.NewEnricher(registry, contract, valuations, bids, prices, enrich.Config{
		PegRatio: cfg.PegRatio,
		Decimals: cfg.FragmentDecimals,
	}, logger)

	tgBot, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	notifier := notify.New(tgBot, notify.Config{
		ChatID:        cfg.TelegramChat,
		MinimumProfit: cfg.MinimumProfit,
		Cooldown:      cfg.SendCooldown,
	}, logger)

	runner := monitor.NewRunner(monitor.RunConfig{
		ContractAddress: contractAddress,
		StartBlock:      cfg.StartBlock,
	}, subClient, registry, enricher, notifier, logger)

	logger.Info("monitor start",
		zap.String("contract", contractAddress.Hex()),
		zap.String("info_contract", infoAddress.Hex()),
		zap.Uint64("start_block", cfg.StartBlock),
		zap.Float64("minimum_profit", cfg.MinimumProfit),
		zap.String("telegram_chat", cfg.TelegramChat),
		zap.Duration("send_cooldown", cfg.SendCooldown),
	)

	return runner.Run(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
