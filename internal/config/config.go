package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FlooringContract is the Flooring Protocol deployment the monitor watches.
const FlooringContract = "0x3eb879cc9a0ef4c6f1d870a40ae187768c278da2"

// CollectionInfoContract is the Flooring deployment serving the
// collectionInfo view. Fragmentation events and read calls live on
// separate contracts.
const CollectionInfoContract = "0x8ad7892f15e6a3a1c0eecf83c30f414227434540"

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	WSRPCURL   string
	HTTPRPCURL string
	Contract   string
	// InfoContract is the deployment queried for collectionInfo; Contract
	// only filters the log subscription.
	InfoContract string
	StartBlock   uint64

	MinimumProfit float64
	// PegRatio is the number of fragment ERC-20 tokens pegged to one NFT.
	PegRatio float64
	// FragmentDecimals is the fragment token's smallest-unit scale.
	FragmentDecimals int

	TelegramToken string
	TelegramChat  string

	DeepNFTValueURL string
	DeepNFTValueKey string
	ReservoirURL    string
	ReservoirKey    string
	MoralisURL      string
	MoralisKey      string

	SendCooldown time.Duration
	HTTPTimeout  time.Duration
	LogLevel     string

	// Collections are extra address→slug entries merged over the built-in
	// table.
	Collections map[string]string
}

// Load merges .env, config file, environment variables, and flags into
// Config. Secrets (API keys, bot token) normally arrive via environment.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MONITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("contract", FlooringContract)
	v.SetDefault("info-contract", CollectionInfoContract)
	v.SetDefault("start-block", uint64(0))
	v.SetDefault("minimum-profit", float64(0))
	v.SetDefault("peg-ratio", float64(1_000_000))
	v.SetDefault("fragment-decimals", 18)
	v.SetDefault("telegram-chat", "@flooring_monitor")
	v.SetDefault("deepnftvalue-url", "https://api.deepnftvalue.com")
	v.SetDefault("reservoir-url", "https://api.reservoir.tools")
	v.SetDefault("moralis-url", "https://deep-index.moralis.io/api/v2.2")
	v.SetDefault("send-cooldown", 35*time.Second)
	v.SetDefault("http-timeout", 10*time.Second)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		WSRPCURL:         v.GetString("ws-rpc"),
		HTTPRPCURL:       v.GetString("http-rpc"),
		Contract:         v.GetString("contract"),
		InfoContract:     v.GetString("info-contract"),
		StartBlock:       v.GetUint64("start-block"),
		MinimumProfit:    v.GetFloat64("minimum-profit"),
		PegRatio:         v.GetFloat64("peg-ratio"),
		FragmentDecimals: v.GetInt("fragment-decimals"),
		TelegramToken:    v.GetString("telegram-token"),
		TelegramChat:     v.GetString("telegram-chat"),
		DeepNFTValueURL:  v.GetString("deepnftvalue-url"),
		DeepNFTValueKey:  v.GetString("deepnftvalue-key"),
		ReservoirURL:     v.GetString("reservoir-url"),
		ReservoirKey:     v.GetString("reservoir-key"),
		MoralisURL:       v.GetString("moralis-url"),
		MoralisKey:       v.GetString("moralis-key"),
		SendCooldown:     v.GetDuration("send-cooldown"),
		HTTPTimeout:      v.GetDuration("http-timeout"),
		LogLevel:         v.GetString("log-level"),
		Collections:      v.GetStringMapString("collections"),
	}

	return cfg, nil
}
