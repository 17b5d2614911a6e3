package config

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/shieldpay/sendflow/internal/core/domain"
)

const (
	// NetworkKey is the network to use. Either "mainnet" or "testnet".
	NetworkKey = "NETWORK"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DatadirKey is the local data directory to store reminder records and flags.
	DatadirKey = "DATA_DIR_PATH"
	// SendingDwellKey is the minimum time in milliseconds the Sending screen
	// stays visible before a result may replace it.
	SendingDwellKey = "SENDING_DWELL"
	// ProposalTimeoutKey are the milliseconds to wait for a proposal before giving up.
	ProposalTimeoutKey = "PROPOSAL_TIMEOUT"
	// QuoteTimeoutKey are the milliseconds to wait for a swap quote before giving up.
	QuoteTimeoutKey = "QUOTE_TIMEOUT"
	// QuoteRateLimitKey is the number of quote requests per second allowed
	// towards the swap-rate provider.
	QuoteRateLimitKey = "QUOTE_RATE_LIMIT"

	// DbLocation is the subdirectory of the datadir holding the store.
	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("sendflow", false)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("SENDFLOW")
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, "mainnet")
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(SendingDwellKey, 2000)
	vip.SetDefault(ProposalTimeoutKey, 15000)
	vip.SetDefault(QuoteTimeoutKey, 10000)
	vip.SetDefault(QuoteRateLimitKey, 5)

	if err := validate(); err != nil {
		log.WithError(err).Panic("error while validating config")
	}
}

// GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

// GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetNetwork returns the configured network as a domain type.
func GetNetwork() domain.NetworkType {
	if vip.GetString(NetworkKey) == "testnet" {
		return domain.NetworkTestnet
	}
	return domain.NetworkMainnet
}

// Set ...
func Set(key string, val interface{}) {
	vip.Set(key, val)
}

func validate() error {
	switch network := vip.GetString(NetworkKey); network {
	case "mainnet", "testnet":
	default:
		return fmt.Errorf("network must be either mainnet or testnet, got %s", network)
	}
	if vip.GetInt(SendingDwellKey) < 0 {
		return fmt.Errorf("sending dwell must not be negative")
	}
	if vip.GetInt(QuoteRateLimitKey) <= 0 {
		return fmt.Errorf("quote rate limit must be positive")
	}
	return nil
}
