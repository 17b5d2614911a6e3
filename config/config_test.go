package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shieldpay/sendflow/config"
	"github.com/shieldpay/sendflow/internal/core/domain"
)

func TestDefaults(t *testing.T) {
	require.Equal(t, domain.NetworkMainnet, config.GetNetwork())
	require.Equal(t, 2000, config.GetInt(config.SendingDwellKey))
	require.Equal(t, 15000, config.GetInt(config.ProposalTimeoutKey))
	require.Equal(t, 10000, config.GetInt(config.QuoteTimeoutKey))
	require.Equal(t, 5, config.GetInt(config.QuoteRateLimitKey))
	require.NotEmpty(t, config.GetString(config.DatadirKey))
}

func TestGetNetwork(t *testing.T) {
	config.Set(config.NetworkKey, "testnet")
	defer config.Set(config.NetworkKey, "mainnet")

	require.Equal(t, domain.NetworkTestnet, config.GetNetwork())
}
