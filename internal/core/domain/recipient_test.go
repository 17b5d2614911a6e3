package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shieldpay/sendflow/internal/core/domain"
)

func validShielded() string {
	return "zs1" + strings.Repeat("qpzry9x8gf", 8)
}

func validUnified() string {
	return "u1" + strings.Repeat("qpzry9x8gf", 10)
}

func validTransparent() string {
	return "t1" + strings.Repeat("Kj3mZx9aBc4d", 3)[:32]
}

func TestNewRecipient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		address string
		network domain.NetworkType
		kind    domain.AddressKind
	}{
		{
			name:    "mainnet_shielded",
			address: validShielded(),
			network: domain.NetworkMainnet,
			kind:    domain.AddressKindShielded,
		},
		{
			name:    "mainnet_unified",
			address: validUnified(),
			network: domain.NetworkMainnet,
			kind:    domain.AddressKindUnified,
		},
		{
			name:    "mainnet_transparent",
			address: validTransparent(),
			network: domain.NetworkMainnet,
			kind:    domain.AddressKindTransparent,
		},
		{
			name:    "testnet_shielded",
			address: "ztestsapling1" + strings.Repeat("qpzry9x8gf", 8),
			network: domain.NetworkTestnet,
			kind:    domain.AddressKindShielded,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recipient, err := domain.NewRecipient(tt.address, tt.network)
			require.NoError(t, err)
			require.Equal(t, tt.address, recipient.Address())
			require.Equal(t, tt.kind, recipient.Kind())
			require.False(t, recipient.IsZero())
		})
	}
}

func TestFailingNewRecipient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		address string
		network domain.NetworkType
	}{
		{
			name:    "empty",
			address: "",
			network: domain.NetworkMainnet,
		},
		{
			name:    "garbage",
			address: "not-an-address",
			network: domain.NetworkMainnet,
		},
		{
			name:    "wrong_network",
			address: validShielded(),
			network: domain.NetworkTestnet,
		},
		{
			name:    "truncated_shielded",
			address: "zs1qpzry",
			network: domain.NetworkMainnet,
		},
		{
			name:    "bad_charset",
			address: "zs1" + strings.Repeat("b", 80),
			network: domain.NetworkMainnet,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := domain.NewRecipient(tt.address, tt.network)
			require.ErrorIs(t, err, domain.ErrRecipientInvalid)
		})
	}
}

func TestRecipientSupportsMemo(t *testing.T) {
	t.Parallel()

	shielded, err := domain.NewRecipient(validShielded(), domain.NetworkMainnet)
	require.NoError(t, err)
	require.True(t, shielded.SupportsMemo())

	transparent, err := domain.NewRecipient(validTransparent(), domain.NetworkMainnet)
	require.NoError(t, err)
	require.False(t, transparent.SupportsMemo())
}

func TestNewMemo(t *testing.T) {
	t.Parallel()

	memo, err := domain.NewMemo("")
	require.NoError(t, err)
	require.Nil(t, memo)

	memo, err = domain.NewMemo("thanks for lunch")
	require.NoError(t, err)
	require.Equal(t, "thanks for lunch", memo.Text())

	_, err = domain.NewMemo(strings.Repeat("a", domain.MaxMemoLength+1))
	require.ErrorIs(t, err, domain.ErrMemoTooLong)
}

func TestMemoClone(t *testing.T) {
	t.Parallel()

	var absent *domain.Memo
	require.Nil(t, absent.Clone())
	require.Equal(t, "", absent.Text())

	memo, err := domain.NewMemo("hi")
	require.NoError(t, err)
	cloned := memo.Clone()
	require.Equal(t, memo.Text(), cloned.Text())
	require.NotSame(t, memo, cloned)
}
