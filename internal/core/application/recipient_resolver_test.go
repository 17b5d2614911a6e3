package application_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shieldpay/sendflow/internal/core/application"
	"github.com/shieldpay/sendflow/internal/core/domain"
	"github.com/shieldpay/sendflow/internal/core/ports"
)

func validShielded() string {
	return "zs1" + strings.Repeat("qpzry9x8gf", 8)
}

func validTransparent() string {
	return "t1" + strings.Repeat("Kj3mZx9aBc4d", 3)[:32]
}

func TestResolvePastedAddress(t *testing.T) {
	t.Parallel()

	resolver := application.NewRecipientResolver(domain.NetworkMainnet)
	resolved, err := resolver.Resolve(application.ResolverInput{
		Kind: application.InputPasted, Value: validShielded(),
	})
	require.NoError(t, err)
	require.Equal(t, validShielded(), resolved.Recipient.Address())
	require.Nil(t, resolved.Amount)
	require.Nil(t, resolved.Memo)
}

func TestResolveContact(t *testing.T) {
	t.Parallel()

	resolver := application.NewRecipientResolver(domain.NetworkMainnet)
	resolved, err := resolver.Resolve(application.ResolverInput{
		Kind:    application.InputContact,
		Contact: &ports.Contact{Address: validShielded(), Name: "alice"},
	})
	require.NoError(t, err)
	require.Equal(t, validShielded(), resolved.Recipient.Address())

	_, err = resolver.Resolve(application.ResolverInput{
		Kind: application.InputContact,
	})
	require.ErrorIs(t, err, domain.ErrRecipientInvalid)
}

func TestResolvePaymentURI(t *testing.T) {
	t.Parallel()

	resolver := application.NewRecipientResolver(domain.NetworkMainnet)

	t.Run("with_amount_and_memo", func(t *testing.T) {
		t.Parallel()

		// "dGhhbmtz" is base64url for "thanks".
		resolved, err := resolver.Resolve(application.ResolverInput{
			Kind:  application.InputPaymentURI,
			Value: "zcash:" + validShielded() + "?amount=1.5&memo=dGhhbmtz",
		})
		require.NoError(t, err)
		require.Equal(t, validShielded(), resolved.Recipient.Address())
		require.NotNil(t, resolved.Amount)
		require.Equal(t, "1.5", resolved.Amount.String())
		require.Equal(t, "thanks", resolved.Memo.Text())
	})

	t.Run("legacy_form_is_plain_address", func(t *testing.T) {
		t.Parallel()

		resolved, err := resolver.Resolve(application.ResolverInput{
			Kind:  application.InputPaymentURI,
			Value: "zcash:" + validShielded(),
		})
		require.NoError(t, err)
		require.Equal(t, validShielded(), resolved.Recipient.Address())
		require.Nil(t, resolved.Amount)
	})

	t.Run("scanned_code_may_be_a_uri", func(t *testing.T) {
		t.Parallel()

		resolved, err := resolver.Resolve(application.ResolverInput{
			Kind:  application.InputScanned,
			Value: "zcash:" + validShielded() + "?amount=2",
		})
		require.NoError(t, err)
		require.NotNil(t, resolved.Amount)
		require.Equal(t, "2", resolved.Amount.String())
	})
}

func TestFailingResolvePaymentURI(t *testing.T) {
	t.Parallel()

	resolver := application.NewRecipientResolver(domain.NetworkMainnet)

	tests := []struct {
		name  string
		value string
		want  error
	}{
		{
			name:  "wrong_scheme",
			value: "bitcoin:" + validShielded(),
			want:  domain.ErrRecipientInvalid,
		},
		{
			name:  "invalid_address",
			value: "zcash:nonsense",
			want:  domain.ErrRecipientInvalid,
		},
		{
			name:  "negative_amount",
			value: "zcash:" + validShielded() + "?amount=-1",
			want:  application.ErrUnknownPaymentURI,
		},
		{
			name:  "unparsable_amount",
			value: "zcash:" + validShielded() + "?amount=abc",
			want:  application.ErrUnknownPaymentURI,
		},
		{
			name:  "undecodable_memo",
			value: "zcash:" + validShielded() + "?memo=!!not-base64!!",
			want:  application.ErrUnknownPaymentURI,
		},
		{
			name:  "memo_on_transparent_recipient",
			value: "zcash:" + validTransparent() + "?memo=dGhhbmtz",
			want:  domain.ErrMemoNotAllowed,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := resolver.Resolve(application.ResolverInput{
				Kind: application.InputPaymentURI, Value: tt.value,
			})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolveRejectsWrongNetwork(t *testing.T) {
	t.Parallel()

	resolver := application.NewRecipientResolver(domain.NetworkTestnet)
	_, err := resolver.Resolve(application.ResolverInput{
		Kind: application.InputPasted, Value: validShielded(),
	})
	require.ErrorIs(t, err, domain.ErrRecipientInvalid)
}
