package application

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/shieldpay/sendflow/internal/core/domain"
	"github.com/shieldpay/sendflow/internal/core/ports"
	"github.com/shopspring/decimal"
)

const paymentURIScheme = "zcash"

// ResolverInputKind tags the origin of a recipient input.
type ResolverInputKind int

const (
	InputScanned ResolverInputKind = iota
	InputPasted
	InputContact
	InputPaymentURI
)

// ResolverInput is one of the recipient sources a flow accepts.
type ResolverInput struct {
	Kind    ResolverInputKind
	Value   string
	Contact *ports.Contact
}

// ResolvedRecipient is the outcome of a successful resolution: a validated
// recipient, plus amount and memo when the input was a payment request.
type ResolvedRecipient struct {
	Recipient domain.Recipient
	Amount    *decimal.Decimal
	Memo      *domain.Memo
}

// RecipientResolver turns scanned codes, pasted strings, address-book
// selections and payment-request URIs into validated recipients. It never
// mutates the navigation stack; callers decide how to surface errors.
type RecipientResolver struct {
	network domain.NetworkType
}

func NewRecipientResolver(network domain.NetworkType) *RecipientResolver {
	return &RecipientResolver{network: network}
}

// Resolve validates the input for the active network. Invalid input yields
// domain.ErrRecipientInvalid with no side effects.
func (r *RecipientResolver) Resolve(input ResolverInput) (ResolvedRecipient, error) {
	switch input.Kind {
	case InputContact:
		if input.Contact == nil {
			return ResolvedRecipient{}, domain.ErrRecipientInvalid
		}
		recipient, err := domain.NewRecipient(input.Contact.Address, r.network)
		if err != nil {
			return ResolvedRecipient{}, err
		}
		return ResolvedRecipient{Recipient: recipient}, nil
	case InputPaymentURI:
		return r.resolveURI(input.Value)
	case InputScanned, InputPasted:
		// A scanned code may itself be a payment URI.
		if strings.HasPrefix(strings.ToLower(input.Value), paymentURIScheme+":") {
			return r.resolveURI(input.Value)
		}
		recipient, err := domain.NewRecipient(input.Value, r.network)
		if err != nil {
			return ResolvedRecipient{}, err
		}
		return ResolvedRecipient{Recipient: recipient}, nil
	default:
		return ResolvedRecipient{}, domain.ErrRecipientInvalid
	}
}

// resolveURI parses a payment-request URI of the form
// zcash:<address>[?amount=<units>&memo=<base64url>]. The legacy form with
// a single address and no query is treated identically to a plain address.
func (r *RecipientResolver) resolveURI(raw string) (ResolvedRecipient, error) {
	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Scheme, paymentURIScheme) {
		return ResolvedRecipient{}, domain.ErrRecipientInvalid
	}

	addr := u.Opaque
	if addr == "" {
		addr = strings.TrimPrefix(u.Path, "/")
	}
	if idx := strings.IndexByte(addr, '?'); idx >= 0 {
		addr = addr[:idx]
	}

	recipient, err := domain.NewRecipient(addr, r.network)
	if err != nil {
		return ResolvedRecipient{}, err
	}
	resolved := ResolvedRecipient{Recipient: recipient}

	query := u.Query()
	if rawAmount := query.Get("amount"); rawAmount != "" {
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil || amount.IsNegative() {
			return ResolvedRecipient{}, ErrUnknownPaymentURI
		}
		resolved.Amount = &amount
	}
	if rawMemo := query.Get("memo"); rawMemo != "" {
		decoded, err := base64.RawURLEncoding.DecodeString(rawMemo)
		if err != nil {
			return ResolvedRecipient{}, ErrUnknownPaymentURI
		}
		if !recipient.SupportsMemo() {
			return ResolvedRecipient{}, domain.ErrMemoNotAllowed
		}
		memo, err := domain.NewMemo(string(decoded))
		if err != nil {
			return ResolvedRecipient{}, err
		}
		resolved.Memo = memo
	}
	return resolved, nil
}
