package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Contact is an address-book entry.
type Contact struct {
	Address string
	Name    string
}

// AddressBook is the boundary to the contacts collaborator.
type AddressBook interface {
	FindByAddress(ctx context.Context, address string) (*Contact, error)
	Save(ctx context.Context, contact Contact) error
}

// Feedback is the boundary to the device feedback collaborator. A
// successful scan resolution requests a haptic confirmation cue.
type Feedback interface {
	ConfirmScan()
}

// TxSummary is the read-only view of an observed transaction used by the
// "view transaction" lookup on result screens.
type TxSummary struct {
	TxId      string
	Amount    decimal.Decimal
	Timestamp int64
	Memo      string
}

// TxViewer provides a read-only snapshot of the in-memory transaction
// list. The list is updated independently by the synchronizer's event
// stream; a just-broadcast transaction becomes visible eventually, not
// immediately.
type TxViewer interface {
	GetTransaction(txId string) (TxSummary, bool)
}

// Quote is a slippage-adjusted swap price with an expiry. DepositAddress
// is where the swapped funds must be sent on the active network.
type Quote struct {
	FromAsset      string
	ToAsset        string
	AmountIn       decimal.Decimal
	AmountOut      decimal.Decimal
	Rate           decimal.Decimal
	Slippage       decimal.Decimal
	DepositAddress string
	ExpiresAt      time.Time
}

// IsExpired ...
func (q Quote) IsExpired(now time.Time) bool {
	return !q.ExpiresAt.IsZero() && now.After(q.ExpiresAt)
}

// MinAmountOut returns the guaranteed output after applying the slippage
// tolerance.
func (q Quote) MinAmountOut() decimal.Decimal {
	return q.AmountOut.Mul(decimal.NewFromInt(1).Sub(q.Slippage))
}

// RateProvider is the boundary to the external swap-rate collaborator.
type RateProvider interface {
	GetQuote(
		ctx context.Context, fromAsset, toAsset string, amount decimal.Decimal,
	) (Quote, error)
}
