package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScreenKind enumerates the screen variants reachable by the payment
// pipeline. The coordinator only ever depends on the kind tag, never on how
// a screen is rendered.
type ScreenKind int

const (
	ScreenUndefined ScreenKind = iota
	ScreenAddressBook
	ScreenAddressBookContact
	ScreenScan
	ScreenSendForm
	ScreenSendConfirmation
	ScreenAirGapSign
	ScreenSending
	ScreenResultSuccess
	ScreenResultPartial
	ScreenResultFailure
	ScreenResultResubmission
	ScreenPreSigningFailure
	ScreenProposalFailed
	ScreenTransactionDetails
	ScreenSwapForm
	ScreenSwapQuote
	ScreenQuoteUnavailable
)

// IsResult returns whether the kind is one of the four terminal result
// screens. PreSigningFailure is a dead end, not a result: it is pushed when
// a broadcast fails before any signed transaction exchange happened.
func (k ScreenKind) IsResult() bool {
	switch k {
	case ScreenResultSuccess, ScreenResultPartial,
		ScreenResultFailure, ScreenResultResubmission:
		return true
	default:
		return false
	}
}

// ScreenState is the closed set of per-screen sub-states. Every concrete
// state reports its own kind so entries stay self-describing.
type ScreenState interface {
	Screen() ScreenKind
}

type AddressBookState struct {
	PickOnly bool
}

type AddressBookContactState struct {
	Address string
	Name    string
	IsNew   bool
}

type ScanState struct {
	Checkers    []ScanChecker
	InlineError string
}

type SendFormState struct {
	Recipient   *Recipient
	Amount      decimal.Decimal
	Memo        *Memo
	InlineError string
}

type SendConfirmationState struct {
	Context ConfirmationContext
}

type AirGapSignState struct {
	Pczt PCZT
}

type SendingState struct {
	ShownAt time.Time
}

type ResultSuccessState struct {
	Context ConfirmationContext
	TxId    string
}

type ResultPartialState struct {
	Context  ConfirmationContext
	TxIds    []string
	Statuses []string
}

type ResultFailureState struct {
	Context     ConfirmationContext
	Code        int32
	Description string
}

type ResultResubmissionState struct {
	Context ConfirmationContext
	TxIds   []string
}

type PreSigningFailureState struct {
	Context ConfirmationContext
}

type ProposalFailedState struct {
	Context ConfirmationContext
}

type TransactionDetailsState struct {
	TxId string
}

type SwapFormState struct {
	FromAsset string
	ToAsset   string
	Amount    decimal.Decimal
}

type SwapQuoteState struct {
	Rate   decimal.Decimal
	MinOut decimal.Decimal
	Expiry time.Time
}

type QuoteUnavailableState struct {
	FromAsset string
	ToAsset   string
	Amount    decimal.Decimal
}

func (AddressBookState) Screen() ScreenKind        { return ScreenAddressBook }
func (AddressBookContactState) Screen() ScreenKind { return ScreenAddressBookContact }
func (ScanState) Screen() ScreenKind               { return ScreenScan }
func (SendFormState) Screen() ScreenKind           { return ScreenSendForm }
func (SendConfirmationState) Screen() ScreenKind   { return ScreenSendConfirmation }
func (AirGapSignState) Screen() ScreenKind         { return ScreenAirGapSign }
func (SendingState) Screen() ScreenKind            { return ScreenSending }
func (ResultSuccessState) Screen() ScreenKind      { return ScreenResultSuccess }
func (ResultPartialState) Screen() ScreenKind      { return ScreenResultPartial }
func (ResultFailureState) Screen() ScreenKind      { return ScreenResultFailure }
func (ResultResubmissionState) Screen() ScreenKind { return ScreenResultResubmission }
func (PreSigningFailureState) Screen() ScreenKind  { return ScreenPreSigningFailure }
func (ProposalFailedState) Screen() ScreenKind     { return ScreenProposalFailed }
func (TransactionDetailsState) Screen() ScreenKind { return ScreenTransactionDetails }
func (SwapFormState) Screen() ScreenKind           { return ScreenSwapForm }
func (SwapQuoteState) Screen() ScreenKind          { return ScreenSwapQuote }
func (QuoteUnavailableState) Screen() ScreenKind   { return ScreenQuoteUnavailable }

// NavigationEntry is a screen-state held on the stack, keyed by a
// process-unique id. Ids are never reused while the entry is present.
type NavigationEntry struct {
	Id    uuid.UUID
	State ScreenState
}

// Kind returns the screen kind of the embedded state.
func (e NavigationEntry) Kind() ScreenKind {
	if e.State == nil {
		return ScreenUndefined
	}
	return e.State.Screen()
}

// NavigationStack is the ordered drill-down path of the active flow. It is
// owned exclusively by one coordinator instance and is not safe for
// concurrent use.
type NavigationStack struct {
	entries []NavigationEntry
}

func NewNavigationStack() *NavigationStack {
	return &NavigationStack{entries: make([]NavigationEntry, 0)}
}

// Push appends a new entry and returns its id. Pushing a result screen
// first pops any result screen already on the stack, so that two result
// screens never coexist.
func (s *NavigationStack) Push(state ScreenState) uuid.UUID {
	if state.Screen().IsResult() {
		for i := len(s.entries) - 1; i >= 0; i-- {
			if s.entries[i].Kind().IsResult() {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
				break
			}
		}
	}
	entry := NavigationEntry{Id: uuid.New(), State: state}
	s.entries = append(s.entries, entry)
	return entry.Id
}

// PopLast removes and returns the top entry. It is a no-op on an empty
// stack.
func (s *NavigationStack) PopLast() (NavigationEntry, bool) {
	if len(s.entries) == 0 {
		return NavigationEntry{}, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

// PopAbove removes every entry strictly above the given id, leaving the
// identified entry on top. The removed entries are returned top-first.
func (s *NavigationStack) PopAbove(id uuid.UUID) []NavigationEntry {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	return s.popFrom(idx + 1)
}

// PopThrough removes the identified entry and every entry above it.
func (s *NavigationStack) PopThrough(id uuid.UUID) []NavigationEntry {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	return s.popFrom(idx)
}

// RemoveAll empties the stack.
func (s *NavigationStack) RemoveAll() {
	s.entries = s.entries[:0]
}

// Top returns the current top-of-stack entry, used by the view layer to
// pick what to render.
func (s *NavigationStack) Top() (NavigationEntry, bool) {
	if len(s.entries) == 0 {
		return NavigationEntry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Depth returns the number of entries on the stack.
func (s *NavigationStack) Depth() int {
	return len(s.entries)
}

// FirstWhere returns the bottom-most entry of the given kind.
func (s *NavigationStack) FirstWhere(kind ScreenKind) (NavigationEntry, bool) {
	for _, e := range s.entries {
		if e.Kind() == kind {
			return e, true
		}
	}
	return NavigationEntry{}, false
}

// LastWhere returns the nearest (top-most) entry of the given kind. This
// backs the coordinators' "find the nearest ancestor screen of kind X"
// pattern.
func (s *NavigationStack) LastWhere(kind ScreenKind) (NavigationEntry, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Kind() == kind {
			return s.entries[i], true
		}
	}
	return NavigationEntry{}, false
}

// Get returns the entry with the given id, if present.
func (s *NavigationStack) Get(id uuid.UUID) (NavigationEntry, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return NavigationEntry{}, false
	}
	return s.entries[idx], true
}

// Update replaces the embedded sub-state of the identified entry. This is
// the only way an entry is mutated from outside its owning flow step; it is
// how result screens receive amount/address updates without a re-push.
func (s *NavigationStack) Update(id uuid.UUID, update func(ScreenState) ScreenState) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrEntryNotFound
	}
	s.entries[idx].State = update(s.entries[idx].State)
	return nil
}

// Entries returns a copy of the stack bottom-first, for rendering.
func (s *NavigationStack) Entries() []NavigationEntry {
	out := make([]NavigationEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *NavigationStack) indexOf(id uuid.UUID) int {
	for i, e := range s.entries {
		if e.Id == id {
			return i
		}
	}
	return -1
}

func (s *NavigationStack) popFrom(idx int) []NavigationEntry {
	removed := make([]NavigationEntry, 0, len(s.entries)-idx)
	for i := len(s.entries) - 1; i >= idx; i-- {
		removed = append(removed, s.entries[i])
	}
	s.entries = s.entries[:idx]
	return removed
}
