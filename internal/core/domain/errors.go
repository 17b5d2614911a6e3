package domain

import "errors"

var (
	// ErrRecipientInvalid is thrown when an input string does not parse as a
	// valid address for the active network.
	ErrRecipientInvalid = errors.New("recipient address is not valid for the active network")
	// ErrMemoTooLong ...
	ErrMemoTooLong = errors.New("memo exceeds the maximum allowed length")
	// ErrMemoNotAllowed is thrown when attaching a memo to a transparent recipient.
	ErrMemoNotAllowed = errors.New("memo cannot be attached to a transparent recipient")
	// ErrFlowProposalRequired is thrown when confirming a flow without a proposal.
	ErrFlowProposalRequired = errors.New("flow requires a proposal to be confirmed")
	// ErrFlowMustBeConfirming ...
	ErrFlowMustBeConfirming = errors.New("flow must be in Confirming status to perform this operation")
	// ErrFlowMustBeScanning ...
	ErrFlowMustBeScanning = errors.New("flow must be in AirGapScanning status to perform this operation")
	// ErrFlowMustBeSigned is thrown when broadcasting a flow that is neither
	// locally signed nor carrying a signed transaction from the air-gapped signer.
	ErrFlowMustBeSigned = errors.New("flow must be signed before broadcasting")
	// ErrFlowMustBeBroadcasting ...
	ErrFlowMustBeBroadcasting = errors.New("flow must be in Broadcasting status to be resolved")
	// ErrFlowAlreadyResolved ...
	ErrFlowAlreadyResolved = errors.New("flow has already reached a terminal status")
	// ErrNullSignedTransaction is thrown when the scanned signature payload is empty.
	ErrNullSignedTransaction = errors.New("signed transaction payload must not be null")
	// ErrSigningAbandoned is returned when the user cancels an air-gapped
	// signature scan.
	ErrSigningAbandoned = errors.New("air-gapped signing abandoned by user")
	// ErrEntryNotFound ...
	ErrEntryNotFound = errors.New("navigation entry not found in stack")
)
