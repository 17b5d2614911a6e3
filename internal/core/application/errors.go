package application

import "errors"

var (
	// ErrProposalFailed is returned when the synchronizer cannot produce a
	// proposal for the requested transfer.
	ErrProposalFailed = errors.New("transaction proposal request failed")
	// ErrProposalSuperseded is returned to a proposal request that was
	// replaced by a newer one for the same confirmation context.
	ErrProposalSuperseded = errors.New("proposal request superseded by a newer one")
	// ErrQuoteUnavailable ...
	ErrQuoteUnavailable = errors.New("swap quote is unavailable, retry or edit the amount")
	// ErrQuoteExpired ...
	ErrQuoteExpired = errors.New("swap quote has expired")
	// ErrInputNotAllowed is returned when a resolver input kind is not legal
	// for the active flow.
	ErrInputNotAllowed = errors.New("input kind is not allowed for this flow")
	// ErrUnknownPaymentURI ...
	ErrUnknownPaymentURI = errors.New("payment request URI cannot be parsed")
)
