package domain

import "strings"

// NetworkType tags a recipient with the network its address belongs to.
type NetworkType int

const (
	NetworkMainnet NetworkType = iota
	NetworkTestnet
)

func (n NetworkType) String() string {
	if n == NetworkTestnet {
		return "testnet"
	}
	return "mainnet"
}

// AddressKind distinguishes the receiver types a recipient address can
// encode. Transparent recipients cannot carry a memo.
type AddressKind int

const (
	AddressKindShielded AddressKind = iota
	AddressKindUnified
	AddressKindTransparent
)

const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// Recipient is a validated address plus its network tag. It can only be
// built through NewRecipient, so an unvalidated address never crosses an
// async suspension boundary.
type Recipient struct {
	address string
	kind    AddressKind
	network NetworkType
}

// NewRecipient validates the given address string against the active
// network and returns the recipient, or ErrRecipientInvalid.
func NewRecipient(address string, network NetworkType) (Recipient, error) {
	addr := strings.TrimSpace(address)
	kind, ok := classifyAddress(addr, network)
	if !ok {
		return Recipient{}, ErrRecipientInvalid
	}
	return Recipient{address: addr, kind: kind, network: network}, nil
}

// Address returns the validated address string.
func (r Recipient) Address() string { return r.address }

// Network returns the network the address was validated against.
func (r Recipient) Network() NetworkType { return r.network }

// Kind returns the receiver type encoded by the address.
func (r Recipient) Kind() AddressKind { return r.kind }

// SupportsMemo returns whether a memo can be attached to a transaction
// towards this recipient. Transparent outputs have no memo field.
func (r Recipient) SupportsMemo() bool { return r.kind != AddressKindTransparent }

// IsZero reports whether the recipient was never validated.
func (r Recipient) IsZero() bool { return r.address == "" }

func classifyAddress(addr string, network NetworkType) (AddressKind, bool) {
	lower := strings.ToLower(addr)
	switch network {
	case NetworkMainnet:
		switch {
		case strings.HasPrefix(lower, "zs1"):
			return AddressKindShielded, checkBech32Body(lower, "zs1", 75)
		case strings.HasPrefix(lower, "u1"):
			return AddressKindUnified, checkBech32Body(lower, "u1", 100)
		case strings.HasPrefix(addr, "t1") || strings.HasPrefix(addr, "t3"):
			return AddressKindTransparent, checkBase58Body(addr, 34, 36)
		}
	case NetworkTestnet:
		switch {
		case strings.HasPrefix(lower, "ztestsapling1"):
			return AddressKindShielded, checkBech32Body(lower, "ztestsapling1", 75)
		case strings.HasPrefix(lower, "utest1"):
			return AddressKindUnified, checkBech32Body(lower, "utest1", 100)
		case strings.HasPrefix(addr, "tm") || strings.HasPrefix(addr, "t2"):
			return AddressKindTransparent, checkBase58Body(addr, 34, 36)
		}
	}
	return 0, false
}

func checkBech32Body(addr, hrp string, minLen int) bool {
	if len(addr) < minLen {
		return false
	}
	body := addr[len(hrp):]
	for _, c := range body {
		if !strings.ContainsRune(bech32Charset, c) {
			return false
		}
	}
	return true
}

func checkBase58Body(addr string, minLen, maxLen int) bool {
	if len(addr) < minLen || len(addr) > maxLen {
		return false
	}
	for _, c := range addr {
		if c == '0' || c == 'O' || c == 'I' || c == 'l' {
			return false
		}
		isDigit := c >= '1' && c <= '9'
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isDigit && !isAlpha {
			return false
		}
	}
	return true
}
