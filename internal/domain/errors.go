package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCertChainMismatch = errors.New("certificate chain mismatch")
	ErrResponseTampered  = errors.New("response body hash mismatch")

	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrSigningFailed     = errors.New("signing failed")
)

// DomainMismatchError reports that the proof asserts a different origin
// than the caller expected.
type DomainMismatchError struct {
	Expected string
	Got      string
}

func (e *DomainMismatchError) Error() string {
	return fmt.Sprintf("domain mismatch: expected %s, got %s", e.Expected, e.Got)
}

// ReplayDetectedError reports that a proof is older than the caller's
// freshness window allows.
type ReplayDetectedError struct {
	Timestamp uint64
	MaxAge    uint64
}

func (e *ReplayDetectedError) Error() string {
	return fmt.Sprintf("replay detected: proof timestamp %d is too old (max age %ds)", e.Timestamp, e.MaxAge)
}

// FutureTimestampError reports a proof timestamp implausibly far ahead of
// the verifier's clock. Kept distinct from SignatureInvalidError so clock
// skew is never mistaken for a cryptographic failure.
type FutureTimestampError struct {
	Timestamp   uint64
	CurrentTime uint64
}

func (e *FutureTimestampError) Error() string {
	return fmt.Sprintf("proof timestamp %d is in the future (current time %d)", e.Timestamp, e.CurrentTime)
}

type SignatureInvalidError struct {
	Reason string
}

func (e *SignatureInvalidError) Error() string {
	return fmt.Sprintf("signature invalid: %s", e.Reason)
}
