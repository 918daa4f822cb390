// Package zkinput assembles the private input blob consumed by the
// proving backend. Public blobs stay visible in the proof's public
// output; secret blobs are held in a wrapper that keeps them out of logs
// and is unwrapped at exactly one point, the final serialization.
package zkinput

import (
	"errors"
	"fmt"
)

// Secret holds bytes that must not leak through formatting or encoding.
// It copies on construction, prints as a redaction marker under every
// fmt verb, refuses JSON marshaling, and can zero its backing memory.
type Secret struct {
	data []byte
}

var ErrSecretDestroyed = errors.New("secret has been destroyed")

func NewSecret(data []byte) *Secret {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &Secret{data: cp}
}

// Expose returns the underlying bytes. This is the single unwrap point;
// callers must not retain the slice past serialization.
func (s *Secret) Expose() ([]byte, error) {
	if s.data == nil {
		return nil, ErrSecretDestroyed
	}
	return s.data, nil
}

func (s *Secret) Len() int {
	return len(s.data)
}

// Destroy zeroes the backing memory. Subsequent Expose calls fail.
func (s *Secret) Destroy() {
	for i := range s.data {
		s.data[i] = 0
	}
	s.data = nil
}

const redacted = "[REDACTED]"

func (s *Secret) String() string   { return redacted }
func (s *Secret) GoString() string { return redacted }

func (s *Secret) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, redacted)
}

func (s *Secret) MarshalJSON() ([]byte, error) {
	return nil, errors.New("secrets must not be JSON-encoded")
}
