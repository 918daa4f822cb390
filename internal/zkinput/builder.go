package zkinput

import (
	"bytes"
	"encoding/binary"
)

// Builder accumulates public and secret blobs and serializes them into
// one byte sequence for the prover. Build is idempotent over the
// accumulated state; Clear destroys the secrets and resets both lists.
//
// Wire layout, little-endian throughout: public blob count (u64), then
// each public blob as length (u64) + bytes; then the same for secrets.
type Builder struct {
	public  [][]byte
	secrets []*Secret
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddPublicData(data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	b.public = append(b.public, cp)
}

func (b *Builder) AddPublicBatch(blobs ...[]byte) {
	for _, blob := range blobs {
		b.AddPublicData(blob)
	}
}

func (b *Builder) AddSecret(data []byte) error {
	b.secrets = append(b.secrets, NewSecret(data))
	return nil
}

func (b *Builder) AddSecretValue(s *Secret) error {
	if _, err := s.Expose(); err != nil {
		return err
	}
	b.secrets = append(b.secrets, s)
	return nil
}

func (b *Builder) PublicCount() int {
	return len(b.public)
}

func (b *Builder) SecretCount() int {
	return len(b.secrets)
}

// Build serializes the accumulated state. Secrets are unwrapped here and
// nowhere else; the builder state is unchanged, so repeated calls yield
// identical bytes.
func (b *Builder) Build() ([]byte, error) {
	buf := &bytes.Buffer{}

	writeCount(buf, len(b.public))
	for _, blob := range b.public {
		writeBlob(buf, blob)
	}

	writeCount(buf, len(b.secrets))
	for _, secret := range b.secrets {
		raw, err := secret.Expose()
		if err != nil {
			return nil, err
		}
		writeBlob(buf, raw)
	}

	return buf.Bytes(), nil
}

// Clear destroys all held secrets and resets the builder for reuse.
func (b *Builder) Clear() {
	for _, secret := range b.secrets {
		secret.Destroy()
	}
	b.public = nil
	b.secrets = nil
}

func writeCount(buf *bytes.Buffer, n int) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(n))
	buf.Write(tmp[:])
}

func writeBlob(buf *bytes.Buffer, blob []byte) {
	writeCount(buf, len(blob))
	buf.Write(blob)
}
