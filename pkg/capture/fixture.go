package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
)

const (
	metadataFile = "metadata.json"
	certFile     = "cert_chain.pem"
	bodyFile     = "response_body.json"
)

// Fixture is a recorded proof together with the raw bytes it commits to.
type Fixture struct {
	Proof     domain.RecordedTlsProof
	CertChain []byte
	Body      []byte
}

// WriteFixture writes the metadata.json / cert_chain.pem /
// response_body.json triple under dir, creating it if needed.
func WriteFixture(dir string, fx Fixture) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create fixture dir: %w", err)
	}
	meta, err := json.MarshalIndent(fx.Proof, "", "  ")
	if err != nil {
		return fmt.Errorf("encode proof: %w", err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{metadataFile, append(meta, '\n')},
		{certFile, fx.CertChain},
		{bodyFile, fx.Body},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

// LoadFixture reads the fixture triple back from dir.
func LoadFixture(dir string) (Fixture, error) {
	var fx Fixture

	meta, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return fx, fmt.Errorf("read %s: %w", metadataFile, err)
	}
	if err := json.Unmarshal(meta, &fx.Proof); err != nil {
		return fx, fmt.Errorf("decode %s: %w", metadataFile, err)
	}
	if fx.CertChain, err = os.ReadFile(filepath.Join(dir, certFile)); err != nil {
		return fx, fmt.Errorf("read %s: %w", certFile, err)
	}
	if fx.Body, err = os.ReadFile(filepath.Join(dir, bodyFile)); err != nil {
		return fx, fmt.Errorf("read %s: %w", bodyFile, err)
	}
	return fx, nil
}
