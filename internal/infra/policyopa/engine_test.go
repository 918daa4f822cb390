package policyopa

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
)

func TestDefaultPolicyCleanClaim(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngine(ctx)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	warnings, err := e.Warnings(ctx, domain.NewRwaClaim([32]byte{1}, 1_000_000, 500_000, [64]byte{2}))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestDefaultPolicyFlagsSuspiciousBalance(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngine(ctx)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	warnings, err := e.Warnings(ctx, domain.NewRwaClaim([32]byte{1}, 200_000_000_000, 150_000_000_000, [64]byte{2}))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "$1 billion") {
		t.Fatalf("warnings %v, want billion-dollar advisory", warnings)
	}
}

func TestDefaultPolicyFlagsWeakThreshold(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngine(ctx)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	warnings, err := e.Warnings(ctx, domain.NewRwaClaim([32]byte{1}, 1_000_000, 0, [64]byte{2}))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "zero threshold") {
		t.Fatalf("warnings %v, want zero-threshold advisory", warnings)
	}

	warnings, err = e.Warnings(ctx, domain.NewRwaClaim([32]byte{1}, 1_000_000, 100, [64]byte{2}))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "tighter bound") {
		t.Fatalf("warnings %v, want weak-threshold advisory", warnings)
	}
}

func TestEngineFromPath(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "claims.rego")
	module := `package upe.claims

warnings[msg] {
	input.balance > 0
	msg := "custom advisory"
}
`
	if err := os.WriteFile(path, []byte(module), 0o600); err != nil {
		t.Fatalf("write module: %v", err)
	}

	e, err := NewEngineFromPath(ctx, path)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	warnings, err := e.Warnings(ctx, domain.NewRwaClaim([32]byte{1}, 1, 1, [64]byte{2}))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if len(warnings) != 1 || warnings[0] != "custom advisory" {
		t.Fatalf("warnings %v", warnings)
	}
	if len(e.ModuleHash()) != 64 {
		t.Fatal("module hash must be hex sha256")
	}

	if _, err := NewEngineFromPath(ctx, filepath.Join(dir, "missing.rego")); err == nil {
		t.Fatal("expected missing module to fail")
	}
}
