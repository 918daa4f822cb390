// Package policyopa evaluates advisory claim policy in Rego. Policy only
// ever produces warnings; the blocking structural checks live in the
// validator and are not expressible away by policy.
package policyopa

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/open-policy-agent/opa/rego"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/hashutil"
)

const warningsQuery = "data.upe.claims.warnings"

// defaultModule carries the advisory thresholds. Keeping them in policy
// rather than code lets compliance teams tune them without a rebuild.
const defaultModule = `package upe.claims

warnings[msg] {
	input.balance > 100000000000
	msg := "balance exceeds $1 billion - please verify"
}

warnings[msg] {
	input.threshold == 0
	msg := "zero threshold proves nothing about the balance"
}

warnings[msg] {
	input.threshold > 0
	input.balance >= 100 * input.threshold
	msg := "threshold is far below balance - consider a tighter bound"
}
`

type Engine struct {
	query      rego.PreparedEvalQuery
	moduleHash string
}

// NewEngine prepares the built-in advisory policy.
func NewEngine(ctx context.Context) (*Engine, error) {
	return newEngine(ctx, "claims.rego", defaultModule)
}

// NewEngineFromPath loads a replacement policy module from disk. The
// module must define the same warnings set under data.upe.claims.
func NewEngineFromPath(ctx context.Context, path string) (*Engine, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy module: %w", err)
	}
	return newEngine(ctx, path, string(src))
}

func newEngine(ctx context.Context, name, source string) (*Engine, error) {
	prepared, err := rego.New(
		rego.Query(warningsQuery),
		rego.Module(name, source),
		rego.StrictBuiltinErrors(true),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare policy: %w", err)
	}
	sum := hashutil.Sha256([]byte(source))
	return &Engine{
		query:      prepared,
		moduleHash: hex.EncodeToString(sum[:]),
	}, nil
}

// ModuleHash identifies the exact policy text that produced a decision;
// the orchestrator records it as the decision-logic material.
func (e *Engine) ModuleHash() string {
	return e.moduleHash
}

type claimInput struct {
	Balance   uint64 `json:"balance"`
	Threshold uint64 `json:"threshold"`
}

// Warnings implements the validator's advisory policy hook.
func (e *Engine) Warnings(ctx context.Context, claim domain.RwaClaim) ([]string, error) {
	if e == nil {
		return nil, errors.New("policy engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(claimInput{
		Balance:   claim.Balance,
		Threshold: claim.Threshold,
	}))
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return nil, nil
	}

	raw, ok := results[0].Expressions[0].Value.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
	}
	warnings := make([]string, 0, len(raw))
	for _, item := range raw {
		msg, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected warning type %T", item)
		}
		warnings = append(warnings, msg)
	}
	sort.Strings(warnings)
	return warnings, nil
}
