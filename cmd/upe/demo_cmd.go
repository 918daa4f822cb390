package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/config"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/db"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/engine"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/policyopa"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/usecase"
)

const demoStatement = `Chase Bank Statement
Account #88213344
Date: 2026-08-01
Total Balance: $150,000.00
`

// runDemo drives the full compliance pipeline against a bank statement:
// extract, validate, prove with the configured backend, optionally submit,
// and print the resulting audit trail.
func runDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var chainName string
	var statementPath string

	fs.StringVar(&chainName, "chain", "", "settlement chain (solana, stellar, evm); empty skips submission")
	fs.StringVar(&statementPath, "statement", "", "statement text file (default built-in sample)")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	chain := domain.ChainType(chainName)
	if chainName != "" && !chain.Valid() {
		fmt.Fprintf(os.Stderr, "chain not supported: %s\n", chainName)
		return 1
	}

	statement := demoStatement
	if statementPath != "" {
		raw, err := os.ReadFile(statementPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read statement: %v\n", err)
			return 1
		}
		statement = string(raw)
	}

	ctx := context.Background()
	cfg := config.FromEnv()

	policy, err := loadPolicy(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load claim policy: %v\n", err)
		return 1
	}

	eng, err := engine.New(engine.Kind(cfg.EngineBackend))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init privacy engine: %v\n", err)
		return 1
	}

	sink, err := auditSink(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init audit sink: %v\n", err)
		return 1
	}

	trailID := fmt.Sprintf("demo-%d", time.Now().Unix())
	orch := usecase.NewComplianceOrchestrator(
		usecase.NewClaimExtractor(),
		usecase.NewClaimValidator(policy),
		eng,
		usecase.NewChainOrchestrator(),
		sink,
		trailID,
	)

	source := usecase.DataSource{Kind: usecase.SourceText, Raw: statement}
	run, err := orch.Run(ctx, source, chain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compliance run: %v\n", err)
		return 1
	}

	printRun(run)
	printTrail(orch.Trail())
	return 0
}

func loadPolicy(ctx context.Context, cfg config.Config) (*policyopa.Engine, error) {
	if cfg.PolicyPath != "" {
		return policyopa.NewEngineFromPath(ctx, cfg.PolicyPath)
	}
	return policyopa.NewEngine(ctx)
}

// auditSink mirrors trail entries to Postgres when a DSN is configured.
func auditSink(cfg config.Config) (usecase.AuditEntrySink, error) {
	if cfg.PostgresDSN == "" {
		return nil, nil
	}
	store, err := db.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return db.NewAuditEntryRepository(store.DB), nil
}

func printRun(run usecase.ComplianceRun) {
	fmt.Printf("extraction.balance=%d threshold=%d confidence=%.2f\n",
		run.Extraction.Claim.Balance, run.Extraction.Claim.Threshold, run.Extraction.Confidence)
	if len(run.Extraction.Warnings) > 0 {
		fmt.Printf("extraction.warnings=%s\n", strings.Join(run.Extraction.Warnings, ","))
	}
	if len(run.Validation.Warnings) > 0 {
		fmt.Printf("validation.warnings=%s\n", strings.Join(run.Validation.Warnings, ","))
	}
	fmt.Printf("proof=%s\n", hex.EncodeToString(run.Receipt.Proof))
	fmt.Printf("public_values=%s\n", run.Receipt.PublicValues)
	if run.Submission != nil {
		fmt.Printf("submission.tx=%s verified=%t explorer=%s\n",
			run.Submission.TransactionHash, run.Submission.VerificationStatus, run.Submission.ExplorerURL)
	}
}

func printTrail(trail *usecase.AuditTrail) {
	payload, err := trail.ExportJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "export audit trail: %v\n", err)
		return
	}
	fmt.Printf("audit.entries=%d integrity=%t\n", trail.Len(), trail.VerifyIntegrity())
	fmt.Printf("%s\n", payload)
}
