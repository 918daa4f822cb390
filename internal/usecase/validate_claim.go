package usecase

import (
	"context"
	"log"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
)

// ValidationResult separates blocking structural errors from advisory
// warnings. A claim with warnings but no errors is still valid.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ClaimPolicy produces advisory warnings for a claim. Policy failures
// must never block validation.
type ClaimPolicy interface {
	Warnings(ctx context.Context, claim domain.RwaClaim) ([]string, error)
}

// ClaimValidator runs the structural pre-checks a claim must pass before
// it is handed to the prover, plus an optional advisory policy layer.
type ClaimValidator struct {
	policy ClaimPolicy
}

func NewClaimValidator(policy ClaimPolicy) *ClaimValidator {
	return &ClaimValidator{policy: policy}
}

func (v *ClaimValidator) Validate(ctx context.Context, claim domain.RwaClaim) ValidationResult {
	var errs, warnings []string

	if claim.Balance == 0 {
		errs = append(errs, "balance cannot be zero")
	}
	if claim.Threshold > claim.Balance {
		errs = append(errs, "threshold cannot exceed balance")
	}
	if claim.InstitutionalPubkey == [32]byte{} {
		warnings = append(warnings, "institutional pubkey appears to be placeholder")
	}
	if claim.Signature == [64]byte{} {
		warnings = append(warnings, "signature appears to be placeholder")
	}

	if v.policy != nil {
		policyWarnings, err := v.policy.Warnings(ctx, claim)
		if err != nil {
			log.Printf("claim policy evaluation failed: %v", err)
		} else {
			warnings = append(warnings, policyWarnings...)
		}
	}

	return ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}
