package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/domain"
	"github.com/DSHIVAAY-23/Universal-Privacy-Engine/internal/infra/hashutil"
)

// DataSource is one unit of raw material a claim can be extracted from.
type DataSource struct {
	Kind SourceKind
	// Text, CSV or API response body; JSON sources use Document.
	Raw string
	// Parsed JSON document, rendered to text before extraction.
	Document any
	// Origin URL for API sources.
	URL string
}

type SourceKind string

const (
	SourceText SourceKind = "text"
	SourceJSON SourceKind = "json"
	SourceCSV  SourceKind = "csv"
	SourceAPI  SourceKind = "api"
)

// ExtractionResult carries the claim plus the provenance data the audit
// trail records: a hash of the unsanitized source, a confidence score and
// any warnings produced along the way.
type ExtractionResult struct {
	Claim      domain.RwaClaim   `json:"claim"`
	Confidence float64           `json:"confidence"`
	SourceHash [32]byte          `json:"source_hash"`
	Warnings   []string          `json:"warnings"`
	Metadata   map[string]string `json:"metadata"`
}

var (
	ErrBalanceNotFound = fmt.Errorf("balance not found in document")
	ErrInvalidBalance  = fmt.Errorf("invalid balance format")
)

var (
	ssnPattern     = regexp.MustCompile(`\d{3}-\d{2}-\d{4}`)
	accountPattern = regexp.MustCompile(`(?i)account\s*#?\s*(\d{8,})`)
	cardPattern    = regexp.MustCompile(`\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}`)
	balancePattern = regexp.MustCompile(`(?i)(?:balance|total|amount)["\s:$]*([0-9,]+\.?\d{0,2})`)
	datePattern    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4}`)
)

var knownInstitutions = []string{"Chase", "Bank of America", "Wells Fargo", "Citi", "Goldman Sachs"}

// ClaimExtractor pulls an RwaClaim out of unstructured statement data.
// Input is PII-sanitized before pattern matching; the source hash is taken
// over the original bytes so the audit trail binds what actually arrived.
type ClaimExtractor struct{}

func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{}
}

func (e *ClaimExtractor) Extract(source DataSource) (ExtractionResult, error) {
	raw, err := sourceText(source)
	if err != nil {
		return ExtractionResult{}, err
	}

	sanitized := Sanitize(raw)
	sourceHash := hashutil.Sha256([]byte(raw))

	balance, err := extractBalance(sanitized)
	if err != nil {
		return ExtractionResult{}, err
	}
	institution := extractInstitution(sanitized)
	date := datePattern.FindString(sanitized)

	confidence := 1.0
	var warnings []string
	if institution == "" {
		confidence *= 0.8
		warnings = append(warnings, "institution name not found in document")
	}
	if date == "" {
		confidence *= 0.9
		warnings = append(warnings, "statement date not found")
	}

	metadata := map[string]string{}
	if institution != "" {
		metadata["institution"] = institution
	}
	if date != "" {
		metadata["date"] = date
	}
	if source.URL != "" {
		metadata["source_url"] = source.URL
	}

	// Extraction yields placeholder key material; real institutional
	// signatures arrive with a payroll or custody integration.
	claim := domain.NewRwaClaim(placeholderPubkey(), balance, balance/2, placeholderSignature())

	return ExtractionResult{
		Claim:      claim,
		Confidence: confidence,
		SourceHash: sourceHash,
		Warnings:   warnings,
		Metadata:   metadata,
	}, nil
}

func sourceText(source DataSource) (string, error) {
	switch source.Kind {
	case SourceJSON:
		if source.Document != nil {
			b, err := json.MarshalIndent(source.Document, "", "  ")
			if err != nil {
				return "", fmt.Errorf("render json source: %w", err)
			}
			return string(b), nil
		}
		return source.Raw, nil
	case SourceText, SourceCSV, SourceAPI, "":
		return source.Raw, nil
	default:
		return "", fmt.Errorf("unknown source kind %q", source.Kind)
	}
}

// Sanitize redacts SSNs, account numbers and card numbers before any
// further processing sees the text.
func Sanitize(text string) string {
	out := ssnPattern.ReplaceAllString(text, "[SSN REDACTED]")
	out = accountPattern.ReplaceAllString(out, "Account [REDACTED]")
	out = cardPattern.ReplaceAllString(out, "[CARD REDACTED]")
	return out
}

// extractBalance finds a dollar amount near a balance/total/amount label
// and converts it to cents.
func extractBalance(text string) (uint64, error) {
	m := balancePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, ErrBalanceNotFound
	}
	cleaned := strings.ReplaceAll(m[1], ",", "")
	dollars, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, ErrInvalidBalance
	}
	return uint64(math.Round(dollars * 100)), nil
}

func extractInstitution(text string) string {
	for _, name := range knownInstitutions {
		if strings.Contains(text, name) {
			return name
		}
	}
	return ""
}

func placeholderPubkey() [32]byte {
	var k [32]byte
	for i := range k {
		k[i] = 1
	}
	return k
}

func placeholderSignature() [64]byte {
	var s [64]byte
	for i := range s {
		s[i] = 2
	}
	return s
}
