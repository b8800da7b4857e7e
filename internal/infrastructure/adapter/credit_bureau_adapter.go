package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/loansi/scoring-engine/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Credit Bureau Adapter – structured for real integration
// ---------------------------------------------------------------------------

// CreditBureauConfig holds configuration for the credit bureau adapter.
type CreditBureauConfig struct {
	// BaseURL is the base URL for the bureau API.
	BaseURL string
	// APIKey is the authentication credential for the bureau API.
	APIKey string
	// TimeoutSeconds is the HTTP client timeout.
	TimeoutSeconds int
	// MaxRetries is the maximum number of retry attempts on transient failures.
	MaxRetries int
	// RetryBackoffMs is the base backoff duration in milliseconds between retries.
	RetryBackoffMs int
}

// DefaultCreditBureauConfig returns sensible defaults for development.
func DefaultCreditBureauConfig() CreditBureauConfig {
	return CreditBureauConfig{
		BaseURL:        "https://api.creditbureau.example.com",
		APIKey:         "dev-api-key",
		TimeoutSeconds: 10,
		MaxRetries:     3,
		RetryBackoffMs: 200,
	}
}

// BureauReport is a parsed bureau response.
type BureauReport struct {
	Document            string
	Score               int
	ClosedCredits       int
	Inquiries3Months    int
	FinancialDelinqDays int
	TelecomDebt         int64
	TelecomDelinqDays   int
	ReportDate          time.Time
}

// HTTPClient is the transport for bureau calls, abstracted for testing.
type HTTPClient interface {
	FetchReport(ctx context.Context, document string) (BureauReport, error)
}

// CreditBureauAdapter implements port.CreditBureauClient. With a nil
// HTTPClient it produces deterministic simulated reports, suitable for
// development; a real transport slots in for production integration.
type CreditBureauAdapter struct {
	config CreditBureauConfig
	client HTTPClient // nil = use simulated responses
}

// NewCreditBureauAdapter creates a new adapter with the given configuration.
func NewCreditBureauAdapter(config CreditBureauConfig, client HTTPClient) *CreditBureauAdapter {
	return &CreditBureauAdapter{config: config, client: client}
}

// FetchBureauData retrieves bureau fields for the applicant document, keyed
// by the well-known criterion codes.
func (a *CreditBureauAdapter) FetchBureauData(ctx context.Context, document string) (map[string]string, error) {
	if document == "" {
		return nil, fmt.Errorf("applicant document is required")
	}

	var (
		report BureauReport
		err    error
	)
	if a.client != nil {
		report, err = a.fetchWithRetry(ctx, document)
		if err != nil {
			return nil, fmt.Errorf("credit bureau request failed: %w", err)
		}
	} else {
		report = a.simulateReport(document)
	}

	return map[string]string{
		model.FieldBureauScore:              strconv.Itoa(report.Score),
		model.FieldClosedCredits:            strconv.Itoa(report.ClosedCredits),
		model.FieldInquiries3Months:         strconv.Itoa(report.Inquiries3Months),
		model.FieldFinancialDelinquencyDays: strconv.Itoa(report.FinancialDelinqDays),
		model.FieldTelecomDebt:              strconv.FormatInt(report.TelecomDebt, 10),
		model.FieldTelecomDelinquencyDays:   strconv.Itoa(report.TelecomDelinqDays),
	}, nil
}

// fetchWithRetry calls the bureau API with exponential backoff.
func (a *CreditBureauAdapter) fetchWithRetry(ctx context.Context, document string) (BureauReport, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(a.config.RetryBackoffMs) * time.Millisecond * (1 << uint(attempt-1))
			jitter := time.Duration(rand.Int63n(int64(backoff) / 2))
			select {
			case <-ctx.Done():
				return BureauReport{}, ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		report, err := a.client.FetchReport(ctx, document)
		if err == nil {
			return report, nil
		}
		lastErr = err
	}

	return BureauReport{}, fmt.Errorf("exhausted %d retries: %w", a.config.MaxRetries, lastErr)
}

// simulateReport derives a deterministic report from the document hash, so
// test scenarios are repeatable.
func (a *CreditBureauAdapter) simulateReport(document string) BureauReport {
	h := sha256.Sum256([]byte(document))
	score := 150 + int(binary.BigEndian.Uint32(h[:4])%801) // range [150, 950]

	return BureauReport{
		Document:            document,
		Score:               score,
		ClosedCredits:       int(binary.BigEndian.Uint16(h[4:6]) % 10),
		Inquiries3Months:    int(binary.BigEndian.Uint16(h[6:8]) % 12),
		FinancialDelinqDays: int(binary.BigEndian.Uint16(h[8:10]) % 60),
		TelecomDebt:         int64(binary.BigEndian.Uint32(h[10:14]) % 400_000),
		TelecomDelinqDays:   int(binary.BigEndian.Uint16(h[14:16]) % 120),
		ReportDate:          time.Now().UTC(),
	}
}
