package adapter

import (
	"context"
	"fmt"
)

// StubCreditBureauClient is a development/test adapter with fixed responses
// per document, falling back to the simulated adapter when a document has no
// canned report. It implements port.CreditBureauClient.
type StubCreditBureauClient struct {
	reports map[string]map[string]string
	sim     *CreditBureauAdapter
}

// NewStubCreditBureauClient creates a new stub adapter.
func NewStubCreditBureauClient() *StubCreditBureauClient {
	return &StubCreditBureauClient{
		reports: make(map[string]map[string]string),
		sim:     NewCreditBureauAdapter(DefaultCreditBureauConfig(), nil),
	}
}

// SetReport installs a canned response for a document.
func (c *StubCreditBureauClient) SetReport(document string, fields map[string]string) {
	c.reports[document] = fields
}

// FetchBureauData returns the canned report when present, otherwise a
// deterministic simulated one.
func (c *StubCreditBureauClient) FetchBureauData(ctx context.Context, document string) (map[string]string, error) {
	if document == "" {
		return nil, fmt.Errorf("applicant document is required")
	}
	if fields, ok := c.reports[document]; ok {
		out := make(map[string]string, len(fields))
		for k, v := range fields {
			out[k] = v
		}
		return out, nil
	}
	return c.sim.FetchBureauData(ctx, document)
}
