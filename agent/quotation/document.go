package quotation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	"github.com/rs/zerolog/log"
)

const downloadPathPrefix = "/api/quotation/download/"

// DownloadRef is the symbolic location a rendered quotation is served from.
func DownloadRef(quotationID string) string {
	return downloadPathPrefix + quotationID + ".pdf"
}

type StubDocumentGenerator struct{}

func (StubDocumentGenerator) Generate(_ context.Context, summary contractx.QuotationSummary) (string, error) {
	if strings.TrimSpace(summary.ID) == "" {
		return "", fmt.Errorf("%w: quotation id is empty", contractx.ErrDocumentGeneration)
	}
	return DownloadRef(summary.ID), nil
}

// Publisher delivers a payload to an asynchronous consumer.
type Publisher interface {
	Publish(ctx context.Context, destination string, body []byte) (string, error)
}

type DispatchConfig struct {
	Destination string `envconfig:"DESTINATION" required:"true"`
}

// DispatchingDocumentGenerator hands the summary to a renderer through a publisher
// and returns the reference the rendered file will be served under.
type DispatchingDocumentGenerator struct {
	publisher   Publisher
	destination string
}

func NewDispatchingDocumentGenerator(publisher Publisher, cfg DispatchConfig) (*DispatchingDocumentGenerator, error) {
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	destination := strings.TrimSpace(cfg.Destination)
	if destination == "" {
		return nil, errors.New("destination is required")
	}
	return &DispatchingDocumentGenerator{publisher: publisher, destination: destination}, nil
}

type renderJob struct {
	DocumentRef string                     `json:"document_ref"`
	Summary     contractx.QuotationSummary `json:"summary"`
	GrandTotal  float64                    `json:"grand_total"`
}

func (g *DispatchingDocumentGenerator) Generate(ctx context.Context, summary contractx.QuotationSummary) (string, error) {
	ref, err := StubDocumentGenerator{}.Generate(ctx, summary)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(renderJob{DocumentRef: ref, Summary: summary, GrandTotal: summary.GrandTotal()})
	if err != nil {
		return "", fmt.Errorf("%w: marshal render job: %w", contractx.ErrDocumentGeneration, err)
	}

	messageID, err := g.publisher.Publish(ctx, g.destination, body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", contractx.ErrDocumentGeneration, err)
	}

	log.Info().
		Str("quotation_id", summary.ID).
		Str("message_id", messageID).
		Msg("quotation render job dispatched")
	return ref, nil
}
