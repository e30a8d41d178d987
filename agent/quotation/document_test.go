package quotation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
)

type recordingPublisher struct {
	destination string
	body        []byte
	calls       int
	err         error
}

func (p *recordingPublisher) Publish(_ context.Context, destination string, body []byte) (string, error) {
	p.calls++
	p.destination = destination
	p.body = body
	if p.err != nil {
		return "", p.err
	}
	return "msg_1", nil
}

func TestStubDocumentGenerator(t *testing.T) {
	t.Parallel()

	ref, err := StubDocumentGenerator{}.Generate(context.Background(), contractx.QuotationSummary{ID: "QUO-1"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if ref != "/api/quotation/download/QUO-1.pdf" {
		t.Fatalf("Generate() = %q", ref)
	}

	if _, err := (StubDocumentGenerator{}).Generate(context.Background(), contractx.QuotationSummary{}); !errors.Is(err, contractx.ErrDocumentGeneration) {
		t.Fatalf("Generate() error = %v, want ErrDocumentGeneration", err)
	}
}

func TestDispatchingDocumentGeneratorPublishesSummary(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	gen, err := NewDispatchingDocumentGenerator(pub, DispatchConfig{Destination: "https://render.example.com/jobs"})
	if err != nil {
		t.Fatalf("NewDispatchingDocumentGenerator() error = %v", err)
	}

	summary := contractx.QuotationSummary{ID: "QUO-2", Currency: "USD", ProfessionalFee: 500, OfficialFee: 200, Disbursement: 50}
	ref, err := gen.Generate(context.Background(), summary)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if ref != "/api/quotation/download/QUO-2.pdf" {
		t.Fatalf("Generate() = %q", ref)
	}
	if pub.calls != 1 || pub.destination != "https://render.example.com/jobs" {
		t.Fatalf("publisher calls=%d destination=%q", pub.calls, pub.destination)
	}

	var job renderJob
	if err := json.Unmarshal(pub.body, &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.DocumentRef != ref || job.GrandTotal != 750 || job.Summary.ID != "QUO-2" {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestDispatchingDocumentGeneratorFailure(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{err: errors.New("qstash status=500")}
	gen, err := NewDispatchingDocumentGenerator(pub, DispatchConfig{Destination: "https://render.example.com/jobs"})
	if err != nil {
		t.Fatalf("NewDispatchingDocumentGenerator() error = %v", err)
	}
	if _, err := gen.Generate(context.Background(), contractx.QuotationSummary{ID: "QUO-3"}); !errors.Is(err, contractx.ErrDocumentGeneration) {
		t.Fatalf("Generate() error = %v, want ErrDocumentGeneration", err)
	}
}
