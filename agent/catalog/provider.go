package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

// Record is one tariff row keyed by (service, country, item) names.
type Record struct {
	Service         string  `yaml:"service" json:"service" bun:"service"`
	Country         string  `yaml:"country" json:"country" bun:"country"`
	Item            string  `yaml:"item" json:"item" bun:"item"`
	ProfessionalFee float64 `yaml:"professional_fee" json:"prof_fee" bun:"prof_fee"`
	OfficialFee     float64 `yaml:"official_fee" json:"official_fee" bun:"official_fee"`
	Disbursement    float64 `yaml:"disbursement" json:"disbursement" bun:"disbursement"`
	Currency        string  `yaml:"currency" json:"currency" bun:"currency"`
}

func (r Record) Validate() error {
	switch {
	case strings.TrimSpace(r.Service) == "":
		return fmt.Errorf("%w: record service is empty", contractx.ErrValidation)
	case strings.TrimSpace(r.Country) == "":
		return fmt.Errorf("%w: record country is empty", contractx.ErrValidation)
	case strings.TrimSpace(r.Item) == "":
		return fmt.Errorf("%w: record item is empty", contractx.ErrValidation)
	case strings.TrimSpace(r.Currency) == "":
		return fmt.Errorf("%w: record currency is empty for item %q", contractx.ErrValidation, r.Item)
	case r.ProfessionalFee < 0 || r.OfficialFee < 0 || r.Disbursement < 0:
		return fmt.Errorf("%w: negative fee for item %q", contractx.ErrValidation, r.Item)
	}
	return nil
}

type CountryRow struct {
	Name     string `bun:"country"`
	Currency string `bun:"currency"`
}

// Provider is the backing tariff store. Lists are returned in first-seen order.
// Tariff returns contract.ErrNotFound when no row matches.
type Provider interface {
	ServiceNames(ctx context.Context) ([]string, error)
	Countries(ctx context.Context, service string) ([]CountryRow, error)
	Tariffs(ctx context.Context, service, country string) ([]Record, error)
	Tariff(ctx context.Context, service, country, item string) (Record, error)
}

// MemoryProvider serves an immutable in-process tariff array.
type MemoryProvider struct {
	records []Record
}

var _ Provider = (*MemoryProvider)(nil)

func NewMemoryProvider(records []Record) (*MemoryProvider, error) {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return &MemoryProvider{records: append([]Record(nil), records...)}, nil
}

func (m *MemoryProvider) Records() []Record {
	return append([]Record(nil), m.records...)
}

func (m *MemoryProvider) ServiceNames(context.Context) ([]string, error) {
	seen := make(map[string]struct{}, len(m.records))
	var out []string
	for _, r := range m.records {
		if _, ok := seen[r.Service]; ok {
			continue
		}
		seen[r.Service] = struct{}{}
		out = append(out, r.Service)
	}
	return out, nil
}

func (m *MemoryProvider) Countries(_ context.Context, service string) ([]CountryRow, error) {
	seen := make(map[string]struct{})
	var out []CountryRow
	for _, r := range m.records {
		if r.Service != service {
			continue
		}
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, CountryRow{Name: r.Country, Currency: r.Currency})
	}
	return out, nil
}

func (m *MemoryProvider) Tariffs(_ context.Context, service, country string) ([]Record, error) {
	var out []Record
	for _, r := range m.records {
		if r.Service == service && r.Country == country {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryProvider) Tariff(_ context.Context, service, country, item string) (Record, error) {
	for _, r := range m.records {
		if r.Service == service && r.Country == country && r.Item == item {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%w: tariff %s/%s/%s", contractx.ErrNotFound, service, country, item)
}

func ParseRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("catalog yaml has no records")
	}
	return records, nil
}

func LoadRecordsFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseRecords(data)
}

// SampleRecords returns the built-in sample tariff rows.
func SampleRecords() []Record {
	records, err := ParseRecords(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded sample catalog is invalid: %v", err))
	}
	return records
}
