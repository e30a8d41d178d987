// Package quotation turns a selection into a priced QuotationSummary and a document reference.
package quotation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
)

// Validity is how long a generated quotation stays valid.
const Validity = 30 * 24 * time.Hour

type Option func(*Composer)

func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		if now != nil {
			c.now = now
		}
	}
}

func WithIDGenerator(newID func(time.Time) string) Option {
	return func(c *Composer) {
		if newID != nil {
			c.newID = newID
		}
	}
}

type Composer struct {
	catalog contractx.Catalog
	now     func() time.Time
	newID   func(time.Time) string
}

var _ contractx.Composer = (*Composer)(nil)

func NewComposer(catalog contractx.Catalog, opts ...Option) (*Composer, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	c := &Composer{
		catalog: catalog,
		now:     time.Now,
		newID:   NewID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// NewID returns "QUO-<yyyymmddHHMMSS>-<8 hex chars>".
func NewID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("QUO-%s-%s", at.UTC().Format("20060102150405"), suffix)
}

// Compose resolves every selected item name through the catalog and aggregates the fees.
// A name that no longer resolves aborts with ErrItemResolution; catalog outages propagate unchanged.
func (c *Composer) Compose(ctx context.Context, service contractx.Service, country contractx.Country, itemNames []string) (contractx.QuotationSummary, error) {
	if len(itemNames) == 0 {
		return contractx.QuotationSummary{}, fmt.Errorf("%w: no items selected", contractx.ErrValidation)
	}
	if service.ID == "" || country.ID == "" {
		return contractx.QuotationSummary{}, fmt.Errorf("%w: service and country are required", contractx.ErrValidation)
	}

	items := make([]contractx.LineItem, 0, len(itemNames))
	for _, name := range itemNames {
		item, err := c.catalog.ResolveItem(ctx, service.ID, country.ID, name)
		if err != nil {
			if errors.Is(err, contractx.ErrNotFound) {
				return contractx.QuotationSummary{}, fmt.Errorf("%w: %q", contractx.ErrItemResolution, name)
			}
			return contractx.QuotationSummary{}, err
		}
		items = append(items, item)
	}

	summary, err := Aggregate(items)
	if err != nil {
		return contractx.QuotationSummary{}, err
	}

	now := c.now().UTC()
	summary.ID = c.newID(now)
	summary.Service = service
	summary.Country = country
	summary.GeneratedAt = now
	summary.ValidUntil = now.Add(Validity)
	return summary, nil
}

// Aggregate sums the fee components of items that share one currency.
func Aggregate(items []contractx.LineItem) (contractx.QuotationSummary, error) {
	var s contractx.QuotationSummary
	for i, item := range items {
		if i == 0 {
			s.Currency = item.Currency
		} else if item.Currency != s.Currency {
			return contractx.QuotationSummary{}, fmt.Errorf("%w: %s and %s", contractx.ErrMixedCurrency, s.Currency, item.Currency)
		}
		s.ProfessionalFee += item.ProfessionalFee
		s.OfficialFee += item.OfficialFee
		s.Disbursement += item.Disbursement
	}
	s.Items = items
	return s, nil
}
