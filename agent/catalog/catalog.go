// Package catalog exposes the tariff catalog as normalized services,
// countries and line items, independent of the backing store.
package catalog

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
)

// Catalog is the facade the workflow talks to. It maps stable identifiers back
// to catalog names and classifies backend failures as ErrCatalogUnavailable.
type Catalog struct {
	provider Provider
}

var _ contractx.Catalog = (*Catalog)(nil)

func New(provider Provider) (*Catalog, error) {
	if provider == nil {
		return nil, errors.New("catalog provider is required")
	}
	return &Catalog{provider: provider}, nil
}

func (c *Catalog) ListServices(ctx context.Context) ([]contractx.Service, error) {
	names, err := c.provider.ServiceNames(ctx)
	if err != nil {
		return nil, classify("list services", err)
	}
	out := make([]contractx.Service, 0, len(names))
	for _, name := range names {
		out = append(out, toService(name))
	}
	return out, nil
}

func (c *Catalog) ListCountries(ctx context.Context, serviceID string) ([]contractx.Country, error) {
	service, err := c.serviceName(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	rows, err := c.provider.Countries(ctx, service)
	if err != nil {
		return nil, classify("list countries", err)
	}
	out := make([]contractx.Country, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCountry(row))
	}
	return out, nil
}

func (c *Catalog) ListItems(ctx context.Context, serviceID, countryID string) ([]contractx.LineItem, error) {
	service, country, err := c.names(ctx, serviceID, countryID)
	if err != nil {
		return nil, err
	}
	rows, err := c.provider.Tariffs(ctx, service, country)
	if err != nil {
		return nil, classify("list items", err)
	}
	out := make([]contractx.LineItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, toLineItem(row))
	}
	return out, nil
}

func (c *Catalog) ResolveItem(ctx context.Context, serviceID, countryID, itemName string) (contractx.LineItem, error) {
	service, country, err := c.names(ctx, serviceID, countryID)
	if err != nil {
		return contractx.LineItem{}, err
	}
	row, err := c.provider.Tariff(ctx, service, country, itemName)
	if err != nil {
		return contractx.LineItem{}, classify("resolve item", err)
	}
	return toLineItem(row), nil
}

func (c *Catalog) serviceName(ctx context.Context, serviceID string) (string, error) {
	names, err := c.provider.ServiceNames(ctx)
	if err != nil {
		return "", classify("list services", err)
	}
	for _, name := range names {
		if ServiceID(name) == serviceID {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: service id=%q", contractx.ErrNotFound, serviceID)
}

func (c *Catalog) names(ctx context.Context, serviceID, countryID string) (string, string, error) {
	service, err := c.serviceName(ctx, serviceID)
	if err != nil {
		return "", "", err
	}
	rows, err := c.provider.Countries(ctx, service)
	if err != nil {
		return "", "", classify("list countries", err)
	}
	for _, row := range rows {
		if CountryID(row.Name) == countryID {
			return service, row.Name, nil
		}
	}
	return "", "", fmt.Errorf("%w: country id=%q for service %s", contractx.ErrNotFound, countryID, service)
}

func classify(op string, err error) error {
	if errors.Is(err, contractx.ErrNotFound) || errors.Is(err, contractx.ErrCatalogUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", contractx.ErrCatalogUnavailable, op, err)
}

func toService(name string) contractx.Service {
	return contractx.Service{
		ID:          ServiceID(name),
		Name:        name,
		Description: serviceDescription(name),
	}
}

func toCountry(row CountryRow) contractx.Country {
	return contractx.Country{
		ID:       CountryID(row.Name),
		Name:     row.Name,
		Currency: row.Currency,
	}
}

func toLineItem(r Record) contractx.LineItem {
	return contractx.LineItem{
		ID:              ItemID(r.Item),
		Name:            r.Item,
		Description:     itemDescription(r.Service, r.Country),
		ProfessionalFee: r.ProfessionalFee,
		OfficialFee:     r.OfficialFee,
		Disbursement:    r.Disbursement,
		Currency:        r.Currency,
	}
}
