package contract

import "context"

// Catalog is the typed read-only view of the tariff catalog used by the workflow.
type Catalog interface {
	ListServices(ctx context.Context) ([]Service, error)
	ListCountries(ctx context.Context, serviceID string) ([]Country, error)
	ListItems(ctx context.Context, serviceID, countryID string) ([]LineItem, error)
	ResolveItem(ctx context.Context, serviceID, countryID, itemName string) (LineItem, error)
}

type Composer interface {
	Compose(ctx context.Context, service Service, country Country, itemNames []string) (QuotationSummary, error)
}

// DocumentGenerator turns a finalized summary into a retrievable reference.
type DocumentGenerator interface {
	Generate(ctx context.Context, summary QuotationSummary) (string, error)
}
