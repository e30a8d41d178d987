// Package reply renders the assistant's templated messages and suggestion lists.
package reply

import (
	"fmt"
	"strings"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	"github.com/kejionglee/iphall-landing-page/agent/resolver"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	Unavailable    = "Sorry, I'm having trouble connecting right now. Please try again later."
	NeedOneItem    = "Please select at least one item before proceeding."
	FinalizePrompt = "Type 'generate pdf' to create a PDF quotation, or 'new' to start over."
)

// Money formats an amount as "<CUR> 1,234.5" using English digit grouping.
func Money(currency string, amount float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%s %v", currency, number.Decimal(amount, number.MaxFractionDigits(2)))
}

func Welcome(services []contractx.Service) string {
	return "Welcome! Please select an IP service:\n\n" + serviceLines(services)
}

func ChooseService(services []contractx.Service) string {
	return "Please select an IP service:\n\n" + serviceLines(services)
}

func StartOver(services []contractx.Service) string {
	return "Starting fresh! Please select an IP service:\n\n" + serviceLines(services)
}

func ServiceSelected(service contractx.Service, countries []contractx.Country) string {
	return fmt.Sprintf("Great! You've selected %s.\n\nPlease select a country:\n", service.Name) + countryLines(countries)
}

func ChooseCountry(service contractx.Service, countries []contractx.Country) string {
	return fmt.Sprintf("Please select a country for %s:\n\n", service.Name) + countryLines(countries)
}

func CountrySelected(service contractx.Service, country contractx.Country, items []contractx.LineItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Perfect! %s in %s.\n\nPlease select an item:\n", service.Name, country.Name)
	for i, item := range items {
		writeItem(&b, i+1, item, "Total")
	}
	return b.String()
}

func ChooseItem(service contractx.Service, country contractx.Country, items []contractx.LineItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please select an item for %s in %s:\n\n", service.Name, country.Name)
	for i, item := range items {
		writeItem(&b, i+1, item, "Total")
	}
	return b.String()
}

// ItemAdded shows the running selection followed by the items not yet chosen,
// numbered by their position in the full list.
func ItemAdded(added string, items []contractx.LineItem, selected []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Added: %s\n\nSelected items:\n", added)

	chosen := make(map[string]struct{}, len(selected))
	n := 0
	for _, name := range selected {
		chosen[name] = struct{}{}
		for _, item := range items {
			if item.Name == name {
				n++
				writeItem(&b, n, item, "Total")
				break
			}
		}
	}

	b.WriteString("Select more items or type 'done' to proceed:\n\n")
	for i, item := range items {
		if _, ok := chosen[item.Name]; ok {
			continue
		}
		writeItem(&b, i+1, item, "Total")
	}
	return b.String()
}

func SelectionGone(services []contractx.Service) string {
	return "That selection is no longer available.\n\nPlease select an IP service:\n\n" + serviceLines(services)
}

func ItemDuplicate(name string) string {
	return fmt.Sprintf("%s is already selected.\n\nSelect another item or type 'done' to proceed.", name)
}

func ItemsReset(service contractx.Service, country contractx.Country, items []contractx.LineItem) string {
	return "Some selected items are no longer available, so your item selection was cleared.\n\n" +
		ChooseItem(service, country, items)
}

func Summary(s contractx.QuotationSummary) string {
	var b strings.Builder
	b.WriteString("QUOTATION SUMMARY\n\n")
	fmt.Fprintf(&b, "Service: %s\n", s.Service.Name)
	fmt.Fprintf(&b, "Country: %s\n\n", s.Country.Name)
	b.WriteString("SELECTED ITEMS:\n")
	for i, item := range s.Items {
		writeItem(&b, i+1, item, "Subtotal")
	}
	b.WriteString("TOTAL COST BREAKDOWN:\n")
	fmt.Fprintf(&b, "Total Professional Fee: %s\n", Money(s.Currency, s.ProfessionalFee))
	fmt.Fprintf(&b, "Total Official Fee: %s\n", Money(s.Currency, s.OfficialFee))
	fmt.Fprintf(&b, "Total Disbursement: %s\n", Money(s.Currency, s.Disbursement))
	fmt.Fprintf(&b, "GRAND TOTAL: %s\n\n", Money(s.Currency, s.GrandTotal()))
	b.WriteString(FinalizePrompt)
	return b.String()
}

func Generated(s contractx.QuotationSummary, ref string, services []contractx.Service) string {
	var b strings.Builder
	b.WriteString("PDF quotation generated successfully!\n\n")
	fmt.Fprintf(&b, "Quotation ID: %s\n", s.ID)
	fmt.Fprintf(&b, "Service: %s\n", s.Service.Name)
	fmt.Fprintf(&b, "Country: %s\n", s.Country.Name)
	fmt.Fprintf(&b, "Items: %d selected\n", len(s.Items))
	fmt.Fprintf(&b, "Total Cost: %s\n", Money(s.Currency, s.GrandTotal()))
	fmt.Fprintf(&b, "Valid Until: %s\n", s.ValidUntil.Format("2006-01-02"))
	fmt.Fprintf(&b, "Download URL: %s\n\n", ref)
	b.WriteString("Need another quotation? Please select an IP service:\n\n")
	b.WriteString(serviceLines(services))
	return b.String()
}

func ServiceSuggestions(services []contractx.Service) []string {
	return resolver.Ordinals(len(services))
}

func CountrySuggestions(countries []contractx.Country) []string {
	names := make([]string, 0, len(countries))
	for _, c := range countries {
		names = append(names, c.Name)
	}
	return withFirstTokens(len(countries), names)
}

// ItemSuggestions lists ordinals and first tokens, followed by extra (e.g. done synonyms).
func ItemSuggestions(items []contractx.LineItem, extra ...string) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return appendUnique(withFirstTokens(len(items), names), extra...)
}

func FinalizeSuggestions() []string {
	return []string{"generate pdf", "new", "start over"}
}

func withFirstTokens(n int, names []string) []string {
	out := resolver.Ordinals(n)
	for _, name := range names {
		out = appendUnique(out, resolver.FirstToken(name))
	}
	return out
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if v == "" {
			continue
		}
		dup := false
		for _, existing := range list {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, v)
		}
	}
	return list
}

func serviceLines(services []contractx.Service) string {
	var b strings.Builder
	for i, s := range services {
		fmt.Fprintf(&b, "%d. %s\n   %s\n\n", i+1, s.Name, s.Description)
	}
	return b.String()
}

func countryLines(countries []contractx.Country) string {
	var b strings.Builder
	for i, c := range countries {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, c.Name, c.Currency)
	}
	return b.String()
}

func writeItem(b *strings.Builder, n int, item contractx.LineItem, totalLabel string) {
	fmt.Fprintf(b, "%d. %s\n", n, item.Name)
	fmt.Fprintf(b, "   Professional Fee: %s\n", Money(item.Currency, item.ProfessionalFee))
	fmt.Fprintf(b, "   Official Fee: %s\n", Money(item.Currency, item.OfficialFee))
	fmt.Fprintf(b, "   Disbursement: %s\n", Money(item.Currency, item.Disbursement))
	fmt.Fprintf(b, "   %s: %s\n\n", totalLabel, Money(item.Currency, item.TotalCost()))
}
