package nodes

import (
	"context"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	"github.com/kejionglee/iphall-landing-page/agent/reply"
	"github.com/kejionglee/iphall-landing-page/agent/resolver"
)

func serviceName(s contractx.Service) string { return s.Name }
func serviceID(s contractx.Service) string   { return s.ID }
func countryName(c contractx.Country) string { return c.Name }
func countryID(c contractx.Country) string   { return c.ID }
func itemName(i contractx.LineItem) string   { return i.Name }
func itemID(i contractx.LineItem) string     { return i.ID }

func startOver(ctx context.Context, w *Workflow, in *GraphState) error {
	services, err := w.Catalog.ListServices(ctx)
	if err != nil {
		return err
	}
	in.Session.Reset()
	in.Reply = reply.StartOver(services)
	in.Suggestions = reply.ServiceSuggestions(services)
	return nil
}

func promptService(ctx context.Context, w *Workflow, in *GraphState) error {
	services, err := w.Catalog.ListServices(ctx)
	if err != nil {
		return err
	}
	in.Reply = reply.Welcome(services)
	in.Suggestions = reply.ServiceSuggestions(services)
	return nil
}

func chooseService(ctx context.Context, w *Workflow, in *GraphState) error {
	services, err := w.Catalog.ListServices(ctx)
	if err != nil {
		return err
	}

	service, _, ok := resolver.Resolve(in.Text, services, serviceName, serviceID)
	if !ok {
		in.Reply = reply.ChooseService(services)
		in.Suggestions = reply.ServiceSuggestions(services)
		return nil
	}

	countries, err := w.Catalog.ListCountries(ctx, service.ID)
	if err != nil {
		return err
	}
	in.Session.SelectService(service)
	in.Reply = reply.ServiceSelected(service, countries)
	in.Suggestions = reply.CountrySuggestions(countries)
	return nil
}

func promptCountry(ctx context.Context, w *Workflow, in *GraphState) error {
	service := *in.Session.Service
	countries, err := w.Catalog.ListCountries(ctx, service.ID)
	if err != nil {
		return err
	}
	in.Reply = reply.ChooseCountry(service, countries)
	in.Suggestions = reply.CountrySuggestions(countries)
	return nil
}

func chooseCountry(ctx context.Context, w *Workflow, in *GraphState) error {
	service := *in.Session.Service
	countries, err := w.Catalog.ListCountries(ctx, service.ID)
	if err != nil {
		return err
	}

	country, _, ok := resolver.Resolve(in.Text, countries, countryName, countryID)
	if !ok {
		in.Reply = reply.ChooseCountry(service, countries)
		in.Suggestions = reply.CountrySuggestions(countries)
		return nil
	}

	items, err := w.Catalog.ListItems(ctx, service.ID, country.ID)
	if err != nil {
		return err
	}
	in.Session.SelectCountry(country)
	in.Reply = reply.CountrySelected(service, country, items)
	in.Suggestions = reply.ItemSuggestions(items)
	return nil
}

func promptItem(ctx context.Context, w *Workflow, in *GraphState) error {
	st := in.Session
	items, err := w.Catalog.ListItems(ctx, st.Service.ID, st.Country.ID)
	if err != nil {
		return err
	}
	in.Reply = reply.ChooseItem(*st.Service, *st.Country, items)
	in.Suggestions = itemSuggestions(items, st.Items)
	return nil
}

func chooseItem(ctx context.Context, w *Workflow, in *GraphState) error {
	st := in.Session
	items, err := w.Catalog.ListItems(ctx, st.Service.ID, st.Country.ID)
	if err != nil {
		return err
	}

	item, _, ok := resolver.Resolve(in.Text, items, itemName, itemID)
	switch {
	case ok:
		if !st.AddItem(item.Name) {
			in.Reply = reply.ItemDuplicate(item.Name)
		} else {
			in.Reply = reply.ItemAdded(item.Name, items, st.Items)
		}
		in.Suggestions = itemSuggestions(items, st.Items)
		return nil

	case resolver.MatchesAny(in.Text, DoneKeywords...):
		if len(st.Items) == 0 {
			in.Reply = reply.NeedOneItem
			in.Suggestions = itemSuggestions(items, st.Items)
			return nil
		}
		summary, err := w.Composer.Compose(ctx, *st.Service, *st.Country, st.Items)
		if err != nil {
			return err
		}
		if err := st.SetStep(contractx.StepReadyToFinalize); err != nil {
			return err
		}
		in.Summary = &summary
		in.Reply = reply.Summary(summary)
		in.Suggestions = reply.FinalizeSuggestions()
		return nil

	default:
		in.Reply = reply.ChooseItem(*st.Service, *st.Country, items)
		in.Suggestions = itemSuggestions(items, st.Items)
		return nil
	}
}

func itemSuggestions(items []contractx.LineItem, selected []string) []string {
	if len(selected) == 0 {
		return reply.ItemSuggestions(items)
	}
	return reply.ItemSuggestions(items, DoneKeywords...)
}

func promptFinalize(ctx context.Context, w *Workflow, in *GraphState) error {
	st := in.Session
	summary, err := w.Composer.Compose(ctx, *st.Service, *st.Country, st.Items)
	if err != nil {
		return err
	}
	in.Summary = &summary
	in.Reply = reply.Summary(summary)
	in.Suggestions = reply.FinalizeSuggestions()
	return nil
}

func finalize(ctx context.Context, w *Workflow, in *GraphState) error {
	st := in.Session
	switch {
	case resolver.MatchesAny(in.Text, GenerateKeywords...):
		services, err := w.Catalog.ListServices(ctx)
		if err != nil {
			return err
		}
		summary, err := w.Composer.Compose(ctx, *st.Service, *st.Country, st.Items)
		if err != nil {
			return err
		}
		ref, err := w.Documents.Generate(ctx, summary)
		if err != nil {
			return err
		}
		st.Reset()
		in.Summary = &summary
		in.DocumentRef = ref
		in.Reply = reply.Generated(summary, ref, services)
		in.Suggestions = reply.ServiceSuggestions(services)
		return nil

	case resolver.MatchesAny(in.Text, NewKeywords...):
		return startOver(ctx, w, in)

	default:
		in.Reply = reply.FinalizePrompt
		in.Suggestions = reply.FinalizeSuggestions()
		return nil
	}
}
