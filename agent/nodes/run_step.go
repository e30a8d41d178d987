package nodes

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	"github.com/kejionglee/iphall-landing-page/agent/reply"
	"github.com/kejionglee/iphall-landing-page/agent/resolver"
	"github.com/rs/zerolog/log"
)

// StepHandler consumes the visitor's text for one workflow step.
type StepHandler func(ctx context.Context, w *Workflow, in *GraphState) error

var (
	DoneKeywords     = []string{"done", "finish", "complete", "generate quotation"}
	StartOverKeyword = "start over"
	GenerateKeywords = []string{"generate", "pdf"}
	NewKeywords      = []string{"new"}
)

var stepHandlers = map[contractx.Step]StepHandler{
	contractx.StepChoosingService: chooseService,
	contractx.StepChoosingCountry: chooseCountry,
	contractx.StepChoosingItem:    chooseItem,
	contractx.StepReadyToFinalize: finalize,
}

var stepPrompts = map[contractx.Step]StepHandler{
	contractx.StepChoosingService: promptService,
	contractx.StepChoosingCountry: promptCountry,
	contractx.StepChoosingItem:    promptItem,
	contractx.StepReadyToFinalize: promptFinalize,
}

// RunStep applies one turn to the working selection. Collaborator failures are
// turned into replies here so the graph always reaches finalize_reply.
func RunStep(ctx context.Context, in *GraphState, w *Workflow) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if in.Failed {
		return in, nil
	}

	var err error
	switch {
	case in.Command == contractx.CommandReset || resolver.MatchesAny(in.Text, StartOverKeyword):
		err = startOver(ctx, w, in)
	case in.Command == contractx.CommandOpen:
		err = dispatch(ctx, stepPrompts, w, in)
	default:
		err = dispatch(ctx, stepHandlers, w, in)
	}
	if err != nil {
		handleFailure(ctx, w, in, err)
	}
	return in, nil
}

func dispatch(ctx context.Context, table map[contractx.Step]StepHandler, w *Workflow, in *GraphState) error {
	handler, ok := table[in.Session.Step]
	if !ok {
		return fmt.Errorf("%w: no handler for step %q", contractx.ErrValidation, in.Session.Step)
	}
	return handler(ctx, w, in)
}

func handleFailure(ctx context.Context, w *Workflow, in *GraphState, cause error) {
	logger := log.With().Str("session_id", in.SessionID).Str("step", string(in.Session.Step)).Logger()

	var err error
	switch {
	case errors.Is(cause, contractx.ErrItemResolution), errors.Is(cause, contractx.ErrMixedCurrency):
		logger.Warn().Err(cause).Msg("selected items no longer compose, clearing items")
		err = resetItems(ctx, w, in)
	case errors.Is(cause, contractx.ErrNotFound):
		logger.Warn().Err(cause).Msg("stored selection no longer in catalog, starting over")
		err = selectionGone(ctx, w, in)
	default:
		err = cause
	}
	if err != nil {
		logger.Error().Err(err).Msg("quotation turn failed")
		fail(in)
	}
}

func resetItems(ctx context.Context, w *Workflow, in *GraphState) error {
	st := in.Session
	items, err := w.Catalog.ListItems(ctx, st.Service.ID, st.Country.ID)
	if err != nil {
		return err
	}
	st.ClearItems()
	in.Summary = nil
	in.DocumentRef = ""
	in.Reply = reply.ItemsReset(*st.Service, *st.Country, items)
	in.Suggestions = reply.ItemSuggestions(items)
	return nil
}

func selectionGone(ctx context.Context, w *Workflow, in *GraphState) error {
	services, err := w.Catalog.ListServices(ctx)
	if err != nil {
		return err
	}
	in.Session.Reset()
	in.Summary = nil
	in.DocumentRef = ""
	in.Reply = reply.SelectionGone(services)
	in.Suggestions = reply.ServiceSuggestions(services)
	return nil
}
