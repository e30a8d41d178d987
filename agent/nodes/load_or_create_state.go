package nodes

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	"github.com/kejionglee/iphall-landing-page/agent/reply"
	statex "github.com/kejionglee/iphall-landing-page/agent/state"
	"github.com/rs/zerolog/log"
)

// LoadOrCreateState attaches the stored selection, starting a fresh one for unknown or corrupt sessions.
// A store outage fails the turn without aborting the graph.
func LoadOrCreateState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := store.Load(ctx, in.SessionID)
	switch {
	case err == nil:
	case errors.Is(err, statex.ErrStateNotFound):
		st = statex.NewSelectionState(in.SessionID, in.Now)
	case errors.Is(err, statex.ErrCorruptState):
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("discarding corrupt session state")
		st = statex.NewSelectionState(in.SessionID, in.Now)
	default:
		log.Error().Err(err).Str("session_id", in.SessionID).Msg("load session state")
		in.Session = statex.NewSelectionState(in.SessionID, in.Now)
		in.PrevStep = in.Session.Step
		fail(in)
		return in, nil
	}

	in.Session = st
	in.PrevStep = st.Step
	return in, nil
}

func fail(in *GraphState) {
	in.Failed = true
	in.Reply = reply.Unavailable
	in.Suggestions = nil
	in.Summary = nil
	in.DocumentRef = ""
}
