package nodes

import (
	"context"
	"fmt"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	statex "github.com/kejionglee/iphall-landing-page/agent/state"
	"github.com/rs/zerolog/log"
)

func SaveState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if in.Failed {
		return in, nil
	}

	in.Session.Touch(in.Now)
	if err := in.Session.Validate(); err != nil {
		log.Error().Err(err).Str("session_id", in.SessionID).Msg("refusing to save invalid selection")
		fail(in)
		return in, nil
	}
	if err := store.Save(ctx, in.Session); err != nil {
		log.Error().Err(err).Str("session_id", in.SessionID).Msg("save session state")
		fail(in)
		return in, nil
	}

	return in, nil
}
