// Package workflow runs one quotation conversation turn at a time per session.
package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	nodex "github.com/kejionglee/iphall-landing-page/agent/nodes"
	"github.com/kejionglee/iphall-landing-page/agent/reply"
	statex "github.com/kejionglee/iphall-landing-page/agent/state"
	"github.com/rs/zerolog/log"
)

var ErrInvalidSession = statex.ErrInvalidSession

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

type Engine struct {
	store    statex.Store
	workflow *nodex.Workflow

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
	locks       *sessionLocks

	now func() time.Time
}

func New(
	store statex.Store,
	catalog contractx.Catalog,
	composer contractx.Composer,
	documents contractx.DocumentGenerator,
	opts ...Option,
) (*Engine, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	workflow := &nodex.Workflow{Catalog: catalog, Composer: composer, Documents: documents}
	if err := workflow.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		store:    store,
		workflow: workflow,
		locks:    newSessionLocks(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	graphRunner, err := e.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	e.graphRunner = graphRunner

	return e, nil
}

// HandleMessage processes one visitor turn. Only a blank session id is reported as an error;
// every other failure comes back as an apologetic reply with the stored selection untouched.
func (e *Engine) HandleMessage(ctx context.Context, req contractx.TurnRequest) (contractx.TurnResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return contractx.TurnResponse{}, ErrInvalidSession
	}

	unlock := e.locks.lock(sessionID)
	defer unlock()

	started := e.now()
	out, err := e.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      req.Text,
		Command:   req.Command,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("quotation turn aborted")
		return contractx.TurnResponse{
			SessionID:   sessionID,
			Reply:       reply.Unavailable,
			Suggestions: []string{},
		}, nil
	}

	log.Debug().
		Str("session_id", sessionID).
		Str("step", string(out.Response.Step)).
		Str("command", string(req.Command)).
		Dur("elapsed", e.now().Sub(started)).
		Msg("quotation turn handled")
	return out.Response, nil
}
