package nodes

import (
	"strings"
	"time"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	statex "github.com/kejionglee/iphall-landing-page/agent/state"
)

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, statex.ErrInvalidSession
	}

	command, ok := contractx.ParseCommand(string(in.Command))
	if !ok {
		command = contractx.CommandNone
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      strings.TrimSpace(in.Text),
		Command:   command,
		Now:       nowFn().UTC(),
	}, nil
}
