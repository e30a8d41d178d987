package nodes

import (
	"fmt"
	"strings"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Session == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	text := strings.TrimSpace(in.Reply)
	if text == "" {
		return GraphOutput{}, fmt.Errorf("%w: step produced an empty reply", contractx.ErrValidation)
	}

	step := in.Session.Step
	if in.Failed {
		step = in.PrevStep
	}
	suggestions := in.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return GraphOutput{Response: contractx.TurnResponse{
		SessionID:   in.SessionID,
		Reply:       text,
		Suggestions: suggestions,
		Step:        step,
		Summary:     in.Summary,
		DocumentRef: in.DocumentRef,
	}}, nil
}
