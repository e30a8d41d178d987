// Package nodes holds the per-turn steps of the quotation workflow graph.
package nodes

import (
	"errors"
	"time"

	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	statex "github.com/kejionglee/iphall-landing-page/agent/state"
)

type GraphInput struct {
	SessionID string
	Text      string
	Command   contractx.Command
}

type GraphOutput struct {
	Response contractx.TurnResponse
}

type GraphState struct {
	SessionID string
	Text      string
	Command   contractx.Command
	Now       time.Time

	Session  *statex.SelectionState
	PrevStep contractx.Step

	Reply       string
	Suggestions []string
	Summary     *contractx.QuotationSummary
	DocumentRef string

	// Failed marks a turn whose selection must not be persisted.
	Failed bool
}

// Workflow bundles the collaborators the step handlers call into.
type Workflow struct {
	Catalog   contractx.Catalog
	Composer  contractx.Composer
	Documents contractx.DocumentGenerator
}

func (w *Workflow) Validate() error {
	if w == nil {
		return errors.New("workflow is nil")
	}
	if w.Catalog == nil {
		return errors.New("catalog is required")
	}
	if w.Composer == nil {
		return errors.New("composer is required")
	}
	if w.Documents == nil {
		return errors.New("document generator is required")
	}
	return nil
}
