package contract

import (
	"strings"
	"time"
)

type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Country struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type LineItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	ProfessionalFee float64 `json:"professional_fee"`
	OfficialFee     float64 `json:"official_fee"`
	Disbursement    float64 `json:"disbursement"`
	Currency        string  `json:"currency"`
}

// TotalCost is always derived from the three fee components.
func (i LineItem) TotalCost() float64 {
	return i.ProfessionalFee + i.OfficialFee + i.Disbursement
}

type QuotationSummary struct {
	ID              string     `json:"quotation_id"`
	Service         Service    `json:"service"`
	Country         Country    `json:"country"`
	Items           []LineItem `json:"items"`
	Currency        string     `json:"currency"`
	ProfessionalFee float64    `json:"total_professional_fee"`
	OfficialFee     float64    `json:"total_official_fee"`
	Disbursement    float64    `json:"total_disbursement"`
	GeneratedAt     time.Time  `json:"generated_at"`
	ValidUntil      time.Time  `json:"valid_until"`
}

func (q QuotationSummary) GrandTotal() float64 {
	return q.ProfessionalFee + q.OfficialFee + q.Disbursement
}

// Step is the position of a conversation in the quotation workflow.
type Step string

const (
	StepChoosingService Step = "choosing_service"
	StepChoosingCountry Step = "choosing_country"
	StepChoosingItem    Step = "choosing_item"
	StepReadyToFinalize Step = "ready_to_finalize"
)

func (s Step) Valid() bool {
	switch s {
	case StepChoosingService, StepChoosingCountry, StepChoosingItem, StepReadyToFinalize:
		return true
	default:
		return false
	}
}

// Command is an explicit instruction from the page shell that bypasses text matching.
type Command string

const (
	CommandNone  Command = ""
	CommandOpen  Command = "open"
	CommandReset Command = "reset"
)

func ParseCommand(raw string) (Command, bool) {
	switch c := Command(strings.ToLower(strings.TrimSpace(raw))); c {
	case CommandNone, CommandOpen, CommandReset:
		return c, true
	default:
		return CommandNone, false
	}
}

type TurnRequest struct {
	SessionID string  `json:"session_id"`
	Text      string  `json:"text"`
	Command   Command `json:"command,omitempty"`
}

type TurnResponse struct {
	SessionID   string            `json:"session_id"`
	Reply       string            `json:"reply"`
	Suggestions []string          `json:"suggestions"`
	Step        Step              `json:"step"`
	Summary     *QuotationSummary `json:"summary,omitempty"`
	DocumentRef string            `json:"document_ref,omitempty"`
}
