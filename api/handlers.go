package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	statex "github.com/kejionglee/iphall-landing-page/agent/state"
)

const maxBodyBytes = 64 << 10

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	Command        string `json:"command"`
}

type chatResponse struct {
	Response       string                      `json:"response"`
	ConversationID string                      `json:"conversation_id"`
	Step           contractx.Step              `json:"step"`
	Suggestions    []string                    `json:"suggestions"`
	Timestamp      time.Time                   `json:"timestamp"`
	Quotation      *contractx.QuotationSummary `json:"quotation,omitempty"`
	GrandTotal     *float64                    `json:"grand_total,omitempty"`
	DocumentRef    string                      `json:"document_ref,omitempty"`
}

type itemView struct {
	contractx.LineItem
	TotalCost float64 `json:"total_cost"`
}

type quotationView struct {
	Quotation   contractx.QuotationSummary `json:"quotation"`
	GrandTotal  float64                    `json:"grand_total"`
	DocumentRef string                     `json:"document_ref"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name": "IP services instant quotation API",
		"endpoints": []string{
			"POST /api/v1/chat",
			"GET /api/v1/health",
			"GET /api/quotation/services",
			"GET /api/quotation/services/{service}/countries",
			"GET /api/quotation/services/{service}/countries/{country}/items",
			"GET /api/quotation/generate/{service}/{country}/{item}",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "Request body must be a JSON object.")
		return
	}
	if len(req.Message) > s.cfg.MaxMessageBytes {
		WriteError(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("Message exceeds %d bytes.", s.cfg.MaxMessageBytes))
		return
	}
	command, ok := contractx.ParseCommand(req.Command)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, fmt.Sprintf("Unknown command %q.", req.Command))
		return
	}

	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = "conv_" + uuid.NewString()
	}

	resp, err := s.assistant.HandleMessage(r.Context(), contractx.TurnRequest{
		SessionID: conversationID,
		Text:      req.Message,
		Command:   command,
	})
	if err != nil {
		if errors.Is(err, statex.ErrInvalidSession) {
			WriteError(w, r, http.StatusBadRequest, "conversation_id is invalid.")
			return
		}
		WriteInternal(w, r, err)
		return
	}

	out := chatResponse{
		Response:       resp.Reply,
		ConversationID: resp.SessionID,
		Step:           resp.Step,
		Suggestions:    resp.Suggestions,
		Timestamp:      s.now().UTC(),
		Quotation:      resp.Summary,
		DocumentRef:    resp.DocumentRef,
	}
	if resp.Summary != nil {
		total := resp.Summary.GrandTotal()
		out.GrandTotal = &total
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.catalog.ListServices(r.Context())
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	serviceID := r.PathValue("service")
	countries, err := s.catalog.ListCountries(r.Context(), serviceID)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"service": serviceID, "countries": countries})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	serviceID, countryID := r.PathValue("service"), r.PathValue("country")
	items, err := s.catalog.ListItems(r.Context(), serviceID, countryID)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{LineItem: item, TotalCost: item.TotalCost()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"service": serviceID, "country": countryID, "items": views})
}

// handleGenerate prices a single catalog item without going through a conversation.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	serviceID, countryID, itemID := r.PathValue("service"), r.PathValue("country"), r.PathValue("item")

	services, err := s.catalog.ListServices(ctx)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	service, ok := findByID(services, serviceID, func(v contractx.Service) string { return v.ID })
	if !ok {
		WriteDomainError(w, r, fmt.Errorf("%w: service %q", contractx.ErrNotFound, serviceID))
		return
	}

	countries, err := s.catalog.ListCountries(ctx, serviceID)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	country, ok := findByID(countries, countryID, func(v contractx.Country) string { return v.ID })
	if !ok {
		WriteDomainError(w, r, fmt.Errorf("%w: country %q", contractx.ErrNotFound, countryID))
		return
	}

	items, err := s.catalog.ListItems(ctx, serviceID, countryID)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	item, ok := findByID(items, itemID, func(v contractx.LineItem) string { return v.ID })
	if !ok {
		WriteDomainError(w, r, fmt.Errorf("%w: item %q", contractx.ErrNotFound, itemID))
		return
	}

	summary, err := s.composer.Compose(ctx, service, country, []string{item.Name})
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	ref, err := s.documents.Generate(ctx, summary)
	if err != nil {
		WriteDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quotationView{Quotation: summary, GrandTotal: summary.GrandTotal(), DocumentRef: ref})
}

func findByID[T any](list []T, id string, idOf func(T) string) (T, bool) {
	for _, v := range list {
		if idOf(v) == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}
