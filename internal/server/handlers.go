package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/piwi3910/cabinetquote/internal/export"
	"github.com/piwi3910/cabinetquote/internal/model"
	"github.com/piwi3910/cabinetquote/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

// quoteResponse is an archived quote plus the data-quality warnings of its calculation.
type quoteResponse struct {
	store.Record
	Messages []string `json:"messages"`
}

// catalogResponse is the price catalog plus the selection lists a client offers.
type catalogResponse struct {
	model.Catalog
	MaterialCodes  []string        `json:"material_codes"`
	FittingPicks   []string        `json:"fitting_picks"`
	EquipmentPicks []string        `json:"equipment_picks"`
	Categories     []categoryEntry `json:"categories"`
}

type categoryEntry struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Short string `json:"short,omitempty"`
}

type deriveRequest struct {
	Cabinet   model.CabinetParameters `json:"cabinet"`
	Materials model.MaterialSelection `json:"materials"`
	// Freeze returns every part with explicit edge counts, ready for manual editing.
	Freeze bool `json:"freeze"`
}

type deriveResponse struct {
	Parts []model.PartSpec `json:"parts"`
}

var exportTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":  "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	resp := catalogResponse{
		Catalog:        s.catalog,
		MaterialCodes:  s.catalog.MaterialCodes(),
		FittingPicks:   s.catalog.HardwarePickLabels(model.HardwareFittings),
		EquipmentPicks: s.catalog.HardwarePickLabels(model.HardwareEquipment),
	}
	for _, c := range model.Categories() {
		resp.Categories = append(resp.Categories, categoryEntry{Key: c.Key(), Name: c.String(), Short: c.ShortCode()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeriveParts(w http.ResponseWriter, r *http.Request) {
	var body deriveRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	req := model.CalculationRequest{Cabinet: body.Cabinet, Materials: body.Materials}
	s.config.ApplyToRequest(&req)
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	parts := model.DeriveParts(req.Cabinet, req.Materials)
	if body.Freeze {
		for i := range parts {
			parts[i] = model.FreezeEdges(parts[i])
		}
	}
	writeJSON(w, http.StatusOK, deriveResponse{Parts: parts})
}

func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	// Sections the client leaves out keep the workshop defaults.
	req := s.config.BaseRequest()
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.config.ApplyToRequest(&req)
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	result := model.Calculate(req, &s.catalog)
	if result.Title == "" {
		result.Title = export.QuoteTitle(result.Cabinet)
	}
	rec, err := s.quotes.SaveQuote(r.Context(), result.Title, result)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("quote saved", "id", rec.ID, "grand_total", rec.GrandTotal, "warnings", rec.Warnings)
	writeJSON(w, http.StatusCreated, newQuoteResponse(rec))
}

func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	list, err := s.quotes.ListQuotes(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	rec, err := s.quotes.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuoteResponse(rec))
}

func (s *Server) handleDeleteQuote(w http.ResponseWriter, r *http.Request) {
	if err := s.quotes.DeleteQuote(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportQuote(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	contentType, ok := exportTypes[format]
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unsupported export format %q", format)})
		return
	}

	rec, err := s.quotes.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Render fully before writing so a failure can still produce a clean 500.
	var buf bytes.Buffer
	switch format {
	case "csv":
		err = export.WriteCSV(&buf, rec.Result)
	case "xlsx":
		err = export.WriteXLSX(&buf, rec.Result)
	case "pdf":
		err = export.WritePDF(&buf, export.NewQuoteDocument(rec.Result, s.config))
	}
	if err != nil {
		s.writeError(w, fmt.Errorf("export %s: %w", format, err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"quote-%s.%s\"", rec.ID, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func newQuoteResponse(rec store.Record) quoteResponse {
	msgs := rec.Result.Warnings()
	if msgs == nil {
		msgs = []string{}
	}
	return quoteResponse{Record: rec, Messages: msgs}
}

// errBadJSON marks a body that could not be decoded.
var errBadJSON = errors.New("invalid JSON body")

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadJSON), errors.Is(err, model.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrQuoteNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
