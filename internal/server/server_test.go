package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/cabinetquote/internal/model"
	"github.com/piwi3910/cabinetquote/internal/store"
)

const cabinetBody = `{
	"title": "Wall unit",
	"cabinet": {"width": 600, "height": 720, "depth": 320, "thickness": 18, "back_panel": true, "shelves": 1},
	"hardware": [
		{"kind": "fittings", "article_number": "OK-1001", "quantity": 2},
		{"kind": "fittings", "article_number": "NOPE-1", "quantity": 1}
	]
}`

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "quotes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, model.DefaultCatalog(), model.DefaultAppConfig(), logger).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createQuote(t *testing.T, h http.Handler) quoteResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/quotes", cabinetBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var q quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	return q
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCatalog(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/v1/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cat model.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	assert.NotNil(t, cat.FindMaterial("IVR-18-W"))

	var lists catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lists))
	assert.Contains(t, lists.MaterialCodes, "IVR-18-W")
	assert.Len(t, lists.FittingPicks, len(cat.Fittings))
	assert.Len(t, lists.EquipmentPicks, len(cat.Equipment))
	require.Len(t, lists.Categories, len(model.Categories()))
	assert.Equal(t, categoryEntry{Key: "side", Name: "Side", Short: "Str"}, lists.Categories[0])
}

func TestDeriveParts(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/parts", `{"cabinet": {"width": 600, "height": 720, "depth": 320, "thickness": 18}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body deriveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Parts)
	assert.Equal(t, model.CategorySide, body.Parts[0].Category)
	assert.Equal(t, 2, body.Parts[0].Quantity)
	assert.Equal(t, "IVR-18-W", body.Parts[0].MaterialCode, "default material should be applied")
}

func TestDerivePartsFreeze(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/parts", `{"cabinet": {"width": 600, "height": 720, "depth": 320, "thickness": 18}, "freeze": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body deriveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Parts)
	for _, p := range body.Parts {
		assert.False(t, p.Edges.IsAuto(), "%s should carry explicit edges", p.Name)
	}
	long, short, ok := body.Parts[0].Edges.Manual()
	require.True(t, ok)
	wantLong, wantShort := model.EdgeCounts(model.PartSpec{Category: model.CategorySide, A: body.Parts[0].A, B: body.Parts[0].B})
	assert.Equal(t, wantLong, long)
	assert.Equal(t, wantShort, short)
}

func TestDerivePartsRejectsBadInput(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"cabinet": `},
		{"zero width", `{"cabinet": {"width": 0, "height": 720, "depth": 320, "thickness": 18}}`},
		{"negative shelves", `{"cabinet": {"width": 600, "height": 720, "depth": 320, "thickness": 18, "shelves": -1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/parts", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var e errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestCreateQuote(t *testing.T) {
	h := newTestHandler(t)
	q := createQuote(t, h)

	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "Wall unit", q.Title)
	assert.Greater(t, q.GrandTotal, 0.0)
	assert.True(t, q.Result.Derived)
	assert.Equal(t, 1, q.Warnings)
	require.Len(t, q.Messages, 1)
	assert.Contains(t, q.Messages[0], "NOPE-1")
}

func TestCreateQuoteKeepsExplicitOptOuts(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/quotes", `{
		"cabinet": {"width": 600, "height": 720, "depth": 320, "thickness": 18},
		"waste": {"enabled": false},
		"markup": {"enabled": false},
		"labor": {
			"preparation": {"hours": 0},
			"machining": {"hours": 0},
			"assembly": {"hours": 0},
			"packing": {"hours": 0}
		},
		"delivery_days": 0
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var q quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	sum := q.Result.Summary
	assert.Zero(t, sum.WasteAmount)
	assert.Zero(t, q.Result.Quote.LaborSubtotal)
	assert.Zero(t, q.Result.Quote.DeliveryDays)
	assert.InDelta(t, sum.MaterialsSubtotal+q.Result.Extras.Subtotal, q.Result.Quote.GrandTotal, 1e-9)
}

func TestCreateQuoteDefaultsAbsentSections(t *testing.T) {
	h := newTestHandler(t)
	q := createQuote(t, h)
	cfg := model.DefaultAppConfig()

	assert.Greater(t, q.Result.Summary.WasteAmount, 0.0)
	assert.InDelta(t, cfg.DefaultLabor.Subtotal(), q.Result.Quote.LaborSubtotal, 0.005)
	assert.Equal(t, cfg.DefaultDeliveryDays, q.Result.Quote.DeliveryDays)
}

func TestCreateQuoteUntitledGetsCabinetTitle(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/quotes", `{"cabinet": {"width": 600, "height": 720, "depth": 320, "thickness": 18}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var q quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.True(t, strings.HasPrefix(q.Title, "Cabinet H=720mm"), q.Title)
	assert.Empty(t, q.Messages)
}

func TestCreateQuoteInvalid(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/v1/quotes", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/quotes", `{"cabinet": {"width": 600, "height": 720, "depth": 320, "thickness": 18}, "delivery_days": -3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "delivery_days")
}

func TestGetAndListQuotes(t *testing.T) {
	h := newTestHandler(t)
	q := createQuote(t, h)

	rec := do(t, h, http.MethodGet, "/v1/quotes/"+q.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, q.ID, got.ID)
	assert.Equal(t, len(q.Result.Lines), len(got.Result.Lines))

	rec = do(t, h, http.MethodGet, "/v1/quotes?q=wall", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []store.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, q.ID, list[0].ID)

	rec = do(t, h, http.MethodGet, "/v1/quotes?q=kitchen", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestQuoteNotFound(t *testing.T) {
	h := newTestHandler(t)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/quotes/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/v1/quotes/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/quotes/missing/export/csv", "").Code)
}

func TestDeleteQuote(t *testing.T) {
	h := newTestHandler(t)
	q := createQuote(t, h)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/v1/quotes/"+q.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/quotes/"+q.ID, "").Code)
}

func TestExportQuote(t *testing.T) {
	h := newTestHandler(t)
	q := createQuote(t, h)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"csv", "text/csv; charset=utf-8", "Name,"},
		{"xlsx", exportTypes["xlsx"], "PK"},
		{"pdf", "application/pdf", "%PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/v1/quotes/"+q.ID+"/export/"+tt.format, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "quote-"+q.ID+"."+tt.format)
			assert.True(t, strings.HasPrefix(rec.Body.String(), tt.prefix), "unexpected %s body start", tt.format)
		})
	}

	rec := do(t, h, http.MethodGet, "/v1/quotes/"+q.ID+"/export/docx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(errBadJSON))
	assert.Equal(t, http.StatusBadRequest, statusFor(model.CalculationRequest{}.Validate()))
	assert.Equal(t, http.StatusNotFound, statusFor(store.ErrQuoteNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}
