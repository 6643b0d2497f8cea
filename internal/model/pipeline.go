package model

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is wrapped by every validation failure of a CalculationRequest.
var ErrInvalidRequest = errors.New("invalid calculation request")

// CalculationRequest is everything a single quote is computed from.
type CalculationRequest struct {
	Title     string            `json:"title,omitempty"`
	Cabinet   CabinetParameters `json:"cabinet"`
	Materials MaterialSelection `json:"materials"`
	// Parts overrides the derived bill of parts when not empty.
	Parts        []PartSpec          `json:"parts,omitempty"`
	Services     ServiceSelection    `json:"services"`
	Hardware     []HardwareSelection `json:"hardware,omitempty"`
	Misc         []MiscRow           `json:"misc,omitempty"`
	Labor        Labor               `json:"labor"`
	Waste        WasteSetting        `json:"waste"`
	Markup       MarkupSetting       `json:"markup"`
	DeliveryDays int                 `json:"delivery_days"`
}

// Validate checks the request at the boundary. All problems are reported together.
func (r CalculationRequest) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...)))
	}

	c := r.Cabinet
	if len(r.Parts) == 0 {
		for _, f := range []namedValue{
			{"cabinet width", c.Width},
			{"cabinet height", c.Height},
			{"cabinet depth", c.Depth},
			{"cabinet thickness", c.Thickness},
		} {
			if f.v <= 0 {
				bad("%s must be positive, got %g", f.name, f.v)
			}
		}
	}
	if c.Shelves < 0 {
		bad("shelves must not be negative, got %d", c.Shelves)
	}
	for _, f := range []namedValue{
		{"front gap_horizontal", c.Front.GapHorizontal},
		{"front gap_vertical", c.Front.GapVertical},
		{"front gap_center", c.Front.GapCenter},
		{"top_connector width_mm", c.TopConnector.WidthMM},
		{"top_connector percent_of_depth", c.TopConnector.PercentOfDepth},
		{"reinforcement width_mm", c.Reinforcement.WidthMM},
		{"waste percent", r.Waste.Percent},
		{"markup percent", r.Markup.Percent},
		{"preparation hours", r.Labor.Preparation.Hours},
		{"preparation rate", r.Labor.Preparation.Rate},
		{"machining hours", r.Labor.Machining.Hours},
		{"machining rate", r.Labor.Machining.Rate},
		{"assembly hours", r.Labor.Assembly.Hours},
		{"assembly rate", r.Labor.Assembly.Rate},
		{"packing hours", r.Labor.Packing.Hours},
		{"packing rate", r.Labor.Packing.Rate},
	} {
		if f.v < 0 {
			bad("%s must not be negative, got %g", f.name, f.v)
		}
	}
	if r.DeliveryDays < 0 {
		bad("delivery_days must not be negative, got %d", r.DeliveryDays)
	}
	for i, p := range r.Parts {
		if p.A <= 0 || p.B <= 0 {
			bad("part %d (%s): dimensions must be positive", i+1, p.Name)
		}
		if p.Quantity < 0 {
			bad("part %d (%s): quantity must not be negative", i+1, p.Name)
		}
	}
	for i, m := range r.Misc {
		if m.A < 0 || m.B < 0 {
			bad("misc row %d (%s): dimensions must not be negative", i+1, m.Code)
		}
		if m.UnitPrice != nil && *m.UnitPrice < 0 {
			bad("misc row %d (%s): unit price must not be negative", i+1, m.Code)
		}
	}
	return errors.Join(errs...)
}

type namedValue struct {
	name string
	v    float64
}

// CalculationResult holds every stage of the pipeline.
type CalculationResult struct {
	Title   string             `json:"title,omitempty"`
	Cabinet CabinetParameters  `json:"cabinet"`
	Parts   []PartSpec         `json:"parts"`
	Lines   []ComputedLineItem `json:"lines"`
	Summary CostSummary        `json:"summary"`
	Extras  ExtrasLedger       `json:"extras"`
	Labor   Labor              `json:"labor"`
	Quote   Quote              `json:"quote"`
	Derived bool               `json:"derived"` // Parts came from DeriveParts
}

// Calculate runs the whole pipeline: derive (unless parts were supplied), cost every
// line, aggregate, build the extras ledger and compose the quote. It does not validate.
func Calculate(req CalculationRequest, cat *Catalog) CalculationResult {
	parts := req.Parts
	derived := len(parts) == 0
	if derived {
		parts = DeriveParts(req.Cabinet, req.Materials)
	}

	lines := CostLines(parts, req.Services, cat)
	summary := Aggregate(lines, req.Waste)
	extras := BuildExtras(cat, req.Hardware, req.Misc)
	quote := ComposeQuote(summary.MaterialsSubtotal, extras.Subtotal, req.Labor, req.Markup)
	quote.DeliveryDays = req.DeliveryDays

	return CalculationResult{
		Title:   req.Title,
		Cabinet: req.Cabinet,
		Parts:   parts,
		Lines:   lines,
		Summary: summary,
		Extras:  extras,
		Labor:   req.Labor,
		Quote:   quote,
		Derived: derived,
	}
}

// Warnings lists the data-quality problems found while costing: catalog references
// that priced at zero and unresolved hardware articles.
func (r CalculationResult) Warnings() []string {
	var out []string
	seen := map[string]bool{}
	for _, l := range r.Lines {
		for _, m := range l.Missing {
			if !seen[m] {
				seen[m] = true
				out = append(out, "unknown "+m+" priced at zero")
			}
		}
	}
	for _, h := range r.Extras.Unresolved() {
		out = append(out, fmt.Sprintf("unknown %s article %s priced at zero", h.Kind, h.ArticleNumber))
	}
	return out
}
