package model

// LaborItem is an hours and hourly rate pair.
type LaborItem struct {
	Hours float64 `json:"hours"`
	Rate  float64 `json:"rate"` // currency per hour
}

// Cost returns hours × rate.
func (l LaborItem) Cost() float64 {
	return l.Hours * l.Rate
}

// Labor holds the four fixed labor categories of a quote.
type Labor struct {
	Preparation LaborItem `json:"preparation"`
	Machining   LaborItem `json:"machining"`
	Assembly    LaborItem `json:"assembly"`
	Packing     LaborItem `json:"packing"`
}

// Items returns the categories with their display names, in quote order.
func (l Labor) Items() []NamedLaborItem {
	return []NamedLaborItem{
		{"Technical preparation", l.Preparation},
		{"CNC and machining", l.Machining},
		{"Assembly", l.Assembly},
		{"Packing", l.Packing},
	}
}

// NamedLaborItem pairs a labor category with its display name.
type NamedLaborItem struct {
	Name string
	LaborItem
}

// Subtotal sums hours × rate over all categories.
func (l Labor) Subtotal() float64 {
	return l.Preparation.Cost() + l.Machining.Cost() + l.Assembly.Cost() + l.Packing.Cost()
}

// MarkupSetting is the margin applied on top of the pre-markup total.
type MarkupSetting struct {
	Enabled bool    `json:"enabled"`
	Percent float64 `json:"percent"`
}

// Quote is the final price of one cabinet.
type Quote struct {
	MaterialsSubtotal float64 `json:"materials_subtotal"`
	ExtrasSubtotal    float64 `json:"extras_subtotal"`
	LaborSubtotal     float64 `json:"labor_subtotal"`
	PreMarkup         float64 `json:"pre_markup"`
	MarkupPercent     float64 `json:"markup_percent"` // 0 when markup is disabled
	MarkupAmount      float64 `json:"markup_amount"`
	GrandTotal        float64 `json:"grand_total"`
	DeliveryDays      int     `json:"delivery_days"`
}

// ComposeQuote adds the three subtotals and applies the markup. Inputs are assumed
// validated; see CalculationRequest.Validate.
func ComposeQuote(materialsSubtotal, extrasSubtotal float64, labor Labor, markup MarkupSetting) Quote {
	q := Quote{
		MaterialsSubtotal: materialsSubtotal,
		ExtrasSubtotal:    extrasSubtotal,
		LaborSubtotal:     labor.Subtotal(),
	}
	q.PreMarkup = q.MaterialsSubtotal + q.ExtrasSubtotal + q.LaborSubtotal
	q.GrandTotal = q.PreMarkup
	if markup.Enabled {
		q.MarkupPercent = markup.Percent
		q.GrandTotal = q.PreMarkup * (1 + markup.Percent/100.0)
		q.MarkupAmount = q.GrandTotal - q.PreMarkup
	}
	return q
}

// Rounded returns a copy with every currency field rounded to cents.
func (q Quote) Rounded() Quote {
	q.MaterialsSubtotal = RoundCurrency(q.MaterialsSubtotal)
	q.ExtrasSubtotal = RoundCurrency(q.ExtrasSubtotal)
	q.LaborSubtotal = RoundCurrency(q.LaborSubtotal)
	q.PreMarkup = RoundCurrency(q.PreMarkup)
	q.MarkupAmount = RoundCurrency(q.MarkupAmount)
	q.GrandTotal = RoundCurrency(q.GrandTotal)
	return q
}
