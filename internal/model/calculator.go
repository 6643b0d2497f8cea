package model

// ServiceSelection holds the service codes shared by every line of a calculation.
type ServiceSelection struct {
	Cutting     string `json:"cutting"`
	EdgeBanding string `json:"edge_banding"`
}

// ComputedLineItem is one costed row of the bill of parts.
type ComputedLineItem struct {
	Part         PartSpec `json:"part"`
	ShortCode    string   `json:"short_code"`
	EdgeMarking  string   `json:"edge_marking"`
	MaterialName string   `json:"material_name"`
	EdgeBandName string   `json:"edge_band_name"`

	CuttingM float64 `json:"cutting_m"` // Saw length, all pieces
	EdgeM    float64 `json:"edge_m"`    // Banding length, all pieces
	AreaM2   float64 `json:"area_m2"`   // All pieces

	MaterialCost    float64 `json:"material_cost"`
	EdgeBandCost    float64 `json:"edge_band_cost"`
	CuttingCost     float64 `json:"cutting_cost"`
	EdgeServiceCost float64 `json:"edge_service_cost"`
	Total           float64 `json:"total"`

	// Missing lists catalog references that could not be resolved and were priced at zero.
	Missing []string `json:"missing,omitempty"`
}

// CostLine prices one part row against the catalog. Unknown codes price at zero
// and are reported in Missing; costing never fails.
func CostLine(p PartSpec, services ServiceSelection, cat *Catalog) ComputedLineItem {
	l := PartLengths(p)
	item := ComputedLineItem{
		Part:        p,
		ShortCode:   p.Category.ShortCode(),
		EdgeMarking: EdgeMarking(p),
		CuttingM:    l.CuttingM,
		EdgeM:       l.EdgeM,
		AreaM2:      mm2ToM2(p.A * p.B * float64(p.Quantity)),
	}

	var pricePerM2, bandPerM, cutPerM, edgeSvcPerM float64
	if m := cat.FindMaterial(p.MaterialCode); m != nil {
		item.MaterialName = m.Name
		pricePerM2 = m.PricePerM2
	} else {
		item.Missing = append(item.Missing, "material "+p.MaterialCode)
	}
	if e := cat.FindEdgeBand(p.EdgeBandCode); e != nil {
		item.EdgeBandName = e.Name
		bandPerM = e.PricePerM
	} else if item.EdgeM > 0 {
		item.Missing = append(item.Missing, "edge band "+p.EdgeBandCode)
	}
	if s := cat.FindService(services.Cutting); s != nil {
		cutPerM = s.PricePerM
	} else {
		item.Missing = append(item.Missing, "service "+services.Cutting)
	}
	if s := cat.FindService(services.EdgeBanding); s != nil {
		edgeSvcPerM = s.PricePerM
	} else if item.EdgeM > 0 {
		item.Missing = append(item.Missing, "service "+services.EdgeBanding)
	}

	item.MaterialCost = item.AreaM2 * pricePerM2
	item.EdgeBandCost = item.EdgeM * bandPerM
	item.CuttingCost = item.CuttingM * cutPerM
	item.EdgeServiceCost = item.EdgeM * edgeSvcPerM
	item.Total = item.MaterialCost + item.EdgeBandCost + item.CuttingCost + item.EdgeServiceCost
	return item
}

// CostLines prices every part row in order.
func CostLines(parts []PartSpec, services ServiceSelection, cat *Catalog) []ComputedLineItem {
	items := make([]ComputedLineItem, len(parts))
	for i, p := range parts {
		items[i] = CostLine(p, services, cat)
	}
	return items
}

// WasteSetting is the surcharge for offcuts, applied to board and edge band material only.
type WasteSetting struct {
	Enabled bool    `json:"enabled"`
	Percent float64 `json:"percent"`
}

// Bucket totals the area and board cost of one substrate group.
type Bucket struct {
	AreaM2 float64 `json:"area_m2"`
	Cost   float64 `json:"cost"`
}

// SurfaceTotals splits the board area by what it is used for.
type SurfaceTotals struct {
	CarcassM2 float64 `json:"carcass_m2"`
	FrontM2   float64 `json:"front_m2"`
	BackM2    float64 `json:"back_m2"`
}

// MaterialSubtotal totals all line values that use one board.
type MaterialSubtotal struct {
	MaterialCode string  `json:"material_code"`
	MaterialName string  `json:"material_name"`
	Pieces       int     `json:"pieces"`
	AreaM2       float64 `json:"area_m2"`
	EdgeM        float64 `json:"edge_m"`
	CuttingM     float64 `json:"cutting_m"`
	Total        float64 `json:"total"`
}

// CostSummary is the roll-up of all line items.
type CostSummary struct {
	Backing Bucket `json:"backing"`
	Panels  Bucket `json:"panels"`

	AreaM2          float64 `json:"area_m2"`
	CuttingM        float64 `json:"cutting_m"`
	EdgeM           float64 `json:"edge_m"`
	MaterialCost    float64 `json:"material_cost"`
	EdgeBandCost    float64 `json:"edge_band_cost"`
	CuttingCost     float64 `json:"cutting_cost"`
	EdgeServiceCost float64 `json:"edge_service_cost"`

	Waste             WasteSetting `json:"waste"`
	WasteAmount       float64      `json:"waste_amount"`
	MaterialsSubtotal float64      `json:"materials_subtotal"`

	Surfaces   SurfaceTotals        `json:"surfaces"`
	ByMaterial []MaterialSubtotal   `json:"by_material"`
	EdgeBands  []EdgeBandingSummary `json:"edge_bands"`
}

// Aggregate rolls the line items up into a CostSummary. Lines on the backing board
// go to the backing bucket, every other board to the panel bucket.
func Aggregate(items []ComputedLineItem, waste WasteSetting) CostSummary {
	s := CostSummary{Waste: waste}
	byMaterial := map[string]int{}

	for _, it := range items {
		if it.Part.MaterialCode == BackingBoardCode {
			s.Backing.AreaM2 += it.AreaM2
			s.Backing.Cost += it.MaterialCost
			s.Surfaces.BackM2 += it.AreaM2
		} else {
			s.Panels.AreaM2 += it.AreaM2
			s.Panels.Cost += it.MaterialCost
			if it.Part.Category.IsFront() {
				s.Surfaces.FrontM2 += it.AreaM2
			} else {
				s.Surfaces.CarcassM2 += it.AreaM2
			}
		}

		s.AreaM2 += it.AreaM2
		s.CuttingM += it.CuttingM
		s.EdgeM += it.EdgeM
		s.MaterialCost += it.MaterialCost
		s.EdgeBandCost += it.EdgeBandCost
		s.CuttingCost += it.CuttingCost
		s.EdgeServiceCost += it.EdgeServiceCost

		i, ok := byMaterial[it.Part.MaterialCode]
		if !ok {
			i = len(s.ByMaterial)
			byMaterial[it.Part.MaterialCode] = i
			s.ByMaterial = append(s.ByMaterial, MaterialSubtotal{
				MaterialCode: it.Part.MaterialCode,
				MaterialName: it.MaterialName,
			})
		}
		m := &s.ByMaterial[i]
		m.Pieces += it.Part.Quantity
		m.AreaM2 += it.AreaM2
		m.EdgeM += it.EdgeM
		m.CuttingM += it.CuttingM
		m.Total += it.Total
	}

	if waste.Enabled {
		s.WasteAmount = waste.Percent / 100.0 * (s.MaterialCost + s.EdgeBandCost)
	}
	s.MaterialsSubtotal = s.MaterialCost + s.EdgeBandCost + s.CuttingCost + s.EdgeServiceCost + s.WasteAmount
	s.EdgeBands = CalculateEdgeBanding(items)
	return s
}
