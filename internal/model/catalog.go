package model

import (
	"fmt"
	"strings"
)

// PanelMaterial is a board priced per square metre.
type PanelMaterial struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	PricePerM2 float64 `json:"price_per_m2"`
}

// EdgeBand is a banding strip priced per metre.
type EdgeBand struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	PricePerM float64 `json:"price_per_m"`
}

// Service is a workshop operation (cutting, edge banding) priced per metre.
type Service struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	PricePerM float64 `json:"price_per_m"`
}

// HardwareKind separates fittings (hinges, runners) from equipment (handles, legs).
type HardwareKind string

const (
	HardwareFittings  HardwareKind = "fittings"
	HardwareEquipment HardwareKind = "equipment"
)

// HardwareItem is a purchased article priced per unit.
type HardwareItem struct {
	ArticleNumber string  `json:"article_number"`
	Name          string  `json:"name"`
	Supplier      string  `json:"supplier"`
	Unit          string  `json:"unit"`
	Price         float64 `json:"price"`
}

// PickLabel is the text shown in selection lists, e.g. "OK-1001 — Hinge (Blum)".
func (h HardwareItem) PickLabel() string {
	label := h.ArticleNumber
	if h.Name != "" {
		label += " — " + h.Name
	}
	if h.Supplier != "" {
		label += " (" + h.Supplier + ")"
	}
	return label
}

// ArticleFromPick maps a pick-list label back to its article number.
func ArticleFromPick(label string) string {
	art, _, _ := strings.Cut(label, " — ")
	return strings.TrimSpace(art)
}

// AccountingMode decides how the quantity of a misc item is derived from its dimensions.
type AccountingMode string

const (
	PerPiece  AccountingMode = "per_piece"
	PerLength AccountingMode = "per_length" // Half perimeter in metres
	PerArea   AccountingMode = "per_area"   // Square metres
)

// ParseAccountingMode accepts the canonical names plus a few spellings found in price lists.
func ParseAccountingMode(s string) (AccountingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "per_piece", "per piece", "piece", "pcs", "kom", "po kom":
		return PerPiece, nil
	case "per_length", "per length", "length", "m", "po m":
		return PerLength, nil
	case "per_area", "per area", "area", "m2", "m²", "po m2":
		return PerArea, nil
	}
	return "", fmt.Errorf("unknown accounting mode %q", s)
}

// Unit returns the unit the billed quantity is expressed in.
func (m AccountingMode) Unit() string {
	switch m {
	case PerLength:
		return "m"
	case PerArea:
		return "m²"
	default:
		return "pcs"
	}
}

// MiscItem is an additional catalog item accounted per piece, per length or per area.
type MiscItem struct {
	Code  string         `json:"code"`
	Name  string         `json:"name"`
	Unit  string         `json:"unit"`
	Price float64        `json:"price"`
	Mode  AccountingMode `json:"mode"`
}

// Catalog holds every price table used by a calculation. It is read-only once loaded
// and is passed explicitly to the costing functions.
type Catalog struct {
	Materials      []PanelMaterial `json:"materials"`
	FrontMaterials []PanelMaterial `json:"front_materials"`
	EdgeBands      []EdgeBand      `json:"edge_bands"`
	FrontEdgeBands []EdgeBand      `json:"front_edge_bands"`
	Services       []Service       `json:"services"`
	Fittings       []HardwareItem  `json:"fittings"`
	Equipment      []HardwareItem  `json:"equipment"`
	MiscItems      []MiscItem      `json:"misc_items"`
}

// DefaultCatalog returns a small catalog so that a fresh installation can produce a quote.
func DefaultCatalog() Catalog {
	return Catalog{
		Materials: []PanelMaterial{
			{Code: "IVR-18-W", Name: "Chipboard 18 mm white", PricePerM2: 14.50},
			{Code: "IVR-18-O", Name: "Chipboard 18 mm oak", PricePerM2: 17.90},
			{Code: BackingBoardCode, Name: "HDF 3 mm white", PricePerM2: 4.20},
		},
		FrontMaterials: []PanelMaterial{
			{Code: "MDF-19-L", Name: "MDF 19 mm lacquered", PricePerM2: 48.00},
		},
		EdgeBands: []EdgeBand{
			{Code: "ABS-22-W", Name: "ABS 22x0.8 white", PricePerM: 0.35},
			{Code: "ABS-22-O", Name: "ABS 22x0.8 oak", PricePerM: 0.45},
		},
		FrontEdgeBands: []EdgeBand{
			{Code: "ABS-22-L", Name: "ABS 22x2 lacquer match", PricePerM: 0.95},
		},
		Services: []Service{
			{Code: "CUT", Name: "Panel cutting", PricePerM: 0.60},
			{Code: "EDGE", Name: "Edge banding", PricePerM: 0.80},
		},
		Fittings: []HardwareItem{
			{ArticleNumber: "OK-1001", Name: "Hinge (pair)", Supplier: "Blum", Unit: "pair", Price: 6.20},
		},
		Equipment: []HardwareItem{
			{ArticleNumber: "OP-2001", Name: "Handle 160 mm", Supplier: "Hettich", Unit: "pcs", Price: 3.20},
		},
		MiscItems: []MiscItem{
			{Code: "DD-001", Name: "Additional element", Unit: "pcs", Price: 10.00, Mode: PerPiece},
		},
	}
}

// FindMaterial returns the board with the given code, searching carcass boards
// before front boards, or nil.
func (c *Catalog) FindMaterial(code string) *PanelMaterial {
	for _, list := range [][]PanelMaterial{c.Materials, c.FrontMaterials} {
		for i := range list {
			if list[i].Code == code {
				return &list[i]
			}
		}
	}
	return nil
}

// FindEdgeBand returns the edge band with the given code, searching carcass bands
// before front bands, or nil.
func (c *Catalog) FindEdgeBand(code string) *EdgeBand {
	for _, list := range [][]EdgeBand{c.EdgeBands, c.FrontEdgeBands} {
		for i := range list {
			if list[i].Code == code {
				return &list[i]
			}
		}
	}
	return nil
}

// FindService returns the service with the given code, or nil.
func (c *Catalog) FindService(code string) *Service {
	for i := range c.Services {
		if c.Services[i].Code == code {
			return &c.Services[i]
		}
	}
	return nil
}

// FindHardware returns the article from the fittings or equipment table, or nil.
func (c *Catalog) FindHardware(kind HardwareKind, article string) *HardwareItem {
	list := c.Fittings
	if kind == HardwareEquipment {
		list = c.Equipment
	}
	for i := range list {
		if list[i].ArticleNumber == article {
			return &list[i]
		}
	}
	return nil
}

// FindMiscItem returns the misc item with the given code, or nil.
func (c *Catalog) FindMiscItem(code string) *MiscItem {
	for i := range c.MiscItems {
		if c.MiscItems[i].Code == code {
			return &c.MiscItems[i]
		}
	}
	return nil
}

// MaterialCodes returns the carcass board codes for selection lists.
func (c *Catalog) MaterialCodes() []string {
	codes := make([]string, len(c.Materials))
	for i, m := range c.Materials {
		codes[i] = m.Code
	}
	return codes
}

// HardwarePickLabels returns the selection list labels of one hardware table.
func (c *Catalog) HardwarePickLabels(kind HardwareKind) []string {
	list := c.Fittings
	if kind == HardwareEquipment {
		list = c.Equipment
	}
	labels := make([]string, len(list))
	for i, h := range list {
		labels[i] = h.PickLabel()
	}
	return labels
}

// Merge adds the entries of other whose codes are not present yet. Existing entries win.
func (c *Catalog) Merge(other Catalog) (added int) {
	for _, m := range other.Materials {
		if c.FindMaterial(m.Code) == nil {
			c.Materials = append(c.Materials, m)
			added++
		}
	}
	for _, m := range other.FrontMaterials {
		if c.FindMaterial(m.Code) == nil {
			c.FrontMaterials = append(c.FrontMaterials, m)
			added++
		}
	}
	for _, e := range other.EdgeBands {
		if c.FindEdgeBand(e.Code) == nil {
			c.EdgeBands = append(c.EdgeBands, e)
			added++
		}
	}
	for _, e := range other.FrontEdgeBands {
		if c.FindEdgeBand(e.Code) == nil {
			c.FrontEdgeBands = append(c.FrontEdgeBands, e)
			added++
		}
	}
	for _, s := range other.Services {
		if c.FindService(s.Code) == nil {
			c.Services = append(c.Services, s)
			added++
		}
	}
	for _, h := range other.Fittings {
		if c.FindHardware(HardwareFittings, h.ArticleNumber) == nil {
			c.Fittings = append(c.Fittings, h)
			added++
		}
	}
	for _, h := range other.Equipment {
		if c.FindHardware(HardwareEquipment, h.ArticleNumber) == nil {
			c.Equipment = append(c.Equipment, h)
			added++
		}
	}
	for _, m := range other.MiscItems {
		if c.FindMiscItem(m.Code) == nil {
			c.MiscItems = append(c.MiscItems, m)
			added++
		}
	}
	return added
}
