package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BackingBoardCode is the material code of the thin backing board. Lines using it
// are summed in the backing bucket instead of the general panel bucket.
const BackingBoardCode = "HDF-001"

// Category identifies what a part is. The set is closed: every category maps to
// exactly one edge policy (see edgebanding.go).
type Category int

const (
	CategoryCustom Category = iota // Row added by the caller, no auto rule
	CategorySide
	CategoryTop
	CategoryBottom
	CategoryShelf
	CategoryTopConnector
	CategoryBack
	CategoryFront
	CategoryFrontLeft
	CategoryFrontRight
	CategoryReinforcementHorizontal
	CategoryReinforcementVertical
)

var categoryInfo = map[Category]struct {
	key, name, short string
}{
	CategoryCustom:                  {"custom", "Custom", ""},
	CategorySide:                    {"side", "Side", "Str"},
	CategoryTop:                     {"top", "Top", "Kp"},
	CategoryBottom:                  {"bottom", "Bottom", "Pd"},
	CategoryShelf:                   {"shelf", "Shelf", "Pol"},
	CategoryTopConnector:            {"top_connector", "Top connector", "Pov"},
	CategoryBack:                    {"back", "Back (HDF)", "Ld"},
	CategoryFront:                   {"front", "Front", "Fr"},
	CategoryFrontLeft:               {"front_left", "Front L", "Fr"},
	CategoryFrontRight:              {"front_right", "Front R", "Fr"},
	CategoryReinforcementHorizontal: {"reinforcement_horizontal", "Horizontal reinforcement", "HptHor"},
	CategoryReinforcementVertical:   {"reinforcement_vertical", "Vertical reinforcement", "HptVer"},
}

// Categories lists every category in emission order.
func Categories() []Category {
	return []Category{
		CategorySide, CategoryTop, CategoryBottom, CategoryShelf, CategoryTopConnector,
		CategoryBack, CategoryFront, CategoryFrontLeft, CategoryFrontRight,
		CategoryReinforcementHorizontal, CategoryReinforcementVertical, CategoryCustom,
	}
}

// String returns the display name of the category.
func (c Category) String() string {
	if info, ok := categoryInfo[c]; ok {
		return info.name
	}
	return "Unknown"
}

// Key returns the identifier used in JSON and imported files.
func (c Category) Key() string {
	return categoryInfo[c].key
}

// ShortCode returns the abbreviation printed on cut lists (e.g. "Str" for sides).
func (c Category) ShortCode() string {
	return categoryInfo[c].short
}

// IsFront reports whether the category is one of the door leaf categories.
func (c Category) IsFront() bool {
	return c == CategoryFront || c == CategoryFrontLeft || c == CategoryFrontRight
}

// ParseCategory maps a category key (as used in JSON and imported files) back to a Category.
func ParseCategory(s string) (Category, error) {
	for c, info := range categoryInfo {
		if info.key == s || strings.EqualFold(info.name, s) {
			return c, nil
		}
	}
	return CategoryCustom, fmt.Errorf("unknown part category %q", s)
}

func (c Category) MarshalJSON() ([]byte, error) {
	info, ok := categoryInfo[c]
	if !ok {
		return nil, fmt.Errorf("unknown part category %d", int(c))
	}
	return json.Marshal(info.key)
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Mount describes whether a panel sits inside the carcass or over it.
type Mount string

const (
	MountInner Mount = "inner"
	MountOuter Mount = "outer"
)

// Leaves is the number of door leaves on the front.
type Leaves string

const (
	LeavesSingle Leaves = "single"
	LeavesDouble Leaves = "double"
)

// WidthMode selects how the top connector width is computed.
type WidthMode string

const (
	WidthFixed   WidthMode = "fixed"   // Absolute width in mm
	WidthPercent WidthMode = "percent" // Percentage of cabinet depth
)

// TopConnectorOptions configures the pair of connector strips that replace the top panel.
type TopConnectorOptions struct {
	Enabled        bool      `json:"enabled"`
	Mode           WidthMode `json:"mode"`
	WidthMM        float64   `json:"width_mm"`         // Used in fixed mode
	PercentOfDepth float64   `json:"percent_of_depth"` // Used in percent mode
}

// FrontOptions configures the door leaves.
type FrontOptions struct {
	Enabled           bool    `json:"enabled"`
	Leaves            Leaves  `json:"leaves"`
	Mount             Mount   `json:"mount"`
	GapHorizontal     float64 `json:"gap_horizontal"`     // mm, inner mount
	GapVertical       float64 `json:"gap_vertical"`       // mm, inner mount
	GapCenter         float64 `json:"gap_center"`         // mm between double leaves
	OverlapHorizontal float64 `json:"overlap_horizontal"` // mm, outer mount
	OverlapVertical   float64 `json:"overlap_vertical"`   // mm, outer mount
}

// ReinforcementOptions configures the horizontal and vertical stiffeners.
type ReinforcementOptions struct {
	Horizontal bool    `json:"horizontal"`
	Vertical   bool    `json:"vertical"`
	WidthMM    float64 `json:"width_mm"`
}

// CabinetParameters is the physical description of one cabinet. All lengths are mm.
type CabinetParameters struct {
	Width         float64              `json:"width"`
	Height        float64              `json:"height"`
	Depth         float64              `json:"depth"`
	Thickness     float64              `json:"thickness"`
	BackPanel     bool                 `json:"back_panel"`
	BottomMount   Mount                `json:"bottom_mount"`
	TopMount      Mount                `json:"top_mount"`
	Shelves       int                  `json:"shelves"`
	TopConnector  TopConnectorOptions  `json:"top_connector"`
	Front         FrontOptions         `json:"front"`
	Reinforcement ReinforcementOptions `json:"reinforcement"`
}

// DefaultCabinetParameters returns a 800x720x320 carcass of 18 mm board with a back panel.
func DefaultCabinetParameters() CabinetParameters {
	return CabinetParameters{
		Width:       800,
		Height:      720,
		Depth:       320,
		Thickness:   18,
		BackPanel:   true,
		BottomMount: MountInner,
		TopMount:    MountInner,
		TopConnector: TopConnectorOptions{
			Mode:           WidthFixed,
			WidthMM:        150,
			PercentOfDepth: 50,
		},
		Front: FrontOptions{
			Leaves:        LeavesSingle,
			Mount:         MountInner,
			GapHorizontal: 2,
			GapVertical:   2,
			GapCenter:     2,
		},
		Reinforcement: ReinforcementOptions{WidthMM: 80},
	}
}

// MaterialSelection holds the catalog codes chosen for the carcass and the front.
type MaterialSelection struct {
	Material      string `json:"material"`
	EdgeBand      string `json:"edge_band"`
	FrontMaterial string `json:"front_material"`
	FrontEdgeBand string `json:"front_edge_band"`
}

// EdgeMode says how many edges of a part get banded. A part is either Auto (counts
// follow its category rule) or Manual with explicit counts for the long and short edges.
type EdgeMode struct {
	manual bool
	long   int
	short  int
}

// MaxEdgeCount is the number of edges of one length class on a rectangular panel.
const MaxEdgeCount = 2

// AutoEdges returns the automatic edge mode.
func AutoEdges() EdgeMode {
	return EdgeMode{}
}

// ManualEdges returns a manual edge mode. Counts are clamped to [0, MaxEdgeCount].
func ManualEdges(long, short int) EdgeMode {
	return EdgeMode{manual: true, long: clampCount(long), short: clampCount(short)}
}

// IsAuto reports whether the counts follow the category rule.
func (m EdgeMode) IsAuto() bool {
	return !m.manual
}

// Manual returns the explicit counts. ok is false for Auto.
func (m EdgeMode) Manual() (long, short int, ok bool) {
	return m.long, m.short, m.manual
}

func (m EdgeMode) String() string {
	if !m.manual {
		return "auto"
	}
	return fmt.Sprintf("manual(%d,%d)", m.long, m.short)
}

type manualEdgesJSON struct {
	Long  int `json:"long"`
	Short int `json:"short"`
}

// MarshalJSON encodes Auto as "auto" and Manual as {"long":L,"short":S}.
func (m EdgeMode) MarshalJSON() ([]byte, error) {
	if !m.manual {
		return json.Marshal("auto")
	}
	return json.Marshal(manualEdgesJSON{Long: m.long, Short: m.short})
}

func (m *EdgeMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "auto" && s != "" {
			return fmt.Errorf("invalid edge mode %q", s)
		}
		*m = AutoEdges()
		return nil
	}
	var counts manualEdgesJSON
	if err := json.Unmarshal(data, &counts); err != nil {
		return fmt.Errorf("invalid edge mode: %w", err)
	}
	*m = ManualEdges(counts.Long, counts.Short)
	return nil
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxEdgeCount {
		return MaxEdgeCount
	}
	return n
}

// PartSpec is one row of the bill of parts. A and B are the panel dimensions in mm
// and carry no orientation; the larger one is the long edge.
type PartSpec struct {
	Name         string   `json:"name"`
	Category     Category `json:"category"`
	MaterialCode string   `json:"material"`
	EdgeBandCode string   `json:"edge_band"`
	A            float64  `json:"a"`
	B            float64  `json:"b"`
	Quantity     int      `json:"quantity"`
	Edges        EdgeMode `json:"edges"`
}

// NewPartSpec creates a part named after its category.
func NewPartSpec(cat Category, material, edgeBand string, a, b float64, qty int, edges EdgeMode) PartSpec {
	return PartSpec{
		Name:         cat.String(),
		Category:     cat,
		MaterialCode: material,
		EdgeBandCode: edgeBand,
		A:            a,
		B:            b,
		Quantity:     qty,
		Edges:        edges,
	}
}

// Long returns the larger of the two dimensions.
func (p PartSpec) Long() float64 {
	if p.A >= p.B {
		return p.A
	}
	return p.B
}

// Short returns the smaller of the two dimensions.
func (p PartSpec) Short() float64 {
	if p.A >= p.B {
		return p.B
	}
	return p.A
}
