package model

import "fmt"

// PolicyKind selects how an EdgePolicy resolves edge counts.
type PolicyKind int

const (
	PolicyDeferred  PolicyKind = iota // Use the part's manual counts, none when Auto
	PolicyFixed                       // Fixed (long, short) pair
	PolicyMagnitude                   // 1 on the larger value, 2 on the smaller
)

// EdgePolicy is the banding rule attached to a category.
type EdgePolicy struct {
	Kind  PolicyKind
	Long  int // Fixed only
	Short int // Fixed only
	// Override applies the policy even when the part is Manual.
	Override bool
}

var edgePolicies = map[Category]EdgePolicy{
	CategoryTopConnector:            {Kind: PolicyFixed, Long: 2, Short: 0, Override: true},
	CategoryTop:                     {Kind: PolicyMagnitude},
	CategoryBottom:                  {Kind: PolicyMagnitude},
	CategoryReinforcementHorizontal: {Kind: PolicyMagnitude},
	CategorySide:                    {Kind: PolicyFixed, Long: 1, Short: 1},
	CategoryReinforcementVertical:   {Kind: PolicyFixed, Long: 1, Short: 1},
	CategoryShelf:                   {Kind: PolicyFixed, Long: 2, Short: 2},
	CategoryFront:                   {Kind: PolicyFixed, Long: 2, Short: 2},
	CategoryFrontLeft:               {Kind: PolicyFixed, Long: 2, Short: 2},
	CategoryFrontRight:              {Kind: PolicyFixed, Long: 2, Short: 2},
	CategoryBack:                    {Kind: PolicyDeferred},
	CategoryCustom:                  {Kind: PolicyDeferred},
}

// PolicyFor returns the edge policy of a category. Unknown values defer to manual counts.
func PolicyFor(c Category) EdgePolicy {
	if p, ok := edgePolicies[c]; ok {
		return p
	}
	return EdgePolicy{Kind: PolicyDeferred}
}

// EdgeCounts resolves the number of banded long and short edges of one piece.
// The magnitude rule bands the larger dimension once and the smaller one twice;
// on a tie A counts as the larger.
func EdgeCounts(p PartSpec) (long, short int) {
	policy := PolicyFor(p.Category)
	if !p.Edges.IsAuto() && !policy.Override {
		long, short, _ = p.Edges.Manual()
		return long, short
	}
	switch policy.Kind {
	case PolicyFixed:
		return policy.Long, policy.Short
	case PolicyMagnitude:
		return 1, 2
	default:
		long, short, _ = p.Edges.Manual()
		return long, short
	}
}

// EdgeMarking renders the edge counts the way they are written on cut lists,
// e.g. "2K 1D" for two short and one long edge.
func EdgeMarking(p PartSpec) string {
	long, short := EdgeCounts(p)
	return fmt.Sprintf("%dK %dD", short, long)
}

// FreezeEdges switches an Auto part to Manual, keeping the counts its rule currently gives.
func FreezeEdges(p PartSpec) PartSpec {
	if !p.Edges.IsAuto() {
		return p
	}
	long, short := EdgeCounts(p)
	p.Edges = ManualEdges(long, short)
	return p
}

// Lengths holds the cutting and banding lengths of one part row.
type Lengths struct {
	CuttingPerPieceMM float64 `json:"cutting_per_piece_mm"`
	EdgePerPieceMM    float64 `json:"edge_per_piece_mm"`
	CuttingM          float64 `json:"cutting_m"` // All pieces, metres
	EdgeM             float64 `json:"edge_m"`    // All pieces, metres
}

// PartLengths computes the saw length (half perimeter) and banding length of a part row.
func PartLengths(p PartSpec) Lengths {
	long, short := EdgeCounts(p)
	cut := p.Long() + p.Short()
	edge := float64(long)*p.Long() + float64(short)*p.Short()
	k := float64(p.Quantity)
	return Lengths{
		CuttingPerPieceMM: cut,
		EdgePerPieceMM:    edge,
		CuttingM:          mmToM(cut * k),
		EdgeM:             mmToM(edge * k),
	}
}

// EdgeBandingSummary holds the banding length needed per edge band code.
type EdgeBandingSummary struct {
	EdgeBandCode string  `json:"edge_band_code"`
	Name         string  `json:"name"`
	TotalM       float64 `json:"total_m"`
	PartCount    int     `json:"part_count"` // Pieces with at least one banded edge
}

// CalculateEdgeBanding totals banding length per edge band, in first-seen order.
// Rows without any banded edge are skipped.
func CalculateEdgeBanding(items []ComputedLineItem) []EdgeBandingSummary {
	var results []EdgeBandingSummary
	index := map[string]int{}
	for _, it := range items {
		if it.EdgeM <= 0 {
			continue
		}
		i, ok := index[it.Part.EdgeBandCode]
		if !ok {
			i = len(results)
			index[it.Part.EdgeBandCode] = i
			results = append(results, EdgeBandingSummary{
				EdgeBandCode: it.Part.EdgeBandCode,
				Name:         it.EdgeBandName,
			})
		}
		results[i].TotalM += it.EdgeM
		results[i].PartCount += it.Part.Quantity
	}
	return results
}
