package model

import "math"

// minPartMM is the floor applied to every derived length so that degenerate
// inputs never produce zero or negative panels.
const minPartMM = 1.0

// Clearances used for parts that sit inside the carcass.
const (
	shelfWidthClearance = 2.0  // shelf is narrower than the inner width
	insetDepthClearance = 10.0 // shelves and reinforcements sit back from the front edge
	backPanelClearance  = 2.0  // back panel is smaller than the outer carcass
)

// DeriveParts computes the bill of parts for a cabinet. It is deterministic and
// has no side effects; the same input always yields the same list in the same order.
//
// Emission order: sides, top, bottom, shelves, top connectors, back, front, reinforcements.
func DeriveParts(p CabinetParameters, m MaterialSelection) []PartSpec {
	t := p.Thickness
	innerW := math.Max(p.Width-2*t, 0)
	sideH := sideHeight(p)

	carcass := func(cat Category, a, b float64, qty int, edges EdgeMode) PartSpec {
		return NewPartSpec(cat, m.Material, m.EdgeBand, floorMM(a), floorMM(b), qty, edges)
	}

	parts := []PartSpec{
		carcass(CategorySide, sideH, p.Depth, 2, AutoEdges()),
	}

	if !p.TopConnector.Enabled {
		parts = append(parts, carcass(CategoryTop, mountedWidth(p.TopMount, p.Width, innerW), p.Depth, 1, AutoEdges()))
	}
	parts = append(parts, carcass(CategoryBottom, mountedWidth(p.BottomMount, p.Width, innerW), p.Depth, 1, AutoEdges()))

	if p.Shelves > 0 {
		parts = append(parts, carcass(CategoryShelf,
			innerW-shelfWidthClearance, p.Depth-insetDepthClearance, p.Shelves, AutoEdges()))
	}

	if p.TopConnector.Enabled {
		parts = append(parts, carcass(CategoryTopConnector,
			innerW, connectorWidth(p.TopConnector, p.Depth), 2, ManualEdges(2, 0)))
	}

	if p.BackPanel {
		back := carcass(CategoryBack, p.Width-backPanelClearance, p.Height-backPanelClearance, 1, ManualEdges(0, 0))
		back.MaterialCode = BackingBoardCode
		parts = append(parts, back)
	}

	if p.Front.Enabled {
		parts = append(parts, deriveFront(p, innerW, m)...)
	}

	depth := p.Depth - insetDepthClearance
	if p.Reinforcement.Horizontal {
		parts = append(parts, carcass(CategoryReinforcementHorizontal, innerW, depth, 1, AutoEdges()))
	}
	if p.Reinforcement.Vertical {
		parts = append(parts, carcass(CategoryReinforcementVertical, roundMM(sideH), depth, 1, AutoEdges()))
	}

	return parts
}

// sideHeight subtracts one board thickness for every horizontal panel that is
// not mounted outer.
func sideHeight(p CabinetParameters) float64 {
	h := p.Height
	if p.BottomMount != MountOuter {
		h -= p.Thickness
	}
	if p.TopMount != MountOuter {
		h -= p.Thickness
	}
	return math.Max(h, minPartMM)
}

func mountedWidth(mount Mount, outer, inner float64) float64 {
	if mount == MountOuter {
		return outer
	}
	return inner
}

// connectorWidth returns the strip width clamped to [1, depth].
func connectorWidth(o TopConnectorOptions, depth float64) float64 {
	var w float64
	if o.Mode == WidthPercent {
		w = roundMM(depth * o.PercentOfDepth / 100)
	} else {
		w = math.Trunc(o.WidthMM)
	}
	return math.Max(minPartMM, math.Min(w, math.Trunc(depth)))
}

func deriveFront(p CabinetParameters, innerW float64, m MaterialSelection) []PartSpec {
	f := p.Front
	var h, w float64
	if f.Mount == MountOuter {
		h = p.Height + f.OverlapVertical
		w = p.Width + f.OverlapHorizontal
	} else {
		h = math.Max(p.Height-f.GapVertical, minPartMM)
		w = math.Max(innerW-f.GapHorizontal, minPartMM)
	}

	leaf := func(cat Category, b float64) PartSpec {
		return NewPartSpec(cat, m.FrontMaterial, m.FrontEdgeBand, floorMM(h), floorMM(b), 1, AutoEdges())
	}

	if f.Leaves != LeavesDouble {
		return []PartSpec{leaf(CategoryFront, w)}
	}
	leafW := roundMM(math.Max((w-f.GapCenter)/2, minPartMM))
	return []PartSpec{
		leaf(CategoryFrontLeft, leafW),
		leaf(CategoryFrontRight, leafW),
	}
}

func floorMM(v float64) float64 {
	return math.Max(v, minPartMM)
}

// roundMM rounds to whole millimetres, halves to even.
func roundMM(v float64) float64 {
	return math.RoundToEven(v)
}
