package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPartLengthsCuttingIsHalfPerimeter(t *testing.T) {
	p := NewPartSpec(CategoryBack, BackingBoardCode, "", 798, 718, 3, ManualEdges(0, 0))
	l := PartLengths(p)
	if !nearlyEqual(l.CuttingPerPieceMM, 1516) {
		t.Errorf("expected 1516 mm per piece, got %v", l.CuttingPerPieceMM)
	}
	if !nearlyEqual(l.CuttingM, 4.548) {
		t.Errorf("expected 4.548 m total, got %v", l.CuttingM)
	}
	if l.EdgeM != 0 {
		t.Errorf("back panel should have no banding, got %v", l.EdgeM)
	}
}

func TestSideEdgeSymmetric(t *testing.T) {
	for _, dims := range [][2]float64{{684, 320}, {320, 684}, {500, 500}} {
		p := NewPartSpec(CategorySide, "M", "E", dims[0], dims[1], 1, AutoEdges())
		want := math.Max(dims[0], dims[1]) + math.Min(dims[0], dims[1])
		if got := PartLengths(p).EdgePerPieceMM; !nearlyEqual(got, want) {
			t.Errorf("side %v: edge %v, want %v", dims, got, want)
		}
	}
}

func TestMagnitudeRuleTracksValueNotPosition(t *testing.T) {
	for _, cat := range []Category{CategoryTop, CategoryBottom, CategoryReinforcementHorizontal} {
		for _, dims := range [][2]float64{{764, 320}, {200, 900}, {450, 450}} {
			p := NewPartSpec(cat, "M", "E", dims[0], dims[1], 1, AutoEdges())
			swapped := p
			swapped.A, swapped.B = p.B, p.A

			larger := math.Max(dims[0], dims[1])
			smaller := math.Min(dims[0], dims[1])
			want := larger + 2*smaller

			got := PartLengths(p).EdgePerPieceMM
			gotSwapped := PartLengths(swapped).EdgePerPieceMM
			assert.InDelta(t, want, got, 1e-9, "%v %v", cat, dims)
			assert.InDelta(t, got, gotSwapped, 1e-9, "%v %v swapped", cat, dims)
		}
	}
}

func TestFullPerimeterCategories(t *testing.T) {
	for _, cat := range []Category{CategoryShelf, CategoryFront, CategoryFrontLeft, CategoryFrontRight} {
		p := NewPartSpec(cat, "M", "E", 762, 310, 2, AutoEdges())
		l := PartLengths(p)
		assert.InDelta(t, 2*762.0+2*310.0, l.EdgePerPieceMM, 1e-9, cat.String())
		assert.InDelta(t, 4.288, l.EdgeM, 1e-9, cat.String())
	}
}

func TestTopConnectorOverridesManualCounts(t *testing.T) {
	p := NewPartSpec(CategoryTopConnector, "M", "E", 764, 160, 2, ManualEdges(1, 1))
	long, short := EdgeCounts(p)
	assert.Equal(t, 2, long)
	assert.Equal(t, 0, short)
	assert.InDelta(t, 1528.0, PartLengths(p).EdgePerPieceMM, 1e-9)

	p.Edges = AutoEdges()
	assert.InDelta(t, 1528.0, PartLengths(p).EdgePerPieceMM, 1e-9)
}

func TestManualCountsOverrideCategoryRule(t *testing.T) {
	p := NewPartSpec(CategoryShelf, "M", "E", 762, 310, 1, ManualEdges(1, 0))
	assert.InDelta(t, 762.0, PartLengths(p).EdgePerPieceMM, 1e-9)
}

func TestDeferredCategoriesWithAutoHaveNoBanding(t *testing.T) {
	for _, cat := range []Category{CategoryBack, CategoryCustom} {
		p := NewPartSpec(cat, "M", "E", 500, 400, 1, AutoEdges())
		assert.Zero(t, PartLengths(p).EdgeM, cat.String())

		p.Edges = ManualEdges(2, 1)
		assert.InDelta(t, 2*500.0+400.0, PartLengths(p).EdgePerPieceMM, 1e-9, cat.String())
	}
}

func TestEdgeMarking(t *testing.T) {
	tests := []struct {
		part PartSpec
		want string
	}{
		{NewPartSpec(CategoryBottom, "M", "E", 764, 320, 1, AutoEdges()), "2K 1D"},
		{NewPartSpec(CategorySide, "M", "E", 684, 320, 2, AutoEdges()), "1K 1D"},
		{NewPartSpec(CategoryTopConnector, "M", "E", 764, 160, 2, ManualEdges(2, 0)), "0K 2D"},
		{NewPartSpec(CategoryBack, "M", "E", 798, 718, 1, ManualEdges(0, 0)), "0K 0D"},
	}
	for _, tt := range tests {
		if got := EdgeMarking(tt.part); got != tt.want {
			t.Errorf("%s: marking %q, want %q", tt.part.Name, got, tt.want)
		}
	}
}

func TestFreezeEdgesKeepsResolvedCounts(t *testing.T) {
	p := NewPartSpec(CategoryBottom, "M", "E", 764, 320, 1, AutoEdges())
	frozen := FreezeEdges(p)
	long, short, ok := frozen.Edges.Manual()
	assert.True(t, ok)
	assert.Equal(t, 1, long)
	assert.Equal(t, 2, short)
	assert.InDelta(t, PartLengths(p).EdgeM, PartLengths(frozen).EdgeM, 1e-12)

	manual := NewPartSpec(CategoryShelf, "M", "E", 100, 100, 1, ManualEdges(1, 1))
	assert.Equal(t, manual, FreezeEdges(manual))
}

func TestCalculateEdgeBandingGroupsByBand(t *testing.T) {
	cat := testCatalog()
	items := CostLines([]PartSpec{
		NewPartSpec(CategorySide, "IVR-18-W", "ABS-22-W", 684, 320, 2, AutoEdges()),
		NewPartSpec(CategoryFront, "MDF-19-L", "ABS-22-L", 718, 762, 1, AutoEdges()),
		NewPartSpec(CategoryShelf, "IVR-18-W", "ABS-22-W", 762, 310, 1, AutoEdges()),
		NewPartSpec(CategoryBack, BackingBoardCode, "ABS-22-W", 798, 718, 1, ManualEdges(0, 0)),
	}, ServiceSelection{}, &cat)

	summary := CalculateEdgeBanding(items)
	if assert.Len(t, summary, 2) {
		assert.Equal(t, "ABS-22-W", summary[0].EdgeBandCode)
		assert.InDelta(t, 2*1.004+2.144, summary[0].TotalM, 1e-9)
		assert.Equal(t, 3, summary[0].PartCount)
		assert.Equal(t, "ABS-22-L", summary[1].EdgeBandCode)
		assert.InDelta(t, 2.96, summary[1].TotalM, 1e-9)
	}
}
