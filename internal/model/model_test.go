package model

import (
	"encoding/json"
	"testing"
)

func TestManualEdgesClampsCounts(t *testing.T) {
	tests := []struct {
		long, short         int
		wantLong, wantShort int
	}{
		{-1, 3, 0, 2},
		{2, 2, 2, 2},
		{5, -4, 2, 0},
		{1, 0, 1, 0},
	}
	for _, tt := range tests {
		m := ManualEdges(tt.long, tt.short)
		long, short, ok := m.Manual()
		if !ok {
			t.Fatalf("ManualEdges(%d,%d) reported auto", tt.long, tt.short)
		}
		if long != tt.wantLong || short != tt.wantShort {
			t.Errorf("ManualEdges(%d,%d) = (%d,%d), want (%d,%d)",
				tt.long, tt.short, long, short, tt.wantLong, tt.wantShort)
		}
	}
}

func TestAutoEdgesHasNoCounts(t *testing.T) {
	m := AutoEdges()
	if !m.IsAuto() {
		t.Error("expected auto edge mode")
	}
	if _, _, ok := m.Manual(); ok {
		t.Error("auto edge mode must not expose manual counts")
	}
}

func TestEdgeModeJSON(t *testing.T) {
	data, err := json.Marshal([]EdgeMode{AutoEdges(), ManualEdges(2, 1)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["auto",{"long":2,"short":1}]` {
		t.Errorf("unexpected encoding %s", data)
	}

	var decoded []EdgeMode
	if err := json.Unmarshal([]byte(`["auto",{"long":7,"short":1}]`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded[0].IsAuto() {
		t.Error("first entry should be auto")
	}
	long, short, ok := decoded[1].Manual()
	if !ok || long != 2 || short != 1 {
		t.Errorf("second entry = (%d,%d,%v), want clamped (2,1,true)", long, short, ok)
	}

	if err := json.Unmarshal([]byte(`"sometimes"`), &decoded[0]); err == nil {
		t.Error("expected error for unknown edge mode string")
	}
}

func TestCategoryJSONRoundTrip(t *testing.T) {
	for _, c := range Categories() {
		data, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("marshal %v: %v", c, err)
		}
		var back Category
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != c {
			t.Errorf("round trip of %v gave %v", c, back)
		}
	}
}

func TestParseCategoryAcceptsDisplayName(t *testing.T) {
	c, err := ParseCategory("top connector")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != CategoryTopConnector {
		t.Errorf("expected top connector, got %v", c)
	}
	if _, err := ParseCategory("drawer"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestCategoryShortCodes(t *testing.T) {
	want := map[Category]string{
		CategorySide:                    "Str",
		CategoryBottom:                  "Pd",
		CategoryTop:                     "Kp",
		CategoryTopConnector:            "Pov",
		CategoryShelf:                   "Pol",
		CategoryBack:                    "Ld",
		CategoryFrontLeft:               "Fr",
		CategoryReinforcementHorizontal: "HptHor",
		CategoryReinforcementVertical:   "HptVer",
	}
	for c, code := range want {
		if got := c.ShortCode(); got != code {
			t.Errorf("%v short code = %q, want %q", c, got, code)
		}
	}
}

func TestPartSpecLongShort(t *testing.T) {
	p := PartSpec{A: 300, B: 700}
	if p.Long() != 700 || p.Short() != 300 {
		t.Errorf("expected long=700 short=300, got %v/%v", p.Long(), p.Short())
	}
	p = PartSpec{A: 400, B: 400}
	if p.Long() != 400 || p.Short() != 400 {
		t.Errorf("expected 400/400 on a tie, got %v/%v", p.Long(), p.Short())
	}
}
