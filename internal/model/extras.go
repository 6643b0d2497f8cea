package model

// defaultUnit is used for resolved hardware that has no unit in the catalog.
const defaultUnit = "pcs"

// HardwareSelection is one requested hardware article.
type HardwareSelection struct {
	Kind          HardwareKind `json:"kind"`
	ArticleNumber string       `json:"article_number"`
	Quantity      int          `json:"quantity"`
}

// HardwareLine is a priced hardware row of the extras ledger.
type HardwareLine struct {
	Kind          HardwareKind `json:"kind"`
	ArticleNumber string       `json:"article_number"`
	Name          string       `json:"name"`
	Supplier      string       `json:"supplier"`
	Unit          string       `json:"unit"`
	UnitPrice     float64      `json:"unit_price"`
	Quantity      int          `json:"quantity"`
	Amount        float64      `json:"amount"`
	Resolved      bool         `json:"resolved"`
}

// MiscRow is one requested misc item. Mode and UnitPrice override the catalog when set.
type MiscRow struct {
	Code      string         `json:"code"`
	Mode      AccountingMode `json:"mode,omitempty"`
	A         float64        `json:"a"` // mm
	B         float64        `json:"b"` // mm
	Count     int            `json:"count"`
	UnitPrice *float64       `json:"unit_price,omitempty"`
}

// MiscLine is a priced misc row of the extras ledger.
type MiscLine struct {
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Mode      AccountingMode `json:"mode"`
	Unit      string         `json:"unit"`
	A         float64        `json:"a"`
	B         float64        `json:"b"`
	Count     int            `json:"count"`
	Quantity  float64        `json:"quantity"` // pieces, metres or square metres depending on Mode
	UnitPrice float64        `json:"unit_price"`
	Amount    float64        `json:"amount"`
}

// ExtrasLedger collects hardware and misc items with their subtotals.
type ExtrasLedger struct {
	Hardware       []HardwareLine `json:"hardware"`
	Misc           []MiscLine     `json:"misc"`
	FittingsTotal  float64        `json:"fittings_total"`
	EquipmentTotal float64        `json:"equipment_total"`
	MiscTotal      float64        `json:"misc_total"`
	Subtotal       float64        `json:"subtotal"`
}

// Unresolved returns the hardware rows whose article was not found in the catalog.
func (l ExtrasLedger) Unresolved() []HardwareLine {
	var out []HardwareLine
	for _, h := range l.Hardware {
		if !h.Resolved {
			out = append(out, h)
		}
	}
	return out
}

// ResolveHardware prices one hardware selection. ok is false for rows that do not
// belong in the ledger (no article or a non-positive quantity). An article that is
// not in the catalog is still returned, unpriced and with Resolved unset.
// A full pick-list label is accepted in place of the bare article number.
func ResolveHardware(cat *Catalog, sel HardwareSelection) (line HardwareLine, ok bool) {
	art := ArticleFromPick(sel.ArticleNumber)
	if art == "" || sel.Quantity <= 0 {
		return HardwareLine{}, false
	}
	kind := sel.Kind
	if kind == "" {
		kind = HardwareFittings
	}
	line = HardwareLine{Kind: kind, ArticleNumber: art, Quantity: sel.Quantity}
	item := cat.FindHardware(kind, art)
	if item == nil {
		return line, true
	}
	line.Resolved = true
	line.Name = item.Name
	line.Supplier = item.Supplier
	line.Unit = item.Unit
	if line.Unit == "" {
		line.Unit = defaultUnit
	}
	line.UnitPrice = item.Price
	line.Amount = item.Price * float64(sel.Quantity)
	return line, true
}

// MiscQuantity converts raw dimensions (mm) and a count into the billed quantity.
func MiscQuantity(mode AccountingMode, a, b float64, count int) float64 {
	k := float64(count)
	switch mode {
	case PerLength:
		return mmToM(max(a, b)+min(a, b)) * k
	case PerArea:
		return mm2ToM2(a*b) * k
	default:
		return k
	}
}

// ResolveMisc prices one misc row. ok is false when the count is not positive.
func ResolveMisc(cat *Catalog, row MiscRow) (line MiscLine, ok bool) {
	if row.Count <= 0 {
		return MiscLine{}, false
	}
	line = MiscLine{Code: row.Code, A: row.A, B: row.B, Count: row.Count, Mode: PerPiece}
	if item := cat.FindMiscItem(row.Code); item != nil {
		line.Name = item.Name
		line.Unit = item.Unit
		line.UnitPrice = item.Price
		if item.Mode != "" {
			line.Mode = item.Mode
		}
	}
	if row.Mode != "" {
		line.Mode = row.Mode
	}
	if row.UnitPrice != nil {
		line.UnitPrice = *row.UnitPrice
	}
	if line.Unit == "" {
		line.Unit = line.Mode.Unit()
	}
	line.Quantity = MiscQuantity(line.Mode, row.A, row.B, row.Count)
	line.Amount = line.UnitPrice * line.Quantity
	return line, true
}

// BuildExtras resolves all hardware selections and misc rows into a ledger.
func BuildExtras(cat *Catalog, hardware []HardwareSelection, misc []MiscRow) ExtrasLedger {
	var l ExtrasLedger
	for _, sel := range hardware {
		line, ok := ResolveHardware(cat, sel)
		if !ok {
			continue
		}
		l.Hardware = append(l.Hardware, line)
		if line.Kind == HardwareEquipment {
			l.EquipmentTotal += line.Amount
		} else {
			l.FittingsTotal += line.Amount
		}
	}
	for _, row := range misc {
		line, ok := ResolveMisc(cat, row)
		if !ok {
			continue
		}
		l.Misc = append(l.Misc, line)
		l.MiscTotal += line.Amount
	}
	l.Subtotal = l.FittingsTotal + l.EquipmentTotal + l.MiscTotal
	return l
}
