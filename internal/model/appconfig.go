package model

import "encoding/json"

// AppConfig holds workshop-wide defaults applied to new calculations.
type AppConfig struct {
	// Default catalog selections
	DefaultMaterials MaterialSelection `json:"default_materials"`
	DefaultServices  ServiceSelection  `json:"default_services"`

	// Default cabinet geometry for new calculations
	DefaultCabinet CabinetParameters `json:"default_cabinet"`

	// Pricing defaults
	DefaultLabor        Labor         `json:"default_labor"`
	DefaultWaste        WasteSetting  `json:"default_waste"`
	DefaultMarkup       MarkupSetting `json:"default_markup"`
	DefaultDeliveryDays int           `json:"default_delivery_days"`

	// Application preferences
	Currency       string   `json:"currency"`
	CompanyName    string   `json:"company_name"` // Printed on PDF quotes
	RecentRequests []string `json:"recent_requests"`
}

// DefaultAppConfig returns an AppConfig populated with the workshop defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultMaterials: MaterialSelection{
			Material:      "IVR-18-W",
			EdgeBand:      "ABS-22-W",
			FrontMaterial: "MDF-19-L",
			FrontEdgeBand: "ABS-22-L",
		},
		DefaultServices: ServiceSelection{Cutting: "CUT", EdgeBanding: "EDGE"},
		DefaultCabinet:  DefaultCabinetParameters(),
		DefaultLabor: Labor{
			Preparation: LaborItem{Hours: 0.5, Rate: 28},
			Machining:   LaborItem{Hours: 0.8, Rate: 35},
			Assembly:    LaborItem{Hours: 0.7, Rate: 30},
			Packing:     LaborItem{Hours: 0.3, Rate: 22},
		},
		DefaultWaste:        WasteSetting{Enabled: true, Percent: 8},
		DefaultMarkup:       MarkupSetting{Enabled: false, Percent: 15},
		DefaultDeliveryDays: 30,
		Currency:            "EUR",
		RecentRequests:      []string{},
	}
}

// BaseRequest returns a request carrying the configured pricing defaults and no
// cabinet geometry. Requests are decoded onto it so that only the sections a client
// leaves out take the defaults; an explicit "waste": {"enabled": false} stays off.
func (c AppConfig) BaseRequest() CalculationRequest {
	return CalculationRequest{
		Materials:    c.DefaultMaterials,
		Services:     c.DefaultServices,
		Labor:        c.DefaultLabor,
		Waste:        c.DefaultWaste,
		Markup:       c.DefaultMarkup,
		DeliveryDays: c.DefaultDeliveryDays,
	}
}

// DecodeRequest reads a JSON calculation request onto BaseRequest and fills the
// remaining empty codes and mounts.
func (c AppConfig) DecodeRequest(data []byte) (CalculationRequest, error) {
	req := c.BaseRequest()
	if err := json.Unmarshal(data, &req); err != nil {
		return CalculationRequest{}, err
	}
	c.ApplyToRequest(&req)
	return req, nil
}

// NewRequest builds a calculation request from the configured defaults.
func (c AppConfig) NewRequest() CalculationRequest {
	req := c.BaseRequest()
	req.Cabinet = c.DefaultCabinet
	c.ApplyToRequest(&req)
	return req
}

// ApplyToRequest fills empty catalog codes and unset mount modes of r with the
// configured defaults. Numeric pricing fields are never touched here: zero labor,
// zero delivery days and disabled waste or markup are valid choices.
func (c AppConfig) ApplyToRequest(r *CalculationRequest) {
	m := &r.Materials
	if m.Material == "" {
		m.Material = c.DefaultMaterials.Material
	}
	if m.EdgeBand == "" {
		m.EdgeBand = c.DefaultMaterials.EdgeBand
	}
	if m.FrontMaterial == "" {
		m.FrontMaterial = c.DefaultMaterials.FrontMaterial
	}
	if m.FrontEdgeBand == "" {
		m.FrontEdgeBand = c.DefaultMaterials.FrontEdgeBand
	}
	if r.Services.Cutting == "" {
		r.Services.Cutting = c.DefaultServices.Cutting
	}
	if r.Services.EdgeBanding == "" {
		r.Services.EdgeBanding = c.DefaultServices.EdgeBanding
	}
	if r.Cabinet.TopConnector.Mode == "" {
		r.Cabinet.TopConnector.Mode = c.DefaultCabinet.TopConnector.Mode
	}
	if r.Cabinet.Front.Leaves == "" {
		r.Cabinet.Front.Leaves = c.DefaultCabinet.Front.Leaves
	}
	if r.Cabinet.Front.Mount == "" {
		r.Cabinet.Front.Mount = c.DefaultCabinet.Front.Mount
	}
	if r.Cabinet.BottomMount == "" {
		r.Cabinet.BottomMount = MountInner
	}
	if r.Cabinet.TopMount == "" {
		r.Cabinet.TopMount = MountInner
	}
}
