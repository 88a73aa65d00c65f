// internal/models/entity.go
package models

// Technology enumerates the renewable-energy sectors tracked by the platform.
type Technology string

const (
	TechnologySolar      Technology = "Solar"
	TechnologyWind       Technology = "Wind"
	TechnologyStorage    Technology = "Storage"
	TechnologyHydro      Technology = "Hydro"
	TechnologyHydrogen   Technology = "Hydrogen"
	TechnologyEfficiency Technology = "Efficiency"
)

// EntityType tags the three directory record shapes.
type EntityType string

const (
	EntityTypeProject  EntityType = "project"
	EntityTypeInvestor EntityType = "investor"
	EntityTypeSupplier EntityType = "supplier"
)

type Project struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Technology Technology `json:"technology"`
	Country    string     `json:"country"`
	SizeMW     float64    `json:"sizeMw"`
	Stage      string     `json:"stage"`
	CapexEUR   int64      `json:"capexEur,omitempty"`
	Summary    string     `json:"summary"`
	Tags       []string   `json:"tags,omitempty"`
}

type Investor struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Geographies   []string     `json:"geographies"`
	TechFocus     []Technology `json:"techFocus"`
	TicketMinEUR  int64        `json:"ticketMinEur"`
	TicketMaxEUR  int64        `json:"ticketMaxEur"`
	Summary       string       `json:"summary"`
	MandateTypes  []string     `json:"mandateTypes,omitempty"`
}

type Supplier struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Geographies []string     `json:"geographies"`
	TechFocus   []Technology `json:"techFocus"`
	Services    []string     `json:"services,omitempty"`
	Summary     string       `json:"summary"`
}
