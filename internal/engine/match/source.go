// internal/engine/match/source.go
package match

import (
	"fmt"
	"strings"

	"greenmatch/internal/models"
)

// Source is the tagged union over the three directory record shapes a match
// query can start from. Exactly one of the pointers is set, selected by Type;
// dispatch is always on the tag, never on field presence.
type Source struct {
	Type     models.EntityType
	Project  *models.Project
	Investor *models.Investor
	Supplier *models.Supplier
}

// Describe builds the deterministic embedding-input text for the source.
// Two calls on identical entity state produce identical text.
func (s Source) Describe() string {
	switch s.Type {
	case models.EntityTypeProject:
		return describeProject(s.Project)
	case models.EntityTypeInvestor:
		return describeInvestor(s.Investor)
	case models.EntityTypeSupplier:
		return describeSupplier(s.Supplier)
	default:
		return ""
	}
}

// countries returns the geography set the source anchors matches to.
func (s Source) countries() []string {
	switch s.Type {
	case models.EntityTypeProject:
		return []string{s.Project.Country}
	case models.EntityTypeInvestor:
		return s.Investor.Geographies
	case models.EntityTypeSupplier:
		return s.Supplier.Geographies
	default:
		return nil
	}
}

// technologies returns the technology set the source anchors matches to.
func (s Source) technologies() []models.Technology {
	switch s.Type {
	case models.EntityTypeProject:
		if s.Project.Technology == "" {
			return nil
		}
		return []models.Technology{s.Project.Technology}
	case models.EntityTypeInvestor:
		return s.Investor.TechFocus
	case models.EntityTypeSupplier:
		return s.Supplier.TechFocus
	default:
		return nil
	}
}

func describeProject(p *models.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s.", p.Name)
	if p.Technology != "" {
		fmt.Fprintf(&b, " Technology: %s.", p.Technology)
	}
	if p.SizeMW > 0 {
		fmt.Fprintf(&b, " Capacity: %g MW.", p.SizeMW)
	}
	if p.Stage != "" {
		fmt.Fprintf(&b, " Stage: %s.", p.Stage)
	}
	if p.Country != "" {
		fmt.Fprintf(&b, " Country: %s.", p.Country)
	}
	if p.Summary != "" {
		fmt.Fprintf(&b, " %s", p.Summary)
	}
	return b.String()
}

func describeInvestor(inv *models.Investor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Investor: %s.", inv.Name)
	if len(inv.TechFocus) > 0 {
		fmt.Fprintf(&b, " Focus: %s.", joinTechnologies(inv.TechFocus))
	}
	if len(inv.Geographies) > 0 {
		fmt.Fprintf(&b, " Geographies: %s.", strings.Join(inv.Geographies, ", "))
	}
	if inv.TicketMaxEUR > 0 {
		fmt.Fprintf(&b, " Ticket size: %d-%d EUR.", inv.TicketMinEUR, inv.TicketMaxEUR)
	}
	if inv.Summary != "" {
		fmt.Fprintf(&b, " %s", inv.Summary)
	}
	return b.String()
}

func describeSupplier(sup *models.Supplier) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Supplier: %s.", sup.Name)
	if len(sup.Services) > 0 {
		fmt.Fprintf(&b, " Services: %s.", strings.Join(sup.Services, ", "))
	}
	if len(sup.TechFocus) > 0 {
		fmt.Fprintf(&b, " Focus: %s.", joinTechnologies(sup.TechFocus))
	}
	if len(sup.Geographies) > 0 {
		fmt.Fprintf(&b, " Geographies: %s.", strings.Join(sup.Geographies, ", "))
	}
	if sup.Summary != "" {
		fmt.Fprintf(&b, " %s", sup.Summary)
	}
	return b.String()
}

func joinTechnologies(techs []models.Technology) string {
	parts := make([]string, len(techs))
	for i, t := range techs {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
