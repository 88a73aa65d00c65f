// internal/store/entities.go
package store

import (
	"context"
	"database/sql"
	"errors"

	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/models"

	"github.com/lib/pq"
)

// GetProject looks up a single project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, technology, country, size_mw, stage, COALESCE(capex_eur, 0), summary, tags
		FROM projects WHERE id = $1`, id)

	var p models.Project
	var tags pq.StringArray
	err := row.Scan(&p.ID, &p.Name, &p.Technology, &p.Country, &p.SizeMW, &p.Stage, &p.CapexEUR, &p.Summary, &tags)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cerrors.NewEntityNotFoundError("projects", id)
		}
		return nil, cerrors.NewQueryExecutionFailedError("get-project", err)
	}
	p.Tags = tags
	return &p, nil
}

// GetInvestor looks up a single investor by ID.
func (s *Store) GetInvestor(ctx context.Context, id string) (*models.Investor, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, geographies, tech_focus, ticket_min_eur, ticket_max_eur, summary, mandate_types
		FROM investors WHERE id = $1`, id)

	inv, err := scanInvestor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cerrors.NewEntityNotFoundError("investors", id)
		}
		return nil, cerrors.NewQueryExecutionFailedError("get-investor", err)
	}
	return inv, nil
}

// GetSupplier looks up a single supplier by ID.
func (s *Store) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, geographies, tech_focus, services, summary
		FROM suppliers WHERE id = $1`, id)

	var sup models.Supplier
	var geos, services pq.StringArray
	var focus pq.StringArray
	err := row.Scan(&sup.ID, &sup.Name, &geos, &focus, &services, &sup.Summary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cerrors.NewEntityNotFoundError("suppliers", id)
		}
		return nil, cerrors.NewQueryExecutionFailedError("get-supplier", err)
	}
	sup.Geographies = geos
	sup.Services = services
	sup.TechFocus = toTechnologies(focus)
	return &sup, nil
}

// ListInvestors returns investors narrowed by optional country-set and
// technology-set inclusion filters, capped at limit.
func (s *Store) ListInvestors(ctx context.Context, filters models.MatchFilters, limit int) ([]models.Investor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, geographies, tech_focus, ticket_min_eur, ticket_max_eur, summary, mandate_types
		FROM investors
		WHERE ($1::text[] IS NULL OR geographies && $1)
		  AND ($2::text[] IS NULL OR tech_focus && $2)
		LIMIT $3`,
		nullableArray(filters.Countries), nullableArray(techStrings(filters.Technologies)), limit)
	if err != nil {
		return nil, cerrors.NewQueryExecutionFailedError("list-investors", err)
	}
	defer rows.Close()

	var out []models.Investor
	for rows.Next() {
		inv, err := scanInvestor(rows)
		if err != nil {
			return nil, cerrors.NewQueryExecutionFailedError("list-investors", err)
		}
		out = append(out, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, cerrors.NewQueryExecutionFailedError("list-investors", err)
	}
	return out, nil
}

// ListProjects returns projects narrowed by optional country-set and
// technology-set inclusion filters, capped at limit.
func (s *Store) ListProjects(ctx context.Context, filters models.MatchFilters, limit int) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, technology, country, size_mw, stage, COALESCE(capex_eur, 0), summary, tags
		FROM projects
		WHERE ($1::text[] IS NULL OR country = ANY($1))
		  AND ($2::text[] IS NULL OR technology = ANY($2))
		LIMIT $3`,
		nullableArray(filters.Countries), nullableArray(techStrings(filters.Technologies)), limit)
	if err != nil {
		return nil, cerrors.NewQueryExecutionFailedError("list-projects", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// ListComparableProjects returns peer projects sharing the subject's
// technology with capacity inside [minMW, maxMW].
func (s *Store) ListComparableProjects(ctx context.Context, technology models.Technology, minMW, maxMW float64) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, technology, country, size_mw, stage, COALESCE(capex_eur, 0), summary, tags
		FROM projects
		WHERE technology = $1 AND size_mw >= $2 AND size_mw <= $3`,
		technology, minMW, maxMW)
	if err != nil {
		return nil, cerrors.NewQueryExecutionFailedError("list-comparables", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvestor(row rowScanner) (*models.Investor, error) {
	var inv models.Investor
	var geos, focus, mandates pq.StringArray
	err := row.Scan(&inv.ID, &inv.Name, &geos, &focus, &inv.TicketMinEUR, &inv.TicketMaxEUR, &inv.Summary, &mandates)
	if err != nil {
		return nil, err
	}
	inv.Geographies = geos
	inv.MandateTypes = mandates
	inv.TechFocus = toTechnologies(focus)
	return &inv, nil
}

func scanProjects(rows *sql.Rows) ([]models.Project, error) {
	var out []models.Project
	for rows.Next() {
		var p models.Project
		var tags pq.StringArray
		if err := rows.Scan(&p.ID, &p.Name, &p.Technology, &p.Country, &p.SizeMW, &p.Stage, &p.CapexEUR, &p.Summary, &tags); err != nil {
			return nil, cerrors.NewQueryExecutionFailedError("scan-projects", err)
		}
		p.Tags = tags
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, cerrors.NewQueryExecutionFailedError("scan-projects", err)
	}
	return out, nil
}

func toTechnologies(values []string) []models.Technology {
	if len(values) == 0 {
		return nil
	}
	out := make([]models.Technology, len(values))
	for i, v := range values {
		out[i] = models.Technology(v)
	}
	return out
}

func techStrings(values []models.Technology) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// nullableArray maps an empty filter set to SQL NULL so the query applies no
// narrowing for that dimension.
func nullableArray(values []string) interface{} {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}
