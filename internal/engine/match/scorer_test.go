// internal/engine/match/scorer_test.go
package match

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenmatch/internal/common/ai"
	"greenmatch/internal/common/config"
	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/models"
)

type fakeEmbedder struct {
	vectors     map[string][]float64
	fallbackVec []float64
	err         error
}

func (f *fakeEmbedder) Complete(ctx context.Context, messages []ai.Message, opts ai.CompleteOptions) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	for key, vec := range f.vectors {
		if strings.Contains(text, key) {
			return vec, nil
		}
	}
	if f.fallbackVec != nil {
		return f.fallbackVec, nil
	}
	return []float64{1, 0, 0}, nil
}

type fakeStore struct {
	project   *models.Project
	investor  *models.Investor
	supplier  *models.Supplier
	investors []models.Investor
	projects  []models.Project
}

func (f *fakeStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if f.project == nil || f.project.ID != id {
		return nil, cerrors.NewEntityNotFoundError("projects", id)
	}
	return f.project, nil
}

func (f *fakeStore) GetInvestor(ctx context.Context, id string) (*models.Investor, error) {
	if f.investor == nil || f.investor.ID != id {
		return nil, cerrors.NewEntityNotFoundError("investors", id)
	}
	return f.investor, nil
}

func (f *fakeStore) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	if f.supplier == nil || f.supplier.ID != id {
		return nil, cerrors.NewEntityNotFoundError("suppliers", id)
	}
	return f.supplier, nil
}

func (f *fakeStore) ListInvestors(ctx context.Context, filters models.MatchFilters, limit int) ([]models.Investor, error) {
	return f.investors, nil
}

func (f *fakeStore) ListProjects(ctx context.Context, filters models.MatchFilters, limit int) ([]models.Project, error) {
	return f.projects, nil
}

func newTestScorer(store EntityReader, embedder ai.Client) *Scorer {
	cfg := config.MatchingConfig{CandidateLimit: 20, TopN: 5}
	return NewScorer(store, embedder, nil, cfg, logger.NewNoOpLogger())
}

func TestFindMatchesPerfectAlignment(t *testing.T) {
	// Identical embeddings, overlapping geography and technology, and a
	// CAPEX inside the ticket range push every factor to 100.
	store := &fakeStore{
		project: &models.Project{
			ID: "p1", Name: "Solar Park Brandenburg", Technology: models.TechnologySolar,
			Country: "DE", SizeMW: 50, CapexEUR: 40_000_000,
		},
		investors: []models.Investor{{
			ID: "i1", Name: "Green Capital", Geographies: []string{"DE", "DK"},
			TechFocus:    []models.Technology{models.TechnologySolar},
			TicketMinEUR: 5_000_000, TicketMaxEUR: 80_000_000,
		}},
	}
	embedder := &fakeEmbedder{fallbackVec: []float64{0.5, 0.5, 0}}

	resp, err := newTestScorer(store, embedder).FindMatches(
		context.Background(), models.EntityTypeProject, "p1", models.MatchFilters{})
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)

	m := resp.Matches[0]
	assert.Equal(t, "i1", m.ID)
	assert.Equal(t, 100, m.Score)
	require.Len(t, m.Reasons, 4)
	assert.Equal(t, "Semantic Similarity", m.Reasons[0].Factor)
	assert.Equal(t, 100, m.Reasons[0].Score)
	assert.Equal(t, "Geography", m.Reasons[1].Factor)
	assert.Equal(t, 100, m.Reasons[1].Score)
	assert.Equal(t, "Technology", m.Reasons[2].Factor)
	assert.Equal(t, "Ticket Fit", m.Reasons[3].Factor)
	assert.NotEmpty(t, resp.Disclaimer)
}

func TestFindMatchesTwoReasonsWhenTechnologyAbsent(t *testing.T) {
	// An investor without a declared tech focus matching against projects
	// that carry no ticket data yields only the two universal factors.
	store := &fakeStore{
		investor: &models.Investor{ID: "i1", Name: "Broad Fund", Geographies: []string{"ES"}},
		projects: []models.Project{{ID: "p1", Name: "Andalusia Wind", Technology: models.TechnologyWind, Country: "ES"}},
	}
	embedder := &fakeEmbedder{fallbackVec: []float64{1, 1, 0}}

	resp, err := newTestScorer(store, embedder).FindMatches(
		context.Background(), models.EntityTypeInvestor, "i1", models.MatchFilters{})
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)

	m := resp.Matches[0]
	require.Len(t, m.Reasons, 2)
	assert.Equal(t, "Semantic Similarity", m.Reasons[0].Factor)
	assert.Equal(t, "Geography", m.Reasons[1].Factor)
}

func TestFindMatchesRankingAndTopN(t *testing.T) {
	investors := make([]models.Investor, 0, 7)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		inv := models.Investor{
			ID: id, Name: "Fund " + id,
			Geographies: []string{"DE"},
			TechFocus:   []models.Technology{models.TechnologySolar},
		}
		if id == "d" {
			// The only in-range ticket; everyone else lacks ticket data.
			inv.TicketMinEUR = 1_000_000
			inv.TicketMaxEUR = 100_000_000
		}
		investors = append(investors, inv)
	}
	store := &fakeStore{
		project: &models.Project{
			ID: "p1", Name: "Solar Park", Technology: models.TechnologySolar,
			Country: "DE", CapexEUR: 50_000_000,
		},
		investors: investors,
	}
	embedder := &fakeEmbedder{fallbackVec: []float64{1, 0, 0}}

	resp, err := newTestScorer(store, embedder).FindMatches(
		context.Background(), models.EntityTypeProject, "p1", models.MatchFilters{})
	require.NoError(t, err)

	require.Len(t, resp.Matches, 5)
	// "d" scores highest via the ticket factor; ties keep pool order.
	assert.Equal(t, "d", resp.Matches[0].ID)
	assert.Equal(t, "a", resp.Matches[1].ID)
	assert.Equal(t, "b", resp.Matches[2].ID)
	assert.GreaterOrEqual(t, resp.Matches[0].Score, resp.Matches[1].Score)
}

func TestFindMatchesEmptyPool(t *testing.T) {
	store := &fakeStore{
		project: &models.Project{ID: "p1", Name: "Solo", Technology: models.TechnologySolar, Country: "DE"},
	}
	resp, err := newTestScorer(store, &fakeEmbedder{}).FindMatches(
		context.Background(), models.EntityTypeProject, "p1", models.MatchFilters{})
	require.NoError(t, err)
	assert.Empty(t, resp.Matches)
	assert.NotEmpty(t, resp.Disclaimer)
}

func TestFindMatchesSourceNotFound(t *testing.T) {
	store := &fakeStore{}
	_, err := newTestScorer(store, &fakeEmbedder{}).FindMatches(
		context.Background(), models.EntityTypeProject, "missing", models.MatchFilters{})
	require.Error(t, err)
	std, ok := cerrors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, cerrors.ErrCodeEntityNotFound, std.Code)
}

func TestFindMatchesInvalidSourceType(t *testing.T) {
	_, err := newTestScorer(&fakeStore{}, &fakeEmbedder{}).FindMatches(
		context.Background(), models.EntityType("company"), "x", models.MatchFilters{})
	require.Error(t, err)
	std, ok := cerrors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, cerrors.ErrCodeInvalidSourceType, std.Code)
}

func TestFindMatchesEmbeddingFailurePropagates(t *testing.T) {
	store := &fakeStore{
		project:   &models.Project{ID: "p1", Name: "Solo", Technology: models.TechnologySolar, Country: "DE"},
		investors: []models.Investor{{ID: "i1", Name: "Fund"}},
	}
	embedder := &fakeEmbedder{err: errors.New("embedding endpoint down")}
	_, err := newTestScorer(store, embedder).FindMatches(
		context.Background(), models.EntityTypeProject, "p1", models.MatchFilters{})
	require.Error(t, err)
	std, ok := cerrors.AsStandard(err)
	require.True(t, ok)
	assert.Equal(t, cerrors.ErrCodeEmbeddingFailed, std.Code)
}

func TestTicketFitScore(t *testing.T) {
	tests := []struct {
		name      string
		project   models.Project
		min, max  int64
		want      float64
		wantKnown bool
	}{
		{"in range", models.Project{CapexEUR: 40_000_000}, 5_000_000, 80_000_000, 100, true},
		{"above max", models.Project{CapexEUR: 120_000_000}, 5_000_000, 80_000_000, 70, true},
		{"below min half", models.Project{CapexEUR: 5_000_000}, 10_000_000, 80_000_000, 50, true},
		{"size proxy", models.Project{SizeMW: 40}, 5_000_000, 80_000_000, 100, true},
		{"no capital data", models.Project{}, 5_000_000, 80_000_000, 0, false},
		{"no ticket range", models.Project{CapexEUR: 40_000_000}, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := ticketFitScore(&tt.project, tt.min, tt.max)
			assert.Equal(t, tt.wantKnown, known)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestTechnologyScore(t *testing.T) {
	solar := []models.Technology{models.TechnologySolar}
	wind := []models.Technology{models.TechnologyWind}

	assert.Equal(t, 100.0, technologyScore(solar, solar))
	assert.Equal(t, 60.0, technologyScore(solar, wind))
	assert.Equal(t, 0.0, technologyScore(nil, solar))
	assert.Equal(t, 0.0, technologyScore(solar, nil))
}

func TestGeographyScore(t *testing.T) {
	assert.Equal(t, 100.0, geographyScore([]string{"DE"}, []string{"DK", "DE"}))
	assert.Equal(t, 50.0, geographyScore([]string{"DE"}, []string{"ES"}))
	assert.Equal(t, 50.0, geographyScore(nil, []string{"ES"}))
}

func TestSourceDescribeDeterministic(t *testing.T) {
	p := &models.Project{ID: "p1", Name: "Solar Park", Technology: models.TechnologySolar, Country: "DE", SizeMW: 50, Summary: "Utility scale PV."}
	src := Source{Type: models.EntityTypeProject, Project: p}
	assert.Equal(t, src.Describe(), src.Describe())
	assert.Contains(t, src.Describe(), "Solar Park")
	assert.Contains(t, src.Describe(), "50 MW")
}
