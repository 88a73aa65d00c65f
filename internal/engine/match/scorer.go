// internal/engine/match/scorer.go
package match

import (
	"context"
	"math"
	"sort"
	"sync"

	"greenmatch/internal/common/ai"
	"greenmatch/internal/common/config"
	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/common/metrics"
	"greenmatch/internal/engine/similarity"
	"greenmatch/internal/models"
)

// Factor weights of the composite score. They sum to 1.0.
const (
	weightSemantic   = 0.40
	weightGeography  = 0.25
	weightTechnology = 0.25
	weightTicket     = 0.10
)

const disclaimer = "Match scores are indicative and based on profile data. Always conduct your own due diligence."

// EntityReader is the slice of the store the scorer needs.
type EntityReader interface {
	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetInvestor(ctx context.Context, id string) (*models.Investor, error)
	GetSupplier(ctx context.Context, id string) (*models.Supplier, error)
	ListInvestors(ctx context.Context, filters models.MatchFilters, limit int) ([]models.Investor, error)
	ListProjects(ctx context.Context, filters models.MatchFilters, limit int) ([]models.Project, error)
}

// Scorer ranks directory counterparties against a source entity.
type Scorer struct {
	store  EntityReader
	ai     ai.Client
	cache  *EmbeddingCache
	cfg    config.MatchingConfig
	logger logger.Logger
}

func NewScorer(store EntityReader, aiClient ai.Client, cache *EmbeddingCache, cfg config.MatchingConfig, log logger.Logger) *Scorer {
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 20
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	return &Scorer{store: store, ai: aiClient, cache: cache, cfg: cfg, logger: log}
}

// candidate normalizes the three entity shapes into the fields scoring needs.
type candidate struct {
	id           string
	name         string
	countries    []string
	technologies []models.Technology
	ticketMin    int64
	ticketMax    int64
	text         string
	entity       interface{}
}

// FindMatches loads the source entity, scores the candidate pool against it
// and returns the ranked top matches.
func (s *Scorer) FindMatches(ctx context.Context, sourceType models.EntityType, sourceID string, filters models.MatchFilters) (*models.MatchResponse, error) {
	metrics.RequestsTotal.WithLabelValues("matching").Inc()

	source, err := s.loadSource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.loadCandidates(ctx, source, filters)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &models.MatchResponse{Matches: []models.MatchResult{}, Disclaimer: disclaimer}, nil
	}

	sourceVec, err := s.embed(ctx, source.Describe())
	if err != nil {
		metrics.RequestsFailed.WithLabelValues("matching", string(cerrors.ErrCodeEmbeddingFailed)).Inc()
		return nil, cerrors.NewEmbeddingFailedError(err)
	}

	vectors, err := s.embedAll(ctx, candidates)
	if err != nil {
		metrics.RequestsFailed.WithLabelValues("matching", string(cerrors.ErrCodeEmbeddingFailed)).Inc()
		return nil, cerrors.NewEmbeddingFailedError(err)
	}

	results := make([]models.MatchResult, 0, len(candidates))
	for i, c := range candidates {
		results = append(results, s.score(source, c, sourceVec, vectors[i]))
	}

	// Stable sort keeps pool order for equal scores.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > s.cfg.TopN {
		results = results[:s.cfg.TopN]
	}

	s.logger.Info("match scoring complete", map[string]interface{}{
		"source_type": string(sourceType),
		"source_id":   sourceID,
		"candidates":  len(candidates),
		"returned":    len(results),
	})

	return &models.MatchResponse{Matches: results, Disclaimer: disclaimer}, nil
}

func (s *Scorer) loadSource(ctx context.Context, sourceType models.EntityType, sourceID string) (Source, error) {
	switch sourceType {
	case models.EntityTypeProject:
		p, err := s.store.GetProject(ctx, sourceID)
		if err != nil {
			return Source{}, err
		}
		return Source{Type: sourceType, Project: p}, nil
	case models.EntityTypeInvestor:
		inv, err := s.store.GetInvestor(ctx, sourceID)
		if err != nil {
			return Source{}, err
		}
		return Source{Type: sourceType, Investor: inv}, nil
	case models.EntityTypeSupplier:
		sup, err := s.store.GetSupplier(ctx, sourceID)
		if err != nil {
			return Source{}, err
		}
		return Source{Type: sourceType, Supplier: sup}, nil
	default:
		return Source{}, cerrors.NewInvalidSourceTypeError(string(sourceType))
	}
}

// loadCandidates fetches the counterparty pool. Projects match against
// investors; investors and suppliers match against projects.
func (s *Scorer) loadCandidates(ctx context.Context, source Source, filters models.MatchFilters) ([]candidate, error) {
	switch source.Type {
	case models.EntityTypeProject:
		investors, err := s.store.ListInvestors(ctx, filters, s.cfg.CandidateLimit)
		if err != nil {
			return nil, err
		}
		out := make([]candidate, 0, len(investors))
		for i := range investors {
			inv := investors[i]
			out = append(out, candidate{
				id:           inv.ID,
				name:         inv.Name,
				countries:    inv.Geographies,
				technologies: inv.TechFocus,
				ticketMin:    inv.TicketMinEUR,
				ticketMax:    inv.TicketMaxEUR,
				text:         describeInvestor(&inv),
				entity:       inv,
			})
		}
		return out, nil
	case models.EntityTypeInvestor, models.EntityTypeSupplier:
		projects, err := s.store.ListProjects(ctx, filters, s.cfg.CandidateLimit)
		if err != nil {
			return nil, err
		}
		out := make([]candidate, 0, len(projects))
		for i := range projects {
			p := projects[i]
			var techs []models.Technology
			if p.Technology != "" {
				techs = []models.Technology{p.Technology}
			}
			out = append(out, candidate{
				id:           p.ID,
				name:         p.Name,
				countries:    []string{p.Country},
				technologies: techs,
				text:         describeProject(&p),
				entity:       p,
			})
		}
		return out, nil
	default:
		return nil, cerrors.NewInvalidSourceTypeError(string(source.Type))
	}
}

// embedAll computes candidate embeddings concurrently. Each goroutine writes
// only its own preallocated slot; the first error wins.
func (s *Scorer) embedAll(ctx context.Context, candidates []candidate) ([][]float64, error) {
	vectors := make([][]float64, len(candidates))
	errs := make([]error, len(candidates))

	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vectors[i], errs[i] = s.embed(ctx, candidates[i].text)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

func (s *Scorer) embed(ctx context.Context, text string) ([]float64, error) {
	if s.cache != nil {
		if vec, ok := s.cache.Get(ctx, text); ok {
			return vec, nil
		}
	}
	vec, err := s.ai.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Put(ctx, text, vec)
	}
	return vec, nil
}

func (s *Scorer) score(source Source, c candidate, sourceVec, candVec []float64) models.MatchResult {
	semantic := similarity.Cosine(sourceVec, candVec) * 100

	geography := geographyScore(source.countries(), c.countries)
	technology := technologyScore(source.technologies(), c.technologies)

	ticket := 0.0
	ticketApplies := false
	if source.Type == models.EntityTypeProject {
		ticket, ticketApplies = ticketFitScore(source.Project, c.ticketMin, c.ticketMax)
	}

	composite := int(math.Round(semantic*weightSemantic + geography*weightGeography + technology*weightTechnology + ticket*weightTicket))

	reasons := []models.MatchReason{
		{Factor: "Semantic Similarity", Score: int(math.Round(semantic)), Explanation: "Profile descriptions are semantically aligned"},
		{Factor: "Geography", Score: int(geography), Explanation: geographyExplanation(geography)},
	}
	if technology > 0 {
		reasons = append(reasons, models.MatchReason{Factor: "Technology", Score: int(technology), Explanation: technologyExplanation(technology)})
	}
	if ticketApplies {
		reasons = append(reasons, models.MatchReason{Factor: "Ticket Fit", Score: int(math.Round(ticket)), Explanation: ticketExplanation(ticket)})
	}

	return models.MatchResult{
		ID:      c.id,
		Name:    c.name,
		Score:   composite,
		Reasons: reasons,
		Entity:  c.entity,
	}
}

// geographyScore is 100 on any overlap between the two country sets, 50
// otherwise. A miss is a weaker signal, not a disqualifier.
func geographyScore(source, candidate []string) float64 {
	for _, sc := range source {
		for _, cc := range candidate {
			if sc != "" && sc == cc {
				return 100
			}
		}
	}
	return 50
}

// technologyScore is 100 on overlap, 60 on declared-but-disjoint sets and 0
// when either side declares nothing. A zero score drops the factor from the
// reasons list entirely.
func technologyScore(source, candidate []models.Technology) float64 {
	if len(source) == 0 || len(candidate) == 0 {
		return 0
	}
	for _, st := range source {
		for _, ct := range candidate {
			if st == ct {
				return 100
			}
		}
	}
	return 60
}

// ticketFitScore compares the project's capital need against an investor's
// ticket range. Size in MW proxies CAPEX at 1M EUR per MW when no figure is
// recorded. The second return is false when either side lacks the data, in
// which case the factor is skipped.
func ticketFitScore(p *models.Project, ticketMin, ticketMax int64) (float64, bool) {
	capex := p.CapexEUR
	if capex <= 0 {
		capex = int64(p.SizeMW * 1_000_000)
	}
	if capex <= 0 || ticketMax <= 0 {
		return 0, false
	}
	switch {
	case capex >= ticketMin && capex <= ticketMax:
		return 100, true
	case capex < ticketMin:
		shortfall := float64(ticketMin-capex) / float64(ticketMin)
		return math.Max(0, 100*(1-shortfall)), true
	default:
		return 70, true
	}
}

func geographyExplanation(score float64) string {
	if score >= 100 {
		return "Operates in an overlapping geography"
	}
	return "No direct geographic overlap"
}

func technologyExplanation(score float64) string {
	if score >= 100 {
		return "Technology focus matches"
	}
	return "Related but distinct technology focus"
}

func ticketExplanation(score float64) string {
	switch {
	case score >= 100:
		return "Capital need fits the ticket range"
	case score >= 70:
		return "Capital need exceeds the typical ticket size"
	default:
		return "Capital need is below the typical ticket size"
	}
}
