// internal/store/usage.go
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one append-only accounting row for an AI-assisted feature
// call. The session identifier is threaded in explicitly by the caller.
type UsageRecord struct {
	Feature          string
	SessionID        string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Success          bool
}

// InsertUsageRecord appends a usage-accounting row. Callers invoke this
// fire-and-forget: a failure here must never fail the user-facing request.
func (s *Store) InsertUsageRecord(ctx context.Context, rec UsageRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_usage_records
			(id, feature, session_id, prompt_tokens, completion_tokens, latency_ms, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.NewString(), rec.Feature, rec.SessionID,
		rec.PromptTokens, rec.CompletionTokens, rec.LatencyMS, rec.Success, time.Now().UTC())
	if err != nil {
		s.logger.Warn("usage record insert failed", map[string]interface{}{
			"feature": rec.Feature,
			"error":   err.Error(),
		})
	}
	return err
}
