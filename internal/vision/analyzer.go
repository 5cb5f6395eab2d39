package vision

import (
	"context"
	"errors"
)

// Assessment is the fixed result shape produced by image analysis. The rest
// of the system treats it as opaque input; only the numeric fields feed the
// return decision policy.
type Assessment struct {
	HasDamage           bool     `json:"has_damage"`
	Severity            string   `json:"severity"`
	DamageDescription   string   `json:"damage_description"`
	IsSynthetic         bool     `json:"is_synthetic"`
	SyntheticConfidence float64  `json:"synthetic_confidence"`
	SuspiciousFlags     []string `json:"suspicious_flags"`
	TrustScore          float64  `json:"trust_score"`
	Recommendation      string   `json:"recommendation"`
}

// Analyzer inspects a customer-supplied return photo.
type Analyzer interface {
	Enabled() bool
	Analyze(ctx context.Context, imageBase64 string) (Assessment, error)
}

// ErrDisabled indicates no analyzer credentials are configured.
var ErrDisabled = errors.New("vision analyzer disabled")
