package returns

import "storefront-assist/internal/vision"

// Decision thresholds. The rejection and review bands overlap between 40 and
// 60 on purpose: a trust score in that range proceeds, but only under manual
// review. Kept as constants rather than re-derived.
const (
	// SyntheticRejectThreshold rejects when the image is judged likelier than
	// not to be AI-generated.
	SyntheticRejectThreshold = 60.0
	// TrustRejectThreshold rejects outright below this trust score.
	TrustRejectThreshold = 40.0
	// TrustReviewThreshold flags for manual review below this trust score.
	TrustReviewThreshold = 60.0

	// DefaultTrustScore applies when no image was supplied or analysis failed.
	DefaultTrustScore = 100.0

	// DefaultSeverity applies when the vision assessment carries no severity.
	DefaultSeverity = "moderate"
)

// Bonus credit added to the store-credit offer, by damage severity.
const (
	bonusSevere   = 15.0
	bonusModerate = 10.0
	bonusMinor    = 5.0
)

// Input carries everything the policy needs for one return request. The
// policy does not validate order existence; the caller supplies a value for
// any order identifier it accepts.
type Input struct {
	OrderID         string
	Reason          string
	OrderValue      float64
	Severity        string
	TrustScore      float64
	SuspiciousFlags []string
	Assessment      *vision.Assessment
}

// Outcome discriminates the two decision shapes.
type Outcome string

const (
	OutcomeRejection  Outcome = "rejection"
	OutcomeResolution Outcome = "resolution"
)

// Decision is the policy output. Rejections carry no monetary fields; accepted
// and review-flagged requests share the resolution shape and differ only in
// NeedsReview.
type Decision struct {
	Outcome         Outcome
	OrderID         string
	Reason          string
	TrustScore      float64
	SuspiciousFlags []string
	Assessment      *vision.Assessment

	// Resolution fields, zero for rejections.
	NeedsReview      bool
	OrderValue       float64
	Severity         string
	BonusAmount      float64
	StoreCreditOffer float64
	RefundOffer      float64
}

// Evaluate classifies a return request. Rejection triggers are independent:
// a synthetic-image confidence above the threshold or a trust score below the
// floor is each sufficient on its own. Non-rejected requests always receive
// resolution options; low-but-passing trust or any suspicion flag only marks
// the decision for manual review.
func Evaluate(in Input) Decision {
	severity := in.Severity
	if severity == "" {
		severity = DefaultSeverity
	}

	base := Decision{
		OrderID:         in.OrderID,
		Reason:          in.Reason,
		TrustScore:      in.TrustScore,
		SuspiciousFlags: in.SuspiciousFlags,
		Assessment:      in.Assessment,
	}

	if rejected(in) {
		base.Outcome = OutcomeRejection
		return base
	}

	bonus := bonusForSeverity(severity)
	base.Outcome = OutcomeResolution
	base.NeedsReview = in.TrustScore < TrustReviewThreshold || len(in.SuspiciousFlags) > 0
	base.OrderValue = in.OrderValue
	base.Severity = severity
	base.BonusAmount = bonus
	base.StoreCreditOffer = in.OrderValue + bonus
	base.RefundOffer = in.OrderValue
	return base
}

func rejected(in Input) bool {
	if in.Assessment != nil && in.Assessment.SyntheticConfidence > SyntheticRejectThreshold {
		return true
	}
	return in.TrustScore < TrustRejectThreshold
}

func bonusForSeverity(severity string) float64 {
	switch severity {
	case "severe":
		return bonusSevere
	case "moderate":
		return bonusModerate
	default:
		return bonusMinor
	}
}

// DefaultInput builds the degraded-trust input used when image analysis
// errored: full default trust, no assessment, and an appended flag so the
// failure stays visible downstream. The return flow never hard-fails on an
// analysis error.
func DefaultInput(orderID, reason string, orderValue float64, analysisErr bool) Input {
	in := Input{
		OrderID:    orderID,
		Reason:     reason,
		OrderValue: orderValue,
		Severity:   DefaultSeverity,
		TrustScore: DefaultTrustScore,
	}
	if analysisErr {
		in.SuspiciousFlags = append(in.SuspiciousFlags, "Error analyzing image - manual review required")
	}
	return in
}
