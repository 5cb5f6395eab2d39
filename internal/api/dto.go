package api

import (
	"encoding/json"
	"time"

	"storefront-assist/internal/knowledge"
	"storefront-assist/internal/returns"
	"storefront-assist/internal/store"
	"storefront-assist/internal/vision"
)

// TrackingDTO is the rendering payload for an order tracking card.
type TrackingDTO struct {
	OrderID           string    `json:"order_id"`
	Status            string    `json:"status"`
	CurrentLocation   string    `json:"current_location"`
	EstimatedDelivery string    `json:"estimated_delivery"`
	TrackingNumber    string    `json:"tracking_number"`
	Items             []ItemDTO `json:"items"`
}

// ItemDTO is one order line item.
type ItemDTO struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// TrackingFromModel converts a stored order into the tracking payload.
func TrackingFromModel(o store.Order) TrackingDTO {
	items := make([]ItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemDTO{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}
	return TrackingDTO{
		OrderID:           o.OrderID,
		Status:            o.Status,
		CurrentLocation:   o.CurrentLocation,
		EstimatedDelivery: o.EstimatedDelivery,
		TrackingNumber:    o.TrackingNumber,
		Items:             items,
	}
}

// KnowledgeRequest is the search endpoint input.
type KnowledgeRequest struct {
	Query string `json:"query"`
}

// KnowledgeResponse carries the structured answer plus an optional
// assistant-phrased reply.
type KnowledgeResponse struct {
	Message string            `json:"message"`
	Matches []knowledge.Match `json:"matches,omitempty"`
	Reply   string            `json:"reply,omitempty"`
}

// ReturnRequest is the return-processing endpoint input. Image is an optional
// base64 payload; HasImage distinguishes "no photo offered" from an empty
// upload.
type ReturnRequest struct {
	OrderID  string `json:"order_id"`
	Reason   string `json:"reason"`
	HasImage bool   `json:"has_image"`
	Image    string `json:"image,omitempty"`
}

// ReturnDecisionDTO is the API representation of one decided return request,
// tagged by Type as either "rejection" or "resolution".
type ReturnDecisionDTO struct {
	Type             string             `json:"type"`
	RequestID        string             `json:"request_id"`
	OrderID          string             `json:"order_id"`
	Reason           string             `json:"reason"`
	TrustScore       float64            `json:"trust_score"`
	SuspiciousFlags  []string           `json:"suspicious_flags"`
	VisionAnalysis   *vision.Assessment `json:"vision_analysis"`
	NeedsReview      bool               `json:"needs_review,omitempty"`
	OrderValue       float64            `json:"order_value,omitempty"`
	Severity         string             `json:"severity,omitempty"`
	BonusAmount      float64            `json:"bonus_amount,omitempty"`
	StoreCreditOffer float64            `json:"store_credit_offer,omitempty"`
	RefundOffer      float64            `json:"refund_offer,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// DecisionDTO converts a policy decision into the API payload.
func DecisionDTO(requestID string, d returns.Decision) ReturnDecisionDTO {
	dto := ReturnDecisionDTO{
		Type:            string(d.Outcome),
		RequestID:       requestID,
		OrderID:         d.OrderID,
		Reason:          d.Reason,
		TrustScore:      d.TrustScore,
		SuspiciousFlags: emptyIfNil(d.SuspiciousFlags),
		VisionAnalysis:  d.Assessment,
		CreatedAt:       time.Now().UTC(),
	}
	if d.Outcome == returns.OutcomeResolution {
		dto.NeedsReview = d.NeedsReview
		dto.OrderValue = d.OrderValue
		dto.Severity = d.Severity
		dto.BonusAmount = d.BonusAmount
		dto.StoreCreditOffer = d.StoreCreditOffer
		dto.RefundOffer = d.RefundOffer
	}
	return dto
}

// DecisionModel converts a policy decision into the persistence model.
func DecisionModel(requestID string, d returns.Decision) *store.ReturnDecision {
	model := &store.ReturnDecision{
		RequestID:   requestID,
		OrderID:     d.OrderID,
		Outcome:     string(d.Outcome),
		Reason:      d.Reason,
		TrustScore:  d.TrustScore,
		NeedsReview: d.NeedsReview,
	}
	model.SetFlags(d.SuspiciousFlags)
	if d.Assessment != nil {
		payload, _ := json.Marshal(d.Assessment)
		model.AssessmentJSON = string(payload)
	}
	if d.Outcome == returns.OutcomeResolution {
		model.OrderValue = d.OrderValue
		model.Severity = d.Severity
		model.BonusAmount = d.BonusAmount
		model.StoreCreditOffer = d.StoreCreditOffer
		model.RefundOffer = d.RefundOffer
	}
	return model
}

// DecisionFromModel converts a persisted decision back into the API payload.
func DecisionFromModel(m store.ReturnDecision) ReturnDecisionDTO {
	dto := ReturnDecisionDTO{
		Type:             m.Outcome,
		RequestID:        m.RequestID,
		OrderID:          m.OrderID,
		Reason:           m.Reason,
		TrustScore:       m.TrustScore,
		SuspiciousFlags:  emptyIfNil(m.Flags()),
		NeedsReview:      m.NeedsReview,
		OrderValue:       m.OrderValue,
		Severity:         m.Severity,
		BonusAmount:      m.BonusAmount,
		StoreCreditOffer: m.StoreCreditOffer,
		RefundOffer:      m.RefundOffer,
		CreatedAt:        m.CreatedAt,
	}
	if m.AssessmentJSON != "" {
		var assessment vision.Assessment
		if err := json.Unmarshal([]byte(m.AssessmentJSON), &assessment); err == nil {
			dto.VisionAnalysis = &assessment
		}
	}
	return dto
}

// ReturnsHistoryResponse is the paginated decision history.
type ReturnsHistoryResponse struct {
	Items []ReturnDecisionDTO `json:"items"`
	Total int64               `json:"total"`
}

func emptyIfNil(flags []string) []string {
	if flags == nil {
		return []string{}
	}
	return flags
}
