package store

import (
	"encoding/json"
	"strings"
	"time"
)

// Order is a customer order tracked by the assistant.
type Order struct {
	ID                uint   `gorm:"primaryKey"`
	OrderID           string `gorm:"size:32;uniqueIndex"`
	Email             string `gorm:"size:128;index"`
	Status            string `gorm:"size:32"`
	CurrentLocation   string `gorm:"size:128"`
	EstimatedDelivery string `gorm:"size:32"`
	TrackingNumber    string `gorm:"size:64"`
	OrderDate         string `gorm:"size:32"`
	Items             []OrderItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItem is one line item on an order.
type OrderItem struct {
	ID       uint   `gorm:"primaryKey"`
	OrderID  uint   `gorm:"index"`
	Name     string `gorm:"size:128"`
	Quantity int
	Price    float64
}

// Value sums line-item price times quantity.
func (o Order) Value() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ReturnDecision persists one evaluated return request for history and
// auditing. The conversational exchange itself is never stored.
type ReturnDecision struct {
	ID               uint   `gorm:"primaryKey"`
	RequestID        string `gorm:"size:64;uniqueIndex"`
	OrderID          string `gorm:"size:32;index"`
	Outcome          string `gorm:"size:16;index"`
	Reason           string `gorm:"size:255"`
	TrustScore       float64
	FlagsJSON        string `gorm:"type:text"`
	NeedsReview      bool
	OrderValue       float64
	Severity         string `gorm:"size:16"`
	BonusAmount      float64
	StoreCreditOffer float64
	RefundOffer      float64
	AssessmentJSON   string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

// SetFlags stores the suspicion flags as JSON.
func (r *ReturnDecision) SetFlags(flags []string) {
	if flags == nil {
		r.FlagsJSON = "[]"
		return
	}
	payload, _ := json.Marshal(flags)
	r.FlagsJSON = string(payload)
}

// Flags returns the decoded suspicion flags.
func (r *ReturnDecision) Flags() []string {
	if strings.TrimSpace(r.FlagsJSON) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(r.FlagsJSON), &out); err != nil {
		return nil
	}
	return out
}
