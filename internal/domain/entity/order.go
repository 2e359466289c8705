package entity

import (
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions lists the statuses reachable from each status. Setting the
// current status again is always accepted and handled separately.
// Pending, in_progress and completed reach each other freely. Only pending
// and in_progress work can be cancelled, and cancelled is terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	// Small jobs may be delivered without an in_progress step.
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusInProgress: {OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled},
	// A business partner may reopen completed work.
	OrderStatusCompleted: {OrderStatusPending, OrderStatusInProgress},
	OrderStatusCancelled: {},
}

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is one of the four known values.
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]

	return ok
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Order is a customer's purchase of one offer tier. OfferID and OfferDetailID
// become nil when the referenced rows are deleted; the order itself survives.
type Order struct {
	ID            int64
	CustomerID    int64
	OfferID       *int64
	OfferDetailID *int64
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time

	// Loaded for read views. Nil when not loaded or when the reference is a ghost.
	Offer       *Offer
	OfferDetail *OfferDetail
}

// BusinessPartnerID returns the creator of the referenced offer, if any.
func (o *Order) BusinessPartnerID() (int64, bool) {
	if o.OfferID == nil || o.Offer == nil {
		return 0, false
	}

	return o.Offer.CreatorID, true
}

// SetStatus applies a transition and maintains CompletedAt. Entering completed
// stamps now unless already stamped; any other status clears the stamp.
func (o *Order) SetStatus(next OrderStatus, now time.Time) {
	o.Status = next
	if next == OrderStatusCompleted {
		if o.CompletedAt == nil {
			completedAt := now
			o.CompletedAt = &completedAt
		}

		return
	}
	o.CompletedAt = nil
}
