package domain

// MemberStatus represents a member's lifecycle state
type MemberStatus string

const (
	MemberPending   MemberStatus = "pending"
	MemberActive    MemberStatus = "active"
	MemberSuspended MemberStatus = "suspended"
	MemberDenied    MemberStatus = "denied"
	MemberCanceled  MemberStatus = "canceled"
)

// memberTransitions is the full membership state machine.
// denied and canceled are terminal.
var memberTransitions = map[MemberStatus][]MemberStatus{
	MemberPending:   {MemberActive, MemberDenied},
	MemberActive:    {MemberSuspended, MemberCanceled},
	MemberSuspended: {MemberActive, MemberCanceled},
}

// CanMemberTransition reports whether from -> to is a legal status change
func CanMemberTransition(from, to MemberStatus) bool {
	for _, allowed := range memberTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidMemberStatus reports whether s is a known member status
func ValidMemberStatus(s MemberStatus) bool {
	switch s {
	case MemberPending, MemberActive, MemberSuspended, MemberDenied, MemberCanceled:
		return true
	}
	return false
}

// OrderStatus represents an order's lifecycle state
type OrderStatus string

const (
	OrderPendingReview OrderStatus = "pending_review"
	OrderApproved      OrderStatus = "approved"
	OrderProcessing    OrderStatus = "processing"
	OrderShipped       OrderStatus = "shipped"
	OrderDelivered     OrderStatus = "delivered"
	OrderCanceled      OrderStatus = "canceled"
)

// orderRank orders the linear fulfillment chain. canceled and unknown
// statuses have no rank.
var orderRank = map[OrderStatus]int{
	OrderPendingReview: 1,
	OrderApproved:      2,
	OrderProcessing:    3,
	OrderShipped:       4,
	OrderDelivered:     5,
}

// CanOrderTransition reports whether from -> to is a legal status change.
// Fulfillment only moves forward along the chain (skipping steps is
// allowed). Cancellation is reachable from any non-terminal status.
func CanOrderTransition(from, to OrderStatus) bool {
	if from == OrderDelivered || from == OrderCanceled {
		return false
	}
	if to == OrderCanceled {
		return true
	}
	fromRank, ok := orderRank[from]
	if !ok {
		return false
	}
	toRank, ok := orderRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s OrderStatus) bool {
	if s == OrderCanceled {
		return true
	}
	_, ok := orderRank[s]
	return ok
}

// InviteStatus represents an invite code's state
type InviteStatus string

const (
	InviteAvailable InviteStatus = "available"
	InviteUsed      InviteStatus = "used"
)

// ProductStatus represents a product's visibility state
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// PrincipalKind distinguishes the two authenticated populations
type PrincipalKind string

const (
	PrincipalMember PrincipalKind = "member"
	PrincipalAdmin  PrincipalKind = "admin"
)

// Principal is the resolved identity behind a session token. Exactly one
// of MemberID is meaningful per Kind; handlers read Kind before anything
// else. Member status is carried so middleware can gate transacting
// operations without a second lookup.
type Principal struct {
	Kind         PrincipalKind
	ID           uint
	Email        string
	Name         string
	MemberStatus MemberStatus // zero value for admins
}

// IsAdmin reports whether the principal is an admin
func (p *Principal) IsAdmin() bool {
	return p.Kind == PrincipalAdmin
}

// IsActiveMember reports whether the principal may transact
func (p *Principal) IsActiveMember() bool {
	return p.Kind == PrincipalMember && p.MemberStatus == MemberActive
}
