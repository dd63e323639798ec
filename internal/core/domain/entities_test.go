package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMemberTransition(t *testing.T) {
	cases := []struct {
		from, to MemberStatus
		want     bool
	}{
		{MemberPending, MemberActive, true},
		{MemberPending, MemberDenied, true},
		{MemberPending, MemberSuspended, false},
		{MemberPending, MemberCanceled, false},
		{MemberActive, MemberSuspended, true},
		{MemberActive, MemberCanceled, true},
		{MemberActive, MemberDenied, false},
		{MemberSuspended, MemberActive, true},
		{MemberSuspended, MemberCanceled, true},
		{MemberDenied, MemberActive, false},
		{MemberCanceled, MemberActive, false},
		{MemberActive, MemberActive, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanMemberTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCanOrderTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPendingReview, OrderApproved, true},
		{OrderPendingReview, OrderShipped, true}, // skipping steps is fine
		{OrderApproved, OrderProcessing, true},
		{OrderProcessing, OrderShipped, true},
		{OrderShipped, OrderDelivered, true},
		{OrderApproved, OrderPendingReview, false}, // never backwards
		{OrderShipped, OrderApproved, false},
		{OrderPendingReview, OrderCanceled, true},
		{OrderShipped, OrderCanceled, true},
		{OrderDelivered, OrderCanceled, false}, // terminal
		{OrderCanceled, OrderApproved, false},  // terminal
		{OrderApproved, OrderApproved, false},
		{OrderApproved, OrderStatus("bogus"), false},
		{OrderStatus("bogus"), OrderApproved, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanOrderTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatuses(t *testing.T) {
	assert.True(t, ValidMemberStatus(MemberPending))
	assert.True(t, ValidMemberStatus(MemberCanceled))
	assert.False(t, ValidMemberStatus("archived"))

	assert.True(t, ValidOrderStatus(OrderCanceled))
	assert.True(t, ValidOrderStatus(OrderDelivered))
	assert.False(t, ValidOrderStatus("draft"))
}

func TestPrincipal(t *testing.T) {
	admin := &Principal{Kind: PrincipalAdmin, ID: 1}
	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsActiveMember())

	active := &Principal{Kind: PrincipalMember, ID: 2, MemberStatus: MemberActive}
	assert.False(t, active.IsAdmin())
	assert.True(t, active.IsActiveMember())

	suspended := &Principal{Kind: PrincipalMember, ID: 3, MemberStatus: MemberSuspended}
	assert.False(t, suspended.IsActiveMember())
}
