package services

import (
	"testing"

	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestApplicantToDeliveredOrder walks the whole funnel: an invited
// applicant gets approved, places a tiered order and sees it through
// fulfillment.
func TestApplicantToDeliveredOrder(t *testing.T) {
	db := newTestDB(t)

	memberRepo := repositories.NewMemberRepository(db)
	stateRepo := repositories.NewRestrictedStateRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	require.NoError(t, orderRepo.EnsureCounter(testCtx()))

	inviteService := NewInviteService(repositories.NewInviteRepository(db))
	memberService := NewMemberService(memberRepo, stateRepo, inviteService, nil)
	orderService := NewOrderService(orderRepo, memberRepo, repositories.NewProductRepository(db), stateRepo, nil)

	codes, err := inviteService.GenerateAdminCodes(testCtx(), 1)
	require.NoError(t, err)
	require.Len(t, codes, 1)

	member, err := memberService.Apply(testCtx(), applyInput("grower@example.com", codes[0].Code))
	require.NoError(t, err)

	// A pending applicant cannot order
	product := seedProduct(t, db, "SD-001", 1000, lbRate(900), lbRate(800))
	_, err = orderService.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 12}},
		ShipState: "TN",
	})
	require.ErrorIs(t, err, ErrMemberNotActive)

	_, err = memberService.ChangeStatus(testCtx(), member.ID, domain.MemberActive, "")
	require.NoError(t, err)

	order, err := orderService.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 12}},
		ShipState: "TN",
	})
	require.NoError(t, err)

	// 12 lb lands in the 10 lb tier
	assert.Equal(t, "HLF-0001", order.OrderNumber)
	assert.Equal(t, 9600.0, order.Total)

	order, err = orderService.ChangeStatus(testCtx(), order.ID, domain.OrderApproved)
	require.NoError(t, err)
	order, err = orderService.ChangeStatus(testCtx(), order.ID, domain.OrderShipped)
	require.NoError(t, err)
	assert.NotNil(t, order.ShippedAt)

	order, err = orderService.ChangeStatus(testCtx(), order.ID, domain.OrderDelivered)
	require.NoError(t, err)
	assert.NotNil(t, order.DeliveredAt)
	assert.Equal(t, domain.OrderDelivered, order.Status)
}
