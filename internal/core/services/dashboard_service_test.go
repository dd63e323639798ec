package services

import (
	"testing"

	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	orderService, orderRepo, db := newOrderEnv(t)

	dashboard := NewDashboardService(
		repositories.NewMemberRepository(db),
		orderRepo,
		repositories.NewInviteRepository(db),
	)

	seedMember(t, db, "pending1@example.com", domain.MemberPending)
	seedMember(t, db, "pending2@example.com", domain.MemberPending)
	buyer := seedMember(t, db, "buyer@example.com", domain.MemberActive)
	seedInvite(t, db, "HLF-INV-0001", domain.InviteAvailable)
	seedInvite(t, db, "HLF-INV-0002", domain.InviteUsed)
	product := seedProduct(t, db, "SD-001", 100, nil, nil)

	kept, err := orderService.Place(testCtx(), buyer.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 3}},
		ShipState: "CO",
	})
	require.NoError(t, err)

	dropped, err := orderService.Place(testCtx(), buyer.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 5}},
		ShipState: "CO",
	})
	require.NoError(t, err)
	require.NoError(t, orderService.CancelOwn(testCtx(), dropped.ID, buyer.ID))

	stats, err := dashboard.GetStats(testCtx())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Members[domain.MemberPending])
	assert.Equal(t, int64(1), stats.Members[domain.MemberActive])
	assert.Equal(t, int64(1), stats.Orders[domain.OrderPendingReview])
	assert.Equal(t, int64(1), stats.Orders[domain.OrderCanceled])
	assert.Equal(t, int64(1), stats.Invites[domain.InviteAvailable])
	assert.Equal(t, int64(1), stats.Invites[domain.InviteUsed])

	// Canceled orders do not count toward revenue
	assert.Equal(t, kept.Total, stats.Revenue)

	pending, err := dashboard.PendingApplications(testCtx())
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)
}
