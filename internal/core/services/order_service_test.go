package services

import (
	"testing"

	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderEnv(t *testing.T) (*OrderService, *repositories.OrderRepository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)

	orderRepo := repositories.NewOrderRepository(db)
	require.NoError(t, orderRepo.EnsureCounter(testCtx()))

	svc := NewOrderService(
		orderRepo,
		repositories.NewMemberRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewRestrictedStateRepository(db),
		nil,
	)
	return svc, orderRepo, db
}

func TestPriceFor(t *testing.T) {
	full := &models.Product{PricePerLb: 1000, Price5Lb: lbRate(900), Price10Lb: lbRate(800)}
	fiveOnly := &models.Product{PricePerLb: 1200, Price5Lb: lbRate(1100)}
	flat := &models.Product{PricePerLb: 1500}

	cases := []struct {
		name    string
		product *models.Product
		qty     float64
		want    float64
	}{
		{"below first break", full, 1, 1000},
		{"just under 5", full, 4.99, 1000},
		{"at 5 lb break", full, 5, 900},
		{"between breaks", full, 9.99, 900},
		{"at 10 lb break", full, 10, 800},
		{"above 10", full, 250, 800},
		{"missing 10 lb tier falls through", fiveOnly, 12, 1100},
		{"no tiers at all", flat, 50, 1500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PriceFor(tc.product, tc.qty))
		})
	}
}

func TestPlaceOrder(t *testing.T) {
	svc, _, db := newOrderEnv(t)

	member := seedMember(t, db, "buyer@example.com", domain.MemberActive)
	sour := seedProduct(t, db, "SD-001", 1000, lbRate(900), lbRate(800))
	glue := seedProduct(t, db, "GG-001", 1200, lbRate(1100), nil)

	order, err := svc.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items: []OrderItemInput{
			{ProductID: sour.ID, QuantityLbs: 12},
			{ProductID: glue.ID, QuantityLbs: 3},
		},
		ShipState: "co",
	})
	require.NoError(t, err)

	assert.Equal(t, "HLF-0001", order.OrderNumber)
	assert.Equal(t, domain.OrderPendingReview, order.Status)
	assert.Equal(t, "CO", order.ShipState)

	// 12 lb hits the 10 lb rate, 3 lb of the other stays at per-lb
	require.Len(t, order.Items, 2)
	assert.Equal(t, 800.0, order.Items[0].PricePerLb)
	assert.Equal(t, 9600.0, order.Items[0].Subtotal)
	assert.Equal(t, 1200.0, order.Items[1].PricePerLb)
	assert.Equal(t, 3600.0, order.Items[1].Subtotal)
	assert.Equal(t, 13200.0, order.Total)

	// Item rows snapshot the product
	assert.Equal(t, "SD-001", order.Items[0].SKU)
	assert.Equal(t, sour.Name, order.Items[0].ProductName)

	// Numbering advances per order
	second, err := svc.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: sour.ID, QuantityLbs: 1}},
		ShipState: "TX",
	})
	require.NoError(t, err)
	assert.Equal(t, "HLF-0002", second.OrderNumber)
}

func TestPlaceOrderMemberNotActive(t *testing.T) {
	svc, _, db := newOrderEnv(t)

	pending := seedMember(t, db, "pending@example.com", domain.MemberPending)
	product := seedProduct(t, db, "SD-001", 1000, nil, nil)

	_, err := svc.Place(testCtx(), pending.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 1}},
		ShipState: "CO",
	})
	assert.ErrorIs(t, err, ErrMemberNotActive)

	_, err = svc.Place(testCtx(), 9999, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 1}},
		ShipState: "CO",
	})
	assert.ErrorIs(t, err, ErrMemberNotActive)
}

func TestPlaceOrderRestrictedShipState(t *testing.T) {
	svc, _, db := newOrderEnv(t)

	member := seedMember(t, db, "buyer@example.com", domain.MemberActive)
	product := seedProduct(t, db, "SD-001", 1000, nil, nil)
	seedRestrictedState(t, db, "ID")

	_, err := svc.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 1}},
		ShipState: "id",
	})
	assert.ErrorIs(t, err, ErrShipStateRestricted)

	// Nothing was persisted
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderUnavailableProduct(t *testing.T) {
	svc, _, db := newOrderEnv(t)

	member := seedMember(t, db, "buyer@example.com", domain.MemberActive)
	inactive := seedProduct(t, db, "SD-001", 1000, nil, nil)
	require.NoError(t, db.Model(inactive).Update("status", domain.ProductInactive).Error)

	_, err := svc.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: inactive.ID, QuantityLbs: 1}},
		ShipState: "CO",
	})
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = svc.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: 9999, QuantityLbs: 1}},
		ShipState: "CO",
	})
	assert.ErrorIs(t, err, ErrProductUnavailable)

	// A product that lost farm bill compliance cannot be ordered even
	// while still marked active
	noncompliant := seedProduct(t, db, "SD-002", 1000, nil, nil)
	require.NoError(t, db.Model(noncompliant).Update("farm_bill_compliant", false).Error)

	_, err = svc.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: noncompliant.ID, QuantityLbs: 1}},
		ShipState: "CO",
	})
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestOrderStatusFlow(t *testing.T) {
	svc, _, db := newOrderEnv(t)

	member := seedMember(t, db, "buyer@example.com", domain.MemberActive)
	product := seedProduct(t, db, "SD-001", 1000, nil, nil)

	order, err := svc.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 2}},
		ShipState: "CO",
	})
	require.NoError(t, err)

	order, err = svc.ChangeStatus(testCtx(), order.ID, domain.OrderApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderApproved, order.Status)
	require.NotNil(t, order.ApprovedAt)

	// Skipping processing is allowed, moves only go forward
	order, err = svc.ChangeStatus(testCtx(), order.ID, domain.OrderShipped)
	require.NoError(t, err)
	require.NotNil(t, order.ShippedAt)

	_, err = svc.ChangeStatus(testCtx(), order.ID, domain.OrderProcessing)
	assert.ErrorIs(t, err, ErrIllegalOrderMove)

	order, err = svc.ChangeStatus(testCtx(), order.ID, domain.OrderDelivered)
	require.NoError(t, err)
	require.NotNil(t, order.DeliveredAt)

	// Delivered is terminal, even for cancellation
	_, err = svc.ChangeStatus(testCtx(), order.ID, domain.OrderCanceled)
	assert.ErrorIs(t, err, ErrIllegalOrderMove)

	_, err = svc.ChangeStatus(testCtx(), order.ID, domain.OrderStatus("bogus"))
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	_, err = svc.ChangeStatus(testCtx(), 9999, domain.OrderApproved)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelOwn(t *testing.T) {
	svc, _, db := newOrderEnv(t)

	member := seedMember(t, db, "buyer@example.com", domain.MemberActive)
	other := seedMember(t, db, "other@example.com", domain.MemberActive)
	product := seedProduct(t, db, "SD-001", 1000, nil, nil)

	order, err := svc.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 1}},
		ShipState: "CO",
	})
	require.NoError(t, err)

	// Someone else's order looks exactly like a missing one
	err = svc.CancelOwn(testCtx(), order.ID, other.ID)
	assert.ErrorIs(t, err, ErrCannotCancel)

	require.NoError(t, svc.CancelOwn(testCtx(), order.ID, member.ID))

	got, err := svc.Get(testCtx(), memberPrincipal(member), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCanceled, got.Status)

	// Once out of pending review the member can no longer cancel
	second, err := svc.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 1}},
		ShipState: "CO",
	})
	require.NoError(t, err)
	_, err = svc.ChangeStatus(testCtx(), second.ID, domain.OrderApproved)
	require.NoError(t, err)

	err = svc.CancelOwn(testCtx(), second.ID, member.ID)
	assert.ErrorIs(t, err, ErrCannotCancel)

	// A suspension after ordering does not block withdrawal of an
	// order still pending review
	third, err := svc.Place(testCtx(), member.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 1}},
		ShipState: "CO",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Member{}).Where("id = ?", member.ID).
		Update("status", domain.MemberSuspended).Error)
	require.NoError(t, svc.CancelOwn(testCtx(), third.ID, member.ID))
}

func TestOrderVisibility(t *testing.T) {
	svc, _, db := newOrderEnv(t)

	alice := seedMember(t, db, "alice@example.com", domain.MemberActive)
	bob := seedMember(t, db, "bob@example.com", domain.MemberActive)
	product := seedProduct(t, db, "SD-001", 1000, nil, nil)

	order, err := svc.Place(testCtx(), alice.ID, &PlaceOrderInput{
		Items:     []OrderItemInput{{ProductID: product.ID, QuantityLbs: 1}},
		ShipState: "CO",
	})
	require.NoError(t, err)

	// Owner and admin can read it, another member cannot
	_, err = svc.Get(testCtx(), memberPrincipal(alice), order.ID)
	assert.NoError(t, err)
	_, err = svc.Get(testCtx(), adminPrincipal(1), order.ID)
	assert.NoError(t, err)
	_, err = svc.Get(testCtx(), memberPrincipal(bob), order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Member listing is always scoped to the caller
	mine, total, err := svc.List(testCtx(), memberPrincipal(bob), "", "", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, mine)

	all, total, err := svc.List(testCtx(), adminPrincipal(1), "", "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, all, 1)

	_, _, err = svc.List(testCtx(), adminPrincipal(1), domain.OrderStatus("bogus"), "", 0, 10)
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}
