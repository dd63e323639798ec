package services

import (
	"context"

	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/core/domain"
)

// DashboardService aggregates admin statistics
type DashboardService struct {
	memberRepo repositories.MemberRepository
	orderRepo  *repositories.OrderRepository
	inviteRepo repositories.InviteRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	memberRepo repositories.MemberRepository,
	orderRepo *repositories.OrderRepository,
	inviteRepo repositories.InviteRepository,
) *DashboardService {
	return &DashboardService{
		memberRepo: memberRepo,
		orderRepo:  orderRepo,
		inviteRepo: inviteRepo,
	}
}

// DashboardStats is the admin overview payload
type DashboardStats struct {
	Members map[domain.MemberStatus]int64 `json:"members"`
	Orders  map[domain.OrderStatus]int64  `json:"orders"`
	Invites map[domain.InviteStatus]int64 `json:"invites"`
	Revenue float64                       `json:"revenue"`
}

// GetStats collects the admin overview numbers
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	members, err := s.memberRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	invites, err := s.inviteRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	revenue, err := s.orderRepo.SumRevenue(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Members: members,
		Orders:  orders,
		Invites: invites,
		Revenue: revenue,
	}, nil
}

// PendingApplications returns the count used by the daily digest
func (s *DashboardService) PendingApplications(ctx context.Context) (int64, error) {
	counts, err := s.memberRepo.CountByStatus(ctx)
	if err != nil {
		return 0, err
	}
	return counts[domain.MemberPending], nil
}
