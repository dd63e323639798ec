package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// AutoService runs the scheduled maintenance jobs: hourly expired
// session purge and a daily digest of applications awaiting review.
type AutoService struct {
	sessionService   *SessionService
	dashboardService *DashboardService
	notifyService    *NotificationService
	cron             *cron.Cron
}

// NewAutoService creates a new auto service
func NewAutoService(
	sessionService *SessionService,
	dashboardService *DashboardService,
	notifyService *NotificationService,
) *AutoService {
	return &AutoService{
		sessionService:   sessionService,
		dashboardService: dashboardService,
		notifyService:    notifyService,
		cron:             cron.New(),
	}
}

// Start registers and launches the cron jobs
func (s *AutoService) Start() {
	s.cron.AddFunc("0 * * * *", s.purgeSessions)
	s.cron.AddFunc("30 8 * * *", s.sendPendingDigest)
	s.cron.Start()
	log.Println("AutoService started (session purge hourly, digest daily 08:30)")
}

// Stop stops the scheduler, waiting for running jobs
func (s *AutoService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("AutoService stopped")
}

func (s *AutoService) purgeSessions() {
	if err := s.sessionService.CleanupExpired(context.Background()); err != nil {
		log.Printf("Session purge failed: %v", err)
	}
}

func (s *AutoService) sendPendingDigest() {
	count, err := s.dashboardService.PendingApplications(context.Background())
	if err != nil {
		log.Printf("Pending digest query failed: %v", err)
		return
	}
	s.notifyService.SendPendingDigest(count)
}
