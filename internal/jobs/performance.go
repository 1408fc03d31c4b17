package jobs

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/convoyhq/convoyops-backend/internal/analytics"
	"github.com/convoyhq/convoyops-backend/internal/models"
	"github.com/convoyhq/convoyops-backend/internal/services"
	"github.com/convoyhq/convoyops-backend/internal/storage"
)

// PerformanceJob runs the scheduled analytics work: the nightly forced
// recomputation of every user's performance record and the weekly fleet
// summary notification.
type PerformanceJob struct {
	store         storage.Store
	engine        *analytics.Engine
	twilioService *services.TwilioService // nil when Twilio is not configured
	isRunning     bool
}

// NewPerformanceJob creates a new performance job scheduler
func NewPerformanceJob(store storage.Store, engine *analytics.Engine, twilioService *services.TwilioService) *PerformanceJob {
	return &PerformanceJob{
		store:         store,
		engine:        engine,
		twilioService: twilioService,
		isRunning:     false,
	}
}

// Start begins all scheduled performance jobs
func (p *PerformanceJob) Start() {
	if p.isRunning {
		log.Println("Performance jobs already running")
		return
	}

	p.isRunning = true
	log.Println("Starting scheduled performance jobs...")

	go p.scheduleNightlyRefresh()
	go p.scheduleWeeklySummary()

	log.Println("All performance jobs started successfully")
}

// Stop halts all scheduled jobs
func (p *PerformanceJob) Stop() {
	p.isRunning = false
	log.Println("Stopping scheduled performance jobs...")
}

// NIGHTLY REFRESH - Runs every day at 2 AM UTC
func (p *PerformanceJob) scheduleNightlyRefresh() {
	for p.isRunning {
		now := time.Now().UTC()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, 0, time.UTC)
		if !nextRun.After(now) {
			nextRun = nextRun.AddDate(0, 0, 1)
		}
		duration := nextRun.Sub(now)

		log.Printf("Next nightly performance refresh scheduled in %v", duration)
		time.Sleep(duration)

		if !p.isRunning {
			break
		}

		p.RefreshAll()
	}
}

// RefreshAll force-recomputes the performance record of every active user
func (p *PerformanceJob) RefreshAll() {
	log.Println("Refreshing performance records for all users...")

	refreshed := 0
	for _, role := range []models.Role{models.RoleDriver, models.RolePreparator} {
		users, err := p.store.GetUsersByRole(role)
		if err != nil {
			log.Printf("Error listing %s users for refresh: %v", role, err)
			continue
		}

		for _, user := range users {
			if _, err := p.engine.GetPerformance(user.UserID, nil, true); err != nil {
				log.Printf("Error refreshing performance for %s: %v", user.UserID, err)
				continue
			}
			refreshed++
		}
	}

	log.Printf("Performance refresh completed: %d records updated", refreshed)
}

// WEEKLY SUMMARY - Runs every Sunday at 6 PM
func (p *PerformanceJob) scheduleWeeklySummary() {
	for p.isRunning {
		now := time.Now()
		daysUntilSunday := (7 - int(now.Weekday())) % 7
		if daysUntilSunday == 0 && now.Hour() >= 18 {
			daysUntilSunday = 7
		}

		nextRun := time.Date(now.Year(), now.Month(), now.Day()+daysUntilSunday, 18, 0, 0, 0, now.Location())
		duration := nextRun.Sub(now)

		log.Printf("Next weekly fleet summary scheduled in %v", duration)
		time.Sleep(duration)

		if !p.isRunning {
			break
		}

		p.sendWeeklySummaries()
	}
}

// sendWeeklySummaries sends the last week's fleet digest to the ops channel
func (p *PerformanceJob) sendWeeklySummaries() {
	log.Println("Sending weekly fleet summaries...")

	opsPhone := os.Getenv("OPS_WHATSAPP_TO")
	if p.twilioService == nil || opsPhone == "" {
		log.Println("Twilio not configured - skipping weekly fleet summary")
		return
	}

	start := time.Now().UTC().AddDate(0, 0, -7)
	end := time.Now().UTC()
	weekRange := &models.DateRange{StartDate: &start, EndDate: &end}

	for _, role := range []models.Role{models.RoleDriver, models.RolePreparator} {
		summary, err := p.engine.GlobalSummary(role, weekRange)
		if err != nil {
			log.Printf("Error building weekly %s summary: %v", role, err)
			continue
		}

		if err := p.twilioService.SendWhatsAppMessage(opsPhone, formatSummaryMessage(summary)); err != nil {
			log.Printf("Error sending weekly %s summary: %v", role, err)
		}
	}
}

// formatSummaryMessage renders a fleet summary as a short WhatsApp digest
func formatSummaryMessage(summary *models.FleetSummary) string {
	msg := fmt.Sprintf("📊 Weekly %s summary\nRecords: %d\nUsers: %d",
		summary.Role, summary.TotalRecords, summary.UserCount)

	if summary.TopPerformer != nil {
		top := summary.TopPerformer
		if top.Name != "" {
			msg += fmt.Sprintf("\n🏆 Top performer: %s", top.Name)
		} else {
			msg += fmt.Sprintf("\n🏆 Top performer: %s", top.UserID)
		}
		if summary.Role == models.RolePreparator {
			msg += fmt.Sprintf(" (score %d)", top.PerformanceScore)
		} else {
			msg += fmt.Sprintf(" (%d completed)", top.CompletedRecords)
		}
	}

	return msg
}
