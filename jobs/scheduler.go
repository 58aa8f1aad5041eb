// Package jobs runs the bank's scheduled maintenance.
package jobs

import (
	"context"
	"fmt"
	"time"

	"qbank/service"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Config holds the cron expressions for each job
type Config struct {
	InterestEnabled     bool
	InterestSchedule    string
	NameRefreshSchedule string
	Timezone            string
}

// Scheduler runs daily interest accrual and player-name refresh
type Scheduler struct {
	cron     *cron.Cron
	interest service.InterestService
	location *time.Location
	now      func() time.Time
}

// NewScheduler registers the jobs. Nothing runs until Start.
func NewScheduler(ctx context.Context, interest service.InterestService, cfg Config) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone %q: %w", cfg.Timezone, err)
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		interest: interest,
		location: loc,
		now:      time.Now,
	}

	if cfg.InterestEnabled {
		if _, err := s.cron.AddFunc(cfg.InterestSchedule, func() { s.AccrueInterest(ctx) }); err != nil {
			return nil, fmt.Errorf("invalid interest schedule %q: %w", cfg.InterestSchedule, err)
		}
	}

	if cfg.NameRefreshSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.NameRefreshSchedule, func() { s.RefreshPlayerNames(ctx) }); err != nil {
			return nil, fmt.Errorf("invalid name refresh schedule %q: %w", cfg.NameRefreshSchedule, err)
		}
	}

	return s, nil
}

// AccrueInterest runs one accrual for the current day in the scheduler's timezone
func (s *Scheduler) AccrueInterest(ctx context.Context) {
	today := s.now().In(s.location)
	run, err := s.interest.AccrueInterest(ctx, time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC))
	if err != nil {
		log.WithError(err).Error("[CRON] Interest accrual failed")
		return
	}
	log.WithFields(log.Fields{
		"runID":            run.ID,
		"accountsAffected": run.AccountsAffected,
		"totalInterest":    run.TotalInterest.String(),
	}).Info("[CRON] Interest accrued")
}

// RefreshPlayerNames updates stored names from the Mojang API
func (s *Scheduler) RefreshPlayerNames(ctx context.Context) {
	updated, err := s.interest.RefreshPlayerNames(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Player name refresh failed")
		return
	}
	log.WithField("updated", updated).Info("[CRON] Player names refreshed")
}

// Start runs the scheduler in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	log.WithFields(log.Fields{
		"timezone": s.location.String(),
		"jobs":     len(s.cron.Entries()),
	}).Info("Job scheduler started")
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Job scheduler stopped")
}
