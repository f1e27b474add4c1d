// Package jobs runs the periodic maintenance tasks.
package jobs

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"springworks/internal/audit"
	"springworks/internal/auth"
	"springworks/internal/config"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// taskTimeout bounds a single run of any task.
const taskTimeout = time.Minute

type task struct {
	name string
	spec string
	fn   func()
}

// Scheduler owns the cron instance and the tasks it runs.
type Scheduler struct {
	sched *cron.Cron
	db    *sql.DB
	cfg   config.JobsConfig
	warm  func(context.Context) error
}

// New registers the session purge, audit retention and cache warm tasks.
// warm may be nil, in which case no warm task is scheduled.
func New(db *sql.DB, cfg config.JobsConfig, location string, warm func(context.Context) error) (*Scheduler, error) {
	loc, err := time.LoadLocation(location)
	if err != nil {
		loc = time.Local
	}
	s := &Scheduler{
		sched: cron.New(cron.WithLocation(loc), cron.WithParser(cronParser)),
		db:    db,
		cfg:   cfg,
		warm:  warm,
	}

	tasks := []task{
		{"session purge", cfg.SessionPurge, s.PurgeSessions},
		{"audit cleanup", cfg.AuditCleanup, s.CleanupAudit},
	}
	if warm != nil {
		tasks = append(tasks, task{"cache warm", cfg.CacheWarm, s.WarmCache})
	}
	for _, t := range tasks {
		if t.spec == "" {
			continue
		}
		if _, err := s.sched.AddFunc(t.spec, t.fn); err != nil {
			return nil, errors.Wrapf(err, "schedule %s %q", t.name, t.spec)
		}
	}
	return s, nil
}

// Entries reports how many tasks are scheduled.
func (s *Scheduler) Entries() int {
	return len(s.sched.Entries())
}

func (s *Scheduler) Start() {
	s.sched.Start()
	zap.S().Infow("scheduler started", "tasks", s.Entries())
}

// Stop halts scheduling and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.sched.Stop().Done()
}

func recoverTask(name string) {
	if err := recover(); err != nil {
		zap.S().Errorw("scheduled task panicked", "task", name, "error", err)
	}
}

// PurgeSessions deletes expired and idle sessions.
func (s *Scheduler) PurgeSessions() {
	defer recoverTask("session purge")
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()
	n, err := auth.PurgeExpiredSessions(ctx, s.db)
	if err != nil {
		zap.S().Errorw("session purge failed", "error", err)
		return
	}
	if n > 0 {
		zap.S().Infow("purged sessions", "count", n)
	}
}

// CleanupAudit drops audit entries older than the retention window.
func (s *Scheduler) CleanupAudit() {
	defer recoverTask("audit cleanup")
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()
	n, err := audit.CleanupOldAuditLogs(ctx, s.db, s.cfg.AuditRetentionDays)
	if err != nil {
		zap.S().Errorw("audit cleanup failed", "error", err)
		return
	}
	zap.S().Infow("audit cleanup", "deleted", n, "retentionDays", s.cfg.AuditRetentionDays)
}

// WarmCache reloads the product list cache.
func (s *Scheduler) WarmCache() {
	defer recoverTask("cache warm")
	if s.warm == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()
	if err := s.warm(ctx); err != nil {
		zap.S().Warnw("cache warm failed", "error", err)
	}
}
