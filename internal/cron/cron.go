package cron

import (
	"context"
	"log"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/robfig/cron/v3"
)

// CounterResetSchedule runs shortly after midnight so daily, monthly and
// yearly periods roll over on the first run of the new period.
const CounterResetSchedule = "5 0 * * *"

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron        *cron.Cron
	columnRepo  repository.ColumnRepository
	counterRepo repository.CounterRepository
	now         func() time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(columnRepo repository.ColumnRepository, counterRepo repository.CounterRepository) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		columnRepo:  columnRepo,
		counterRepo: counterRepo,
		now:         time.Now,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(CounterResetSchedule, func() {
		log.Println("[Cron] Running auto-number counter reset...")
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.ResetCounters(ctx); err != nil {
			log.Printf("[Cron] Error resetting counters: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[Cron] Scheduler stopped")
}

// ResetCounters drops auto-number counters whose reset period has ended.
// Item creation restarts a stale sequence on its own; this keeps the table
// from holding counters of finished periods.
func (s *Scheduler) ResetCounters(ctx context.Context) (int64, error) {
	cols, err := s.columnRepo.FindByType(ctx, string(types.ColumnAutoNumber))
	if err != nil {
		return 0, err
	}

	byPeriod := map[string][]string{}
	for _, col := range cols {
		settings, ok := col.TypedSettings().(*columns.AutoNumberSettings)
		if !ok {
			continue
		}
		switch settings.ResetOn {
		case columns.ResetDaily, columns.ResetMonthly, columns.ResetYearly:
			byPeriod[settings.ResetOn] = append(byPeriod[settings.ResetOn], col.ID)
		}
	}

	now := s.now()
	var total int64
	for resetOn, ids := range byPeriod {
		n, err := s.counterRepo.ResetBefore(ctx, ids, columns.PeriodStart(resetOn, now))
		if err != nil {
			return total, err
		}
		total += n
	}
	if total > 0 {
		log.Printf("[Cron] 🔢 Reset %d auto-number counter(s)", total)
	}
	return total, nil
}
