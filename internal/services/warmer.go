package services

import (
	"context"
	"time"

	"github.com/SumantMunagala/civiclens/internal/datasets"
	"github.com/SumantMunagala/civiclens/internal/logger"
	"github.com/robfig/cron/v3"
)

// Warmer periodically refreshes the cacheable datasets in the background so
// request-path fetches mostly hit a warm cache. Safe to run alongside
// request-triggered fetches: both paths converge on the same idempotent
// upsert per dataset key.
type Warmer struct {
	svc  *DatasetService
	sets []datasets.Dataset
	cron *cron.Cron
}

// NewWarmer schedules a prewarm run per the cron spec (e.g. "@every 8m").
func NewWarmer(svc *DatasetService, sets []datasets.Dataset, schedule string) (*Warmer, error) {
	w := &Warmer{
		svc:  svc,
		sets: sets,
		cron: cron.New(),
	}

	if _, err := w.cron.AddFunc(schedule, w.run); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Warmer) Start() {
	w.cron.Start()
}

func (w *Warmer) Stop() {
	w.cron.Stop()
}

func (w *Warmer) run() {
	log := logger.GetLogger("warmer")

	for _, ds := range w.sets {
		if ds.MaxAge() == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := w.svc.Fetch(ctx, ds); err != nil {
			log.Warnf("prewarm failed for dataset %s: %v", ds.Key(), err)
		}
		cancel()
	}
}
