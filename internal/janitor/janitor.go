// Package janitor removes posts whose expiry has passed. Posts carry an
// optional ExpiresOn timestamp; the sweep walks the post snapshot on a cron
// schedule and removes expired ones with the full cascade.
package janitor

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/palaverhq/palaver/internal/database"
)

// Janitor periodically removes expired posts.
type Janitor struct {
	db          *database.DB
	cron        *cron.Cron
	cronEntryID cron.EntryID
	schedule    string
}

// New creates a janitor with the given cron schedule. An empty schedule
// disables the sweep.
func New(db *database.DB, schedule string) *Janitor {
	return &Janitor{
		db:       db,
		cron:     cron.New(),
		schedule: schedule,
	}
}

// Start registers the sweep and starts the scheduler.
func (j *Janitor) Start() error {
	if j.schedule == "" {
		log.Debug().Msg("Expiry sweep disabled (no schedule)")
		return nil
	}

	id, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.Sweep(); err != nil {
			log.Error().Err(err).Msg("Expiry sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid expiry schedule %q: %w", j.schedule, err)
	}
	j.cronEntryID = id

	j.cron.Start()
	log.Info().Str("schedule", j.schedule).Msg("Expiry sweep scheduled")
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Sweep removes every post whose ExpiresOn lies in the past and returns the
// number removed. Each removal cascades to the post's comments and tag
// associations. After removals the planner stats are refreshed.
func (j *Janitor) Sweep() (int, error) {
	posts, err := j.db.Posts()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	removed := 0
	for _, p := range posts {
		if p.ExpiresOn == nil || p.ExpiresOn.After(now) {
			continue
		}
		if err := j.db.RemovePost(p.ID); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Expired posts removed")
		if err := j.db.Optimize(); err != nil {
			log.Error().Err(err).Msg("Post-sweep optimize failed")
		}
	}
	return removed, nil
}
