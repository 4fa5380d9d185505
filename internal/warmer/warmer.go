// Package warmer re-renders configured feeds on a schedule so visitors hit
// a fresh cache.
package warmer

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"tweetfeed/internal/adapters/settings"
	"tweetfeed/internal/usecases"
	"tweetfeed/pkg/log"
)

// DefaultCheckInterval is how often the warm list is re-read for a changed
// schedule.
const DefaultCheckInterval = time.Minute

// FeedRenderer refreshes one feed's cached output.
type FeedRenderer interface {
	Refresh(ctx context.Context, options map[string]string) (usecases.Result, error)
}

// WarmSource lists the feeds to keep warm. The feed list is read on every
// run and the schedule on every check, so a reloaded settings file takes
// effect without a restart.
type WarmSource interface {
	Warm() settings.WarmConfig
}

// Warmer schedules feed refreshes.
type Warmer struct {
	renderer   FeedRenderer
	source     WarmSource
	checkEvery time.Duration
}

// Option configures a Warmer.
type Option func(*Warmer)

// WithCheckInterval sets how often the schedule is re-read. cron rounds
// intervals below one second up to one second.
func WithCheckInterval(d time.Duration) Option {
	return func(w *Warmer) {
		if d > 0 {
			w.checkEvery = d
		}
	}
}

// New creates a Warmer.
func New(renderer FeedRenderer, source WarmSource, opts ...Option) *Warmer {
	w := &Warmer{renderer: renderer, source: source, checkEvery: DefaultCheckInterval}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// plan tracks the refresh job currently registered with the cron.
type plan struct {
	cron     *cron.Cron
	entry    cron.EntryID
	schedule string
}

// Run schedules refreshes and blocks until ctx is done. A schedule that
// does not parse at start is an error; one that stops parsing after a
// reload keeps the previous schedule.
func (w *Warmer) Run(ctx context.Context) error {
	p := &plan{cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))}
	if err := w.replan(ctx, p); err != nil {
		return err
	}
	if p.schedule == "" {
		log.GlobalInfo("cache warmer idle, no feeds configured")
	}

	p.cron.Schedule(cron.Every(w.checkEvery), cron.FuncJob(func() {
		if err := w.replan(ctx, p); err != nil {
			log.GlobalWarn("warm schedule not updated", "error", err)
		}
	}))

	p.cron.Start()
	<-ctx.Done()
	<-p.cron.Stop().Done()
	return nil
}

// replan registers the refresh job for the current warm list when its
// schedule differs from the planned one. An empty feed list drops the job.
func (w *Warmer) replan(ctx context.Context, p *plan) error {
	warm := w.source.Warm()
	schedule := warm.Schedule
	if len(warm.Feeds) == 0 {
		schedule = ""
	}
	if schedule == p.schedule {
		return nil
	}

	var id cron.EntryID
	if schedule != "" {
		var err error
		id, err = p.cron.AddFunc(schedule, func() { w.RunOnce(ctx) })
		if err != nil {
			return fmt.Errorf("warm schedule %q: %w", schedule, err)
		}
	}
	if p.schedule != "" {
		p.cron.Remove(p.entry)
	}
	p.entry, p.schedule = id, schedule

	if schedule != "" {
		log.GlobalInfo("cache warmer scheduled", "schedule", schedule, "feeds", len(warm.Feeds))
	} else {
		log.GlobalInfo("cache warmer stopped, no feeds configured")
	}
	return nil
}

// RunOnce refreshes every configured feed and returns how many succeeded.
// A feed that fails keeps whatever output is already cached.
func (w *Warmer) RunOnce(ctx context.Context) int {
	ok := 0
	for _, feed := range w.source.Warm().Feeds {
		if ctx.Err() != nil {
			break
		}
		res, err := w.renderer.Refresh(ctx, feed)
		if err != nil {
			log.GlobalWarnCtx(ctx, "warm feed failed", "term", res.Term, "error", err)
			continue
		}
		ok++
	}
	log.GlobalDebugCtx(ctx, "warm run finished", "refreshed", ok)
	return ok
}
