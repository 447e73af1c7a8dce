// Package retention trims old completion-log entries so the log doesn't
// grow without bound. Purging is a maintenance job, never a user-facing
// query.
package retention

import (
	"time"

	"github.com/apex/log"
	"github.com/tallyhq/tally/pkg/tldb/stor"
)

type Purger struct {
	completionStor stor.CompletionStor
	keep           time.Duration
	interval       time.Duration
	done           chan struct{}
}

func NewPurger(completionStor stor.CompletionStor, keep time.Duration) *Purger {
	return &Purger{
		completionStor: completionStor,
		keep:           keep,
		interval:       24 * time.Hour,
		done:           make(chan struct{}),
	}
}

func (p *Purger) Start() {
	go p.purgeLoop()
}

func (p *Purger) Stop() {
	close(p.done)
}

func (p *Purger) purgeLoop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.PurgeOnce()
		case <-p.done:
			return
		}
	}
}

// PurgeOnce deletes every entry older than the retention window.
func (p *Purger) PurgeOnce() {
	threshold := time.Now().Add(-p.keep)

	deleted, err := p.completionStor.PurgeOlderThan(threshold)
	if err != nil {
		log.Errorf("completion log purge failed: %s", err)
		return
	}

	if deleted > 0 {
		log.WithFields(log.Fields{
			"deleted":   deleted,
			"threshold": threshold.Format(time.DateTime),
		}).Info("purged completion log entries")
	}
}
