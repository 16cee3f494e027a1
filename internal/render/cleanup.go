package render

import (
	"log"
	"os"
	"sync"
	"time"

	"promoreel/internal/logx"
)

// Cleaner removes job working directories after a grace delay. The delay
// keeps intermediates around long enough to inspect failures or serve a
// just-finished download; scheduling again for the same job resets the
// timer, and Cancel stops a pending removal when a job is retried.
type Cleaner struct {
	Delay  time.Duration
	Logger *log.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer

	// removeAll is swapped in tests.
	removeAll func(string) error
}

func NewCleaner(delay time.Duration, logger *log.Logger) *Cleaner {
	if logger == nil {
		logger = logx.Discard()
	}
	return &Cleaner{
		Delay:     delay,
		Logger:    logger,
		timers:    map[string]*time.Timer{},
		removeAll: os.RemoveAll,
	}
}

// Schedule queues removal of dir after the grace delay.
func (c *Cleaner) Schedule(jobID, dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.timers[jobID]; ok {
		t.Stop()
	}
	c.timers[jobID] = time.AfterFunc(c.Delay, func() {
		if err := c.removeAll(dir); err != nil {
			c.Logger.Printf("cleanup %s: %v", jobID, err)
		} else {
			c.Logger.Printf("cleanup %s: removed %s", jobID, dir)
		}
		c.mu.Lock()
		delete(c.timers, jobID)
		c.mu.Unlock()
	})
}

// Cancel stops a pending removal, typically because the job was re-created.
func (c *Cleaner) Cancel(jobID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[jobID]; ok {
		t.Stop()
		delete(c.timers, jobID)
	}
}

// Close stops every pending removal without running them.
func (c *Cleaner) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}
