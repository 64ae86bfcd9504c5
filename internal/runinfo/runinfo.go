// Package runinfo tracks the identity of the current analysis run so log
// records and exports can be correlated after the fact.
package runinfo

import (
	"fmt"
	"sync"
	"time"

	"github.com/windroute/gabarit/pkg/core"
)

// Context holds the current run metadata behind a lock; the logging context
// provider reads it from every goroutine.
type Context struct {
	mu  sync.RWMutex
	run core.RunInfo
}

// NewContext creates a Context with placeholder values.
func NewContext() *Context {
	return &Context{
		run: core.RunInfo{ID: "no-run", StartTime: time.Now()},
	}
}

// Get returns the current run info.
func (c *Context) Get() core.RunInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.run
}

// Set replaces the current run info.
func (c *Context) Set(run core.RunInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run = run
}

// NewRunID derives a run identifier from the start time and blade type.
func NewRunID(start time.Time, bladeType string) string {
	return fmt.Sprintf("%s_%s", start.UTC().Format("20060102_150405"), bladeType)
}
