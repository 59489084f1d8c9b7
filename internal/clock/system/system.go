// Package system provides the wall clock behind crawl deadlines and run
// timestamps. Tests substitute a fake through the crawler.Clock interface.
package system

import "time"

// Clock implements crawler.Clock using time.Now.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time in UTC, matching the timezone of every
// persisted timestamp.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
