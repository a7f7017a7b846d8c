package rows

import "time"

// Scheduler creates one-shot timers. AfterFunc returns a stop function
// that cancels the timer and reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// RealScheduler runs timers on time.AfterFunc goroutines.
type RealScheduler struct{}

// AfterFunc implements Scheduler.
func (RealScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// PostScheduler runs timers through post, typically a function that hands
// the callback to the UI event loop so that it runs on the loop rather
// than on the timer goroutine.
type PostScheduler struct {
	Post func(fn func())
}

// AfterFunc implements Scheduler.
func (s PostScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	post := s.Post
	if post == nil {
		return time.AfterFunc(d, fn).Stop
	}
	return time.AfterFunc(d, func() { post(fn) }).Stop
}
