package nav

import (
	"context"
	"sync"
)

// Well known destinations.
const (
	LoginPath = "/auth/login"
	HomePath  = "/"
)

// Navigator moves the client to another route.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	f(ctx, path)
}

// Nop discards navigation.
var Nop Navigator = NavigatorFunc(func(context.Context, string) {})

// Recorder remembers every navigation. The CLI uses it to report where a
// command ended up; tests use it to assert redirects.
type Recorder struct {
	mu      sync.Mutex
	history []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Navigate(ctx context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, path)
}

// Last returns the most recent destination, or "" if none.
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

// History returns a copy of all destinations in order.
func (r *Recorder) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

// Count returns how many times path was navigated to.
func (r *Recorder) Count(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.history {
		if p == path {
			n++
		}
	}
	return n
}
