// Package nlparser defines the NL Parser interface the Intent Pipeline
// consumes, its JSON wire schema, and a circuit-breaker-guarded availability
// cache, plus a reference OpenAI-compatible implementation.
package nlparser

import (
	"context"
	"errors"
	"sync"

	"github.com/dpinto-lab/chrono/internal/command"
)

var (
	// ErrUnavailable means the parser could not be reached at all (e.g.
	// the breaker is open, or a preflight connectivity check failed).
	ErrUnavailable = errors.New("nlparser: unavailable")
	// ErrTransport wraps a network/HTTP-layer failure.
	ErrTransport = errors.New("nlparser: transport error")
	// ErrDecode wraps a JSON decoding failure of the model's response.
	ErrDecode = errors.New("nlparser: decode error")
	// ErrUnknown is returned for any other backend failure.
	ErrUnknown = errors.New("nlparser: unknown error")
)

// EventContext is the minimal shape of an existing event fed to the
// parser as context (at most the 20 most recent).
type EventContext struct {
	Date     string
	Time     string
	Title    string
	Duration int
}

// Parser turns raw text into zero or more commands. Implementations may
// fail with one of the sentinel errors above; the Intent Pipeline treats
// any failure identically (fall back to the rule parser).
type Parser interface {
	Parse(ctx context.Context, text string, events []EventContext) ([]command.Command, error)
}

// wireCommand is the exact JSON schema documented in the external
// interfaces section: one object per parsed command, with string fields
// normalized from the model's "null"/"none"/"" conventions to Go's zero
// value by Clean.
type wireCommand struct {
	Intent   string  `json:"intent"`
	Activity *string `json:"activity"`
	Date     *string `json:"date"`
	DateEnd  *string `json:"date_end"`
	Time     *string `json:"time"`
	Duration *int    `json:"duration"`
	TimePref *string `json:"time_pref"`
}

// Clean converts the "null"/"none"/"" string sentinels some models emit
// into an empty Go string, matching the wire contract's normalization.
func Clean(s *string) string {
	if s == nil {
		return ""
	}
	v := *s
	switch v {
	case "null", "none", "", "Null", "None", "NULL", "NONE":
		return ""
	default:
		return v
	}
}

// availability is a mutex-guarded cache of whether the NL parser
// backend is reachable: the first get runs the check and later calls
// return its cached result until reset clears it.
type availability struct {
	mu      sync.Mutex
	checked bool
	ok      bool
}

func (a *availability) get(check func() bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.checked {
		a.ok = check()
		a.checked = true
	}
	return a.ok
}

func (a *availability) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checked = false
	a.ok = false
}
