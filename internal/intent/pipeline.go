// Package intent orchestrates the hybrid parsing strategy: prefer
// the NL Parser when available and enabled, and fall back to the
// always-available rule parser on any failure, without ever blending
// the two sources' output.
package intent

import (
	"context"
	"time"

	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/nlparser"
	"github.com/dpinto-lab/chrono/internal/ruleparser"
)

// Clock lets tests and callers control "now" without depending on
// time.Now directly.
type Clock func() time.Time

// Pipeline wires an optional NL Parser ahead of the rule-parser fallback.
type Pipeline struct {
	nl      nlparser.Parser
	enabled func() bool
	now     Clock
}

// New builds a Pipeline. nl may be nil, meaning no NL Parser is
// configured at all (e.g. no provider configured) — the pipeline then
// always uses the rule parser. enabled reports the user's current
// nl_parser_enabled preference.
func New(nl nlparser.Parser, enabled func() bool, now Clock) *Pipeline {
	if now == nil {
		now = time.Now
	}
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &Pipeline{nl: nl, enabled: enabled, now: now}
}

// Parse returns exactly one command: the rule parser's result, or the
// NL parser's first command if it is in use and succeeds.
func (p *Pipeline) Parse(ctx context.Context, text string, events []nlparser.EventContext) command.Command {
	cmds := p.ParseChain(ctx, text, events)
	if len(cmds) == 0 {
		return ruleparser.Parse(text, p.now())
	}
	return cmds[0]
}

// ParseChain returns every command parsed from text. The NL Parser may
// return more than one element for a chained input ("schedule gym today
// and study tomorrow"); the rule-parser fallback never splits a chain —
// it always degrades to a single command over the whole input, which is
// an explicit, documented degradation rather than a silent bug.
func (p *Pipeline) ParseChain(ctx context.Context, text string, events []nlparser.EventContext) []command.Command {
	if p.nl != nil && p.enabled() {
		if cmds, err := p.nl.Parse(ctx, text, events); err == nil && len(cmds) > 0 {
			return cmds
		}
		// Any NL Parser failure — transport, decode, unavailable, or an
		// unrecognized intent string — is absorbed silently here; the
		// caller never sees it.
	}
	return []command.Command{ruleparser.Parse(text, p.now())}
}
