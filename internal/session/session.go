// Package session holds the session memory: an ephemeral,
// process-lifetime record of the most recently touched event and
// everything created this session, used to resolve anaphora like
// "delete that" without a second round-trip to the store.
package session

import (
	"regexp"
	"strings"

	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/event"
)

// anaphoraActivity matches a command whose activity field IS the
// anaphor itself (the rule parser extracted nothing but a pronoun).
var anaphoraActivity = regexp.MustCompile(`(?i)^(that|it|this|the last (one|event)?|last (one|event)?|the one)$`)

// anaphoraVerbPhrase matches raw input where an anaphoric pronoun
// trails a mutating verb, even if the activity field captured more
// text around it (e.g. "cancel that one please").
var anaphoraVerbPhrase = regexp.MustCompile(`(?i)\b(delete|cancel|remove|reschedule|move|update)\b.*\b(that|it|this)\b`)

// Memory is the dispatcher-owned store of session state. The zero
// value is ready to use (empty memory).
type Memory struct {
	lastTitle string
	lastDate  string
	created   []event.Event
}

// New returns an empty Memory.
func New() *Memory {
	return &Memory{}
}

// Record updates the last-touched event, for any mutation (create,
// update, or a successful delete target).
func (m *Memory) Record(e event.Event) {
	m.lastTitle = e.Title
	m.lastDate = e.Date
}

// RecordCreated records a newly created event, both as the
// last-touched event and in the session's creation log.
func (m *Memory) RecordCreated(e event.Event) {
	m.Record(e)
	m.created = append(m.created, e)
}

// Created returns every event created this session, in creation order.
func (m *Memory) Created() []event.Event {
	out := make([]event.Event, len(m.created))
	copy(out, m.created)
	return out
}

// Empty reports whether memory holds no last-touched event yet.
func (m *Memory) Empty() bool {
	return m.lastTitle == "" && m.lastDate == ""
}

// IsAnaphoric reports whether c refers back to the last-touched event
// rather than naming one explicitly, per the two surface patterns:
// an activity field that is itself a bare pronoun, or raw input where
// a mutating verb governs a trailing pronoun.
func IsAnaphoric(c command.Command) bool {
	if anaphoraActivity.MatchString(strings.TrimSpace(c.Activity)) {
		return true
	}
	return anaphoraVerbPhrase.MatchString(c.Raw)
}

// Resolve substitutes the last-touched title (and date, if the command
// didn't already carry one) into c when c is anaphoric. ok is false
// when c is anaphoric but memory is empty — the caller should report
// "no recent event in memory" rather than proceeding.
func (m *Memory) Resolve(c command.Command) (resolved command.Command, ok bool) {
	if !IsAnaphoric(c) {
		return c, true
	}
	if m.Empty() {
		return c, false
	}
	resolved = c
	resolved.Activity = m.lastTitle
	if len(resolved.Dates) == 0 && m.lastDate != "" {
		resolved.Dates = []string{m.lastDate}
	}
	return resolved, true
}
