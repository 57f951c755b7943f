package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/nlparser"
)

type stubParser struct {
	cmds []command.Command
	err  error
}

func (s stubParser) Parse(ctx context.Context, text string, events []nlparser.EventContext) ([]command.Command, error) {
	return s.cmds, s.err
}

func fixedClock(t *testing.T) Clock {
	t.Helper()
	tm, err := time.Parse("2006-01-02", "2026-02-18")
	if err != nil {
		t.Fatal(err)
	}
	return func() time.Time { return tm }
}

func TestPipelinePrefersNLParser(t *testing.T) {
	stub := stubParser{cmds: []command.Command{{Intent: command.Schedule, Activity: "from-nl"}}}
	p := New(stub, nil, fixedClock(t))
	got := p.Parse(context.Background(), "schedule gym", nil)
	if got.Activity != "from-nl" {
		t.Errorf("expected NL result, got %+v", got)
	}
}

func TestPipelineFallsBackOnNLFailure(t *testing.T) {
	stub := stubParser{err: errors.New("boom")}
	p := New(stub, nil, fixedClock(t))
	got := p.Parse(context.Background(), "schedule gym tomorrow", nil)
	if got.Intent != command.Schedule || got.Activity != "gym" {
		t.Errorf("expected rule-parser fallback, got %+v", got)
	}
}

func TestPipelineFallsBackWhenDisabled(t *testing.T) {
	stub := stubParser{cmds: []command.Command{{Intent: command.Schedule, Activity: "from-nl"}}}
	p := New(stub, func() bool { return false }, fixedClock(t))
	got := p.Parse(context.Background(), "schedule gym tomorrow", nil)
	if got.Activity != "gym" {
		t.Errorf("expected rule-parser result when disabled, got %+v", got)
	}
}

func TestPipelineWithNoNLParserConfigured(t *testing.T) {
	p := New(nil, nil, fixedClock(t))
	got := p.Parse(context.Background(), "schedule gym tomorrow", nil)
	if got.Activity != "gym" {
		t.Errorf("expected rule-parser result with nil NL parser, got %+v", got)
	}
}

func TestParseChainReturnsMultipleNLCommands(t *testing.T) {
	stub := stubParser{cmds: []command.Command{
		{Intent: command.Schedule, Activity: "gym"},
		{Intent: command.Schedule, Activity: "study"},
	}}
	p := New(stub, nil, fixedClock(t))
	got := p.ParseChain(context.Background(), "schedule gym today and study tomorrow", nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(got))
	}
}

func TestParseChainFallbackDegradesToSingleCommand(t *testing.T) {
	p := New(nil, nil, fixedClock(t))
	got := p.ParseChain(context.Background(), "schedule gym today and study tomorrow", nil)
	if len(got) != 1 {
		t.Fatalf("rule-parser fallback must degrade to one command, got %d", len(got))
	}
}
