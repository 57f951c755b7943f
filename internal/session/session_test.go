package session

import (
	"testing"

	"github.com/dpinto-lab/chrono/internal/command"
	"github.com/dpinto-lab/chrono/internal/event"
)

// Anaphora with empty memory reports unresolved; after a create,
// "delete that" resolves to the just-created event.
func TestResolveReportsUnresolvedWhenMemoryEmpty(t *testing.T) {
	mem := New()
	c := command.Command{Intent: command.Delete, Activity: "that", Raw: "delete that"}
	_, ok := mem.Resolve(c)
	if ok {
		t.Error("expected Resolve to report unresolved on empty memory")
	}
}

func TestResolveSubstitutesLastCreatedEvent(t *testing.T) {
	mem := New()
	mem.RecordCreated(event.Event{Title: "gym", Date: "2026-02-18", Time: "06:00"})

	c := command.Command{Intent: command.Delete, Activity: "that", Raw: "delete that"}
	resolved, ok := mem.Resolve(c)
	if !ok {
		t.Fatal("expected Resolve to succeed after a create")
	}
	if resolved.Activity != "gym" {
		t.Errorf("expected activity substituted to gym, got %q", resolved.Activity)
	}
	if len(resolved.Dates) != 1 || resolved.Dates[0] != "2026-02-18" {
		t.Errorf("expected date substituted, got %+v", resolved.Dates)
	}
}

func TestResolveLeavesNonAnaphoricCommandsUntouched(t *testing.T) {
	mem := New()
	mem.RecordCreated(event.Event{Title: "gym", Date: "2026-02-18"})

	c := command.Command{Intent: command.Delete, Activity: "dentist appointment", Raw: "delete dentist appointment"}
	resolved, ok := mem.Resolve(c)
	if !ok {
		t.Fatal("expected Resolve to succeed for a non-anaphoric command")
	}
	if resolved.Activity != "dentist appointment" {
		t.Errorf("expected activity untouched, got %q", resolved.Activity)
	}
}

func TestIsAnaphoricMatchesPronounWithinVerbPhrase(t *testing.T) {
	c := command.Command{Intent: command.Update, Activity: "it to 3pm", Raw: "move it to 3pm"}
	if !IsAnaphoric(c) {
		t.Error("expected a verb+pronoun raw phrase to be detected as anaphoric")
	}
}

func TestIsAnaphoricDoesNotMatchOrdinaryTitles(t *testing.T) {
	c := command.Command{Intent: command.Delete, Activity: "team meeting", Raw: "delete team meeting"}
	if IsAnaphoric(c) {
		t.Error("expected an ordinary title not to be flagged as anaphoric")
	}
}

func TestRecordDoesNotAppendToCreationLog(t *testing.T) {
	mem := New()
	mem.Record(event.Event{Title: "dentist", Date: "2026-02-20"})
	if len(mem.Created()) != 0 {
		t.Errorf("expected Record (not RecordCreated) to leave the creation log empty, got %+v", mem.Created())
	}
	if mem.Empty() {
		t.Error("expected memory to be non-empty after Record")
	}
}
