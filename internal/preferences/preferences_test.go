package preferences

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !p.NLParserEnabled {
		t.Error("expected NL parser enabled by default")
	}
	if len(p.BlockedWindows) != 0 {
		t.Error("expected no blocked windows by default")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	p := New()
	p.DefaultTimeBias = BiasMorning
	if err := p.AddBlockedWindow(BlockedWindow{
		Label: "lunch",
		Days:  []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		Start: "12:00",
		End:   "13:00",
	}); err != nil {
		t.Fatal(err)
	}
	if err := p.Save(path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.DefaultTimeBias != BiasMorning {
		t.Errorf("bias = %q, want morning", got.DefaultTimeBias)
	}
	if len(got.BlockedWindows) != 1 || got.BlockedWindows[0].Label != "lunch" {
		t.Errorf("blocked windows = %+v", got.BlockedWindows)
	}
}

func TestAddBlockedWindowRejectsEndBeforeStart(t *testing.T) {
	p := New()
	err := p.AddBlockedWindow(BlockedWindow{Label: "bad", Days: []string{"monday"}, Start: "13:00", End: "12:00"})
	if err == nil {
		t.Fatal("expected error for end <= start")
	}
}

func TestActiveWindowsFiltersExpired(t *testing.T) {
	p := New()
	_ = p.AddBlockedWindow(BlockedWindow{Label: "expired", Days: []string{"monday"}, Start: "09:00", End: "10:00", Until: "2026-01-01"})
	_ = p.AddBlockedWindow(BlockedWindow{Label: "active", Days: []string{"monday"}, Start: "09:00", End: "10:00", Until: "2026-12-31"})
	_ = p.AddBlockedWindow(BlockedWindow{Label: "other-day", Days: []string{"tuesday"}, Start: "09:00", End: "10:00"})

	today, _ := time.Parse("2006-01-02", "2026-06-01")
	active := p.ActiveWindows("monday", today)
	if len(active) != 1 || active[0].Label != "active" {
		t.Errorf("active windows = %+v, want only 'active'", active)
	}
}
