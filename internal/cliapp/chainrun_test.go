package cliapp

import (
	"testing"

	"github.com/dpinto-lab/chrono/internal/command"
)

func TestDescribeChainCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  command.Command
		want string
	}{
		{
			name: "solved schedule",
			cmd: command.Command{
				Intent:   command.Schedule,
				Activity: "gym",
				Dates:    []string{"2026-02-18"},
				Time:     "06:00",
				Duration: 60,
			},
			want: "schedule 'gym' on 2026-02-18 at 06:00 (60 min)",
		},
		{
			name: "unsolved schedule defaults to today",
			cmd: command.Command{
				Intent:   command.Schedule,
				Activity: "study",
			},
			want: "schedule 'study' on today (solver picks the time)",
		},
		{
			name: "custom label wins over activity",
			cmd: command.Command{
				Intent:   command.Schedule,
				Activity: "workout",
				Label:    "Morning Workout",
				Dates:    []string{"2026-02-18"},
				Time:     "07:00",
			},
			want: "schedule 'Morning Workout' on 2026-02-18 at 07:00",
		},
		{
			name: "non-schedule command",
			cmd: command.Command{
				Intent:   command.Delete,
				Activity: "gym",
			},
			want: "delete gym",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeChainCommand(tt.cmd); got != tt.want {
				t.Errorf("describeChainCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{30, "30 min"},
		{60, "1 h"},
		{90, "1 h 30 min"},
		{150, "2 h 30 min"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.minutes); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
