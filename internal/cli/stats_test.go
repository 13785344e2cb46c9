package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

func TestStatsCmd_Table(t *testing.T) {
	tr := newTestTracker(t, nil)
	useTracker(t, tr)
	mustCreateKit(t, tr, "Acme", "Backend Engineer")
	mustCreateKit(t, tr, "Globex", "Data Analyst")
	if _, err := tr.TransitionStatus("kit-0002", models.StatusApplied); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if _, err := tr.AddTask(core.NewTaskRequest{Description: "Follow up"}); err != nil {
		t.Fatalf("adding task: %v", err)
	}

	out := captureStdout(t, func() {
		if err := statsCmd.RunE(statsCmd, nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	for _, want := range []string{"Kits: 2", "Saved:", "Applied:", "70.0%", "Pending tasks:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsCmd_JSON(t *testing.T) {
	tr := newTestTracker(t, nil)
	useTracker(t, tr)
	mustCreateKit(t, tr, "Acme", "Backend Engineer")
	statsJSON = true
	defer func() { statsJSON = false }()

	out := captureStdout(t, func() {
		if err := statsCmd.RunE(statsCmd, nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	var snap core.StatsSnapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if snap.TotalKits != 1 {
		t.Errorf("expected 1 kit, got %d", snap.TotalKits)
	}
}

func TestStatsCmd_NilTracker(t *testing.T) {
	useTracker(t, nil)

	if err := statsCmd.RunE(statsCmd, nil); err == nil {
		t.Fatal("expected error when tracker is nil")
	}
}

func TestWhoamiCmd(t *testing.T) {
	useTracker(t, newTestTracker(t, nil))

	out := captureStdout(t, func() {
		if err := whoamiCmd.RunE(whoamiCmd, nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "Sam Doe <sam@example.com>") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestWhoamiCmd_NoProfile(t *testing.T) {
	useTracker(t, core.NewTracker(core.TrackerDeps{}))

	out := captureStdout(t, func() {
		if err := whoamiCmd.RunE(whoamiCmd, nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "No profile configured") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
