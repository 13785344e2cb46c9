package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

// captureStdout runs fn and returns everything it wrote to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = origStdout

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading pipe: %v", err)
	}
	return string(out)
}

func seqIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%04d", prefix, n)
	}
}

// newTestTracker returns an in-memory tracker with deterministic ids
// (kit-0001, task-0001, ...).
func newTestTracker(t *testing.T, nav core.Navigator) core.Tracker {
	t.Helper()
	clock := func() time.Time { return time.Now().UTC() }
	routes, err := core.NewRouteTable(nil)
	if err != nil {
		t.Fatalf("building routes: %v", err)
	}
	return core.NewTracker(core.TrackerDeps{
		Kits:      core.NewKitStore(core.WithClock(clock), core.WithIDGenerator(seqIDs("kit"))),
		Tasks:     core.NewTaskEngine(core.WithClock(clock), core.WithIDGenerator(seqIDs("task"))),
		Navigator: nav,
		Routes:    routes,
		Profile:   core.StaticProfile{DisplayName: "Sam Doe", Email: "sam@example.com"},
		Now:       clock,
	})
}

// useTracker installs tr as the package Tracker for the duration of the test.
func useTracker(t *testing.T, tr core.Tracker) {
	t.Helper()
	orig := Tracker
	origCfg := Config
	Tracker = tr
	Config = nil
	t.Cleanup(func() {
		Tracker = orig
		Config = origCfg
	})
}

func mustCreateKit(t *testing.T, tr core.Tracker, company, position string) *models.ApplicationKit {
	t.Helper()
	kit, err := tr.CreateKit(core.CreateKitRequest{Company: company, Position: position, SkillMatch: 70})
	if err != nil {
		t.Fatalf("creating kit %s: %v", company, err)
	}
	return kit
}

// setFlags sets flags on cmd and resets them to their defaults when the
// test ends, so Changed() does not leak between tests.
func setFlags(t *testing.T, cmd *cobra.Command, kv map[string]string) {
	t.Helper()
	for name, v := range kv {
		if err := cmd.Flags().Set(name, v); err != nil {
			t.Fatalf("setting --%s: %v", name, err)
		}
	}
	t.Cleanup(func() {
		for name := range kv {
			f := cmd.Flags().Lookup(name)
			if f.Value.Type() != "stringSlice" {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		}
	})
}
