package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

const (
	dateLayout = "2006-01-02"
	shortIDLen = 8
)

// shortID trims an id to the prefix shown in listings. Any unique prefix is
// accepted back by the commands.
func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// parseDate parses a YYYY-MM-DD date as midnight UTC. An empty string yields nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func progressBar(pct, width int) string {
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// itemSummary renders a kit's items as "Resume ✓, Referral ·".
func itemSummary(kit *models.ApplicationKit) string {
	parts := make([]string, 0, len(kit.Items))
	for _, it := range kit.Items {
		mark := "·"
		if it.Completed {
			mark = "✓"
		}
		parts = append(parts, fmt.Sprintf("%s %s", core.ItemLabel(it.Type), mark))
	}
	if len(parts) == 0 {
		return "(no items)"
	}
	return strings.Join(parts, ", ")
}

func resolveKit(prefix string) (string, error) {
	id, err := Tracker.ResolveKitID(prefix)
	if err != nil {
		return "", fmt.Errorf("resolving kit %q: %w", prefix, err)
	}
	return id, nil
}

func resolveTask(prefix string) (string, error) {
	id, err := Tracker.ResolveTaskID(prefix)
	if err != nil {
		return "", fmt.Errorf("resolving task %q: %w", prefix, err)
	}
	return id, nil
}

func requireTracker() error {
	if Tracker == nil {
		return fmt.Errorf("tracker not initialized")
	}
	return nil
}

// commandContext returns the command's context, or Background when the
// command is invoked directly in tests.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
