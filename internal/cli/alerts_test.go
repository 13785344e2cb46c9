package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/jobkit/internal/observability"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

type alertsMock struct {
	evaluateFn func(kits []*models.ApplicationKit, tasks []*models.NextStepTask) []observability.Alert
}

func (m *alertsMock) Evaluate(kits []*models.ApplicationKit, tasks []*models.NextStepTask) []observability.Alert {
	return m.evaluateFn(kits, tasks)
}

type notifierMock struct {
	notifyFn func(alerts []observability.Alert) error
}

func (m *notifierMock) Notify(_ context.Context, alerts []observability.Alert) error {
	return m.notifyFn(alerts)
}

func useAlerts(t *testing.T, engine observability.AlertEngine, notifier observability.Notifier, notify bool) {
	t.Helper()
	origEngine := AlertEngine
	origNotifier := Notifier
	origNotify := alertsNotify
	AlertEngine = engine
	Notifier = notifier
	alertsNotify = notify
	t.Cleanup(func() {
		AlertEngine = origEngine
		Notifier = origNotifier
		alertsNotify = origNotify
	})
}

func sampleAlerts() []observability.Alert {
	return []observability.Alert{
		{
			ID:          "kit_overdue:kit-0001",
			Condition:   "kit_overdue",
			Severity:    observability.SeverityHigh,
			Message:     "Acme deadline passed",
			TriggeredAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestAlertsCmd_NilEngine(t *testing.T) {
	useTracker(t, newTestTracker(t, nil))
	useAlerts(t, nil, nil, false)

	err := alertsCmd.RunE(alertsCmd, []string{})
	if err == nil {
		t.Fatal("expected error when AlertEngine is nil")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAlertsCmd_NoAlerts(t *testing.T) {
	useTracker(t, newTestTracker(t, nil))
	useAlerts(t, &alertsMock{
		evaluateFn: func(_ []*models.ApplicationKit, _ []*models.NextStepTask) []observability.Alert {
			return nil
		},
	}, nil, false)

	out := captureStdout(t, func() {
		if err := alertsCmd.RunE(alertsCmd, []string{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "No active alerts.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestAlertsCmd_WithAlerts(t *testing.T) {
	tr := newTestTracker(t, nil)
	useTracker(t, tr)
	mustCreateKit(t, tr, "Acme", "Backend Engineer")

	var seenKits int
	useAlerts(t, &alertsMock{
		evaluateFn: func(kits []*models.ApplicationKit, _ []*models.NextStepTask) []observability.Alert {
			seenKits = len(kits)
			return sampleAlerts()
		},
	}, nil, false)

	out := captureStdout(t, func() {
		if err := alertsCmd.RunE(alertsCmd, []string{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	if seenKits != 1 {
		t.Errorf("expected the engine to see 1 kit, saw %d", seenKits)
	}
	if !strings.Contains(out, "[HIGH] Acme deadline passed") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestAlertsCmd_NotifyWithoutNotifier(t *testing.T) {
	useTracker(t, newTestTracker(t, nil))
	useAlerts(t, &alertsMock{
		evaluateFn: func(_ []*models.ApplicationKit, _ []*models.NextStepTask) []observability.Alert {
			return sampleAlerts()
		},
	}, nil, true)

	var err error
	captureStdout(t, func() {
		err = alertsCmd.RunE(alertsCmd, []string{})
	})
	if err == nil || !strings.Contains(err.Error(), "notifier not configured") {
		t.Errorf("expected notifier error, got %v", err)
	}
}

func TestAlertsCmd_NotifySends(t *testing.T) {
	useTracker(t, newTestTracker(t, nil))
	var sent []observability.Alert
	useAlerts(t, &alertsMock{
		evaluateFn: func(_ []*models.ApplicationKit, _ []*models.NextStepTask) []observability.Alert {
			return sampleAlerts()
		},
	}, &notifierMock{
		notifyFn: func(alerts []observability.Alert) error {
			sent = alerts
			return nil
		},
	}, true)

	out := captureStdout(t, func() {
		if err := alertsCmd.RunE(alertsCmd, []string{}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	if len(sent) != 1 {
		t.Errorf("expected 1 alert to be sent, got %d", len(sent))
	}
	if !strings.Contains(out, "Notification sent.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestAlertsCmd_NotifyError(t *testing.T) {
	useTracker(t, newTestTracker(t, nil))
	useAlerts(t, &alertsMock{
		evaluateFn: func(_ []*models.ApplicationKit, _ []*models.NextStepTask) []observability.Alert {
			return sampleAlerts()
		},
	}, &notifierMock{
		notifyFn: func(_ []observability.Alert) error {
			return fmt.Errorf("webhook returned 500")
		},
	}, true)

	var err error
	captureStdout(t, func() {
		err = alertsCmd.RunE(alertsCmd, []string{})
	})
	if err == nil || !strings.Contains(err.Error(), "sending notification") {
		t.Errorf("expected notification error, got %v", err)
	}
}
