package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

func newTestStateManager(t *testing.T) StateManager {
	t.Helper()
	return NewStateManager(filepath.Join(t.TempDir(), "data", "kits.yaml"))
}

func sampleState() *StateFile {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	return &StateFile{
		Kits: []models.ApplicationKit{
			{
				ID: "zzz", Company: "Acme", Position: "Engineer", SkillMatch: 80,
				Status: models.StatusApplied, Priority: models.PriorityHigh,
				Items: []models.KitItem{
					{Type: models.ItemResume, Completed: true},
					{Type: models.ItemReferral},
				},
				Deadline: &deadline, Created: created, LastUpdated: created,
			},
			{
				ID: "aaa", Company: "Globex", Position: "Analyst",
				Status: models.StatusSaved, Priority: models.PriorityLow,
				Items: []models.KitItem{}, Created: created, LastUpdated: created,
			},
		},
		Tasks: []models.NextStepTask{
			{ID: "t2", Description: "Find Referral for Acme, Berlin.", ActionLabel: "Search for Referral", Priority: models.PriorityHigh, KitID: "zzz", Created: created},
			{ID: "t1", Description: "Send follow-up", Priority: models.PriorityMedium, Completed: true, Created: created},
		},
	}
}

func TestStateManager_LoadMissingFile(t *testing.T) {
	mgr := newTestStateManager(t)

	state, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, state.Version)
	assert.NotNil(t, state.Kits)
	assert.Empty(t, state.Kits)
	assert.Empty(t, state.Tasks)
}

func TestStateManager_SaveLoadPreservesOrder(t *testing.T) {
	mgr := newTestStateManager(t)
	want := sampleState()

	require.NoError(t, mgr.Save(want))

	got, err := mgr.Load()
	require.NoError(t, err)
	require.Len(t, got.Kits, 2)
	assert.Equal(t, "zzz", got.Kits[0].ID)
	assert.Equal(t, "aaa", got.Kits[1].ID)
	assert.Equal(t, want.Kits[0].Items, got.Kits[0].Items)
	require.NotNil(t, got.Kits[0].Deadline)
	assert.True(t, want.Kits[0].Deadline.Equal(*got.Kits[0].Deadline))
	assert.Nil(t, got.Kits[1].Deadline)

	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "t2", got.Tasks[0].ID)
	assert.Equal(t, "zzz", got.Tasks[0].KitID)
	assert.True(t, got.Tasks[1].Completed)
}

func TestStateManager_SaveWritesVersionAndNoTempFiles(t *testing.T) {
	mgr := newTestStateManager(t)
	require.NoError(t, mgr.Save(&StateFile{Version: "0.1"}))

	data, err := os.ReadFile(mgr.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `version: "1.0"`)

	entries, err := os.ReadDir(filepath.Dir(mgr.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestStateManager_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "kits: [unclosed\n", "parsing YAML"},
		{"future version", "version: \"9.0\"\nkits: []\n", "unsupported version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "kits.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := NewStateManager(path).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStateManager_SaveNil(t *testing.T) {
	assert.Error(t, newTestStateManager(t).Save(nil))
}
