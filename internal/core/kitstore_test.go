package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

func TestKitStore_CreateDefaults(t *testing.T) {
	store := newTestStore()

	kit, err := store.Create(CreateKitRequest{Company: " Acme ", Position: "Engineer"})
	require.NoError(t, err)

	assert.Equal(t, "kit-0001", kit.ID)
	assert.Equal(t, "Acme", kit.Company)
	assert.Equal(t, models.StatusSaved, kit.Status)
	assert.Equal(t, models.PriorityMedium, kit.Priority)
	assert.Equal(t, CatalogTypes(), PendingItems(kit))
	assert.Empty(t, CompletedItems(kit))
	assert.Equal(t, 0, ComputeProgress(kit))
	assert.Equal(t, kit.Created, kit.LastUpdated)
}

func TestKitStore_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateKitRequest
		wantMsg string
	}{
		{"missing company", CreateKitRequest{Position: "Engineer"}, "company must not be empty"},
		{"blank position", CreateKitRequest{Company: "Acme", Position: "   "}, "position must not be empty"},
		{"skill match too high", CreateKitRequest{Company: "Acme", Position: "Eng", SkillMatch: 101}, "skill_match must be at most 100"},
		{"negative skill match", CreateKitRequest{Company: "Acme", Position: "Eng", SkillMatch: -1}, "skill_match must be at least 0"},
		{"bad priority", CreateKitRequest{Company: "Acme", Position: "Eng", Priority: "urgent"}, "priority must be one of: high, medium, low"},
		{"bad url", CreateKitRequest{Company: "Acme", Position: "Eng", JobURL: "not a url"}, "job_url must be a valid URL"},
		{"unknown item", CreateKitRequest{Company: "Acme", Position: "Eng", Items: []models.KitItemType{"portfolio"}}, "unknown item type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			_, err := store.Create(tt.req)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Empty(t, store.List())
		})
	}
}

func TestKitStore_CreateWithItemSubset(t *testing.T) {
	store := newTestStore()

	kit, err := store.Create(CreateKitRequest{
		Company:  "Acme",
		Position: "Engineer",
		Items:    []models.KitItemType{models.ItemReferral, models.ItemResume},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.KitItemType{models.ItemResume, models.ItemReferral}, PendingItems(kit))

	empty, err := store.Create(CreateKitRequest{Company: "Beta", Position: "PM", Items: []models.KitItemType{}})
	require.NoError(t, err)
	assert.Equal(t, 100, ComputeProgress(empty))
}

func TestKitStore_SetItemRecomputesProgress(t *testing.T) {
	store := newTestStore()
	kit, err := store.Create(CreateKitRequest{Company: "Acme", Position: "Engineer"})
	require.NoError(t, err)

	kit, err = store.SetItem(kit.ID, models.ItemResume, true)
	require.NoError(t, err)
	assert.Equal(t, 25, ComputeProgress(kit))

	kit, err = store.SetItem(kit.ID, models.ItemResume, false)
	require.NoError(t, err)
	assert.Equal(t, 0, ComputeProgress(kit))

	_, err = store.SetItem("missing", models.ItemResume, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKitStore_SetItemNotTracked(t *testing.T) {
	store := newTestStore()
	kit, err := store.Create(CreateKitRequest{Company: "Acme", Position: "Eng", Items: []models.KitItemType{models.ItemResume}})
	require.NoError(t, err)

	_, err = store.SetItem(kit.ID, models.ItemCoverVideo, true)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestKitStore_UpdateIsAllOrNothing(t *testing.T) {
	store := newTestStore()
	kit, err := store.Create(CreateKitRequest{Company: "Acme", Position: "Engineer"})
	require.NoError(t, err)

	company := "Acme Corp"
	to := models.StatusDecision
	_, err = store.Update(kit.ID, KitPatch{
		Company: &company,
		Items:   map[models.KitItemType]bool{models.ItemResume: true},
		Status:  &to,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)

	got, err := store.Get(kit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, 0, ComputeProgress(got))
	assert.Equal(t, models.StatusSaved, got.Status)
	assert.Equal(t, kit.LastUpdated, got.LastUpdated)
}

func TestKitStore_UpdateFields(t *testing.T) {
	store := newTestStore()
	kit, err := store.Create(CreateKitRequest{Company: "Acme", Position: "Engineer", Deadline: datePtr(2026, 4, 1)})
	require.NoError(t, err)

	skill := 88
	high := models.PriorityHigh
	notes := "met the hiring manager"
	updated, err := store.Update(kit.ID, KitPatch{
		SkillMatch:    &skill,
		Priority:      &high,
		Notes:         &notes,
		ClearDeadline: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 88, updated.SkillMatch)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, notes, updated.Notes)
	assert.Nil(t, updated.Deadline)
	assert.True(t, updated.LastUpdated.After(kit.LastUpdated))

	bad := 150
	_, err = store.Update(kit.ID, KitPatch{SkillMatch: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	blank := " "
	_, err = store.Update(kit.ID, KitPatch{Company: &blank})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestKitStore_ReturnedKitsAreCopies(t *testing.T) {
	store := newTestStore()
	kit, err := store.Create(CreateKitRequest{Company: "Acme", Position: "Engineer"})
	require.NoError(t, err)

	kit.Company = "Hacked"
	kit.Items[0].Completed = true

	got, err := store.Get(kit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, 0, ComputeProgress(got))
}

func TestKitStore_DeleteAndOrder(t *testing.T) {
	store := newTestStore()
	for _, c := range []string{"A", "B", "C"} {
		_, err := store.Create(CreateKitRequest{Company: c, Position: "Eng"})
		require.NoError(t, err)
	}

	require.NoError(t, store.Delete("kit-0002"))
	assert.ErrorIs(t, store.Delete("kit-0002"), ErrNotFound)

	var companies []string
	for _, k := range store.List() {
		companies = append(companies, k.Company)
	}
	assert.Equal(t, []string{"A", "C"}, companies)

	_, err := store.Get("kit-0002")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKitStore_Resolve(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}
	i := 0
	store := NewKitStore(WithIDGenerator(func() string { id := ids[i]; i++; return id }))
	for range ids {
		_, err := store.Create(CreateKitRequest{Company: "A", Position: "Eng"})
		require.NoError(t, err)
	}

	id, err := store.Resolve("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	id, err = store.Resolve("xyz789")
	require.NoError(t, err)
	assert.Equal(t, "xyz789", id)

	_, err = store.Resolve("ab")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = store.Resolve("q")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Resolve("")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestKitStore_Restore(t *testing.T) {
	store := newTestStore()

	err := store.Restore([]models.ApplicationKit{
		{ID: "b", Company: "B", Position: "Eng", Status: models.StatusApplied, Items: []models.KitItem{
			{Type: models.ItemReferral, Completed: true},
			{Type: models.ItemResume},
		}},
		{ID: "a", Company: "A", Position: "Eng", Status: models.StatusSaved},
	})
	require.NoError(t, err)

	kits := store.List()
	require.Len(t, kits, 2)
	assert.Equal(t, "b", kits[0].ID)
	assert.Equal(t, []models.KitItemType{models.ItemResume, models.ItemReferral}, []models.KitItemType{kits[0].Items[0].Type, kits[0].Items[1].Type})
	assert.Equal(t, models.PriorityMedium, kits[1].Priority)

	err = store.Restore([]models.ApplicationKit{{ID: "x", Status: "hired"}})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, store.List(), 2, "failed restore leaves contents in place")

	err = store.Restore([]models.ApplicationKit{{ID: "x", Status: models.StatusSaved}, {ID: "x", Status: models.StatusSaved}})
	assert.ErrorIs(t, err, ErrValidation)
}
