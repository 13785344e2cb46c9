package core

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/jobkit/pkg/models"
	"pgregory.net/rapid"
)

func kitStatusGenerator() *rapid.Generator[models.KitStatus] {
	return rapid.SampledFrom(models.AllStatuses)
}

func itemTypeGenerator() *rapid.Generator[models.KitItemType] {
	return rapid.SampledFrom(CatalogTypes())
}

func kitGenerator() *rapid.Generator[*models.ApplicationKit] {
	return rapid.Custom(func(t *rapid.T) *models.ApplicationKit {
		return &models.ApplicationKit{
			ID:       rapid.StringMatching(`[a-f0-9]{8}`).Draw(t, "id"),
			Company:  rapid.SampledFrom([]string{"Acme", "Globex", "Initech", "Umbrella"}).Draw(t, "company"),
			Position: rapid.SampledFrom([]string{"Engineer", "Designer", "Analyst"}).Draw(t, "position"),
			Status:   kitStatusGenerator().Draw(t, "status"),
		}
	})
}

// Feature: jobkit, Property 1: Item Partition
// For any sequence of item mutations on a kit, the completed and pending
// items SHALL be disjoint and together cover every tracked item, and
// progress SHALL equal round-half-up(100 * completed / total).
func TestProperty_ItemPartitionAndProgress(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := NewKitStore()
		kit, err := store.Create(CreateKitRequest{Company: "Acme", Position: "Engineer"})
		if err != nil {
			rt.Fatalf("Create failed: %v", err)
		}

		steps := rapid.IntRange(0, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			item := itemTypeGenerator().Draw(rt, "item")
			done := rapid.Bool().Draw(rt, "done")
			if kit, err = store.SetItem(kit.ID, item, done); err != nil {
				rt.Fatalf("SetItem failed: %v", err)
			}

			completed := CompletedItems(kit)
			pending := PendingItems(kit)
			seen := make(map[models.KitItemType]int)
			for _, it := range completed {
				seen[it]++
			}
			for _, it := range pending {
				seen[it]++
			}
			if len(seen) != len(catalog) {
				rt.Fatalf("union covers %d items, want %d", len(seen), len(catalog))
			}
			for it, n := range seen {
				if n != 1 {
					rt.Fatalf("item %s appears %d times across completed and pending", it, n)
				}
			}

			want := (200*len(completed) + len(catalog)) / (2 * len(catalog))
			if got := ComputeProgress(kit); got != want {
				rt.Fatalf("progress = %d, want %d", got, want)
			}
			if ComputeProgress(kit) != ComputeProgress(kit) {
				rt.Fatal("progress is not idempotent")
			}
		}
	})
}

// Feature: jobkit, Property 2: Pipeline Transitions
// For any status pair, a transition SHALL succeed iff the target is Archived
// or the forward successor and the source is not Archived; failures SHALL
// leave the kit unchanged.
func TestProperty_PipelineTransitions(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		from := kitStatusGenerator().Draw(rt, "from")
		to := kitStatusGenerator().Draw(rt, "to")
		kit := &models.ApplicationKit{ID: "k", Status: from, LastUpdated: testStart}

		next, hasNext := NextStatus(from)
		wantOK := from != models.StatusArchived &&
			(to == models.StatusArchived || (hasNext && next == to))

		err := Transition(kit, to, fixedClock(testStart))
		if wantOK {
			if err != nil {
				rt.Fatalf("%s -> %s should succeed: %v", from, to, err)
			}
			if kit.Status != to {
				rt.Fatalf("status = %s, want %s", kit.Status, to)
			}
			return
		}
		if err == nil {
			rt.Fatalf("%s -> %s should fail", from, to)
		}
		if kit.Status != from || !kit.LastUpdated.Equal(testStart) {
			rt.Fatalf("failed transition modified kit: %+v", kit)
		}
	})
}

// Feature: jobkit, Property 3: Task Toggle Involution
// For any task, toggling completion twice SHALL restore its original value.
func TestProperty_TaskToggleInvolution(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		engine := NewTaskEngine()
		task, err := engine.AddTask(NewTaskRequest{
			Description: rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,20}`).Draw(rt, "desc"),
			Priority:    rapid.SampledFrom([]models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow}).Draw(rt, "priority"),
		})
		if err != nil {
			rt.Fatalf("AddTask failed: %v", err)
		}
		if rapid.Bool().Draw(rt, "pretoggle") {
			if task, err = engine.ToggleComplete(task.ID); err != nil {
				rt.Fatalf("ToggleComplete failed: %v", err)
			}
		}
		original := task.Completed

		if _, err := engine.ToggleComplete(task.ID); err != nil {
			rt.Fatalf("ToggleComplete failed: %v", err)
		}
		again, err := engine.ToggleComplete(task.ID)
		if err != nil {
			rt.Fatalf("ToggleComplete failed: %v", err)
		}
		if again.Completed != original {
			rt.Fatalf("completed = %v after two toggles, want %v", again.Completed, original)
		}
	})
}

// Feature: jobkit, Property 4: Filter Subsequence
// For any kits, tab and query, filtering with an empty query SHALL return
// exactly the kits in the tab in original order, and any query SHALL return
// a subsequence of that result.
func TestProperty_FilterSubsequence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kits := rapid.SliceOfN(kitGenerator(), 0, 15).Draw(rt, "kits")
		tab := kitStatusGenerator().Draw(rt, "tab")
		query := rapid.SampledFrom([]string{"", "ac", "ENG", "x", "lobe", "an"}).Draw(rt, "query")

		all := FilterKits(kits, tab, "")
		var want []*models.ApplicationKit
		for _, k := range kits {
			if k.Status == tab {
				want = append(want, k)
			}
		}
		if len(all) != len(want) {
			rt.Fatalf("empty query returned %d kits, want %d", len(all), len(want))
		}
		for i := range want {
			if all[i] != want[i] {
				rt.Fatalf("position %d: order not preserved", i)
			}
		}

		filtered := FilterKits(kits, tab, query)
		j := 0
		for _, k := range filtered {
			for j < len(all) && all[j] != k {
				j++
			}
			if j == len(all) {
				rt.Fatalf("kit %s is not an ordered member of the tab", k.ID)
			}
			q := strings.ToLower(query)
			if !strings.Contains(strings.ToLower(k.Company), q) && !strings.Contains(strings.ToLower(k.Position), q) {
				rt.Fatalf("kit %s/%s does not match %q", k.Company, k.Position, query)
			}
			j++
		}
	})
}

// Feature: jobkit, Property 5: Bulk Result Partition
// For any ids, a bulk action SHALL report every distinct id exactly once,
// either as succeeded or failed, and SHALL clear the selection afterwards.
func TestProperty_BulkResultPartition(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store := NewKitStore(WithIDGenerator(seqIDs("kit")))
		n := rapid.IntRange(1, 8).Draw(rt, "kits")
		for i := 0; i < n; i++ {
			if _, err := store.Create(CreateKitRequest{Company: "Acme", Position: "Engineer"}); err != nil {
				rt.Fatalf("Create failed: %v", err)
			}
		}
		sel := NewSelection(store.List())
		sel.SelectAll()

		for _, id := range sel.IDs() {
			if rapid.Bool().Draw(rt, "deleteFirst") {
				if err := store.Delete(id); err != nil {
					rt.Fatalf("Delete failed: %v", err)
				}
			}
		}
		selected := sel.IDs()
		action := rapid.SampledFrom([]BulkAction{BulkArchive, BulkDelete}).Draw(rt, "action")

		result, err := NewBulkProcessor(store).ApplySelection(action, sel)
		if err != nil {
			rt.Fatalf("ApplySelection failed: %v", err)
		}
		if sel.Len() != 0 {
			rt.Fatalf("selection not cleared: %v", sel.IDs())
		}
		if len(result.Succeeded)+len(result.Failed) != len(selected) {
			rt.Fatalf("result covers %d ids, want %d", len(result.Succeeded)+len(result.Failed), len(selected))
		}
		seen := make(map[string]bool)
		for _, id := range append(append([]string{}, result.Succeeded...), result.FailedIDs()...) {
			if seen[id] {
				rt.Fatalf("id %s reported twice", id)
			}
			seen[id] = true
		}
	})
}

func TestBulkArchive_SelectionWithDeletedKit(t *testing.T) {
	store := newTestStore()
	for _, c := range []string{"A", "B", "C"} {
		if _, err := store.Create(CreateKitRequest{Company: c, Position: "Eng"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	sel := NewSelection(store.List())
	sel.SelectAll()
	if err := store.Delete("kit-0002"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	result, err := NewBulkProcessor(store).ApplySelection(BulkArchive, sel)
	if err != nil {
		t.Fatalf("ApplySelection failed: %v", err)
	}
	if len(result.Succeeded) != 2 {
		t.Errorf("succeeded = %v, want 2 ids", result.Succeeded)
	}
	if got := result.FailedIDs(); len(got) != 1 || got[0] != "kit-0002" {
		t.Errorf("failed = %v, want [kit-0002]", got)
	}
	if sel.Len() != 0 {
		t.Errorf("selection has %d ids, want 0", sel.Len())
	}
}
