package domain

import (
	"reflect"
	"testing"
)

func board() []Task {
	return []Task{
		{ID: "a", Title: "Book opener", Status: StatusTodo, Position: 0},
		{ID: "b", Title: "Print riders", Status: StatusTodo, Position: 1},
		{ID: "c", Title: "Confirm caterer", Status: StatusTodo, Position: 2},
		{ID: "x", Title: "Settle invoices", Status: StatusDone, Position: 0},
		{ID: "y", Title: "Archive contracts", Status: StatusDone, Position: 5},
	}
}

func columnIDs(tasks []Task, status Status) []string {
	col := ProjectColumn(tasks, status)
	ids := make([]string, len(col))
	for i, t := range col {
		ids[i] = t.ID
	}
	return ids
}

// apply commits a plan to an in-memory copy of the board, the way the
// storage layer would.
func apply(tasks []Task, drag DragResult) []Task {
	plan := PlanReorder(tasks, drag)
	out := append([]Task(nil), tasks...)
	for _, u := range plan.Reindex {
		for i := range out {
			if out[i].ID == u.ID {
				out[i].Position = u.Position
			}
		}
	}
	if plan.Move != nil {
		for i := range out {
			if out[i].ID == plan.Move.ID {
				out[i].Status = plan.Move.Status
				out[i].Position = plan.Move.Position
			}
		}
	}
	return out
}

func TestPlanReorderNoOp(t *testing.T) {
	plan := PlanReorder(board(), DragResult{
		TaskID:            "b",
		SourceStatus:      StatusTodo,
		SourceIndex:       1,
		DestinationStatus: StatusTodo,
		DestinationIndex:  1,
	})
	if !plan.NoOp() {
		t.Fatalf("expected no-op plan, got %#v", plan)
	}
}

func TestPlanReorderSameColumnRenumbers(t *testing.T) {
	tasks := board()
	plan := PlanReorder(tasks, DragResult{
		TaskID:            "b",
		SourceStatus:      StatusTodo,
		SourceIndex:       1,
		DestinationStatus: StatusTodo,
		DestinationIndex:  0,
	})
	want := []PositionUpdate{{ID: "b", Position: 0}, {ID: "a", Position: 1}, {ID: "c", Position: 2}}
	if !reflect.DeepEqual(plan.Reindex, want) {
		t.Fatalf("unexpected reindex batch: %#v", plan.Reindex)
	}
	if plan.Move != nil {
		t.Fatalf("same-column drag must not produce a move: %#v", plan.Move)
	}

	after := apply(tasks, DragResult{TaskID: "b", SourceStatus: StatusTodo, SourceIndex: 1, DestinationStatus: StatusTodo, DestinationIndex: 0})
	if got := columnIDs(after, StatusTodo); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected column order after reorder: %v", got)
	}
}

func TestPlanReorderSameColumnSequence(t *testing.T) {
	tasks := board()
	moves := []struct {
		id       string
		from, to int
		want     []string
	}{
		{"c", 2, 0, []string{"c", "a", "b"}},
		{"a", 1, 2, []string{"c", "b", "a"}},
		{"b", 1, 1, []string{"c", "b", "a"}},
	}
	for _, m := range moves {
		tasks = apply(tasks, DragResult{
			TaskID:            m.id,
			SourceStatus:      StatusTodo,
			SourceIndex:       m.from,
			DestinationStatus: StatusTodo,
			DestinationIndex:  m.to,
		})
		if got := columnIDs(tasks, StatusTodo); !reflect.DeepEqual(got, m.want) {
			t.Fatalf("after moving %s to %d: got %v, want %v", m.id, m.to, got, m.want)
		}
	}
}

func TestPlanReorderCrossColumnTop(t *testing.T) {
	plan := PlanReorder(board(), DragResult{
		TaskID:            "a",
		SourceStatus:      StatusTodo,
		SourceIndex:       0,
		DestinationStatus: StatusDone,
		DestinationIndex:  0,
	})
	if plan.Move == nil {
		t.Fatalf("expected a move plan, got %#v", plan)
	}
	if plan.Move.Status != StatusDone || plan.Move.Position != 0 {
		t.Fatalf("unexpected move: %#v", plan.Move)
	}
	if plan.Reindex != nil {
		t.Fatalf("cross-column move must not renumber the destination: %#v", plan.Reindex)
	}
}

func TestPlanReorderCrossColumnBottomIsMonotonic(t *testing.T) {
	// done column is [x(0), y(5)]; appending must exceed the previous max.
	plan := PlanReorder(board(), DragResult{
		TaskID:            "b",
		SourceStatus:      StatusTodo,
		SourceIndex:       1,
		DestinationStatus: StatusDone,
		DestinationIndex:  2,
	})
	if plan.Move == nil || plan.Move.Position != 6 {
		t.Fatalf("expected append position 6, got %#v", plan.Move)
	}
}

func TestPlanReorderCrossColumnMiddle(t *testing.T) {
	plan := PlanReorder(board(), DragResult{
		TaskID:            "a",
		SourceStatus:      StatusTodo,
		SourceIndex:       0,
		DestinationStatus: StatusDone,
		DestinationIndex:  1,
	})
	// Between x(0) and y(5): predecessor position + 1.
	if plan.Move == nil || plan.Move.Position != 1 {
		t.Fatalf("expected position 1, got %#v", plan.Move)
	}
}

func TestPlanReorderIntoEmptyColumn(t *testing.T) {
	tasks := []Task{{ID: "a", Status: StatusTodo, Position: 0}}
	after := apply(tasks, DragResult{
		TaskID:            "a",
		SourceStatus:      StatusTodo,
		SourceIndex:       0,
		DestinationStatus: StatusInProgress,
		DestinationIndex:  0,
	})
	inProgress := ProjectColumn(after, StatusInProgress)
	if len(inProgress) != 1 || inProgress[0].ID != "a" || inProgress[0].Position != 0 {
		t.Fatalf("unexpected destination column: %#v", inProgress)
	}
	if todo := ProjectColumn(after, StatusTodo); len(todo) != 0 {
		t.Fatalf("source column should be empty, got %#v", todo)
	}
}

func TestPlanReorderCrossColumnPlacesTaskAtIndex(t *testing.T) {
	tasks := board()
	after := apply(tasks, DragResult{
		TaskID:            "c",
		SourceStatus:      StatusTodo,
		SourceIndex:       2,
		DestinationStatus: StatusDone,
		DestinationIndex:  1,
	})
	if got := columnIDs(after, StatusDone); !reflect.DeepEqual(got, []string{"x", "c", "y"}) {
		t.Fatalf("unexpected destination order: %v", got)
	}
	if got := columnIDs(after, StatusTodo); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected source order: %v", got)
	}
}

func TestPlanReorderClampsOutOfRangeIndex(t *testing.T) {
	plan := PlanReorder(board(), DragResult{
		TaskID:            "a",
		SourceStatus:      StatusTodo,
		SourceIndex:       0,
		DestinationStatus: StatusDone,
		DestinationIndex:  99,
	})
	if plan.Move == nil || plan.Move.Position != 6 {
		t.Fatalf("out-of-range index should clamp to append, got %#v", plan.Move)
	}
}

func TestPlanReorderUnknownTaskIsNoOp(t *testing.T) {
	plan := PlanReorder(board(), DragResult{
		TaskID:            "ghost",
		SourceStatus:      StatusTodo,
		SourceIndex:       0,
		DestinationStatus: StatusDone,
		DestinationIndex:  0,
	})
	if !plan.NoOp() {
		t.Fatalf("stale drag should plan nothing, got %#v", plan)
	}
}
