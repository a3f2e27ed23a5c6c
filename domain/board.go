package domain

// DragResult describes the outcome of a drag-and-drop interaction on the
// board: where the card started and where it was dropped. Indices refer to
// the column projections at the time of the drag.
type DragResult struct {
	TaskID            string `json:"taskId"`
	SourceStatus      Status `json:"sourceStatus"`
	SourceIndex       int    `json:"sourceIndex"`
	DestinationStatus Status `json:"destinationStatus"`
	DestinationIndex  int    `json:"destinationIndex"`
}

// PositionUpdate assigns a task a fresh position within its column.
type PositionUpdate struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// MovePlan relocates a single task to another column at the given position.
type MovePlan struct {
	ID       string `json:"id"`
	Status   Status `json:"status"`
	Position int    `json:"position"`
}

// ReorderPlan is the output of the reorder engine. At most one of Reindex and
// Move is set; a zero plan means the drag was a no-op.
type ReorderPlan struct {
	// Reindex renumbers an entire column contiguously after a same-column
	// drag. Contiguous renumbering trades a larger write for guaranteed
	// collision-free positions.
	Reindex []PositionUpdate

	// Move carries the single position assignment for a cross-column drag.
	// The destination column is never renumbered.
	Move *MovePlan
}

// NoOp reports whether the plan changes nothing.
func (p ReorderPlan) NoOp() bool { return len(p.Reindex) == 0 && p.Move == nil }

// PlanReorder translates a drag-and-drop result into position updates against
// the current task collection. It is pure: committing the plan is the
// caller's concern. Indices that fall outside the current column bounds are
// clamped, since HTTP callers cannot be trusted the way an in-process drag
// library can.
func PlanReorder(tasks []Task, drag DragResult) ReorderPlan {
	source := ProjectColumn(tasks, drag.SourceStatus)
	from := -1
	for i, t := range source {
		if t.ID == drag.TaskID {
			from = i
			break
		}
	}
	if from < 0 {
		// Dragged task is not in the source column; the board the client
		// dragged on is stale. Nothing sensible to commit.
		return ReorderPlan{}
	}

	if drag.DestinationStatus == drag.SourceStatus {
		to := clampIndex(drag.DestinationIndex, len(source)-1)
		if to == from {
			return ReorderPlan{}
		}
		moved := source[from]
		column := append([]Task{}, source[:from]...)
		column = append(column, source[from+1:]...)
		column = append(column[:to], append([]Task{moved}, column[to:]...)...)
		updates := make([]PositionUpdate, len(column))
		for i, t := range column {
			updates[i] = PositionUpdate{ID: t.ID, Position: i}
		}
		return ReorderPlan{Reindex: updates}
	}

	destination := ProjectColumn(tasks, drag.DestinationStatus)
	to := clampIndex(drag.DestinationIndex, len(destination))
	var position int
	switch {
	case to == 0:
		position = 0
	case to >= len(destination):
		position = destination[len(destination)-1].Position + 1
	default:
		// Predecessor+1 can collide with the task already at the slot after
		// repeated inserts at the same spot; the projection's id tiebreak
		// keeps the order deterministic when that happens.
		position = destination[to-1].Position + 1
	}
	return ReorderPlan{Move: &MovePlan{ID: drag.TaskID, Status: drag.DestinationStatus, Position: position}}
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
