package tasks

import (
	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

// Filter selects which of an actor's tasks appear on the dashboard.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterMine       Filter = "mine"
	FilterAssigned   Filter = "assigned"
	FilterPending    Filter = Filter(models.StatusPending)
	FilterInProgress Filter = Filter(models.StatusInProgress)
	FilterDone       Filter = Filter(models.StatusDone)
)

// Filters lists the keys in the order the dashboard offers them.
var Filters = []Filter{FilterAll, FilterMine, FilterAssigned, FilterPending, FilterInProgress, FilterDone}

// ParseFilter maps a request key to a Filter. Unrecognized keys fall back
// to FilterAll.
func ParseFilter(key string) Filter {
	for _, f := range Filters {
		if string(f) == key {
			return f
		}
	}
	return FilterAll
}

func (f Filter) query(actorID int64) sqlite.TaskQuery {
	switch f {
	case FilterMine:
		return sqlite.TaskQuery{OwnerID: actorID}
	case FilterAssigned:
		return sqlite.TaskQuery{AssigneeID: actorID}
	case FilterPending, FilterInProgress, FilterDone:
		return sqlite.TaskQuery{InvolvedID: actorID, Status: models.TaskStatus(f)}
	default:
		return sqlite.TaskQuery{InvolvedID: actorID}
	}
}

// Match reports whether task belongs in f's result set for actorID.
func (f Filter) Match(actorID int64, task models.Task) bool {
	involved := task.OwnerID == actorID || task.IsAssignedTo(actorID)
	switch f {
	case FilterMine:
		return task.OwnerID == actorID
	case FilterAssigned:
		return task.IsAssignedTo(actorID)
	case FilterPending, FilterInProgress, FilterDone:
		return involved && task.Status == models.TaskStatus(f)
	default:
		return involved
	}
}
