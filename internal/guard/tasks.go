package guard

import "taskboard/internal/models"

// CanEditTask allows the owner and the assignee.
func CanEditTask(actorID int64, t models.Task) bool {
	return actorID == t.OwnerID || t.IsAssignedTo(actorID)
}

// CanDeleteTask allows only the owner.
func CanDeleteTask(actorID int64, t models.Task) bool {
	return actorID == t.OwnerID
}

// AuthorizeTask returns a ForbiddenError when actorID may not perform action on t.
func AuthorizeTask(actorID int64, t models.Task, action models.Action) error {
	var allowed bool
	switch action {
	case models.ActionEdit:
		allowed = CanEditTask(actorID, t)
	case models.ActionDelete:
		allowed = CanDeleteTask(actorID, t)
	}
	if !allowed {
		return &models.ForbiddenError{ActorID: actorID, EntityID: t.ID, Action: action}
	}
	return nil
}
