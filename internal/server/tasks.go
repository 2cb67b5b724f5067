package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
	"taskboard/internal/tasks"
)

// taskForm mirrors the fields of the create and edit forms.
type taskForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Status      string `form:"status"`
	AssignedTo  string `form:"assigned_to"`
}

// assignee parses the assignee select; an empty choice means nobody.
func (f taskForm) assignee() (*int64, error) {
	raw := strings.TrimSpace(f.AssignedTo)
	if raw == "" {
		return new(int64), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return nil, models.Invalid("assigned_to", "must be a member id")
	}
	return &id, nil
}

// pageID parses a path id for HTML routes, flashing on malformed input.
func (s *Server) pageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		s.failPage(c, models.NotFound(models.KindTask, 0))
		return 0, false
	}
	return id, true
}

// handleDashboard lists the actor's tasks narrowed by ?filter=.
func (s *Server) handleDashboard(c *gin.Context) {
	actorID, _ := actorFrom(c)
	ctx := c.Request.Context()

	list, applied, err := s.tasks.Filter(ctx, actorID, c.Query("filter"))
	if err != nil {
		s.failPage(c, err)
		return
	}
	members, err := s.tasks.Members(ctx)
	if err != nil {
		s.failPage(c, err)
		return
	}
	s.render(c, http.StatusOK, "dashboard.html", gin.H{
		"Tasks":   list,
		"Filter":  applied,
		"Filters": tasks.Filters,
		"Names":   memberNames(members),
	})
}

func (s *Server) handleNewTaskPage(c *gin.Context) {
	s.renderTaskForm(c, models.Task{Status: models.StatusPending}, false)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	actorID, _ := actorFrom(c)
	var form taskForm
	if err := c.ShouldBind(&form); err != nil {
		s.failPage(c, models.Invalid("form", "could not be read"))
		return
	}
	assignee, err := form.assignee()
	if err != nil {
		s.failPage(c, err)
		return
	}

	_, err = s.tasks.Create(c.Request.Context(), actorID, tasks.CreateInput{
		Title:        form.Title,
		Description:  form.Description,
		Status:       models.TaskStatus(form.Status),
		AssignedToID: assignee,
	})
	if err != nil {
		s.failPage(c, err)
		return
	}
	s.setFlash(c, flashSuccess, "Task created.")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) handleEditTaskPage(c *gin.Context) {
	id, ok := s.pageID(c)
	if !ok {
		return
	}
	actorID, _ := actorFrom(c)
	task, err := s.tasks.GetForEdit(c.Request.Context(), actorID, id)
	if err != nil {
		s.failPage(c, err)
		return
	}
	s.renderTaskForm(c, task, true)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := s.pageID(c)
	if !ok {
		return
	}
	actorID, _ := actorFrom(c)
	var form taskForm
	if err := c.ShouldBind(&form); err != nil {
		s.failPage(c, models.Invalid("form", "could not be read"))
		return
	}
	assignee, err := form.assignee()
	if err != nil {
		s.failPage(c, err)
		return
	}
	status := models.TaskStatus(form.Status)

	_, err = s.tasks.Update(c.Request.Context(), actorID, id, tasks.Patch{
		Title:        &form.Title,
		Description:  &form.Description,
		Status:       &status,
		AssignedToID: assignee,
	})
	if err != nil {
		s.failPage(c, err)
		return
	}
	s.setFlash(c, flashSuccess, "Task updated.")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := s.pageID(c)
	if !ok {
		return
	}
	actorID, _ := actorFrom(c)
	if err := s.tasks.Delete(c.Request.Context(), actorID, id); err != nil {
		s.failPage(c, err)
		return
	}
	s.setFlash(c, flashSuccess, "Task deleted.")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) renderTaskForm(c *gin.Context, task models.Task, editing bool) {
	members, err := s.tasks.Members(c.Request.Context())
	if err != nil {
		s.failPage(c, err)
		return
	}
	action := "/tasks/new"
	if editing {
		action = "/tasks/" + strconv.FormatInt(task.ID, 10) + "/edit"
	}
	s.render(c, http.StatusOK, "task_form.html", gin.H{
		"Task":     task,
		"Editing":  editing,
		"Action":   action,
		"Members":  members,
		"Statuses": models.TaskStatuses,
	})
}

func memberNames(members []models.Member) map[int64]string {
	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Username
	}
	return names
}
