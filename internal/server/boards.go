package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/boards"
	"taskboard/internal/models"
)

type nameRequest struct {
	Name string `json:"name"`
}

type boardRequest struct {
	Name       *string            `json:"name"`
	Background *string            `json:"background"`
	Visibility *models.Visibility `json:"visibility"`
}

type listRequest struct {
	Name     *string `json:"name"`
	Position *int64  `json:"position"`
	Closed   *bool   `json:"closed"`
}

type cardRequest struct {
	ListID      *int64  `json:"list_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Position    *int64  `json:"position"`
	Archived    *bool   `json:"archived"`
}

type labelRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// bindJSON decodes the request body, answering 400 on malformed JSON.
func (s *Server) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.respondError(c, models.Invalid("body", "must be valid JSON"))
		return false
	}
	return true
}

// respondDeleted finishes a delete handler.
func (s *Server) respondDeleted(c *gin.Context, err error) {
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// pairHandler parses two path ids and runs fn, used for association routes.
func (s *Server) pairHandler(right string, fn func(c *gin.Context, left, right int64) error, status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		leftID, ok := parseID(c, "id")
		if !ok {
			return
		}
		rightID, ok := parseID(c, right)
		if !ok {
			return
		}
		if err := fn(c, leftID, rightID); err != nil {
			s.respondError(c, err)
			return
		}
		respondSuccess(c, status, nil)
	}
}

// Members

func (s *Server) handleListMembers(c *gin.Context) {
	members, err := s.tasks.Members(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"members": members})
}

// Workspaces

// handleListWorkspaces returns every workspace, or only the actor's with ?mine=1.
func (s *Server) handleListWorkspaces(c *gin.Context) {
	var (
		list []models.Workspace
		err  error
	)
	if c.Query("mine") != "" {
		actorID, _ := actorFrom(c)
		list, err = s.boards.WorkspacesOf(c.Request.Context(), actorID)
	} else {
		list, err = s.boards.ListWorkspaces(c.Request.Context())
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"workspaces": list})
}

func (s *Server) handleCreateWorkspace(c *gin.Context) {
	var req nameRequest
	if !s.bindJSON(c, &req) {
		return
	}
	actorID, _ := actorFrom(c)
	w, err := s.boards.CreateWorkspace(c.Request.Context(), actorID, req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"workspace": w})
}

func (s *Server) handleGetWorkspace(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	w, err := s.boards.GetWorkspace(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"workspace": w})
}

func (s *Server) handleRenameWorkspace(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req nameRequest
	if !s.bindJSON(c, &req) {
		return
	}
	w, err := s.boards.RenameWorkspace(c.Request.Context(), id, req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"workspace": w})
}

func (s *Server) handleDeleteWorkspace(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s.respondDeleted(c, s.boards.DeleteWorkspace(c.Request.Context(), id))
}

func (s *Server) handleWorkspaceMembers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	members, err := s.boards.WorkspaceMembers(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"members": members})
}

func (s *Server) handleAddWorkspaceMember(c *gin.Context) {
	s.pairHandler("member_id", func(c *gin.Context, ws, member int64) error {
		return s.boards.AddWorkspaceMember(c.Request.Context(), ws, member)
	}, http.StatusNoContent)(c)
}

func (s *Server) handleRemoveWorkspaceMember(c *gin.Context) {
	s.pairHandler("member_id", func(c *gin.Context, ws, member int64) error {
		return s.boards.RemoveWorkspaceMember(c.Request.Context(), ws, member)
	}, http.StatusNoContent)(c)
}

// Boards

func (s *Server) handleListBoards(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := s.boards.ListBoards(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"boards": list})
}

func (s *Server) handleCreateBoard(c *gin.Context) {
	workspaceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req boardRequest
	if !s.bindJSON(c, &req) {
		return
	}
	b, err := s.boards.CreateBoard(c.Request.Context(), workspaceID, boards.BoardInput{
		Name:       deref(req.Name),
		Background: deref(req.Background),
		Visibility: deref(req.Visibility),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"board": b})
}

func (s *Server) handleGetBoard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, err := s.boards.GetBoard(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"board": b})
}

func (s *Server) handleUpdateBoard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req boardRequest
	if !s.bindJSON(c, &req) {
		return
	}
	b, err := s.boards.UpdateBoard(c.Request.Context(), id, boards.BoardPatch{
		Name:       req.Name,
		Background: req.Background,
		Visibility: req.Visibility,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"board": b})
}

func (s *Server) handleDeleteBoard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s.respondDeleted(c, s.boards.DeleteBoard(c.Request.Context(), id))
}

func (s *Server) handleBoardMembers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	members, err := s.boards.BoardMembers(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"members": members})
}

func (s *Server) handleAddBoardMember(c *gin.Context) {
	s.pairHandler("member_id", func(c *gin.Context, board, member int64) error {
		return s.boards.AddBoardMember(c.Request.Context(), board, member)
	}, http.StatusNoContent)(c)
}

func (s *Server) handleRemoveBoardMember(c *gin.Context) {
	s.pairHandler("member_id", func(c *gin.Context, board, member int64) error {
		return s.boards.RemoveBoardMember(c.Request.Context(), board, member)
	}, http.StatusNoContent)(c)
}

func (s *Server) handleBoardLabels(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	labels, err := s.boards.BoardLabels(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"labels": labels})
}

func (s *Server) handleAttachBoardLabel(c *gin.Context) {
	s.pairHandler("label_id", func(c *gin.Context, board, label int64) error {
		return s.boards.AttachBoardLabel(c.Request.Context(), board, label)
	}, http.StatusNoContent)(c)
}

func (s *Server) handleDetachBoardLabel(c *gin.Context) {
	s.pairHandler("label_id", func(c *gin.Context, board, label int64) error {
		return s.boards.DetachBoardLabel(c.Request.Context(), board, label)
	}, http.StatusNoContent)(c)
}

// Lists

func (s *Server) handleListLists(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := s.boards.ListLists(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"lists": list})
}

func (s *Server) handleCreateList(c *gin.Context) {
	boardID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req listRequest
	if !s.bindJSON(c, &req) {
		return
	}
	l, err := s.boards.CreateList(c.Request.Context(), boardID, boards.ListInput{
		Name:     deref(req.Name),
		Position: deref(req.Position),
		Closed:   deref(req.Closed),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"list": l})
}

func (s *Server) handleGetList(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	l, err := s.boards.GetList(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"list": l})
}

func (s *Server) handleUpdateList(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req listRequest
	if !s.bindJSON(c, &req) {
		return
	}
	l, err := s.boards.UpdateList(c.Request.Context(), id, boards.ListPatch{
		Name:     req.Name,
		Position: req.Position,
		Closed:   req.Closed,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"list": l})
}

func (s *Server) handleDeleteList(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s.respondDeleted(c, s.boards.DeleteList(c.Request.Context(), id))
}

// Cards

func (s *Server) handleListCards(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := s.boards.ListCards(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"cards": list})
}

func (s *Server) handleCreateCard(c *gin.Context) {
	listID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req cardRequest
	if !s.bindJSON(c, &req) {
		return
	}
	card, err := s.boards.CreateCard(c.Request.Context(), listID, boards.CardInput{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		DueDate:     deref(req.DueDate),
		Position:    deref(req.Position),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"card": card})
}

func (s *Server) handleGetCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	card, err := s.boards.GetCard(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"card": card})
}

func (s *Server) handleUpdateCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req cardRequest
	if !s.bindJSON(c, &req) {
		return
	}
	card, err := s.boards.UpdateCard(c.Request.Context(), id, boards.CardPatch{
		ListID:      req.ListID,
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		Position:    req.Position,
		Archived:    req.Archived,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"card": card})
}

func (s *Server) handleDeleteCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s.respondDeleted(c, s.boards.DeleteCard(c.Request.Context(), id))
}

func (s *Server) handleCardLabels(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	labels, err := s.boards.CardLabels(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"labels": labels})
}

func (s *Server) handleAddCardLabel(c *gin.Context) {
	s.pairHandler("label_id", func(c *gin.Context, card, label int64) error {
		return s.boards.AddCardLabel(c.Request.Context(), card, label)
	}, http.StatusNoContent)(c)
}

func (s *Server) handleRemoveCardLabel(c *gin.Context) {
	s.pairHandler("label_id", func(c *gin.Context, card, label int64) error {
		return s.boards.RemoveCardLabel(c.Request.Context(), card, label)
	}, http.StatusNoContent)(c)
}

func (s *Server) handleCardMembers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	members, err := s.boards.CardMembers(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"members": members})
}

func (s *Server) handleAddCardMember(c *gin.Context) {
	s.pairHandler("member_id", func(c *gin.Context, card, member int64) error {
		return s.boards.AddCardMember(c.Request.Context(), card, member)
	}, http.StatusNoContent)(c)
}

func (s *Server) handleRemoveCardMember(c *gin.Context) {
	s.pairHandler("member_id", func(c *gin.Context, card, member int64) error {
		return s.boards.RemoveCardMember(c.Request.Context(), card, member)
	}, http.StatusNoContent)(c)
}

// Labels

func (s *Server) handleListLabels(c *gin.Context) {
	labels, err := s.boards.ListLabels(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"labels": labels})
}

func (s *Server) handleCreateLabel(c *gin.Context) {
	var req labelRequest
	if !s.bindJSON(c, &req) {
		return
	}
	l, err := s.boards.CreateLabel(c.Request.Context(), deref(req.Name), deref(req.Color))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"label": l})
}

func (s *Server) handleGetLabel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	l, err := s.boards.GetLabel(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"label": l})
}

func (s *Server) handleUpdateLabel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req labelRequest
	if !s.bindJSON(c, &req) {
		return
	}
	l, err := s.boards.UpdateLabel(c.Request.Context(), id, boards.LabelPatch{Name: req.Name, Color: req.Color})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"label": l})
}

func (s *Server) handleDeleteLabel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s.respondDeleted(c, s.boards.DeleteLabel(c.Request.Context(), id))
}
