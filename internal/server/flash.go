package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
)

const (
	flashSuccess = "success"
	flashDanger  = "danger"
)

// setFlash queues a message in the session for the next rendered page.
func (s *Server) setFlash(c *gin.Context, kind, message string) {
	s.sessions.AddFlash(c.Request.Context(), kind, message)
}

// userMessage phrases a domain error for a flash message.
func userMessage(err error) string {
	var fe *models.ForbiddenError
	if errors.As(err, &fe) {
		return "You do not have permission to " + string(fe.Action) + " this task."
	}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var nf *models.NotFoundError
	if errors.As(err, &nf) {
		kind := string(nf.Kind)
		if kind == "" {
			return "Not found."
		}
		return strings.ToUpper(kind[:1]) + kind[1:] + " not found."
	}
	switch {
	case errors.Is(err, models.ErrUsernameTaken):
		return "Username already exists."
	default:
		return "Something went wrong."
	}
}

// failPage turns an error into a flash message and a redirect to the
// dashboard. Unexpected errors are logged.
func (s *Server) failPage(c *gin.Context, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	s.setFlash(c, flashDanger, userMessage(err))
	target := "/dashboard"
	if _, ok := actorFrom(c); !ok {
		target = "/login"
	}
	c.Redirect(http.StatusSeeOther, target)
}

// render executes a page template with the pending flashes attached.
func (s *Server) render(c *gin.Context, status int, name string, data gin.H) {
	data["Flashes"] = s.sessions.PopFlashes(c.Request.Context())
	if actorID, ok := actorFrom(c); ok {
		data["ActorID"] = actorID
	}
	c.HTML(status, name, data)
}
