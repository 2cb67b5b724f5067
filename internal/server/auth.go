package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
)

const actorKey = "actorID"

// loadActor copies the member logged into the request's session, if any,
// onto the gin context.
func (s *Server) loadActor(c *gin.Context) {
	if actorID, ok := s.sessions.Actor(c.Request.Context()); ok {
		c.Set(actorKey, actorID)
	}
	c.Next()
}

func actorFrom(c *gin.Context) (int64, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// requirePageActor sends anonymous page requests to the login form.
func (s *Server) requirePageActor(c *gin.Context) {
	if _, ok := actorFrom(c); !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) requireAPIActor(c *gin.Context) {
	if _, ok := actorFrom(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.Next()
}

func (s *Server) handleRegisterPage(c *gin.Context) {
	s.render(c, http.StatusOK, "register.html", gin.H{})
}

func (s *Server) handleRegister(c *gin.Context) {
	_, err := s.credentials.Register(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	switch {
	case err == nil:
		s.setFlash(c, flashSuccess, "Account created. Please log in.")
		c.Redirect(http.StatusSeeOther, "/login")
	case errors.Is(err, models.ErrUsernameTaken), errors.Is(err, models.ErrInvalid):
		s.setFlash(c, flashDanger, userMessage(err))
		c.Redirect(http.StatusSeeOther, "/register")
	default:
		s.failPage(c, err)
	}
}

func (s *Server) handleLoginPage(c *gin.Context) {
	if _, ok := actorFrom(c); ok {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	s.render(c, http.StatusOK, "login.html", gin.H{})
}

func (s *Server) handleLogin(c *gin.Context) {
	ctx := c.Request.Context()
	member, err := s.credentials.Verify(ctx, c.PostForm("username"), c.PostForm("password"))
	if errors.Is(err, models.ErrInvalidCredentials) {
		s.setFlash(c, flashDanger, "Invalid username or password.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	if err != nil {
		s.failPage(c, err)
		return
	}

	if err := s.sessions.LoginRequest(ctx, member.ID); err != nil {
		s.failPage(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.sessions.LogoutRequest(c.Request.Context()); err != nil {
		s.logger.Error("logout failed", slog.String("error", err.Error()))
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// handleMe returns the member behind the current session.
func (s *Server) handleMe(c *gin.Context) {
	actorID, _ := actorFrom(c)
	member, err := s.tasks.Member(c.Request.Context(), actorID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"member": member})
}
