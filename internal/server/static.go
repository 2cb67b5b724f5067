package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/guard"
	"taskboard/internal/models"
)

//go:embed templates/*.html static
var assets embed.FS

var templateFuncs = template.FuncMap{
	"canEdit":   guard.CanEditTask,
	"canDelete": guard.CanDeleteTask,
	"assignee": func(t models.Task) int64 {
		if t.AssignedToID == nil {
			return 0
		}
		return *t.AssignedToID
	},
}

// mountStatic serves the embedded stylesheet and the fallback 404 handlers.
func (s *Server) mountStatic() {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		s.logger.Warn("embedded static assets missing", "error", err)
	} else {
		s.engine.StaticFS("/static", http.FS(static))
	}

	s.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		s.render(c, http.StatusNotFound, "not_found.html", gin.H{})
	})
}
