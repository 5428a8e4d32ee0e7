package handler

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the presentation bundle. Access rules are applied by the guard.
type PageHandler struct {
	webDir string
}

// NewPageHandler creates a page handler serving files from webDir.
func NewPageHandler(webDir string) *PageHandler {
	return &PageHandler{webDir: webDir}
}

// Page returns a handler that serves one HTML file of the bundle.
func (h *PageHandler) Page(file string) echo.HandlerFunc {
	path := filepath.Join(h.webDir, file)
	return func(c echo.Context) error {
		return c.File(path)
	}
}

// StaticDir is the directory served under /static.
func (h *PageHandler) StaticDir() string {
	return filepath.Join(h.webDir, "static")
}
