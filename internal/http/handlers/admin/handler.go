package admin

import "github.com/newsportal/internal/provider"

// Handler serves the /admin back office routes.
type Handler struct {
	*provider.Container
}

// New creates the handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
