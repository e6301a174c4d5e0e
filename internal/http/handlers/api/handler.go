package api

import "github.com/Shatar6/Gereltjin-Cargo-App/internal/provider"

// Handler serves the mobile client API.
type Handler struct {
	*provider.Container
}

// New creates the API handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
