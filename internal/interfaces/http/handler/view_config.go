package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/crm/workbench/internal/infrastructure/viewstate"
)

// ViewConfigHandler exposes per-user table layout preferences for the
// document list screens.
type ViewConfigHandler struct {
	BaseHandler
	store *viewstate.Store
}

func NewViewConfigHandler(store *viewstate.Store) *ViewConfigHandler {
	return &ViewConfigHandler{store: store}
}

// RegisterRoutes registers view config routes on the given group
func (h *ViewConfigHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/view-configs/:screen")
	g.GET("", h.Get)
	g.PUT("", h.Save)
	g.DELETE("", h.Reset)
}

// Get returns the user's saved layout for a screen. An empty object means no
// layout is saved and the client should use its defaults.
func (h *ViewConfigHandler) Get(c *gin.Context) {
	userID, _ := userIdentity(c)
	cfg, err := h.store.Load(c.Request.Context(), userID, c.Param("screen"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if cfg == nil {
		h.Success(c, viewstate.TableConfig{})
		return
	}
	h.Success(c, cfg)
}

// Save upserts the layout. Filters in the payload are dropped by the store.
func (h *ViewConfigHandler) Save(c *gin.Context) {
	userID, _ := userIdentity(c)
	var cfg viewstate.TableConfig
	if !h.BindJSON(c, &cfg) {
		return
	}
	if err := h.store.Save(c.Request.Context(), userID, c.Param("screen"), cfg); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reset deletes the saved layout.
func (h *ViewConfigHandler) Reset(c *gin.Context) {
	userID, _ := userIdentity(c)
	if err := h.store.Reset(c.Request.Context(), userID, c.Param("screen")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// HealthHandler answers liveness probes.
type HealthHandler struct {
	BaseHandler
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{"status": "ok", "version": h.version})
}
