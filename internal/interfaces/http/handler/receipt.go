package handler

import (
	"github.com/gin-gonic/gin"

	appreceipt "github.com/crm/workbench/internal/application/receipt"
	"github.com/crm/workbench/internal/application/workbench"
	"github.com/crm/workbench/internal/interfaces/http/dto"
)

// ReceiptHandler exposes the receipt screen.
type ReceiptHandler struct {
	BaseHandler
	wb *workbench.Workbench
}

func NewReceiptHandler(wb *workbench.Workbench) *ReceiptHandler {
	return &ReceiptHandler{wb: wb}
}

// RegisterRoutes registers receipt routes on the given group
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/receipts/:receiptId")
	g.GET("", h.Get)
	g.POST("/refresh", h.Refresh)
	g.POST("/edit", h.BeginEdit)
	g.POST("/cancel", h.Cancel)
	g.PUT("/fields", h.SetFields)
	g.POST("/save", h.Save)
	g.POST("/confirm", h.Confirm)
	g.POST("/revert", h.Revert)
}

func (h *ReceiptHandler) screen(c *gin.Context) (*appreceipt.Screen, bool) {
	userID, _ := userIdentity(c)
	s, err := h.wb.Receipt(c.Request.Context(), userID, c.Param("receiptId"))
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return s, true
}

func (h *ReceiptHandler) respondView(c *gin.Context, s *appreceipt.Screen) {
	view, err := s.View()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewReceiptView(view))
}

func (h *ReceiptHandler) Get(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	h.respondView(c, s)
}

func (h *ReceiptHandler) Refresh(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	if err := s.Load(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *ReceiptHandler) BeginEdit(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	if err := s.BeginEdit(); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *ReceiptHandler) Cancel(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	if err := s.Cancel(); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *ReceiptHandler) SetFields(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.ReceiptFieldsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := s.SetFields(req.ToFields()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *ReceiptHandler) Save(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	if err := s.Save(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *ReceiptHandler) Confirm(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.ConfirmRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := s.Confirm(c.Request.Context(), req.Confirm); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *ReceiptHandler) Revert(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.ConfirmRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := s.Revert(c.Request.Context(), req.Confirm); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}
