package handler

import (
	"github.com/gin-gonic/gin"

	appinvoice "github.com/crm/workbench/internal/application/invoice"
	"github.com/crm/workbench/internal/application/workbench"
	"github.com/crm/workbench/internal/interfaces/http/dto"
)

// InvoiceHandler exposes the invoice screen.
type InvoiceHandler struct {
	BaseHandler
	wb *workbench.Workbench
}

func NewInvoiceHandler(wb *workbench.Workbench) *InvoiceHandler {
	return &InvoiceHandler{wb: wb}
}

// RegisterRoutes registers invoice routes on the given group
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/invoices/:invoiceId")
	g.GET("", h.Get)
	g.POST("/refresh", h.Refresh)
	g.POST("/edit", h.BeginEdit)
	g.POST("/cancel", h.Cancel)
	g.PUT("/fields", h.SetFields)
	g.POST("/items", h.AddItem)
	g.PUT("/items/:itemId", h.UpdateItem)
	g.DELETE("/items/:itemId", h.RemoveItem)
	g.POST("/save", h.Save)
	g.POST("/confirm", h.Confirm)
	g.POST("/revert", h.Revert)
	g.POST("/sync-items", h.SyncItems)
	g.POST("/receipt", h.ConvertToReceipt)
}

func (h *InvoiceHandler) screen(c *gin.Context) (*appinvoice.Screen, bool) {
	userID, role := userIdentity(c)
	s, err := h.wb.Invoice(c.Request.Context(), userID, role, c.Param("invoiceId"))
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return s, true
}

func (h *InvoiceHandler) respondView(c *gin.Context, s *appinvoice.Screen) {
	view, err := s.View()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewInvoiceView(view))
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	h.respondView(c, s)
}

func (h *InvoiceHandler) Refresh(c *gin.Context) {
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

func (h *InvoiceHandler) BeginEdit(c *gin.Context) {
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

func (h *InvoiceHandler) Cancel(c *gin.Context) {
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

func (h *InvoiceHandler) SetFields(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.InvoiceFieldsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := s.SetFields(req.ToFields()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *InvoiceHandler) AddItem(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.LineItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if _, err := s.AddItem(req.Name, req.Quantity, req.UnitPrice, req.Discount); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.LineItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := s.UpdateItem(c.Param("itemId"), req.Name, req.Quantity, req.UnitPrice, req.Discount); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	if err := s.RemoveItem(c.Param("itemId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *InvoiceHandler) Save(c *gin.Context) {
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

func (h *InvoiceHandler) Confirm(c *gin.Context) {
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

func (h *InvoiceHandler) Revert(c *gin.Context) {
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

// SyncItems destructively replaces items from the deal; needs confirmation.
func (h *InvoiceHandler) SyncItems(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.ConfirmRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := s.SyncItems(c.Request.Context(), req.Confirm); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

// ConvertToReceipt produces the receipt and answers with a redirect to it.
func (h *InvoiceHandler) ConvertToReceipt(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	result, err := s.ConvertToReceipt(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.Redirect{Kind: "receipt", ID: result.TargetID, AlreadyExisted: result.AlreadyExisted})
}
