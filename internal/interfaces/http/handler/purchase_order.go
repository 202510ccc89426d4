package handler

import (
	"github.com/gin-gonic/gin"

	apppo "github.com/crm/workbench/internal/application/purchaseorder"
	"github.com/crm/workbench/internal/application/workbench"
	"github.com/crm/workbench/internal/domain/document"
	"github.com/crm/workbench/internal/interfaces/http/dto"
)

// PurchaseOrderHandler exposes the purchase order screen. The path segment
// "new" addresses an order that has not been saved yet; the first save
// answers with a history-replacing redirect to the permanent ID.
type PurchaseOrderHandler struct {
	BaseHandler
	wb *workbench.Workbench
}

func NewPurchaseOrderHandler(wb *workbench.Workbench) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{wb: wb}
}

// RegisterRoutes registers purchase order routes on the given group
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/purchase-orders/:orderId")
	g.GET("", h.Get)
	g.POST("/refresh", h.Refresh)
	g.POST("/edit", h.BeginEdit)
	g.POST("/cancel", h.Cancel)
	g.PUT("/fields", h.SetFields)
	g.POST("/vendor-lookup", h.VendorLookup)
	g.POST("/items", h.AddItem)
	g.PUT("/items/:itemId", h.UpdateItem)
	g.DELETE("/items/:itemId", h.RemoveItem)
	g.POST("/save", h.Save)
	g.POST("/delete", h.Delete)
}

func (h *PurchaseOrderHandler) screen(c *gin.Context) (*apppo.Screen, bool) {
	userID, _ := userIdentity(c)
	s, err := h.wb.PurchaseOrder(c.Request.Context(), userID, c.Param("orderId"))
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return s, true
}

func (h *PurchaseOrderHandler) respondView(c *gin.Context, s *apppo.Screen) {
	view, err := s.View()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewPurchaseOrderView(view))
}

func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	h.respondView(c, s)
}

func (h *PurchaseOrderHandler) Refresh(c *gin.Context) {
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

func (h *PurchaseOrderHandler) BeginEdit(c *gin.Context) {
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

func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
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

func (h *PurchaseOrderHandler) SetFields(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.PurchaseOrderFieldsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := s.SetFields(req.ToFields()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

// VendorLookup pre-fills the vendor snapshot from the company directory.
func (h *PurchaseOrderHandler) VendorLookup(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.VendorLookupRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := s.PrefillVendor(c.Request.Context(), req.Name); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
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

func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
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

func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
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

// Save persists the draft. The first save of a new order responds with a
// replace-redirect to the canonical location instead of the usual view.
func (h *PurchaseOrderHandler) Save(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	result, err := s.Save(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Created {
		userID, _ := userIdentity(c)
		h.wb.Release(userID, "purchase_order", document.NewPurchaseOrderID)
		h.Created(c, dto.Redirect{Kind: "purchase_order", ID: result.CanonicalID, Replace: true})
		return
	}
	h.respondView(c, s)
}

// Delete removes the order after explicit confirmation.
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.ConfirmRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := s.Delete(c.Request.Context(), req.Confirm); err != nil {
		h.HandleError(c, err)
		return
	}
	userID, _ := userIdentity(c)
	h.wb.Release(userID, "purchase_order", c.Param("orderId"))
	h.NoContent(c)
}
