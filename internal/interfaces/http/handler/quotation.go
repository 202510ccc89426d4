package handler

import (
	"github.com/gin-gonic/gin"

	appquotation "github.com/crm/workbench/internal/application/quotation"
	"github.com/crm/workbench/internal/application/workbench"
	"github.com/crm/workbench/internal/interfaces/http/dto"
)

// QuotationHandler exposes the quotation screen of a deal.
type QuotationHandler struct {
	BaseHandler
	wb *workbench.Workbench
}

func NewQuotationHandler(wb *workbench.Workbench) *QuotationHandler {
	return &QuotationHandler{wb: wb}
}

// RegisterRoutes registers quotation routes on the given group
func (h *QuotationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/deals/:dealId/quotation")
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
	g.POST("/confirm-purchase", h.ConfirmPurchase)
	g.POST("/create-invoice", h.CreateInvoice)
}

func (h *QuotationHandler) screen(c *gin.Context) (*appquotation.Screen, bool) {
	userID, _ := userIdentity(c)
	s, err := h.wb.Quotation(c.Request.Context(), userID, c.Param("dealId"))
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return s, true
}

func (h *QuotationHandler) respondView(c *gin.Context, s *appquotation.Screen) {
	view, err := s.View()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewQuotationView(view))
}

// Get returns the quotation screen, generating the number on first view.
func (h *QuotationHandler) Get(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	h.respondView(c, s)
}

// Refresh re-fetches the quotation from the backend, discarding any draft.
func (h *QuotationHandler) Refresh(c *gin.Context) {
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

func (h *QuotationHandler) BeginEdit(c *gin.Context) {
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

func (h *QuotationHandler) Cancel(c *gin.Context) {
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

func (h *QuotationHandler) SetFields(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.QuotationFieldsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := s.SetFields(req.ToFields()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.respondView(c, s)
}

func (h *QuotationHandler) AddItem(c *gin.Context) {
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

func (h *QuotationHandler) UpdateItem(c *gin.Context) {
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

func (h *QuotationHandler) RemoveItem(c *gin.Context) {
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

func (h *QuotationHandler) Save(c *gin.Context) {
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

func (h *QuotationHandler) Confirm(c *gin.Context) {
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

func (h *QuotationHandler) Revert(c *gin.Context) {
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

// ConfirmPurchase records customer approval and converts to an invoice. The
// response is a redirect to the invoice, whether freshly created or already
// existing.
func (h *QuotationHandler) ConfirmPurchase(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	var req dto.ConfirmRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := s.ConfirmPurchase(c.Request.Context(), req.Confirm)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.Redirect{Kind: "invoice", ID: result.TargetID, AlreadyExisted: result.AlreadyExisted})
}

// CreateInvoice converts without re-approving.
func (h *QuotationHandler) CreateInvoice(c *gin.Context) {
	s, ok := h.screen(c)
	if !ok {
		return
	}
	result, err := s.CreateInvoice(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.Redirect{Kind: "invoice", ID: result.TargetID, AlreadyExisted: result.AlreadyExisted})
}
