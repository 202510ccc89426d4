package crmapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/crm/workbench/internal/domain/document"
)

// PurchaseOrderClient implements document.PurchaseOrderGateway against the
// CRM backend.
type PurchaseOrderClient struct {
	c *Client
}

func NewPurchaseOrderClient(c *Client) *PurchaseOrderClient {
	return &PurchaseOrderClient{c: c}
}

func (p *PurchaseOrderClient) GetPurchaseOrder(ctx context.Context, id string) (*document.PurchaseOrder, error) {
	var po document.PurchaseOrder
	if err := p.c.doJSON(ctx, http.MethodGet, "/purchase-orders/"+url.PathEscape(id), nil, &po); err != nil {
		return nil, err
	}
	return &po, nil
}

func (p *PurchaseOrderClient) CreatePurchaseOrder(ctx context.Context, update document.PurchaseOrderUpdate) (*document.PurchaseOrder, error) {
	var po document.PurchaseOrder
	if err := p.c.doJSON(ctx, http.MethodPost, "/purchase-orders", update, &po); err != nil {
		return nil, err
	}
	return &po, nil
}

func (p *PurchaseOrderClient) UpdatePurchaseOrder(ctx context.Context, id string, update document.PurchaseOrderUpdate) (*document.PurchaseOrder, error) {
	var po document.PurchaseOrder
	if err := p.c.doJSON(ctx, http.MethodPut, "/purchase-orders/"+url.PathEscape(id), update, &po); err != nil {
		return nil, err
	}
	return &po, nil
}

func (p *PurchaseOrderClient) DeletePurchaseOrder(ctx context.Context, id string) error {
	return p.c.doJSON(ctx, http.MethodDelete, "/purchase-orders/"+url.PathEscape(id), nil, nil)
}
