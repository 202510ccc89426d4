package crmapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/crm/workbench/internal/domain/document"
)

// DealClient implements document.DealGateway against the CRM backend.
type DealClient struct {
	c *Client
}

func NewDealClient(c *Client) *DealClient {
	return &DealClient{c: c}
}

func (d *DealClient) GetQuotation(ctx context.Context, dealID string) (*document.Quotation, error) {
	var q document.Quotation
	if err := d.c.doJSON(ctx, http.MethodGet, "/deals/"+url.PathEscape(dealID)+"/quotation", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (d *DealClient) GenerateQuotation(ctx context.Context, dealID string) (*document.Quotation, error) {
	var q document.Quotation
	if err := d.c.doJSON(ctx, http.MethodPost, "/deals/"+url.PathEscape(dealID)+"/quotation/generate", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (d *DealClient) UpdateQuotation(ctx context.Context, dealID string, update document.QuotationUpdate) (*document.Quotation, error) {
	var q document.Quotation
	if err := d.c.doJSON(ctx, http.MethodPut, "/deals/"+url.PathEscape(dealID)+"/quotation", update, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (d *DealClient) ConfirmQuotation(ctx context.Context, dealID string) (*document.Quotation, error) {
	var q document.Quotation
	if err := d.c.doJSON(ctx, http.MethodPost, "/deals/"+url.PathEscape(dealID)+"/quotation/confirm", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (d *DealClient) RevertQuotation(ctx context.Context, dealID string) (*document.Quotation, error) {
	var q document.Quotation
	if err := d.c.doJSON(ctx, http.MethodPost, "/deals/"+url.PathEscape(dealID)+"/quotation/revert", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (d *DealClient) ApproveQuotation(ctx context.Context, dealID string) (*document.Quotation, error) {
	var q document.Quotation
	if err := d.c.doJSON(ctx, http.MethodPost, "/deals/"+url.PathEscape(dealID)+"/quotation/approve", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (d *DealClient) CreateInvoice(ctx context.Context, dealID string) (*document.Invoice, error) {
	var inv document.Invoice
	if err := d.c.doJSON(ctx, http.MethodPost, "/deals/"+url.PathEscape(dealID)+"/invoice", nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
