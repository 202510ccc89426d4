package crmapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/crm/workbench/internal/domain/document"
)

// InvoiceClient implements document.InvoiceGateway against the CRM backend.
type InvoiceClient struct {
	c *Client
}

func NewInvoiceClient(c *Client) *InvoiceClient {
	return &InvoiceClient{c: c}
}

func (i *InvoiceClient) GetInvoice(ctx context.Context, id string) (*document.Invoice, error) {
	var inv document.Invoice
	if err := i.c.doJSON(ctx, http.MethodGet, "/invoices/"+url.PathEscape(id), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (i *InvoiceClient) UpdateInvoice(ctx context.Context, id string, update document.InvoiceUpdate) (*document.Invoice, error) {
	var inv document.Invoice
	if err := i.c.doJSON(ctx, http.MethodPut, "/invoices/"+url.PathEscape(id), update, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (i *InvoiceClient) ConfirmInvoice(ctx context.Context, id string) (*document.Invoice, error) {
	var inv document.Invoice
	if err := i.c.doJSON(ctx, http.MethodPost, "/invoices/"+url.PathEscape(id)+"/confirm", nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (i *InvoiceClient) RevertInvoice(ctx context.Context, id string) (*document.Invoice, error) {
	var inv document.Invoice
	if err := i.c.doJSON(ctx, http.MethodPost, "/invoices/"+url.PathEscape(id)+"/revert", nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (i *InvoiceClient) SyncInvoiceItems(ctx context.Context, id string) (*document.Invoice, error) {
	var inv document.Invoice
	if err := i.c.doJSON(ctx, http.MethodPost, "/invoices/"+url.PathEscape(id)+"/sync-items", nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (i *InvoiceClient) CreateReceipt(ctx context.Context, id string) (*document.Receipt, error) {
	var r document.Receipt
	if err := i.c.doJSON(ctx, http.MethodPost, "/invoices/"+url.PathEscape(id)+"/receipt", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
