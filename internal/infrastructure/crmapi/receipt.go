package crmapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/crm/workbench/internal/domain/document"
)

// ReceiptClient implements document.ReceiptGateway against the CRM backend.
type ReceiptClient struct {
	c *Client
}

func NewReceiptClient(c *Client) *ReceiptClient {
	return &ReceiptClient{c: c}
}

func (r *ReceiptClient) GetReceipt(ctx context.Context, id string) (*document.Receipt, error) {
	var rec document.Receipt
	if err := r.c.doJSON(ctx, http.MethodGet, "/receipts/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ReceiptClient) UpdateReceipt(ctx context.Context, id string, update document.ReceiptUpdate) (*document.Receipt, error) {
	var rec document.Receipt
	if err := r.c.doJSON(ctx, http.MethodPut, "/receipts/"+url.PathEscape(id), update, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ReceiptClient) ConfirmReceipt(ctx context.Context, id string) (*document.Receipt, error) {
	var rec document.Receipt
	if err := r.c.doJSON(ctx, http.MethodPost, "/receipts/"+url.PathEscape(id)+"/confirm", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ReceiptClient) RevertReceipt(ctx context.Context, id string) (*document.Receipt, error) {
	var rec document.Receipt
	if err := r.c.doJSON(ctx, http.MethodPost, "/receipts/"+url.PathEscape(id)+"/revert", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
