package workbench

import (
	"context"
	"time"

	"github.com/crm/workbench/internal/application/invoice"
	"github.com/crm/workbench/internal/application/purchaseorder"
	"github.com/crm/workbench/internal/application/quotation"
	"github.com/crm/workbench/internal/application/receipt"
	"github.com/crm/workbench/internal/application/workspace"
	"github.com/crm/workbench/internal/domain/document"
)

// Gateways bundles the CRM backend clients the screens are built on.
type Gateways struct {
	Deals          document.DealGateway
	Invoices       document.InvoiceGateway
	Receipts       document.ReceiptGateway
	PurchaseOrders document.PurchaseOrderGateway
	Directory      document.DirectoryGateway
}

// Workbench hands out per-user screen sessions. A screen lives in the
// registry between requests so edit drafts and in-flight guards survive; it
// is dropped when idle past the session TTL.
type Workbench struct {
	registry *workspace.Registry
	gateways Gateways
	obs      workspace.Observer
}

func New(gateways Gateways, sessionTTL time.Duration, obs workspace.Observer) *Workbench {
	return &Workbench{
		registry: workspace.NewRegistry(sessionTTL),
		gateways: gateways,
		obs:      obs,
	}
}

// Quotation returns the user's session on a deal's quotation, loading the
// document on first access.
func (w *Workbench) Quotation(ctx context.Context, userID, dealID string) (*quotation.Screen, error) {
	key := workspace.SessionKey(userID, "quotation", dealID)
	return workspace.Fetch(w.registry, key, func() (*quotation.Screen, error) {
		s := quotation.NewScreen(dealID, w.gateways.Deals, w.obs)
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Invoice returns the user's session on an invoice. The session carries the
// user's role so the ownership check applies to every action.
func (w *Workbench) Invoice(ctx context.Context, userID string, role document.Role, invoiceID string) (*invoice.Screen, error) {
	key := workspace.SessionKey(userID, "invoice", invoiceID)
	return workspace.Fetch(w.registry, key, func() (*invoice.Screen, error) {
		s := invoice.NewScreen(invoiceID, userID, role, w.gateways.Invoices, w.obs)
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Receipt returns the user's session on a receipt.
func (w *Workbench) Receipt(ctx context.Context, userID, receiptID string) (*receipt.Screen, error) {
	key := workspace.SessionKey(userID, "receipt", receiptID)
	return workspace.Fetch(w.registry, key, func() (*receipt.Screen, error) {
		s := receipt.NewScreen(receiptID, w.gateways.Receipts, w.obs)
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// PurchaseOrder returns the user's session on a purchase order, including
// the unsaved "new" one.
func (w *Workbench) PurchaseOrder(ctx context.Context, userID, orderID string) (*purchaseorder.Screen, error) {
	key := workspace.SessionKey(userID, "purchase_order", orderID)
	return workspace.Fetch(w.registry, key, func() (*purchaseorder.Screen, error) {
		s := purchaseorder.NewScreen(orderID, w.gateways.PurchaseOrders, w.gateways.Directory, w.obs)
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Release drops a session, forcing a fresh load on next access. Used after a
// purchase order save assigns the canonical ID, and after deletes.
func (w *Workbench) Release(userID, kind, documentID string) {
	w.registry.Drop(workspace.SessionKey(userID, kind, documentID))
}

// SweepSessions evicts idle sessions and returns the eviction count.
func (w *Workbench) SweepSessions() int {
	return w.registry.Sweep()
}
