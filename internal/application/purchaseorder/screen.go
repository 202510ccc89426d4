package purchaseorder

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crm/workbench/internal/application/workspace"
	"github.com/crm/workbench/internal/domain/document"
	"github.com/crm/workbench/internal/domain/shared"
)

const screenName = "purchase_order"

// Screen is one user's working session on a purchase order. Unlike the sales
// documents a purchase order has no status machine: it is editable for its
// whole life, and the "new" sentinel ID addresses an order that has not been
// created on the backend yet.
type Screen struct {
	mu        sync.Mutex
	id        string
	orders    document.PurchaseOrderGateway
	directory document.DirectoryGateway
	guard     *workspace.Guard
	obs       workspace.Observer

	record *document.PurchaseOrder
	draft  *document.PurchaseOrder
}

func NewScreen(id string, orders document.PurchaseOrderGateway, directory document.DirectoryGateway, obs workspace.Observer) *Screen {
	return &Screen{
		id:        id,
		orders:    orders,
		directory: directory,
		guard:     workspace.NewGuard(),
		obs:       obs,
	}
}

// View is the render model handed to the HTTP layer.
type View struct {
	PurchaseOrder    *document.PurchaseOrder
	Totals           document.Totals
	TotalsSource     document.TotalsSource
	Editing          bool
	AvailableActions []document.Action
}

// Fields is the non-item editable surface of the purchase order.
type Fields struct {
	Vendor          document.PartySnapshot
	Date            *time.Time
	ExpectedDate    *time.Time
	SpecialDiscount decimal.Decimal
	VATRate         decimal.Decimal
	ThemeColor      string
	Terms           string
	Notes           string
}

// SaveResult reports where the saved order lives. CanonicalID differs from
// the requested ID after the first save of a new order; the HTTP layer
// answers with a redirect so the browser replaces its location instead of
// pushing a history entry.
type SaveResult struct {
	CanonicalID string
	Created     bool
}

// Load fetches the order, or starts an empty unsaved one when the screen was
// opened under the "new" sentinel. A new order opens directly in edit mode.
func (s *Screen) Load(ctx context.Context) error {
	if s.id == document.NewPurchaseOrderID {
		s.mu.Lock()
		if s.record == nil {
			s.record = &document.PurchaseOrder{ID: document.NewPurchaseOrderID}
			s.draft = s.record.Clone()
		}
		s.mu.Unlock()
		return nil
	}

	po, err := s.orders.GetPurchaseOrder(ctx, s.id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.record = po
	s.draft = nil
	s.mu.Unlock()
	return nil
}

// View returns the current render model.
func (s *Screen) View() (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil, shared.ErrNotFound
	}
	doc := s.record
	source := document.TotalsSourcePersisted
	if s.draft != nil {
		doc = s.draft
		source = document.TotalsSourceDraft
	}
	return &View{
		PurchaseOrder:    doc.Clone(),
		Totals:           doc.Totals(),
		TotalsSource:     source,
		Editing:          s.draft != nil,
		AvailableActions: s.record.AllowedActions().List(),
	}, nil
}

// BeginEdit opens an edit draft. Purchase orders are always editable.
func (s *Screen) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return shared.ErrNotFound
	}
	if s.draft == nil {
		s.draft = s.record.Clone()
	}
	return nil
}

// Cancel discards the draft.
func (s *Screen) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return shared.ErrNotEditing
	}
	s.draft = nil
	return nil
}

// SetFields replaces the non-item editable fields of the draft.
func (s *Screen) SetFields(f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return shared.ErrNotEditing
	}
	s.draft.Vendor = f.Vendor
	s.draft.Date = f.Date
	s.draft.ExpectedDate = f.ExpectedDate
	s.draft.SpecialDiscount = f.SpecialDiscount
	s.draft.VATRate = f.VATRate
	s.draft.ThemeColor = f.ThemeColor
	s.draft.Terms = f.Terms
	s.draft.Notes = f.Notes
	return nil
}

// PrefillVendor fills the draft's vendor snapshot from the company
// directory. A miss leaves the current snapshot untouched.
func (s *Screen) PrefillVendor(ctx context.Context, name string) error {
	s.mu.Lock()
	editing := s.draft != nil
	s.mu.Unlock()
	if !editing {
		return shared.ErrNotEditing
	}

	company, err := s.directory.FindCompanyByName(ctx, name)
	if err != nil {
		return err
	}
	if company == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return shared.ErrNotEditing
	}
	s.draft.Vendor = document.PartySnapshot{
		Name:    company.Name,
		Address: company.Address,
		TaxID:   company.TaxID,
		Phone:   company.Phone,
		Email:   company.Email,
	}
	return nil
}

// AddItem appends a new draft line item under a temporary ID.
func (s *Screen) AddItem(name string, quantity int, unitPrice, discount decimal.Decimal) (document.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return document.LineItem{}, shared.ErrNotEditing
	}
	item, err := document.NewLineItem("", name, quantity, unitPrice, discount)
	if err != nil {
		return document.LineItem{}, err
	}
	s.draft.Items = append(s.draft.Items, item)
	return item, nil
}

// UpdateItem replaces the fields of an existing draft item.
func (s *Screen) UpdateItem(id, name string, quantity int, unitPrice, discount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return shared.ErrNotEditing
	}
	for i := range s.draft.Items {
		if s.draft.Items[i].ID != id {
			continue
		}
		item, err := document.NewLineItem(id, name, quantity, unitPrice, discount)
		if err != nil {
			return err
		}
		s.draft.Items[i] = item
		return nil
	}
	return shared.NewDomainError("NOT_FOUND", "Line item not found in draft")
}

// RemoveItem deletes a draft line item.
func (s *Screen) RemoveItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return shared.ErrNotEditing
	}
	for i := range s.draft.Items {
		if s.draft.Items[i].ID == id {
			s.draft.Items = append(s.draft.Items[:i], s.draft.Items[i+1:]...)
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Line item not found in draft")
}

// Save persists the draft. The first save of a new order creates it on the
// backend and reports the assigned ID as the canonical location; later saves
// update in place with the usual optimistic rollback.
func (s *Screen) Save(ctx context.Context) (*SaveResult, error) {
	var result *SaveResult
	err := workspace.Guarded(s.guard, s.obs, screenName, document.ActionSave, func() error {
		s.mu.Lock()
		if s.draft == nil {
			s.mu.Unlock()
			return shared.ErrNotEditing
		}
		snapshot := s.record
		draft := s.draft
		creating := !draft.IsPersisted()
		s.record = draft
		update := document.PurchaseOrderUpdate{
			Vendor:          draft.Vendor,
			Date:            draft.Date,
			ExpectedDate:    draft.ExpectedDate,
			Items:           document.CloneItems(draft.Items),
			SpecialDiscount: draft.SpecialDiscount,
			VATRate:         draft.VATRate,
			ThemeColor:      draft.ThemeColor,
			Terms:           draft.Terms,
			Notes:           draft.Notes,
		}
		s.mu.Unlock()

		return workspace.Optimistic(ctx,
			func(ctx context.Context) (*document.PurchaseOrder, error) {
				if creating {
					return s.orders.CreatePurchaseOrder(ctx, update)
				}
				return s.orders.UpdatePurchaseOrder(ctx, s.id, update)
			},
			func(saved *document.PurchaseOrder) {
				s.mu.Lock()
				s.record = saved
				s.draft = nil
				s.id = saved.ID
				s.mu.Unlock()
				result = &SaveResult{CanonicalID: saved.ID, Created: creating}
			},
			func() {
				s.mu.Lock()
				s.record = snapshot
				s.mu.Unlock()
			},
		)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a persisted order. Two-step.
func (s *Screen) Delete(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return shared.ErrConfirmationRequired
	}
	return workspace.Guarded(s.guard, s.obs, screenName, document.ActionDelete, func() error {
		s.mu.Lock()
		record := s.record
		s.mu.Unlock()
		if record == nil {
			return shared.ErrNotFound
		}
		if !record.IsPersisted() {
			return shared.NewDomainError("INVALID_STATE", "Purchase order has not been saved yet")
		}
		if err := s.orders.DeletePurchaseOrder(ctx, s.id); err != nil {
			return err
		}
		s.mu.Lock()
		s.record = nil
		s.draft = nil
		s.mu.Unlock()
		return nil
	})
}
