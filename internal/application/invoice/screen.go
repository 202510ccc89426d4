package invoice

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/crm/workbench/internal/application/workspace"
	"github.com/crm/workbench/internal/domain/document"
	"github.com/crm/workbench/internal/domain/shared"
)

const screenName = "invoice"

// Screen is one user's working session on an invoice. The session is bound
// to the viewing user so the ownership check runs once per action: admins and
// managers act on any invoice, sales users only on invoices of deals they
// own. Everyone else sees the document read-only with no actions offered.
type Screen struct {
	mu     sync.Mutex
	id     string
	userID string
	role   document.Role

	invoices document.InvoiceGateway
	guard    *workspace.Guard
	obs      workspace.Observer

	record *document.Invoice
	draft  *document.Invoice
}

func NewScreen(id, userID string, role document.Role, invoices document.InvoiceGateway, obs workspace.Observer) *Screen {
	return &Screen{
		id:       id,
		userID:   userID,
		role:     role,
		invoices: invoices,
		guard:    workspace.NewGuard(),
		obs:      obs,
	}
}

// View is the render model handed to the HTTP layer.
type View struct {
	Invoice          *document.Invoice
	Totals           document.Totals
	TotalsSource     document.TotalsSource
	Editing          bool
	ReadOnly         bool
	AvailableActions []document.Action
}

// Fields is the non-item editable surface of a draft invoice.
type Fields struct {
	Customer document.PartySnapshot
	Discount decimal.Decimal
	VATRate  decimal.Decimal
	WHTRate  decimal.Decimal
}

// ConversionResult reports the outcome of producing a receipt.
type ConversionResult struct {
	TargetID       string
	AlreadyExisted bool
}

// Load fetches the invoice and discards any stale draft.
func (s *Screen) Load(ctx context.Context) error {
	inv, err := s.invoices.GetInvoice(ctx, s.id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.record = inv
	s.draft = nil
	s.mu.Unlock()
	return nil
}

// View returns the current render model. Persisted totals come from the
// stored invoice fields; while editing, totals are recomputed live from the
// draft items.
func (s *Screen) View() (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil, shared.ErrNotFound
	}

	doc := s.record
	totals := s.record.PersistedTotals()
	source := document.TotalsSourcePersisted
	if s.draft != nil {
		doc = s.draft
		totals = s.draft.DraftTotals()
		source = document.TotalsSourceDraft
	}
	return &View{
		Invoice:          doc.Clone(),
		Totals:           totals,
		TotalsSource:     source,
		Editing:          s.draft != nil,
		ReadOnly:         !s.record.CanActOn(s.userID, s.role),
		AvailableActions: s.record.AllowedActions(s.userID, s.role).List(),
	}, nil
}

// BeginEdit opens an edit draft on a DRAFT invoice.
func (s *Screen) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return shared.ErrNotFound
	}
	if err := s.ensureActorLocked(); err != nil {
		return err
	}
	if !s.record.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", "Invoice can only be edited while in draft")
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
	s.draft.Customer = f.Customer
	s.draft.Discount = f.Discount
	s.draft.VATRate = f.VATRate
	s.draft.WHTRate = f.WHTRate
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

// Save persists the draft optimistically; on failure the previous record is
// restored and the draft kept.
func (s *Screen) Save(ctx context.Context) error {
	return workspace.Guarded(s.guard, s.obs, screenName, document.ActionSave, func() error {
		s.mu.Lock()
		if s.draft == nil {
			s.mu.Unlock()
			return shared.ErrNotEditing
		}
		snapshot := s.record
		draft := s.draft
		s.record = draft
		update := document.InvoiceUpdate{
			Customer: draft.Customer,
			Items:    document.CloneItems(draft.Items),
			Discount: draft.Discount,
			VATRate:  draft.VATRate,
			WHTRate:  draft.WHTRate,
		}
		s.mu.Unlock()

		return workspace.Optimistic(ctx,
			func(ctx context.Context) (*document.Invoice, error) {
				return s.invoices.UpdateInvoice(ctx, s.id, update)
			},
			func(saved *document.Invoice) {
				s.mu.Lock()
				s.record = saved
				s.draft = nil
				s.mu.Unlock()
			},
			func() {
				s.mu.Lock()
				s.record = snapshot
				s.mu.Unlock()
			},
		)
	})
}

// Confirm issues the invoice (DRAFT to SENT). Two-step.
func (s *Screen) Confirm(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return shared.ErrConfirmationRequired
	}
	return workspace.Guarded(s.guard, s.obs, screenName, document.ActionConfirm, func() error {
		if err := s.ensureTransition(document.InvoiceStatusSent); err != nil {
			return err
		}
		inv, err := s.invoices.ConfirmInvoice(ctx, s.id)
		if err != nil {
			return err
		}
		s.install(inv)
		return nil
	})
}

// Revert returns the invoice to draft. Two-step.
func (s *Screen) Revert(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return shared.ErrConfirmationRequired
	}
	return workspace.Guarded(s.guard, s.obs, screenName, document.ActionRevert, func() error {
		if err := s.ensureTransition(document.InvoiceStatusDraft); err != nil {
			return err
		}
		inv, err := s.invoices.RevertInvoice(ctx, s.id)
		if err != nil {
			return err
		}
		s.install(inv)
		return nil
	})
}

// SyncItems replaces every invoice item with a fresh pull from the
// originating deal. The replacement is destructive, so it is gated on an
// explicit confirmation and only allowed on a draft invoice.
func (s *Screen) SyncItems(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return shared.ErrConfirmationRequired
	}
	return workspace.Guarded(s.guard, s.obs, screenName, document.ActionSyncItems, func() error {
		s.mu.Lock()
		record := s.record
		s.mu.Unlock()
		if record == nil {
			return shared.ErrNotFound
		}
		if err := s.ensureActor(); err != nil {
			return err
		}
		if err := record.EnsureSyncable(); err != nil {
			return err
		}
		inv, err := s.invoices.SyncInvoiceItems(ctx, s.id)
		if err != nil {
			return err
		}
		s.install(inv)
		return nil
	})
}

// ConvertToReceipt produces the invoice's receipt. A duplicate conversion is
// answered with the existing receipt instead of an error.
func (s *Screen) ConvertToReceipt(ctx context.Context) (*ConversionResult, error) {
	var result *ConversionResult
	err := workspace.Guarded(s.guard, s.obs, screenName, document.ActionConvertToReceipt, func() error {
		s.mu.Lock()
		record := s.record
		s.mu.Unlock()
		if record == nil {
			return shared.ErrNotFound
		}
		if err := s.ensureActor(); err != nil {
			return err
		}
		if err := record.EnsureConvertible(); err != nil {
			return err
		}

		rec, err := s.invoices.CreateReceipt(ctx, s.id)
		if err != nil {
			var remote *document.RemoteError
			if errors.As(err, &remote) && remote.ReceiptID != "" {
				result = &ConversionResult{TargetID: remote.ReceiptID, AlreadyExisted: true}
				return nil
			}
			return err
		}

		s.mu.Lock()
		if s.record != nil {
			s.record.ReceiptID = rec.ID
		}
		s.mu.Unlock()
		result = &ConversionResult{TargetID: rec.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Screen) ensureActor() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureActorLocked()
}

func (s *Screen) ensureActorLocked() error {
	if s.record == nil {
		return shared.ErrNotFound
	}
	if !s.record.CanActOn(s.userID, s.role) {
		return shared.ErrReadOnly
	}
	return nil
}

func (s *Screen) ensureTransition(target document.InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return shared.ErrNotFound
	}
	if err := s.ensureActorLocked(); err != nil {
		return err
	}
	return s.record.EnsureTransition(target)
}

func (s *Screen) install(inv *document.Invoice) {
	s.mu.Lock()
	s.record = inv
	s.draft = nil
	s.mu.Unlock()
}
