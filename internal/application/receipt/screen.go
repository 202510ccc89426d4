package receipt

import (
	"context"
	"sync"
	"time"

	"github.com/crm/workbench/internal/application/workspace"
	"github.com/crm/workbench/internal/domain/document"
	"github.com/crm/workbench/internal/domain/shared"
)

const screenName = "receipt"

// Screen is one user's working session on a receipt. Only payment metadata
// is editable; items and totals are frozen copies from the parent invoice.
type Screen struct {
	mu       sync.Mutex
	id       string
	receipts document.ReceiptGateway
	guard    *workspace.Guard
	obs      workspace.Observer

	record *document.Receipt
	draft  *document.Receipt
}

func NewScreen(id string, receipts document.ReceiptGateway, obs workspace.Observer) *Screen {
	return &Screen{
		id:       id,
		receipts: receipts,
		guard:    workspace.NewGuard(),
		obs:      obs,
	}
}

// View is the render model handed to the HTTP layer.
type View struct {
	Receipt          *document.Receipt
	Editing          bool
	AvailableActions []document.Action
}

// Fields is the editable payment surface of a draft receipt.
type Fields struct {
	Customer      document.PartySnapshot
	Date          *time.Time
	PaymentDate   *time.Time
	PaymentMethod string
	Notes         string
}

// Load fetches the receipt and discards any stale draft.
func (s *Screen) Load(ctx context.Context) error {
	r, err := s.receipts.GetReceipt(ctx, s.id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.record = r
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
	if s.draft != nil {
		doc = s.draft
	}
	return &View{
		Receipt:          doc.Clone(),
		Editing:          s.draft != nil,
		AvailableActions: s.record.AllowedActions().List(),
	}, nil
}

// BeginEdit opens an edit draft on a DRAFT receipt.
func (s *Screen) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return shared.ErrNotFound
	}
	if !s.record.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", "Receipt can only be edited while in draft")
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

// SetFields replaces the editable payment fields of the draft.
func (s *Screen) SetFields(f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return shared.ErrNotEditing
	}
	s.draft.Customer = f.Customer
	s.draft.Date = f.Date
	s.draft.PaymentDate = f.PaymentDate
	s.draft.PaymentMethod = f.PaymentMethod
	s.draft.Notes = f.Notes
	return nil
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
		update := document.ReceiptUpdate{
			Customer:      draft.Customer,
			Date:          draft.Date,
			PaymentDate:   draft.PaymentDate,
			PaymentMethod: draft.PaymentMethod,
			Notes:         draft.Notes,
		}
		s.mu.Unlock()

		return workspace.Optimistic(ctx,
			func(ctx context.Context) (*document.Receipt, error) {
				return s.receipts.UpdateReceipt(ctx, s.id, update)
			},
			func(saved *document.Receipt) {
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

// Confirm issues the receipt (DRAFT to ISSUED). Two-step.
func (s *Screen) Confirm(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return shared.ErrConfirmationRequired
	}
	return workspace.Guarded(s.guard, s.obs, screenName, document.ActionConfirm, func() error {
		if err := s.ensureTransition(document.ReceiptStatusIssued); err != nil {
			return err
		}
		r, err := s.receipts.ConfirmReceipt(ctx, s.id)
		if err != nil {
			return err
		}
		s.install(r)
		return nil
	})
}

// Revert returns an issued receipt to draft. Two-step.
func (s *Screen) Revert(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return shared.ErrConfirmationRequired
	}
	return workspace.Guarded(s.guard, s.obs, screenName, document.ActionRevert, func() error {
		if err := s.ensureTransition(document.ReceiptStatusDraft); err != nil {
			return err
		}
		r, err := s.receipts.RevertReceipt(ctx, s.id)
		if err != nil {
			return err
		}
		s.install(r)
		return nil
	})
}

func (s *Screen) ensureTransition(target document.ReceiptStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return shared.ErrNotFound
	}
	return s.record.EnsureTransition(target)
}

func (s *Screen) install(r *document.Receipt) {
	s.mu.Lock()
	s.record = r
	s.draft = nil
	s.mu.Unlock()
}
