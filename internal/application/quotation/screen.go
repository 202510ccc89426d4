package quotation

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/crm/workbench/internal/application/workspace"
	"github.com/crm/workbench/internal/domain/document"
	"github.com/crm/workbench/internal/domain/shared"
)

const screenName = "quotation"

// Screen is one user's working session on a deal's quotation. It keeps the
// authoritative record, the edit draft, and the in-flight guard between
// requests. All methods are safe for concurrent use.
type Screen struct {
	mu     sync.Mutex
	dealID string
	deals  document.DealGateway
	guard  *workspace.Guard
	obs    workspace.Observer

	record *document.Quotation
	draft  *document.Quotation
}

func NewScreen(dealID string, deals document.DealGateway, obs workspace.Observer) *Screen {
	return &Screen{
		dealID: dealID,
		deals:  deals,
		guard:  workspace.NewGuard(),
		obs:    obs,
	}
}

// View is the render model handed to the HTTP layer.
type View struct {
	Quotation        *document.Quotation
	Totals           document.Totals
	TotalsSource     document.TotalsSource
	Editing          bool
	AvailableActions []document.Action
}

// Fields is the non-item editable surface of the quotation.
type Fields struct {
	ThemeColor      string
	Customer        document.PartySnapshot
	SpecialDiscount decimal.Decimal
	VATRate         decimal.Decimal
	WHTRate         decimal.Decimal
	CreditTerm      int
	Terms           string
}

// ConversionResult reports the outcome of producing a downstream document.
// AlreadyExisted is set when the backend refused a duplicate conversion and
// handed back the earlier target; callers redirect instead of erroring.
type ConversionResult struct {
	TargetID       string
	AlreadyExisted bool
}

// Load fetches the quotation, generating its number first when the backend
// has not assigned one yet.
func (s *Screen) Load(ctx context.Context) error {
	q, err := s.deals.GetQuotation(ctx, s.dealID)
	if err != nil {
		return err
	}
	if !q.HasNumber() {
		q, err = s.deals.GenerateQuotation(ctx, s.dealID)
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = q
	s.draft = nil
	return nil
}

// View returns the current render model. While editing, the draft and its
// live totals are shown; otherwise the last loaded record.
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
		Quotation:        doc.Clone(),
		Totals:           doc.Totals(),
		TotalsSource:     source,
		Editing:          s.draft != nil,
		AvailableActions: s.record.AllowedActions().List(),
	}, nil
}

// BeginEdit opens an edit draft. Only a DRAFT quotation is editable.
func (s *Screen) BeginEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return shared.ErrNotFound
	}
	if !s.record.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", "Quotation can only be edited while in draft")
	}
	if s.draft == nil {
		s.draft = s.record.Clone()
	}
	return nil
}

// Cancel discards the draft and returns to the last saved record.
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
	s.draft.ThemeColor = f.ThemeColor
	s.draft.Customer = f.Customer
	s.draft.SpecialDiscount = f.SpecialDiscount
	s.draft.VATRate = f.VATRate
	s.draft.WHTRate = f.WHTRate
	s.draft.CreditTerm = f.CreditTerm
	s.draft.Terms = f.Terms
	return nil
}

// AddItem appends a new draft line item under a temporary ID. The backend
// replaces temporary IDs with permanent ones on save.
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

// Save persists the draft. The draft is applied locally first; if the backend
// rejects it the previous record is restored and the draft kept so the user
// stays in edit mode with their changes intact.
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
		update := document.QuotationUpdate{
			ThemeColor:      draft.ThemeColor,
			Customer:        draft.Customer,
			Items:           document.CloneItems(draft.Items),
			SpecialDiscount: draft.SpecialDiscount,
			VATRate:         draft.VATRate,
			WHTRate:         draft.WHTRate,
			CreditTerm:      draft.CreditTerm,
			Terms:           draft.Terms,
		}
		s.mu.Unlock()

		return workspace.Optimistic(ctx,
			func(ctx context.Context) (*document.Quotation, error) {
				return s.deals.UpdateQuotation(ctx, s.dealID, update)
			},
			func(saved *document.Quotation) {
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

// Confirm sends the quotation (DRAFT to SENT). It is a two-step action: the
// first call without confirmed=true is rejected so the UI can show a dialog.
func (s *Screen) Confirm(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return shared.ErrConfirmationRequired
	}
	return workspace.Guarded(s.guard, s.obs, screenName, document.ActionConfirm, func() error {
		if err := s.ensureTransition(document.QuotationStatusSent); err != nil {
			return err
		}
		q, err := s.deals.ConfirmQuotation(ctx, s.dealID)
		if err != nil {
			return err
		}
		s.install(q)
		return nil
	})
}

// Revert returns a sent quotation to draft. Blocked once the customer has
// approved.
func (s *Screen) Revert(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return shared.ErrConfirmationRequired
	}
	return workspace.Guarded(s.guard, s.obs, screenName, document.ActionRevert, func() error {
		if err := s.ensureTransition(document.QuotationStatusDraft); err != nil {
			return err
		}
		q, err := s.deals.RevertQuotation(ctx, s.dealID)
		if err != nil {
			return err
		}
		s.install(q)
		return nil
	})
}

// ConfirmPurchase records the customer's approval and immediately converts
// the quotation to an invoice. Approval and conversion are separate backend
// calls: when approval succeeds but conversion fails, the quotation is left
// approved and the create-invoice action stays available for a retry.
func (s *Screen) ConfirmPurchase(ctx context.Context, confirmed bool) (*ConversionResult, error) {
	if !confirmed {
		return nil, shared.ErrConfirmationRequired
	}
	var result *ConversionResult
	err := workspace.Guarded(s.guard, s.obs, screenName, document.ActionConfirmPurchase, func() error {
		if err := s.ensureTransition(document.QuotationStatusApproved); err != nil {
			return err
		}
		q, err := s.deals.ApproveQuotation(ctx, s.dealID)
		if err != nil {
			return err
		}
		s.install(q)

		result, err = s.convert(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateInvoice converts the quotation without re-approving, used both from
// an APPROVED quotation and as the retry after a failed purchase
// confirmation.
func (s *Screen) CreateInvoice(ctx context.Context) (*ConversionResult, error) {
	var result *ConversionResult
	err := workspace.Guarded(s.guard, s.obs, screenName, document.ActionCreateInvoice, func() error {
		var err error
		result, err = s.convert(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Screen) convert(ctx context.Context) (*ConversionResult, error) {
	s.mu.Lock()
	record := s.record
	s.mu.Unlock()
	if record == nil {
		return nil, shared.ErrNotFound
	}
	if err := record.EnsureConvertible(); err != nil {
		return nil, err
	}

	inv, err := s.deals.CreateInvoice(ctx, s.dealID)
	if err != nil {
		var remote *document.RemoteError
		if errors.As(err, &remote) && remote.InvoiceID != "" {
			return &ConversionResult{TargetID: remote.InvoiceID, AlreadyExisted: true}, nil
		}
		return nil, err
	}

	s.mu.Lock()
	if s.record != nil {
		s.record.InvoiceID = inv.ID
	}
	s.mu.Unlock()
	return &ConversionResult{TargetID: inv.ID}, nil
}

func (s *Screen) ensureTransition(target document.QuotationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return shared.ErrNotFound
	}
	return s.record.EnsureTransition(target)
}

func (s *Screen) install(q *document.Quotation) {
	s.mu.Lock()
	s.record = q
	s.draft = nil
	s.mu.Unlock()
}
