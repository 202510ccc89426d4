package document

import (
	"fmt"
	"time"

	"github.com/crm/workbench/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Receipt is the proof-of-payment document for an invoice. Items and totals
// are read-only copies from the parent invoice; a receipt never owns its own
// line items. The editable surface is the payment metadata.
type Receipt struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoiceId"`
	ReceiptNumber string          `json:"receiptNumber"`
	Status        ReceiptStatus   `json:"status"`
	Customer      PartySnapshot   `json:"customer"`
	Date          *time.Time      `json:"date,omitempty"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes"`
	ConfirmedAt   *time.Time      `json:"confirmedAt,omitempty"`
	Items         []LineItem      `json:"items"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	NetTotal      decimal.Decimal `json:"netTotal"`
}

// CanEdit reports whether payment fields are currently editable.
func (r *Receipt) CanEdit() bool {
	return r.Status == ReceiptStatusDraft
}

// AllowedActions returns the action set legal in the current state.
func (r *Receipt) AllowedActions() ActionSet {
	return AllowedReceiptActions(r.Status)
}

// EnsureTransition validates a status transition without applying it.
func (r *Receipt) EnsureTransition(target ReceiptStatus) error {
	if !r.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move receipt from %s to %s", r.Status, target))
	}
	return nil
}

// Clone returns a deep copy, used for pre-save snapshots.
func (r *Receipt) Clone() *Receipt {
	if r == nil {
		return nil
	}
	out := *r
	out.Items = CloneItems(r.Items)
	out.Date = cloneTime(r.Date)
	out.PaymentDate = cloneTime(r.PaymentDate)
	out.ConfirmedAt = cloneTime(r.ConfirmedAt)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
