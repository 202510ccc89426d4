package document

import (
	"fmt"

	"github.com/crm/workbench/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartySnapshot is an independent copy of a contact or company captured onto a
// document. It is editable on the document and never synced back to the
// directory record it was copied from.
type PartySnapshot struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"taxId"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Quotation is the priced-proposal view of a deal. The backend owns the
// quotation number (assigned on first generation) and the persisted state;
// this mirror enforces transition legality before a remote call is attempted.
type Quotation struct {
	DealID          string          `json:"dealId"`
	QuotationNumber string          `json:"quotationNumber"`
	Status          QuotationStatus `json:"status"`
	Approved        bool            `json:"approved"`
	ThemeColor      string          `json:"themeColor"`
	Customer        PartySnapshot   `json:"customer"`
	Items           []LineItem      `json:"items"`
	SpecialDiscount decimal.Decimal `json:"discount"`
	VATRate         decimal.Decimal `json:"vatRate"`
	WHTRate         decimal.Decimal `json:"whtRate"`
	CreditTerm      int             `json:"creditTerm"`
	Terms           string          `json:"terms"`
	OwnerID         string          `json:"ownerId"`
	InvoiceID       string          `json:"invoiceId,omitempty"`
}

// HasNumber reports whether the backend has assigned a quotation number yet.
// A quotation without a number must be generated before it can be rendered.
func (q *Quotation) HasNumber() bool {
	return q.QuotationNumber != ""
}

// CanEdit reports whether field and item edits are currently allowed.
func (q *Quotation) CanEdit() bool {
	return q.Status == QuotationStatusDraft
}

// AllowedActions returns the action set legal in the current state.
func (q *Quotation) AllowedActions() ActionSet {
	return AllowedQuotationActions(q.Status, q.Approved)
}

// EnsureTransition validates a status transition without applying it. The
// server applies the actual change; this guard keeps illegal requests local.
func (q *Quotation) EnsureTransition(target QuotationStatus) error {
	if !q.Status.CanTransitionTo(target, q.Approved) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move quotation from %s to %s", q.Status, target))
	}
	return nil
}

// EnsureConvertible validates the preconditions for producing an invoice from
// this quotation: a generated number and at least one line item.
func (q *Quotation) EnsureConvertible() error {
	if !q.HasNumber() {
		return shared.NewDomainError("NO_QUOTATION_NUMBER", "Quotation number has not been generated yet")
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot create an invoice from a quotation without items")
	}
	return nil
}

// Totals derives the live totals from the quotation's current line items.
func (q *Quotation) Totals() Totals {
	return ComputeTotals(q.Items, q.SpecialDiscount, q.VATRate, q.WHTRate)
}

// Clone returns a deep copy, used for pre-save snapshots.
func (q *Quotation) Clone() *Quotation {
	if q == nil {
		return nil
	}
	out := *q
	out.Items = CloneItems(q.Items)
	return &out
}
