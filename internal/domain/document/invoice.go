package document

import (
	"fmt"
	"time"

	"github.com/crm/workbench/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Role is the CRM role carried in the auth token. ADMIN and MANAGER may act
// on any invoice; everyone else only on invoices of deals they own.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleSales   Role = "SALES"
)

// IsElevated reports whether the role bypasses the deal-ownership check.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// Invoice mirrors a billing document owned by the backend. The persisted
// totals are rendered exactly as the server returned them; the local
// calculator only previews drafts and never overwrites these fields.
type Invoice struct {
	ID            string          `json:"id"`
	DealID        string          `json:"dealId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Status        InvoiceStatus   `json:"status"`
	Customer      PartySnapshot   `json:"customer"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	VATRate       decimal.Decimal `json:"vatRate"`
	VATAmount     decimal.Decimal `json:"vatAmount"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	WHTRate       decimal.Decimal `json:"whtRate"`
	WHTAmount     decimal.Decimal `json:"whtAmount"`
	NetTotal      decimal.Decimal `json:"netTotal"`
	ConfirmedAt   *time.Time      `json:"confirmedAt,omitempty"`
	ReceiptID     string          `json:"receiptId,omitempty"`
	OwnerID       string          `json:"ownerId"`
}

// HasReceipt reports whether the invoice already has a receipt back-reference.
func (inv *Invoice) HasReceipt() bool {
	return inv.ReceiptID != ""
}

// CanEdit reports whether item and customer-field edits are allowed.
func (inv *Invoice) CanEdit() bool {
	return inv.Status == InvoiceStatusDraft
}

// CanActOn reports whether the given user may mutate this invoice: deal
// owners and elevated roles only. Everyone else gets the read-only view.
func (inv *Invoice) CanActOn(userID string, role Role) bool {
	return role.IsElevated() || (userID != "" && userID == inv.OwnerID)
}

// AllowedActions returns the action set for a user, empty for read-only
// viewers so no edit affordance is ever rendered for them.
func (inv *Invoice) AllowedActions(userID string, role Role) ActionSet {
	if !inv.CanActOn(userID, role) {
		return NewActionSet()
	}
	return AllowedInvoiceActions(inv.Status, inv.HasReceipt())
}

// EnsureTransition validates a status transition without applying it.
func (inv *Invoice) EnsureTransition(target InvoiceStatus) error {
	if !inv.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move invoice from %s to %s", inv.Status, target))
	}
	return nil
}

// EnsureConvertible validates the convert-to-receipt preconditions: the
// invoice has been sent (or paid) and no receipt exists yet.
func (inv *Invoice) EnsureConvertible() error {
	if inv.Status != InvoiceStatusSent && inv.Status != InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot create a receipt for a %s invoice", inv.Status))
	}
	if inv.HasReceipt() {
		return shared.NewDomainError("RECEIPT_EXISTS", "Invoice already has a receipt")
	}
	return nil
}

// EnsureSyncable validates the sync-items precondition. Syncing replaces all
// invoice items from the source deal, so it is draft-only.
func (inv *Invoice) EnsureSyncable() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Items can only be synced while the invoice is a draft")
	}
	return nil
}

// PersistedTotals exposes the server-owned totals in calculator shape so view
// code renders one structure regardless of the totals source.
func (inv *Invoice) PersistedTotals() Totals {
	afterDiscount := inv.GrandTotal.Sub(inv.VATAmount)
	return Totals{
		Subtotal:        inv.Subtotal,
		SpecialDiscount: inv.Discount,
		TotalDiscount:   inv.Discount,
		AfterDiscount:   afterDiscount,
		VATRate:         inv.VATRate,
		VATAmount:       inv.VATAmount,
		GrandTotal:      inv.GrandTotal,
		WHTRate:         inv.WHTRate,
		WHTAmount:       inv.WHTAmount,
		NetTotal:        inv.NetTotal,
	}
}

// DraftTotals derives preview totals from the current in-memory items.
func (inv *Invoice) DraftTotals() Totals {
	return ComputeTotals(inv.Items, inv.Discount, inv.VATRate, inv.WHTRate)
}

// Clone returns a deep copy, used for pre-save snapshots.
func (inv *Invoice) Clone() *Invoice {
	if inv == nil {
		return nil
	}
	out := *inv
	out.Items = CloneItems(inv.Items)
	if inv.ConfirmedAt != nil {
		t := *inv.ConfirmedAt
		out.ConfirmedAt = &t
	}
	return &out
}
