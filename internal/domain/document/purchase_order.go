package document

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewPurchaseOrderID is the sentinel ID of a purchase order that has not been
// saved yet. The backend assigns the permanent ID on first save, and the
// screen answers with a canonical-location redirect (history replace, not
// push) so the browser lands on the real URL.
const NewPurchaseOrderID = "new"

// PurchaseOrder is an outgoing order to a vendor. It owns its line items
// independently of any deal and has no status machine: it stays editable for
// its whole life.
type PurchaseOrder struct {
	ID              string          `json:"id"`
	Vendor          PartySnapshot   `json:"vendor"`
	Date            *time.Time      `json:"date,omitempty"`
	ExpectedDate    *time.Time      `json:"expectedDate,omitempty"`
	Items           []LineItem      `json:"items"`
	SpecialDiscount decimal.Decimal `json:"discount"`
	VATRate         decimal.Decimal `json:"vatRate"`
	ThemeColor      string          `json:"themeColor"`
	Terms           string          `json:"terms"`
	Notes           string          `json:"notes"`
}

// IsPersisted reports whether the backend has assigned a permanent ID.
func (po *PurchaseOrder) IsPersisted() bool {
	return po.ID != "" && po.ID != NewPurchaseOrderID
}

// AllowedActions returns the action set for the current record.
func (po *PurchaseOrder) AllowedActions() ActionSet {
	return AllowedPurchaseOrderActions(po.IsPersisted())
}

// Totals derives the live totals from the order's current line items.
// Purchase orders carry no withholding tax.
func (po *PurchaseOrder) Totals() Totals {
	return ComputeTotals(po.Items, po.SpecialDiscount, po.VATRate, decimal.Zero)
}

// Clone returns a deep copy, used for pre-save snapshots.
func (po *PurchaseOrder) Clone() *PurchaseOrder {
	if po == nil {
		return nil
	}
	out := *po
	out.Items = CloneItems(po.Items)
	out.Date = cloneTime(po.Date)
	out.ExpectedDate = cloneTime(po.ExpectedDate)
	return &out
}
