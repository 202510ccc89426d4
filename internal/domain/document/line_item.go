package document

import (
	"strings"

	"github.com/crm/workbench/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TempIDPrefix marks line items that exist only in a local draft and have not
// been persisted yet. The backend replaces these IDs on save.
const TempIDPrefix = "temp-"

// LineItem represents a priced line on a document. Discount is an absolute
// currency amount, not a percentage.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Discount  decimal.Decimal `json:"discount"`
}

// NewLineItem creates a validated line item with a server-assigned or
// client-temporary ID.
func NewLineItem(id, name string, quantity int, unitPrice, discount decimal.Decimal) (LineItem, error) {
	if id == "" {
		id = NewTempItemID()
	}
	if name == "" {
		return LineItem{}, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity < 1 {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_DISCOUNT", "Item discount cannot be negative")
	}

	return LineItem{
		ID:        id,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Discount:  discount,
	}, nil
}

// NewTempItemID generates a client-side ID for a not-yet-persisted item.
func NewTempItemID() string {
	return TempIDPrefix + uuid.New().String()
}

// IsTempItemID reports whether the ID belongs to a not-yet-persisted item.
func IsTempItemID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// GrossAmount returns Quantity × UnitPrice before the item discount.
func (i LineItem) GrossAmount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NetAmount returns the item amount after its discount, clamped at zero so a
// discount larger than the gross amount never produces a negative line.
func (i LineItem) NetAmount() decimal.Decimal {
	net := i.GrossAmount().Sub(i.Discount)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// IsPersisted reports whether the item has a server-assigned ID.
func (i LineItem) IsPersisted() bool {
	return !IsTempItemID(i.ID)
}

// CloneItems returns a deep copy of the given item slice.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
