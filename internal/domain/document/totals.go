package document

import (
	"github.com/shopspring/decimal"
)

// TotalsSource selects which item set a screen derives totals from. In edit
// mode totals come from the in-memory draft; in view mode they come from the
// persisted record. Callers pick one source per render and never mix the two.
type TotalsSource string

const (
	TotalsSourceDraft     TotalsSource = "draft"
	TotalsSourcePersisted TotalsSource = "persisted"
)

// Totals holds the derived financial summary of a document. It is computed,
// never stored: the backend persists its own copy which is authoritative for
// rendering confirmed documents.
type Totals struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	ItemDiscountTotal decimal.Decimal `json:"itemDiscountTotal"`
	SpecialDiscount   decimal.Decimal `json:"specialDiscount"`
	TotalDiscount     decimal.Decimal `json:"totalDiscount"`
	AfterDiscount     decimal.Decimal `json:"afterDiscount"`
	VATRate           decimal.Decimal `json:"vatRate"`
	VATAmount         decimal.Decimal `json:"vatAmount"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`
	WHTRate           decimal.Decimal `json:"whtRate"`
	WHTAmount         decimal.Decimal `json:"whtAmount"`
	NetTotal          decimal.Decimal `json:"netTotal"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives document totals from line items plus the
// document-level special discount and the VAT/WHT percentage rates.
//
//   - subtotal     = Σ quantity × unitPrice
//   - afterDiscount = max(0, subtotal − itemDiscounts − specialDiscount)
//   - vatAmount    = afterDiscount × vatRate/100
//   - grandTotal   = afterDiscount + vatAmount
//   - whtAmount    = afterDiscount × whtRate/100 (withholding applies to the
//     after-discount base, not the grand total)
//   - netTotal     = grandTotal − whtAmount
//
// VAT and WHT are never computed on a negative base: when discounts exceed the
// subtotal the after-discount amount clamps to zero and everything downstream
// follows. An empty item list yields all-zero totals.
func ComputeTotals(items []LineItem, specialDiscount, vatRate, whtRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	itemDiscounts := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.GrossAmount())
		itemDiscounts = itemDiscounts.Add(item.Discount)
	}

	totalDiscount := itemDiscounts.Add(specialDiscount)
	afterDiscount := subtotal.Sub(totalDiscount)
	if afterDiscount.IsNegative() {
		afterDiscount = decimal.Zero
	}

	vatAmount := afterDiscount.Mul(vatRate).Div(oneHundred)
	grandTotal := afterDiscount.Add(vatAmount)
	whtAmount := afterDiscount.Mul(whtRate).Div(oneHundred)

	return Totals{
		Subtotal:          subtotal,
		ItemDiscountTotal: itemDiscounts,
		SpecialDiscount:   specialDiscount,
		TotalDiscount:     totalDiscount,
		AfterDiscount:     afterDiscount,
		VATRate:           vatRate,
		VATAmount:         vatAmount,
		GrandTotal:        grandTotal,
		WHTRate:           whtRate,
		WHTAmount:         whtAmount,
		NetTotal:          grandTotal.Sub(whtAmount),
	}
}
