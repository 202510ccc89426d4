package dto

import (
	"time"

	"github.com/shopspring/decimal"

	appinvoice "github.com/crm/workbench/internal/application/invoice"
	apppo "github.com/crm/workbench/internal/application/purchaseorder"
	appquotation "github.com/crm/workbench/internal/application/quotation"
	appreceipt "github.com/crm/workbench/internal/application/receipt"
	"github.com/crm/workbench/internal/domain/document"
)

// PartyRequest is an editable party snapshot in a request body.
type PartyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (p PartyRequest) ToSnapshot() document.PartySnapshot {
	return document.PartySnapshot{
		Name:    p.Name,
		Address: p.Address,
		TaxID:   p.TaxID,
		Phone:   p.Phone,
		Email:   p.Email,
	}
}

// LineItemRequest adds or updates one draft line item.
type LineItemRequest struct {
	Name      string          `json:"name" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
	Discount  decimal.Decimal `json:"discount"`
}

// ConfirmRequest carries the explicit second step of a confirmable action.
type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

// QuotationFieldsRequest replaces the editable fields of a quotation draft.
type QuotationFieldsRequest struct {
	ThemeColor      string          `json:"theme_color"`
	Customer        PartyRequest    `json:"customer"`
	SpecialDiscount decimal.Decimal `json:"special_discount"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	WHTRate         decimal.Decimal `json:"wht_rate"`
	CreditTerm      int             `json:"credit_term" binding:"min=0"`
	Terms           string          `json:"terms"`
}

func (r QuotationFieldsRequest) ToFields() appquotation.Fields {
	return appquotation.Fields{
		ThemeColor:      r.ThemeColor,
		Customer:        r.Customer.ToSnapshot(),
		SpecialDiscount: r.SpecialDiscount,
		VATRate:         r.VATRate,
		WHTRate:         r.WHTRate,
		CreditTerm:      r.CreditTerm,
		Terms:           r.Terms,
	}
}

// InvoiceFieldsRequest replaces the editable fields of an invoice draft.
type InvoiceFieldsRequest struct {
	Customer PartyRequest    `json:"customer"`
	Discount decimal.Decimal `json:"discount"`
	VATRate  decimal.Decimal `json:"vat_rate"`
	WHTRate  decimal.Decimal `json:"wht_rate"`
}

func (r InvoiceFieldsRequest) ToFields() appinvoice.Fields {
	return appinvoice.Fields{
		Customer: r.Customer.ToSnapshot(),
		Discount: r.Discount,
		VATRate:  r.VATRate,
		WHTRate:  r.WHTRate,
	}
}

// ReceiptFieldsRequest replaces the editable payment fields of a receipt
// draft.
type ReceiptFieldsRequest struct {
	Customer      PartyRequest `json:"customer"`
	Date          *time.Time   `json:"date"`
	PaymentDate   *time.Time   `json:"payment_date"`
	PaymentMethod string       `json:"payment_method"`
	Notes         string       `json:"notes"`
}

func (r ReceiptFieldsRequest) ToFields() appreceipt.Fields {
	return appreceipt.Fields{
		Customer:      r.Customer.ToSnapshot(),
		Date:          r.Date,
		PaymentDate:   r.PaymentDate,
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
	}
}

// PurchaseOrderFieldsRequest replaces the editable fields of a purchase
// order draft.
type PurchaseOrderFieldsRequest struct {
	Vendor          PartyRequest    `json:"vendor"`
	Date            *time.Time      `json:"date"`
	ExpectedDate    *time.Time      `json:"expected_date"`
	SpecialDiscount decimal.Decimal `json:"special_discount"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	ThemeColor      string          `json:"theme_color"`
	Terms           string          `json:"terms"`
	Notes           string          `json:"notes"`
}

func (r PurchaseOrderFieldsRequest) ToFields() apppo.Fields {
	return apppo.Fields{
		Vendor:          r.Vendor.ToSnapshot(),
		Date:            r.Date,
		ExpectedDate:    r.ExpectedDate,
		SpecialDiscount: r.SpecialDiscount,
		VATRate:         r.VATRate,
		ThemeColor:      r.ThemeColor,
		Terms:           r.Terms,
		Notes:           r.Notes,
	}
}

// VendorLookupRequest asks for a directory pre-fill of the vendor snapshot.
type VendorLookupRequest struct {
	Name string `json:"name" binding:"required"`
}

// QuotationView is the render model of the quotation screen.
type QuotationView struct {
	Quotation        *document.Quotation `json:"quotation"`
	Totals           document.Totals     `json:"totals"`
	TotalsSource     string              `json:"totals_source"`
	Editing          bool                `json:"editing"`
	AvailableActions []document.Action   `json:"available_actions"`
}

func NewQuotationView(v *appquotation.View) QuotationView {
	return QuotationView{
		Quotation:        v.Quotation,
		Totals:           v.Totals,
		TotalsSource:     string(v.TotalsSource),
		Editing:          v.Editing,
		AvailableActions: v.AvailableActions,
	}
}

// InvoiceView is the render model of the invoice screen.
type InvoiceView struct {
	Invoice          *document.Invoice `json:"invoice"`
	Totals           document.Totals   `json:"totals"`
	TotalsSource     string            `json:"totals_source"`
	Editing          bool              `json:"editing"`
	ReadOnly         bool              `json:"read_only"`
	AvailableActions []document.Action `json:"available_actions"`
}

func NewInvoiceView(v *appinvoice.View) InvoiceView {
	return InvoiceView{
		Invoice:          v.Invoice,
		Totals:           v.Totals,
		TotalsSource:     string(v.TotalsSource),
		Editing:          v.Editing,
		ReadOnly:         v.ReadOnly,
		AvailableActions: v.AvailableActions,
	}
}

// ReceiptView is the render model of the receipt screen.
type ReceiptView struct {
	Receipt          *document.Receipt `json:"receipt"`
	Editing          bool              `json:"editing"`
	AvailableActions []document.Action `json:"available_actions"`
}

func NewReceiptView(v *appreceipt.View) ReceiptView {
	return ReceiptView{
		Receipt:          v.Receipt,
		Editing:          v.Editing,
		AvailableActions: v.AvailableActions,
	}
}

// PurchaseOrderView is the render model of the purchase order screen.
type PurchaseOrderView struct {
	PurchaseOrder    *document.PurchaseOrder `json:"purchase_order"`
	Totals           document.Totals         `json:"totals"`
	TotalsSource     string                  `json:"totals_source"`
	Editing          bool                    `json:"editing"`
	AvailableActions []document.Action       `json:"available_actions"`
}

func NewPurchaseOrderView(v *apppo.View) PurchaseOrderView {
	return PurchaseOrderView{
		PurchaseOrder:    v.PurchaseOrder,
		Totals:           v.Totals,
		TotalsSource:     string(v.TotalsSource),
		Editing:          v.Editing,
		AvailableActions: v.AvailableActions,
	}
}
