package document

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RemoteError is a structured failure returned by the CRM backend. For
// conversion calls the backend reports a duplicate conversion by carrying the
// ID of the already-existing target document; callers must check those fields
// before treating the error as fatal.
type RemoteError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	InvoiceID  string `json:"invoiceId,omitempty"`
	ReceiptID  string `json:"receiptId,omitempty"`
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "remote call failed"
}

// ExistingTarget returns the pre-existing conversion target carried by an
// idempotency conflict, or empty when the error is a genuine failure.
func (e *RemoteError) ExistingTarget() string {
	if e.InvoiceID != "" {
		return e.InvoiceID
	}
	return e.ReceiptID
}

// QuotationUpdate is the editable field set written back to the deal on save.
// All fields are sent; the server response becomes the new authoritative
// record.
type QuotationUpdate struct {
	ThemeColor      string          `json:"themeColor"`
	Customer        PartySnapshot   `json:"customer"`
	Items           []LineItem      `json:"items"`
	SpecialDiscount decimal.Decimal `json:"discount"`
	VATRate         decimal.Decimal `json:"vatRate"`
	WHTRate         decimal.Decimal `json:"whtRate"`
	CreditTerm      int             `json:"creditTerm"`
	Terms           string          `json:"terms"`
}

// InvoiceUpdate is the editable field set of a draft invoice.
type InvoiceUpdate struct {
	Customer PartySnapshot   `json:"customer"`
	Items    []LineItem      `json:"items"`
	Discount decimal.Decimal `json:"discount"`
	VATRate  decimal.Decimal `json:"vatRate"`
	WHTRate  decimal.Decimal `json:"whtRate"`
}

// ReceiptUpdate is the editable field set of a draft receipt.
type ReceiptUpdate struct {
	Customer      PartySnapshot `json:"customer"`
	Date          *time.Time    `json:"date,omitempty"`
	PaymentDate   *time.Time    `json:"paymentDate,omitempty"`
	PaymentMethod string        `json:"paymentMethod"`
	Notes         string        `json:"notes"`
}

// PurchaseOrderUpdate is the full editable state of a purchase order, used
// for both create and update.
type PurchaseOrderUpdate struct {
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

// Company is a directory record used to pre-fill vendor snapshots.
type Company struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"taxId"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// DealGateway exposes the quotation face of a deal on the CRM backend.
type DealGateway interface {
	// GetQuotation loads the quotation view of a deal.
	GetQuotation(ctx context.Context, dealID string) (*Quotation, error)

	// GenerateQuotation asks the backend to assign a quotation number. Called
	// lazily on first view when the number is absent.
	GenerateQuotation(ctx context.Context, dealID string) (*Quotation, error)

	// UpdateQuotation persists draft edits and returns the authoritative record.
	UpdateQuotation(ctx context.Context, dealID string, update QuotationUpdate) (*Quotation, error)

	// ConfirmQuotation transitions DRAFT→SENT.
	ConfirmQuotation(ctx context.Context, dealID string) (*Quotation, error)

	// RevertQuotation transitions SENT→DRAFT.
	RevertQuotation(ctx context.Context, dealID string) (*Quotation, error)

	// ApproveQuotation records the customer's purchase confirmation.
	ApproveQuotation(ctx context.Context, dealID string) (*Quotation, error)

	// CreateInvoice converts the deal's quotation into an invoice. A
	// duplicate conversion fails with a RemoteError carrying the existing
	// invoice ID.
	CreateInvoice(ctx context.Context, dealID string) (*Invoice, error)
}

// InvoiceGateway exposes invoice operations on the CRM backend.
type InvoiceGateway interface {
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
	UpdateInvoice(ctx context.Context, id string, update InvoiceUpdate) (*Invoice, error)

	// ConfirmInvoice transitions DRAFT→SENT; the server stamps confirmedAt.
	ConfirmInvoice(ctx context.Context, id string) (*Invoice, error)

	// RevertInvoice transitions SENT|PAID→DRAFT without clearing confirmedAt.
	RevertInvoice(ctx context.Context, id string) (*Invoice, error)

	// SyncInvoiceItems replaces all invoice items with a fresh pull from the
	// originating deal.
	SyncInvoiceItems(ctx context.Context, id string) (*Invoice, error)

	// CreateReceipt converts the invoice into a receipt. A duplicate
	// conversion fails with a RemoteError carrying the existing receipt ID.
	CreateReceipt(ctx context.Context, id string) (*Receipt, error)
}

// ReceiptGateway exposes receipt operations on the CRM backend.
type ReceiptGateway interface {
	GetReceipt(ctx context.Context, id string) (*Receipt, error)
	UpdateReceipt(ctx context.Context, id string, update ReceiptUpdate) (*Receipt, error)
	ConfirmReceipt(ctx context.Context, id string) (*Receipt, error)
	RevertReceipt(ctx context.Context, id string) (*Receipt, error)
}

// PurchaseOrderGateway exposes purchase order CRUD on the CRM backend.
type PurchaseOrderGateway interface {
	GetPurchaseOrder(ctx context.Context, id string) (*PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, update PurchaseOrderUpdate) (*PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, id string, update PurchaseOrderUpdate) (*PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, id string) error
}

// DirectoryGateway looks up companies for vendor pre-fill.
type DirectoryGateway interface {
	FindCompanyByName(ctx context.Context, name string) (*Company, error)
}
