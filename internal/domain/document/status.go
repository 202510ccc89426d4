package document

// Action is a user-triggered operation on a document. The HTTP layer renders
// buttons from the allowed-action set instead of re-deriving status legality
// at every call site.
type Action string

const (
	ActionEdit             Action = "edit"
	ActionSave             Action = "save"
	ActionConfirm          Action = "confirm"
	ActionRevert           Action = "revert"
	ActionConfirmPurchase  Action = "confirm_purchase"
	ActionCreateInvoice    Action = "create_invoice"
	ActionSyncItems        Action = "sync_items"
	ActionConvertToReceipt Action = "convert_to_receipt"
	ActionDelete           Action = "delete"
)

// ActionSet is the set of actions currently legal on a document.
type ActionSet map[Action]struct{}

// NewActionSet builds a set from the given actions.
func NewActionSet(actions ...Action) ActionSet {
	set := make(ActionSet, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Contains reports whether the action is in the set.
func (s ActionSet) Contains(a Action) bool {
	_, ok := s[a]
	return ok
}

// List returns the actions in a stable order for serialization.
func (s ActionSet) List() []Action {
	order := []Action{
		ActionEdit, ActionSave, ActionConfirm, ActionRevert,
		ActionConfirmPurchase, ActionCreateInvoice, ActionSyncItems,
		ActionConvertToReceipt, ActionDelete,
	}
	out := make([]Action, 0, len(s))
	for _, a := range order {
		if s.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "DRAFT"
	QuotationStatusSent     QuotationStatus = "SENT"
	QuotationStatusApproved QuotationStatus = "APPROVED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusApproved:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The approved flag blocks the SENT→DRAFT revert: once the customer has
// approved, the confirmation is one-way.
func (s QuotationStatus) CanTransitionTo(target QuotationStatus, approved bool) bool {
	switch s {
	case QuotationStatusDraft:
		return target == QuotationStatusSent
	case QuotationStatusSent:
		if target == QuotationStatusDraft {
			return !approved
		}
		return target == QuotationStatusApproved
	case QuotationStatusApproved:
		return false
	}
	return false
}

// AllowedQuotationActions computes the legal action set for a quotation in the
// given state.
func AllowedQuotationActions(status QuotationStatus, approved bool) ActionSet {
	set := NewActionSet()
	switch status {
	case QuotationStatusDraft:
		set = NewActionSet(ActionEdit, ActionSave, ActionConfirm)
	case QuotationStatusSent:
		set = NewActionSet(ActionCreateInvoice)
		if !approved {
			set[ActionRevert] = struct{}{}
			set[ActionConfirmPurchase] = struct{}{}
		}
	case QuotationStatusApproved:
		set = NewActionSet(ActionCreateInvoice)
	}
	return set
}

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	InvoiceStatusSent  InvoiceStatus = "SENT"
	InvoiceStatusPaid  InvoiceStatus = "PAID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// PAID is reached externally, never through this client, but both SENT and
// PAID revert to DRAFT.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent
	case InvoiceStatusSent, InvoiceStatusPaid:
		return target == InvoiceStatusDraft
	}
	return false
}

// AllowedInvoiceActions computes the legal action set for an invoice. The
// hasReceipt flag gates conversion: an invoice with a receipt back-reference
// is never offered convert-to-receipt again.
func AllowedInvoiceActions(status InvoiceStatus, hasReceipt bool) ActionSet {
	switch status {
	case InvoiceStatusDraft:
		return NewActionSet(ActionEdit, ActionSave, ActionSyncItems, ActionConfirm)
	case InvoiceStatusSent, InvoiceStatusPaid:
		set := NewActionSet(ActionRevert)
		if !hasReceipt {
			set[ActionConvertToReceipt] = struct{}{}
		}
		return set
	}
	return NewActionSet()
}

// ReceiptStatus represents the status of a receipt
type ReceiptStatus string

const (
	ReceiptStatusDraft  ReceiptStatus = "DRAFT"
	ReceiptStatusIssued ReceiptStatus = "ISSUED"
)

// IsValid checks if the status is a valid ReceiptStatus
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusDraft, ReceiptStatusIssued:
		return true
	}
	return false
}

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReceiptStatus) CanTransitionTo(target ReceiptStatus) bool {
	switch s {
	case ReceiptStatusDraft:
		return target == ReceiptStatusIssued
	case ReceiptStatusIssued:
		return target == ReceiptStatusDraft
	}
	return false
}

// AllowedReceiptActions computes the legal action set for a receipt.
func AllowedReceiptActions(status ReceiptStatus) ActionSet {
	switch status {
	case ReceiptStatusDraft:
		return NewActionSet(ActionEdit, ActionSave, ActionConfirm)
	case ReceiptStatusIssued:
		return NewActionSet(ActionRevert)
	}
	return NewActionSet()
}

// AllowedPurchaseOrderActions computes the legal action set for a purchase
// order. Purchase orders carry no status machine: they stay editable for
// their whole life, and delete is only offered once the record is persisted.
func AllowedPurchaseOrderActions(persisted bool) ActionSet {
	set := NewActionSet(ActionEdit, ActionSave)
	if persisted {
		set[ActionDelete] = struct{}{}
	}
	return set
}
