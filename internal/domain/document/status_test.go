package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     QuotationStatus
		to       QuotationStatus
		approved bool
		want     bool
	}{
		{"draft to sent", QuotationStatusDraft, QuotationStatusSent, false, true},
		{"sent back to draft", QuotationStatusSent, QuotationStatusDraft, false, true},
		{"sent to draft blocked once approved", QuotationStatusSent, QuotationStatusDraft, true, false},
		{"sent to approved", QuotationStatusSent, QuotationStatusApproved, false, true},
		{"draft straight to approved", QuotationStatusDraft, QuotationStatusApproved, false, false},
		{"approved back to sent", QuotationStatusApproved, QuotationStatusSent, false, false},
		{"approved back to draft", QuotationStatusApproved, QuotationStatusDraft, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to, tt.approved))
		})
	}
}

func TestInvoiceStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from InvoiceStatus
		to   InvoiceStatus
		want bool
	}{
		{"draft to sent", InvoiceStatusDraft, InvoiceStatusSent, true},
		{"sent back to draft", InvoiceStatusSent, InvoiceStatusDraft, true},
		{"paid back to draft", InvoiceStatusPaid, InvoiceStatusDraft, true},
		{"draft to paid", InvoiceStatusDraft, InvoiceStatusPaid, false},
		{"sent to paid", InvoiceStatusSent, InvoiceStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestReceiptStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ReceiptStatusDraft.CanTransitionTo(ReceiptStatusIssued))
	assert.True(t, ReceiptStatusIssued.CanTransitionTo(ReceiptStatusDraft))
	assert.False(t, ReceiptStatusDraft.CanTransitionTo(ReceiptStatusDraft))
}

func TestAllowedQuotationActions(t *testing.T) {
	t.Run("draft allows editing and confirm", func(t *testing.T) {
		actions := AllowedQuotationActions(QuotationStatusDraft, false)
		assert.True(t, actions.Contains(ActionEdit))
		assert.True(t, actions.Contains(ActionSave))
		assert.True(t, actions.Contains(ActionConfirm))
		assert.False(t, actions.Contains(ActionRevert))
	})

	t.Run("sent allows revert and purchase confirmation", func(t *testing.T) {
		actions := AllowedQuotationActions(QuotationStatusSent, false)
		assert.True(t, actions.Contains(ActionRevert))
		assert.True(t, actions.Contains(ActionConfirmPurchase))
		assert.True(t, actions.Contains(ActionCreateInvoice))
		assert.False(t, actions.Contains(ActionEdit))
	})

	t.Run("approval locks out revert", func(t *testing.T) {
		actions := AllowedQuotationActions(QuotationStatusSent, true)
		assert.False(t, actions.Contains(ActionRevert))
		assert.False(t, actions.Contains(ActionConfirmPurchase))
		assert.True(t, actions.Contains(ActionCreateInvoice))
	})

	t.Run("approved only creates invoices", func(t *testing.T) {
		actions := AllowedQuotationActions(QuotationStatusApproved, true)
		assert.Equal(t, []Action{ActionCreateInvoice}, actions.List())
	})
}

func TestAllowedInvoiceActions(t *testing.T) {
	t.Run("draft allows editing and item sync", func(t *testing.T) {
		actions := AllowedInvoiceActions(InvoiceStatusDraft, false)
		assert.True(t, actions.Contains(ActionEdit))
		assert.True(t, actions.Contains(ActionSyncItems))
		assert.True(t, actions.Contains(ActionConfirm))
		assert.False(t, actions.Contains(ActionConvertToReceipt))
	})

	t.Run("sent allows conversion until a receipt exists", func(t *testing.T) {
		actions := AllowedInvoiceActions(InvoiceStatusSent, false)
		assert.True(t, actions.Contains(ActionConvertToReceipt))
		assert.True(t, actions.Contains(ActionRevert))

		actions = AllowedInvoiceActions(InvoiceStatusSent, true)
		assert.False(t, actions.Contains(ActionConvertToReceipt))
		assert.True(t, actions.Contains(ActionRevert))
	})
}

func TestAllowedPurchaseOrderActions(t *testing.T) {
	actions := AllowedPurchaseOrderActions(false)
	assert.True(t, actions.Contains(ActionEdit))
	assert.True(t, actions.Contains(ActionSave))
	assert.False(t, actions.Contains(ActionDelete))

	actions = AllowedPurchaseOrderActions(true)
	assert.True(t, actions.Contains(ActionDelete))
}
