package invoice

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crm/workbench/internal/application/workspace"
	"github.com/crm/workbench/internal/domain/document"
	"github.com/crm/workbench/internal/domain/shared"
)

type mockInvoiceGateway struct {
	mock.Mock
}

func (m *mockInvoiceGateway) GetInvoice(ctx context.Context, id string) (*document.Invoice, error) {
	args := m.Called(ctx, id)
	if inv, ok := args.Get(0).(*document.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceGateway) UpdateInvoice(ctx context.Context, id string, update document.InvoiceUpdate) (*document.Invoice, error) {
	args := m.Called(ctx, id, update)
	if inv, ok := args.Get(0).(*document.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceGateway) ConfirmInvoice(ctx context.Context, id string) (*document.Invoice, error) {
	args := m.Called(ctx, id)
	if inv, ok := args.Get(0).(*document.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceGateway) RevertInvoice(ctx context.Context, id string) (*document.Invoice, error) {
	args := m.Called(ctx, id)
	if inv, ok := args.Get(0).(*document.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceGateway) SyncInvoiceItems(ctx context.Context, id string) (*document.Invoice, error) {
	args := m.Called(ctx, id)
	if inv, ok := args.Get(0).(*document.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceGateway) CreateReceipt(ctx context.Context, id string) (*document.Receipt, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*document.Receipt); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func draftInvoice() *document.Invoice {
	item, _ := document.NewLineItem("it-1", "Consulting", 2, d("1000"), decimal.Zero)
	return &document.Invoice{
		ID:            "inv-1",
		DealID:        "deal-1",
		InvoiceNumber: "IV-2026-0001",
		Status:        document.InvoiceStatusDraft,
		Items:         []document.LineItem{item},
		Subtotal:      d("2000"),
		VATRate:       d("7"),
		VATAmount:     d("140"),
		GrandTotal:    d("2140"),
		NetTotal:      d("2140"),
		OwnerID:       "user-1",
	}
}

func loadedScreen(t *testing.T, inv *document.Invoice, userID string, role document.Role) (*Screen, *mockInvoiceGateway) {
	gw := new(mockInvoiceGateway)
	gw.On("GetInvoice", mock.Anything, "inv-1").Return(inv, nil).Once()
	s := NewScreen("inv-1", userID, role, gw, workspace.NopObserver())
	require.NoError(t, s.Load(context.Background()))
	return s, gw
}

func TestScreen_ReadOnly(t *testing.T) {
	t.Run("non-owner sales user gets no actions", func(t *testing.T) {
		s, _ := loadedScreen(t, draftInvoice(), "user-9", document.RoleSales)

		view, err := s.View()
		require.NoError(t, err)
		assert.True(t, view.ReadOnly)
		assert.Empty(t, view.AvailableActions)
	})

	t.Run("non-owner cannot open an edit draft", func(t *testing.T) {
		s, _ := loadedScreen(t, draftInvoice(), "user-9", document.RoleSales)
		require.ErrorIs(t, s.BeginEdit(), shared.ErrReadOnly)
	})

	t.Run("non-owner cannot confirm", func(t *testing.T) {
		s, gw := loadedScreen(t, draftInvoice(), "user-9", document.RoleSales)
		require.ErrorIs(t, s.Confirm(context.Background(), true), shared.ErrReadOnly)
		gw.AssertNotCalled(t, "ConfirmInvoice", mock.Anything, mock.Anything)
	})

	t.Run("manager acts on any invoice", func(t *testing.T) {
		s, _ := loadedScreen(t, draftInvoice(), "user-9", document.RoleManager)
		view, err := s.View()
		require.NoError(t, err)
		assert.False(t, view.ReadOnly)
		assert.NoError(t, s.BeginEdit())
	})

	t.Run("owner acts on own invoice", func(t *testing.T) {
		s, _ := loadedScreen(t, draftInvoice(), "user-1", document.RoleSales)
		assert.NoError(t, s.BeginEdit())
	})
}

func TestScreen_Totals(t *testing.T) {
	t.Run("persisted totals outside edit mode", func(t *testing.T) {
		s, _ := loadedScreen(t, draftInvoice(), "user-1", document.RoleSales)
		view, err := s.View()
		require.NoError(t, err)
		assert.Equal(t, document.TotalsSourcePersisted, view.TotalsSource)
		assert.True(t, view.Totals.GrandTotal.Equal(d("2140")))
	})

	t.Run("live draft totals while editing", func(t *testing.T) {
		s, _ := loadedScreen(t, draftInvoice(), "user-1", document.RoleSales)
		require.NoError(t, s.BeginEdit())
		_, err := s.AddItem("Support", 1, d("1000"), decimal.Zero)
		require.NoError(t, err)

		view, err := s.View()
		require.NoError(t, err)
		assert.Equal(t, document.TotalsSourceDraft, view.TotalsSource)
		assert.True(t, view.Totals.Subtotal.Equal(d("3000")))
	})
}

func TestScreen_Save(t *testing.T) {
	t.Run("rollback keeps the draft on failure", func(t *testing.T) {
		s, gw := loadedScreen(t, draftInvoice(), "user-1", document.RoleSales)
		require.NoError(t, s.BeginEdit())
		require.NoError(t, s.SetFields(Fields{
			Customer: document.PartySnapshot{Name: "Acme Co."},
			Discount: d("100"),
			VATRate:  d("7"),
		}))

		gw.On("UpdateInvoice", mock.Anything, "inv-1", mock.Anything).
			Return(nil, &document.RemoteError{StatusCode: 500, Code: "UPSTREAM", Message: "boom"}).Once()

		require.Error(t, s.Save(context.Background()))

		view, err := s.View()
		require.NoError(t, err)
		assert.True(t, view.Editing)
		assert.True(t, view.Invoice.Discount.Equal(d("100")))
	})
}

func TestScreen_SyncItems(t *testing.T) {
	t.Run("requires explicit confirmation", func(t *testing.T) {
		s, gw := loadedScreen(t, draftInvoice(), "user-1", document.RoleSales)
		require.ErrorIs(t, s.SyncItems(context.Background(), false), shared.ErrConfirmationRequired)
		gw.AssertNotCalled(t, "SyncInvoiceItems", mock.Anything, mock.Anything)
	})

	t.Run("only a draft invoice can sync", func(t *testing.T) {
		sent := draftInvoice()
		sent.Status = document.InvoiceStatusSent
		s, gw := loadedScreen(t, sent, "user-1", document.RoleSales)

		err := s.SyncItems(context.Background(), true)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
		gw.AssertNotCalled(t, "SyncInvoiceItems", mock.Anything, mock.Anything)
	})

	t.Run("replaces items with the deal's", func(t *testing.T) {
		s, gw := loadedScreen(t, draftInvoice(), "user-1", document.RoleSales)

		synced := draftInvoice()
		item, _ := document.NewLineItem("it-9", "Replacement", 1, d("750"), decimal.Zero)
		synced.Items = []document.LineItem{item}
		gw.On("SyncInvoiceItems", mock.Anything, "inv-1").Return(synced, nil).Once()

		require.NoError(t, s.SyncItems(context.Background(), true))
		view, err := s.View()
		require.NoError(t, err)
		require.Len(t, view.Invoice.Items, 1)
		assert.Equal(t, "it-9", view.Invoice.Items[0].ID)
	})
}

func TestScreen_ConvertToReceipt(t *testing.T) {
	t.Run("converts a sent invoice", func(t *testing.T) {
		sent := draftInvoice()
		sent.Status = document.InvoiceStatusSent
		s, gw := loadedScreen(t, sent, "user-1", document.RoleSales)

		gw.On("CreateReceipt", mock.Anything, "inv-1").Return(&document.Receipt{ID: "rec-1", InvoiceID: "inv-1"}, nil).Once()

		result, err := s.ConvertToReceipt(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "rec-1", result.TargetID)
		assert.False(t, result.AlreadyExisted)
	})

	t.Run("duplicate conversion redirects to the existing receipt", func(t *testing.T) {
		sent := draftInvoice()
		sent.Status = document.InvoiceStatusSent
		s, gw := loadedScreen(t, sent, "user-1", document.RoleSales)

		gw.On("CreateReceipt", mock.Anything, "inv-1").
			Return(nil, &document.RemoteError{StatusCode: 409, Code: "ALREADY_CONVERTED", ReceiptID: "rec-7"}).Once()

		result, err := s.ConvertToReceipt(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "rec-7", result.TargetID)
		assert.True(t, result.AlreadyExisted)
	})

	t.Run("existing receipt blocks a new conversion locally", func(t *testing.T) {
		sent := draftInvoice()
		sent.Status = document.InvoiceStatusSent
		sent.ReceiptID = "rec-1"
		s, gw := loadedScreen(t, sent, "user-1", document.RoleSales)

		_, err := s.ConvertToReceipt(context.Background())
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "RECEIPT_EXISTS", de.Code)
		gw.AssertNotCalled(t, "CreateReceipt", mock.Anything, mock.Anything)
	})
}
