package purchaseorder

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

type mockOrderGateway struct {
	mock.Mock
}

func (m *mockOrderGateway) GetPurchaseOrder(ctx context.Context, id string) (*document.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if po, ok := args.Get(0).(*document.PurchaseOrder); ok {
		return po, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderGateway) CreatePurchaseOrder(ctx context.Context, update document.PurchaseOrderUpdate) (*document.PurchaseOrder, error) {
	args := m.Called(ctx, update)
	if po, ok := args.Get(0).(*document.PurchaseOrder); ok {
		return po, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderGateway) UpdatePurchaseOrder(ctx context.Context, id string, update document.PurchaseOrderUpdate) (*document.PurchaseOrder, error) {
	args := m.Called(ctx, id, update)
	if po, ok := args.Get(0).(*document.PurchaseOrder); ok {
		return po, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderGateway) DeletePurchaseOrder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockDirectoryGateway struct {
	mock.Mock
}

func (m *mockDirectoryGateway) FindCompanyByName(ctx context.Context, name string) (*document.Company, error) {
	args := m.Called(ctx, name)
	if c, ok := args.Get(0).(*document.Company); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestScreen_NewOrder(t *testing.T) {
	t.Run("opens directly in edit mode", func(t *testing.T) {
		gw := new(mockOrderGateway)
		s := NewScreen(document.NewPurchaseOrderID, gw, new(mockDirectoryGateway), workspace.NopObserver())
		require.NoError(t, s.Load(context.Background()))

		view, err := s.View()
		require.NoError(t, err)
		assert.True(t, view.Editing)
		assert.False(t, view.PurchaseOrder.IsPersisted())
		assert.NotContains(t, view.AvailableActions, document.ActionDelete)
		gw.AssertNotCalled(t, "GetPurchaseOrder", mock.Anything, mock.Anything)
	})

	t.Run("first save creates and reports the canonical id", func(t *testing.T) {
		gw := new(mockOrderGateway)
		s := NewScreen(document.NewPurchaseOrderID, gw, new(mockDirectoryGateway), workspace.NopObserver())
		require.NoError(t, s.Load(context.Background()))

		require.NoError(t, s.SetFields(Fields{
			Vendor:  document.PartySnapshot{Name: "Supply Ltd."},
			VATRate: d("7"),
		}))
		_, err := s.AddItem("Paper", 10, d("45"), decimal.Zero)
		require.NoError(t, err)

		created := &document.PurchaseOrder{
			ID:      "po-1",
			Vendor:  document.PartySnapshot{Name: "Supply Ltd."},
			VATRate: d("7"),
		}
		item, _ := document.NewLineItem("it-1", "Paper", 10, d("45"), decimal.Zero)
		created.Items = []document.LineItem{item}
		gw.On("CreatePurchaseOrder", mock.Anything, mock.Anything).Return(created, nil).Once()

		result, err := s.Save(context.Background())
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, "po-1", result.CanonicalID)

		view, err := s.View()
		require.NoError(t, err)
		assert.True(t, view.PurchaseOrder.IsPersisted())
		assert.Contains(t, view.AvailableActions, document.ActionDelete)
		gw.AssertNotCalled(t, "UpdatePurchaseOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("later saves update in place", func(t *testing.T) {
		existing := &document.PurchaseOrder{ID: "po-1", Vendor: document.PartySnapshot{Name: "Supply Ltd."}}
		gw := new(mockOrderGateway)
		gw.On("GetPurchaseOrder", mock.Anything, "po-1").Return(existing, nil).Once()
		s := NewScreen("po-1", gw, new(mockDirectoryGateway), workspace.NopObserver())
		require.NoError(t, s.Load(context.Background()))

		require.NoError(t, s.BeginEdit())
		require.NoError(t, s.SetFields(Fields{Vendor: document.PartySnapshot{Name: "Supply Ltd."}, Notes: "rush"}))

		updated := &document.PurchaseOrder{ID: "po-1", Notes: "rush"}
		gw.On("UpdatePurchaseOrder", mock.Anything, "po-1", mock.Anything).Return(updated, nil).Once()

		result, err := s.Save(context.Background())
		require.NoError(t, err)
		assert.False(t, result.Created)
		assert.Equal(t, "po-1", result.CanonicalID)
	})
}

func TestScreen_PrefillVendor(t *testing.T) {
	t.Run("copies the directory record into the draft", func(t *testing.T) {
		gw := new(mockOrderGateway)
		dir := new(mockDirectoryGateway)
		dir.On("FindCompanyByName", mock.Anything, "Supply Ltd.").Return(&document.Company{
			Name:    "Supply Ltd.",
			Address: "1 Dock Rd",
			TaxID:   "0105561234567",
		}, nil).Once()

		s := NewScreen(document.NewPurchaseOrderID, gw, dir, workspace.NopObserver())
		require.NoError(t, s.Load(context.Background()))
		require.NoError(t, s.PrefillVendor(context.Background(), "Supply Ltd."))

		view, err := s.View()
		require.NoError(t, err)
		assert.Equal(t, "1 Dock Rd", view.PurchaseOrder.Vendor.Address)
		assert.Equal(t, "0105561234567", view.PurchaseOrder.Vendor.TaxID)
	})

	t.Run("miss leaves the snapshot untouched", func(t *testing.T) {
		gw := new(mockOrderGateway)
		dir := new(mockDirectoryGateway)
		dir.On("FindCompanyByName", mock.Anything, "Unknown Co.").Return(nil, nil).Once()

		s := NewScreen(document.NewPurchaseOrderID, gw, dir, workspace.NopObserver())
		require.NoError(t, s.Load(context.Background()))
		require.NoError(t, s.SetFields(Fields{Vendor: document.PartySnapshot{Name: "Typed Name"}}))
		require.NoError(t, s.PrefillVendor(context.Background(), "Unknown Co."))

		view, err := s.View()
		require.NoError(t, err)
		assert.Equal(t, "Typed Name", view.PurchaseOrder.Vendor.Name)
	})
}

func TestScreen_Delete(t *testing.T) {
	t.Run("requires explicit confirmation", func(t *testing.T) {
		existing := &document.PurchaseOrder{ID: "po-1"}
		gw := new(mockOrderGateway)
		gw.On("GetPurchaseOrder", mock.Anything, "po-1").Return(existing, nil).Once()
		s := NewScreen("po-1", gw, new(mockDirectoryGateway), workspace.NopObserver())
		require.NoError(t, s.Load(context.Background()))

		require.ErrorIs(t, s.Delete(context.Background(), false), shared.ErrConfirmationRequired)
		gw.AssertNotCalled(t, "DeletePurchaseOrder", mock.Anything, mock.Anything)
	})

	t.Run("unsaved order cannot be deleted", func(t *testing.T) {
		gw := new(mockOrderGateway)
		s := NewScreen(document.NewPurchaseOrderID, gw, new(mockDirectoryGateway), workspace.NopObserver())
		require.NoError(t, s.Load(context.Background()))

		err := s.Delete(context.Background(), true)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})

	t.Run("deletes a persisted order", func(t *testing.T) {
		existing := &document.PurchaseOrder{ID: "po-1"}
		gw := new(mockOrderGateway)
		gw.On("GetPurchaseOrder", mock.Anything, "po-1").Return(existing, nil).Once()
		gw.On("DeletePurchaseOrder", mock.Anything, "po-1").Return(nil).Once()

		s := NewScreen("po-1", gw, new(mockDirectoryGateway), workspace.NopObserver())
		require.NoError(t, s.Load(context.Background()))
		require.NoError(t, s.Delete(context.Background(), true))

		_, err := s.View()
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
