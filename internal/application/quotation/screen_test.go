package quotation

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

type mockDealGateway struct {
	mock.Mock
}

func (m *mockDealGateway) GetQuotation(ctx context.Context, dealID string) (*document.Quotation, error) {
	args := m.Called(ctx, dealID)
	if q, ok := args.Get(0).(*document.Quotation); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealGateway) GenerateQuotation(ctx context.Context, dealID string) (*document.Quotation, error) {
	args := m.Called(ctx, dealID)
	if q, ok := args.Get(0).(*document.Quotation); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealGateway) UpdateQuotation(ctx context.Context, dealID string, update document.QuotationUpdate) (*document.Quotation, error) {
	args := m.Called(ctx, dealID, update)
	if q, ok := args.Get(0).(*document.Quotation); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealGateway) ConfirmQuotation(ctx context.Context, dealID string) (*document.Quotation, error) {
	args := m.Called(ctx, dealID)
	if q, ok := args.Get(0).(*document.Quotation); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealGateway) RevertQuotation(ctx context.Context, dealID string) (*document.Quotation, error) {
	args := m.Called(ctx, dealID)
	if q, ok := args.Get(0).(*document.Quotation); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealGateway) ApproveQuotation(ctx context.Context, dealID string) (*document.Quotation, error) {
	args := m.Called(ctx, dealID)
	if q, ok := args.Get(0).(*document.Quotation); ok {
		return q, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealGateway) CreateInvoice(ctx context.Context, dealID string) (*document.Invoice, error) {
	args := m.Called(ctx, dealID)
	if inv, ok := args.Get(0).(*document.Invoice); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func draftQuotation() *document.Quotation {
	item, _ := document.NewLineItem("it-1", "Consulting", 2, d("1000"), decimal.Zero)
	return &document.Quotation{
		DealID:          "deal-1",
		QuotationNumber: "QT-2026-0001",
		Status:          document.QuotationStatusDraft,
		Customer:        document.PartySnapshot{Name: "Acme Co."},
		Items:           []document.LineItem{item},
		VATRate:         d("7"),
		OwnerID:         "user-1",
	}
}

func loadedScreen(t *testing.T, q *document.Quotation) (*Screen, *mockDealGateway) {
	gw := new(mockDealGateway)
	gw.On("GetQuotation", mock.Anything, "deal-1").Return(q, nil).Once()
	s := NewScreen("deal-1", gw, workspace.NopObserver())
	require.NoError(t, s.Load(context.Background()))
	return s, gw
}

func TestScreen_Load(t *testing.T) {
	t.Run("generates quotation number when absent", func(t *testing.T) {
		unnumbered := draftQuotation()
		unnumbered.QuotationNumber = ""
		numbered := draftQuotation()

		gw := new(mockDealGateway)
		gw.On("GetQuotation", mock.Anything, "deal-1").Return(unnumbered, nil).Once()
		gw.On("GenerateQuotation", mock.Anything, "deal-1").Return(numbered, nil).Once()

		s := NewScreen("deal-1", gw, workspace.NopObserver())
		require.NoError(t, s.Load(context.Background()))

		view, err := s.View()
		require.NoError(t, err)
		assert.Equal(t, "QT-2026-0001", view.Quotation.QuotationNumber)
		gw.AssertExpectations(t)
	})

	t.Run("skips generation when number exists", func(t *testing.T) {
		s, gw := loadedScreen(t, draftQuotation())
		view, err := s.View()
		require.NoError(t, err)
		assert.True(t, view.Totals.GrandTotal.Equal(d("2140")))
		gw.AssertNotCalled(t, "GenerateQuotation", mock.Anything, mock.Anything)
	})
}

func TestScreen_EditCycle(t *testing.T) {
	t.Run("cancel restores the loaded record", func(t *testing.T) {
		s, _ := loadedScreen(t, draftQuotation())
		require.NoError(t, s.BeginEdit())

		_, err := s.AddItem("Support", 1, d("500"), decimal.Zero)
		require.NoError(t, err)

		view, err := s.View()
		require.NoError(t, err)
		assert.True(t, view.Editing)
		assert.Equal(t, document.TotalsSourceDraft, view.TotalsSource)
		assert.Len(t, view.Quotation.Items, 2)

		require.NoError(t, s.Cancel())
		view, err = s.View()
		require.NoError(t, err)
		assert.False(t, view.Editing)
		assert.Len(t, view.Quotation.Items, 1)
	})

	t.Run("edit rejected outside draft status", func(t *testing.T) {
		sent := draftQuotation()
		sent.Status = document.QuotationStatusSent
		s, _ := loadedScreen(t, sent)

		err := s.BeginEdit()
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})

	t.Run("new items get temporary ids", func(t *testing.T) {
		s, _ := loadedScreen(t, draftQuotation())
		require.NoError(t, s.BeginEdit())

		item, err := s.AddItem("Support", 1, d("500"), decimal.Zero)
		require.NoError(t, err)
		assert.True(t, document.IsTempItemID(item.ID))
	})

	t.Run("field edits require edit mode", func(t *testing.T) {
		s, _ := loadedScreen(t, draftQuotation())
		err := s.SetFields(Fields{VATRate: d("7")})
		require.ErrorIs(t, err, shared.ErrNotEditing)
	})
}

func TestScreen_Save(t *testing.T) {
	t.Run("commits the server record on success", func(t *testing.T) {
		s, gw := loadedScreen(t, draftQuotation())
		require.NoError(t, s.BeginEdit())
		_, err := s.AddItem("Support", 1, d("500"), decimal.Zero)
		require.NoError(t, err)

		saved := draftQuotation()
		item, _ := document.NewLineItem("it-2", "Support", 1, d("500"), decimal.Zero)
		saved.Items = append(saved.Items, item)
		gw.On("UpdateQuotation", mock.Anything, "deal-1", mock.Anything).Return(saved, nil).Once()

		require.NoError(t, s.Save(context.Background()))

		view, err := s.View()
		require.NoError(t, err)
		assert.False(t, view.Editing)
		assert.Len(t, view.Quotation.Items, 2)
		// temp ID replaced by the server-assigned one
		assert.Equal(t, "it-2", view.Quotation.Items[1].ID)
		gw.AssertExpectations(t)
	})

	t.Run("rolls back and stays in edit mode on failure", func(t *testing.T) {
		s, gw := loadedScreen(t, draftQuotation())
		require.NoError(t, s.BeginEdit())
		_, err := s.AddItem("Support", 1, d("500"), decimal.Zero)
		require.NoError(t, err)

		gw.On("UpdateQuotation", mock.Anything, "deal-1", mock.Anything).
			Return(nil, &document.RemoteError{StatusCode: 502, Code: "UPSTREAM", Message: "backend down"}).Once()

		err = s.Save(context.Background())
		require.Error(t, err)

		view, vErr := s.View()
		require.NoError(t, vErr)
		assert.True(t, view.Editing, "draft must survive a failed save")
		assert.Len(t, view.Quotation.Items, 2)

		// the record underneath the draft is back to the pre-save state
		require.NoError(t, s.Cancel())
		view, vErr = s.View()
		require.NoError(t, vErr)
		assert.Len(t, view.Quotation.Items, 1)
	})

	t.Run("save without draft is rejected", func(t *testing.T) {
		s, _ := loadedScreen(t, draftQuotation())
		require.ErrorIs(t, s.Save(context.Background()), shared.ErrNotEditing)
	})
}

func TestScreen_Confirm(t *testing.T) {
	t.Run("requires explicit confirmation", func(t *testing.T) {
		s, gw := loadedScreen(t, draftQuotation())
		require.ErrorIs(t, s.Confirm(context.Background(), false), shared.ErrConfirmationRequired)
		gw.AssertNotCalled(t, "ConfirmQuotation", mock.Anything, mock.Anything)
	})

	t.Run("sends the quotation", func(t *testing.T) {
		s, gw := loadedScreen(t, draftQuotation())
		sent := draftQuotation()
		sent.Status = document.QuotationStatusSent
		gw.On("ConfirmQuotation", mock.Anything, "deal-1").Return(sent, nil).Once()

		require.NoError(t, s.Confirm(context.Background(), true))
		view, err := s.View()
		require.NoError(t, err)
		assert.Equal(t, document.QuotationStatusSent, view.Quotation.Status)
	})

	t.Run("revert blocked once approved", func(t *testing.T) {
		approved := draftQuotation()
		approved.Status = document.QuotationStatusSent
		approved.Approved = true
		s, gw := loadedScreen(t, approved)

		err := s.Revert(context.Background(), true)
		require.Error(t, err)
		gw.AssertNotCalled(t, "RevertQuotation", mock.Anything, mock.Anything)
	})
}

func TestScreen_ConfirmPurchase(t *testing.T) {
	t.Run("approves then converts", func(t *testing.T) {
		sent := draftQuotation()
		sent.Status = document.QuotationStatusSent
		s, gw := loadedScreen(t, sent)

		approved := draftQuotation()
		approved.Status = document.QuotationStatusApproved
		approved.Approved = true
		gw.On("ApproveQuotation", mock.Anything, "deal-1").Return(approved, nil).Once()
		gw.On("CreateInvoice", mock.Anything, "deal-1").Return(&document.Invoice{ID: "inv-1"}, nil).Once()

		result, err := s.ConfirmPurchase(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, "inv-1", result.TargetID)
		assert.False(t, result.AlreadyExisted)
		gw.AssertExpectations(t)
	})

	t.Run("approval survives a failed conversion", func(t *testing.T) {
		sent := draftQuotation()
		sent.Status = document.QuotationStatusSent
		s, gw := loadedScreen(t, sent)

		approved := draftQuotation()
		approved.Status = document.QuotationStatusApproved
		approved.Approved = true
		gw.On("ApproveQuotation", mock.Anything, "deal-1").Return(approved, nil).Once()
		gw.On("CreateInvoice", mock.Anything, "deal-1").
			Return(nil, &document.RemoteError{StatusCode: 502, Code: "UPSTREAM", Message: "backend down"}).Once()

		_, err := s.ConfirmPurchase(context.Background(), true)
		require.Error(t, err)

		// the quotation is approved; create_invoice remains the retry path
		view, vErr := s.View()
		require.NoError(t, vErr)
		assert.Equal(t, document.QuotationStatusApproved, view.Quotation.Status)
		assert.Contains(t, view.AvailableActions, document.ActionCreateInvoice)

		gw.On("CreateInvoice", mock.Anything, "deal-1").Return(&document.Invoice{ID: "inv-1"}, nil).Once()
		result, err := s.CreateInvoice(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "inv-1", result.TargetID)
	})

	t.Run("duplicate conversion redirects to the existing invoice", func(t *testing.T) {
		approved := draftQuotation()
		approved.Status = document.QuotationStatusApproved
		approved.Approved = true
		s, gw := loadedScreen(t, approved)

		gw.On("CreateInvoice", mock.Anything, "deal-1").
			Return(nil, &document.RemoteError{StatusCode: 409, Code: "ALREADY_CONVERTED", InvoiceID: "inv-7"}).Once()

		result, err := s.CreateInvoice(context.Background())
		require.NoError(t, err, "a duplicate conversion is not an error")
		assert.Equal(t, "inv-7", result.TargetID)
		assert.True(t, result.AlreadyExisted)
	})

	t.Run("conversion requires items", func(t *testing.T) {
		empty := draftQuotation()
		empty.Items = nil
		s, gw := loadedScreen(t, empty)

		_, err := s.CreateInvoice(context.Background())
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "NO_ITEMS", de.Code)
		gw.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
	})
}
