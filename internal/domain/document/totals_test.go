package document

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testItem(t *testing.T, qty int, price, discount string) LineItem {
	item, err := NewLineItem("", "Test Item", qty, d(price), d(discount))
	require.NoError(t, err)
	return item
}

func TestComputeTotals(t *testing.T) {
	t.Run("single item with VAT", func(t *testing.T) {
		items := []LineItem{testItem(t, 2, "1000", "0")}
		totals := ComputeTotals(items, decimal.Zero, d("7"), decimal.Zero)

		assert.True(t, totals.Subtotal.Equal(d("2000")), "subtotal=%s", totals.Subtotal)
		assert.True(t, totals.AfterDiscount.Equal(d("2000")))
		assert.True(t, totals.VATAmount.Equal(d("140")))
		assert.True(t, totals.GrandTotal.Equal(d("2140")))
		assert.True(t, totals.NetTotal.Equal(d("2140")))
	})

	t.Run("item discount larger than subtotal clamps to zero", func(t *testing.T) {
		items := []LineItem{testItem(t, 1, "500", "600")}
		totals := ComputeTotals(items, decimal.Zero, d("7"), d("3"))

		assert.True(t, totals.Subtotal.Equal(d("500")))
		assert.True(t, totals.TotalDiscount.Equal(d("600")))
		assert.True(t, totals.AfterDiscount.IsZero())
		assert.True(t, totals.VATAmount.IsZero())
		assert.True(t, totals.GrandTotal.IsZero())
		assert.True(t, totals.WHTAmount.IsZero())
		assert.True(t, totals.NetTotal.IsZero())
	})

	t.Run("withholding tax applies to after-discount base", func(t *testing.T) {
		items := []LineItem{testItem(t, 1, "1000", "0")}
		totals := ComputeTotals(items, d("100"), d("7"), d("3"))

		// after discount 900, vat 63, grand 963, wht 27 (3% of 900, not 963)
		assert.True(t, totals.AfterDiscount.Equal(d("900")))
		assert.True(t, totals.VATAmount.Equal(d("63")))
		assert.True(t, totals.GrandTotal.Equal(d("963")))
		assert.True(t, totals.WHTAmount.Equal(d("27")))
		assert.True(t, totals.NetTotal.Equal(d("936")))
	})

	t.Run("special and item discounts accumulate", func(t *testing.T) {
		items := []LineItem{
			testItem(t, 3, "200", "50"),
			testItem(t, 1, "400", "0"),
		}
		totals := ComputeTotals(items, d("150"), decimal.Zero, decimal.Zero)

		assert.True(t, totals.Subtotal.Equal(d("1000")))
		assert.True(t, totals.ItemDiscountTotal.Equal(d("50")))
		assert.True(t, totals.SpecialDiscount.Equal(d("150")))
		assert.True(t, totals.TotalDiscount.Equal(d("200")))
		assert.True(t, totals.AfterDiscount.Equal(d("800")))
		assert.True(t, totals.GrandTotal.Equal(d("800")))
	})

	t.Run("empty item list yields zero totals", func(t *testing.T) {
		totals := ComputeTotals(nil, decimal.Zero, d("7"), d("3"))

		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.AfterDiscount.IsZero())
		assert.True(t, totals.GrandTotal.IsZero())
		assert.True(t, totals.NetTotal.IsZero())
	})

	t.Run("invariants hold across rate combinations", func(t *testing.T) {
		items := []LineItem{
			testItem(t, 2, "123.45", "10"),
			testItem(t, 5, "99.99", "0.5"),
		}
		rates := []struct{ special, vat, wht string }{
			{"0", "0", "0"},
			{"50", "7", "3"},
			{"700", "10", "5"},
			{"10000", "7", "1"},
		}

		for _, r := range rates {
			totals := ComputeTotals(items, d(r.special), d(r.vat), d(r.wht))

			assert.False(t, totals.Subtotal.IsNegative())
			assert.False(t, totals.AfterDiscount.IsNegative())
			expectedAfter := totals.Subtotal.Sub(totals.TotalDiscount)
			if expectedAfter.IsNegative() {
				expectedAfter = decimal.Zero
			}
			assert.True(t, totals.AfterDiscount.Equal(expectedAfter))
			assert.True(t, totals.VATAmount.Equal(totals.AfterDiscount.Mul(d(r.vat)).Div(d("100"))))
			assert.True(t, totals.GrandTotal.Equal(totals.AfterDiscount.Add(totals.VATAmount)))
			assert.True(t, totals.NetTotal.Equal(totals.GrandTotal.Sub(totals.WHTAmount)))
		}
	})
}

func TestLineItem_NetAmount(t *testing.T) {
	t.Run("discount subtracts from gross", func(t *testing.T) {
		item := testItem(t, 2, "100", "30")
		assert.True(t, item.GrossAmount().Equal(d("200")))
		assert.True(t, item.NetAmount().Equal(d("170")))
	})

	t.Run("clamps at zero", func(t *testing.T) {
		item := testItem(t, 1, "100", "150")
		assert.True(t, item.NetAmount().IsZero())
	})
}

func TestNewLineItem(t *testing.T) {
	t.Run("assigns temp ID when empty", func(t *testing.T) {
		item, err := NewLineItem("", "Widget", 1, d("10"), decimal.Zero)
		require.NoError(t, err)
		assert.True(t, IsTempItemID(item.ID))
		assert.False(t, item.IsPersisted())
	})

	t.Run("keeps server-assigned ID", func(t *testing.T) {
		item, err := NewLineItem("it-42", "Widget", 1, d("10"), decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, "it-42", item.ID)
		assert.True(t, item.IsPersisted())
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		_, err := NewLineItem("", "", 1, d("10"), decimal.Zero)
		require.Error(t, err)

		_, err = NewLineItem("", "Widget", 0, d("10"), decimal.Zero)
		require.Error(t, err)

		_, err = NewLineItem("", "Widget", 1, d("-1"), decimal.Zero)
		require.Error(t, err)

		_, err = NewLineItem("", "Widget", 1, d("10"), d("-5"))
		require.Error(t, err)
	})
}
