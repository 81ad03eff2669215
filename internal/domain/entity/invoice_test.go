package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(desc, qty, price string) *LineItem {
	return &LineItem{
		Description: desc,
		Quantity:    dec(qty),
		UnitPrice:   dec(price),
		Amount:      dec(qty).Mul(dec(price)),
	}
}

func draftInvoice() *Invoice {
	due := time.Now().AddDate(0, 1, 0)
	inv := &Invoice{
		ID:                  "inv-1",
		Status:              "draft",
		DocumentType:        DocumentTypeInvoice,
		ConstructionSiteID:  "site-1",
		SubmittingCompanyID: "company-1",
		TaxAmount:           dec("100"),
		PaymentDueDate:      &due,
		Version:             1,
	}
	inv.AddItem(item("cement", "10", "50"))
	inv.AddItem(item("rebar", "2", "250"))
	return inv
}

func TestInvoice_RecomputeTotals(t *testing.T) {
	inv := draftInvoice()

	assert.True(t, dec("1000").Equal(inv.Subtotal), "subtotal: %s", inv.Subtotal)
	assert.True(t, dec("1100").Equal(inv.TotalAmount), "total: %s", inv.TotalAmount)
	assert.True(t, inv.TotalsConsistent())
}

func TestInvoice_AddItem_Renumbers(t *testing.T) {
	inv := draftInvoice()

	require.Len(t, inv.Items, 2)
	assert.Equal(t, 1, inv.Items[0].LineNo)
	assert.Equal(t, 2, inv.Items[1].LineNo)
	assert.Equal(t, inv.ID, inv.Items[1].InvoiceID)
}

func TestInvoice_RemoveItem(t *testing.T) {
	inv := draftInvoice()
	inv.AddItem(item("gravel", "1", "300"))

	require.NoError(t, inv.RemoveItem(2))

	// Remaining lines are renumbered densely and totals follow.
	require.Len(t, inv.Items, 2)
	assert.Equal(t, 1, inv.Items[0].LineNo)
	assert.Equal(t, 2, inv.Items[1].LineNo)
	assert.Equal(t, "gravel", inv.Items[1].Description)
	assert.True(t, dec("800").Equal(inv.Subtotal), "subtotal: %s", inv.Subtotal)
	assert.True(t, inv.TotalsConsistent())

	assert.Error(t, inv.RemoveItem(99))
}

func TestLineItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    *LineItem
		wantErr bool
	}{
		{"valid", item("cement", "10", "50"), false},
		{"missing description", item("", "10", "50"), true},
		{"zero quantity", item("cement", "0", "50"), true},
		{
			"amount mismatch",
			&LineItem{Description: "cement", Quantity: dec("10"), UnitPrice: dec("50"), Amount: dec("400")},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInvoice_ValidateForSubmit(t *testing.T) {
	t.Run("complete invoice passes", func(t *testing.T) {
		assert.NoError(t, draftInvoice().ValidateForSubmit())
	})

	t.Run("no items", func(t *testing.T) {
		inv := draftInvoice()
		inv.Items = nil
		assert.Error(t, inv.ValidateForSubmit())
	})

	t.Run("inconsistent totals", func(t *testing.T) {
		inv := draftInvoice()
		inv.TotalAmount = dec("9999")
		assert.Error(t, inv.ValidateForSubmit())
	})

	t.Run("invoice without due date fails", func(t *testing.T) {
		inv := draftInvoice()
		inv.PaymentDueDate = nil
		assert.Error(t, inv.ValidateForSubmit())
	})

	t.Run("delivery note needs no due date", func(t *testing.T) {
		inv := draftInvoice()
		inv.DocumentType = DocumentTypeDeliveryNote
		inv.PaymentDueDate = nil
		assert.NoError(t, inv.ValidateForSubmit())
	})
}
