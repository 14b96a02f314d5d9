package handlers

import (
	"net/http"
	"testing"
	"time"

	"go-furnish-pos/internal/database"
	"go-furnish-pos/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractBody(customerID, productID uint) map[string]interface{} {
	return map[string]interface{}{
		"customer_id":        customerID,
		"items":              []map[string]interface{}{{"product_id": productID, "quantity": 2}},
		"down_payment":       500,
		"term_months":        12,
		"annual_rate_pct":    12,
		"first_payment_date": "2026-09-15",
	}
}

func TestCreateContract(t *testing.T) {
	t.Run("creates header, items, schedule and deducts stock", func(t *testing.T) {
		setupTestDB(t)
		r := newTestRouter()
		branch := seedBranch(t, "Main")
		customer := seedCustomer(t, models.CustomerTypeHirePurchase)
		product := seedProduct(t, branch.ID, "BED-1", 1000, 700, 10)

		w := doJSON(t, r, http.MethodPost, "/api/contracts", contractBody(customer.ID, product.ID))
		requireStatus(t, w, http.StatusCreated)

		var contract models.HirePurchaseContract
		require.NoError(t, database.DB.Preload("Items").Preload("Installments").First(&contract).Error)

		// 2 x 1000 with 500 down at 12% over 12 months
		assert.True(t, contract.Subtotal.Equal(decimal.NewFromInt(2000)))
		assert.True(t, contract.FinancedAmount.Equal(decimal.NewFromInt(1500)))
		assert.True(t, contract.TotalInterest.Equal(decimal.NewFromInt(180)))
		assert.True(t, contract.TotalAmount.Equal(decimal.NewFromInt(2180)))
		assert.True(t, contract.MonthlyPayment.Equal(decimal.NewFromInt(140)))
		assert.True(t, contract.RemainingAmount.Equal(decimal.NewFromInt(1680))) // total - down
		assert.Equal(t, models.ContractStatusActive, contract.Status)
		assert.NotEmpty(t, contract.ContractNumber)

		require.Len(t, contract.Items, 1)
		assert.True(t, contract.Items[0].TotalPrice.Equal(decimal.NewFromInt(2000)))

		var installments []models.InstallmentPayment
		require.NoError(t, database.DB.
			Where("contract_id = ?", contract.ID).
			Order("installment_number").
			Find(&installments).Error)
		require.Len(t, installments, 12)
		firstDue := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
		for i, ins := range installments {
			assert.Equal(t, i+1, ins.InstallmentNumber)
			assert.True(t, ins.AmountDue.Equal(decimal.NewFromInt(140)), "installment %d due %s", i+1, ins.AmountDue)
			assert.True(t, ins.AmountPaid.IsZero())
			assert.Equal(t, models.InstallmentStatusPending, ins.Status)
			assert.Equal(t, firstDue.AddDate(0, i, 0).Format("2006-01-02"), ins.DueDate.Format("2006-01-02"))
		}

		var fresh models.Product
		require.NoError(t, database.DB.First(&fresh, product.ID).Error)
		assert.Equal(t, 8, fresh.StockQuantity)

		var movement models.InventoryMovement
		require.NoError(t, database.DB.Where("reference_type = ?", models.MovementRefContract).First(&movement).Error)
		assert.Equal(t, -2, movement.Quantity)
		assert.Equal(t, contract.ID, movement.ReferenceID)
	})

	t.Run("rejects missing customer", func(t *testing.T) {
		setupTestDB(t)
		r := newTestRouter()
		branch := seedBranch(t, "Main")
		product := seedProduct(t, branch.ID, "BED-2", 1000, 700, 10)

		body := contractBody(0, product.ID)
		w := doJSON(t, r, http.MethodPost, "/api/contracts", body)
		requireStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		setupTestDB(t)
		r := newTestRouter()
		customer := seedCustomer(t, models.CustomerTypeHirePurchase)

		body := contractBody(customer.ID, 0)
		body["items"] = []map[string]interface{}{}
		w := doJSON(t, r, http.MethodPost, "/api/contracts", body)
		requireStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rejects an omitted down payment without writing", func(t *testing.T) {
		setupTestDB(t)
		r := newTestRouter()
		branch := seedBranch(t, "Main")
		customer := seedCustomer(t, models.CustomerTypeHirePurchase)
		product := seedProduct(t, branch.ID, "BED-5", 1000, 700, 10)

		// Leaving the field out is not the same as putting 0 down
		body := contractBody(customer.ID, product.ID)
		delete(body, "down_payment")
		w := doJSON(t, r, http.MethodPost, "/api/contracts", body)
		requireStatus(t, w, http.StatusBadRequest)

		var count int64
		database.DB.Model(&models.HirePurchaseContract{}).Count(&count)
		assert.Zero(t, count)

		var fresh models.Product
		require.NoError(t, database.DB.First(&fresh, product.ID).Error)
		assert.Equal(t, 10, fresh.StockQuantity)
	})

	t.Run("accepts an explicit zero down payment", func(t *testing.T) {
		setupTestDB(t)
		r := newTestRouter()
		branch := seedBranch(t, "Main")
		customer := seedCustomer(t, models.CustomerTypeHirePurchase)
		product := seedProduct(t, branch.ID, "BED-6", 1000, 700, 10)

		body := contractBody(customer.ID, product.ID)
		body["down_payment"] = 0
		w := doJSON(t, r, http.MethodPost, "/api/contracts", body)
		requireStatus(t, w, http.StatusCreated)

		var contract models.HirePurchaseContract
		require.NoError(t, database.DB.First(&contract).Error)
		assert.True(t, contract.DownPayment.IsZero())
		assert.True(t, contract.FinancedAmount.Equal(decimal.NewFromInt(2000)))
	})

	t.Run("rejects term outside the offered set without writing", func(t *testing.T) {
		setupTestDB(t)
		r := newTestRouter()
		branch := seedBranch(t, "Main")
		customer := seedCustomer(t, models.CustomerTypeHirePurchase)
		product := seedProduct(t, branch.ID, "BED-3", 1000, 700, 10)

		body := contractBody(customer.ID, product.ID)
		body["term_months"] = 7
		w := doJSON(t, r, http.MethodPost, "/api/contracts", body)
		requireStatus(t, w, http.StatusBadRequest)

		var count int64
		database.DB.Model(&models.HirePurchaseContract{}).Count(&count)
		assert.Zero(t, count)

		var fresh models.Product
		require.NoError(t, database.DB.First(&fresh, product.ID).Error)
		assert.Equal(t, 10, fresh.StockQuantity)
	})

	t.Run("rejects insufficient stock", func(t *testing.T) {
		setupTestDB(t)
		r := newTestRouter()
		branch := seedBranch(t, "Main")
		customer := seedCustomer(t, models.CustomerTypeHirePurchase)
		product := seedProduct(t, branch.ID, "BED-4", 1000, 700, 1)

		w := doJSON(t, r, http.MethodPost, "/api/contracts", contractBody(customer.ID, product.ID))
		requireStatus(t, w, http.StatusBadRequest)
	})
}

func TestQuoteContract(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	branch := seedBranch(t, "Main")
	customer := seedCustomer(t, models.CustomerTypeHirePurchase)
	product := seedProduct(t, branch.ID, "TBL-1", 1000, 700, 10)

	w := doJSON(t, r, http.MethodPost, "/api/contracts/quote", contractBody(customer.ID, product.ID))
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	assert.Equal(t, "140", body["monthly_payment"])
	assert.Equal(t, "2180", body["total_amount"])

	// A quote persists nothing
	var count int64
	database.DB.Model(&models.HirePurchaseContract{}).Count(&count)
	assert.Zero(t, count)

	// A quote without a down payment is rejected too
	noDown := contractBody(customer.ID, product.ID)
	delete(noDown, "down_payment")
	w = doJSON(t, r, http.MethodPost, "/api/contracts/quote", noDown)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestCancelContract(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()
	branch := seedBranch(t, "Main")
	customer := seedCustomer(t, models.CustomerTypeHirePurchase)
	product := seedProduct(t, branch.ID, "TBL-2", 1000, 700, 10)

	w := doJSON(t, r, http.MethodPost, "/api/contracts", contractBody(customer.ID, product.ID))
	requireStatus(t, w, http.StatusCreated)

	var contract models.HirePurchaseContract
	require.NoError(t, database.DB.First(&contract).Error)

	w = doJSON(t, r, http.MethodPost, contractPath(contract.ID, "cancel"), map[string]interface{}{"reason": "customer backed out"})
	requireStatus(t, w, http.StatusOK)

	require.NoError(t, database.DB.First(&contract, contract.ID).Error)
	assert.Equal(t, models.ContractStatusCancelled, contract.Status)

	// Cancelling twice is an invalid transition
	w = doJSON(t, r, http.MethodPost, contractPath(contract.ID, "cancel"), map[string]interface{}{"reason": "again"})
	requireStatus(t, w, http.StatusBadRequest)
}
