package database

import (
	"fmt"
	"time"

	"go-furnish-pos/internal/models"
)

// Reporting periods. Boundaries are local wall-clock: "week" starts Monday,
// "month" on the 1st, "year" on Jan 1.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// PeriodRange resolves a period name to a [start, end] window ending now.
func PeriodRange(period string, now time.Time) (time.Time, time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case PeriodToday:
		return midnight, now, nil
	case PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7 // days since Monday
		return midnight.AddDate(0, 0, -offset), now, nil
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	case PeriodYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), now, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q, want today|week|month|year", period)
}

// DailySales - revenue and order count for one calendar day
type DailySales struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// SalesByDay groups completed sales by calendar day inside the window.
func SalesByDay(start, end time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := DB.Model(&models.Sale{}).
		Select("DATE(sale_time) as date, COUNT(*) as orders, COALESCE(SUM(total_amount), 0) as revenue").
		Where("sale_time BETWEEN ? AND ? AND status = ?", start, end, models.SaleStatusCompleted).
		Group("DATE(sale_time)").
		Order("date").
		Scan(&rows).Error
	return rows, err
}

// ProductRevenue - ranking row for the product report
type ProductRevenue struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Sold     int64   `json:"sold"`
	Revenue  float64 `json:"revenue"`
	Category string  `json:"category"`
}

// TopProductsByRevenue ranks products by sold revenue in the window.
func TopProductsByRevenue(start, end time.Time, limit int) ([]ProductRevenue, error) {
	var rows []ProductRevenue
	err := DB.Table("sale_items").
		Select("products.code as code, products.name as name, products.category as category, SUM(sale_items.quantity) as sold, COALESCE(SUM(sale_items.total_price), 0) as revenue").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.sale_time BETWEEN ? AND ? AND sales.status = ?", start, end, models.SaleStatusCompleted).
		Group("products.code, products.name, products.category").
		Order("revenue desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CustomerSpend - ranking row for the customer report, keyed by phone
type CustomerSpend struct {
	Phone  string  `json:"phone"`
	Name   string  `json:"name"`
	Orders int64   `json:"orders"`
	Spent  float64 `json:"spent"`
}

// TopCustomersBySpend ranks named customers by cash-sale spend in the window.
func TopCustomersBySpend(start, end time.Time, limit int) ([]CustomerSpend, error) {
	var rows []CustomerSpend
	err := DB.Table("sales").
		Select("customers.phone as phone, customers.name as name, COUNT(*) as orders, COALESCE(SUM(sales.total_amount), 0) as spent").
		Joins("JOIN customers ON customers.id = sales.customer_id").
		Where("sales.sale_time BETWEEN ? AND ? AND sales.status = ?", start, end, models.SaleStatusCompleted).
		Group("customers.phone, customers.name").
		Order("spent desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// HirePurchaseSummary - dashboard figures for the credit book
type HirePurchaseSummary struct {
	ActiveContracts     int64   `json:"active_contracts"`
	TotalOutstanding    float64 `json:"total_outstanding"`
	OverdueInstallments int64   `json:"overdue_installments"`
	CollectedInPeriod   float64 `json:"collected_in_period"`
	NewContracts        int64   `json:"new_contracts"`
}

// GetHirePurchaseSummary aggregates the credit book state. Outstanding spans
// all active contracts; collected and new-contract figures use the window.
func GetHirePurchaseSummary(start, end time.Time) (*HirePurchaseSummary, error) {
	var s HirePurchaseSummary

	if err := DB.Model(&models.HirePurchaseContract{}).
		Where("status = ?", models.ContractStatusActive).
		Count(&s.ActiveContracts).Error; err != nil {
		return nil, err
	}

	if err := DB.Model(&models.HirePurchaseContract{}).
		Where("status = ?", models.ContractStatusActive).
		Select("COALESCE(SUM(remaining_amount), 0)").
		Scan(&s.TotalOutstanding).Error; err != nil {
		return nil, err
	}

	if err := DB.Model(&models.InstallmentPayment{}).
		Where("due_date < ? AND status IN ?", end, []string{models.InstallmentStatusPending, models.InstallmentStatusPartial}).
		Count(&s.OverdueInstallments).Error; err != nil {
		return nil, err
	}

	if err := DB.Model(&models.InstallmentReceipt{}).
		Where("paid_at BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&s.CollectedInPeriod).Error; err != nil {
		return nil, err
	}

	if err := DB.Model(&models.HirePurchaseContract{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&s.NewContracts).Error; err != nil {
		return nil, err
	}

	return &s, nil
}

// DashboardSummary - the top-of-screen figures
type DashboardSummary struct {
	Revenue      float64 `json:"revenue"`
	Orders       int64   `json:"orders"`
	Expenses     float64 `json:"expenses"`
	NewContracts int64   `json:"new_contracts"`
}

// GetDashboardSummary sums sales, orders, expenses and new contracts for the window.
func GetDashboardSummary(start, end time.Time) (*DashboardSummary, error) {
	var d DashboardSummary

	if err := DB.Model(&models.Sale{}).
		Where("sale_time BETWEEN ? AND ? AND status = ?", start, end, models.SaleStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&d.Revenue).Error; err != nil {
		return nil, err
	}

	if err := DB.Model(&models.Sale{}).
		Where("sale_time BETWEEN ? AND ? AND status = ?", start, end, models.SaleStatusCompleted).
		Count(&d.Orders).Error; err != nil {
		return nil, err
	}

	if err := DB.Model(&models.BranchExpense{}).
		Where("expense_date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&d.Expenses).Error; err != nil {
		return nil, err
	}

	if err := DB.Model(&models.HirePurchaseContract{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&d.NewContracts).Error; err != nil {
		return nil, err
	}

	return &d, nil
}

// CategoryValuation - stock value held per category
type CategoryValuation struct {
	Category string  `json:"category"`
	Units    int64   `json:"units"`
	Value    float64 `json:"value"`
}

// StockValuation values current inventory at cost, grouped by category.
func StockValuation() ([]CategoryValuation, error) {
	var rows []CategoryValuation
	err := DB.Model(&models.Product{}).
		Select("category, SUM(stock_quantity) as units, COALESCE(SUM(stock_quantity * cost), 0) as value").
		Group("category").
		Order("value desc").
		Scan(&rows).Error
	return rows, err
}

// LowStockProducts lists products at or below their minimum stock level.
func LowStockProducts() ([]models.Product, error) {
	var products []models.Product
	err := DB.Where("stock_quantity <= min_stock_level").Order("stock_quantity").Find(&products).Error
	return products, err
}
