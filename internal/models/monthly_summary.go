package models

import "time"

// MonthlySummary represents one row of the monthly_summaries table.
// (user_id, reference_year, reference_month) is unique.
type MonthlySummary struct {
	SummaryID        string    `db:"summary_id"`
	UserID           string    `db:"user_id"`
	ReferenceMonth   int       `db:"reference_month"`
	ReferenceYear    int       `db:"reference_year"`
	TotalIncome      int64     `db:"total_income"`
	TotalExpenses    int64     `db:"total_expenses"`
	TotalBalance     int64     `db:"total_balance"`
	BillsToPay       int64     `db:"bills_to_pay"`
	BillsCount       int       `db:"bills_count"`
	Status           string    `db:"status"`
	LastCalculatedAt time.Time `db:"last_calculated_at"`
}
