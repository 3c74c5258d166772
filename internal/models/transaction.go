package models

import "github.com/shopspring/decimal"

// Transaction is a single customer spending record.
type Transaction struct {
	ID           int64           `json:"id"`
	CustomerID   int64           `json:"customerId"`
	Amount       decimal.Decimal `json:"amount"`
	SpentDetails string          `json:"spentDetails"`
	Date         Date            `json:"transactionDate"`
}

// Period returns the accrual period of the transaction date.
func (t Transaction) Period() Period {
	return t.Date.Period()
}
