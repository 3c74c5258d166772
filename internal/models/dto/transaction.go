package dto

import (
	"github.com/hongminglow/reward-points/internal/models"
	"github.com/shopspring/decimal"
)

// TransactionRequest is the body of the add and edit transaction endpoints.
type TransactionRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	SpentDetails    string           `json:"spentDetails"`
	TransactionDate models.Date      `json:"transactionDate"`
}
