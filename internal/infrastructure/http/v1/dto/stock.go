package dto

import (
	"jargas/internal/core/types"
	"jargas/internal/domain/registers/stock"
)

// BalanceQuery contains the balance query parameters.
type BalanceQuery struct {
	MaterialIDs []int64 `form:"materialId"`
	Search      string  `form:"search"`
	DateFrom    string  `form:"dateFrom"`
	DateTo      string  `form:"dateTo"`
	Limit       int     `form:"limit" binding:"omitempty,min=1"`
	Offset      int     `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query to a balance filter of projectID.
func (q BalanceQuery) ToFilter(projectID *int64) (stock.BalanceFilter, error) {
	f := stock.BalanceFilter{
		MaterialIDs: q.MaterialIDs,
		Search:      q.Search,
		ProjectID:   projectID,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}

	var err error
	if f.DateFrom, err = optionalDate(q.DateFrom); err != nil {
		return f, err
	}
	if f.DateTo, err = optionalDate(q.DateTo); err != nil {
		return f, err
	}
	return f, nil
}

// BalanceResponse lists balance snapshots with the stock total.
type BalanceResponse struct {
	Items             []stock.BalanceSnapshot `json:"items"`
	TotalCurrentStock types.Quantity          `json:"totalCurrentStock"`
}

// NewBalanceResponse creates a balance response.
func NewBalanceResponse(items []stock.BalanceSnapshot) BalanceResponse {
	if items == nil {
		items = []stock.BalanceSnapshot{}
	}
	return BalanceResponse{
		Items:             items,
		TotalCurrentStock: stock.TotalCurrentStock(items),
	}
}
