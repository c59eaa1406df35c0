package request

// RecordTransactionRequest represents a sale or purchase submitted by a
// POS client. The payload is stored as-is; only the reference number is
// validated here.
type RecordTransactionRequest struct {
	ReferenceNo string                 `json:"reference_no" binding:"omitempty,max=100"`
	Payload     map[string]interface{} `json:"payload" binding:"required"`
}

// TransactionFilterRequest represents transaction filter parameters
type TransactionFilterRequest struct {
	Kind      string `form:"kind" binding:"omitempty,oneof=sale purchase"`
	Search    string `form:"search"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// ReportRangeRequest represents the date range for dashboard and report
// queries. Dates are inclusive calendar days in YYYY-MM-DD form.
type ReportRangeRequest struct {
	Start   string `form:"start" binding:"required"`
	End     string `form:"end" binding:"required"`
	Refresh bool   `form:"refresh"`
}
