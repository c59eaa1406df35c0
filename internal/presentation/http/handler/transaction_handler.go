package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mkamau/storesight-api/internal/application/service"
	"github.com/mkamau/storesight-api/internal/domain/enum"
	"github.com/mkamau/storesight-api/internal/domain/repository"
	"github.com/mkamau/storesight-api/internal/presentation/http/dto/request"
	"github.com/mkamau/storesight-api/internal/presentation/http/dto/response"
	"github.com/mkamau/storesight-api/pkg/pagination"
)

// TransactionHandler handles sale and purchase HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// RecordSale handles recording a sale event
func (h *TransactionHandler) RecordSale(c *gin.Context) {
	h.record(c, enum.TransactionKindSale, "Sale recorded successfully")
}

// RecordPurchase handles recording a purchase event
func (h *TransactionHandler) RecordPurchase(c *gin.Context) {
	h.record(c, enum.TransactionKindPurchase, "Purchase recorded successfully")
}

func (h *TransactionHandler) record(c *gin.Context, kind enum.TransactionKind, message string) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	txn, err := h.transactionService.RecordTransaction(c.Request.Context(), &service.RecordTransactionInput{
		UserID:      *userID,
		Kind:        kind,
		ReferenceNo: req.ReferenceNo,
		Payload:     req.Payload,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, message, txn)
}

// List handles listing transactions with filters
func (h *TransactionHandler) List(c *gin.Context) {
	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	switch filter.Kind {
	case "sale":
		kind := enum.TransactionKindSale
		params.Kind = &kind
	case "purchase":
		kind := enum.TransactionKindPurchase
		params.Kind = &kind
	}

	if filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		// Include the whole end day
		end = end.Add(24*time.Hour - time.Millisecond)
		params.EndDate = &end
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// Get handles getting a single transaction
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}

// Delete handles deleting a transaction
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
