package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/common"
	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
)

// ============================================
// Use Case Interfaces
// ============================================

// ListTransactionsUseCase lists ledger entries.
type ListTransactionsUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, query dtos.ListTransactionsQuery, paging dtos.Paging) (*dtos.TransactionListDTO, error)
}

// GetTransactionUseCase loads one ledger entry with its latest note.
type GetTransactionUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, transactionID string) (*dtos.TransactionDTO, error)
}

// AddNoteUseCase appends a note to a ledger entry.
type AddNoteUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, transactionID string, cmd dtos.AddTransactionNoteCommand) (*dtos.TransactionDTO, error)
}

// ============================================
// Transaction Handler
// ============================================

// TransactionHandler serves the /transactions routes. The ledger is
// append-only; the only write is the note log.
type TransactionHandler struct {
	listTransactions ListTransactionsUseCase
	getTransaction   GetTransactionUseCase
	addNote          AddNoteUseCase
	pageMaxLimit     int
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(
	listTransactions ListTransactionsUseCase,
	getTransaction GetTransactionUseCase,
	addNote AddNoteUseCase,
	pageMaxLimit int,
) *TransactionHandler {
	return &TransactionHandler{
		listTransactions: listTransactions,
		getTransaction:   getTransaction,
		addNote:          addNote,
		pageMaxLimit:     pageMaxLimit,
	}
}

// ============================================
// HTTP Handlers
// ============================================

// ListTransactions handles GET /transactions with wallet_id, currency
// and from/to filters.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	query := dtos.ListTransactionsQuery{
		WalletID: c.Query("wallet_id"),
		Currency: c.Query("currency"),
	}
	if query.From, query.To, ok = parseWindow(c); !ok {
		return
	}
	paging := ParsePaging(c, h.pageMaxLimit)

	result, err := h.listTransactions.Execute(c.Request.Context(), authz, query, paging)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.RespondList(c, result.Items, result.Total, result.Offset, result.Limit)
}

// GetTransaction handles GET /transactions/:uid.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	result, err := h.getTransaction.Execute(c.Request.Context(), authz, c.Param("uid"))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddNote handles POST /transactions/:uid/note. Notes accumulate; the
// entry itself never changes.
func (h *TransactionHandler) AddNote(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	var cmd dtos.AddTransactionNoteCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.addNote.Execute(c.Request.Context(), authz, c.Param("uid"), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers the transaction routes.
//
//	GET  /transactions           - List ledger entries
//	GET  /transactions/:uid      - Get ledger entry
//	POST /transactions/:uid/note - Append a note
func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	transactions := router.Group("/transactions")
	{
		transactions.GET("", h.ListTransactions)
		transactions.GET("/:uid", h.GetTransaction)
		transactions.POST("/:uid/note", h.AddNote)
	}
}
