package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	domainerrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// ============================================
// Mock Use Cases
// ============================================

type mockListTransactionsUseCase struct {
	ExecuteFn func(ctx context.Context, authz *auth.Authorization, query dtos.ListTransactionsQuery, paging dtos.Paging) (*dtos.TransactionListDTO, error)
}

func (m *mockListTransactionsUseCase) Execute(ctx context.Context, authz *auth.Authorization, query dtos.ListTransactionsQuery, paging dtos.Paging) (*dtos.TransactionListDTO, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, authz, query, paging)
	}
	return nil, nil
}

type mockGetTransactionUseCase struct {
	ExecuteFn func(ctx context.Context, authz *auth.Authorization, transactionID string) (*dtos.TransactionDTO, error)
}

func (m *mockGetTransactionUseCase) Execute(ctx context.Context, authz *auth.Authorization, transactionID string) (*dtos.TransactionDTO, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, authz, transactionID)
	}
	return nil, nil
}

type mockAddNoteUseCase struct {
	ExecuteFn func(ctx context.Context, authz *auth.Authorization, transactionID string, cmd dtos.AddTransactionNoteCommand) (*dtos.TransactionDTO, error)
}

func (m *mockAddNoteUseCase) Execute(ctx context.Context, authz *auth.Authorization, transactionID string, cmd dtos.AddTransactionNoteCommand) (*dtos.TransactionDTO, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, authz, transactionID, cmd)
	}
	return nil, nil
}

// ============================================
// Helper Functions
// ============================================

func setupTransactionTestRouter(handler *TransactionHandler, authz *auth.Authorization) *gin.Engine {
	router := gin.New()
	group := router.Group("/api/v1")
	if authz != nil {
		group.Use(withAuth(authz))
	}
	handler.RegisterRoutes(group)
	return router
}

// ============================================
// Test Cases
// ============================================

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockUseCase := &mockListTransactionsUseCase{
			ExecuteFn: func(ctx context.Context, authz *auth.Authorization, query dtos.ListTransactionsQuery, paging dtos.Paging) (*dtos.TransactionListDTO, error) {
				return &dtos.TransactionListDTO{
					Items: []dtos.TransactionDTO{
						{UID: uuid.New().String(), Amount: "-80.00", Currency: "USD", Balance: "20.00"},
						{UID: uuid.New().String(), Amount: "100.00", Currency: "USD", Balance: "100.00"},
					},
					Total: 2,
					Limit: 20,
				}, nil
			},
		}

		handler := NewTransactionHandler(mockUseCase, nil, nil, 100)
		router := setupTransactionTestRouter(handler, testAuthz())

		w := performJSON(router, http.MethodGet, "/api/v1/transactions", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Items []dtos.TransactionDTO `json:"items"`
			Total int                   `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Items, 2)
	})

	t.Run("Filters", func(t *testing.T) {
		walletID := uuid.New().String()
		from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

		mockUseCase := &mockListTransactionsUseCase{
			ExecuteFn: func(ctx context.Context, authz *auth.Authorization, query dtos.ListTransactionsQuery, paging dtos.Paging) (*dtos.TransactionListDTO, error) {
				assert.Equal(t, walletID, query.WalletID)
				assert.Equal(t, "USD", query.Currency)
				require.NotNil(t, query.From)
				assert.True(t, query.From.Equal(from))
				assert.Nil(t, query.To)
				return &dtos.TransactionListDTO{Items: []dtos.TransactionDTO{}}, nil
			},
		}

		handler := NewTransactionHandler(mockUseCase, nil, nil, 100)
		router := setupTransactionTestRouter(handler, testAuthz())

		w := performJSON(router, http.MethodGet,
			"/api/v1/transactions?wallet_id="+walletID+"&currency=USD&from="+from.Format(time.RFC3339), nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("BadWindow", func(t *testing.T) {
		handler := NewTransactionHandler(&mockListTransactionsUseCase{}, nil, nil, 100)
		router := setupTransactionTestRouter(handler, testAuthz())

		w := performJSON(router, http.MethodGet, "/api/v1/transactions?to=last-tuesday", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		handler := NewTransactionHandler(&mockListTransactionsUseCase{}, nil, nil, 100)
		router := setupTransactionTestRouter(handler, nil)

		w := performJSON(router, http.MethodGet, "/api/v1/transactions", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		transactionID := uuid.New().String()

		mockUseCase := &mockGetTransactionUseCase{
			ExecuteFn: func(ctx context.Context, authz *auth.Authorization, id string) (*dtos.TransactionDTO, error) {
				assert.Equal(t, transactionID, id)
				return &dtos.TransactionDTO{UID: transactionID, Note: "rent for august"}, nil
			},
		}

		handler := NewTransactionHandler(nil, mockUseCase, nil, 100)
		router := setupTransactionTestRouter(handler, testAuthz())

		w := performJSON(router, http.MethodGet, "/api/v1/transactions/"+transactionID, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dtos.TransactionDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "rent for august", response.Note)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockUseCase := &mockGetTransactionUseCase{
			ExecuteFn: func(ctx context.Context, authz *auth.Authorization, id string) (*dtos.TransactionDTO, error) {
				return nil, domainerrors.ErrEntityNotFound
			},
		}

		handler := NewTransactionHandler(nil, mockUseCase, nil, 100)
		router := setupTransactionTestRouter(handler, testAuthz())

		w := performJSON(router, http.MethodGet, "/api/v1/transactions/"+uuid.New().String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTransactionHandler_AddNote(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		transactionID := uuid.New().String()

		mockUseCase := &mockAddNoteUseCase{
			ExecuteFn: func(ctx context.Context, authz *auth.Authorization, id string, cmd dtos.AddTransactionNoteCommand) (*dtos.TransactionDTO, error) {
				assert.Equal(t, transactionID, id)
				assert.Equal(t, "disputed by customer", cmd.Note)
				return &dtos.TransactionDTO{UID: transactionID, Note: cmd.Note}, nil
			},
		}

		handler := NewTransactionHandler(nil, nil, mockUseCase, 100)
		router := setupTransactionTestRouter(handler, testAuthz())

		w := performJSON(router, http.MethodPost, "/api/v1/transactions/"+transactionID+"/note",
			dtos.AddTransactionNoteCommand{Note: "disputed by customer"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("EmptyNote", func(t *testing.T) {
		handler := NewTransactionHandler(nil, nil, &mockAddNoteUseCase{}, 100)
		router := setupTransactionTestRouter(handler, testAuthz())

		w := performJSON(router, http.MethodPost, "/api/v1/transactions/"+uuid.New().String()+"/note",
			map[string]any{"note": ""})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		envelope := decodeEnvelope(t, w)
		assert.Equal(t, "validation-error", envelope.Error)
	})

	t.Run("ImmutableEntry", func(t *testing.T) {
		mockUseCase := &mockAddNoteUseCase{
			ExecuteFn: func(ctx context.Context, authz *auth.Authorization, id string, cmd dtos.AddTransactionNoteCommand) (*dtos.TransactionDTO, error) {
				return nil, domainerrors.ErrTransactionImmutable
			},
		}

		handler := NewTransactionHandler(nil, nil, mockUseCase, 100)
		router := setupTransactionTestRouter(handler, testAuthz())

		w := performJSON(router, http.MethodPost, "/api/v1/transactions/"+uuid.New().String()+"/note",
			dtos.AddTransactionNoteCommand{Note: "late note"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
