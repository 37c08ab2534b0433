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

// CreateWalletUseCase opens a wallet for a user in the tenant.
type CreateWalletUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, cmd dtos.CreateWalletCommand) (*dtos.WalletDTO, error)
}

// GetWalletUseCase loads a wallet with its derived balances.
type GetWalletUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, walletID, currency string) (*dtos.WalletDTO, error)
}

// ListWalletsUseCase lists tenant wallets.
type ListWalletsUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, query dtos.ListWalletsQuery, paging dtos.Paging) (*dtos.WalletListDTO, error)
}

// DeleteWalletUseCase soft-deletes an emptied wallet.
type DeleteWalletUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, walletID string) error
}

// ============================================
// Wallet Handler
// ============================================

// WalletHandler serves the /wallets routes.
type WalletHandler struct {
	createWallet CreateWalletUseCase
	getWallet    GetWalletUseCase
	listWallets  ListWalletsUseCase
	deleteWallet DeleteWalletUseCase
	pageMaxLimit int
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(
	createWallet CreateWalletUseCase,
	getWallet GetWalletUseCase,
	listWallets ListWalletsUseCase,
	deleteWallet DeleteWalletUseCase,
	pageMaxLimit int,
) *WalletHandler {
	return &WalletHandler{
		createWallet: createWallet,
		getWallet:    getWallet,
		listWallets:  listWallets,
		deleteWallet: deleteWallet,
		pageMaxLimit: pageMaxLimit,
	}
}

// ============================================
// HTTP Handlers
// ============================================

// CreateWallet handles POST /wallets. End users cannot open wallets;
// the use case rejects them.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	var cmd dtos.CreateWalletCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.createWallet.Execute(c.Request.Context(), authz, cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetWallet handles GET /wallets/:uid. An optional ?currency= narrows
// the derived balance map to one currency.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	result, err := h.getWallet.Execute(c.Request.Context(), authz, c.Param("uid"), c.Query("currency"))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListWallets handles GET /wallets with user_id and wallet_type
// filters. End users only ever see their own wallets.
func (h *WalletHandler) ListWallets(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	query := dtos.ListWalletsQuery{
		UserID:     c.Query("user_id"),
		WalletType: c.Query("wallet_type"),
	}
	paging := ParsePaging(c, h.pageMaxLimit)

	result, err := h.listWallets.Execute(c.Request.Context(), authz, query, paging)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.RespondList(c, result.Items, result.Total, result.Offset, result.Limit)
}

// DeleteWallet handles DELETE /wallets/:uid. Wallets holding a non-zero
// balance cannot be deleted; income wallets always can.
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	if err := h.deleteWallet.Execute(c.Request.Context(), authz, c.Param("uid")); err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the wallet routes.
//
//	POST   /wallets      - Create wallet
//	GET    /wallets      - List wallets
//	GET    /wallets/:uid - Get wallet with balances
//	DELETE /wallets/:uid - Delete wallet
func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup) {
	wallets := router.Group("/wallets")
	{
		wallets.POST("", h.CreateWallet)
		wallets.GET("", h.ListWallets)
		wallets.GET("/:uid", h.GetWallet)
		wallets.DELETE("/:uid", h.DeleteWallet)
	}
}
