package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/common"
	"github.com/Haleralex/ledgerhub/internal/adapters/http/middleware"
	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	domainerrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// ============================================
// Use Case Interfaces
// ============================================

// CreateHoldUseCase places a hold on a wallet balance.
type CreateHoldUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, cmd dtos.CreateHoldCommand) (*dtos.HoldDTO, error)
}

// GetHoldUseCase loads a single hold.
type GetHoldUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, holdID string) (*dtos.HoldDTO, error)
}

// ListHoldsUseCase lists holds, live-now or by created window.
type ListHoldsUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, query dtos.ListHoldsQuery, paging dtos.Paging) (*dtos.HoldListDTO, error)
}

// UpdateHoldUseCase patches a hold's expiry, status or description.
type UpdateHoldUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, holdID string, cmd dtos.UpdateHoldCommand) (*dtos.HoldDTO, error)
}

// ============================================
// Hold Handler
// ============================================

// HoldHandler serves the /holds routes and the wallet-scoped hold
// routes under /wallets/:uid/holds.
type HoldHandler struct {
	createHold   CreateHoldUseCase
	getHold      GetHoldUseCase
	listHolds    ListHoldsUseCase
	updateHold   UpdateHoldUseCase
	pageMaxLimit int
}

// NewHoldHandler creates a HoldHandler.
func NewHoldHandler(
	createHold CreateHoldUseCase,
	getHold GetHoldUseCase,
	listHolds ListHoldsUseCase,
	updateHold UpdateHoldUseCase,
	pageMaxLimit int,
) *HoldHandler {
	return &HoldHandler{
		createHold:   createHold,
		getHold:      getHold,
		listHolds:    listHolds,
		updateHold:   updateHold,
		pageMaxLimit: pageMaxLimit,
	}
}

// ============================================
// Request DTOs
// ============================================

// createWalletHoldRequest is the body of the wallet-scoped create; the
// wallet and currency come from the path.
type createWalletHoldRequest struct {
	Amount      string         `json:"amount" validate:"required,decimal"`
	ExpiresAt   time.Time      `json:"expires_at" validate:"required"`
	Status      string         `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
	UserID      string         `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"meta_data,omitempty"`
}

// ============================================
// HTTP Handlers
// ============================================

// ListWalletHolds handles GET /wallets/:uid/holds. Without a window it
// answers what is live right now.
func (h *HoldHandler) ListWalletHolds(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	query := dtos.ListHoldsQuery{
		WalletID: c.Param("uid"),
		Currency: c.Query("currency"),
		Status:   c.Query("status"),
	}
	if query.From, query.To, ok = parseWindow(c); !ok {
		return
	}
	paging := ParsePaging(c, h.pageMaxLimit)

	result, err := h.listHolds.Execute(c.Request.Context(), authz, query, paging)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.RespondList(c, result.Items, result.Total, result.Offset, result.Limit)
}

// CreateWalletHold handles POST /wallets/:uid/holds/:currency.
func (h *HoldHandler) CreateWalletHold(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	var req createWalletHoldRequest
	if !BindJSON(c, &req) {
		return
	}

	cmd := dtos.CreateHoldCommand{
		WalletID:    c.Param("uid"),
		Currency:    c.Param("currency"),
		Amount:      req.Amount,
		ExpiresAt:   req.ExpiresAt,
		Status:      req.Status,
		UserID:      req.UserID,
		Description: req.Description,
		Metadata:    req.Metadata,
	}

	result, err := h.createHold.Execute(c.Request.Context(), authz, cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordHoldCreated(result.Currency)
	c.JSON(http.StatusCreated, result)
}

// ListHolds handles GET /holds.
func (h *HoldHandler) ListHolds(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	query := dtos.ListHoldsQuery{
		WalletID: c.Query("wallet_id"),
		Currency: c.Query("currency"),
		Status:   c.Query("status"),
	}
	if query.From, query.To, ok = parseWindow(c); !ok {
		return
	}
	paging := ParsePaging(c, h.pageMaxLimit)

	result, err := h.listHolds.Execute(c.Request.Context(), authz, query, paging)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.RespondList(c, result.Items, result.Total, result.Offset, result.Limit)
}

// CreateHold handles POST /holds with the wallet named in the body.
func (h *HoldHandler) CreateHold(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	var cmd dtos.CreateHoldCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.createHold.Execute(c.Request.Context(), authz, cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordHoldCreated(result.Currency)
	c.JSON(http.StatusCreated, result)
}

// GetHold handles GET /holds/:uid.
func (h *HoldHandler) GetHold(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	result, err := h.getHold.Execute(c.Request.Context(), authz, c.Param("uid"))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateHold handles PATCH /holds/:uid. Amount and currency are frozen
// at creation; only expiry, status, description and metadata move.
func (h *HoldHandler) UpdateHold(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	var cmd dtos.UpdateHoldCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.updateHold.Execute(c.Request.Context(), authz, c.Param("uid"), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers the hold routes.
//
//	GET   /wallets/:uid/holds           - List holds of a wallet
//	POST  /wallets/:uid/holds/:currency - Place a hold on a wallet
//	GET   /holds                        - List holds
//	POST  /holds                        - Place a hold
//	GET   /holds/:uid                   - Get hold
//	PATCH /holds/:uid                   - Patch hold
func (h *HoldHandler) RegisterRoutes(router *gin.RouterGroup) {
	wallets := router.Group("/wallets")
	{
		wallets.GET("/:uid/holds", h.ListWalletHolds)
		wallets.POST("/:uid/holds/:currency", h.CreateWalletHold)
	}

	holds := router.Group("/holds")
	{
		holds.GET("", h.ListHolds)
		holds.POST("", h.CreateHold)
		holds.GET("/:uid", h.GetHold)
		holds.PATCH("/:uid", h.UpdateHold)
	}
}

// parseWindow reads the optional from/to RFC 3339 query parameters.
func parseWindow(c *gin.Context) (*time.Time, *time.Time, bool) {
	var from, to *time.Time

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			common.RespondError(c, http.StatusBadRequest, domainerrors.CodeValidation,
				"from must be an RFC 3339 timestamp")
			return nil, nil, false
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			common.RespondError(c, http.StatusBadRequest, domainerrors.CodeValidation,
				"to must be an RFC 3339 timestamp")
			return nil, nil, false
		}
		to = &t
	}

	return from, to, true
}
