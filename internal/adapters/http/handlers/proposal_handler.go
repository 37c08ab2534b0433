package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/common"
	"github.com/Haleralex/ledgerhub/internal/adapters/http/middleware"
	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
)

// ============================================
// Use Case Interfaces
// ============================================

// CreateProposalUseCase creates a proposal, in draft or straight to init.
type CreateProposalUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, cmd dtos.CreateProposalCommand) (*dtos.ProposalDTO, error)
}

// GetProposalUseCase loads one proposal with its participants.
type GetProposalUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, proposalID string) (*dtos.ProposalDTO, error)
}

// ListProposalsUseCase lists tenant proposals.
type ListProposalsUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, query dtos.ListProposalsQuery, paging dtos.Paging) (*dtos.ProposalListDTO, error)
}

// UpdateProposalUseCase patches a draft proposal.
type UpdateProposalUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, proposalID string, cmd dtos.UpdateProposalCommand) (*dtos.ProposalDTO, error)
}

// StartProposalUseCase hands a draft proposal to the processor.
type StartProposalUseCase interface {
	Execute(ctx context.Context, authz *auth.Authorization, proposalID string) (*dtos.ProposalDTO, error)
}

// ============================================
// Proposal Handler
// ============================================

// ProposalHandler serves the /proposals routes. Processing outcomes come
// back in task_status, not in the HTTP status: a proposal that failed its
// balance checks is still a 200 with task_status "error".
type ProposalHandler struct {
	createProposal CreateProposalUseCase
	getProposal    GetProposalUseCase
	listProposals  ListProposalsUseCase
	updateProposal UpdateProposalUseCase
	startProposal  StartProposalUseCase
	pageMaxLimit   int
}

// NewProposalHandler creates a ProposalHandler.
func NewProposalHandler(
	createProposal CreateProposalUseCase,
	getProposal GetProposalUseCase,
	listProposals ListProposalsUseCase,
	updateProposal UpdateProposalUseCase,
	startProposal StartProposalUseCase,
	pageMaxLimit int,
) *ProposalHandler {
	return &ProposalHandler{
		createProposal: createProposal,
		getProposal:    getProposal,
		listProposals:  listProposals,
		updateProposal: updateProposal,
		startProposal:  startProposal,
		pageMaxLimit:   pageMaxLimit,
	}
}

// ============================================
// HTTP Handlers
// ============================================

// CreateProposal handles POST /proposals. With task_status "init" the
// proposal is processed before the response is written.
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	var cmd dtos.CreateProposalCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.createProposal.Execute(c.Request.Context(), authz, cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	if cmd.TaskStatus == "init" {
		middleware.RecordProposalOutcome(result.TaskStatus)
	}
	c.JSON(http.StatusCreated, result)
}

// ListProposals handles GET /proposals with a task_status filter.
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	query := dtos.ListProposalsQuery{
		TaskStatus: c.Query("task_status"),
	}
	paging := ParsePaging(c, h.pageMaxLimit)

	result, err := h.listProposals.Execute(c.Request.Context(), authz, query, paging)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.RespondList(c, result.Items, result.Total, result.Offset, result.Limit)
}

// GetProposal handles GET /proposals/:uid.
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	result, err := h.getProposal.Execute(c.Request.Context(), authz, c.Param("uid"))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateProposal handles PATCH /proposals/:uid. Only drafts are
// patchable; patching task_status to "init" starts processing.
func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	var cmd dtos.UpdateProposalCommand
	if !BindJSON(c, &cmd) {
		return
	}

	result, err := h.updateProposal.Execute(c.Request.Context(), authz, c.Param("uid"), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	if cmd.TaskStatus != nil {
		middleware.RecordProposalOutcome(result.TaskStatus)
	}
	c.JSON(http.StatusOK, result)
}

// StartProposal handles POST /proposals/:uid/start.
func (h *ProposalHandler) StartProposal(c *gin.Context) {
	authz, ok := requireAuth(c)
	if !ok {
		return
	}

	result, err := h.startProposal.Execute(c.Request.Context(), authz, c.Param("uid"))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordProposalOutcome(result.TaskStatus)
	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers the proposal routes.
//
//	POST  /proposals            - Create proposal
//	GET   /proposals            - List proposals
//	GET   /proposals/:uid       - Get proposal
//	PATCH /proposals/:uid       - Patch draft proposal
//	POST  /proposals/:uid/start - Start processing
func (h *ProposalHandler) RegisterRoutes(router *gin.RouterGroup) {
	proposals := router.Group("/proposals")
	{
		proposals.POST("", h.CreateProposal)
		proposals.GET("", h.ListProposals)
		proposals.GET("/:uid", h.GetProposal)
		proposals.PATCH("/:uid", h.UpdateProposal)
		proposals.POST("/:uid/start", h.StartProposal)
	}
}
