package dtos

import "time"

// ============================================
// Commands (write operations)
// ============================================

// ParticipantInput is one (wallet, signed amount) leg of a proposal.
type ParticipantInput struct {
	WalletID string `json:"wallet_id" validate:"required,uuid"`
	Amount   string `json:"amount" validate:"required,signed_decimal"` // Signed decimal string
}

// CreateProposalCommand creates a proposal in draft or init. Creating in
// init queues it for processing immediately.
type CreateProposalCommand struct {
	Amount       string             `json:"amount" validate:"required,decimal"`
	Currency     string             `json:"currency" validate:"required"`
	Description  string             `json:"description,omitempty"`
	Note         string             `json:"note,omitempty"`
	TaskStatus   string             `json:"task_status,omitempty" validate:"omitempty,oneof=draft init"`
	Participants []ParticipantInput `json:"participants" validate:"required,min=1,dive"`
	UserID       string             `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Metadata     map[string]any     `json:"meta_data,omitempty"`
}

// UpdateProposalCommand patches a draft proposal. A patched task_status,
// when present, must be "init" and hands the proposal to the processor.
type UpdateProposalCommand struct {
	Amount       *string            `json:"amount,omitempty" validate:"omitempty,decimal"`
	Currency     *string            `json:"currency,omitempty"`
	Description  *string            `json:"description,omitempty"`
	Note         *string            `json:"note,omitempty"`
	TaskStatus   *string            `json:"task_status,omitempty" validate:"omitempty,oneof=init"`
	Participants []ParticipantInput `json:"participants,omitempty" validate:"omitempty,min=1,dive"`
	Metadata     map[string]any     `json:"meta_data,omitempty"`
}

// ListProposalsQuery filters proposal listings.
type ListProposalsQuery struct {
	TaskStatus string `json:"task_status,omitempty"`
}

// ============================================
// DTOs (read models)
// ============================================

// ParticipantDTO mirrors ParticipantInput on the read side.
type ParticipantDTO struct {
	WalletID string `json:"wallet_id"`
	Amount   string `json:"amount"`
}

// ProposalDTO is the wire representation of a proposal. Callers inspect
// task_status to distinguish success from failure after StartProposal;
// report carries the failure message.
type ProposalDTO struct {
	UID          string           `json:"uid"`
	BusinessName string           `json:"business_name"`
	UserID       string           `json:"user_id"`
	Issuer       string           `json:"issuer"`
	IssuerID     string           `json:"issuer_id"`
	Amount       string           `json:"amount"`
	Currency     string           `json:"currency"`
	Description  string           `json:"description,omitempty"`
	Note         string           `json:"note,omitempty"`
	TaskStatus   string           `json:"task_status"`
	Report       string           `json:"report,omitempty"`
	Participants []ParticipantDTO `json:"participants"`
	Metadata     map[string]any   `json:"meta_data,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProposalListDTO is a paginated proposal listing.
type ProposalListDTO struct {
	Items  []ProposalDTO `json:"items"`
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
}
