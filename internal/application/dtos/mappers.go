// Package dtos - Mappers converting domain entities to DTOs.
//
// Pattern: Mapper/Converter
// Separates domain representation from API representation.
package dtos

import (
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/valueobjects"
)

// ============================================
// Wallet Mappers
// ============================================

// ToWalletDTO converts a Wallet entity to a DTO without balances.
func ToWalletDTO(wallet *entities.Wallet) WalletDTO {
	return WalletDTO{
		UID:          wallet.UID().String(),
		BusinessName: wallet.BusinessName(),
		UserID:       wallet.UserID().String(),
		WalletType:   string(wallet.WalletType()),
		MainCurrency: wallet.MainCurrency(),
		Metadata:     wallet.Metadata(),
		CreatedAt:    wallet.CreatedAt(),
		UpdatedAt:    wallet.UpdatedAt(),
	}
}

// ToWalletDTOWithBalance converts a Wallet entity with its balance map.
func ToWalletDTOWithBalance(wallet *entities.Wallet, balance map[string]valueobjects.Balance) WalletDTO {
	dto := ToWalletDTO(wallet)
	dto.Balance = balance
	return dto
}

// ToWalletDTOList converts a wallet slice.
func ToWalletDTOList(wallets []*entities.Wallet) []WalletDTO {
	result := make([]WalletDTO, len(wallets))
	for i, w := range wallets {
		result[i] = ToWalletDTO(w)
	}
	return result
}

// ============================================
// Hold Mappers
// ============================================

// ToHoldDTO converts a WalletHold entity to a DTO.
func ToHoldDTO(hold *entities.WalletHold) HoldDTO {
	return HoldDTO{
		UID:          hold.UID().String(),
		BusinessName: hold.BusinessName(),
		UserID:       hold.UserID().String(),
		WalletID:     hold.WalletID().String(),
		Currency:     hold.Currency(),
		Amount:       hold.Amount().String(),
		ExpiresAt:    hold.ExpiresAt(),
		Status:       string(hold.Status()),
		Description:  hold.Description(),
		Metadata:     hold.Metadata(),
		CreatedAt:    hold.CreatedAt(),
		UpdatedAt:    hold.UpdatedAt(),
	}
}

// ToHoldDTOList converts a hold slice.
func ToHoldDTOList(holds []*entities.WalletHold) []HoldDTO {
	result := make([]HoldDTO, len(holds))
	for i, h := range holds {
		result[i] = ToHoldDTO(h)
	}
	return result
}

// ============================================
// Transaction Mappers
// ============================================

// ToTransactionDTO converts a Transaction entity to a DTO. The latest note
// is attached separately by the use case when requested.
func ToTransactionDTO(tx *entities.Transaction) TransactionDTO {
	return TransactionDTO{
		UID:          tx.UID().String(),
		BusinessName: tx.BusinessName(),
		UserID:       tx.UserID().String(),
		ProposalID:   tx.ProposalID().String(),
		WalletID:     tx.WalletID().String(),
		Amount:       tx.Amount().String(),
		Currency:     tx.Currency(),
		Balance:      tx.Balance().String(),
		Description:  tx.Description(),
		Metadata:     tx.Metadata(),
		CreatedAt:    tx.CreatedAt(),
	}
}

// ToTransactionDTOList converts a transaction slice.
func ToTransactionDTOList(txs []*entities.Transaction) []TransactionDTO {
	result := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		result[i] = ToTransactionDTO(tx)
	}
	return result
}

// ============================================
// Proposal Mappers
// ============================================

// ToProposalDTO converts a Proposal entity to a DTO.
func ToProposalDTO(p *entities.Proposal) ProposalDTO {
	participants := make([]ParticipantDTO, len(p.Participants()))
	for i, pt := range p.Participants() {
		participants[i] = ParticipantDTO{
			WalletID: pt.WalletID.String(),
			Amount:   pt.Amount.String(),
		}
	}

	return ProposalDTO{
		UID:          p.UID().String(),
		BusinessName: p.BusinessName(),
		UserID:       p.UserID().String(),
		Issuer:       string(p.Issuer()),
		IssuerID:     p.IssuerID().String(),
		Amount:       p.Amount().String(),
		Currency:     p.Currency(),
		Description:  p.Description(),
		Note:         p.Note(),
		TaskStatus:   string(p.TaskStatus()),
		Report:       p.Report(),
		Participants: participants,
		Metadata:     p.Metadata(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}

// ToProposalDTOList converts a proposal slice.
func ToProposalDTOList(proposals []*entities.Proposal) []ProposalDTO {
	result := make([]ProposalDTO, len(proposals))
	for i, p := range proposals {
		result[i] = ToProposalDTO(p)
	}
	return result
}
