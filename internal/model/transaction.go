package model

import (
	"fmt"
)

// TransactionType is the kind of a sent transaction
type TransactionType string

const (
	TransactionTypeTransfer      TransactionType = "transfer"
	TransactionTypeAddEscrow     TransactionType = "addEscrow"
	TransactionTypeReclaimEscrow TransactionType = "reclaimEscrow"
)

// TransactionSent is emitted once a transaction has been submitted
type TransactionSent struct {
	Type   TransactionType `json:"type"`
	To     string          `json:"to"`
	Amount string          `json:"amount"`
}

// Validate validates the notification payload
func (t *TransactionSent) Validate() error {
	switch t.Type {
	case TransactionTypeTransfer:
		if t.To == "" {
			return fmt.Errorf("to is required for transfer transactions")
		}
	case TransactionTypeAddEscrow, TransactionTypeReclaimEscrow:
	default:
		return fmt.Errorf("type must be transfer, addEscrow or reclaimEscrow")
	}
	return nil
}
