// file: internals/features/transport/student_transports/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schooladmin_backend/internals/features/transport/student_transports/model"
	"schooladmin_backend/internals/features/transport/student_transports/service"
)

type RecordPaymentRequest struct {
	StudentID       uuid.UUID       `json:"student_id"       validate:"required"`
	FeeID           uuid.UUID       `json:"fee_id"           validate:"required"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	PaymentMethod   string          `json:"payment_method"   validate:"required,oneof=cash cheque bank_transfer upi online"`
	TransactionDate string          `json:"transaction_date" validate:"required"`
	BankName        *string         `json:"bank_name"        validate:"omitempty,max=120"`
	BankTxnRef      *string         `json:"bank_txn_ref"     validate:"omitempty,max=120"`
	ChequeNumber    *string         `json:"cheque_number"    validate:"required_if=PaymentMethod cheque"`
	// approved (default) | pending
	Status string `json:"status" validate:"omitempty,oneof=approved pending"`
}

func (r *RecordPaymentRequest) IsPending() bool {
	return r.Status == string(model.ApprovalPending)
}

func (r *RecordPaymentRequest) ToPayment(txDate time.Time) service.Payment {
	return service.Payment{
		Amount:          r.PaidAmount,
		Method:          model.PaymentMethod(r.PaymentMethod),
		TransactionDate: txDate,
		BankName:        r.BankName,
		BankTxnRef:      r.BankTxnRef,
		ChequeNumber:    r.ChequeNumber,
	}
}

// MidtransNotification is the subset of the HTTP notification body we read.
type MidtransNotification struct {
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}
