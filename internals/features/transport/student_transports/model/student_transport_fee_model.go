// file: internals/features/transport/student_transports/model/student_transport_fee_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* =========================
   Enums
   ========================= */

// Upcoming → Due → {Paid, Late}; Paid/Late only via a payment.
type FeeStatus string

const (
	FeeStatusUpcoming FeeStatus = "Upcoming"
	FeeStatusDue      FeeStatus = "Due"
	FeeStatusPaid     FeeStatus = "Paid"
	FeeStatusLate     FeeStatus = "Late"
)

func (s FeeStatus) Settled() bool { return s == FeeStatusPaid || s == FeeStatusLate }

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentUPI          PaymentMethod = "upi"
	PaymentOnline       PaymentMethod = "online"
)

type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalPending  ApprovalStatus = "pending"
)

/* =========================
   Ledger entry
   ========================= */

type StudentTransportFeeModel struct {
	StudentTransportFeeID                 uuid.UUID `json:"student_transport_fee_id"                   gorm:"column:student_transport_fee_id;type:uuid;primaryKey"`
	StudentTransportFeeStudentTransportID uuid.UUID `json:"student_transport_fee_student_transport_id" gorm:"column:student_transport_fee_student_transport_id;type:uuid;not null;index"`
	StudentTransportFeeSchoolID           uuid.UUID `json:"student_transport_fee_school_id"            gorm:"column:student_transport_fee_school_id;type:uuid;not null;index"`
	StudentTransportFeeStudentID          uuid.UUID `json:"student_transport_fee_student_id"           gorm:"column:student_transport_fee_student_id;type:uuid;not null;index"`

	StudentTransportFeeMonthName string `json:"student_transport_fee_month_name" gorm:"column:student_transport_fee_month_name;type:varchar(12);not null"`
	StudentTransportFeeMonth     int    `json:"student_transport_fee_month"      gorm:"column:student_transport_fee_month;type:smallint;not null"`
	StudentTransportFeeYear      int    `json:"student_transport_fee_year"       gorm:"column:student_transport_fee_year;not null"`

	StudentTransportFeeTotalAmount decimal.Decimal `json:"student_transport_fee_total_amount" gorm:"column:student_transport_fee_total_amount;type:numeric(12,2);not null;default:0"`
	StudentTransportFeePaidAmount  decimal.Decimal `json:"student_transport_fee_paid_amount"  gorm:"column:student_transport_fee_paid_amount;type:numeric(12,2);not null;default:0"`
	// may go negative on overpayment
	StudentTransportFeeDueAmount decimal.Decimal `json:"student_transport_fee_due_amount" gorm:"column:student_transport_fee_due_amount;type:numeric(12,2);not null;default:0"`
	// amount waiting for approval
	StudentTransportFeePendingAmount *decimal.Decimal `json:"student_transport_fee_pending_amount,omitempty" gorm:"column:student_transport_fee_pending_amount;type:numeric(12,2)"`

	StudentTransportFeeStatus         FeeStatus       `json:"student_transport_fee_status"                    gorm:"column:student_transport_fee_status;type:varchar(10);not null;default:'Upcoming'"`
	StudentTransportFeePaymentMethod  *PaymentMethod  `json:"student_transport_fee_payment_method,omitempty"  gorm:"column:student_transport_fee_payment_method;type:varchar(20)"`
	StudentTransportFeeApprovalStatus *ApprovalStatus `json:"student_transport_fee_approval_status,omitempty" gorm:"column:student_transport_fee_approval_status;type:varchar(10)"`

	StudentTransportFeeTransactionDate *time.Time `json:"student_transport_fee_transaction_date,omitempty" gorm:"column:student_transport_fee_transaction_date"`
	StudentTransportFeePaymentDate     *time.Time `json:"student_transport_fee_payment_date,omitempty"     gorm:"column:student_transport_fee_payment_date"`
	StudentTransportFeeReceiptID       *string    `json:"student_transport_fee_receipt_id,omitempty"       gorm:"column:student_transport_fee_receipt_id;type:varchar(10)"`

	// only when method != cash
	StudentTransportFeeBankName     *string `json:"student_transport_fee_bank_name,omitempty"     gorm:"column:student_transport_fee_bank_name;type:varchar(120)"`
	StudentTransportFeeBankTxnRef   *string `json:"student_transport_fee_bank_txn_ref,omitempty"  gorm:"column:student_transport_fee_bank_txn_ref;type:varchar(120)"`
	StudentTransportFeeChequeNumber *string `json:"student_transport_fee_cheque_number,omitempty" gorm:"column:student_transport_fee_cheque_number;type:varchar(60)"`

	StudentTransportFeeGatewayOrderID *string `json:"student_transport_fee_gateway_order_id,omitempty" gorm:"column:student_transport_fee_gateway_order_id;type:varchar(64)"`

	StudentTransportFeeCreatedAt time.Time `json:"student_transport_fee_created_at" gorm:"column:student_transport_fee_created_at;not null;autoCreateTime"`
	StudentTransportFeeUpdatedAt time.Time `json:"student_transport_fee_updated_at" gorm:"column:student_transport_fee_updated_at;not null;autoUpdateTime"`
}

func (StudentTransportFeeModel) TableName() string { return "student_transport_fees" }

func (m *StudentTransportFeeModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentTransportFeeID == uuid.Nil {
		m.StudentTransportFeeID = uuid.New()
	}
	return nil
}
