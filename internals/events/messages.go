package events

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const RoutingPaymentRecorded = "transport.payment.recorded"

// PaymentRecorded is emitted once a ledger entry payment is approved.
type PaymentRecorded struct {
	SchoolID           uuid.UUID       `json:"school_id"`
	StudentID          uuid.UUID       `json:"student_id"`
	StudentTransportID uuid.UUID       `json:"student_transport_id"`
	FeeID              uuid.UUID       `json:"fee_id"`
	Month              string          `json:"month"`
	Year               int             `json:"year"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	DueAmount          decimal.Decimal `json:"due_amount"`
	Status             string          `json:"status"`
	PaymentMethod      string          `json:"payment_method"`
	ReceiptID          string          `json:"receipt_id"`
	OccurredAt         time.Time       `json:"occurred_at"`
}

func (m PaymentRecorded) ToJSON() ([]byte, error) {
	return sonic.Marshal(m)
}
