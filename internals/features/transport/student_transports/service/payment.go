// file: internals/features/transport/student_transports/service/payment.go
package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	m "schooladmin_backend/internals/features/transport/student_transports/model"
)

// LateAfterDay is the last day of the billed month a payment counts as on time.
const LateAfterDay = 10

// Payment is one recorded settlement attempt against a ledger entry.
type Payment struct {
	Amount          decimal.Decimal
	Method          m.PaymentMethod
	TransactionDate time.Time
	BankName        *string
	BankTxnRef      *string
	ChequeNumber    *string
}

// IsLate reports whether tx falls after day LateAfterDay of the entry's month,
// judged on the school's calendar. A nil loc keeps tx's own zone.
func IsLate(e m.StudentTransportFeeModel, tx time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = tx.Location()
	}
	cutoff := time.Date(e.StudentTransportFeeYear, time.Month(e.StudentTransportFeeMonth), LateAfterDay+1, 0, 0, 0, 0, loc)
	return !tx.In(loc).Before(cutoff)
}

func attachMetadata(e *m.StudentTransportFeeModel, p Payment) {
	method := p.Method
	tx := p.TransactionDate
	e.StudentTransportFeePaymentMethod = &method
	e.StudentTransportFeeTransactionDate = &tx

	if method == m.PaymentCash {
		e.StudentTransportFeeBankName = nil
		e.StudentTransportFeeBankTxnRef = nil
		e.StudentTransportFeeChequeNumber = nil
		return
	}
	e.StudentTransportFeeBankName = trimmed(p.BankName)
	e.StudentTransportFeeBankTxnRef = trimmed(p.BankTxnRef)
	e.StudentTransportFeeChequeNumber = trimmed(p.ChequeNumber)
}

// ApplyApproved settles the entry: Paid or Late, due reduced by the amount
// (no floor), paid set to the amount, fresh receipt id. loc is the school zone.
func ApplyApproved(e *m.StudentTransportFeeModel, p Payment, now time.Time, loc *time.Location) {
	attachMetadata(e, p)

	if IsLate(*e, p.TransactionDate, loc) {
		e.StudentTransportFeeStatus = m.FeeStatusLate
	} else {
		e.StudentTransportFeeStatus = m.FeeStatusPaid
	}
	e.StudentTransportFeeDueAmount = e.StudentTransportFeeDueAmount.Sub(p.Amount)
	e.StudentTransportFeePaidAmount = p.Amount
	e.StudentTransportFeePendingAmount = nil

	receipt := NewReceiptID()
	e.StudentTransportFeeReceiptID = &receipt
	paidAt := now
	e.StudentTransportFeePaymentDate = &paidAt
	approved := m.ApprovalApproved
	e.StudentTransportFeeApprovalStatus = &approved
}

// ApplyPending records the attempt for later approval; amounts and status stay.
func ApplyPending(e *m.StudentTransportFeeModel, p Payment) {
	attachMetadata(e, p)
	amt := p.Amount
	e.StudentTransportFeePendingAmount = &amt
	pending := m.ApprovalPending
	e.StudentTransportFeeApprovalStatus = &pending
}

// PendingPayment rebuilds the Payment stored by ApplyPending.
func PendingPayment(e m.StudentTransportFeeModel) (Payment, bool) {
	if e.StudentTransportFeeApprovalStatus == nil || *e.StudentTransportFeeApprovalStatus != m.ApprovalPending ||
		e.StudentTransportFeePendingAmount == nil || e.StudentTransportFeeTransactionDate == nil ||
		e.StudentTransportFeePaymentMethod == nil {
		return Payment{}, false
	}
	return Payment{
		Amount:          *e.StudentTransportFeePendingAmount,
		Method:          *e.StudentTransportFeePaymentMethod,
		TransactionDate: *e.StudentTransportFeeTransactionDate,
		BankName:        e.StudentTransportFeeBankName,
		BankTxnRef:      e.StudentTransportFeeBankTxnRef,
		ChequeNumber:    e.StudentTransportFeeChequeNumber,
	}, true
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
