// file: internals/features/transport/student_transports/service/ledger.go
package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	m "schooladmin_backend/internals/features/transport/student_transports/model"
	"schooladmin_backend/internals/helpers/dbtime"
)

// NormalizeMonths canonicalizes month names ("april" → "April") keeping order.
func NormalizeMonths(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		mon, ok := dbtime.MonthFromName(n)
		if !ok {
			return nil, errors.Errorf("unknown month %q", n)
		}
		out = append(out, mon.String())
	}
	return out, nil
}

// MonthNames maps month numbers (e.g. an academic year's months) to names.
func MonthNames(months []int) []string {
	out := make([]string, 0, len(months))
	for _, n := range months {
		if n >= 1 && n <= 12 {
			out = append(out, time.Month(n).String())
		}
	}
	return out
}

// billingYear: the current month and later bill this year, earlier months
// fall in the next calendar year.
func billingYear(month time.Month, now time.Time) int {
	if month >= now.Month() {
		return now.Year()
	}
	return now.Year() + 1
}

// SeedLedger builds one entry per billed month. Only the current calendar
// month starts as Due; elapsed months are not back-filled.
func SeedLedger(st m.StudentTransportModel, now time.Time) []m.StudentTransportFeeModel {
	fee := st.StudentTransportMonthlyFee
	out := make([]m.StudentTransportFeeModel, 0, len(st.StudentTransportMonths))
	for _, name := range st.StudentTransportMonths {
		mon, ok := dbtime.MonthFromName(name)
		if !ok {
			continue
		}
		status := m.FeeStatusUpcoming
		if mon == now.Month() {
			status = m.FeeStatusDue
		}
		out = append(out, m.StudentTransportFeeModel{
			StudentTransportFeeID:                 uuid.New(),
			StudentTransportFeeStudentTransportID: st.StudentTransportID,
			StudentTransportFeeSchoolID:           st.StudentTransportSchoolID,
			StudentTransportFeeStudentID:          st.StudentTransportStudentID,
			StudentTransportFeeMonthName:          mon.String(),
			StudentTransportFeeMonth:              int(mon),
			StudentTransportFeeYear:               billingYear(mon, now),
			StudentTransportFeeTotalAmount:        fee,
			StudentTransportFeePaidAmount:         decimal.Zero,
			StudentTransportFeeDueAmount:          fee,
			StudentTransportFeeStatus:             status,
		})
	}
	return out
}

// Reprice applies a new monthly fee to an unpaid entry. Settled entries are
// left alone and false is returned.
func Reprice(e *m.StudentTransportFeeModel, fee decimal.Decimal) bool {
	if e.StudentTransportFeeStatus.Settled() {
		return false
	}
	e.StudentTransportFeeTotalAmount = fee
	e.StudentTransportFeeDueAmount = fee.Sub(e.StudentTransportFeePaidAmount)
	return true
}
