// file: internals/features/transport/student_transports/dto/student_transport_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schooladmin_backend/internals/features/transport/student_transports/model"
	"schooladmin_backend/internals/helpers/dbtime"
)

/* =========================
   Requests
   ========================= */

type CreateStudentTransportRequest struct {
	StudentID  uuid.UUID        `json:"student_transport_student_id"  validate:"required"`
	RouteID    uuid.UUID        `json:"student_transport_route_id"    validate:"required"`
	StopName   *string          `json:"student_transport_stop_name"   validate:"omitempty,max=120"`
	MonthlyFee *decimal.Decimal `json:"student_transport_monthly_fee"`
	// empty → every month of the active academic year
	Months []string `json:"student_transport_months" validate:"omitempty,max=12,dive,required"`
}

type PatchStudentTransportRequest struct {
	StopName   *string          `json:"student_transport_stop_name"   validate:"omitempty,max=120"`
	MonthlyFee *decimal.Decimal `json:"student_transport_monthly_fee"`
	IsActive   *bool            `json:"student_transport_is_active"`
}

type ListStudentTransportQuery struct {
	RouteID   string `query:"route_id"`
	StudentID string `query:"student_id"`
	Active    *bool  `query:"active"`
}

func (r *CreateStudentTransportRequest) Stop() string {
	if r.StopName == nil {
		return ""
	}
	return strings.TrimSpace(*r.StopName)
}

func (r *CreateStudentTransportRequest) ToModel(schoolID, yearID uuid.UUID, fee decimal.Decimal, months []string) model.StudentTransportModel {
	var stop *string
	if s := r.Stop(); s != "" {
		stop = &s
	}
	return model.StudentTransportModel{
		StudentTransportID:             uuid.New(),
		StudentTransportSchoolID:       schoolID,
		StudentTransportAcademicYearID: yearID,
		StudentTransportStudentID:      r.StudentID,
		StudentTransportRouteID:        r.RouteID,
		StudentTransportStopName:       stop,
		StudentTransportMonthlyFee:     fee,
		StudentTransportMonths:         months,
		StudentTransportIsActive:       true,
	}
}

/* =========================
   Responses
   ========================= */

type FeeResponse struct {
	ID              uuid.UUID             `json:"student_transport_fee_id"`
	MonthName       string                `json:"student_transport_fee_month_name"`
	Month           int                   `json:"student_transport_fee_month"`
	Year            int                   `json:"student_transport_fee_year"`
	TotalAmount     decimal.Decimal       `json:"student_transport_fee_total_amount"`
	PaidAmount      decimal.Decimal       `json:"student_transport_fee_paid_amount"`
	DueAmount       decimal.Decimal       `json:"student_transport_fee_due_amount"`
	PendingAmount   *decimal.Decimal      `json:"student_transport_fee_pending_amount,omitempty"`
	Status          model.FeeStatus       `json:"student_transport_fee_status"`
	PaymentMethod   *model.PaymentMethod  `json:"student_transport_fee_payment_method,omitempty"`
	ApprovalStatus  *model.ApprovalStatus `json:"student_transport_fee_approval_status,omitempty"`
	TransactionDate string                `json:"student_transport_fee_transaction_date,omitempty"`
	PaymentDate     *time.Time            `json:"student_transport_fee_payment_date,omitempty"`
	ReceiptID       *string               `json:"student_transport_fee_receipt_id,omitempty"`
	BankName        *string               `json:"student_transport_fee_bank_name,omitempty"`
	BankTxnRef      *string               `json:"student_transport_fee_bank_txn_ref,omitempty"`
	ChequeNumber    *string               `json:"student_transport_fee_cheque_number,omitempty"`
	GatewayOrderID  *string               `json:"student_transport_fee_gateway_order_id,omitempty"`
}

type StudentTransportResponse struct {
	ID             uuid.UUID       `json:"student_transport_id"`
	SchoolID       uuid.UUID       `json:"student_transport_school_id"`
	AcademicYearID uuid.UUID       `json:"student_transport_academic_year_id"`
	StudentID      uuid.UUID       `json:"student_transport_student_id"`
	RouteID        uuid.UUID       `json:"student_transport_route_id"`
	StopName       *string         `json:"student_transport_stop_name,omitempty"`
	MonthlyFee     decimal.Decimal `json:"student_transport_monthly_fee"`
	Months         []string        `json:"student_transport_months"`
	IsActive       bool            `json:"student_transport_is_active"`
	Fees           []FeeResponse   `json:"student_transport_fees,omitempty"`
	CreatedAt      time.Time       `json:"student_transport_created_at"`
	UpdatedAt      time.Time       `json:"student_transport_updated_at"`
}

func FeeFromModel(f model.StudentTransportFeeModel, loc *time.Location) FeeResponse {
	out := FeeResponse{
		ID:             f.StudentTransportFeeID,
		MonthName:      f.StudentTransportFeeMonthName,
		Month:          f.StudentTransportFeeMonth,
		Year:           f.StudentTransportFeeYear,
		TotalAmount:    f.StudentTransportFeeTotalAmount,
		PaidAmount:     f.StudentTransportFeePaidAmount,
		DueAmount:      f.StudentTransportFeeDueAmount,
		PendingAmount:  f.StudentTransportFeePendingAmount,
		Status:         f.StudentTransportFeeStatus,
		PaymentMethod:  f.StudentTransportFeePaymentMethod,
		ApprovalStatus: f.StudentTransportFeeApprovalStatus,
		PaymentDate:    f.StudentTransportFeePaymentDate,
		ReceiptID:      f.StudentTransportFeeReceiptID,
		BankName:       f.StudentTransportFeeBankName,
		BankTxnRef:     f.StudentTransportFeeBankTxnRef,
		ChequeNumber:   f.StudentTransportFeeChequeNumber,
		GatewayOrderID: f.StudentTransportFeeGatewayOrderID,
	}
	if f.StudentTransportFeeTransactionDate != nil {
		out.TransactionDate = dbtime.FormatDMY(*f.StudentTransportFeeTransactionDate, loc)
	}
	return out
}

func FromModel(st model.StudentTransportModel, loc *time.Location) StudentTransportResponse {
	months := []string(st.StudentTransportMonths)
	if months == nil {
		months = []string{}
	}
	out := StudentTransportResponse{
		ID:             st.StudentTransportID,
		SchoolID:       st.StudentTransportSchoolID,
		AcademicYearID: st.StudentTransportAcademicYearID,
		StudentID:      st.StudentTransportStudentID,
		RouteID:        st.StudentTransportRouteID,
		StopName:       st.StudentTransportStopName,
		MonthlyFee:     st.StudentTransportMonthlyFee,
		Months:         months,
		IsActive:       st.StudentTransportIsActive,
		CreatedAt:      st.StudentTransportCreatedAt,
		UpdatedAt:      st.StudentTransportUpdatedAt,
	}
	for _, f := range st.Fees {
		out.Fees = append(out.Fees, FeeFromModel(f, loc))
	}
	return out
}

func FromModels(rows []model.StudentTransportModel, loc *time.Location) []StudentTransportResponse {
	out := make([]StudentTransportResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r, loc))
	}
	return out
}
