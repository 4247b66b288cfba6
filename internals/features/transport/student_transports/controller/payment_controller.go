// file: internals/features/transport/student_transports/controller/payment_controller.go
package controller

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"schooladmin_backend/internals/events"
	dto "schooladmin_backend/internals/features/transport/student_transports/dto"
	m "schooladmin_backend/internals/features/transport/student_transports/model"
	svc "schooladmin_backend/internals/features/transport/student_transports/service"
	helper "schooladmin_backend/internals/helpers"
	helperAuth "schooladmin_backend/internals/helpers/auth"
	"schooladmin_backend/internals/helpers/dbtime"
)

func paymentEvent(e m.StudentTransportFeeModel, at time.Time) events.PaymentRecorded {
	ev := events.PaymentRecorded{
		SchoolID:           e.StudentTransportFeeSchoolID,
		StudentID:          e.StudentTransportFeeStudentID,
		StudentTransportID: e.StudentTransportFeeStudentTransportID,
		FeeID:              e.StudentTransportFeeID,
		Month:              e.StudentTransportFeeMonthName,
		Year:               e.StudentTransportFeeYear,
		PaidAmount:         e.StudentTransportFeePaidAmount,
		DueAmount:          e.StudentTransportFeeDueAmount,
		Status:             string(e.StudentTransportFeeStatus),
		OccurredAt:         at.UTC(),
	}
	if e.StudentTransportFeePaymentMethod != nil {
		ev.PaymentMethod = string(*e.StudentTransportFeePaymentMethod)
	}
	if e.StudentTransportFeeReceiptID != nil {
		ev.ReceiptID = *e.StudentTransportFeeReceiptID
	}
	return ev
}

// publish runs after commit; a broker failure never fails the payment.
func (ctl *StudentTransportController) publish(ctx context.Context, e m.StudentTransportFeeModel, at time.Time) {
	if err := ctl.Events.PublishPaymentRecorded(ctx, paymentEvent(e, at)); err != nil {
		log.Printf("[WARN] publish payment event fee=%s: %v", e.StudentTransportFeeID, err)
	}
}

func loadFee(tx *gorm.DB, where string, args ...any) (m.StudentTransportFeeModel, error) {
	var e m.StudentTransportFeeModel
	err := helper.ForUpdate(tx).Where(where, args...).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return e, errFeeNotFound
	}
	return e, err
}

/* =========================
   Record payment
   POST /student-transports/payments
========================= */

func (ctl *StudentTransportController) RecordPayment(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}

	var req dto.RecordPaymentRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if !req.PaidAmount.IsPositive() {
		return helper.BadRequest("paid_amount must be > 0")
	}
	loc := dbtime.GetSchoolLocation(c)
	txDate, err := dbtime.ParseDMY(req.TransactionDate, loc)
	if err != nil {
		return helper.BadRequest(err.Error())
	}
	now := dbtime.NowIn(loc)

	var entry m.StudentTransportFeeModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		e, err := loadFee(tx,
			"student_transport_fee_id = ? AND student_transport_fee_student_id = ? AND student_transport_fee_school_id = ?",
			req.FeeID, req.StudentID, schoolID)
		if err != nil {
			return err
		}
		if req.IsPending() {
			svc.ApplyPending(&e, req.ToPayment(txDate))
		} else {
			svc.ApplyApproved(&e, req.ToPayment(txDate), now, loc)
		}
		if err := tx.Save(&e).Error; err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return err
	}

	if req.IsPending() {
		return helper.JsonCreated(c, "Payment recorded, awaiting approval", dto.FeeFromModel(entry, loc))
	}
	ctl.publish(c.Context(), entry, now)
	return helper.JsonCreated(c, "Payment recorded", dto.FeeFromModel(entry, loc))
}

/* =========================
   Approve pending
   PATCH /student-transports/payments/:fee_id/approve
========================= */

func (ctl *StudentTransportController) ApprovePayment(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	feeID, err := helper.ParseUUIDParam(c, "fee_id")
	if err != nil {
		return err
	}
	loc := dbtime.GetSchoolLocation(c)
	now := dbtime.NowIn(loc)

	var entry m.StudentTransportFeeModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		e, err := loadFee(tx, "student_transport_fee_id = ? AND student_transport_fee_school_id = ?", feeID, schoolID)
		if err != nil {
			return err
		}
		p, ok := svc.PendingPayment(e)
		if !ok {
			return helper.BadRequest("Payment is not pending approval")
		}
		svc.ApplyApproved(&e, p, now, loc)
		if err := tx.Save(&e).Error; err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return err
	}

	ctl.publish(c.Context(), entry, now)
	return helper.JsonUpdated(c, "Payment approved", dto.FeeFromModel(entry, loc))
}

/* =========================
   Online checkout (Midtrans Snap)
   POST /student-transports/:id/fees/:fee_id/checkout
========================= */

func (ctl *StudentTransportController) Checkout(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetActiveSchoolID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	feeID, err := helper.ParseUUIDParam(c, "fee_id")
	if err != nil {
		return err
	}
	if ctl.Gateway == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Payment gateway is not configured")
	}

	db := ctl.DB.WithContext(c.Context())
	var e m.StudentTransportFeeModel
	if err := db.Where(
		"student_transport_fee_id = ? AND student_transport_fee_student_transport_id = ? AND student_transport_fee_school_id = ?",
		feeID, id, schoolID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errFeeNotFound
		}
		return err
	}
	if err := ctl.ensureStudent(c, e.StudentTransportFeeStudentID); err != nil {
		return err
	}
	if e.StudentTransportFeeStatus.Settled() || !e.StudentTransportFeeDueAmount.IsPositive() {
		return helper.BadRequest("Fee entry is already settled")
	}

	orderID := svc.NewOrderID(e.StudentTransportFeeID, dbtime.Now())
	co, err := ctl.Gateway.CreateCheckout(svc.CheckoutItem{
		OrderID: orderID,
		Amount:  e.StudentTransportFeeDueAmount,
		Name:    "Transport fee " + e.StudentTransportFeeMonthName,
	})
	if err != nil {
		log.Printf("[ERROR] midtrans checkout fee=%s: %v", e.StudentTransportFeeID, err)
		return fiber.NewError(fiber.StatusBadGateway, "Payment gateway error")
	}

	if err := db.Model(&m.StudentTransportFeeModel{}).
		Where("student_transport_fee_id = ?", e.StudentTransportFeeID).
		Update("student_transport_fee_gateway_order_id", orderID).Error; err != nil {
		return err
	}
	return helper.JsonCreated(c, "Checkout created", co)
}

/* =========================
   Midtrans HTTP notification
   POST /api/public/payments/midtrans/notification
========================= */

func (ctl *StudentTransportController) MidtransNotification(c *fiber.Ctx) error {
	var n dto.MidtransNotification
	if err := c.BodyParser(&n); err != nil {
		return helper.BadRequest("Invalid payload")
	}
	if !svc.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, ctl.ServerKey, n.SignatureKey) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid signature")
	}
	if !svc.Settled(n.TransactionStatus, n.FraudStatus) {
		return c.JSON(fiber.Map{"status": "ok"})
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(n.GrossAmount))
	if err != nil {
		return helper.BadRequest("Invalid gross_amount")
	}

	loc := dbtime.GetSchoolLocation(c)
	now := dbtime.NowIn(loc)

	var (
		entry   m.StudentTransportFeeModel
		applied bool
	)
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		e, err := loadFee(tx, "student_transport_fee_gateway_order_id = ?", n.OrderID)
		if err != nil {
			return err
		}
		// Midtrans retries notifications
		if e.StudentTransportFeeStatus.Settled() {
			return nil
		}
		var ref *string
		if n.TransactionID != "" {
			ref = &n.TransactionID
		}
		svc.ApplyApproved(&e, svc.Payment{
			Amount:          amount,
			Method:          m.PaymentOnline,
			TransactionDate: now,
			BankName:        nonEmpty(n.PaymentType),
			BankTxnRef:      ref,
		}, now, loc)
		if err := tx.Save(&e).Error; err != nil {
			return err
		}
		entry, applied = e, true
		return nil
	})
	if errors.Is(err, errFeeNotFound) {
		// 200 so Midtrans stops retrying an order we never issued
		log.Printf("[WARN] midtrans notification for unknown order_id=%s", n.OrderID)
		return c.JSON(fiber.Map{"status": "ignored"})
	}
	if err != nil {
		return err
	}

	if applied {
		ctl.publish(c.Context(), entry, now)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
