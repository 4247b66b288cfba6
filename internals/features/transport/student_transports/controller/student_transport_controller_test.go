package controller

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schooladmin_backend/internals/events"
	yearModel "schooladmin_backend/internals/features/school/academics/academic_years/model"
	routeModel "schooladmin_backend/internals/features/transport/bus_routes/model"
	dto "schooladmin_backend/internals/features/transport/student_transports/dto"
	m "schooladmin_backend/internals/features/transport/student_transports/model"
	svc "schooladmin_backend/internals/features/transport/student_transports/service"
	schoolMiddleware "schooladmin_backend/internals/middlewares/features"
	"schooladmin_backend/internals/testutil"
)

const serverKey = "SB-Mid-server-test"

type recorder struct {
	mu  sync.Mutex
	got []events.PaymentRecorded
}

func (r *recorder) PublishPaymentRecorded(_ context.Context, msg events.PaymentRecorded) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, msg)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

type fakeGateway struct {
	items []svc.CheckoutItem
}

func (g *fakeGateway) CreateCheckout(item svc.CheckoutItem) (svc.Checkout, error) {
	g.items = append(g.items, item)
	return svc.Checkout{OrderID: item.OrderID, Token: "snap-token", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token", GrossAmount: item.Amount.IntPart()}, nil
}

type fixture struct {
	app      *fiber.App
	db       *gorm.DB
	id       testutil.Identity
	events   *recorder
	gateway  *fakeGateway
	schoolID uuid.UUID
}

func setup(t *testing.T) fixture {
	t.Helper()
	return setupAs(t, testutil.AdminIdentity())
}

func setupAs(t *testing.T, id testutil.Identity) fixture {
	t.Helper()
	// 3 June 2025: June is the current month, July onwards upcoming.
	testutil.FixedClock(t, time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC))

	db := testutil.NewDB(t,
		&yearModel.AcademicYearModel{},
		&routeModel.BusRouteModel{},
		&m.StudentTransportModel{},
		&m.StudentTransportFeeModel{},
	)
	testutil.SeedActiveYear(t, db, id.SchoolID, 2025)

	rec := &recorder{}
	gw := &fakeGateway{}
	ctl := NewStudentTransportController(db, nil, rec, gw, serverKey)

	app := testutil.NewApp(id)
	app.Post("/public/midtrans/notification", ctl.MidtransNotification)

	g := app.Group("/student-transports", schoolMiddleware.ResolveActiveAcademicYear(db))
	g.Post("/payments", ctl.RecordPayment)
	g.Patch("/payments/:fee_id/approve", ctl.ApprovePayment)
	g.Post("/", ctl.Create)
	g.Get("/list", ctl.List)
	g.Get("/student/:student_id", ctl.ListByStudent)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/fees/:fee_id/checkout", ctl.Checkout)

	return fixture{app: app, db: db, id: id, events: rec, gateway: gw, schoolID: id.SchoolID}
}

func (f fixture) seedRoute(t *testing.T, capacity, available int) routeModel.BusRouteModel {
	t.Helper()
	r := routeModel.BusRouteModel{
		BusRouteSchoolID:        f.schoolID,
		BusRouteName:            "North loop",
		BusRouteNumber:          "R-" + uuid.NewString()[:4],
		BusRouteSeatingCapacity: capacity,
		BusRouteAvailableSeats:  available,
		BusRouteStops: []routeModel.RouteStop{
			{Name: "Gate A", MonthlyFee: decimal.NewFromInt(350000)},
			{Name: "Market", MonthlyFee: decimal.NewFromInt(300000)},
		},
	}
	require.NoError(t, f.db.Create(&r).Error)
	return r
}

func (f fixture) seats(t *testing.T, routeID uuid.UUID) int {
	t.Helper()
	var r routeModel.BusRouteModel
	require.NoError(t, f.db.Unscoped().First(&r, "bus_route_id = ?", routeID).Error)
	return r.BusRouteAvailableSeats
}

func (f fixture) assign(t *testing.T, body map[string]any) dto.StudentTransportResponse {
	t.Helper()
	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports", body)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var out dto.StudentTransportResponse
	testutil.DecodeData(t, env, &out)
	return out
}

func feeFor(t *testing.T, st dto.StudentTransportResponse, month string) dto.FeeResponse {
	t.Helper()
	for _, f := range st.Fees {
		if f.MonthName == month {
			return f
		}
	}
	t.Fatalf("no ledger entry for %s", month)
	return dto.FeeResponse{}
}

/* =========================
   Assignment
========================= */

func TestCreateAllocatesSeatAndSeedsLedger(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 2, 2)

	st := f.assign(t, map[string]any{
		"student_transport_student_id": uuid.NewString(),
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})

	assert.Equal(t, 1, f.seats(t, r.BusRouteID))
	assert.Equal(t, "350000", st.MonthlyFee.String())
	require.Len(t, st.Fees, 12)
	assert.Equal(t, "April", st.Months[0])

	june := feeFor(t, st, "June")
	assert.Equal(t, m.FeeStatusDue, june.Status)
	assert.Equal(t, 2025, june.Year)
	assert.Equal(t, "350000", june.DueAmount.String())
	assert.True(t, june.PaidAmount.IsZero())

	jan := feeFor(t, st, "January")
	assert.Equal(t, m.FeeStatusUpcoming, jan.Status)
	assert.Equal(t, 2026, jan.Year)
}

func TestCreateRejectsFullRoute(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 1, 0)

	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports", map[string]any{
		"student_transport_student_id": uuid.NewString(),
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No seats available on this route", env.Message)
	assert.Equal(t, 0, f.seats(t, r.BusRouteID))

	var cnt int64
	require.NoError(t, f.db.Model(&m.StudentTransportModel{}).Count(&cnt).Error)
	assert.Zero(t, cnt)
}

func TestCreateDuplicateStudentKeepsSeat(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 5, 5)
	student := uuid.NewString()
	body := map[string]any{
		"student_transport_student_id": student,
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Market",
	}
	f.assign(t, body)

	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Student already has a transport assignment this academic year", env.Message)
	assert.Equal(t, 4, f.seats(t, r.BusRouteID))
}

func TestCreateUnknownStopRollsBackSeat(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 3, 3)

	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports", map[string]any{
		"student_transport_student_id": uuid.NewString(),
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "gate a",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Stop not found on route", env.Message)
	assert.Equal(t, 3, f.seats(t, r.BusRouteID))
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 3, 3)

	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports", map[string]any{
		"student_transport_route_id": r.BusRouteID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "required", env.Errors["StudentID"])

	code, _ = testutil.Do(t, f.app, http.MethodPost, "/student-transports", map[string]any{
		"student_transport_student_id":  uuid.NewString(),
		"student_transport_route_id":    r.BusRouteID,
		"student_transport_months":      []string{"Smarch"},
		"student_transport_monthly_fee": 1000,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = testutil.Do(t, f.app, http.MethodPost, "/student-transports", map[string]any{
		"student_transport_student_id":  uuid.NewString(),
		"student_transport_route_id":    uuid.NewString(),
		"student_transport_monthly_fee": 1000,
	})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateExplicitMonthsAndFee(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 3, 3)

	st := f.assign(t, map[string]any{
		"student_transport_student_id":  uuid.NewString(),
		"student_transport_route_id":    r.BusRouteID,
		"student_transport_months":      []string{"july", "AUGUST"},
		"student_transport_monthly_fee": "200000",
	})
	assert.Equal(t, []string{"July", "August"}, st.Months)
	require.Len(t, st.Fees, 2)
	for _, fee := range st.Fees {
		assert.Equal(t, m.FeeStatusUpcoming, fee.Status)
		assert.Equal(t, "200000", fee.TotalAmount.String())
	}
}

func TestListAndByStudent(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 5, 5)
	student := uuid.NewString()
	f.assign(t, map[string]any{
		"student_transport_student_id": student,
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})
	f.assign(t, map[string]any{
		"student_transport_student_id": uuid.NewString(),
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Market",
	})

	code, env := testutil.Do(t, f.app, http.MethodGet, "/student-transports/list", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, env.ResultCount)

	code, env = testutil.Do(t, f.app, http.MethodGet, "/student-transports/list?student_id="+student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, env.ResultCount)

	code, env = testutil.Do(t, f.app, http.MethodGet, "/student-transports/student/"+student, nil)
	require.Equal(t, http.StatusOK, code)
	var rows []dto.StudentTransportResponse
	testutil.DecodeData(t, env, &rows)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Fees, 12)
	assert.Equal(t, "June", rows[0].Fees[0].MonthName, "ledger is ordered by billing year and month")
}

func TestDeleteReleasesSeat(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 2, 2)
	st := f.assign(t, map[string]any{
		"student_transport_student_id": uuid.NewString(),
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})
	require.Equal(t, 1, f.seats(t, r.BusRouteID))

	code, _ := testutil.Do(t, f.app, http.MethodDelete, "/student-transports/"+st.ID.String(), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, f.seats(t, r.BusRouteID))

	code, _ = testutil.Do(t, f.app, http.MethodGet, "/student-transports/"+st.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = testutil.Do(t, f.app, http.MethodDelete, "/student-transports/"+st.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, 2, f.seats(t, r.BusRouteID))
}

func TestPatchRepricesOnlyOpenEntries(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 2, 2)
	student := uuid.NewString()
	st := f.assign(t, map[string]any{
		"student_transport_student_id": student,
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})
	june := feeFor(t, st, "June")

	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports/payments", map[string]any{
		"student_id":       student,
		"fee_id":           june.ID,
		"paid_amount":      350000,
		"payment_method":   "cash",
		"transaction_date": "05/06/2025",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = testutil.Do(t, f.app, http.MethodPatch, "/student-transports/"+st.ID.String(), map[string]any{
		"student_transport_stop_name": "Market",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var got dto.StudentTransportResponse
	testutil.DecodeData(t, env, &got)

	assert.Equal(t, "300000", got.MonthlyFee.String())
	require.NotNil(t, got.StopName)
	assert.Equal(t, "Market", *got.StopName)
	assert.Equal(t, "350000", feeFor(t, got, "June").TotalAmount.String())
	assert.Equal(t, m.FeeStatusPaid, feeFor(t, got, "June").Status)
	assert.Equal(t, "300000", feeFor(t, got, "July").DueAmount.String())

	code, _ = testutil.Do(t, f.app, http.MethodPatch, "/student-transports/"+st.ID.String(), map[string]any{
		"student_transport_stop_name": "Harbour",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

/* =========================
   Payments
========================= */

func TestRecordPaymentLateAfterTenth(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 2, 2)
	student := uuid.NewString()
	st := f.assign(t, map[string]any{
		"student_transport_student_id": student,
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})
	june := feeFor(t, st, "June")

	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports/payments", map[string]any{
		"student_id":       student,
		"fee_id":           june.ID,
		"paid_amount":      "350000",
		"payment_method":   "bank_transfer",
		"transaction_date": "15/06/2025",
		"bank_name":        "BCA",
		"bank_txn_ref":     "TRX-889",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var fee dto.FeeResponse
	testutil.DecodeData(t, env, &fee)
	assert.Equal(t, m.FeeStatusLate, fee.Status)
	assert.True(t, fee.DueAmount.IsZero())
	assert.Equal(t, "350000", fee.PaidAmount.String())
	require.NotNil(t, fee.ReceiptID)
	assert.Len(t, *fee.ReceiptID, svc.ReceiptIDLength)
	require.NotNil(t, fee.BankName)
	assert.Equal(t, "BCA", *fee.BankName)
	assert.Equal(t, "15/06/2025", fee.TransactionDate)

	require.Equal(t, 1, f.events.count())
	assert.Equal(t, june.ID, f.events.got[0].FeeID)
	assert.Equal(t, "Late", f.events.got[0].Status)
}

func TestRecordPaymentOverpaidGoesNegative(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 2, 2)
	student := uuid.NewString()
	st := f.assign(t, map[string]any{
		"student_transport_student_id": student,
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Market",
	})

	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports/payments", map[string]any{
		"student_id":       student,
		"fee_id":           feeFor(t, st, "July").ID,
		"paid_amount":      320000,
		"payment_method":   "cash",
		"transaction_date": "01/07/2025",
		"bank_name":        "ignored for cash",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var fee dto.FeeResponse
	testutil.DecodeData(t, env, &fee)
	assert.Equal(t, m.FeeStatusPaid, fee.Status)
	assert.Equal(t, "-20000", fee.DueAmount.String())
	assert.Nil(t, fee.BankName)
}

func TestRecordPaymentErrors(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 2, 2)
	student := uuid.NewString()
	st := f.assign(t, map[string]any{
		"student_transport_student_id": student,
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})
	june := feeFor(t, st, "June")

	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports/payments", map[string]any{
		"student_id":       uuid.NewString(),
		"fee_id":           june.ID,
		"paid_amount":      100,
		"payment_method":   "cash",
		"transaction_date": "01/06/2025",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Fee entry not found", env.Message)

	code, env = testutil.Do(t, f.app, http.MethodPost, "/student-transports/payments", map[string]any{
		"student_id":       student,
		"fee_id":           june.ID,
		"paid_amount":      100,
		"payment_method":   "cheque",
		"transaction_date": "01/06/2025",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "required_if", env.Errors["ChequeNumber"])

	code, _ = testutil.Do(t, f.app, http.MethodPost, "/student-transports/payments", map[string]any{
		"student_id":       student,
		"fee_id":           june.ID,
		"paid_amount":      0,
		"payment_method":   "cash",
		"transaction_date": "01/06/2025",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = testutil.Do(t, f.app, http.MethodPost, "/student-transports/payments", map[string]any{
		"student_id":       student,
		"fee_id":           june.ID,
		"paid_amount":      100,
		"payment_method":   "cash",
		"transaction_date": "2025-06-01",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Zero(t, f.events.count())
}

func TestPendingThenApprove(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 2, 2)
	student := uuid.NewString()
	st := f.assign(t, map[string]any{
		"student_transport_student_id": student,
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})
	june := feeFor(t, st, "June")

	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports/payments", map[string]any{
		"student_id":       student,
		"fee_id":           june.ID,
		"paid_amount":      350000,
		"payment_method":   "upi",
		"transaction_date": "04/06/2025",
		"bank_txn_ref":     "UPI-77",
		"status":           "pending",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var pending dto.FeeResponse
	testutil.DecodeData(t, env, &pending)
	assert.Equal(t, m.FeeStatusDue, pending.Status)
	assert.Equal(t, "350000", pending.DueAmount.String())
	assert.Nil(t, pending.ReceiptID)
	require.NotNil(t, pending.ApprovalStatus)
	assert.Equal(t, m.ApprovalPending, *pending.ApprovalStatus)
	assert.Zero(t, f.events.count())

	code, env = testutil.Do(t, f.app, http.MethodPatch, "/student-transports/payments/"+june.ID.String()+"/approve", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var approved dto.FeeResponse
	testutil.DecodeData(t, env, &approved)
	assert.Equal(t, m.FeeStatusPaid, approved.Status)
	assert.True(t, approved.DueAmount.IsZero())
	assert.Nil(t, approved.PendingAmount)
	require.NotNil(t, approved.ReceiptID)
	assert.Equal(t, 1, f.events.count())

	code, env = testutil.Do(t, f.app, http.MethodPatch, "/student-transports/payments/"+june.ID.String()+"/approve", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Payment is not pending approval", env.Message)
}

func TestApprovePendingJudgesLatenessInSchoolZone(t *testing.T) {
	id := testutil.AdminIdentity()
	id.Loc = time.FixedZone("WIB", 7*3600)
	f := setupAs(t, id)
	r := f.seedRoute(t, 2, 2)
	student := uuid.NewString()
	st := f.assign(t, map[string]any{
		"student_transport_student_id": student,
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})
	june := feeFor(t, st, "June")

	code, env := testutil.Do(t, f.app, http.MethodPost, "/student-transports/payments", map[string]any{
		"student_id":       student,
		"fee_id":           june.ID,
		"paid_amount":      350000,
		"payment_method":   "bank_transfer",
		"transaction_date": "11/06/2025",
		"status":           "pending",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	// 11/06 00:00 WIB as Postgres returns a TIMESTAMPTZ: in UTC
	require.NoError(t, f.db.Model(&m.StudentTransportFeeModel{}).
		Where("student_transport_fee_id = ?", june.ID).
		Update("student_transport_fee_transaction_date", time.Date(2025, time.June, 10, 17, 0, 0, 0, time.UTC)).Error)

	code, env = testutil.Do(t, f.app, http.MethodPatch, "/student-transports/payments/"+june.ID.String()+"/approve", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var approved dto.FeeResponse
	testutil.DecodeData(t, env, &approved)
	assert.Equal(t, m.FeeStatusLate, approved.Status)
	assert.Equal(t, "11/06/2025", approved.TransactionDate)
}

/* =========================
   Guardian access
========================= */

func TestUserRoutesLimitedToOwnStudents(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 3, 3)
	mine := uuid.NewString()
	other := uuid.NewString()
	own := f.assign(t, map[string]any{
		"student_transport_student_id": mine,
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})
	theirs := f.assign(t, map[string]any{
		"student_transport_student_id": other,
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Market",
	})

	ctl := NewStudentTransportController(f.db, nil, f.events, f.gateway, serverKey)
	ctl.OwnStudentsOnly = true
	parent := testutil.Identity{SchoolID: f.schoolID, UserID: uuid.New(), Role: "user", StudentIDs: []string{mine}}
	app := testutil.NewApp(parent)
	g := app.Group("/student-transports", schoolMiddleware.ResolveActiveAcademicYear(f.db))
	g.Get("/student/:student_id", ctl.ListByStudent)
	g.Post("/:id/fees/:fee_id/checkout", ctl.Checkout)

	code, env := testutil.Do(t, app, http.MethodGet, "/student-transports/student/"+mine, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var rows []dto.StudentTransportResponse
	testutil.DecodeData(t, env, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, own.ID, rows[0].ID)

	code, _ = testutil.Do(t, app, http.MethodGet, "/student-transports/student/"+other, nil)
	assert.Equal(t, http.StatusForbidden, code)

	june := feeFor(t, theirs, "June")
	code, _ = testutil.Do(t, app, http.MethodPost,
		"/student-transports/"+theirs.ID.String()+"/fees/"+june.ID.String()+"/checkout", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Empty(t, f.gateway.items)

	june = feeFor(t, own, "June")
	code, env = testutil.Do(t, app, http.MethodPost,
		"/student-transports/"+own.ID.String()+"/fees/"+june.ID.String()+"/checkout", nil)
	assert.Equal(t, http.StatusCreated, code, env.Message)
	assert.Len(t, f.gateway.items, 1)
}

/* =========================
   Midtrans
========================= */

func TestCheckoutAndNotification(t *testing.T) {
	f := setup(t)
	r := f.seedRoute(t, 2, 2)
	st := f.assign(t, map[string]any{
		"student_transport_student_id": uuid.NewString(),
		"student_transport_route_id":   r.BusRouteID,
		"student_transport_stop_name":  "Gate A",
	})
	june := feeFor(t, st, "June")
	checkoutPath := "/student-transports/" + st.ID.String() + "/fees/" + june.ID.String() + "/checkout"

	code, env := testutil.Do(t, f.app, http.MethodPost, checkoutPath, nil)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var co svc.Checkout
	testutil.DecodeData(t, env, &co)
	assert.Equal(t, "snap-token", co.Token)
	assert.EqualValues(t, 350000, co.GrossAmount)
	require.Len(t, f.gateway.items, 1)
	assert.Equal(t, "Transport fee June", f.gateway.items[0].Name)

	var stored m.StudentTransportFeeModel
	require.NoError(t, f.db.First(&stored, "student_transport_fee_id = ?", june.ID).Error)
	require.NotNil(t, stored.StudentTransportFeeGatewayOrderID)
	assert.Equal(t, co.OrderID, *stored.StudentTransportFeeGatewayOrderID)

	notify := func(sig string) (int, testutil.Envelope) {
		return testutil.Do(t, f.app, http.MethodPost, "/public/midtrans/notification", map[string]any{
			"transaction_status": "settlement",
			"status_code":        "200",
			"order_id":           co.OrderID,
			"gross_amount":       "350000.00",
			"payment_type":       "bank_transfer",
			"transaction_id":     "mid-123",
			"signature_key":      sig,
		})
	}

	code, _ = notify("deadbeef")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Zero(t, f.events.count())

	code, _ = notify(svc.Signature(co.OrderID, "200", "350000.00", serverKey))
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, f.db.First(&stored, "student_transport_fee_id = ?", june.ID).Error)
	assert.Equal(t, m.FeeStatusPaid, stored.StudentTransportFeeStatus)
	require.NotNil(t, stored.StudentTransportFeePaymentMethod)
	assert.Equal(t, m.PaymentOnline, *stored.StudentTransportFeePaymentMethod)
	assert.True(t, stored.StudentTransportFeeDueAmount.IsZero())
	assert.Equal(t, 1, f.events.count())

	// retried notification is acknowledged without a second event
	code, _ = notify(svc.Signature(co.OrderID, "200", "350000.00", serverKey))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, f.events.count())

	code, env = testutil.Do(t, f.app, http.MethodPost, checkoutPath, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Fee entry is already settled", env.Message)
}

func TestNotificationUnknownOrderIsIgnored(t *testing.T) {
	f := setup(t)
	sig := svc.Signature("TRF-unknown-1", "200", "1000.00", serverKey)

	code, _ := testutil.Do(t, f.app, http.MethodPost, "/public/midtrans/notification", map[string]any{
		"transaction_status": "settlement",
		"status_code":        "200",
		"order_id":           "TRF-unknown-1",
		"gross_amount":       "1000.00",
		"signature_key":      sig,
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, f.events.count())
}
