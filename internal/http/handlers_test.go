package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/billing"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/repository"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/service"
)

var testNow = time.Date(2024, 2, 5, 13, 30, 0, 0, time.UTC)

func setupApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := repository.New(sqlx.NewDb(db, "sqlmock"))
	svcs := service.NewWithRepos(repos, service.Options{Now: func() time.Time { return testNow }})
	return New(svcs), mock
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

var billCols = []string{
	"id", "bill_no", "house_id", "village_id", "month", "year", "usage_type", "previous_reading", "current_reading",
	"total_usage", "current_demand", "arrears", "interest", "others", "total_amount", "paid_amount", "remaining_amount",
	"status", "due_date", "created_at", "updated_at", "carried_to",
}

var paymentCols = []string{"id", "bill_id", "amount", "mode", "transaction_id", "remarks", "paid_at", "recorded_by"}

func billRows(total, paid, remaining, status string) *sqlmock.Rows {
	return sqlmock.NewRows(billCols).AddRow(
		11, "GP-KDR-202401-01HX", 7, 3, 1, 2024, "residential", "0.00", "18.00",
		"18.00", total, "0.00", "0.00", "0.00", total, paid, remaining, status, testNow, testNow, testNow, nil,
	)
}

func TestHealth(t *testing.T) {
	app, _ := setupApp(t)
	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRecordPayment(t *testing.T) {
	actor := map[string]string{ActorHeader: "2"}

	t.Run("Requires actor header", func(t *testing.T) {
		app, _ := setupApp(t)
		code, body := do(t, app, "POST", "/api/v1/bills/11/payments", `{"amount":"100","payment_mode":"cash"}`, nil)
		assert.Equal(t, fiber.StatusBadRequest, code)
		assert.Contains(t, body["error"], ActorHeader)
	})

	t.Run("Rejects unknown mode", func(t *testing.T) {
		app, _ := setupApp(t)
		code, _ := do(t, app, "POST", "/api/v1/bills/11/payments", `{"amount":"100","payment_mode":"cheque"}`, actor)
		assert.Equal(t, fiber.StatusBadRequest, code)
	})

	t.Run("Rejects non-cash payment without transaction id", func(t *testing.T) {
		app, mock := setupApp(t)
		code, _ := do(t, app, "POST", "/api/v1/bills/11/payments", `{"amount":"100","payment_mode":"upi"}`, actor)
		assert.Equal(t, fiber.StatusBadRequest, code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Partial payment", func(t *testing.T) {
		app, mock := setupApp(t)
		mock.ExpectBegin()
		mock.ExpectQuery("FROM bills WHERE id = \\$1 FOR UPDATE").WithArgs(int64(11)).
			WillReturnRows(billRows("500.00", "0.00", "500.00", "pending"))
		mock.ExpectQuery("FROM payments WHERE bill_id").WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(paymentCols))
		mock.ExpectQuery("INSERT INTO payments").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery("UPDATE bills SET").
			WithArgs(int64(11), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "200",
				"300", "partial", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(testNow))
		mock.ExpectCommit()

		code, body := do(t, app, "POST", "/api/v1/bills/11/payments",
			`{"amount":"200","payment_mode":"upi","transaction_id":"UPI-1"}`, actor)
		assert.Equal(t, fiber.StatusCreated, code)
		assert.Equal(t, "partial", body["status"])
		assert.Equal(t, "300", body["remaining_amount"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Settled bill conflicts", func(t *testing.T) {
		app, mock := setupApp(t)
		mock.ExpectBegin()
		mock.ExpectQuery("FROM bills WHERE id = \\$1 FOR UPDATE").WithArgs(int64(11)).
			WillReturnRows(billRows("500.00", "500.00", "0.00", "paid"))
		mock.ExpectQuery("FROM payments WHERE bill_id").WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(1, 11, "500.00", "cash", "", "", testNow, 2))
		mock.ExpectRollback()

		code, body := do(t, app, "POST", "/api/v1/bills/11/payments", `{"amount":"1","payment_mode":"cash"}`, actor)
		assert.Equal(t, fiber.StatusConflict, code)
		assert.Contains(t, body["error"], "bill already settled")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReviseBill_KeepsOmittedCharges(t *testing.T) {
	app, mock := setupApp(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bills WHERE id = \\$1 FOR UPDATE").WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(billCols).AddRow(
			11, "GP-KDR-202402-01HX", 7, 3, 2, 2024, "residential", "0.00", "18.00",
			"18.00", "100.00", "40.00", "0.00", "0.00", "140.00", "0.00", "140.00", "pending", testNow, testNow, testNow, nil,
		))
	mock.ExpectQuery("FROM payments WHERE bill_id").WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(paymentCols))
	mock.ExpectQuery("UPDATE bills SET").
		WithArgs(int64(11), "40", "5", "0", "145", "0", "145", "pending", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(testNow))
	mock.ExpectCommit()

	code, body := do(t, app, "PATCH", "/api/v1/bills/11/charges", `{"interest":"5"}`, nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "40", body["arrears"])
	assert.Equal(t, "145", body["total_amount"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTelemetryWindowIsBounded(t *testing.T) {
	app, mock := setupApp(t)
	for _, hours := range []string{"0", "-4", "745", "9223372036854775807"} {
		code, _ := do(t, app, "GET", "/api/v1/houses/7/telemetry?hours="+hours, "", nil)
		assert.Equal(t, fiber.StatusBadRequest, code, "hours=%s", hours)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBill_NotFound(t *testing.T) {
	app, mock := setupApp(t)
	mock.ExpectQuery("FROM bills WHERE id = \\$1").WithArgs(int64(404)).WillReturnRows(sqlmock.NewRows(billCols))

	code, _ := do(t, app, "GET", "/api/v1/bills/404", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = do(t, app, "GET", "/api/v1/bills/abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestCreateVillage_Duplicate(t *testing.T) {
	app, mock := setupApp(t)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO villages").WithArgs("Kodur", "KDR", "Kadapa", "AP").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "villages_code_key"})
	mock.ExpectRollback()

	code, _ := do(t, app, "POST", "/api/v1/villages", `{"name":"Kodur","code":"kdr","district":"Kadapa","state":"AP"}`, nil)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = do(t, app, "POST", "/api/v1/villages", `{"name":"Kodur"}`, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestQuoteTariff(t *testing.T) {
	app, mock := setupApp(t)
	mock.ExpectQuery("FROM tariffs WHERE village_id = \\$1").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"village_id", "up_to_7kl", "from_7_to_10kl", "from_10_to_15kl", "from_15_to_20kl", "above_20kl",
			"public_private_institutions", "commercial_enterprises", "industrial_enterprises", "updated_by", "updated_at",
		}).AddRow(3, "5", "6", "7", "8", "9", "12.5", "20", "35.75", nil, testNow))

	code, body := do(t, app, "POST", "/api/v1/villages/3/tariff/quote", `{"usage_type":"residential","usage_kl":"18"}`, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "112", body["demand"])
	assert.Len(t, body["slabs"], 5)
}

func TestOTPDisabled(t *testing.T) {
	app, _ := setupApp(t)
	code, _ := do(t, app, "POST", "/api/v1/otp/send", `{"email":"a@b.in"}`, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, statusOf(errors.Wrap(billing.ErrInvalidInput, "x")))
	assert.Equal(t, fiber.StatusNotFound, statusOf(errors.Wrap(repository.ErrNotFound, "x")))
	assert.Equal(t, fiber.StatusConflict, statusOf(errors.Wrap(billing.ErrBillAlreadySettled, "x")))
	assert.Equal(t, fiber.StatusConflict, statusOf(errors.Wrap(billing.ErrBillCarriedForward, "x")))
	assert.Equal(t, fiber.StatusConflict, statusOf(errors.Wrap(repository.ErrConflict, "x")))
	assert.Equal(t, fiber.StatusServiceUnavailable, statusOf(errors.Wrap(service.ErrUnavailable, "x")))
	assert.Equal(t, fiber.StatusTeapot, statusOf(fiber.NewError(fiber.StatusTeapot)))
	assert.Equal(t, fiber.StatusInternalServerError, statusOf(errors.New("boom")))
}

func TestInternalErrorsAreHidden(t *testing.T) {
	app, mock := setupApp(t)
	mock.ExpectQuery("FROM villages ORDER BY id").WillReturnError(errors.New("connection reset"))

	code, body := do(t, app, "GET", "/api/v1/villages", "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", body["error"])
}
