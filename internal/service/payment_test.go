package service

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/billing"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/repository"
)

func newPaymentService(store *mockStore, cloud *mockCloud) *PaymentService {
	return &PaymentService{store: store, notifier: cloud, now: func() time.Time { return fixedNow }}
}

func unpaidBill(total string) *domain.Bill {
	b := &domain.Bill{ID: 11, BillNo: "GP-KDR-202401-X", CurrentDemand: d(total), TotalAmount: d(total)}
	billing.Reconcile(b)
	return b
}

func TestRecordPayment_SequentialPaymentsSettleBill(t *testing.T) {
	store, cloud := new(mockStore), new(mockCloud)
	bill := unpaidBill("500")
	store.On("MutateBill", mock.Anything, int64(11)).Return(bill, nil).Twice()
	cloud.On("PaymentReceived", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()
	svc := newPaymentService(store, cloud)

	first, err := svc.Record(context.Background(), 11, domain.Payment{Amount: d("200"), Mode: domain.PaymentModeCash, RecordedBy: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.BillStatusPartial, first.Status)
	assert.True(t, d("300").Equal(first.RemainingAmount))
	assert.Equal(t, fixedNow, first.Payments[0].PaidAt)

	second, err := svc.Record(context.Background(), 11, domain.Payment{
		Amount: d("300"), Mode: domain.PaymentModeUPI, TransactionID: "UPI-991", RecordedBy: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BillStatusPaid, second.Status)
	assert.True(t, second.RemainingAmount.IsZero())
	assert.True(t, d("500").Equal(second.PaidAmount))
	require.Len(t, second.Payments, 2)

	cloud.AssertExpectations(t)
}

func TestRecordPayment_SettledBillRejected(t *testing.T) {
	store, cloud := new(mockStore), new(mockCloud)
	bill := unpaidBill("500")
	bill.Payments = []domain.Payment{{ID: 1, Amount: d("500"), Mode: domain.PaymentModeCash}}
	billing.Reconcile(bill)
	store.On("MutateBill", mock.Anything, int64(11)).Return(bill, nil).Once()

	_, err := newPaymentService(store, cloud).Record(context.Background(), 11, domain.Payment{Amount: d("1"), Mode: domain.PaymentModeCash})
	assert.True(t, errors.Is(err, billing.ErrBillAlreadySettled))
	cloud.AssertNotCalled(t, "PaymentReceived", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPayment_InvalidPaymentNeverReachesStore(t *testing.T) {
	store, cloud := new(mockStore), new(mockCloud)
	svc := newPaymentService(store, cloud)

	for _, p := range []domain.Payment{
		{Amount: d("0"), Mode: domain.PaymentModeCash},
		{Amount: d("-5"), Mode: domain.PaymentModeCash},
		{Amount: d("5"), Mode: "cheque"},
		{Amount: d("5"), Mode: domain.PaymentModeOnline},
	} {
		_, err := svc.Record(context.Background(), 11, p)
		assert.True(t, errors.Is(err, billing.ErrInvalidInput), "payment %+v", p)
	}
	store.AssertNotCalled(t, "MutateBill", mock.Anything, mock.Anything)
}

func TestRecordPayment_NoticeFailureIsIgnored(t *testing.T) {
	store, cloud := new(mockStore), new(mockCloud)
	store.On("MutateBill", mock.Anything, int64(11)).Return(unpaidBill("100"), nil).Once()
	cloud.On("PaymentReceived", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sns down")).Once()

	b, err := newPaymentService(store, cloud).Record(context.Background(), 11, domain.Payment{Amount: d("100"), Mode: domain.PaymentModeCash})
	require.NoError(t, err)
	assert.Equal(t, domain.BillStatusPaid, b.Status)
}

func TestListPayments_UnknownBill(t *testing.T) {
	store := new(mockStore)
	store.On("GetBill", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound).Once()

	_, err := newPaymentService(store, new(mockCloud)).List(context.Background(), 404)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	store.AssertNotCalled(t, "ListPayments", mock.Anything, mock.Anything)
}
