package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ANIKETSHETTY47/gram-panchayat-water-billing/internal/domain"
)

type mockStore struct {
	mock.Mock
}

func ptr[T any](args mock.Arguments, i int) *T {
	if v := args.Get(i); v != nil {
		return v.(*T)
	}
	return nil
}

func (m *mockStore) CreateVillage(ctx context.Context, v *domain.Village) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockStore) GetVillage(ctx context.Context, id int64) (*domain.Village, error) {
	args := m.Called(ctx, id)
	return ptr[domain.Village](args, 0), args.Error(1)
}

func (m *mockStore) ListVillages(ctx context.Context) ([]domain.Village, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Village), args.Error(1)
}

func (m *mockStore) UpdateVillage(ctx context.Context, v *domain.Village) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockStore) CreateHouse(ctx context.Context, h *domain.House) error {
	return m.Called(ctx, h).Error(0)
}

func (m *mockStore) GetHouse(ctx context.Context, id int64) (*domain.House, error) {
	args := m.Called(ctx, id)
	return ptr[domain.House](args, 0), args.Error(1)
}

func (m *mockStore) GetHouseByMeter(ctx context.Context, meterNo string) (*domain.House, error) {
	args := m.Called(ctx, meterNo)
	return ptr[domain.House](args, 0), args.Error(1)
}

func (m *mockStore) ListHouses(ctx context.Context, villageID *int64) ([]domain.House, error) {
	args := m.Called(ctx, villageID)
	return args.Get(0).([]domain.House), args.Error(1)
}

func (m *mockStore) UpdateHouse(ctx context.Context, h *domain.House) error {
	return m.Called(ctx, h).Error(0)
}

func (m *mockStore) CreateUser(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	return ptr[domain.User](args, 0), args.Error(1)
}

func (m *mockStore) ListUsers(ctx context.Context, villageID *int64) ([]domain.User, error) {
	args := m.Called(ctx, villageID)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockStore) UpdateUser(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockStore) GetTariff(ctx context.Context, villageID int64) (*domain.TariffTable, error) {
	args := m.Called(ctx, villageID)
	return ptr[domain.TariffTable](args, 0), args.Error(1)
}

func (m *mockStore) UpdateTariff(ctx context.Context, t *domain.TariffTable) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockStore) InsertReading(ctx context.Context, rd *domain.MeterReading) error {
	return m.Called(ctx, rd).Error(0)
}

func (m *mockStore) ListReadings(ctx context.Context, houseID int64, limit int) ([]domain.MeterReading, error) {
	args := m.Called(ctx, houseID, limit)
	return args.Get(0).([]domain.MeterReading), args.Error(1)
}

func (m *mockStore) LatestBillBefore(ctx context.Context, houseID int64, year, month int) (*domain.Bill, error) {
	args := m.Called(ctx, houseID, year, month)
	return ptr[domain.Bill](args, 0), args.Error(1)
}

func (m *mockStore) CreateBill(ctx context.Context, b *domain.Bill) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockStore) CarryForward(ctx context.Context, b *domain.Bill, from domain.Bill) error {
	return m.Called(ctx, b, from).Error(0)
}

func (m *mockStore) GetBill(ctx context.Context, id int64) (*domain.Bill, error) {
	args := m.Called(ctx, id)
	return ptr[domain.Bill](args, 0), args.Error(1)
}

func (m *mockStore) ListBills(ctx context.Context, f domain.BillFilter) ([]domain.Bill, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *mockStore) ListPayments(ctx context.Context, billID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *mockStore) Summary(ctx context.Context, villageID *int64) (*domain.Summary, error) {
	args := m.Called(ctx, villageID)
	return ptr[domain.Summary](args, 0), args.Error(1)
}

// MutateBill runs fn against the bill returned by the expectation, like the
// row-locked transaction of the real store.
func (m *mockStore) MutateBill(ctx context.Context, id int64, fn func(domain.Bill) (domain.Bill, error)) (*domain.Bill, error) {
	args := m.Called(ctx, id)
	cur := ptr[domain.Bill](args, 0)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	next, err := fn(*cur)
	if err != nil {
		return nil, err
	}
	for i := range next.Payments {
		if next.Payments[i].ID == 0 {
			next.Payments[i].ID = int64(100 + i)
			next.Payments[i].BillID = id
		}
	}
	*cur = next
	return &next, nil
}

type mockCloud struct {
	mock.Mock
}

func (m *mockCloud) ArchiveStatement(ctx context.Context, b domain.Bill) (string, error) {
	args := m.Called(ctx, b)
	return args.String(0), args.Error(1)
}

func (m *mockCloud) BillIssued(ctx context.Context, b domain.Bill, h domain.House) error {
	return m.Called(ctx, b, h).Error(0)
}

func (m *mockCloud) PaymentReceived(ctx context.Context, b domain.Bill, p domain.Payment) error {
	return m.Called(ctx, b, p).Error(0)
}

func (m *mockCloud) OverdueReminder(ctx context.Context, bills []domain.Bill) error {
	return m.Called(ctx, bills).Error(0)
}

func (m *mockCloud) PutReading(ctx context.Context, meterNo string, r domain.MeterReading) error {
	return m.Called(ctx, meterNo, r).Error(0)
}

func (m *mockCloud) RecentReadings(ctx context.Context, meterNo string, since time.Time) ([]domain.MeterReading, error) {
	args := m.Called(ctx, meterNo, since)
	return args.Get(0).([]domain.MeterReading), args.Error(1)
}
