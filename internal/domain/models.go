package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleGPAdmin    Role = "gp_admin"
)

func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleGPAdmin
}

// Village is a Gram Panchayat, the billing tenant. Each village owns one tariff table.
type Village struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	District  string    `db:"district" json:"district"`
	State     string    `db:"state" json:"state"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// House is a metered water connection inside a village.
type House struct {
	ID          int64     `db:"id" json:"id"`
	VillageID   int64     `db:"village_id" json:"village_id"`
	HouseNo     string    `db:"house_no" json:"house_no"`
	OwnerName   string    `db:"owner_name" json:"owner_name"`
	Phone       string    `db:"phone" json:"phone"`
	Email       string    `db:"email" json:"email"`
	MeterNo     string    `db:"meter_no" json:"meter_no"`
	UsageType   UsageType `db:"usage_type" json:"usage_type"`
	Active      bool      `db:"active" json:"active"`
	ConnectedOn time.Time `db:"connected_on" json:"connected_on"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Role      Role      `db:"role" json:"role"`
	VillageID *int64    `db:"village_id" json:"village_id,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ReadingSource string

const (
	ReadingSourceManual ReadingSource = "manual"
	ReadingSourceMQTT   ReadingSource = "mqtt"
)

type MeterReading struct {
	ID         int64           `db:"id" json:"id"`
	HouseID    int64           `db:"house_id" json:"house_id"`
	ReadingKL  decimal.Decimal `db:"reading_kl" json:"reading_kl"`
	RecordedAt time.Time       `db:"recorded_at" json:"recorded_at"`
	Source     ReadingSource   `db:"source" json:"source"`
}

// Summary is the dashboard roll-up for the whole system or one village.
type Summary struct {
	Villages    int64            `db:"villages" json:"villages"`
	Houses      int64            `db:"houses" json:"houses"`
	Bills       int64            `db:"bills" json:"bills"`
	Billed      decimal.Decimal  `db:"billed" json:"billed"`
	Collected   decimal.Decimal  `db:"collected" json:"collected"`
	Outstanding decimal.Decimal  `db:"outstanding" json:"outstanding"`
	ByStatus    map[string]int64 `db:"-" json:"by_status,omitempty"`
	GeneratedAt time.Time        `db:"-" json:"generated_at"`
}
