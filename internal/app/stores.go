// AngelaMos | 2026
// stores.go

package app

import (
	"github.com/carterperez-dev/coworkflow/internal/activity"
	"github.com/carterperez-dev/coworkflow/internal/checkin"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/payment"
	"github.com/carterperez-dev/coworkflow/internal/pricing"
	"github.com/carterperez-dev/coworkflow/internal/qrcode"
	"github.com/carterperez-dev/coworkflow/internal/session"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

// Stores is every persistence dependency of the API.
type Stores struct {
	Users    user.Repository
	Sessions session.Store
	Activity activity.Repository
	CheckIns checkin.Repository
	Codes    qrcode.Repository
	Pricing  pricing.Repository
	Payments payment.Repository
}

func PostgresStores(db *core.Database) Stores {
	return Stores{
		Users:    user.NewRepository(db.DB),
		Sessions: session.NewRepository(db.DB),
		Activity: activity.NewRepository(db.DB),
		CheckIns: checkin.NewRepository(db.DB),
		Codes:    qrcode.NewRepository(db.DB),
		Pricing:  pricing.NewRepository(db.DB, db),
		Payments: payment.NewRepository(db.DB),
	}
}

// MemoryStores backs the API with process memory. Nothing survives a
// restart; it exists for tests and local demos.
func MemoryStores() Stores {
	return Stores{
		Users:    user.NewMemoryRepository(),
		Sessions: session.NewMemoryStore(),
		Activity: activity.NewMemoryRepository(),
		CheckIns: checkin.NewMemoryRepository(),
		Codes:    qrcode.NewMemoryRepository(),
		Pricing:  pricing.NewMemoryRepository(),
		Payments: payment.NewMemoryRepository(),
	}
}
