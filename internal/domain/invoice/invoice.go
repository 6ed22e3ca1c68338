package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"pota_dashboard/internal/domain/user"
)

// Status is the stored payment status of an invoice. The only legal
// transition is Pendente/Atrasado -> Pago; there is no way back.
type Status string

const (
	StatusPending Status = "Pendente"
	StatusPaid    Status = "Pago"
	StatusOverdue Status = "Atrasado"
)

// Invoice is a monthly tuition charge owed by a student.
type Invoice struct {
	ID        string
	UserID    string
	User      user.User
	DueDate   time.Time
	Amount    decimal.Decimal // always >= 0
	Status    Status
	CreatedAt time.Time
}
