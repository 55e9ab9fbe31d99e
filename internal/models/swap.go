package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы заявки на обмен
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCompleted SwapStatus = "completed"
	SwapCancelled SwapStatus = "cancelled"
)

// Статусы вещи
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemAvailable ItemStatus = "available"
	ItemSwapped   ItemStatus = "swapped"
	ItemRemoved   ItemStatus = "removed"
)

// Тип обмена: вещь на вещь или вещь за баллы
type SwapType string

const (
	SwapDirect    SwapType = "direct"
	SwapForPoints SwapType = "points"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// срок жизни заявки, после - отмена недоступна
const ExpireAfter = 7 * 24 * time.Hour

// Счетчики пользователя
type UserStats struct {
	ItemsListed    int `json:"itemsListed" bson:"itemslisted"`
	ItemsSwapped   int `json:"itemsSwapped" bson:"itemsswapped"`
	SwapsCompleted int `json:"swapsCompleted" bson:"swapscompleted"`
	PointsEarned   int `json:"totalPointsEarned" bson:"pointsearned"`
	PointsSpent    int `json:"totalPointsSpent" bson:"pointsspent"`
}

type User struct {
	UUID   uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	Points int       `json:"points"` // баланс, меняется только через LedgerEntry
	Active bool      `json:"active"`
	Stats  UserStats `json:"stats"`
}

type Item struct {
	UUID      uuid.UUID  `json:"id"`
	Uploader  uuid.UUID  `json:"uploader"`
	Title     string     `json:"title"`
	Points    int        `json:"points"` // оценка вещи в баллах
	Status    ItemStatus `json:"status"`
	Note      string     `json:"note,omitempty"` // комментарий модератора
	CreatedAt time.Time  `json:"createdAt"`
}

// Заявка на обмен
type SwapRequest struct {
	UUID              uuid.UUID  `json:"id"`
	Item              uuid.UUID  `json:"item"`
	Requester         uuid.UUID  `json:"requester"`
	ItemOwner         uuid.UUID  `json:"itemOwner"`
	SwapType          SwapType   `json:"swapType"`
	OfferedItem       uuid.UUID  `json:"offeredItem,omitempty"` // uuid.Nil - не предложена
	OfferedPoints     int        `json:"offeredPoints,omitempty"`
	Status            SwapStatus `json:"status"`
	Message           string     `json:"message,omitempty"`
	ResponseMessage   string     `json:"responseMessage,omitempty"`
	PointsTransferred bool       `json:"pointsTransferred"`
	TransferAmount    int        `json:"transferAmount"` // фактически переведено, для точного реверса
	IsRead            bool       `json:"isRead"`
	ReadAt            time.Time  `json:"readAt,omitempty"`
	CancelledBy       uuid.UUID  `json:"cancelledBy,omitempty"`
	CancelledReason   string     `json:"cancelledReason,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	CompletedAt       time.Time  `json:"completedAt,omitempty"`
}

// заявка просрочена
func (s SwapRequest) IsExpired(now time.Time) bool {
	return s.Status == SwapPending && now.Sub(s.CreatedAt) > ExpireAfter
}

// отмена доступна только для непросроченной pending заявки
func (s SwapRequest) CanBeCancelled(now time.Time) bool {
	return s.Status == SwapPending && !s.IsExpired(now)
}

// участник заявки
func (s SwapRequest) IsParty(user uuid.UUID) bool {
	return user == s.Requester || user == s.ItemOwner
}

// структурные инварианты, проверяются при каждой мутации
func (s SwapRequest) Validate() error {
	if s.Requester == s.ItemOwner {
		return ErrSelfSwap
	}
	if s.OfferedItem == uuid.Nil && s.OfferedPoints <= 0 {
		return ErrInvalidSwapRequest
	}
	return nil
}
