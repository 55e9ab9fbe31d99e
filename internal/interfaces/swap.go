package interfaces

import (
	"context"
	"time"

	model "github.com/glkeru/rewear/internal/models"
	"github.com/google/uuid"
)

//go:generate mockgen -destination=./../services/mock_storage_test.go -package=services . Storage

type Storage interface {
	UserGet(ctx context.Context, user uuid.UUID) (model.User, error)
	ItemGet(ctx context.Context, item uuid.UUID) (model.Item, error)
	ItemCreate(ctx context.Context, item model.Item) error
	ItemModerate(ctx context.Context, item uuid.UUID, to model.ItemStatus, note string) error
	SwapGet(ctx context.Context, swap uuid.UUID) (model.SwapRequest, error)
	SwapsByUser(ctx context.Context, user uuid.UUID) ([]model.SwapRequest, error)
	SwapCreate(ctx context.Context, swap model.SwapRequest) error
	SwapMarkRead(ctx context.Context, swap uuid.UUID, at time.Time) error
	Apply(ctx context.Context, settle model.Settlement) error
}

type CacheStorage interface {
	GetBalance(ctx context.Context, user uuid.UUID) (points int, err error)
	SetBalance(ctx context.Context, user uuid.UUID, points int) (err error)
	InvalidateBalance(ctx context.Context, user uuid.UUID) error
}

type AuditStorage interface {
	Append(ctx context.Context, event model.SettlementEvent) error
	Events(ctx context.Context, swap uuid.UUID) ([]model.SettlementEvent, error)
}
