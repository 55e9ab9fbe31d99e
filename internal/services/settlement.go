package services

import (
	"context"
	"time"

	interf "github.com/glkeru/rewear/internal/interfaces"
	model "github.com/glkeru/rewear/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SettlementService - внешняя поверхность движка обменов.
// Каждая операция: загрузка сущностей -> чистый переход -> атомарное применение.
type SettlementService struct {
	logger *zap.Logger
	db     interf.Storage
	cache  interf.CacheStorage
	audit  interf.AuditStorage
}

func NewSettlementService(logger *zap.Logger, db interf.Storage, cache interf.CacheStorage, audit interf.AuditStorage) *SettlementService {
	return &SettlementService{logger, db, cache, audit}
}

// Создание заявки на обмен
func (s *SettlementService) Create(ctx context.Context, caller uuid.UUID, p CreateParams) (model.SwapRequest, error) {
	item, offered, balance, err := s.loadForSwap(ctx, caller, p.Item, p.OfferedItem)
	if err != nil {
		return model.SwapRequest{}, err
	}

	swap, err := CreateSwap(caller, item, offered, balance, p, time.Now())
	if err != nil {
		return model.SwapRequest{}, err
	}

	// защита от дублей pending заявок - на стороне хранилища
	err = s.db.SwapCreate(ctx, swap)
	if err != nil {
		return model.SwapRequest{}, err
	}
	s.appendAudit(ctx, "create", caller, swap, nil)
	return swap, nil
}

// Принятие заявки владельцем вещи
func (s *SettlementService) Accept(ctx context.Context, caller uuid.UUID, swapID uuid.UUID, message string) (model.SwapRequest, error) {
	swap, err := s.db.SwapGet(ctx, swapID)
	if err != nil {
		return model.SwapRequest{}, err
	}

	item, offered, balance, err := s.loadForSwap(ctx, swap.Requester, swap.Item, swap.OfferedItem)
	if err != nil {
		return model.SwapRequest{}, err
	}

	settle, err := Accept(swap, item, offered, caller, balance, message, time.Now())
	if err != nil {
		return model.SwapRequest{}, err
	}
	return s.apply(ctx, "accept", caller, settle)
}

// Отклонение заявки владельцем вещи
func (s *SettlementService) Reject(ctx context.Context, caller uuid.UUID, swapID uuid.UUID, message string) (model.SwapRequest, error) {
	swap, err := s.db.SwapGet(ctx, swapID)
	if err != nil {
		return model.SwapRequest{}, err
	}
	settle, err := Reject(swap, caller, message)
	if err != nil {
		return model.SwapRequest{}, err
	}
	return s.apply(ctx, "reject", caller, settle)
}

// Завершение обмена любой из сторон
func (s *SettlementService) Complete(ctx context.Context, caller uuid.UUID, swapID uuid.UUID) (model.SwapRequest, error) {
	swap, err := s.db.SwapGet(ctx, swapID)
	if err != nil {
		return model.SwapRequest{}, err
	}

	item, offered, _, err := s.loadForSwap(ctx, uuid.Nil, swap.Item, swap.OfferedItem)
	if err != nil {
		return model.SwapRequest{}, err
	}

	settle, err := Complete(swap, item, offered, caller, time.Now())
	if err != nil {
		return model.SwapRequest{}, err
	}
	return s.apply(ctx, "complete", caller, settle)
}

// Отмена заявки инициатором
func (s *SettlementService) Cancel(ctx context.Context, caller uuid.UUID, swapID uuid.UUID, reason string) (model.SwapRequest, error) {
	swap, err := s.db.SwapGet(ctx, swapID)
	if err != nil {
		return model.SwapRequest{}, err
	}
	settle, err := Cancel(swap, caller, reason, time.Now())
	if err != nil {
		return model.SwapRequest{}, err
	}
	return s.apply(ctx, "cancel", caller, settle)
}

// Отметка о прочтении, независима от статуса заявки
func (s *SettlementService) MarkRead(ctx context.Context, caller uuid.UUID, swapID uuid.UUID) error {
	swap, err := s.db.SwapGet(ctx, swapID)
	if err != nil {
		return err
	}
	if !swap.IsParty(caller) {
		return model.ErrNotAuthorized
	}
	return s.db.SwapMarkRead(ctx, swapID, time.Now())
}

// Заявка, доступна только участникам
func (s *SettlementService) Get(ctx context.Context, caller uuid.UUID, swapID uuid.UUID) (model.SwapRequest, error) {
	swap, err := s.db.SwapGet(ctx, swapID)
	if err != nil {
		return model.SwapRequest{}, err
	}
	if !swap.IsParty(caller) {
		return model.SwapRequest{}, model.ErrNotAuthorized
	}
	return swap, nil
}

// Заявки пользователя - входящие и исходящие
func (s *SettlementService) Swaps(ctx context.Context, caller uuid.UUID) ([]model.SwapRequest, error) {
	return s.db.SwapsByUser(ctx, caller)
}

// Баланс
func (s *SettlementService) GetBalance(ctx context.Context, user uuid.UUID) (points int, err error) {
	// cache
	if s.cache != nil {
		points, err = s.cache.GetBalance(ctx, user)
		if err == nil {
			return points, nil
		}
	}
	// database
	u, err := s.db.UserGet(ctx, user)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		_ = s.cache.SetBalance(ctx, user, u.Points)
	}
	return u.Points, nil
}

// События аудита по заявке
func (s *SettlementService) Events(ctx context.Context, swapID uuid.UUID) ([]model.SettlementEvent, error) {
	if s.audit == nil {
		return nil, nil
	}
	return s.audit.Events(ctx, swapID)
}

// применение Settlement: атомарная запись, инвалидация кэша, аудит
func (s *SettlementService) apply(ctx context.Context, action string, caller uuid.UUID, settle model.Settlement) (model.SwapRequest, error) {
	err := s.db.Apply(ctx, settle)
	if err != nil {
		return model.SwapRequest{}, err
	}

	if s.cache != nil {
		for _, e := range settle.Entries {
			err = s.cache.InvalidateBalance(ctx, e.User)
			if err != nil {
				s.logger.Error("cache invalidate",
					zap.String("user", e.User.String()),
					zap.Error(err))
			}
		}
	}
	s.appendAudit(ctx, action, caller, settle.Swap, settle.Entries)
	return settle.Swap, nil
}

// аудит пишется после фиксации, ошибки не ломают операцию
func (s *SettlementService) appendAudit(ctx context.Context, action string, actor uuid.UUID, swap model.SwapRequest, entries []model.LedgerEntry) {
	if s.audit == nil {
		return
	}
	err := s.audit.Append(ctx, model.SettlementEvent{
		UUID:    uuid.New(),
		Swap:    swap.UUID,
		Action:  action,
		Actor:   actor,
		Entries: entries,
		At:      time.Now(),
	})
	if err != nil {
		s.logger.Error("audit append",
			zap.String("swap", swap.UUID.String()),
			zap.String("action", action),
			zap.Error(err))
	}
}

// параллельная загрузка вещи, предложенной вещи и баланса инициатора
func (s *SettlementService) loadForSwap(ctx context.Context, requester uuid.UUID, itemID uuid.UUID, offeredID uuid.UUID) (item model.Item, offered *model.Item, balance int, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		i, err := s.db.ItemGet(gctx, itemID)
		if err != nil {
			return err
		}
		item = i
		return nil
	})
	if offeredID != uuid.Nil {
		g.Go(func() error {
			o, err := s.db.ItemGet(gctx, offeredID)
			if err != nil {
				return err
			}
			offered = &o
			return nil
		})
	}
	if requester != uuid.Nil {
		g.Go(func() error {
			u, err := s.db.UserGet(gctx, requester)
			if err != nil {
				return err
			}
			balance = u.Points
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return model.Item{}, nil, 0, err
	}
	return item, offered, balance, nil
}
