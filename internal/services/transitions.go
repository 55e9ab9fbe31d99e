package services

import (
	"fmt"
	"time"

	model "github.com/glkeru/rewear/internal/models"
	"github.com/google/uuid"
)

// Чистые функции переходов заявки: на входе текущее состояние сущностей,
// на выходе Settlement с эффектами. Никаких обращений к хранилищу,
// атомарность применения - ответственность Storage.Apply.

type CreateParams struct {
	Item          uuid.UUID
	SwapType      model.SwapType
	OfferedItem   uuid.UUID // uuid.Nil для обмена за баллы
	OfferedPoints int
	Message       string
}

// Создание заявки: только проверки, без движений по счетам и статусам вещей
func CreateSwap(caller uuid.UUID, item model.Item, offered *model.Item, balance int, p CreateParams, now time.Time) (model.SwapRequest, error) {
	if caller == item.Uploader {
		return model.SwapRequest{}, model.ErrSelfSwap
	}
	if item.Status != model.ItemAvailable {
		return model.SwapRequest{}, fmt.Errorf("item %s is not available: %w", item.UUID, model.ErrInvalidSwapRequest)
	}

	switch p.SwapType {
	case model.SwapDirect:
		if offered == nil {
			return model.SwapRequest{}, fmt.Errorf("direct swap without offered item: %w", model.ErrInvalidSwapRequest)
		}
		if offered.Uploader != caller {
			return model.SwapRequest{}, fmt.Errorf("offered item %s is not owned by requester: %w", offered.UUID, model.ErrInvalidSwapRequest)
		}
		if offered.Status != model.ItemAvailable {
			return model.SwapRequest{}, fmt.Errorf("offered item %s is not available: %w", offered.UUID, model.ErrInvalidSwapRequest)
		}
	case model.SwapForPoints:
		if p.OfferedPoints < 1 {
			return model.SwapRequest{}, fmt.Errorf("points swap requires offered points: %w", model.ErrInvalidSwapRequest)
		}
		if balance < p.OfferedPoints {
			return model.SwapRequest{}, model.ErrInsufficientFunds
		}
	default:
		return model.SwapRequest{}, fmt.Errorf("unknown swap type %q: %w", p.SwapType, model.ErrInvalidSwapRequest)
	}

	swap := model.SwapRequest{
		UUID:          uuid.New(),
		Item:          item.UUID,
		Requester:     caller,
		ItemOwner:     item.Uploader,
		SwapType:      p.SwapType,
		OfferedPoints: p.OfferedPoints,
		Status:        model.SwapPending,
		Message:       p.Message,
		CreatedAt:     now,
	}
	if offered != nil {
		swap.OfferedItem = offered.UUID
	}
	if err := swap.Validate(); err != nil {
		return model.SwapRequest{}, err
	}
	return swap, nil
}

// Принятие заявки владельцем вещи.
// Эффекты одной единицей: перевод баллов (для points), перевод вещей в swapped,
// бонус владельцу за размещение - стоимость вещи в баллах, для любого типа обмена.
func Accept(swap model.SwapRequest, item model.Item, offered *model.Item, caller uuid.UUID, balance int, message string, now time.Time) (model.Settlement, error) {
	if caller != swap.ItemOwner {
		return model.Settlement{}, model.ErrNotAuthorized
	}
	if swap.Status != model.SwapPending {
		return model.Settlement{}, model.ErrInvalidTransition
	}
	if err := swap.Validate(); err != nil {
		return model.Settlement{}, err
	}
	if item.Status != model.ItemAvailable {
		return model.Settlement{}, fmt.Errorf("item %s: %w", item.UUID, model.ErrInvalidItemState)
	}

	settle := model.Settlement{FromStatus: model.SwapPending}

	// перевод баллов, списание первым - баланс перепроверяется на момент принятия
	if swap.SwapType == model.SwapForPoints {
		if balance < swap.OfferedPoints {
			return model.Settlement{}, model.ErrInsufficientFunds
		}
		settle.Entries = append(settle.Entries,
			model.LedgerEntry{User: swap.Requester, Points: -swap.OfferedPoints},
			model.LedgerEntry{User: swap.ItemOwner, Points: swap.OfferedPoints},
		)
		swap.PointsTransferred = true
		swap.TransferAmount = swap.OfferedPoints
	}

	// бонус за размещение
	if item.Points > 0 {
		settle.Entries = append(settle.Entries,
			model.LedgerEntry{User: item.Uploader, Points: item.Points})
	}

	settle.Items = append(settle.Items, model.ItemTransition{
		Item:     item.UUID,
		Uploader: item.Uploader,
		From:     model.ItemAvailable,
		To:       model.ItemSwapped,
	})

	if swap.SwapType == model.SwapDirect {
		if offered == nil {
			return model.Settlement{}, fmt.Errorf("direct swap without offered item: %w", model.ErrInvalidSwapRequest)
		}
		if offered.Status != model.ItemAvailable {
			return model.Settlement{}, fmt.Errorf("offered item %s: %w", offered.UUID, model.ErrInvalidItemState)
		}
		settle.Items = append(settle.Items, model.ItemTransition{
			Item:     offered.UUID,
			Uploader: offered.Uploader,
			From:     model.ItemAvailable,
			To:       model.ItemSwapped,
		})
	}

	swap.Status = model.SwapAccepted
	swap.ResponseMessage = message
	settle.Swap = swap
	return settle, nil
}

// Отклонение заявки владельцем, без эффектов по счетам и вещам
func Reject(swap model.SwapRequest, caller uuid.UUID, message string) (model.Settlement, error) {
	if caller != swap.ItemOwner {
		return model.Settlement{}, model.ErrNotAuthorized
	}
	if swap.Status != model.SwapPending {
		return model.Settlement{}, model.ErrInvalidTransition
	}
	swap.Status = model.SwapRejected
	swap.ResponseMessage = message
	return model.Settlement{Swap: swap, FromStatus: model.SwapPending}, nil
}

// Завершение обмена любой из сторон.
// Перевод вещей идемпотентен: вещь могла быть переведена в swapped при принятии.
func Complete(swap model.SwapRequest, item model.Item, offered *model.Item, caller uuid.UUID, now time.Time) (model.Settlement, error) {
	if !swap.IsParty(caller) {
		return model.Settlement{}, model.ErrNotAuthorized
	}
	if swap.Status != model.SwapAccepted {
		return model.Settlement{}, model.ErrInvalidTransition
	}

	settle := model.Settlement{
		FromStatus: model.SwapAccepted,
		Completed:  []uuid.UUID{swap.Requester, swap.ItemOwner},
	}

	items := []model.Item{item}
	if offered != nil {
		items = append(items, *offered)
	}
	for _, i := range items {
		switch i.Status {
		case model.ItemSwapped: // уже переведена при принятии
		case model.ItemAvailable:
			settle.Items = append(settle.Items, model.ItemTransition{
				Item:     i.UUID,
				Uploader: i.Uploader,
				From:     model.ItemAvailable,
				To:       model.ItemSwapped,
			})
		default:
			return model.Settlement{}, fmt.Errorf("item %s: %w", i.UUID, model.ErrInvalidItemState)
		}
	}

	swap.Status = model.SwapCompleted
	swap.CompletedAt = now
	settle.Swap = swap
	return settle, nil
}

// Отмена заявки инициатором. Доступна только для непросроченной pending заявки.
// Реверс перевода сохранен для записей с pointsTransferred = true: через публичный
// контракт такое состояние недостижимо (перевод происходит при принятии, принятая
// заявка не отменяется), но если запись его несет - реверс точный, по TransferAmount.
func Cancel(swap model.SwapRequest, caller uuid.UUID, reason string, now time.Time) (model.Settlement, error) {
	if caller != swap.Requester {
		return model.Settlement{}, model.ErrNotAuthorized
	}
	if !swap.CanBeCancelled(now) {
		return model.Settlement{}, model.ErrInvalidTransition
	}

	settle := model.Settlement{FromStatus: swap.Status}
	if swap.PointsTransferred {
		settle.Entries = append(settle.Entries,
			model.LedgerEntry{User: swap.ItemOwner, Points: -swap.TransferAmount, Reverse: true},
			model.LedgerEntry{User: swap.Requester, Points: swap.TransferAmount, Reverse: true},
		)
		swap.PointsTransferred = false
	}

	swap.Status = model.SwapCancelled
	swap.CancelledBy = caller
	swap.CancelledReason = reason
	settle.Swap = swap
	return settle, nil
}
