package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	interf "github.com/glkeru/rewear/internal/interfaces"
	model "github.com/glkeru/rewear/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ModerationService - прием новых вещей и решения модерации.
// Новая вещь создается в статусе pending, модератор переводит ее
// в available или removed. Движок обменов работает только с available.
type ModerationService struct {
	logger *zap.Logger
	db     interf.Storage
}

func NewModerationService(logger *zap.Logger, db interf.Storage) *ModerationService {
	return &ModerationService{logger, db}
}

// Событие нового размещения из каталога
type ListingEvent struct {
	ItemId     string `json:"itemId"`
	UploaderId string `json:"uploaderId"`
	Title      string `json:"title"`
	Points     int    `json:"points"`
}

// Создание вещи по событию размещения
func (m *ModerationService) Intake(ctx context.Context, listingJson string) error {
	event := &ListingEvent{}
	err := json.Unmarshal([]byte(listingJson), event)
	if err != nil {
		return err
	}
	uploader, err := uuid.Parse(event.UploaderId)
	if err != nil {
		return fmt.Errorf("invalid listing: uploaderId field is required")
	}
	if event.Points < 1 {
		return fmt.Errorf("invalid listing: points must be positive")
	}

	item := model.Item{
		UUID:      uuid.New(),
		Uploader:  uploader,
		Title:     event.Title,
		Points:    event.Points,
		Status:    model.ItemPending,
		CreatedAt: time.Now(),
	}
	// id из каталога, если передан
	if event.ItemId != "" {
		id, err := uuid.Parse(event.ItemId)
		if err != nil {
			return fmt.Errorf("invalid listing: itemId is not a uuid")
		}
		item.UUID = id
	}
	return m.db.ItemCreate(ctx, item)
}

// Решение модератора
type DecisionEvent struct {
	ItemId      string `json:"itemId"`
	Approve     bool   `json:"approve"`
	ModeratorId string `json:"moderatorId"`
	Reason      string `json:"reason"`
}

// Обработка решения из очереди модерации
func (m *ModerationService) Decide(ctx context.Context, decisionJson string) (itemId string, err error) {
	decision := &DecisionEvent{}
	err = json.Unmarshal([]byte(decisionJson), decision)
	if err != nil {
		return "", err
	}
	item, err := uuid.Parse(decision.ItemId)
	if err != nil {
		return decision.ItemId, fmt.Errorf("invalid decision: itemId field is required")
	}

	if decision.Approve {
		err = m.Approve(ctx, item)
	} else {
		err = m.Reject(ctx, item, decision.Reason)
	}
	if err != nil {
		return decision.ItemId, err
	}
	return decision.ItemId, nil
}

// pending -> available
func (m *ModerationService) Approve(ctx context.Context, item uuid.UUID) error {
	return m.db.ItemModerate(ctx, item, model.ItemAvailable, "")
}

// pending -> removed, терминальный статус
func (m *ModerationService) Reject(ctx context.Context, item uuid.UUID, reason string) error {
	return m.db.ItemModerate(ctx, item, model.ItemRemoved, reason)
}
