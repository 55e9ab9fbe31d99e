package models

import (
	"time"

	"github.com/google/uuid"
)

// Движение по счету: Points > 0 - начисление, Points < 0 - списание.
// Списание не может увести баланс в минус.
// Reverse - откат ранее выполненного движения: счетчики earned/spent
// уменьшаются вместо увеличения, баланс меняется одинаково.
type LedgerEntry struct {
	User    uuid.UUID `json:"user" bson:"user"`
	Points  int       `json:"points" bson:"points"`
	Reverse bool      `json:"reverse,omitempty" bson:"reverse,omitempty"`
}

// Перевод вещи в новый статус, From проверяется при применении
type ItemTransition struct {
	Item     uuid.UUID  `json:"item" bson:"item"`
	Uploader uuid.UUID  `json:"uploader" bson:"uploader"`
	From     ItemStatus `json:"from" bson:"from"`
	To       ItemStatus `json:"to" bson:"to"`
}

// Settlement - набор эффектов одного перехода заявки.
// Чистая функция перехода строит Settlement, хранилище применяет его
// как одну атомарную единицу: либо все эффекты, либо ни одного.
type Settlement struct {
	Swap       SwapRequest      // новое состояние заявки
	FromStatus SwapStatus       // ожидаемый текущий статус (защита от гонки)
	Entries    []LedgerEntry    // движения по счетам, списания первыми
	Items      []ItemTransition // переводы вещей
	Completed  []uuid.UUID      // пользователи, кому увеличить swapsCompleted
}

// Событие аудита примененного Settlement
type SettlementEvent struct {
	UUID    uuid.UUID     `bson:"uuid" json:"id"`
	Swap    uuid.UUID     `bson:"swap" json:"swap"`
	Action  string        `bson:"action" json:"action"`
	Actor   uuid.UUID     `bson:"actor" json:"actor"`
	Entries []LedgerEntry `bson:"entries,omitempty" json:"entries,omitempty"`
	At      time.Time     `bson:"at" json:"at"`
}
