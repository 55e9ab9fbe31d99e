package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	sq "github.com/Masterminds/squirrel"
	model "github.com/glkeru/rewear/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SwapDB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewSwapDB(logger *zap.Logger) (db *SwapDB, err error) {
	// config
	purl := os.Getenv("REWEAR_DB")
	if purl == "" {
		return nil, fmt.Errorf("env REWEAR_DB is not set")
	}
	port := os.Getenv("REWEAR_DB_PORT")
	if port == "" {
		return nil, fmt.Errorf("env REWEAR_DB_PORT is not set")
	}
	user := os.Getenv("REWEAR_DB_USER")
	if user == "" {
		return nil, fmt.Errorf("env REWEAR_DB_USER is not set")
	}
	password := os.Getenv("REWEAR_DB_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("env REWEAR_DB_PASSWORD is not set")
	}
	database := os.Getenv("REWEAR_DB_BASE")
	if database == "" {
		return nil, fmt.Errorf("env REWEAR_DB_BASE is not set")
	}
	dsn := "postgres://" + user + ":" + password + "@" + purl + ":" + port + "/" + database

	pool, err := pgxpool.New(context.Background(), dsn)
	return &SwapDB{pool, logger}, err
}

// Пользователь
func (p *SwapDB) UserGet(ctx context.Context, user uuid.UUID) (u model.User, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return model.User{}, err
	}
	defer conn.Release()

	sql, args, err := sq.Select("id", "email", "role", "points", "active",
		"items_listed", "items_swapped", "swaps_completed", "points_earned", "points_spent").
		From("users").
		Where(sq.Eq{"id": user}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	row := conn.QueryRow(ctx, sql, args...)
	err = row.Scan(&u.UUID, &u.Email, &u.Role, &u.Points, &u.Active,
		&u.Stats.ItemsListed, &u.Stats.ItemsSwapped, &u.Stats.SwapsCompleted,
		&u.Stats.PointsEarned, &u.Stats.PointsSpent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, fmt.Errorf("user %s %w", user, model.ErrNotFound)
		}
		return model.User{}, err
	}
	return u, nil
}

// Вещь
func (p *SwapDB) ItemGet(ctx context.Context, item uuid.UUID) (i model.Item, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return model.Item{}, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx,
		"SELECT id, uploader, title, points, status, note, createdat FROM items WHERE id = $1", item)
	var note pgtype.Text
	err = row.Scan(&i.UUID, &i.Uploader, &i.Title, &i.Points, &i.Status, &note, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, fmt.Errorf("item %s %w", item, model.ErrNotFound)
		}
		return model.Item{}, err
	}
	i.Note = note.String
	return i, nil
}

// Создание вещи в статусе pending + счетчик размещений владельца
func (p *SwapDB) ItemCreate(ctx context.Context, item model.Item) (err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	sql, args, err := sq.Insert("items").
		Columns("id", "uploader", "title", "points", "status", "note", "createdat").
		Values(item.UUID, item.Uploader, item.Title, item.Points, item.Status, item.Note, item.CreatedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.Any("args", args),
		)
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	sql, args, err = sq.Update("users").
		Set("items_listed", sq.Expr("items_listed + 1")).
		Where(sq.Eq{"id": item.Uploader}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	err = tx.Commit(ctx)
	return err
}

// Решение модерации: pending -> available / removed
func (p *SwapDB) ItemModerate(ctx context.Context, item uuid.UUID, to model.ItemStatus, note string) (err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	// блокируем строку вещи
	var status string
	row := tx.QueryRow(ctx, "SELECT status FROM items WHERE id = $1 FOR UPDATE", item)
	err = row.Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("item %s %w", item, model.ErrNotFound)
		}
		return err
	}
	if model.ItemStatus(status) != model.ItemPending {
		return fmt.Errorf("item %s is %s: %w", item, status, model.ErrInvalidItemState)
	}

	sql, args, err := sq.Update("items").
		Set("status", to).
		Set("note", note).
		Where(sq.Eq{"id": item}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	err = tx.Commit(ctx)
	return err
}

// Заявка
func (p *SwapDB) SwapGet(ctx context.Context, swap uuid.UUID) (s model.SwapRequest, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return model.SwapRequest{}, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, swapColumnsSQL+" WHERE id = $1", swap)
	s, err = scanSwap(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SwapRequest{}, fmt.Errorf("swap %s %w", swap, model.ErrNotFound)
		}
		return model.SwapRequest{}, err
	}
	return s, nil
}

// Заявки пользователя - входящие и исходящие
func (p *SwapDB) SwapsByUser(ctx context.Context, user uuid.UUID) (swaps []model.SwapRequest, err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, swapColumnsSQL+" WHERE requester = $1 OR itemowner = $1 ORDER BY createdat DESC", user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, s)
	}
	return swaps, nil
}

// Создание заявки, защита от дублей pending заявок того же инициатора на ту же вещь
func (p *SwapDB) SwapCreate(ctx context.Context, swap model.SwapRequest) (err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	var exists int
	row := tx.QueryRow(ctx,
		"SELECT 1 FROM swaps WHERE requester = $1 AND item = $2 AND status = $3 LIMIT 1",
		swap.Requester, swap.Item, model.SwapPending)
	err = row.Scan(&exists)
	if err == nil {
		err = model.ErrDuplicateRequest
		return err
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	err = nil

	var offered any
	if swap.OfferedItem != uuid.Nil {
		offered = swap.OfferedItem
	}
	sql, args, err := sq.Insert("swaps").
		Columns("id", "item", "requester", "itemowner", "swaptype", "offereditem", "offeredpoints",
			"status", "message", "pointstransferred", "transferamount", "isread", "createdat").
		Values(swap.UUID, swap.Item, swap.Requester, swap.ItemOwner, swap.SwapType, offered, swap.OfferedPoints,
			swap.Status, swap.Message, swap.PointsTransferred, swap.TransferAmount, swap.IsRead, swap.CreatedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.Any("args", args),
		)
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	err = tx.Commit(ctx)
	return err
}

// Отметка о прочтении
func (p *SwapDB) SwapMarkRead(ctx context.Context, swap uuid.UUID, at time.Time) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	sql, args, err := sq.Update("swaps").
		Set("isread", true).
		Set("readat", at).
		Where(sq.Eq{"id": swap}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("swap %s %w", swap, model.ErrNotFound)
	}
	return nil
}

// Применение Settlement одной транзакцией.
// Блокировки FOR UPDATE: строка заявки, счета участников, строки вещей.
// Любая несработавшая проверка откатывает все эффекты.
func (p *SwapDB) Apply(ctx context.Context, settle model.Settlement) (err error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	// блокируем заявку, проверяем исходный статус - из двух конкурентных
	// принятий второе увидит чужой статус и откатится
	var status string
	row := tx.QueryRow(ctx, "SELECT status FROM swaps WHERE id = $1 FOR UPDATE", settle.Swap.UUID)
	err = row.Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("swap %s %w", settle.Swap.UUID, model.ErrNotFound)
		}
		return err
	}
	if model.SwapStatus(status) != settle.FromStatus {
		err = model.ErrInvalidTransition
		return err
	}

	// движения по счетам, списания первыми
	for _, e := range settle.Entries {
		err = p.applyEntry(ctx, tx, e)
		if err != nil {
			return err
		}
	}

	// переводы вещей
	for _, it := range settle.Items {
		err = p.applyItem(ctx, tx, it)
		if err != nil {
			return err
		}
	}

	// счетчик завершенных обменов
	for _, u := range settle.Completed {
		sql, args, serr := sq.Update("users").
			Set("swaps_completed", sq.Expr("swaps_completed + 1")).
			Where(sq.Eq{"id": u}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if serr != nil {
			err = serr
			return err
		}
		_, err = tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
	}

	// новое состояние заявки
	var readat, completedat, cancelledby any
	if !settle.Swap.ReadAt.IsZero() {
		readat = settle.Swap.ReadAt
	}
	if !settle.Swap.CompletedAt.IsZero() {
		completedat = settle.Swap.CompletedAt
	}
	if settle.Swap.CancelledBy != uuid.Nil {
		cancelledby = settle.Swap.CancelledBy
	}
	sql, args, err := sq.Update("swaps").
		Set("status", settle.Swap.Status).
		Set("responsemessage", settle.Swap.ResponseMessage).
		Set("pointstransferred", settle.Swap.PointsTransferred).
		Set("transferamount", settle.Swap.TransferAmount).
		Set("isread", settle.Swap.IsRead).
		Set("readat", readat).
		Set("cancelledby", cancelledby).
		Set("cancelledreason", settle.Swap.CancelledReason).
		Set("completedat", completedat).
		Where(sq.Eq{"id": settle.Swap.UUID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.Any("args", args),
		)
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// движение по счету: блокировка строки, проверка достаточности, баланс + счетчики
func (p *SwapDB) applyEntry(ctx context.Context, tx pgx.Tx, e model.LedgerEntry) error {
	var balance int
	row := tx.QueryRow(ctx, "SELECT points FROM users WHERE id = $1 FOR UPDATE", e.User)
	err := row.Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %s %w", e.User, model.ErrNotFound)
		}
		return err
	}
	if balance+e.Points < 0 {
		return model.ErrInsufficientFunds
	}

	upd := sq.Update("users").
		Set("points", balance+e.Points).
		Where(sq.Eq{"id": e.User}).
		PlaceholderFormat(sq.Dollar)
	switch {
	case e.Points > 0 && !e.Reverse:
		upd = upd.Set("points_earned", sq.Expr("points_earned + ?", e.Points))
	case e.Points < 0 && !e.Reverse:
		upd = upd.Set("points_spent", sq.Expr("points_spent + ?", -e.Points))
	case e.Points > 0 && e.Reverse:
		upd = upd.Set("points_spent", sq.Expr("points_spent - ?", e.Points))
	case e.Points < 0 && e.Reverse:
		upd = upd.Set("points_earned", sq.Expr("points_earned - ?", -e.Points))
	}
	sql, args, err := upd.ToSql()
	if err != nil {
		p.logger.Error("SQL error",
			zap.Error(err),
			zap.String("query", sql),
			zap.Any("args", args),
		)
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}

// перевод вещи: блокировка строки, проверка исходного статуса
func (p *SwapDB) applyItem(ctx context.Context, tx pgx.Tx, it model.ItemTransition) error {
	var status string
	row := tx.QueryRow(ctx, "SELECT status FROM items WHERE id = $1 FOR UPDATE", it.Item)
	err := row.Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("item %s %w", it.Item, model.ErrNotFound)
		}
		return err
	}
	if model.ItemStatus(status) != it.From {
		return fmt.Errorf("item %s is %s: %w", it.Item, status, model.ErrInvalidItemState)
	}

	sql, args, err := sq.Update("items").
		Set("status", it.To).
		Where(sq.Eq{"id": it.Item}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	if it.To == model.ItemSwapped {
		sql, args, err = sq.Update("users").
			Set("items_swapped", sq.Expr("items_swapped + 1")).
			Where(sq.Eq{"id": it.Uploader}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
	}
	return nil
}

const swapColumnsSQL = "SELECT id, item, requester, itemowner, swaptype, offereditem, offeredpoints, " +
	"status, message, responsemessage, pointstransferred, transferamount, isread, readat, " +
	"cancelledby, cancelledreason, createdat, completedat FROM swaps"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSwap(row rowScanner) (s model.SwapRequest, err error) {
	var offered, cancelledby pgtype.UUID
	var message, response, reason pgtype.Text
	var readat, completedat pgtype.Timestamptz
	err = row.Scan(&s.UUID, &s.Item, &s.Requester, &s.ItemOwner, &s.SwapType, &offered, &s.OfferedPoints,
		&s.Status, &message, &response, &s.PointsTransferred, &s.TransferAmount, &s.IsRead, &readat,
		&cancelledby, &reason, &s.CreatedAt, &completedat)
	if err != nil {
		return s, err
	}
	if offered.Status == pgtype.Present {
		s.OfferedItem, _ = uuid.FromBytes(offered.Bytes[:])
	}
	if cancelledby.Status == pgtype.Present {
		s.CancelledBy, _ = uuid.FromBytes(cancelledby.Bytes[:])
	}
	s.Message = message.String
	s.ResponseMessage = response.String
	s.CancelledReason = reason.String
	if readat.Status == pgtype.Present {
		s.ReadAt = readat.Time
	}
	if completedat.Status == pgtype.Present {
		s.CompletedAt = completedat.Time
	}
	return s, nil
}
