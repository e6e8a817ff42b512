package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/repository/base"
	"github.com/Freeeeeet/roomstatus_bot/internal/timetoken"
)

// CheckFunc проверка конфликтов, выполняется внутри транзакции вставки.
// existing - все текущие записи аудитории.
type CheckFunc func(existing []*model.ScheduleEntry) error

type ScheduleRepository struct {
	*base.Repository
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{Repository: base.NewRepository(pool)}
}

const entryColumns = `
	id, group_id, description, building, room, time_start, time_finish, day,
	recurrence_kind, recurrence_dates, range_from, range_to, created_at
`

// ListByWeekday получает записи дня недели, building "" или "any" - все корпуса
func (r *ScheduleRepository) ListByWeekday(ctx context.Context, weekday int, building string) ([]*model.ScheduleEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM schedule_entries
		WHERE day = $1 AND ($2::text = '' OR $2::text = 'any' OR building = $2)
		ORDER BY building, room, time_start, id
	`

	rows, err := r.Pool().Query(ctx, query, weekday, building)
	if err != nil {
		return nil, fmt.Errorf("list entries by weekday: %w", err)
	}

	return collectEntries(rows)
}

// ListByRoom получает записи аудитории; weekday 0 - все дни
func (r *ScheduleRepository) ListByRoom(ctx context.Context, key model.RoomKey, weekday int) ([]*model.ScheduleEntry, error) {
	return listByRoom(ctx, r.Pool(), key, weekday)
}

func listByRoom(ctx context.Context, q base.Querier, key model.RoomKey, weekday int) ([]*model.ScheduleEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM schedule_entries
		WHERE building = $1 AND room = $2 AND ($3::int = 0 OR day = $3)
		ORDER BY day, time_start, id
	`

	rows, err := q.Query(ctx, query, key.Building, key.Room, weekday)
	if err != nil {
		return nil, fmt.Errorf("list entries by room: %w", err)
	}

	return collectEntries(rows)
}

// ListAll получает всё расписание
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]*model.ScheduleEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM schedule_entries
		ORDER BY day, building, room, time_start, id
	`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}

	return collectEntries(rows)
}

// GetByID получает запись по ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*model.ScheduleEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM schedule_entries
		WHERE id = $1
	`

	entry, err := scanEntry(r.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry by id: %w", err)
	}

	return entry, nil
}

// InsertChecked вставляет записи одной аудитории, если check не вернул ошибку.
// Вставки в одну аудиторию сериализуются advisory-блокировкой на время транзакции,
// поэтому две пересекающиеся вставки не могут обе пройти проверку.
func (r *ScheduleRepository) InsertChecked(ctx context.Context, entries []*model.ScheduleEntry, check CheckFunc) error {
	if len(entries) == 0 {
		return nil
	}
	key := entries[0].Key()
	for _, e := range entries[1:] {
		if e.Key() != key {
			return fmt.Errorf("insert entries: mixed rooms %s and %s", key, e.Key())
		}
	}

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		existing, err := lockRoom(ctx, tx, key)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}

		for _, e := range entries {
			if err := insertEntry(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateChecked обновляет запись, если check не вернул ошибку.
// Возвращает false, если записи уже нет.
func (r *ScheduleRepository) UpdateChecked(ctx context.Context, entry *model.ScheduleEntry, check CheckFunc) (bool, error) {
	var found bool

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		existing, err := lockRoom(ctx, tx, entry.Key())
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}

		query := `
			UPDATE schedule_entries
			SET description = $2, building = $3, room = $4, time_start = $5, time_finish = $6, day = $7,
			    recurrence_kind = $8, recurrence_dates = $9, range_from = $10, range_to = $11
			WHERE id = $1
		`
		kind, dates, from, to := encodeRecurrence(entry.Recurrence)
		tag, err := tx.Exec(ctx, query,
			entry.ID,
			entry.Description,
			entry.Building,
			entry.Room,
			int(entry.Start),
			int(entry.Finish),
			entry.Weekday,
			kind, dates, from, to,
		)
		if err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		found = tag.RowsAffected() > 0
		return nil
	})

	return found, err
}

// Delete удаляет запись
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.Pool().Exec(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteGroup удаляет все записи, созданные одним действием
func (r *ScheduleRepository) DeleteGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	tag, err := r.Pool().Exec(ctx, `DELETE FROM schedule_entries WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, fmt.Errorf("delete entry group: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ReplaceAll заменяет всё расписание новой выгрузкой одной транзакцией
func (r *ScheduleRepository) ReplaceAll(ctx context.Context, entries []*model.ScheduleEntry) (int64, error) {
	var copied int64

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM schedule_entries`); err != nil {
			return fmt.Errorf("clear schedule: %w", err)
		}

		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{"schedule_entries"},
			[]string{
				"group_id", "description", "building", "room", "time_start", "time_finish", "day",
				"recurrence_kind", "recurrence_dates", "range_from", "range_to",
			},
			pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
				e := entries[i]
				kind, dates, from, to := encodeRecurrence(e.Recurrence)
				return []any{
					e.GroupID, e.Description, e.Building, e.Room,
					int16(e.Start), int16(e.Finish), int16(e.Weekday),
					kind, dates, from, to,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy schedule: %w", err)
		}
		copied = n
		return nil
	})

	return copied, err
}

// DistinctRooms возвращает все пары (корпус, аудитория) из расписания
func (r *ScheduleRepository) DistinctRooms(ctx context.Context) ([]model.RoomKey, error) {
	rows, err := r.Pool().Query(ctx, `
		SELECT DISTINCT building, room
		FROM schedule_entries
		ORDER BY building, room
	`)
	if err != nil {
		return nil, fmt.Errorf("distinct rooms: %w", err)
	}
	defer rows.Close()

	var keys []model.RoomKey
	for rows.Next() {
		var k model.RoomKey
		if err := rows.Scan(&k.Building, &k.Room); err != nil {
			return nil, fmt.Errorf("scan room key: %w", err)
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}

// lockRoom берёт блокировку аудитории до конца транзакции и перечитывает её записи
func lockRoom(ctx context.Context, tx pgx.Tx, key model.RoomKey) ([]*model.ScheduleEntry, error) {
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1::text || '/' || $2::text))`,
		key.Building, key.Room,
	); err != nil {
		return nil, fmt.Errorf("lock room %s: %w", key, err)
	}
	return listByRoom(ctx, tx, key, 0)
}

func insertEntry(ctx context.Context, tx pgx.Tx, e *model.ScheduleEntry) error {
	query := `
		INSERT INTO schedule_entries (
			group_id, description, building, room, time_start, time_finish, day,
			recurrence_kind, recurrence_dates, range_from, range_to
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	kind, dates, from, to := encodeRecurrence(e.Recurrence)
	err := tx.QueryRow(ctx, query,
		e.GroupID,
		e.Description,
		e.Building,
		e.Room,
		int(e.Start),
		int(e.Finish),
		e.Weekday,
		kind, dates, from, to,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func collectEntries(rows pgx.Rows) ([]*model.ScheduleEntry, error) {
	defer rows.Close()

	var entries []*model.ScheduleEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (*model.ScheduleEntry, error) {
	var (
		e              model.ScheduleEntry
		start, finish  int
		kind           string
		dates          []string
		rangeFrom, rTo *string
	)

	err := row.Scan(
		&e.ID,
		&e.GroupID,
		&e.Description,
		&e.Building,
		&e.Room,
		&start,
		&finish,
		&e.Weekday,
		&kind,
		&dates,
		&rangeFrom,
		&rTo,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Start = model.ClockTime(start)
	e.Finish = model.ClockTime(finish)
	e.Recurrence = decodeRecurrence(kind, dates, rangeFrom, rTo, e.Description)
	return &e, nil
}

func encodeRecurrence(rec model.Recurrence) (kind string, dates []string, from, to *string) {
	dates = []string{}
	switch rec.Kind {
	case model.RecurrenceOnDates:
		for _, d := range rec.Dates {
			dates = append(dates, d.String())
		}
	case model.RecurrenceInRange:
		f, t := rec.From.String(), rec.To.String()
		from, to = &f, &t
	default:
		return string(model.RecurrenceWeekly), dates, nil, nil
	}
	return string(rec.Kind), dates, from, to
}

// decodeRecurrence восстанавливает правило из колонок.
// Если колонки испорчены, правило заново разбирается из описания.
func decodeRecurrence(kind string, dates []string, from, to *string, description string) model.Recurrence {
	switch model.RecurrenceKind(kind) {
	case model.RecurrenceWeekly:
		return model.Weekly()
	case model.RecurrenceOnDates:
		rec := model.Recurrence{Kind: model.RecurrenceOnDates}
		for _, raw := range dates {
			d, ok := timetoken.Token(raw)
			if !ok {
				return timetoken.Recurrence(description)
			}
			rec.Dates = append(rec.Dates, d)
		}
		if len(rec.Dates) > 0 {
			return rec
		}
	case model.RecurrenceInRange:
		if from != nil && to != nil {
			f, okFrom := timetoken.Token(*from)
			t, okTo := timetoken.Token(*to)
			if okFrom && okTo {
				return model.Recurrence{Kind: model.RecurrenceInRange, From: f, To: t}
			}
		}
	}
	return timetoken.Recurrence(description)
}
