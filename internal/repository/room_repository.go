package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/repository/base"
)

// UpdateFunc изменяет аудиторию под блокировкой строки.
// Возвращает true, если изменения нужно сохранить.
type UpdateFunc func(room *model.Room) (bool, error)

type RoomRepository struct {
	*base.Repository
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{Repository: base.NewRepository(pool)}
}

const roomColumns = `
	building, room, room_type, capacity, floor, equipment, status, status_description, version, updated_at
`

// List получает аудитории корпуса, building "" или "any" - все
func (r *RoomRepository) List(ctx context.Context, building string) ([]*model.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE $1::text = '' OR $1::text = 'any' OR building = $1
		ORDER BY building, room
	`

	rows, err := r.Pool().Query(ctx, query, building)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*model.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	return rooms, nil
}

// Get получает аудиторию, nil если её нет в реестре
func (r *RoomRepository) Get(ctx context.Context, key model.RoomKey) (*model.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE building = $1 AND room = $2
	`

	room, err := scanRoom(r.Pool().QueryRow(ctx, query, key.Building, key.Room))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

// Update читает аудиторию с SELECT ... FOR UPDATE, применяет fn и сохраняет
// статус с увеличением версии. Возвращает nil, nil если аудитории нет.
func (r *RoomRepository) Update(ctx context.Context, key model.RoomKey, fn UpdateFunc) (*model.Room, error) {
	var updated *model.Room

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			SELECT ` + roomColumns + `
			FROM rooms
			WHERE building = $1 AND room = $2
			FOR UPDATE
		`
		room, err := scanRoom(tx.QueryRow(ctx, query, key.Building, key.Room))
		if err != nil {
			if base.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("lock room: %w", err)
		}

		changed, err := fn(room)
		if err != nil {
			return err
		}
		updated = room
		if !changed {
			return nil
		}

		err = tx.QueryRow(ctx, `
			UPDATE rooms
			SET status = $3, status_description = $4, version = version + 1, updated_at = NOW()
			WHERE building = $1 AND room = $2
			RETURNING version, updated_at
		`, key.Building, key.Room, room.Status, room.StatusDescription).Scan(&room.Version, &room.UpdatedAt)
		if err != nil {
			return fmt.Errorf("save room status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// ReplaceRegistry синхронизирует реестр с переданным набором аудиторий.
// Аудитории вне набора удаляются. У оставшихся сохраняются статус и
// оборудование, а тип, вместимость и этаж берутся из набора.
func (r *RoomRepository) ReplaceRegistry(ctx context.Context, rooms []*model.Room) (removed int64, err error) {
	buildings := make([]string, 0, len(rooms))
	names := make([]string, 0, len(rooms))
	for _, room := range rooms {
		buildings = append(buildings, room.Building)
		names = append(names, room.Room)
	}

	err = r.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM rooms
			WHERE (building, room) NOT IN (
				SELECT b, n FROM unnest($1::text[], $2::text[]) AS t(b, n)
			)
		`, buildings, names)
		if err != nil {
			return fmt.Errorf("delete stale rooms: %w", err)
		}
		removed = tag.RowsAffected()

		batch := &pgx.Batch{}
		for _, room := range rooms {
			equipment := room.Equipment
			if equipment == nil {
				equipment = []string{}
			}
			batch.Queue(`
				INSERT INTO rooms (building, room, room_type, capacity, floor, equipment, status, status_description)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (building, room) DO UPDATE
				SET room_type = EXCLUDED.room_type,
				    capacity = EXCLUDED.capacity,
				    floor = EXCLUDED.floor,
				    equipment = CASE WHEN cardinality(rooms.equipment) = 0 THEN EXCLUDED.equipment ELSE rooms.equipment END
			`, room.Building, room.Room, room.Type, room.Capacity, room.Floor, equipment, room.Status, room.StatusDescription)
		}

		results := tx.SendBatch(ctx, batch)
		for range rooms {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("upsert room: %w", err)
			}
		}
		return results.Close()
	})

	return removed, err
}

// SetEquipment заменяет оборудование аудитории
func (r *RoomRepository) SetEquipment(ctx context.Context, key model.RoomKey, equipment []string) (bool, error) {
	if equipment == nil {
		equipment = []string{}
	}

	tag, err := r.Pool().Exec(ctx, `
		UPDATE rooms
		SET equipment = $3, updated_at = NOW()
		WHERE building = $1 AND room = $2
	`, key.Building, key.Room, equipment)
	if err != nil {
		return false, fmt.Errorf("set equipment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanRoom(row pgx.Row) (*model.Room, error) {
	var room model.Room
	err := row.Scan(
		&room.Building,
		&room.Room,
		&room.Type,
		&room.Capacity,
		&room.Floor,
		&room.Equipment,
		&room.Status,
		&room.StatusDescription,
		&room.Version,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}
