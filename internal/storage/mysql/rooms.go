package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"stayhub/internal/domain"
)

func scanRoom(s scanner) (domain.Room, error) {
	var r domain.Room
	var others, numbers, bookingIDs []byte
	if err := s.Scan(&r.ID, &r.HotelID, &r.Name, &r.Description, &r.Occupancy,
		&r.Price, &others, &numbers, &bookingIDs, &r.AddedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, domain.ErrNotFound
		}
		return domain.Room{}, err
	}
	_ = json.Unmarshal(others, &r.Others)
	_ = json.Unmarshal(numbers, &r.RoomNumbers)
	_ = json.Unmarshal(bookingIDs, &r.BookingIDs)
	return r, nil
}

func getRoomQ(ctx context.Context, q querier, query, id string) (domain.Room, error) {
	return scanRoom(q.QueryRowContext(ctx, query, id))
}

func roomNameTaken(ctx context.Context, tx *sql.Tx, hotelID, name, excludeID string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, roomNameTakenSQL, hotelID, name, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func saveRegistry(ctx context.Context, tx *sql.Tx, h domain.Hotel) error {
	_, err := tx.ExecContext(ctx, updateHotelRegistrySQL, asJSON(h.RoomsMap), asJSON(h.RoomIDs), h.ID)
	return err
}

// AddRoom inserts the room and binds its numbers in the hotel registry.
// The hotel row is held FOR UPDATE across the whole check-then-write so two
// concurrent adds cannot both claim a number.
func (r *Repo) AddRoom(ctx context.Context, room domain.Room) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		h, err := getHotelQ(ctx, tx, getHotelForUpdateSQL, room.HotelID)
		if err != nil {
			return fmt.Errorf("hotel %s: %w", room.HotelID, err)
		}
		taken, err := roomNameTaken(ctx, tx, room.HotelID, room.Name, room.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("room name %q already used in hotel %s: %w", room.Name, room.HotelID, domain.ErrConflict)
		}
		if err := h.AssignNumbers(room.RoomNumbers, room.Name); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertRoomSQL,
			room.ID, room.HotelID, room.Name, room.Description, room.Occupancy,
			room.Price, asJSON(room.Others), asJSON(room.RoomNumbers),
			asJSON(room.BookingIDs), room.AddedOn,
		); err != nil {
			return err
		}
		h.AttachRoom(room.ID)
		return saveRegistry(ctx, tx, h)
	})
}

func (r *Repo) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	return getRoomQ(ctx, r.db, getRoomSQL, id)
}

func (r *Repo) ListRooms(ctx context.Context, hotelID string) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// UpdateRoom rewrites the room and reconciles the registry: numbers no
// longer offered are released, new ones bound, and a rename rebinds the
// kept numbers to the new name. Conflicts roll the whole thing back.
func (r *Repo) UpdateRoom(ctx context.Context, in domain.Room) (domain.Room, error) {
	var updated domain.Room
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getRoomQ(ctx, tx, getRoomForUpdateSQL, in.ID)
		if err != nil {
			return fmt.Errorf("room %s: %w", in.ID, err)
		}
		h, err := getHotelQ(ctx, tx, getHotelForUpdateSQL, old.HotelID)
		if err != nil {
			return fmt.Errorf("hotel %s: %w", old.HotelID, err)
		}
		taken, err := roomNameTaken(ctx, tx, old.HotelID, in.Name, old.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("room name %q already used in hotel %s: %w", in.Name, old.HotelID, domain.ErrConflict)
		}

		h.ReleaseNumbers(old.RoomNumbers)
		if err := h.AssignNumbers(in.RoomNumbers, in.Name); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, updateRoomSQL,
			in.Name, in.Description, in.Occupancy, in.Price,
			asJSON(in.Others), asJSON(in.RoomNumbers), in.ID,
		); err != nil {
			return err
		}
		if err := saveRegistry(ctx, tx, h); err != nil {
			return err
		}

		updated = old
		updated.Name = in.Name
		updated.Description = in.Description
		updated.Occupancy = in.Occupancy
		updated.Price = in.Price
		updated.Others = in.Others
		updated.RoomNumbers = in.RoomNumbers
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}
	return updated, nil
}

// DeleteRoom releases the room's numbers, detaches it from the hotel and
// cascades to its bookings.
func (r *Repo) DeleteRoom(ctx context.Context, id string) (domain.Room, error) {
	var prior domain.Room
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		room, err := getRoomQ(ctx, tx, getRoomForUpdateSQL, id)
		if err != nil {
			return fmt.Errorf("room %s: %w", id, err)
		}
		prior = room
		h, err := getHotelQ(ctx, tx, getHotelForUpdateSQL, room.HotelID)
		if err != nil {
			return fmt.Errorf("hotel %s: %w", room.HotelID, err)
		}
		h.ReleaseNumbers(room.RoomNumbers)
		h.DetachRoom(id)
		if err := saveRegistry(ctx, tx, h); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteBookingsByRoomSQL, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, deleteRoomSQL, id)
		return err
	})
	if err != nil {
		return domain.Room{}, err
	}
	return prior, nil
}
