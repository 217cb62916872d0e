package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"stayhub/internal/domain"
)

func scanBooking(s scanner) (domain.Booking, error) {
	var b domain.Booking
	var from, to sql.NullTime
	var numbers []byte
	if err := s.Scan(&b.ID, &b.HotelID, &b.RoomID, &b.UserID, &from, &to,
		&b.Days, &numbers, &b.People.Adults, &b.People.Children, &b.NumOfPeople,
		&b.Location, &b.Amount, &b.Paid, &b.ChargeRef, &b.BookedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}
	rng, err := domain.NewDateRange(from.Time, to.Time)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("stored range of booking %s: %w", b.ID, err)
	}
	b.Range = rng
	_ = json.Unmarshal(numbers, &b.RoomNumbers)
	return b, nil
}

func getBookingQ(ctx context.Context, q querier, query, id string) (domain.Booking, error) {
	return scanBooking(q.QueryRowContext(ctx, query, id))
}

func listBookingsQ(ctx context.Context, q querier, query string, args ...any) ([]domain.Booking, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateBooking is the ledger write: the room row is locked FOR UPDATE, the
// overlap check runs against the candidates read under that lock, and only
// then is the booking inserted and referenced from the room. Two racing
// requests for the same number serialize on the lock; the loser sees the
// winner's row and fails with ErrConflict.
func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		room, err := getRoomQ(ctx, tx, getRoomForUpdateSQL, b.RoomID)
		if err != nil {
			return fmt.Errorf("room %s: %w", b.RoomID, err)
		}
		existing, err := listBookingsQ(ctx, tx, overlappingBookingsSQL, b.RoomID, b.Range.To, b.Range.From)
		if err != nil {
			return err
		}
		if !domain.NumbersFree(existing, b.RoomNumbers, b.Range) {
			return fmt.Errorf("room numbers %v already booked between %s and %s: %w",
				b.RoomNumbers,
				b.Range.From.Format("2006-01-02"), b.Range.To.Format("2006-01-02"),
				domain.ErrConflict)
		}
		if _, err := tx.ExecContext(ctx, insertBookingSQL,
			b.ID, b.HotelID, b.RoomID, b.UserID, b.Range.From, b.Range.To,
			b.Days, asJSON(b.RoomNumbers), b.People.Adults, b.People.Children,
			b.NumOfPeople, b.Location, b.Amount, b.Paid, b.ChargeRef, b.BookedOn,
		); err != nil {
			return err
		}
		room.AttachBooking(b.ID)
		_, err = tx.ExecContext(ctx, updateRoomBookingsSQL, asJSON(room.BookingIDs), room.ID)
		return err
	})
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	return getBookingQ(ctx, r.db, getBookingSQL, id)
}

func (r *Repo) ListRoomBookings(ctx context.Context, roomID string) ([]domain.Booking, error) {
	return listBookingsQ(ctx, r.db, listRoomBookingsSQL, roomID)
}

func (r *Repo) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return listBookingsQ(ctx, r.db, listUserBookingsSQL, userID)
}

// DeleteBooking removes the booking and its reference from the owning room,
// returning the prior state for confirmation display.
func (r *Repo) DeleteBooking(ctx context.Context, id string) (domain.Booking, error) {
	var prior domain.Booking
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		b, err := getBookingQ(ctx, tx, getBookingForUpdateSQL, id)
		if err != nil {
			return fmt.Errorf("booking %s: %w", id, err)
		}
		prior = b
		room, err := getRoomQ(ctx, tx, getRoomForUpdateSQL, b.RoomID)
		if err == nil {
			room.DetachBooking(id)
			if _, err := tx.ExecContext(ctx, updateRoomBookingsSQL, asJSON(room.BookingIDs), room.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		_, err = tx.ExecContext(ctx, deleteBookingSQL, id)
		return err
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return prior, nil
}

func (r *Repo) MarkPaid(ctx context.Context, id string, amount int64, chargeRef string) error {
	res, err := r.db.ExecContext(ctx, markPaidSQL, amount, chargeRef, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetBooking(ctx, id); err != nil {
			return fmt.Errorf("booking %s: %w", id, err)
		}
	}
	return nil
}
