package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"stayhub/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- small helpers ----

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// asJSON encodes list/map columns; nil slices become empty JSON so reads
// round-trip cleanly.
func asJSON(v any) string {
	b, _ := json.Marshal(v)
	if len(b) == 0 || string(b) == "null" {
		switch v.(type) {
		case map[int]string:
			return "{}"
		default:
			return "[]"
		}
	}
	return string(b)
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func (r *Repo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ---- users ----

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	var dob any
	if !u.DOB.IsZero() {
		dob = u.DOB
	}
	_, err := r.db.ExecContext(ctx, insertUserSQL,
		u.ID, u.Name, u.Username, u.Email, u.PasswordHash, dob,
		u.IsManager, u.IsAdmin, u.IsBlocked, u.Joined,
	)
	if isDuplicate(err) {
		return fmt.Errorf("email %s already registered: %w", u.Email, domain.ErrConflict)
	}
	return err
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	var dob sql.NullTime
	if err := s.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash,
		&dob, &u.IsManager, &u.IsAdmin, &u.IsBlocked, &u.Joined); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	if dob.Valid {
		u.DOB = dob.Time
	}
	return u, nil
}

func (r *Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserSQL, id))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
}

func (r *Repo) UpdateUser(ctx context.Context, u domain.User) error {
	if _, err := r.GetUser(ctx, u.ID); err != nil {
		return err
	}
	var dob any
	if !u.DOB.IsZero() {
		dob = u.DOB
	}
	_, err := r.db.ExecContext(ctx, updateUserSQL,
		u.Name, u.Username, u.Email, dob,
		u.IsManager, u.IsAdmin, u.IsBlocked, u.ID,
	)
	if isDuplicate(err) {
		return fmt.Errorf("email %s already registered: %w", u.Email, domain.ErrConflict)
	}
	return err
}

// ---- hotels ----

func scanHotel(s scanner) (domain.Hotel, error) {
	var h domain.Hotel
	var ratings sql.NullInt64
	var roomsMap, roomIDs []byte
	if err := s.Scan(&h.ID, &h.Name, &h.Description, &h.Location, &h.Image,
		&h.ManagerID, &ratings, &h.TotalRooms, &roomsMap, &roomIDs, &h.AddedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	h.RoomsMap = map[int]string{}
	_ = json.Unmarshal(roomsMap, &h.RoomsMap)
	_ = json.Unmarshal(roomIDs, &h.RoomIDs)
	if ratings.Valid {
		v := int(ratings.Int64)
		h.Ratings = &v
	}
	return h, nil
}

func getHotelQ(ctx context.Context, q querier, query, id string) (domain.Hotel, error) {
	return scanHotel(q.QueryRowContext(ctx, query, id))
}

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		// One hotel per manager, checked under lock.
		var existing string
		err := tx.QueryRowContext(ctx, hotelIDByManagerForUpdateSQL, h.ManagerID).Scan(&existing)
		if err == nil {
			return fmt.Errorf("manager %s already runs hotel %s: %w", h.ManagerID, existing, domain.ErrConflict)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		_, err = tx.ExecContext(ctx, insertHotelSQL,
			h.ID, h.Name, h.Description, h.Location, h.Image, h.ManagerID,
			valInt(h.Ratings), h.TotalRooms, asJSON(h.RoomsMap), asJSON(h.RoomIDs), h.AddedOn,
		)
		return err
	})
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	return getHotelQ(ctx, r.db, getHotelSQL, id)
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listHotelsSQL,
		valStr(q.Q), valStr(q.Q), valStr(q.Location), valStr(q.Location), q.Limit)
	if err != nil {
		return domain.HotelsPage{}, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return domain.HotelsPage{}, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return domain.HotelsPage{}, err
	}
	return domain.HotelsPage{Items: out}, nil
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	res, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, h.Description, h.Location, h.Image, valInt(h.Ratings), h.TotalRooms, h.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetHotel(ctx, h.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) DeleteHotel(ctx context.Context, id string) (domain.Hotel, error) {
	var prior domain.Hotel
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		h, err := getHotelQ(ctx, tx, getHotelForUpdateSQL, id)
		if err != nil {
			return err
		}
		prior = h
		if _, err := tx.ExecContext(ctx, deleteBookingsByHotelSQL, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteRoomsByHotelSQL, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, deleteHotelSQL, id)
		return err
	})
	if err != nil {
		return domain.Hotel{}, err
	}
	return prior, nil
}
