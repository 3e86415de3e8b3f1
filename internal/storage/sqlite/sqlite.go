package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clearview-exteriors/booking-server/internal/domain"
	"github.com/clearview-exteriors/booking-server/internal/storage"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	address TEXT NOT NULL,
	service_type TEXT NOT NULL,
	sqft INTEGER,
	preferred_date TEXT NOT NULL,
	preferred_time TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
)`

type Storage struct {
	db  *sql.DB
	now func() time.Time
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db, now: time.Now}, nil
}

// Append inserts a booking and returns it with the assigned id and the
// server-side creation timestamp filled in.
func (s *Storage) Append(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const op = "storage.sqlite.Append"

	stmt, err := s.db.Prepare(`INSERT INTO bookings
		(name,email,phone,address,service_type,sqft,preferred_date,preferred_time,notes,created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	sqft := sql.NullInt64{}
	if b.Sqft != nil {
		sqft = sql.NullInt64{Int64: *b.Sqft, Valid: true}
	}

	b.CreatedAt = s.now().UTC()
	res, err := stmt.ExecContext(ctx,
		b.Name, b.Email, b.Phone, b.Address, b.ServiceType,
		sqft, b.PreferredDate, b.PreferredTime, b.Notes, b.CreatedAt)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	b.ID = id
	return b, nil
}

// Booking reads one record back by id.
func (s *Storage) Booking(ctx context.Context, id int64) (domain.Booking, error) {
	const op = "storage.sqlite.Booking"

	stmt, err := s.db.Prepare(`SELECT id,name,email,phone,address,service_type,sqft,preferred_date,preferred_time,notes,created_at
		FROM bookings WHERE id=?`)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, id)

	var b domain.Booking
	var sqft sql.NullInt64
	if err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Address, &b.ServiceType,
		&sqft, &b.PreferredDate, &b.PreferredTime, &b.Notes, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	if sqft.Valid {
		b.Sqft = &sqft.Int64
	}

	return b, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
