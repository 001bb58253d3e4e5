package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgRepository is the pgx-backed appointment store. The partial unique
// index on (date, time) for non-cancelled rows is the authoritative
// enforcement of slot exclusivity.
type PgRepository struct {
	db DB
}

func NewPgRepository(db DB) *PgRepository {
	return &PgRepository{db: db}
}

const appointmentColumns = `id, first_name, last_name, email, phone, service, date, time, notes, status, created_at`

func (r *PgRepository) BookedTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT time FROM appointments
		WHERE date = $1 AND status <> 'cancelled'
		ORDER BY time ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("appointments: booked times: %w", err)
	}
	defer rows.Close()

	times := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("appointments: booked times: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, appt *Appointment) error {
	if appt.Status == "" {
		appt.Status = StatusConfirmed
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO appointments (first_name, last_name, email, phone, service, date, time, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		appt.FirstName, appt.LastName, appt.Email, appt.Phone,
		appt.Service, appt.Date, appt.Time, appt.Notes, appt.Status,
	).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context, filter Filter) ([]Appointment, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + appointmentColumns + ` FROM appointments`)

	var clauses []string
	var args []any
	if filter.Date != "" {
		args = append(args, filter.Date)
		clauses = append(clauses, fmt.Sprintf("date = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n, n))
	}
	if len(clauses) > 0 {
		query.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY date DESC, time ASC")

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) PatientSummaries(ctx context.Context, search string) ([]PatientSummary, error) {
	query := `
		SELECT email,
		       (array_agg(first_name ORDER BY date DESC, time DESC))[1] AS first_name,
		       (array_agg(last_name  ORDER BY date DESC, time DESC))[1] AS last_name,
		       (array_agg(phone      ORDER BY date DESC, time DESC))[1] AS phone,
		       COUNT(*) AS total_visits,
		       COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		       COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
		       COUNT(*) FILTER (WHERE status = 'no-show') AS no_shows,
		       MAX(date) AS last_visit
		FROM appointments`
	var args []any
	if search != "" {
		args = append(args, "%"+search+"%")
		query += `
		WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1`
	}
	query += `
		GROUP BY email
		ORDER BY MAX(date) DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: patient summaries: %w", err)
	}
	defer rows.Close()

	out := []PatientSummary{}
	for rows.Next() {
		var p PatientSummary
		if err := rows.Scan(&p.Email, &p.FirstName, &p.LastName, &p.Phone,
			&p.TotalVisits, &p.Completed, &p.Cancelled, &p.NoShows, &p.LastVisit); err != nil {
			return nil, fmt.Errorf("appointments: patient summaries: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PgRepository) PatientHistory(ctx context.Context, email string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE email = $1
		ORDER BY date DESC, time DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("appointments: patient history: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("appointments: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	out := []Appointment{}
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
			&a.Service, &a.Date, &a.Time, &a.Notes, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PgRepository)(nil)
