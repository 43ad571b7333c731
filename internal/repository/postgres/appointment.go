package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rasreserve/autoshop-api/internal/model"
	apperrors "github.com/rasreserve/autoshop-api/pkg/errors"
)

// The appointments table carries a partial unique index over
// (service_category_id, appointment_datetime) restricted to slot-holding
// statuses ('Requested', 'Upcoming', 'Rescheduled'). The index is the hard
// exclusivity guarantee; the service-level pre-check only produces a friendly
// conflict early. A violation surfaced here is translated to the same
// SlotConflict the pre-check would have returned.

const appointmentColumns = `
	id, first_name, last_name, contact_number, email,
	service_category_id, service_type_id, user_id, additional_notes,
	appointment_datetime, status, booked_at,
	review_rating, review_title, review_text, review_date,
	created_at, updated_at
`

type appointmentRow struct {
	model.Appointment
	ReviewRating sql.NullInt64  `db:"review_rating"`
	ReviewTitle  sql.NullString `db:"review_title"`
	ReviewText   sql.NullString `db:"review_text"`
	ReviewDate   sql.NullTime   `db:"review_date"`
}

func (r appointmentRow) toModel() *model.Appointment {
	apt := r.Appointment
	if r.ReviewRating.Valid {
		apt.Review = &model.Review{
			Rating: int(r.ReviewRating.Int64),
			Title:  r.ReviewTitle.String,
			Text:   r.ReviewText.String,
		}
		if r.ReviewDate.Valid {
			d := r.ReviewDate.Time
			apt.Review.Date = &d
		}
	}
	return &apt
}

func reviewFields(apt *model.Appointment) (rating sql.NullInt64, title, text sql.NullString, date sql.NullTime) {
	if apt.Review == nil {
		return
	}
	rating = sql.NullInt64{Int64: int64(apt.Review.Rating), Valid: true}
	title = sql.NullString{String: apt.Review.Title, Valid: true}
	text = sql.NullString{String: apt.Review.Text, Valid: true}
	if apt.Review.Date != nil {
		date = sql.NullTime{Time: *apt.Review.Date, Valid: true}
	}
	return
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, first_name, last_name, contact_number, email,
			service_category_id, service_type_id, user_id, additional_notes,
			appointment_datetime, status, booked_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.FirstName,
		appointment.LastName,
		appointment.ContactNumber,
		appointment.Email,
		appointment.ServiceCategoryID,
		appointment.ServiceTypeID,
		appointment.UserID,
		appointment.AdditionalNotes,
		appointment.AppointmentDateTime,
		appointment.Status,
		appointment.BookedAt,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.SlotConflict("this time slot is already booked for the selected service category")
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var row appointmentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return row.toModel(), nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET first_name = $1, last_name = $2, contact_number = $3, email = $4,
			additional_notes = $5, appointment_datetime = $6, status = $7,
			review_rating = $8, review_title = $9, review_text = $10, review_date = $11,
			updated_at = $12
		WHERE id = $13
	`
	appointment.UpdatedAt = time.Now()
	rating, title, text, date := reviewFields(appointment)

	result, err := r.db.ExecContext(ctx, query,
		appointment.FirstName,
		appointment.LastName,
		appointment.ContactNumber,
		appointment.Email,
		appointment.AdditionalNotes,
		appointment.AppointmentDateTime,
		appointment.Status,
		rating, title, text, date,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.SlotConflict("this time slot is already booked for the selected service category")
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters, page model.Pagination) ([]*model.Appointment, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.UserID != uuid.Nil {
			where += fmt.Sprintf(" AND user_id = $%d", argCount)
			args = append(args, filters.UserID)
			argCount++
		}
		if filters.ServiceCategoryID != uuid.Nil {
			where += fmt.Sprintf(" AND service_category_id = $%d", argCount)
			args = append(args, filters.ServiceCategoryID)
			argCount++
		}
		if filters.ServiceTypeID != uuid.Nil {
			where += fmt.Sprintf(" AND service_type_id = $%d", argCount)
			args = append(args, filters.ServiceTypeID)
			argCount++
		}
		if filters.Status != "" {
			where += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM appointments"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments` + where +
		fmt.Sprintf(" ORDER BY appointment_datetime ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, page.PageSize, page.Offset())

	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}

	appointments := make([]*model.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, row.toModel())
	}
	return appointments, total, nil
}

func (r *appointmentRepository) SlotTaken(ctx context.Context, categoryID uuid.UUID, t time.Time, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE service_category_id = $1
			AND appointment_datetime = $2
			AND status IN ('Requested', 'Upcoming', 'Rescheduled')
	`
	args := []interface{}{categoryID, t}

	if excludeID != nil {
		query += " AND id != $3"
		args = append(args, *excludeID)
	}
	query += ")"

	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, args...); err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return taken, nil
}
