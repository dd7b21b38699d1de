package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/clinicboard/scheduling-service/internal/domain/entities"
	"github.com/clinicboard/scheduling-service/internal/domain/repositories"
	"github.com/clinicboard/scheduling-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

var activeStatuses = []string{
	string(entities.AppointmentStatusConfirmed),
	string(entities.AppointmentStatusScheduled),
	string(entities.AppointmentStatusInProgress),
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var appointmentColumns = []interface{}{
	"id", "patient_id", "professional_id", "scheduled_at",
	"status", "type", "observation", "created_at", "updated_at",
}

// Create persists a new appointment. The appointments table carries an
// exclusion constraint on (professional_id, scheduled window) for active
// statuses, so concurrent double-booking fails here atomically.
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":              appointment.ID().String(),
		"patient_id":      appointment.PatientID().String(),
		"professional_id": appointment.ProfessionalID().String(),
		"scheduled_at":    appointment.ScheduledTime().Value(),
		"status":          string(appointment.Status()),
		"type":            string(appointment.Type()),
		"observation":     appointment.Observation(),
		"created_at":      appointment.CreatedAt(),
		"updated_at":      appointment.UpdatedAt(),
	}

	query, args, err := a.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// Update replaces the mutable columns of an appointment
func (a *AppointmentAdapter) Update(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"status":      string(appointment.Status()),
		"observation": appointment.Observation(),
		"updated_at":  appointment.UpdatedAt(),
	}

	query, args, err := a.db.Update("appointments").
		Set(record).
		Where(goqu.Ex{"id": appointment.ID().String()}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update appointment", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", appointment.ID()))
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id entities.AppointmentID) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"id": id.String()}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := a.scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// ListByPatient retrieves a patient's appointments
func (a *AppointmentAdapter) ListByPatient(ctx context.Context, patientID entities.PatientID, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	return a.list(ctx, goqu.Ex{"patient_id": patientID.String()}, filter)
}

// ListByProfessional retrieves a professional's appointments
func (a *AppointmentAdapter) ListByProfessional(ctx context.Context, professionalID entities.ProfessionalID, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	return a.list(ctx, goqu.Ex{"professional_id": professionalID.String()}, filter)
}

// ListByDateRange retrieves all appointments scheduled within [from, to]
func (a *AppointmentAdapter) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entities.Appointment, error) {
	return a.list(ctx, goqu.Ex{}, repositories.AppointmentFilter{From: &from, To: &to})
}

// HasConflict reports whether an active appointment of the professional
// overlaps the 30-minute window starting at scheduledAt
func (a *AppointmentAdapter) HasConflict(ctx context.Context, professionalID entities.ProfessionalID, scheduledAt time.Time) (bool, error) {
	query, args, err := a.db.Select(goqu.COUNT("id")).
		From("appointments").
		Where(
			goqu.Ex{"professional_id": professionalID.String()},
			goqu.C("status").In(activeStatuses),
			goqu.C("scheduled_at").Gt(scheduledAt.Add(-entities.SlotDuration)),
			goqu.C("scheduled_at").Lt(scheduledAt.Add(entities.SlotDuration)),
		).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build conflict query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check for conflicts", err)
	}

	return count > 0, nil
}

func (a *AppointmentAdapter) list(ctx context.Context, where goqu.Ex, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	ds := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(where).
		Order(goqu.C("scheduled_at").Asc())

	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": string(filter.Status)})
	}
	if filter.From != nil {
		ds = ds.Where(goqu.C("scheduled_at").Gte(*filter.From))
	}
	if filter.To != nil {
		ds = ds.Where(goqu.C("scheduled_at").Lte(*filter.To))
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	var appointments []*entities.Appointment
	for rows.Next() {
		appointment, err := a.scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate appointments", err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment rebuilds the aggregate from one row via the
// reconstruction constructor, bypassing booking-time validation
func (a *AppointmentAdapter) scanAppointment(row rowScanner) (*entities.Appointment, error) {
	var (
		id, patientID, professionalID, status, appointmentType string
		observation                                            sql.NullString
		scheduledAt, createdAt, updatedAt                      time.Time
	)

	if err := row.Scan(&id, &patientID, &professionalID, &scheduledAt,
		&status, &appointmentType, &observation, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return entities.RestoreAppointment(
		entities.AppointmentID(id),
		entities.PatientID(patientID),
		entities.ProfessionalID(professionalID),
		entities.RestoreAppointmentTime(scheduledAt),
		entities.AppointmentStatus(status),
		entities.AppointmentType(appointmentType),
		observation.String,
		createdAt,
		updatedAt,
	)
}
