package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/clinicboard/scheduling-service/internal/domain/entities"
	"github.com/clinicboard/scheduling-service/internal/domain/repositories"
	"github.com/clinicboard/scheduling-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinicboard/scheduling-service/pkg/errors"
)

// PatientAdapter implements the PatientRepository read model
type PatientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *postgres.Client) repositories.PatientRepository {
	return &PatientAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a patient by ID
func (a *PatientAdapter) GetByID(ctx context.Context, id entities.PatientID) (*entities.Patient, error) {
	query, args, err := a.db.Select("id", "name", "status").
		From("patients").
		Where(goqu.Ex{"id": id.String()}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var patientID, name, status string
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&patientID, &name, &status)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient", err)
	}

	return &entities.Patient{
		ID:     entities.PatientID(patientID),
		Name:   name,
		Status: entities.PatientStatus(status),
	}, nil
}
