package repository

import (
	"context"
	"database/sql"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

// PostgresSuscripcionesRepository implements SuscripcionesRepository on the
// suscripciones_alerta table.
type PostgresSuscripcionesRepository struct {
	db *sql.DB
}

func NewPostgresSuscripcionesRepository(db *sql.DB) *PostgresSuscripcionesRepository {
	return &PostgresSuscripcionesRepository{db: db}
}

var _ SuscripcionesRepository = (*PostgresSuscripcionesRepository)(nil)

const suscripcionColumns = `
	suscripcion_id::text,
	area_id::text,
	equipo_id::text,
	label_id::text,
	email,
	umbral_dias,
	activo
`

func scanSuscripcion(row interface{ Scan(...any) error }, s *domain.SuscripcionAlerta) error {
	var areaID, equipoID, labelID sql.NullString
	if err := row.Scan(&s.ID, &areaID, &equipoID, &labelID, &s.Email, &s.UmbralDias, &s.Activo); err != nil {
		return err
	}
	if areaID.Valid {
		s.AreaID = &areaID.String
	}
	if equipoID.Valid {
		s.EquipoID = &equipoID.String
	}
	if labelID.Valid {
		s.LabelID = &labelID.String
	}
	return nil
}

func (r *PostgresSuscripcionesRepository) GetSuscripcion(ctx context.Context, suscripcionID string) (*domain.SuscripcionAlerta, error) {
	query := `
		SELECT ` + suscripcionColumns + `
		FROM suscripciones_alerta
		WHERE suscripcion_id = $1
	`

	var s domain.SuscripcionAlerta
	if err := scanSuscripcion(r.db.QueryRowContext(ctx, query, suscripcionID), &s); err != nil {
		return nil, mapError("get suscripcion", err)
	}
	return &s, nil
}

func (r *PostgresSuscripcionesRepository) ListSuscripciones(ctx context.Context, incluirInactivas bool) ([]domain.SuscripcionAlerta, error) {
	query := `
		SELECT ` + suscripcionColumns + `
		FROM suscripciones_alerta
	`
	if !incluirInactivas {
		query += ` WHERE activo = true`
	}
	query += ` ORDER BY email ASC`

	return r.list(ctx, query)
}

func (r *PostgresSuscripcionesRepository) ListActivas(ctx context.Context) ([]domain.SuscripcionAlerta, error) {
	query := `
		SELECT ` + suscripcionColumns + `
		FROM suscripciones_alerta
		WHERE activo = true
		ORDER BY email ASC
	`
	return r.list(ctx, query)
}

func (r *PostgresSuscripcionesRepository) list(ctx context.Context, query string) ([]domain.SuscripcionAlerta, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list suscripciones", err)
	}
	defer rows.Close()

	var out []domain.SuscripcionAlerta
	for rows.Next() {
		var s domain.SuscripcionAlerta
		if err := scanSuscripcion(rows, &s); err != nil {
			return nil, mapError("scan suscripcion", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list suscripciones", err)
	}
	return out, nil
}

func (r *PostgresSuscripcionesRepository) CreateSuscripcion(ctx context.Context, s *domain.SuscripcionAlerta) error {
	query := `
		INSERT INTO suscripciones_alerta (
			suscripcion_id, area_id, equipo_id, label_id,
			email, umbral_dias, activo
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := r.db.ExecContext(ctx, query,
		s.ID,
		nullString(s.AreaID),
		nullString(s.EquipoID),
		nullString(s.LabelID),
		s.Email,
		s.UmbralDias,
		s.Activo,
	); err != nil {
		return mapError("create suscripcion", err)
	}
	return nil
}

func (r *PostgresSuscripcionesRepository) UpdateSuscripcion(ctx context.Context, s *domain.SuscripcionAlerta) error {
	query := `
		UPDATE suscripciones_alerta
		SET area_id = $2, equipo_id = $3, label_id = $4,
		    email = $5, umbral_dias = $6, activo = $7
		WHERE suscripcion_id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		s.ID,
		nullString(s.AreaID),
		nullString(s.EquipoID),
		nullString(s.LabelID),
		s.Email,
		s.UmbralDias,
		s.Activo,
	)
	if err != nil {
		return mapError("update suscripcion", err)
	}
	return requireRow("update suscripcion", res)
}

func (r *PostgresSuscripcionesRepository) DeleteSuscripcion(ctx context.Context, suscripcionID string) error {
	query := `
		DELETE FROM suscripciones_alerta
		WHERE suscripcion_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, suscripcionID)
	if err != nil {
		return mapError("delete suscripcion", err)
	}
	return requireRow("delete suscripcion", res)
}
