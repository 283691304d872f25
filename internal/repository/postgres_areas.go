package repository

import (
	"context"
	"database/sql"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

// PostgresAreasRepository implements AreasRepository on the areas table.
type PostgresAreasRepository struct {
	db *sql.DB
}

func NewPostgresAreasRepository(db *sql.DB) *PostgresAreasRepository {
	return &PostgresAreasRepository{db: db}
}

var _ AreasRepository = (*PostgresAreasRepository)(nil)

func (r *PostgresAreasRepository) GetArea(ctx context.Context, areaID string) (*domain.Area, error) {
	query := `
		SELECT area_id::text, nombre, activo
		FROM areas
		WHERE area_id = $1
	`

	var a domain.Area
	err := r.db.QueryRowContext(ctx, query, areaID).Scan(&a.ID, &a.Nombre, &a.Activo)
	if err != nil {
		return nil, mapError("get area", err)
	}
	return &a, nil
}

func (r *PostgresAreasRepository) GetAreaByNombre(ctx context.Context, nombre string) (*domain.Area, error) {
	query := `
		SELECT area_id::text, nombre, activo
		FROM areas
		WHERE nombre = $1
	`

	var a domain.Area
	err := r.db.QueryRowContext(ctx, query, nombre).Scan(&a.ID, &a.Nombre, &a.Activo)
	if err != nil {
		return nil, mapError("get area by nombre", err)
	}
	return &a, nil
}

func (r *PostgresAreasRepository) ListAreas(ctx context.Context, incluirInactivas bool) ([]domain.Area, error) {
	query := `
		SELECT area_id::text, nombre, activo
		FROM areas
	`
	if !incluirInactivas {
		query += ` WHERE activo = true`
	}
	query += ` ORDER BY nombre ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list areas", err)
	}
	defer rows.Close()

	var out []domain.Area
	for rows.Next() {
		var a domain.Area
		if err := rows.Scan(&a.ID, &a.Nombre, &a.Activo); err != nil {
			return nil, mapError("scan area", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list areas", err)
	}
	return out, nil
}

func (r *PostgresAreasRepository) CreateArea(ctx context.Context, area *domain.Area) error {
	query := `
		INSERT INTO areas (area_id, nombre, activo)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, area.ID, area.Nombre, area.Activo); err != nil {
		return mapError("create area", err)
	}
	return nil
}

func (r *PostgresAreasRepository) UpdateArea(ctx context.Context, area *domain.Area) error {
	query := `
		UPDATE areas
		SET nombre = $2, activo = $3
		WHERE area_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, area.ID, area.Nombre, area.Activo)
	if err != nil {
		return mapError("update area", err)
	}
	return requireRow("update area", res)
}

func (r *PostgresAreasRepository) DisableArea(ctx context.Context, areaID string) error {
	query := `
		UPDATE areas
		SET activo = false
		WHERE area_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, areaID)
	if err != nil {
		return mapError("disable area", err)
	}
	return requireRow("disable area", res)
}
