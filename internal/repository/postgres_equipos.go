package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

// PostgresEquiposRepository implements EquiposRepository on the equipos
// table. The labels/historial cascade rides the ON DELETE CASCADE foreign
// keys declared in the schema.
type PostgresEquiposRepository struct {
	db *sql.DB
}

func NewPostgresEquiposRepository(db *sql.DB) *PostgresEquiposRepository {
	return &PostgresEquiposRepository{db: db}
}

var _ EquiposRepository = (*PostgresEquiposRepository)(nil)

func (r *PostgresEquiposRepository) GetEquipo(ctx context.Context, equipoID string) (*domain.Equipo, error) {
	query := `
		SELECT equipo_id::text, tipo, codigo, area_id::text, activo
		FROM equipos
		WHERE equipo_id = $1
	`

	var e domain.Equipo
	err := r.db.QueryRowContext(ctx, query, equipoID).Scan(&e.ID, &e.Tipo, &e.Codigo, &e.AreaID, &e.Activo)
	if err != nil {
		return nil, mapError("get equipo", err)
	}
	return &e, nil
}

func (r *PostgresEquiposRepository) GetEquipoByCodigo(ctx context.Context, codigo string) (*domain.Equipo, error) {
	query := `
		SELECT equipo_id::text, tipo, codigo, area_id::text, activo
		FROM equipos
		WHERE codigo = $1
	`

	var e domain.Equipo
	err := r.db.QueryRowContext(ctx, query, codigo).Scan(&e.ID, &e.Tipo, &e.Codigo, &e.AreaID, &e.Activo)
	if err != nil {
		return nil, mapError("get equipo by codigo", err)
	}
	return &e, nil
}

func (r *PostgresEquiposRepository) ListEquipos(ctx context.Context, filter EquiposFilter) ([]domain.Equipo, error) {
	where := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.AreaID != "" {
		where = append(where, fmt.Sprintf("area_id = $%d", argIdx))
		args = append(args, filter.AreaID)
		argIdx++
	}
	if !filter.IncluirInactivos {
		where = append(where, "activo = true")
	}

	query := fmt.Sprintf(`
		SELECT equipo_id::text, tipo, codigo, area_id::text, activo
		FROM equipos
		WHERE %s
		ORDER BY codigo ASC
	`, strings.Join(where, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list equipos", err)
	}
	defer rows.Close()

	var out []domain.Equipo
	for rows.Next() {
		var e domain.Equipo
		if err := rows.Scan(&e.ID, &e.Tipo, &e.Codigo, &e.AreaID, &e.Activo); err != nil {
			return nil, mapError("scan equipo", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list equipos", err)
	}
	return out, nil
}

func (r *PostgresEquiposRepository) CreateEquipo(ctx context.Context, equipo *domain.Equipo) error {
	query := `
		INSERT INTO equipos (equipo_id, tipo, codigo, area_id, activo)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.ExecContext(ctx, query, equipo.ID, int(equipo.Tipo), equipo.Codigo, equipo.AreaID, equipo.Activo); err != nil {
		return mapError("create equipo", err)
	}
	return nil
}

func (r *PostgresEquiposRepository) UpdateEquipo(ctx context.Context, equipo *domain.Equipo) error {
	query := `
		UPDATE equipos
		SET tipo = $2, codigo = $3, area_id = $4, activo = $5
		WHERE equipo_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, equipo.ID, int(equipo.Tipo), equipo.Codigo, equipo.AreaID, equipo.Activo)
	if err != nil {
		return mapError("update equipo", err)
	}
	return requireRow("update equipo", res)
}

func (r *PostgresEquiposRepository) DisableEquipo(ctx context.Context, equipoID string) error {
	query := `
		UPDATE equipos
		SET activo = false
		WHERE equipo_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, equipoID)
	if err != nil {
		return mapError("disable equipo", err)
	}
	return requireRow("disable equipo", res)
}

func (r *PostgresEquiposRepository) DeleteEquipo(ctx context.Context, equipoID string) error {
	query := `
		DELETE FROM equipos
		WHERE equipo_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, equipoID)
	if err != nil {
		return mapError("delete equipo", err)
	}
	return requireRow("delete equipo", res)
}

func (r *PostgresEquiposRepository) CountByArea(ctx context.Context, areaID string, soloActivos bool) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM equipos
		WHERE area_id = $1
	`
	if soloActivos {
		query += ` AND activo = true`
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, areaID).Scan(&count); err != nil {
		return 0, mapError("count equipos by area", err)
	}
	return count, nil
}
