package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

// PostgresLabelsRepository implements LabelsRepository on the labels and
// historial_labels tables. Every write that touches both tables runs inside
// one transaction so the label row and its audit chain cannot diverge.
type PostgresLabelsRepository struct {
	db *sql.DB
}

func NewPostgresLabelsRepository(db *sql.DB) *PostgresLabelsRepository {
	return &PostgresLabelsRepository{db: db}
}

var _ LabelsRepository = (*PostgresLabelsRepository)(nil)

const labelColumns = `
	l.label_id::text,
	l.equipo_id::text,
	l.fecha_creacion,
	l.fecha_actualizacion,
	l.fecha_vencimiento,
	l.revision,
	l.creado_por,
	l.observacion,
	l.foto_url,
	l.foto_blob,
	l.foto_content_type
`

func scanLabel(row interface{ Scan(...any) error }, l *domain.Label) error {
	var observacion, fotoURL, fotoContentType sql.NullString
	if err := row.Scan(
		&l.ID,
		&l.EquipoID,
		&l.FechaCreacion,
		&l.FechaActualizacion,
		&l.FechaVencimiento,
		&l.Revision,
		&l.CreadoPor,
		&observacion,
		&fotoURL,
		&l.FotoBlob,
		&fotoContentType,
	); err != nil {
		return err
	}
	if observacion.Valid {
		l.Observacion = &observacion.String
	}
	if fotoURL.Valid {
		l.FotoURL = &fotoURL.String
	}
	if fotoContentType.Valid {
		l.FotoContentType = &fotoContentType.String
	}
	return nil
}

func (r *PostgresLabelsRepository) GetLabel(ctx context.Context, labelID string) (*domain.Label, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM labels l
		WHERE l.label_id = $1
	`, labelColumns)

	var l domain.Label
	if err := scanLabel(r.db.QueryRowContext(ctx, query, labelID), &l); err != nil {
		return nil, mapError("get label", err)
	}
	return &l, nil
}

func (r *PostgresLabelsRepository) GetLabelContexto(ctx context.Context, labelID string) (*LabelContexto, error) {
	query := fmt.Sprintf(`
		SELECT %s, e.codigo, a.area_id::text, a.nombre
		FROM labels l
		JOIN equipos e ON e.equipo_id = l.equipo_id
		JOIN areas a ON a.area_id = e.area_id
		WHERE l.label_id = $1
	`, labelColumns)

	var lc LabelContexto
	var observacion, fotoURL, fotoContentType sql.NullString
	err := r.db.QueryRowContext(ctx, query, labelID).Scan(
		&lc.ID,
		&lc.EquipoID,
		&lc.FechaCreacion,
		&lc.FechaActualizacion,
		&lc.FechaVencimiento,
		&lc.Revision,
		&lc.CreadoPor,
		&observacion,
		&fotoURL,
		&lc.FotoBlob,
		&fotoContentType,
		&lc.EquipoCodigo,
		&lc.AreaID,
		&lc.AreaNombre,
	)
	if err != nil {
		return nil, mapError("get label contexto", err)
	}
	if observacion.Valid {
		lc.Observacion = &observacion.String
	}
	if fotoURL.Valid {
		lc.FotoURL = &fotoURL.String
	}
	if fotoContentType.Valid {
		lc.FotoContentType = &fotoContentType.String
	}
	return &lc, nil
}

func (r *PostgresLabelsRepository) ListActiveLabels(ctx context.Context, filter LabelsFilter) ([]LabelContexto, error) {
	where := []string{"e.activo = true", "a.activo = true"}
	args := []any{}
	argIdx := 1

	if filter.AreaID != "" {
		where = append(where, fmt.Sprintf("a.area_id = $%d", argIdx))
		args = append(args, filter.AreaID)
		argIdx++
	}
	if filter.EquipoID != "" {
		where = append(where, fmt.Sprintf("e.equipo_id = $%d", argIdx))
		args = append(args, filter.EquipoID)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s, e.codigo, a.area_id::text, a.nombre
		FROM labels l
		JOIN equipos e ON e.equipo_id = l.equipo_id
		JOIN areas a ON a.area_id = e.area_id
		WHERE %s
		ORDER BY l.fecha_vencimiento ASC
	`, labelColumns, strings.Join(where, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list active labels", err)
	}
	defer rows.Close()

	var out []LabelContexto
	for rows.Next() {
		var lc LabelContexto
		var observacion, fotoURL, fotoContentType sql.NullString
		if err := rows.Scan(
			&lc.ID,
			&lc.EquipoID,
			&lc.FechaCreacion,
			&lc.FechaActualizacion,
			&lc.FechaVencimiento,
			&lc.Revision,
			&lc.CreadoPor,
			&observacion,
			&fotoURL,
			&lc.FotoBlob,
			&fotoContentType,
			&lc.EquipoCodigo,
			&lc.AreaID,
			&lc.AreaNombre,
		); err != nil {
			return nil, mapError("scan label", err)
		}
		if observacion.Valid {
			lc.Observacion = &observacion.String
		}
		if fotoURL.Valid {
			lc.FotoURL = &fotoURL.String
		}
		if fotoContentType.Valid {
			lc.FotoContentType = &fotoContentType.String
		}
		out = append(out, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list active labels", err)
	}
	return out, nil
}

func (r *PostgresLabelsRepository) CreateLabel(ctx context.Context, label *domain.Label, first *domain.HistorialLabel) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("begin create label", err)
	}
	defer tx.Rollback()

	insertLabel := `
		INSERT INTO labels (
			label_id, equipo_id, fecha_creacion, fecha_actualizacion,
			fecha_vencimiento, revision, creado_por, observacion,
			foto_url, foto_blob, foto_content_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if _, err := tx.ExecContext(ctx, insertLabel,
		label.ID,
		label.EquipoID,
		label.FechaCreacion,
		label.FechaActualizacion,
		label.FechaVencimiento,
		label.Revision,
		label.CreadoPor,
		nullString(label.Observacion),
		nullString(label.FotoURL),
		label.FotoBlob,
		nullString(label.FotoContentType),
	); err != nil {
		return mapError("create label", err)
	}

	if err := insertHistorial(ctx, tx, first); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError("commit create label", err)
	}
	return nil
}

func (r *PostgresLabelsRepository) SaveLabel(ctx context.Context, label *domain.Label, expectedRevision int, hist *domain.HistorialLabel) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("begin save label", err)
	}
	defer tx.Rollback()

	// Optimistic concurrency: the update only lands while the stored
	// revision is still the one the caller read.
	update := `
		UPDATE labels
		SET fecha_actualizacion = $3,
		    fecha_vencimiento = $4,
		    revision = $5,
		    observacion = $6,
		    foto_url = $7,
		    foto_blob = $8,
		    foto_content_type = $9
		WHERE label_id = $1 AND revision = $2
	`

	res, err := tx.ExecContext(ctx, update,
		label.ID,
		expectedRevision,
		label.FechaActualizacion,
		label.FechaVencimiento,
		label.Revision,
		nullString(label.Observacion),
		nullString(label.FotoURL),
		label.FotoBlob,
		nullString(label.FotoContentType),
	)
	if err != nil {
		return mapError("save label", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("save label", err)
	}
	if n == 0 {
		// Distinguish a stale revision from a missing label.
		var stored int
		err := tx.QueryRowContext(ctx, `SELECT revision FROM labels WHERE label_id = $1`, label.ID).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("save label: %w", domain.ErrNotFound)
		}
		if err != nil {
			return mapError("save label", err)
		}
		return fmt.Errorf("save label: %w: expected revision %d, stored %d", domain.ErrConflict, expectedRevision, stored)
	}

	if err := insertHistorial(ctx, tx, hist); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError("commit save label", err)
	}
	return nil
}

func (r *PostgresLabelsRepository) ListHistorial(ctx context.Context, labelID string) ([]domain.HistorialLabel, error) {
	query := `
		SELECT
			historial_id::text,
			label_id::text,
			fecha_cambio,
			revision_anterior,
			revision_nueva,
			usuario,
			comentario
		FROM historial_labels
		WHERE label_id = $1
		ORDER BY revision_nueva ASC
	`

	rows, err := r.db.QueryContext(ctx, query, labelID)
	if err != nil {
		return nil, mapError("list historial", err)
	}
	defer rows.Close()

	var out []domain.HistorialLabel
	for rows.Next() {
		var h domain.HistorialLabel
		var revisionAnterior sql.NullInt64
		var comentario sql.NullString
		if err := rows.Scan(
			&h.ID,
			&h.LabelID,
			&h.FechaCambio,
			&revisionAnterior,
			&h.RevisionNueva,
			&h.Usuario,
			&comentario,
		); err != nil {
			return nil, mapError("scan historial", err)
		}
		if revisionAnterior.Valid {
			prev := int(revisionAnterior.Int64)
			h.RevisionAnterior = &prev
		}
		if comentario.Valid {
			h.Comentario = &comentario.String
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list historial", err)
	}
	return out, nil
}

func insertHistorial(ctx context.Context, tx *sql.Tx, h *domain.HistorialLabel) error {
	insert := `
		INSERT INTO historial_labels (
			historial_id, label_id, fecha_cambio,
			revision_anterior, revision_nueva, usuario, comentario
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var revisionAnterior sql.NullInt64
	if h.RevisionAnterior != nil {
		revisionAnterior = sql.NullInt64{Int64: int64(*h.RevisionAnterior), Valid: true}
	}

	if _, err := tx.ExecContext(ctx, insert,
		h.ID,
		h.LabelID,
		h.FechaCambio,
		revisionAnterior,
		h.RevisionNueva,
		h.Usuario,
		nullString(h.Comentario),
	); err != nil {
		return mapError("append historial", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
