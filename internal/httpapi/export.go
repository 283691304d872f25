package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Franchi22/SafetyLabels/internal/repository"
	"github.com/Franchi22/SafetyLabels/internal/service"
)

// labelExportHeader is the column layout of the xlsx export.
var labelExportHeader = []string{
	"Label ID",
	"Area",
	"Equipo",
	"Fecha Creacion",
	"Fecha Actualizacion",
	"Fecha Vencimiento",
	"Estado",
	"Dias Restantes",
	"Revision",
	"Creado Por",
	"Observacion",
}

// ExportHandler serves GET /api/v1/labels/export as an xlsx download.
type ExportHandler struct {
	labels        *service.LabelService
	defaultUmbral int
	logger        *zap.Logger
}

func NewExportHandler(labels *service.LabelService, defaultUmbral int, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		labels:        labels,
		defaultUmbral: defaultUmbral,
		logger:        logger,
	}
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	filter := repository.LabelsFilter{
		AreaID:   r.URL.Query().Get("area_id"),
		EquipoID: r.URL.Query().Get("equipo_id"),
	}
	umbral := parseInt(r.URL.Query().Get("umbral_dias"), h.defaultUmbral)

	items, err := h.labels.ListLabels(r.Context(), filter, umbral, "")
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := generateLabelExport(items)
	if err != nil {
		h.logger.Error("Failed to generate label export", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate export"))
		return
	}

	filename := fmt.Sprintf("labels-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// generateLabelExport renders the current classification of every label
// into a single-sheet workbook.
func generateLabelExport(items []service.LabelEstado) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close only on the error paths.

	sheetName := "Labels"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range labelExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	columnWidths := []float64{38, 20, 20, 20, 20, 20, 12, 14, 10, 20, 40}
	for i := range labelExportHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, item := range items {
		observacion := ""
		if item.Observacion != nil {
			observacion = *item.Observacion
		}
		values := []any{
			item.ID,
			item.AreaNombre,
			item.EquipoCodigo,
			item.FechaCreacion.Format("2006-01-02"),
			item.FechaActualizacion.Format("2006-01-02"),
			item.FechaVencimiento.Format("2006-01-02"),
			string(item.Estado),
			item.DiasRestantes,
			item.Revision,
			item.CreadoPor,
			observacion,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
