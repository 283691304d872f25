package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Franchi22/SafetyLabels/internal/domain"
)

// MemoryStore is an in-memory implementation of all repository contracts,
// used for dev runs without a database and for service-level tests. Entities
// live in maps keyed by identifier; relations are the explicit foreign-key
// fields, mirroring the SQL schema.
type MemoryStore struct {
	mu sync.RWMutex

	areas         map[string]domain.Area
	equipos       map[string]domain.Equipo
	labels        map[string]domain.Label
	historial     map[string][]domain.HistorialLabel // labelID -> chain
	suscripciones map[string]domain.SuscripcionAlerta
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		areas:         map[string]domain.Area{},
		equipos:       map[string]domain.Equipo{},
		labels:        map[string]domain.Label{},
		historial:     map[string][]domain.HistorialLabel{},
		suscripciones: map[string]domain.SuscripcionAlerta{},
	}
}

var (
	_ AreasRepository         = (*MemoryStore)(nil)
	_ EquiposRepository       = (*MemoryStore)(nil)
	_ LabelsRepository        = (*MemoryStore)(nil)
	_ SuscripcionesRepository = (*MemoryStore)(nil)
)

// ---- areas ----

func (m *MemoryStore) GetArea(_ context.Context, areaID string) (*domain.Area, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.areas[areaID]
	if !ok {
		return nil, fmt.Errorf("get area: %w", domain.ErrNotFound)
	}
	return &a, nil
}

func (m *MemoryStore) GetAreaByNombre(_ context.Context, nombre string) (*domain.Area, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.areas {
		if a.Nombre == nombre {
			a := a
			return &a, nil
		}
	}
	return nil, fmt.Errorf("get area by nombre: %w", domain.ErrNotFound)
}

func (m *MemoryStore) ListAreas(_ context.Context, incluirInactivas bool) ([]domain.Area, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Area
	for _, a := range m.areas {
		if !incluirInactivas && !a.Activo {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (m *MemoryStore) CreateArea(_ context.Context, area *domain.Area) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.areas {
		if a.Nombre == area.Nombre {
			return fmt.Errorf("create area: %w: nombre %q", domain.ErrConflict, area.Nombre)
		}
	}
	m.areas[area.ID] = *area
	return nil
}

func (m *MemoryStore) UpdateArea(_ context.Context, area *domain.Area) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.areas[area.ID]; !ok {
		return fmt.Errorf("update area: %w", domain.ErrNotFound)
	}
	for id, a := range m.areas {
		if id != area.ID && a.Nombre == area.Nombre {
			return fmt.Errorf("update area: %w: nombre %q", domain.ErrConflict, area.Nombre)
		}
	}
	m.areas[area.ID] = *area
	return nil
}

func (m *MemoryStore) DisableArea(_ context.Context, areaID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.areas[areaID]
	if !ok {
		return fmt.Errorf("disable area: %w", domain.ErrNotFound)
	}
	a.Activo = false
	m.areas[areaID] = a
	return nil
}

// ---- equipos ----

func (m *MemoryStore) GetEquipo(_ context.Context, equipoID string) (*domain.Equipo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.equipos[equipoID]
	if !ok {
		return nil, fmt.Errorf("get equipo: %w", domain.ErrNotFound)
	}
	return &e, nil
}

func (m *MemoryStore) GetEquipoByCodigo(_ context.Context, codigo string) (*domain.Equipo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.equipos {
		if e.Codigo == codigo {
			e := e
			return &e, nil
		}
	}
	return nil, fmt.Errorf("get equipo by codigo: %w", domain.ErrNotFound)
}

func (m *MemoryStore) ListEquipos(_ context.Context, filter EquiposFilter) ([]domain.Equipo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Equipo
	for _, e := range m.equipos {
		if filter.AreaID != "" && e.AreaID != filter.AreaID {
			continue
		}
		if !filter.IncluirInactivos && !e.Activo {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (m *MemoryStore) CreateEquipo(_ context.Context, equipo *domain.Equipo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.areas[equipo.AreaID]; !ok {
		return fmt.Errorf("create equipo: area: %w", domain.ErrNotFound)
	}
	for _, e := range m.equipos {
		if e.Codigo == equipo.Codigo {
			return fmt.Errorf("create equipo: %w: codigo %q", domain.ErrConflict, equipo.Codigo)
		}
	}
	m.equipos[equipo.ID] = *equipo
	return nil
}

func (m *MemoryStore) UpdateEquipo(_ context.Context, equipo *domain.Equipo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.equipos[equipo.ID]; !ok {
		return fmt.Errorf("update equipo: %w", domain.ErrNotFound)
	}
	if _, ok := m.areas[equipo.AreaID]; !ok {
		return fmt.Errorf("update equipo: area: %w", domain.ErrNotFound)
	}
	for id, e := range m.equipos {
		if id != equipo.ID && e.Codigo == equipo.Codigo {
			return fmt.Errorf("update equipo: %w: codigo %q", domain.ErrConflict, equipo.Codigo)
		}
	}
	m.equipos[equipo.ID] = *equipo
	return nil
}

func (m *MemoryStore) DisableEquipo(_ context.Context, equipoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.equipos[equipoID]
	if !ok {
		return fmt.Errorf("disable equipo: %w", domain.ErrNotFound)
	}
	e.Activo = false
	m.equipos[equipoID] = e
	return nil
}

func (m *MemoryStore) DeleteEquipo(_ context.Context, equipoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.equipos[equipoID]; !ok {
		return fmt.Errorf("delete equipo: %w", domain.ErrNotFound)
	}
	delete(m.equipos, equipoID)
	// Cascade: labels and their historial go with the equipo.
	for id, l := range m.labels {
		if l.EquipoID == equipoID {
			delete(m.labels, id)
			delete(m.historial, id)
		}
	}
	return nil
}

func (m *MemoryStore) CountByArea(_ context.Context, areaID string, soloActivos bool) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.equipos {
		if e.AreaID != areaID {
			continue
		}
		if soloActivos && !e.Activo {
			continue
		}
		count++
	}
	return count, nil
}

// ---- labels ----

func (m *MemoryStore) GetLabel(_ context.Context, labelID string) (*domain.Label, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.labels[labelID]
	if !ok {
		return nil, fmt.Errorf("get label: %w", domain.ErrNotFound)
	}
	return &l, nil
}

func (m *MemoryStore) GetLabelContexto(_ context.Context, labelID string) (*LabelContexto, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.labels[labelID]
	if !ok {
		return nil, fmt.Errorf("get label contexto: %w", domain.ErrNotFound)
	}
	lc, err := m.contextoLocked(l)
	if err != nil {
		return nil, err
	}
	return lc, nil
}

func (m *MemoryStore) contextoLocked(l domain.Label) (*LabelContexto, error) {
	e, ok := m.equipos[l.EquipoID]
	if !ok {
		return nil, fmt.Errorf("label %s: equipo: %w", l.ID, domain.ErrNotFound)
	}
	a, ok := m.areas[e.AreaID]
	if !ok {
		return nil, fmt.Errorf("label %s: area: %w", l.ID, domain.ErrNotFound)
	}
	return &LabelContexto{
		Label:        l,
		EquipoCodigo: e.Codigo,
		AreaID:       a.ID,
		AreaNombre:   a.Nombre,
	}, nil
}

func (m *MemoryStore) ListActiveLabels(_ context.Context, filter LabelsFilter) ([]LabelContexto, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []LabelContexto
	for _, l := range m.labels {
		e, ok := m.equipos[l.EquipoID]
		if !ok || !e.Activo {
			continue
		}
		a, ok := m.areas[e.AreaID]
		if !ok || !a.Activo {
			continue
		}
		if filter.EquipoID != "" && e.ID != filter.EquipoID {
			continue
		}
		if filter.AreaID != "" && a.ID != filter.AreaID {
			continue
		}
		out = append(out, LabelContexto{
			Label:        l,
			EquipoCodigo: e.Codigo,
			AreaID:       a.ID,
			AreaNombre:   a.Nombre,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FechaVencimiento.Before(out[j].FechaVencimiento)
	})
	return out, nil
}

func (m *MemoryStore) CreateLabel(_ context.Context, label *domain.Label, first *domain.HistorialLabel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.equipos[label.EquipoID]; !ok {
		return fmt.Errorf("create label: equipo: %w", domain.ErrNotFound)
	}
	if _, ok := m.labels[label.ID]; ok {
		return fmt.Errorf("create label: %w: id %q", domain.ErrConflict, label.ID)
	}
	m.labels[label.ID] = *label
	m.historial[label.ID] = []domain.HistorialLabel{*first}
	return nil
}

func (m *MemoryStore) SaveLabel(_ context.Context, label *domain.Label, expectedRevision int, hist *domain.HistorialLabel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.labels[label.ID]
	if !ok {
		return fmt.Errorf("save label: %w", domain.ErrNotFound)
	}
	if stored.Revision != expectedRevision {
		return fmt.Errorf("save label: %w: expected revision %d, stored %d",
			domain.ErrConflict, expectedRevision, stored.Revision)
	}
	m.labels[label.ID] = *label
	m.historial[label.ID] = append(m.historial[label.ID], *hist)
	return nil
}

func (m *MemoryStore) ListHistorial(_ context.Context, labelID string) ([]domain.HistorialLabel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chain := m.historial[labelID]
	out := append([]domain.HistorialLabel{}, chain...)
	sort.Slice(out, func(i, j int) bool { return out[i].RevisionNueva < out[j].RevisionNueva })
	return out, nil
}

// ---- suscripciones ----

func (m *MemoryStore) GetSuscripcion(_ context.Context, suscripcionID string) (*domain.SuscripcionAlerta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.suscripciones[suscripcionID]
	if !ok {
		return nil, fmt.Errorf("get suscripcion: %w", domain.ErrNotFound)
	}
	return &s, nil
}

func (m *MemoryStore) ListSuscripciones(_ context.Context, incluirInactivas bool) ([]domain.SuscripcionAlerta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.SuscripcionAlerta
	for _, s := range m.suscripciones {
		if !incluirInactivas && !s.Activo {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *MemoryStore) ListActivas(ctx context.Context) ([]domain.SuscripcionAlerta, error) {
	return m.ListSuscripciones(ctx, false)
}

func (m *MemoryStore) CreateSuscripcion(_ context.Context, s *domain.SuscripcionAlerta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.suscripciones[s.ID]; ok {
		return fmt.Errorf("create suscripcion: %w: id %q", domain.ErrConflict, s.ID)
	}
	m.suscripciones[s.ID] = *s
	return nil
}

func (m *MemoryStore) UpdateSuscripcion(_ context.Context, s *domain.SuscripcionAlerta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.suscripciones[s.ID]; !ok {
		return fmt.Errorf("update suscripcion: %w", domain.ErrNotFound)
	}
	m.suscripciones[s.ID] = *s
	return nil
}

func (m *MemoryStore) DeleteSuscripcion(_ context.Context, suscripcionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.suscripciones[suscripcionID]; !ok {
		return fmt.Errorf("delete suscripcion: %w", domain.ErrNotFound)
	}
	delete(m.suscripciones, suscripcionID)
	return nil
}
