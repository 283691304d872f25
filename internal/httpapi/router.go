package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library ServeMux; route shapes stay simple
// enough that a third-party router buys nothing.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterRoutes wires every API endpoint. auth may be nil for dev runs
// without a login service; all routes are then unauthenticated.
func (r *Router) RegisterRoutes(
	auth *JWTValidator,
	areas *AreaHandler,
	equipos *EquipoHandler,
	labels *LabelHandler,
	export *ExportHandler,
	suscripciones *SuscripcionHandler,
) {
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		if auth == nil {
			return h
		}
		return auth.RequireAuth(h)
	}

	r.Handle("/api/v1/areas", wrap(areas.Collection))
	r.Handle("/api/v1/areas/", wrap(areas.Item))

	r.Handle("/api/v1/equipos", wrap(equipos.Collection))
	r.Handle("/api/v1/equipos/", wrap(equipos.Item))

	r.Handle("/api/v1/labels", wrap(labels.Collection))
	r.Handle("/api/v1/labels/export", wrap(export.Export))
	r.Handle("/api/v1/labels/", wrap(labels.Item))

	r.Handle("/api/v1/suscripciones", wrap(suscripciones.Collection))
	r.Handle("/api/v1/suscripciones/", wrap(suscripciones.Item))

	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]any{"status": "up"}))
	})
}
