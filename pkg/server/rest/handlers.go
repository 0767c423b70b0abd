package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/inspector"
	"github.com/seen-one/Route-Crafter/pkg/server"
	"github.com/seen-one/Route-Crafter/pkg/server/rest/service"
)

type RouteService interface {
	GenerateRoute(ctx context.Context, clientID string, params service.RouteParams) (service.RouteData, error)
}

type RouteHandler struct {
	svc          RouteService
	promeMetrics *metrics
}

func RouteCrafterRouter(r *chi.Mux, svc RouteService, m *metrics) {
	handler := &RouteHandler{svc, m}

	r.Group(func(r chi.Router) {
		r.Route("/api", func(r chi.Router) {
			r.Post("/routes", handler.GenerateRoute)
			r.Get("/health", handler.Health)
		})
	})
}

// RouteRequest model info
//
//	@Description	request body for generating a route that covers every street inside the polygon
type RouteRequest struct {
	PolygonCoords        [][]float64 `json:"polygon_coords" validate:"required,min=3,dive,len=2"`
	TruncateByEdge       *bool       `json:"truncate_by_edge"`
	ConsolidateTolerance *float64    `json:"consolidate_tolerance" validate:"omitempty,gte=0,lte=500"`
	CustomFilter         string      `json:"custom_filter" validate:"omitempty,max=2000"`
}

func (s *RouteRequest) Bind(r *http.Request) error {
	if len(s.PolygonCoords) < 3 {
		return errors.New("Invalid polygon coordinates provided")
	}
	return nil
}

// RouteResponse model info
//
//	@Description	response body carrying the gpx document and the stats of the computed route
type RouteResponse struct {
	Gpx    string                   `json:"gpx"`
	Path   string                   `json:"path"`
	Center datastructure.Coordinate `json:"center"`
	Stats  inspector.RouteStats     `json:"stats"`
}

func NewRouteResponse(route service.RouteData) *RouteResponse {
	return &RouteResponse{
		Gpx:    route.Gpx,
		Path:   route.Path,
		Center: route.Center,
		Stats:  route.Stats,
	}
}

// GenerateRoute
//
//	@Summary		generate a route that covers every street inside the polygon at least once.
//	@Description	builds the street graph inside the polygon, solves the route inspection problem on it, and renders the closed walk as a gpx track.
//	@Tags			routes
//	@Param			body	body	RouteRequest	true	"request body with the polygon to cover"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/routes [post]
//	@Success		200	{object}	RouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		429	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *RouteHandler) GenerateRoute(w http.ResponseWriter, r *http.Request) {
	data := &RouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	// pairs arrive in [lon, lat] order, the geojson convention.
	polygon := make([]datastructure.Coordinate, 0, len(data.PolygonCoords))
	for _, c := range data.PolygonCoords {
		polygon = append(polygon, datastructure.Coordinate{Lat: c[1], Lon: c[0]})
	}

	truncateByEdge := true
	if data.TruncateByEdge != nil {
		truncateByEdge = *data.TruncateByEdge
	}
	consolidateTolerance := service.DefaultConsolidateTolerance
	if data.ConsolidateTolerance != nil {
		consolidateTolerance = *data.ConsolidateTolerance
	}

	start := time.Now()
	route, err := h.svc.GenerateRoute(r.Context(), clientAddr(r), service.RouteParams{
		Polygon:              polygon,
		TruncateByEdge:       truncateByEdge,
		ConsolidateTolerance: consolidateTolerance,
		CustomFilter:         data.CustomFilter,
	})
	h.promeMetrics.RouteComputeDuration.Observe(time.Since(start).Seconds())
	h.promeMetrics.RouteQueryCount.WithLabelValues(queryOutcome(err)).Inc()
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewRouteResponse(route))
}

func (h *RouteHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, "OK")
}

// clientAddr the admission identity of a request. Behind middleware.RealIP
// the remote addr is already the bare client ip.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func queryOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return "error"
	}
	switch ierr.Code() {
	case server.ErrTooManyRequests:
		return "rejected"
	case server.ErrTimeout:
		return "timeout"
	default:
		return "error"
	}
}

// ErrResponse model info
//
//	@Description	model for error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 422,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusConflict:
		statusText = "Resource conflict."
	case http.StatusBadRequest:
		statusText = "Bad request."
	case http.StatusTooManyRequests:
		statusText = "Too many requests."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	} else {
		switch ierr.Code() {
		case server.ErrInternalServerError:
			return http.StatusInternalServerError
		case server.ErrNotFound:
			return http.StatusNotFound
		case server.ErrConflict:
			return http.StatusConflict
		case server.ErrBadParamInput:
			return http.StatusBadRequest
		case server.ErrTooManyRequests:
			return http.StatusTooManyRequests
		case server.ErrTimeout:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}

}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}
