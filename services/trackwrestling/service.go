package trackwrestling

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"trackwrestling-backend/internal/components/assert"
	"trackwrestling-backend/internal/components/telemetry"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("services/trackwrestling")

const (
	report_service_upstream  = "service.upstream"
	report_service_malformed = "service.malformed"
)

// envelope is the shape of every response body.
type envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// requestError is a problem with the request itself, it is shown to the
// caller as is.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

type Service struct {
	fetcher Fetcher
	tel     telemetry.API
	metrics metrics
}

func NewService(fetcher Fetcher, tel telemetry.API) Service {
	assert.NotNil(fetcher)
	assert.NotNil(tel)
	return Service{
		fetcher: fetcher,
		tel:     telemetry.NewScopedAPI("trackwrestling_service", tel),
		metrics: newMetrics(),
	}
}

// Router returns the http api.
func (s Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handle("index", func(r *http.Request) (any, error) {
		return "trackwrestling api", nil
	}))
	r.Get("/tournaments", s.handle("tournaments", s.searchTournaments))
	r.Route("/tournaments/{type}/{id}", func(r chi.Router) {
		r.Get("/", s.handle("tournament", s.tournamentHub))
		r.Get("/matches", s.handle("matches", s.matAssignments))
		r.Get("/brackets", s.handle("brackets", s.brackets))
		r.Get("/brackets/{group}", s.handle("bracket", s.bracketHTML))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return r
}

type handlerFunc func(r *http.Request) (any, error)

func (s Service) handle(route string, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), route)
		defer span.End()
		s.metrics.requests.WithLabelValues(route).Inc()

		data, err := fn(r.WithContext(ctx))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			status, message := s.classify(route, err)
			writeJSON(w, status, envelope{OK: false, Error: message})
			return
		}
		writeJSON(w, http.StatusOK, envelope{OK: true, Data: data})
	}
}

// classify turns an error into a status code and the message shown to the
// caller.
func (s Service) classify(route string, err error) (int, string) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.status, reqErr.message
	}
	var unknownType *tw.UnknownEventTypeError
	if errors.As(err, &unknownType) {
		return http.StatusBadRequest, "Invalid tournament type"
	}

	kind, isParse := parseFailureKind(err)
	if isParse {
		s.metrics.parseFailures.WithLabelValues(kind).Inc()
	}
	var notFound *tw.PayloadNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, err.Error()
	}
	var malformed *tw.MalformedRecordError
	if errors.As(err, &malformed) {
		s.tel.ReportBroken(report_service_malformed, err, route)
		return http.StatusBadGateway, err.Error()
	}

	s.tel.ReportWarning(report_service_upstream, err, route)
	return http.StatusBadGateway, err.Error()
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	// the status line is already out, nothing useful can be done on failure
	_ = json.NewEncoder(w).Encode(body)
}

func tournamentParams(r *http.Request) (tw.EventType, int64, error) {
	eventType, err := tw.ParseEventType(chi.URLParam(r, "type"))
	if err != nil {
		return 0, 0, err
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, badRequest("Invalid tournament id")
	}
	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.String("tournament", fmt.Sprintf("%s:%d", eventType.Alias(), id)),
	)
	return eventType, id, nil
}

func parsePages(value string) ([]int64, error) {
	if value == "" {
		return nil, nil
	}
	var pages []int64
	for _, part := range strings.Split(value, ",") {
		page, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, badRequest("Invalid page %q", part)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (s Service) searchTournaments(r *http.Request) (any, error) {
	tournaments, err := s.fetcher.SearchTournaments(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		return nil, err
	}
	if tournaments == nil {
		tournaments = []tw.Tournament{}
	}
	return tournaments, nil
}

func (s Service) tournamentHub(r *http.Request) (any, error) {
	eventType, id, err := tournamentParams(r)
	if err != nil {
		return nil, err
	}
	return s.fetcher.TournamentHub(r.Context(), eventType, id)
}

func (s Service) matAssignments(r *http.Request) (any, error) {
	eventType, id, err := tournamentParams(r)
	if err != nil {
		return nil, err
	}
	matches, err := s.fetcher.MatAssignments(r.Context(), eventType, id)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []tw.Match{}
	}
	return matches, nil
}

func emptyBracketData() tw.BracketData {
	return tw.BracketData{
		Templates:    []tw.Template{},
		Weights:      []tw.Weight{},
		BracketTypes: []tw.BracketType{},
	}
}

func (s Service) brackets(r *http.Request) (any, error) {
	eventType, id, err := tournamentParams(r)
	if err != nil {
		return nil, err
	}
	data, err := s.fetcher.Brackets(r.Context(), eventType, id)
	var notFound *tw.PayloadNotFoundError
	if errors.As(err, &notFound) {
		return emptyBracketData(), nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// bracketHTML renders one weight's bracket. Without ?pages= the pages the
// site shows by default for that weight's first template are used.
func (s Service) bracketHTML(r *http.Request) (any, error) {
	eventType, id, err := tournamentParams(r)
	if err != nil {
		return nil, err
	}
	group := chi.URLParam(r, "group")
	pages, err := parsePages(r.URL.Query().Get("pages"))
	if err != nil {
		return nil, err
	}

	if len(pages) == 0 {
		data, err := s.fetcher.Brackets(r.Context(), eventType, id)
		if err != nil {
			return nil, err
		}
		weight, ok := data.Weight(group)
		if !ok {
			return nil, &requestError{status: http.StatusNotFound, message: fmt.Sprintf("Unknown weight %q", group)}
		}
		templates := data.TemplatesFor(weight.BracketID)
		if len(templates) > 0 {
			pages = templates[0].VisiblePageIDs()
		}
	}

	return s.fetcher.BracketHTML(r.Context(), eventType, id, group, pages)
}
