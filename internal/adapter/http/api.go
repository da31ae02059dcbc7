package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
	"github.com/couchcryptid/agri-alert-impact/internal/observability"
)

const maxBodyBytes = 64 << 10

// IncidentSource exposes the current incident log.
type IncidentSource interface {
	Snapshot() []domain.IncidentRecord
}

// WeatherView exposes the latest weather per region.
type WeatherView interface {
	Snapshots() map[string]domain.WeatherSnapshot
	Observations() []domain.Observation
}

// ReportStore records and lists emergency reports.
type ReportStore interface {
	Submit(in domain.ReportInput) (domain.EmergencyReport, error)
	List() []domain.EmergencyReport
}

// API serves the dashboard's read model and the report and chat endpoints.
// Weather may be nil, in which case every region reports default conditions.
type API struct {
	Incidents IncidentSource
	Weather   WeatherView
	Reports   ReportStore
	Metrics   *observability.Metrics

	logger *slog.Logger
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/impacts", a.handleImpacts)
	mux.HandleFunc("GET /api/v1/analytics", a.handleAnalytics)
	mux.HandleFunc("GET /api/v1/regions", a.handleRegions)
	mux.HandleFunc("GET /api/v1/regions/match", a.handleMatchRegion)
	mux.HandleFunc("GET /api/v1/reports", a.handleListReports)
	mux.HandleFunc("POST /api/v1/reports", a.handleSubmitReport)
	mux.HandleFunc("POST /api/v1/chat", a.handleChat)
}

func (a *API) snapshots() map[string]domain.WeatherSnapshot {
	if a.Weather == nil {
		return nil
	}
	return a.Weather.Snapshots()
}

func (a *API) observations() []domain.Observation {
	if a.Weather == nil {
		return nil
	}
	return a.Weather.Observations()
}

// filtered returns the incident log restricted to the ?range= window.
func (a *API) filtered(r *http.Request) ([]domain.IncidentRecord, domain.TimeRange, error) {
	tr, err := domain.ParseTimeRange(r.URL.Query().Get("range"))
	if err != nil {
		return nil, "", err
	}
	return domain.FilterByRange(a.Incidents.Snapshot(), tr), tr, nil
}

func (a *API) handleImpacts(w http.ResponseWriter, r *http.Request) {
	records, _, err := a.filtered(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	impacts := domain.Aggregate(records, a.snapshots())
	if s := r.URL.Query().Get("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "top must be a non-negative integer")
			return
		}
		impacts = domain.TopRegions(impacts, n)
	}
	writeJSON(w, http.StatusOK, impacts)
}

type analyticsResponse struct {
	Range         string                 `json:"range"`
	Summary       domain.Summary         `json:"summary"`
	Categories    []domain.CategoryCount `json:"categories"`
	Severities    []domain.SeverityCount `json:"severities"`
	MonthlyTrends []domain.MonthlyTrend  `json:"monthly_trends"`
	TopRegions    []domain.RegionImpact  `json:"top_regions"`
}

func (a *API) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	records, tr, err := a.filtered(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	label := string(tr)
	if tr == domain.RangeAllTime {
		label = "all"
	}
	writeJSON(w, http.StatusOK, analyticsResponse{
		Range:         label,
		Summary:       domain.Summarize(records),
		Categories:    domain.CategoryBreakdown(records),
		Severities:    domain.SeverityBreakdown(records),
		MonthlyTrends: domain.MonthlyTrends(records),
		TopRegions:    domain.TopRegions(domain.Aggregate(records, a.snapshots()), 5),
	})
}

type regionView struct {
	Name              string                 `json:"name"`
	Coordinates       domain.Coordinates     `json:"coordinates"`
	MapURL            string                 `json:"map_url"`
	CurrentConditions domain.WeatherSnapshot `json:"current_conditions"`
	Weather           *domain.Observation    `json:"weather,omitempty"`
}

// handleRegions lists every region, or with ?q= the regions whose names
// contain q ignoring case.
func (a *API) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions := domain.Regions()
	if q := r.URL.Query().Get("q"); q != "" {
		regions = domain.SearchRegions(q)
	}

	live := a.liveObservations()
	out := make([]regionView, 0, len(regions))
	for _, reg := range regions {
		out = append(out, newRegionView(reg, live))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleMatchRegion resolves ?q= to the first matching region.
func (a *API) handleMatchRegion(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	reg, ok := domain.FindRegion(q)
	if !ok {
		writeError(w, http.StatusNotFound, "no region matches "+strconv.Quote(q))
		return
	}
	writeJSON(w, http.StatusOK, newRegionView(reg, a.liveObservations()))
}

func (a *API) liveObservations() map[string]domain.Observation {
	live := make(map[string]domain.Observation)
	for _, obs := range a.observations() {
		live[obs.Region] = obs
	}
	return live
}

func newRegionView(reg domain.Region, live map[string]domain.Observation) regionView {
	v := regionView{
		Name:              reg.Name,
		Coordinates:       reg.Coordinates,
		MapURL:            domain.MapSearchURL(reg.Coordinates),
		CurrentConditions: domain.DefaultWeatherSnapshot(),
	}
	if obs, ok := live[reg.Name]; ok {
		v.CurrentConditions = obs.Snapshot()
		v.Weather = &obs
	}
	return v
}

func (a *API) handleListReports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Reports.List())
}

func (a *API) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	var in domain.ReportInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := a.Reports.Submit(in)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidReport) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	if a.Metrics != nil {
		a.Metrics.ReportsSubmitted.Inc()
	}
	if a.logger != nil {
		a.logger.Info("emergency report submitted",
			"report_id", report.ID, "type", report.Type, "severity", report.Severity.String(), "location", report.Location)
	}
	writeJSON(w, http.StatusCreated, report)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: domain.Reply(req.Message, a.observations())})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}
