package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iwvelando/budget-drilldown/internal/aggregate"
	"github.com/iwvelando/budget-drilldown/internal/config"
	"github.com/iwvelando/budget-drilldown/internal/flow"
	"github.com/iwvelando/budget-drilldown/internal/labels"
	"github.com/iwvelando/budget-drilldown/internal/loader"
	"github.com/iwvelando/budget-drilldown/internal/navigator"
	"github.com/iwvelando/budget-drilldown/internal/records"
	"github.com/iwvelando/budget-drilldown/pkg/constants"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures the API handler.
type Options struct {
	Chart         config.Chart
	Columns       config.Columns
	Clean         aggregate.NameCleaner
	Measurer      labels.Measurer
	MaxUploadSize int64
	Version       string
}

// handler serializes every navigator call behind mu; the navigator itself is
// single-threaded.
type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	chart         config.Chart
	columns       config.Columns
	clean         aggregate.NameCleaner
	measurer      labels.Measurer

	mu    sync.Mutex
	index *aggregate.Index
	nav   *navigator.Navigator
}

// NewHandler constructs the HTTP handler that serves the drilldown API over idx.
// A nil idx starts with an empty dataset until one is uploaded.
func NewHandler(logger *zap.Logger, idx *aggregate.Index, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	measurer := opts.Measurer
	if measurer == nil {
		measurer = labels.NewRuneMeasurer()
	}

	if idx == nil {
		idx = aggregate.NewIndex(nil, opts.Clean)
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		chart:         opts.Chart,
		columns:       opts.Columns,
		clean:         opts.Clean,
		measurer:      measurer,
	}
	h.setIndex(idx)

	mux := http.NewServeMux()

	// Budget table
	mux.HandleFunc("/api/summary", h.instrument("summary", h.handleSummary))

	// Drill navigation
	mux.HandleFunc("/api/drill/open", h.instrument("drill_open", h.handleOpen))
	mux.HandleFunc("/api/drill/select", h.instrument("drill_select", h.handleSelect))
	mux.HandleFunc("/api/drill/back", h.instrument("drill_back", h.handleBack))
	mux.HandleFunc("/api/drill/reset", h.instrument("drill_reset", h.handleReset))
	mux.HandleFunc("/api/drill/current", h.instrument("drill_current", h.handleCurrent))
	mux.HandleFunc("/api/drill/labels", h.instrument("drill_labels", h.handleLabels))

	// Flow diagram
	mux.HandleFunc("/api/flow", h.instrument("flow", h.handleFlow))

	// Dataset replacement (TSV upload)
	mux.HandleFunc("/api/dataset", h.instrument("dataset", h.handleDataset))

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// setIndex swaps the dataset and starts a fresh navigator. Callers hold mu
// once the handler is serving.
func (h *handler) setIndex(idx *aggregate.Index) {
	h.index = idx
	h.nav = navigator.New(idx, navigator.Options{OtherThreshold: h.chart.OtherThreshold}, h.logger)
	datasetRecords.Set(float64(idx.Len()))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *handler) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
	}
}

type viewItem struct {
	Key     string           `json:"key"`
	Value   float64          `json:"value"`
	Percent float64          `json:"percent"`
	Other   bool             `json:"other,omitempty"`
	Members []aggregate.Node `json:"members,omitempty"`
}

type viewPayload struct {
	Title     string         `json:"title"`
	Subhead   string         `json:"subhead"`
	Level     string         `json:"level"`
	Path      navigator.Path `json:"path"`
	Items     []viewItem     `json:"items"`
	Total     float64        `json:"total"`
	RootTotal float64        `json:"rootTotal"`
	RootLabel string         `json:"rootLabel"`
	Bucketed  bool           `json:"bucketed"`
	Expanded  bool           `json:"expanded"`
}

type drillResponse struct {
	Active  bool         `json:"active"`
	Changed bool         `json:"changed"`
	Depth   int          `json:"depth"`
	View    *viewPayload `json:"view,omitempty"`
}

func newViewPayload(v navigator.ViewState) *viewPayload {
	items := make([]viewItem, 0, len(v.Items))
	for _, n := range v.Items {
		items = append(items, viewItem{
			Key:     n.Key,
			Value:   n.Value,
			Percent: v.Percent(n),
			Other:   n.IsOther(),
			Members: n.Members,
		})
	}
	return &viewPayload{
		Title:     v.Title,
		Subhead:   v.Subhead,
		Level:     v.Level.String(),
		Path:      v.Path,
		Items:     items,
		Total:     v.Total(),
		RootTotal: v.RootTotal,
		RootLabel: v.RootLabel,
		Bucketed:  v.Bucketed,
		Expanded:  v.Expanded,
	}
}

// drillState reports the navigator after an operation. Callers hold mu.
func (h *handler) drillState(changed bool) drillResponse {
	resp := drillResponse{Active: h.nav.Active(), Changed: changed, Depth: h.nav.Depth()}
	if cur, ok := h.nav.Current(); ok {
		resp.View = newViewPayload(cur)
	}
	return resp
}

func (h *handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	summary := h.index.Summary()
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, summary)
}

type openRequest struct {
	Section string `json:"section"`
	Budget  string `json:"budget"`
}

func (h *handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleOpen")
		return
	}
	section, ok := records.ParseSection(req.Section)
	if !ok {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("unknown section %q", req.Section), "server.handleOpen")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	view := h.nav.SectionView(section)
	if strings.TrimSpace(req.Budget) != "" {
		view = h.nav.BudgetView(section, req.Budget)
	}
	_, changed := h.nav.Open(view)
	drillTotal.WithLabelValues("open", strconv.FormatBool(changed)).Inc()

	h.writeJSON(w, http.StatusOK, h.drillState(changed))
}

type selectRequest struct {
	Key string `json:"key"`
}

func (h *handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleSelect")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, changed := h.nav.Select(req.Key)
	drillTotal.WithLabelValues("select", strconv.FormatBool(changed)).Inc()

	h.writeJSON(w, http.StatusOK, h.drillState(changed))
}

func (h *handler) handleBack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	wasActive := h.nav.Active()
	_, ok := h.nav.Back()
	changed := ok || wasActive
	drillTotal.WithLabelValues("back", strconv.FormatBool(changed)).Inc()

	h.writeJSON(w, http.StatusOK, h.drillState(changed))
}

func (h *handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, changed := h.nav.Reset()
	drillTotal.WithLabelValues("reset", strconv.FormatBool(changed)).Inc()

	h.writeJSON(w, http.StatusOK, h.drillState(changed))
}

func (h *handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, h.drillState(false))
}

type labelsRequest struct {
	Width float64 `json:"width"`
}

func (h *handler) handleLabels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req labelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleLabels")
		return
	}

	h.mu.Lock()
	cur, ok := h.nav.Current()
	h.mu.Unlock()
	if !ok {
		h.respondErrorWithOp(w, http.StatusConflict, "no active drill view", "server.handleLabels")
		return
	}

	plan := labels.PlanPie(cur.Items, req.Width, h.measurer, labels.PlanOptions{
		LeaderThreshold: h.chart.LeaderThreshold,
		LabelThreshold:  h.chart.LabelThreshold,
		TopN:            h.chart.LabelTopN,
		Pad:             h.chart.LabelPad,
	})
	h.writeJSON(w, http.StatusOK, plan)
}

func (h *handler) handleFlow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	graph := flow.FromIndex(h.index)
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, graph)
}

type datasetResponse struct {
	Records  int               `json:"records"`
	Summary  aggregate.Summary `json:"summary"`
	Duration string            `json:"duration"`
}

func (h *handler) handleDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		datasetUploads.WithLabelValues("rejected").Inc()
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.handleDataset")
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), "server.handleDataset")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		datasetUploads.WithLabelValues("rejected").Inc()
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing dataset file", "server.handleDataset")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleDataset"),
				zap.Error(closeErr),
			)
		}
	}()

	recs, err := loader.ParseTSV(file, h.columns)
	if err != nil {
		datasetUploads.WithLabelValues("rejected").Inc()
		status := http.StatusBadRequest
		if errors.Is(err, loader.ErrSchemaMissing) {
			status = http.StatusUnprocessableEntity
		}
		h.respondErrorWithOp(w, status, err.Error(), "server.handleDataset")
		return
	}

	idx := aggregate.NewIndex(recs, h.clean)

	h.mu.Lock()
	h.setIndex(idx)
	summary := idx.Summary()
	h.mu.Unlock()

	datasetUploads.WithLabelValues("accepted").Inc()
	h.logger.Info("dataset replaced",
		zap.String("op", "server.handleDataset"),
		zap.Int("records", idx.Len()),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeJSON(w, http.StatusOK, datasetResponse{
		Records:  idx.Len(),
		Summary:  summary,
		Duration: time.Since(start).String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
