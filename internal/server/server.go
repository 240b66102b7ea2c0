// Package server exposes the pension calculator as a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"github.com/xeipuuv/gojsonschema"

	"github.com/rgehrsitz/grpension/internal/calculation"
	"github.com/rgehrsitz/grpension/internal/config"
	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/logging"
	"github.com/rgehrsitz/grpension/internal/metrics"
	"github.com/rgehrsitz/grpension/internal/pipeline"
)

const (
	routeCalculate = "/api/v1/calculate"
	routeExtract   = "/api/v1/extract"
	routePrivate   = "/api/v1/private"
	routeHealth    = "/healthz"
	routeMetrics   = "/metrics"

	outcomeSuccess = "SUCCESS"
	outcomeFailure = "FAILURE"
)

// Options configures a Server. Zero durations fall back to the settings
// defaults.
type Options struct {
	Settings          config.ServerSettings
	ExtractionTimeout time.Duration
	Logger            logging.Logger
	Now               func() time.Time
}

// Server routes HTTP requests to the pipeline. The handlers hold no
// per-request state.
type Server struct {
	pipeline *pipeline.Pipeline
	metrics  *metrics.Metrics
	parser   *config.InputParser
	logger   logging.Logger
	opts     Options
	now      func() time.Time

	factsSchema   *gojsonschema.Schema
	privateSchema *gojsonschema.Schema
	metricsPage   fasthttp.RequestHandler
}

// New builds a Server around an existing pipeline and metrics set.
func New(p *pipeline.Pipeline, m *metrics.Metrics, opts Options) *Server {
	if opts.ExtractionTimeout <= 0 {
		opts.ExtractionTimeout = 60 * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		pipeline:      p,
		metrics:       m,
		parser:        config.NewInputParser(),
		logger:        logging.OrNop(opts.Logger),
		opts:          opts,
		now:           now,
		factsSchema:   mustSchema(factsSchema),
		privateSchema: mustSchema(privateSchema),
		metricsPage:   fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})),
	}
}

// Handler is the root request handler with metrics recording.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		route := s.route(ctx)
		s.metrics.ObserveRequest(route, ctx.Response.StatusCode(), time.Since(start))
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx) string {
	path := string(ctx.Path())
	switch path {
	case routeHealth:
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case routeMetrics:
		s.metricsPage(ctx)
	case routeCalculate, routeExtract, routePrivate:
		if !ctx.IsPost() {
			ctx.Response.Header.Set("Allow", fasthttp.MethodPost)
			s.fail(ctx, newMeta(s.now()), fasthttp.StatusMethodNotAllowed, errors.New("method not allowed"))
			return path
		}
		switch path {
		case routeCalculate:
			s.handleCalculate(ctx)
		case routeExtract:
			s.handleExtract(ctx)
		case routePrivate:
			s.handlePrivate(ctx)
		}
	default:
		writeJSON(ctx, fasthttp.StatusNotFound, errorResponse{Status: fasthttp.StatusNotFound, Message: "not found"})
		return "other"
	}
	return path
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "grpension",
		ReadTimeout:        s.opts.Settings.ReadTimeout,
		WriteTimeout:       s.opts.Settings.WriteTimeout,
		MaxRequestBodySize: s.opts.Settings.MaxUploadBytes,
		Logger:             printfLogger{s.logger},
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", s.opts.Settings.Addr)
		errCh <- srv.ListenAndServe(s.opts.Settings.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Infof("shutting down")
		return srv.ShutdownWithContext(shutdownCtx)
	}
}

// Meta is attached to every API response.
type Meta struct {
	CalculationID string    `json:"calculation_id"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
	DurationMs    int64     `json:"duration_ms"`
	Outcome       string    `json:"outcome"`
}

func newMeta(now time.Time) Meta {
	return Meta{CalculationID: uuid.New().String(), StartedAt: now}
}

func (m *Meta) finish(now time.Time, outcome string) {
	m.CompletedAt = now
	m.DurationMs = now.Sub(m.StartedAt).Milliseconds()
	m.Outcome = outcome
}

type calculateResponse struct {
	Meta
	Facts  *domain.InsuredPersonFacts `json:"facts"`
	Result *domain.PensionResult      `json:"result"`
}

type extractResponse struct {
	Meta
	*pipeline.Analysis
}

type privateRequest struct {
	calculation.PrivatePensionInput
	TargetMonthly *decimal.Decimal `json:"target_monthly"`
	ForecastYears int              `json:"forecast_years"`
}

type privateResponse struct {
	Meta
	Result               *calculation.PrivatePensionResult `json:"result"`
	RequiredContribution *decimal.Decimal                  `json:"required_contribution,omitempty"`
	Forecast             []calculation.ForecastPoint       `json:"forecast,omitempty"`
}

type errorResponse struct {
	Meta
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (s *Server) handleCalculate(ctx *fasthttp.RequestCtx) {
	m := newMeta(s.now())
	body := ctx.PostBody()
	if !json.Valid(body) {
		s.fail(ctx, m, fasthttp.StatusBadRequest, errors.New("malformed JSON body"))
		return
	}
	if err := validateAgainst(s.factsSchema, body); err != nil {
		s.fail(ctx, m, fasthttp.StatusUnprocessableEntity, err)
		return
	}

	partial, err := s.parser.Parse(body)
	if err != nil {
		s.fail(ctx, m, statusFor(err), err)
		return
	}
	if partial.DataSource == "" {
		partial.DataSource = "api"
	}
	facts, result, err := s.pipeline.Calculate(partial)
	if err != nil {
		s.metrics.ObserveCalculation(0, err)
		s.fail(ctx, m, statusFor(err), err)
		return
	}
	s.metrics.ObserveCalculation(result.TotalPension.InexactFloat64(), nil)

	m.finish(s.now(), outcomeSuccess)
	writeJSON(ctx, fasthttp.StatusOK, calculateResponse{Meta: m, Facts: facts, Result: result})
}

func (s *Server) handleExtract(ctx *fasthttp.RequestCtx) {
	m := newMeta(s.now())
	header, err := ctx.FormFile("file")
	if err != nil {
		s.fail(ctx, m, fasthttp.StatusBadRequest, fmt.Errorf("multipart field \"file\" is required: %w", err))
		return
	}
	f, err := header.Open()
	if err != nil {
		s.fail(ctx, m, fasthttp.StatusBadRequest, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		s.fail(ctx, m, fasthttp.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	runCtx, cancel := context.WithTimeout(context.Background(), s.opts.ExtractionTimeout)
	defer cancel()
	start := time.Now()
	analysis, err := s.pipeline.Analyze(runCtx, raw, header.Filename)
	format := strings.ToLower(filepath.Ext(header.Filename))
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		// Arbitrary suffixes would explode the label set.
		s.metrics.ObserveExtraction("other", "unsupported", time.Since(start))
		s.fail(ctx, m, fasthttp.StatusUnsupportedMediaType, err)
		return
	case err != nil:
		s.metrics.ObserveExtraction(format, "error", time.Since(start))
		s.fail(ctx, m, statusFor(err), err)
		return
	}
	outcome := "ok"
	if analysis.Partial.Unavailable {
		outcome = "unavailable"
	}
	s.metrics.ObserveExtraction(format, outcome, time.Since(start))
	s.metrics.ObserveCalculation(analysis.Result.TotalPension.InexactFloat64(), nil)
	s.logger.Infof("extracted %s (%d bytes, %s)", header.Filename, len(raw), outcome)

	m.finish(s.now(), outcomeSuccess)
	writeJSON(ctx, fasthttp.StatusOK, extractResponse{Meta: m, Analysis: analysis})
}

func (s *Server) handlePrivate(ctx *fasthttp.RequestCtx) {
	m := newMeta(s.now())
	body := ctx.PostBody()
	if !json.Valid(body) {
		s.fail(ctx, m, fasthttp.StatusBadRequest, errors.New("malformed JSON body"))
		return
	}
	if err := validateAgainst(s.privateSchema, body); err != nil {
		s.fail(ctx, m, fasthttp.StatusUnprocessableEntity, err)
		return
	}
	var req privateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(ctx, m, fasthttp.StatusBadRequest, fmt.Errorf("failed to decode request: %w", err))
		return
	}

	result, err := calculation.ProjectPrivatePension(req.PrivatePensionInput)
	if err != nil {
		s.fail(ctx, m, statusFor(err), err)
		return
	}
	resp := privateResponse{Result: result}
	if req.TargetMonthly != nil {
		in := req.PrivatePensionInput
		required, err := calculation.RequiredMonthlyContribution(*req.TargetMonthly, in.CurrentAge, in.RetirementAge, in.CurrentSavings, in.ExpectedReturn)
		if err != nil {
			s.fail(ctx, m, statusFor(err), err)
			return
		}
		resp.RequiredContribution = &required
	}
	if req.ForecastYears > 0 {
		resp.Forecast = calculation.ForecastPension(result.MonthlyPension, req.InflationRate, req.ForecastYears, s.now().Year()+result.YearsToRetirement)
	}

	m.finish(s.now(), outcomeSuccess)
	resp.Meta = m
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) fail(ctx *fasthttp.RequestCtx, m Meta, status int, err error) {
	m.finish(s.now(), outcomeFailure)
	resp := errorResponse{Meta: m, Status: status, Message: err.Error()}
	var se *schemaError
	if errors.As(err, &se) {
		resp.Message = "request validation failed"
		resp.Errors = se.Problems
	}
	if status >= 500 {
		s.logger.Errorf("%s %s: %v", ctx.Method(), ctx.Path(), err)
	} else {
		s.logger.Debugf("%s %s: %v", ctx.Method(), ctx.Path(), err)
	}
	writeJSON(ctx, status, resp)
}

// statusFor maps core errors onto HTTP status codes.
func statusFor(err error) int {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return fasthttp.StatusUnsupportedMediaType
	case errors.As(err, &ve):
		return fasthttp.StatusUnprocessableEntity
	default:
		return fasthttp.StatusBadRequest
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		ctx.Error(`{"status":500,"message":"failed to encode response"}`, fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

type printfLogger struct {
	logging.Logger
}

func (l printfLogger) Printf(format string, args ...any) {
	l.Errorf(format, args...)
}
