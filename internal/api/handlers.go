package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"salarydash/internal/dashboard"
	"salarydash/internal/engine"
	"salarydash/internal/export"
	"salarydash/internal/metrics"
	"salarydash/internal/models"
)

const (
	mimeXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeArrow = "application/vnd.apache.arrow.stream"
)

// Options tunes handler defaults. Zero fields fall back to built-in values.
type Options struct {
	TopJobs      int
	DefaultLimit int
	Version      string
}

// Handler serves dashboard queries over the shared table. Until SetTable is
// called every query answers 503.
type Handler struct {
	table   atomic.Pointer[engine.Table]
	logger  *zap.Logger
	metrics *metrics.Collector
	opts    Options
}

func NewHandler(t *engine.Table, logger *zap.Logger, m *metrics.Collector, opts Options) *Handler {
	if opts.TopJobs <= 0 {
		opts.TopJobs = dashboard.DefaultTopJobs
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 100
	}
	h := &Handler{logger: logger, metrics: m, opts: opts}
	if t != nil {
		h.table.Store(t)
	}
	return h
}

// SetTable publishes the loaded dataset.
func (h *Handler) SetTable(t *engine.Table) {
	h.table.Store(t)
	h.logger.Info("dataset ready", zap.Int("rows", t.Len()), zap.Strings("columns", t.Columns()))
}

// RegisterRoutes mounts the /api routes on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.GetHealth)
	api.GET("/fields", h.GetFields)
	api.GET("/fields/:name/values", h.GetFieldValues)
	api.GET("/rows", h.GetRows)
	api.GET("/aggregate", h.GetAggregate)
	api.POST("/filter", h.PostFilter)
	api.GET("/correlation", h.GetCorrelation)
	api.GET("/describe", h.GetDescribe)

	pages := api.Group("/pages")
	pages.GET("", h.GetPages)
	pages.GET("/"+dashboard.PageOverview, h.GetOverviewPage)
	pages.GET("/"+dashboard.PageFrance, h.GetFrancePage)
	pages.GET("/"+dashboard.PageTrends, h.GetTrendsPage)
	pages.GET("/"+dashboard.PageCorrelations, h.GetCorrelation)
	pages.GET("/"+dashboard.PageTimeEvolution, h.GetTimeEvolutionPage)
	pages.GET("/"+dashboard.PageExperience, h.GetExperiencePage)
	pages.GET("/"+dashboard.PageRemote, h.GetRemotePage)
	pages.GET("/"+dashboard.PageFilters, h.GetFiltersPage)
}

// --- HELPERS ---

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func errLoading() error {
	return echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is still loading")
}

// run executes one query against the loaded table, records its metrics and
// renders the result as JSON.
func (h *Handler) run(c echo.Context, name string, query func(t *engine.Table) (interface{}, error)) error {
	t := h.table.Load()
	if t == nil {
		return errLoading()
	}
	start := time.Now()
	out, err := query(t)
	h.metrics.ObserveQuery(name, time.Since(start), err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func rowsPage(t *engine.Table, limit, offset int) models.RowsPage {
	return models.RowsPage{
		Data:   t.Slice(offset, limit).Rows(),
		Total:  t.Len(),
		Limit:  limit,
		Offset: offset,
	}
}

// --- HANDLERS ---

func (h *Handler) GetHealth(c echo.Context) error {
	health := models.Health{
		Status:    "loading",
		Version:   h.opts.Version,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if t := h.table.Load(); t != nil {
		health.Status = "healthy"
		health.Loaded = true
		health.Rows = t.Len()
	}
	return c.JSON(http.StatusOK, health)
}

func (h *Handler) GetFields(c echo.Context) error {
	return h.run(c, "fields", func(t *engine.Table) (interface{}, error) {
		return dashboard.Fields(t), nil
	})
}

func (h *Handler) GetFieldValues(c echo.Context) error {
	return h.run(c, "field_values", func(t *engine.Table) (interface{}, error) {
		return t.Distinct(c.Param("name"))
	})
}

func (h *Handler) GetRows(c echo.Context) error {
	limit, offset := getPaginationParams(c, h.opts.DefaultLimit)
	return h.run(c, "rows", func(t *engine.Table) (interface{}, error) {
		return rowsPage(t, limit, offset), nil
	})
}

// GetAggregate handles
// /api/aggregate?group_by=a&group_by=b&field=salary_in_usd&fn=mean&sorted=true&top_field=job_title&top_n=10
func (h *Handler) GetAggregate(c echo.Context) error {
	params := c.QueryParams()
	groupBy := params["group_by"]
	fnName := c.QueryParam("fn")
	if fnName == "" {
		fnName = string(engine.Mean)
	}
	fn, err := engine.ParseFunc(fnName)
	if err != nil {
		return err
	}

	var opts []engine.AggregateOption
	if sorted, _ := strconv.ParseBool(c.QueryParam("sorted")); sorted {
		opts = append(opts, engine.Sorted())
	}
	if topField := c.QueryParam("top_field"); topField != "" {
		n, err := strconv.Atoi(c.QueryParam("top_n"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "top_n must be an integer")
		}
		opts = append(opts, engine.RestrictTop(topField, n))
	}

	return h.run(c, "aggregate", func(t *engine.Table) (interface{}, error) {
		return engine.Aggregate(t, groupBy, c.QueryParam("field"), fn, opts...)
	})
}

// PostFilter applies the predicates in the body. ?format=xlsx or ?format=arrow
// downloads the whole filtered table; JSON output is paginated.
func (h *Handler) PostFilter(c echo.Context) error {
	var req models.FilterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	preds, err := dashboard.BuildPredicates(req)
	if err != nil {
		return err
	}

	format := c.QueryParam("format")
	switch format {
	case "", "json":
		limit, offset := getPaginationParams(c, h.opts.DefaultLimit)
		return h.run(c, "filter", func(t *engine.Table) (interface{}, error) {
			out, err := engine.Filter(t, preds)
			if err != nil {
				return nil, err
			}
			return rowsPage(out, limit, offset), nil
		})
	case "xlsx", "arrow":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
	}

	t := h.table.Load()
	if t == nil {
		return errLoading()
	}
	start := time.Now()
	out, err := engine.Filter(t, preds)
	h.metrics.ObserveQuery("filter_"+format, time.Since(start), err)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	mime := mimeArrow
	if format == "xlsx" {
		mime = mimeXLSX
		err = export.WriteXLSX(&buf, out)
	} else {
		err = export.WriteArrow(&buf, out)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "salaries."+format))
	return c.Blob(http.StatusOK, mime, buf.Bytes())
}

func (h *Handler) GetCorrelation(c echo.Context) error {
	fields := c.QueryParams()["field"]
	return h.run(c, "correlation", func(t *engine.Table) (interface{}, error) {
		return engine.Correlate(t, fields)
	})
}

func (h *Handler) GetDescribe(c echo.Context) error {
	fields := c.QueryParams()["field"]
	return h.run(c, "describe", func(t *engine.Table) (interface{}, error) {
		return engine.Describe(t, fields)
	})
}

func (h *Handler) GetPages(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboard.Pages)
}

func (h *Handler) GetOverviewPage(c echo.Context) error {
	return h.run(c, "page_overview", func(t *engine.Table) (interface{}, error) {
		return dashboard.Overview(t)
	})
}

func (h *Handler) GetFrancePage(c echo.Context) error {
	return h.run(c, "page_france", func(t *engine.Table) (interface{}, error) {
		return dashboard.France(t)
	})
}

func (h *Handler) GetTrendsPage(c echo.Context) error {
	category := c.QueryParam("category")
	return h.run(c, "page_trends", func(t *engine.Table) (interface{}, error) {
		return dashboard.Trends(t, category)
	})
}

func (h *Handler) GetTimeEvolutionPage(c echo.Context) error {
	top := h.opts.TopJobs
	if s := c.QueryParam("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "top must be a positive integer")
		}
		top = n
	}
	return h.run(c, "page_time_evolution", func(t *engine.Table) (interface{}, error) {
		return dashboard.TimeEvolution(t, top)
	})
}

func (h *Handler) GetExperiencePage(c echo.Context) error {
	return h.run(c, "page_experience", func(t *engine.Table) (interface{}, error) {
		return dashboard.Experience(t)
	})
}

func (h *Handler) GetRemotePage(c echo.Context) error {
	return h.run(c, "page_remote", func(t *engine.Table) (interface{}, error) {
		return dashboard.Remote(t)
	})
}

func (h *Handler) GetFiltersPage(c echo.Context) error {
	return h.run(c, "page_filters", func(t *engine.Table) (interface{}, error) {
		return dashboard.FilterOptions(t)
	})
}
