package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/donutnomad/flowcase/flowchart"
	"github.com/donutnomad/flowcase/internal/config"
	"github.com/donutnomad/flowcase/internal/logging"
	"github.com/donutnomad/flowcase/internal/metrics"
	"github.com/donutnomad/flowcase/internal/pipeline"
	"github.com/donutnomad/flowcase/render"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const (
	// MaxBodySize 请求体上限
	MaxBodySize = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Options 服务选项
type Options struct {
	Config   *config.Config
	Registry *render.Registry
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // /metrics 的数据源，默认 prometheus.DefaultGatherer
	Logger   *zap.Logger
}

// Server 以 HTTP API 暴露解析、校验和用例生成
type Server struct {
	cfg      *config.Config
	registry *render.Registry
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	engine   *gin.Engine
}

func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Config,
		registry: opts.Registry,
		metrics:  opts.Metrics,
		gatherer: opts.Gatherer,
		logger:   logging.OrNop(opts.Logger),
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.registry == nil {
		s.registry = render.NewRegistry()
		render.RegisterDefaults(s.registry)
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.observe())
	engine.GET("/healthz", s.health)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := engine.Group("/api/v1")
	v1.POST("/parse", s.parse)
	v1.POST("/validate", s.validate)
	v1.POST("/testcases", s.testCases)

	s.engine = engine
	return s
}

// Handler 返回 http.Handler，便于测试和嵌入
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 监听 addr，ctx 取消后优雅退出
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// observe 记录请求日志与指标
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.ObserveRequest(route, status)
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// parseResponse /parse 的响应
type parseResponse struct {
	Graph       *flowchart.Graph      `json:"graph"`
	Diagnostics flowchart.Diagnostics `json:"diagnostics"`
}

// errorResponse 失败响应，解析错误时带上诊断
type errorResponse struct {
	Error       string                `json:"error"`
	Diagnostic  *flowchart.Diagnostic `json:"diagnostic,omitempty"`
	Diagnostics flowchart.Diagnostics `json:"diagnostics,omitempty"`
}

func (s *Server) parse(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	strict := s.cfg.Strict
	if v := c.Query("strict"); v != "" {
		b, err := cast.ToBoolE(v)
		if err != nil {
			writeJSON(c, http.StatusBadRequest, errorResponse{Error: "invalid strict parameter: " + v})
			return
		}
		strict = b
	}

	opts := append(s.cfg.ParserOptions(), flowchart.WithStrict(strict))
	res, err := flowchart.NewParser(opts...).Parse(body)
	s.metrics.ObserveParse(res, err)
	if err != nil {
		writeParseError(c, err, res.Diagnostics)
		return
	}
	writeJSON(c, http.StatusOK, parseResponse{Graph: res.Graph, Diagnostics: nonNil(res.Diagnostics)})
}

func (s *Server) validate(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	diags := flowchart.NewParser(s.cfg.ParserOptions()...).Validate(body)
	writeJSON(c, http.StatusOK, gin.H{
		"valid":       !diags.HasErrors(),
		"diagnostics": nonNil(diags),
	})
}

func (s *Server) testCases(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	renderer, err := s.registry.Lookup(c.DefaultQuery("format", "json"))
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	b, err := pipeline.Generate(c.Query("source"), []byte(body), s.cfg, s.metrics)
	if err != nil {
		writeParseError(c, err, b.Parse.Diagnostics)
		return
	}

	out, err := renderer.Render(b.Document)
	if err != nil {
		s.logger.Error("render failed", zap.String("format", renderer.Name()), zap.Error(err))
		writeJSON(c, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, contentType(renderer.Name()), out)
}

func readBody(c *gin.Context) (string, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize))
	if err != nil {
		writeJSON(c, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		return "", false
	}
	return string(data), true
}

// writeParseError 诊断错误返回 422，其余返回 500
func writeParseError(c *gin.Context, err error, diags flowchart.Diagnostics) {
	var diag *flowchart.Diagnostic
	if errors.As(err, &diag) {
		writeJSON(c, http.StatusUnprocessableEntity, errorResponse{
			Error:       diag.Error(),
			Diagnostic:  diag,
			Diagnostics: diags,
		})
		return
	}
	writeJSON(c, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(c *gin.Context, status int, v any) {
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}

func contentType(format string) string {
	switch format {
	case "json":
		return "application/json; charset=utf-8"
	case "markdown":
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func nonNil(ds flowchart.Diagnostics) flowchart.Diagnostics {
	if ds == nil {
		return flowchart.Diagnostics{}
	}
	return ds
}
