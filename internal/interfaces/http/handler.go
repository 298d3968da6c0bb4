package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appreplay "main/internal/application/service/replay"
	"main/internal/domain/entity/book"
	"main/internal/infrastructure/ingest"
	"main/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const capturesBasePath = "/api/v1/captures"

var (
	errMissingLogFile     = errors.New("multipart file field 'log' required")
	errMissingInstrument  = errors.New("instrument form field required")
	errMissingFingerprint = errors.New("missing fingerprint")
)

type Handler struct {
	router   *gin.Engine
	replay   *appreplay.Service
	cache    *redis.Client
	cacheTTL time.Duration
}

var _ http.Handler = (*Handler)(nil)

func NewHandler(replay *appreplay.Service, cache *redis.Client, cacheTTL time.Duration) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:   router,
		replay:   replay,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/healthz", h.healthz)
	h.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	captures := h.router.Group(capturesBasePath)
	if h.cache != nil {
		captures.Use(h.cacheMiddleware())
	}
	{
		captures.POST("/", h.replayLog)
		captures.GET("/:fingerprint/book", h.getCapturedBook)
	}
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type replayResponse struct {
	Fingerprint string `json:"fingerprint"`
	Instrument  string `json:"instrument"`
	book.Summary
}

// replayLog ingests an uploaded order log, replays it for one
// instrument, and stores the capture under its content fingerprint.
func (h *Handler) replayLog(c *gin.Context) {
	instrument := strings.TrimSpace(c.PostForm("instrument"))
	if instrument == "" {
		writeError(c, http.StatusBadRequest, errMissingInstrument)
		return
	}

	fileHeader, err := c.FormFile("log")
	if err != nil {
		writeError(c, http.StatusBadRequest, errMissingLogFile)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	fingerprint, err := ingest.Fingerprint(bytes.NewReader(body))
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	records, err := ingest.ReadLog(bytes.NewReader(body))
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	metrics.RecordsIngestedTotal.Add(float64(len(records)))

	summary, err := h.replay.Process(c.Request.Context(), records, instrument, fingerprint)
	if err != nil {
		metrics.ReplayFailuresTotal.Inc()
		writeError(c, statusFor(err), err)
		return
	}
	metrics.ReplaysTotal.Inc()

	c.JSON(http.StatusOK, replayResponse{
		Fingerprint: fingerprint,
		Instrument:  instrument,
		Summary:     summary,
	})
}

// getCapturedBook replays a previously stored capture for one
// instrument.
func (h *Handler) getCapturedBook(c *gin.Context) {
	fingerprint := c.Param("fingerprint")
	if fingerprint == "" {
		writeError(c, http.StatusBadRequest, errMissingFingerprint)
		return
	}
	instrument := strings.TrimSpace(c.Query("instrument"))
	if instrument == "" {
		writeError(c, http.StatusBadRequest, errMissingInstrument)
		return
	}

	summary, err := h.replay.ReplayCapture(c.Request.Context(), fingerprint, instrument)
	if err != nil {
		metrics.ReplayFailuresTotal.Inc()
		writeError(c, statusFor(err), err)
		return
	}
	metrics.ReplaysTotal.Inc()

	c.JSON(http.StatusOK, replayResponse{
		Fingerprint: fingerprint,
		Instrument:  instrument,
		Summary:     summary,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, appreplay.ErrDuplicateInput):
		return http.StatusConflict
	case errors.Is(err, appreplay.ErrInstrumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, appreplay.ErrMalformedRecord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// cacheMiddleware caches GET responses in Redis.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s", c.Request.Method, c.Request.URL.Path, c.Request.URL.RawQuery)
}
