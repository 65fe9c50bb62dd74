package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/maintwindow/internal/display"
	"github.com/hamed0406/maintwindow/internal/domain"
	apimw "github.com/hamed0406/maintwindow/internal/httpapi/middleware"
	"github.com/hamed0406/maintwindow/internal/metrics"
	"github.com/hamed0406/maintwindow/internal/page"
)

//go:embed templates/*.html
var templateFS embed.FS

// Window lengths offered as range links, in hours.
var rangeChoices = []int{24, 48, 72, 168}

var funcMap = template.FuncMap{
	"fmtTime": func(cfg display.Config, t time.Time) string {
		return cfg.FormatDateTime(t.Local())
	},
	"fmtInstant": func(cfg display.Config, i domain.Instant) string {
		if !i.Valid() {
			return "unknown"
		}
		return cfg.FormatDateTime(i.Time().Local())
	},
	"hasDowntime": func(e domain.Event) bool {
		return e.ServerDownStart.Valid() && e.ServerDownEnd.Valid()
	},
}

type Server struct {
	Logger *zap.Logger
	Loader *page.Loader
	tmpl   *template.Template
}

func NewServer(l *zap.Logger, loader *page.Loader) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	tmpl := template.Must(template.New("index.html").Funcs(funcMap).ParseFS(templateFS, "templates/index.html"))
	return &Server{Logger: l, Loader: loader, tmpl: tmpl}
}

// Router builds the HTTP handler. publicRPM <= 0 disables rate limiting.
func (s *Server) Router(publicRPM, publicBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(publicRPM, publicBurst))
		r.Get("/", s.handleIndex)
		r.Get("/timeline.svg", s.handleTimeline)
		r.Get("/timeline.png", s.handleTimeline)
		r.Get("/api/status", s.handleStatus)
	})

	return r
}

type link struct {
	Label   string
	Href    string
	Current bool
}

type pageData struct {
	View       page.View
	Chart      template.HTML
	ChartURL   string
	ModeLinks  []link
	RangeLinks []link
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cfg := display.FromQuery(r.URL.Query())
	view, loadErr := s.Loader.Load(r.Context(), cfg)

	data := pageData{
		View:       view,
		ModeLinks:  modeLinks(cfg),
		RangeLinks: rangeLinks(cfg),
	}
	if loadErr == nil {
		if s.inlineChart() {
			var buf bytes.Buffer
			if err := s.Loader.Chart(&buf, view); err == nil {
				data.Chart = template.HTML(buf.String())
			}
		} else {
			data.ChartURL = s.chartPath() + cfg.Link(nil)
		}
	}

	var out bytes.Buffer
	if err := s.tmpl.Execute(&out, data); err != nil {
		s.Logger.Error("template_failed", zap.Error(err))
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if loadErr != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_, _ = w.Write(out.Bytes())
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	cfg := display.FromQuery(r.URL.Query())
	view, err := s.Loader.Load(r.Context(), cfg)
	if err != nil {
		http.Error(w, "snapshot unavailable", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := s.Loader.Chart(&buf, view); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.Loader.Renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cfg := display.FromQuery(r.URL.Query())
	view, err := s.Loader.Load(r.Context(), cfg)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":  errorMessage(err),
			"status": view.State,
		})
		return
	}
	_ = json.NewEncoder(w).Encode(view.State)
}

func (s *Server) inlineChart() bool {
	return s.Loader.Renderer != nil && s.Loader.Renderer.ContentType() == "image/svg+xml"
}

// chartPath names the chart route after the renderer's output format.
func (s *Server) chartPath() string {
	if s.Loader.Renderer != nil && s.Loader.Renderer.ContentType() == "image/png" {
		return "timeline.png"
	}
	return "timeline.svg"
}

func modeLinks(cfg display.Config) []link {
	out := make([]link, 0, 2)
	for _, m := range []display.HourFormat{display.Hour12, display.Hour24} {
		out = append(out, link{
			Label:   string(m),
			Href:    cfg.Link(map[string]string{display.ParamMode: string(m)}),
			Current: cfg.HourFormat == m,
		})
	}
	return out
}

func rangeLinks(cfg display.Config) []link {
	out := make([]link, 0, len(rangeChoices))
	for _, h := range rangeChoices {
		out = append(out, link{
			Label:   strconv.Itoa(h) + "h",
			Href:    cfg.Link(map[string]string{display.ParamEnd: strconv.Itoa(h)}),
			Current: cfg.WindowHours == h,
		})
	}
	return out
}

func errorMessage(err error) string {
	if errors.Is(err, page.ErrSnapshotUnavailable) {
		return "snapshot unavailable"
	}
	return "internal error"
}
