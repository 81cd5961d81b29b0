package rest

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/feed"
	"github.com/nvkalinin/bangla-calendar/log"
	"github.com/nvkalinin/bangla-calendar/store"
	"github.com/nvkalinin/bangla-calendar/view"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Store interface {
	FindDay(y int, mon time.Month, d int) (*store.Day, bool)
	FindMonth(y int, mon time.Month) (store.Days, bool)
	FindYear(y int) (store.Months, bool)
}

type Updater interface {
	UpdateCalendar(y int) error
}

// Backuper реализуют хранилища, которые умеют делать снимок (engine.Bolt).
type Backuper interface {
	Backup(w io.Writer) error
}

type Server struct {
	Store    Store
	Updater  Updater
	Backuper Backuper // Может быть nil, тогда /api/admin/backup недоступен.
	Months   *view.Builder
	Feed     *feed.Generator
	Opts     Opts

	mu      sync.Mutex
	httpSrv *http.Server
	metrics *metrics
}

type Opts struct {
	Listen      string
	LogRequests bool
	AdminPasswd string // Если пусто, /api/admin/* отключены.

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	RateLimiter bool
	ReqLimit    int
	LimitWindow time.Duration
}

func (s *Server) Run() error {
	log.Printf("[INFO] rest listening on %s", s.Opts.Listen)
	return s.server().ListenAndServe()
}

// Shutdown можно вызвать и до Run, тогда Run сразу вернет http.ErrServerClosed.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server().Shutdown(ctx); err != nil {
		return fmt.Errorf("rest shutdown: %w", err)
	}
	return nil
}

func (s *Server) server() *http.Server {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpSrv == nil {
		s.httpSrv = &http.Server{
			Addr:              s.Opts.Listen,
			Handler:           s.routes(),
			ReadTimeout:       s.Opts.ReadTimeout,
			ReadHeaderTimeout: s.Opts.ReadHeaderTimeout,
			WriteTimeout:      s.Opts.WriteTimeout,
			IdleTimeout:       s.Opts.IdleTimeout,
		}
	}
	return s.httpSrv
}

func (s *Server) routes() *chi.Mux {
	if s.Months == nil {
		s.Months = view.NewBuilder(bangla.MustNewCache(bangla.DefaultGridCapacity))
	}
	if s.Feed == nil {
		s.Feed = feed.NewGenerator()
	}
	s.metrics = newMetrics(s.Months.Cache)

	r := chi.NewRouter()

	if s.Opts.LogRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		if s.Opts.RateLimiter {
			r.Use(httprate.LimitByIP(s.Opts.ReqLimit, s.Opts.LimitWindow))
		}

		r.Get("/cal/{y}", s.yearCtrl)
		r.Get("/cal/{y}/{m}", s.monthCtrl)
		r.Get("/cal/{y}/{m}/{d}", s.dayCtrl)

		r.Get("/bangla/{y}/{m}/{d}", s.banglaCtrl)
		r.Get("/gregorian/{y}/{m}", s.gregorianCtrl)
		r.Get("/grid/{y}/{m}", s.gridCtrl)
		r.Get("/ical/{y}", s.icalCtrl)

		if s.Opts.AdminPasswd != "" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.BasicAuth("admin", map[string]string{"admin": s.Opts.AdminPasswd}))
				r.Post("/sync", s.syncCtrl)
				r.Get("/backup", s.backupCtrl)
			})
		}
	})

	return r
}

func (s *Server) yearCtrl(w http.ResponseWriter, r *http.Request) {
	y, err := yearParam(r, "y")
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid year")
		return
	}

	year, found := s.Store.FindYear(y)
	if !found {
		sendErrorJson(w, http.StatusNotFound, "year not found")
		return
	}

	sendJsonResponse(w, year)
}

func (s *Server) monthCtrl(w http.ResponseWriter, r *http.Request) {
	y, m, err := yearMonthParams(r)
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid date")
		return
	}

	month, found := s.Store.FindMonth(y, m)
	if !found {
		sendErrorJson(w, http.StatusNotFound, "month not found")
		return
	}

	sendJsonResponse(w, month)
}

func (s *Server) dayCtrl(w http.ResponseWriter, r *http.Request) {
	date, err := dateParams(r)
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid date")
		return
	}

	day, found := s.Store.FindDay(date.Year, date.Month, date.Day)
	if !found {
		sendErrorJson(w, http.StatusNotFound, "date not found")
		return
	}

	sendJsonResponse(w, day)
}

func (s *Server) syncCtrl(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid form")
		return
	}

	vals := r.PostForm["y"]
	if len(vals) == 0 {
		sendErrorJson(w, http.StatusBadRequest, "no years to sync")
		return
	}

	years := make([]int, 0, len(vals))
	for _, v := range vals {
		y, err := strconv.Atoi(v)
		if err != nil || y <= 0 {
			sendErrorJson(w, http.StatusBadRequest, fmt.Sprintf("invalid year '%s'", v))
			return
		}
		years = append(years, y)
	}

	res := make(map[int]string, len(years))
	for _, y := range years {
		if err := s.Updater.UpdateCalendar(y); err != nil {
			log.Printf("[WARN] rest sync year %d: %v", y, err)
			res[y] = err.Error()
			continue
		}
		res[y] = "ok"
	}

	sendJsonResponse(w, res)
}

func (s *Server) backupCtrl(w http.ResponseWriter, r *http.Request) {
	if s.Backuper == nil {
		sendErrorJson(w, http.StatusNotImplemented, "store does not support backups")
		return
	}

	fname := fmt.Sprintf("cal_%s.bolt.gz", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fname))
	w.WriteHeader(http.StatusOK)

	gz := gzip.NewWriter(w)
	if err := s.Backuper.Backup(gz); err != nil {
		log.Printf("[ERROR] rest backup: %v", err)
		return
	}
	if err := gz.Close(); err != nil {
		log.Printf("[WARN] rest cannot finish backup: %v", err)
	}
}

func sendJsonResponse(w http.ResponseWriter, data any) {
	respJson, err := json.Marshal(data)
	if err != nil {
		log.Printf("[WARN] cannot marshal response data: %+v", err)
		sendErrorJson(w, http.StatusInternalServerError, "cannot marshal response data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(respJson); err != nil {
		log.Printf("[WARN] cannot write response data: %+v", err)
	}
}

func sendErrorJson(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	restErr := &struct {
		Msg string `json:"msg"`
	}{msg}

	errJson, err := json.Marshal(restErr)
	if err != nil {
		log.Printf("[WARN] cannot marshal rest error: %+v", err)
		return
	}

	if _, err = w.Write(errJson); err != nil {
		log.Printf("[WARN] cannot write rest error: %+v", err)
	}
}
