package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/calendar"
	"github.com/nvkalinin/bangla-calendar/feed"
	"github.com/nvkalinin/bangla-calendar/log"
	"github.com/nvkalinin/bangla-calendar/rest"
	"github.com/nvkalinin/bangla-calendar/source"
	"github.com/nvkalinin/bangla-calendar/source/parser"
	"github.com/nvkalinin/bangla-calendar/store"
	"github.com/nvkalinin/bangla-calendar/store/engine"
	"github.com/nvkalinin/bangla-calendar/view"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"
)

type EngineType string

var (
	EngineMemory EngineType = "memory"
	EngineBolt   EngineType = "bolt"
)

type ParserType string

var (
	ParserNone     ParserType = "none"
	ParserHolidays ParserType = "holidays"
)

type Server struct {
	SyncAt      string   `long:"sync-at" env:"SYNC_AT" value-name:"hh:mm[:ss]" description:"В какое время пересчитывать календарь. Обновление происходит один раз в сутки. Если не указано, то автоматическое обновление отключено."`
	SyncOnStart []string `long:"sync-on-start" env:"SYNC_ON_START" value-name:"year" default:"current" default:"next" description:"За какие годы рассчитать календарь при запуске программы. Можно указывать числа, 'current' — текущий год, 'next' — следующий год. 'none' — отключить расчет при запуске."`

	Web struct {
		Listen      string `long:"listen" env:"LISTEN" value-name:"addr" default:"0.0.0.0:80" description:"Сетевой адрес для веб-сервера."`
		AccessLog   bool   `long:"access-log" env:"ACCESS_LOG" description:"Логировать все HTTP-запросы."`
		AdminPasswd string `long:"admin-passwd" env:"ADMIN_PASSWD" description:"Пароль пользователя admin для вызова /api/admin/*."`

		ReadTimeout       time.Duration `long:"read-timeout" env:"READ_TIMEOUT" value-name:"duration" default:"5s" description:"http.Server ReadTimeout"`
		ReadHeaderTimeout time.Duration `long:"read-header-timeout" env:"READ_HEADER_TIMEOUT" value-name:"duration" default:"5s" description:"http.Server ReadHeaderTimeout"`
		IdleTimeout       time.Duration `long:"idle-timeout" env:"IDLE_TIMEOUT" value-name:"duration" default:"30s" description:"http.Server IdleTimeout"`

		// Бекап большой базы может отдаваться долго, поэтому WriteTimeout должен быть достаточно большим.
		WriteTimeout time.Duration `long:"write-timeout" env:"WRITE_TIMEOUT" value-name:"duration" default:"60s" description:"http.Server WriteTimeout"`

		RateLimiter struct {
			ReqLimit    int           `long:"reqs" env:"REQS" value-name:"num" default:"100" description:"Количество запросов с одного IP. Если 0 — rate limiter отключен."`
			LimitWindow time.Duration `long:"window" env:"WINDOW" value-name:"duration" default:"1s" description:"Интервал времени, за который разрешено указанное кол-во запросов."`
		} `group:"Rate Limiter" namespace:"ratelim" env-namespace:"RATE_LIM"`
	} `group:"Web" namespace:"web" env-namespace:"WEB"`

	Store struct {
		Engine EngineType `long:"engine" env:"ENGINE" value-name:"type" choice:"memory" choice:"bolt" default:"bolt" description:"Тип хранилища для рассчитанного календаря."`

		Bolt struct {
			File string `long:"file" env:"FILE" value-name:"path" default:"cal.bolt" description:"Путь к файлу БД."`
		} `group:"Настройки хранилища bolt" namespace:"bolt" env-namespace:"BOLT"`
	} `group:"Хранилище" namespace:"store" env-namespace:"STORE"`

	Calendar struct {
		Weekend   []string `long:"weekend" env:"WEEKEND" env-delim:"," value-name:"day" default:"fri" default:"sat" description:"Выходные дни недели: mon, tue, wed, thu, fri, sat, sun."`
		GridCache int      `long:"grid-cache" env:"GRID_CACHE" value-name:"months" default:"12" description:"Сколько сеток месяцев держать в кеше."`
	} `group:"Календарь" namespace:"cal" env-namespace:"CAL"`

	Source struct {
		Parser ParserType `long:"parser" env:"PARSER" value-name:"type" choice:"holidays" choice:"none" default:"none" description:"Внешний источник праздников, который нужно парсить."`

		Holidays struct {
			URL       string        `long:"url" env:"URL" value-name:"url" description:"Адрес страницы с таблицей праздников, %d заменяется на год."`
			Rows      string        `long:"rows" env:"ROWS" value-name:"selector" default:"table tr" description:"CSS-селектор строк таблицы."`
			DateCol   int           `long:"date-col" env:"DATE_COL" value-name:"num" default:"0" description:"Номер ячейки с датой (с 0)."`
			NameCol   int           `long:"name-col" env:"NAME_COL" value-name:"num" default:"1" description:"Номер ячейки с названием праздника (с 0)."`
			Timeout   time.Duration `long:"timeout" env:"TIMEOUT" value-name:"duration" default:"30s" description:"Максимальное время выполнения запроса к сайту."`
			UserAgent string        `long:"user-agent" env:"USER_AGENT" description:"Значение заголовка User-Agent во всех запросах к сайту."`
		} `group:"Парсер страницы праздников" namespace:"holidays" env-namespace:"HOLIDAYS"`

		Override string `long:"override" env:"OVERRIDE" value-name:"file.yml" description:"Путь к YAML файлу с праздниками и локальными изменениями календаря. Если задан, используется всегда, вне зависимости от выбранного парсера."`
	} `group:"Источник данных" namespace:"source" env-namespace:"SOURCE"`
}

func (s *Server) Execute(args []string) error {
	a, err := s.makeApp()
	if err != nil {
		return err
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case <-sigChan:
			a.shutdown()
		case <-a.stopped:
		}
	}()

	a.run()
	a.wait()
	return a.startErr
}

type app struct {
	srv             *rest.Server
	proc            *calendar.Processor
	store           Store
	autoSync        bool
	syncYears       []int
	syncYearsFinish chan struct{}

	stopOnce sync.Once
	stopped  chan struct{}

	// Пишется до закрытия stopped, читается после.
	startErr error
}

func (s *Server) makeApp() (*app, error) {
	a := &app{
		syncYearsFinish: make(chan struct{}),
		stopped:         make(chan struct{}),
	}

	weekend, err := parseWeekend(s.Calendar.Weekend)
	if err != nil {
		return nil, fmt.Errorf("weekend: %w", err)
	}

	cache, err := bangla.NewCache(s.Calendar.GridCache)
	if err != nil {
		return nil, err
	}

	var syncAt time.Time
	if s.SyncAt != "" {
		syncAt, err = parseSyncAt(s.SyncAt)
		if err != nil {
			return nil, fmt.Errorf("sync at: %w", err)
		}
		a.autoSync = true
	}

	syncYears, err := parseYears(s.SyncOnStart)
	if err != nil {
		return nil, fmt.Errorf("sync on start: %w", err)
	}
	a.syncYears = syncYears

	src, err := s.makeSources(cache, weekend)
	if err != nil {
		return nil, err
	}

	// Хранилище открываем последним, чтобы при ошибках выше не держать файл bolt.
	st, err := s.makeStore()
	if err != nil {
		return nil, err
	}
	a.store = st

	a.proc = calendar.NewProcessor(calendar.ProcOpts{
		Src:      src,
		Store:    calendar.Store(st),
		UpdateAt: syncAt,
	})

	months := view.NewBuilder(cache)
	months.Weekend = weekend

	a.srv = &rest.Server{
		Store:   st,
		Updater: a.proc,
		Months:  months,
		Feed:    feed.NewGenerator(),
		Opts: rest.Opts{
			Listen:      s.Web.Listen,
			LogRequests: s.Web.AccessLog,
			AdminPasswd: s.Web.AdminPasswd,

			ReadTimeout:       s.Web.ReadTimeout,
			ReadHeaderTimeout: s.Web.ReadHeaderTimeout,
			WriteTimeout:      s.Web.WriteTimeout,
			IdleTimeout:       s.Web.IdleTimeout,

			RateLimiter: s.Web.RateLimiter.ReqLimit > 0,
			ReqLimit:    s.Web.RateLimiter.ReqLimit,
			LimitWindow: s.Web.RateLimiter.LimitWindow,
		},
	}
	if b, ok := st.(rest.Backuper); ok {
		a.srv.Backuper = b
	}

	return a, nil
}

type Store interface {
	FindDay(y int, mon time.Month, d int) (*store.Day, bool)
	FindMonth(y int, mon time.Month) (store.Days, bool)
	FindYear(y int) (store.Months, bool)
	PutYear(y int, data store.Months) error
}

func (s *Server) makeStore() (Store, error) {
	switch s.Store.Engine {
	case EngineMemory:
		return engine.NewMemory(), nil
	case EngineBolt:
		return engine.NewBolt(s.Store.Bolt.File)
	default:
		return nil, fmt.Errorf("unknown store engine %s", s.Store.Engine)
	}
}

func (s *Server) makeSources(cache *bangla.Cache, weekend []time.Weekday) ([]calendar.Source, error) {
	gen := source.NewGeneric(cache)
	gen.Weekend = weekend

	src := make([]calendar.Source, 0, 3)
	src = append(src, gen)

	switch s.Source.Parser {
	case ParserNone, "":
	case ParserHolidays:
		if s.Source.Holidays.URL == "" {
			return nil, errors.New("holidays parser: url is required")
		}

		jar, err := cookiejar.New(&cookiejar.Options{
			PublicSuffixList: publicsuffix.List,
		})
		if err != nil {
			return nil, fmt.Errorf("cannot create cookie jar: %w", err)
		}

		src = append(src, &parser.HolidayPage{
			Client: &http.Client{
				Timeout: s.Source.Holidays.Timeout,
				Jar:     jar,
			},
			UserAgent: s.Source.Holidays.UserAgent,
			URL:       s.Source.Holidays.URL,
			Rows:      s.Source.Holidays.Rows,
			DateCol:   s.Source.Holidays.DateCol,
			NameCol:   s.Source.Holidays.NameCol,
		})
	default:
		return nil, fmt.Errorf("unknown parser %s", s.Source.Parser)
	}

	if s.Source.Override != "" {
		src = append(src, &source.Override{
			Path: s.Source.Override,
		})
	}

	return src, nil
}

func parseWeekend(vals []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(vals))
	for _, val := range vals {
		found := false
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if name, _ := store.NewWeekDay(wd); string(name) == strings.ToLower(strings.TrimSpace(val)) {
				days = append(days, wd)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("invalid week day '%s'", val)
		}
	}
	return days, nil
}

func parseSyncAt(val string) (time.Time, error) {
	if t, err := time.Parse("15:04", val); err == nil {
		return t, nil
	}

	t, err := time.Parse("15:04:05", val)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time '%s', it must match pattern hh:mm[:ss]", val)
	}
	return t, nil
}

func parseYears(vals []string) ([]int, error) {
	if len(vals) == 1 && vals[0] == "none" {
		return nil, nil
	}

	years := make(map[int]bool, len(vals))
	for _, val := range vals {
		switch val {
		case "current":
			y := time.Now().Year()
			years[y] = true
		case "next":
			y := time.Now().Year() + 1
			years[y] = true
		default:
			y, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("invalid year '%s': %w", val, err)
			}
			if y <= 0 {
				return nil, fmt.Errorf("invalid year %d", y)
			}
			years[y] = true
		}
	}

	ylist := make([]int, 0, len(years))
	for y := range years {
		ylist = append(ylist, y)
	}

	return ylist, nil
}

func (a *app) run() {
	g, _ := errgroup.WithContext(context.Background())

	if a.autoSync {
		g.Go(func() error {
			a.proc.RunUpdates()
			return nil
		})
	}

	g.Go(func() error {
		syncOnRun(a.proc, a.syncYears, a.syncYearsFinish)
		return nil
	})

	g.Go(func() error {
		if err := a.srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] startup: %v", err)
			a.startErr = fmt.Errorf("startup: %w", err)
			// RunUpdates завершится только после shutdown, поэтому останавливаемся отсюда.
			a.shutdown()
			return err
		}
		return nil
	})

	_ = g.Wait()
}

func (a *app) shutdown() {
	a.stopOnce.Do(func() {
		defer close(a.stopped)
		log.Printf("[INFO] shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		g, _ := errgroup.WithContext(ctx)

		if a.autoSync {
			g.Go(func() error {
				return a.proc.Shutdown(ctx)
			})
		}
		g.Go(func() error {
			return a.srv.Shutdown(ctx)
		})
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return fmt.Errorf("sync on run: %w", ctx.Err())
			case <-a.syncYearsFinish:
				return nil
			}
		})

		if err := g.Wait(); err != nil {
			log.Printf("[ERROR] app shutdown: %v", err)
		}

		// Хранилище закрываем последним, когда никто уже не пишет.
		if c, ok := a.store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Printf("[WARN] cannot close store: %v", err)
			}
		}
	})
}

func (a *app) wait() {
	<-a.stopped
}

func syncOnRun(proc *calendar.Processor, years []int, finished chan<- struct{}) {
	for _, y := range years {
		if err := proc.UpdateCalendar(y); err != nil {
			log.Printf("[WARN] sync on run, year %d: %+v", y, err)
		}
	}
	close(finished)
}
