package rest

import (
	"fmt"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/locale"
	"github.com/nvkalinin/bangla-calendar/log"
	"github.com/nvkalinin/bangla-calendar/store"
)

type banglaResp struct {
	Date   civil.Date  `json:"date"`
	Bangla bangla.Date `json:"bangla"`
	Label  string      `json:"label"`
}

type gregorianResp struct {
	Bangla bangla.Date `json:"bangla"`
	Date   civil.Date  `json:"date"`
}

// banglaCtrl переводит григорианскую дату в бенгальскую.
func (s *Server) banglaCtrl(w http.ResponseWriter, r *http.Request) {
	date, err := dateParams(r)
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid date")
		return
	}

	bd := bangla.ToBangla(date)
	sendJsonResponse(w, banglaResp{Date: date, Bangla: bd, Label: bangla.FormatDate(bd)})
}

// gregorianCtrl возвращает григорианскую дату начала бенгальского месяца. Месяц можно передать
// номером (1 - Baishakh) или названием.
func (s *Server) gregorianCtrl(w http.ResponseWriter, r *http.Request) {
	y, err := yearParam(r, "y")
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid year")
		return
	}

	m, err := bangla.ParseMonth(chi.URLParam(r, "m"))
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, "unknown month")
		return
	}

	bd := bangla.Date{Day: 1, Month: m, Year: y}
	date, err := bangla.ToGregorian(bd)
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, "unknown month")
		return
	}

	sendJsonResponse(w, gregorianResp{Bangla: bd, Date: date})
}

// gridCtrl отдает сетку месяца. Язык берется из ?lang=, затем из Accept-Language.
func (s *Server) gridCtrl(w http.ResponseWriter, r *http.Request) {
	y, m, err := yearMonthParams(r)
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid date")
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}

	sendJsonResponse(w, s.Months.Build(y, m, locale.New(lang)))
}

func (s *Server) icalCtrl(w http.ResponseWriter, r *http.Request) {
	y, err := yearParam(r, "y")
	if err != nil {
		sendErrorJson(w, http.StatusBadRequest, "invalid year")
		return
	}

	var holidays store.Months
	if year, found := s.Store.FindYear(y); found {
		holidays = year.Holidays()
	}

	data, err := s.Feed.Year(y, holidays)
	if err != nil {
		log.Printf("[ERROR] rest ical %d: %v", y, err)
		sendErrorJson(w, http.StatusInternalServerError, "cannot build calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bangla_%d.ics"`, y))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[WARN] cannot write ical: %+v", err)
	}
}
