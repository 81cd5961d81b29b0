package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
)

var errInvalidParam = errors.New("invalid param")

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%w %s: %v", errInvalidParam, name, err)
	}
	return v, nil
}

func yearParam(r *http.Request, name string) (int, error) {
	y, err := intParam(r, name)
	if err != nil {
		return 0, err
	}
	if y <= 0 {
		return 0, fmt.Errorf("%w %s: %d", errInvalidParam, name, y)
	}
	return y, nil
}

func yearMonthParams(r *http.Request) (int, time.Month, error) {
	y, err := yearParam(r, "y")
	if err != nil {
		return 0, 0, err
	}

	m, err := intParam(r, "m")
	if err != nil {
		return 0, 0, err
	}
	if m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("%w m: %d", errInvalidParam, m)
	}

	return y, time.Month(m), nil
}

func dateParams(r *http.Request) (civil.Date, error) {
	y, m, err := yearMonthParams(r)
	if err != nil {
		return civil.Date{}, err
	}

	d, err := intParam(r, "d")
	if err != nil {
		return civil.Date{}, err
	}

	date := civil.Date{Year: y, Month: m, Day: d}
	if !date.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: %s", errInvalidParam, date)
	}
	return date, nil
}
