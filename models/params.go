package models

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// ReportParams carries the optional, composable filters a history or chart
// request may supply. Every field is independent; a zero ReportParams
// filters nothing.
type ReportParams struct {
	// DataInicial/DataFinal bound the derived date, inclusive on both ends.
	// Canonical "YYYY-MM-DD" form; empty means unbounded.
	DataInicial string
	DataFinal   string

	// RaioKm keeps only rows within this many kilometers of Ref. Both are
	// set together or not at all.
	RaioKm *float64
	Ref    *orb.Point

	// Metricas is a display-label allow-set; empty keeps every metric.
	Metricas []string
}

// ParseReportParams reads the filter query parameters:
// data_inicial, data_final, raio_km, lat, lon, metricas (comma-separated).
func ParseReportParams(r *http.Request) (*ReportParams, error) {
	q := r.URL.Query()
	p := &ReportParams{}

	var err error
	if p.DataInicial, err = parseDateParam(q.Get("data_inicial")); err != nil {
		return nil, fmt.Errorf("data_inicial: %w", err)
	}
	if p.DataFinal, err = parseDateParam(q.Get("data_final")); err != nil {
		return nil, fmt.Errorf("data_final: %w", err)
	}

	if s := q.Get("raio_km"); s != "" {
		raio, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("raio_km: %q is not a number", s)
		}
		lat, err := strconv.ParseFloat(q.Get("lat"), 64)
		if err != nil {
			return nil, errors.New("raio_km requires a valid lat parameter")
		}
		lon, err := strconv.ParseFloat(q.Get("lon"), 64)
		if err != nil {
			return nil, errors.New("raio_km requires a valid lon parameter")
		}
		ref := orb.Point{lon, lat}
		p.RaioKm = &raio
		p.Ref = &ref
	}

	if s := q.Get("metricas"); s != "" {
		for _, m := range strings.Split(s, ",") {
			if m = strings.TrimSpace(m); m != "" {
				p.Metricas = append(p.Metricas, m)
			}
		}
	}

	return p, nil
}

// Validate rejects parameter combinations the filters cannot honor.
func (p *ReportParams) Validate() error {
	if p.DataInicial != "" && p.DataFinal != "" && p.DataInicial > p.DataFinal {
		return fmt.Errorf("data_inicial %s is after data_final %s", p.DataInicial, p.DataFinal)
	}
	if p.RaioKm != nil {
		if *p.RaioKm < 0 {
			return fmt.Errorf("raio_km must be >= 0, got %v", *p.RaioKm)
		}
		if p.Ref == nil {
			return errors.New("raio_km requires a reference point")
		}
		if lat := p.Ref.Lat(); lat < -90 || lat > 90 {
			return fmt.Errorf("lat %.6f is out of valid range [-90, 90]", lat)
		}
		if lon := p.Ref.Lon(); lon < -180 || lon > 180 {
			return fmt.Errorf("lon %.6f is out of valid range [-180, 180]", lon)
		}
	}
	return nil
}

// parseDateParam canonicalizes a date argument to "YYYY-MM-DD", accepting
// the Brazilian "DD/MM/YYYY" form as well. Empty stays empty.
func parseDateParam(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return "", fmt.Errorf("%q is not a valid date (want YYYY-MM-DD or DD/MM/YYYY)", s)
	}
	return t.Format(DateLayout), nil
}
