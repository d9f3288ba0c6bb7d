package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"postolog/middleware"
	"postolog/models"
	"postolog/session"
	"postolog/utils"
)

type observationPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	// AguardandoLocalizacao is set while the client's permission prompt is
	// still pending; the submit parks in AwaitingLocation instead of
	// falling back to geo-IP.
	AguardandoLocalizacao bool `json:"aguardandoLocalizacao"`

	Gasolina   *float64 `json:"gasolina"`
	Etanol     *float64 `json:"etanol"`
	Diesel     *float64 `json:"diesel"`
	Calibragem *float64 `json:"calibragem"`
}

// CreateObservation records one observation. Location precedence: client
// coordinates when granted, geo-IP of the request address otherwise. A
// pending permission prompt parks the session in AwaitingLocation and the
// client re-submits once it resolves.
func (h *Handler) CreateObservation(w http.ResponseWriter, r *http.Request) {
	var payload observationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	for _, m := range []struct {
		name  string
		value *float64
	}{
		{"gasolina", payload.Gasolina},
		{"etanol", payload.Etanol},
		{"diesel", payload.Diesel},
		{"calibragem", payload.Calibragem},
	} {
		if m.value != nil && *m.value < 0 {
			http.Error(w, fmt.Sprintf("%s must be >= 0", m.name), http.StatusBadRequest)
			return
		}
	}

	sessID := middleware.GetSessionID(r)

	var point orb.Point
	switch {
	case payload.Latitude != nil && payload.Longitude != nil:
		if err := utils.ValidateCoordinate(*payload.Latitude, *payload.Longitude); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		point = orb.Point{*payload.Longitude, *payload.Latitude}
	case payload.AguardandoLocalizacao:
		// Permission prompt still open on the client. Never fatal; the
		// session waits until the client retries.
		err := h.Sessions.Do(sessID, func(s *session.Session) error {
			s.LocationDenied()
			s.Submit()
			return nil
		})
		if err != nil {
			http.Error(w, "session not found", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"state": session.StateAwaitingLocation.String()})
		return
	default:
		point = h.GeoIP.Lookup(r.Context(), middleware.ClientIP(r))
	}

	err := h.Sessions.Do(sessID, func(s *session.Session) error {
		s.Submit()
		s.LocationResolved(point)
		return nil
	})
	if err != nil {
		http.Error(w, "session not found", http.StatusUnauthorized)
		return
	}

	obs := models.Observation{
		Latitude:   point.Lat(),
		Longitude:  point.Lon(),
		DataHora:   models.NowLocal(),
		Gasolina:   payload.Gasolina,
		Etanol:     payload.Etanol,
		Diesel:     payload.Diesel,
		Calibragem: payload.Calibragem,
	}
	if err := h.Store.Insert(&obs); err != nil {
		http.Error(w, "could not store registro: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// The row is already stored; if the session expired mid-request, losing
	// this state transition changes nothing for the caller.
	_ = h.Sessions.Do(sessID, func(s *session.Session) error {
		s.Recorded()
		return nil
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(obs)
}

// ListObservations returns history, newest first, optionally narrowed by
// the date-range and radius parameters.
func (h *Handler) ListObservations(w http.ResponseWriter, r *http.Request) {
	params, err := models.ParseReportParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.Store.FetchAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]models.Observation, 0, len(rows))
	for _, o := range rows {
		date := o.DataHora.Date()
		if params.DataInicial != "" && date < params.DataInicial {
			continue
		}
		if params.DataFinal != "" && date > params.DataFinal {
			continue
		}
		if params.RaioKm != nil && params.Ref != nil {
			if utils.Haversine(*params.Ref, orb.Point{o.Longitude, o.Latitude}) > *params.RaioKm {
				continue
			}
		}
		if !utils.HasMetricLabel(&o, utils.DefaultLabels, params.Metricas) {
			continue
		}
		out = append(out, o)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// GetSubmissionState reports the session's current state so a client can
// re-poll while a location prompt is pending.
func (h *Handler) GetSubmissionState(w http.ResponseWriter, r *http.Request) {
	var state session.State
	err := h.Sessions.Do(middleware.GetSessionID(r), func(s *session.Session) error {
		state = s.State
		return nil
	})
	if err != nil {
		http.Error(w, "session not found", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"state": state.String()})
}

// melted fetches history and runs it through the reshape pipeline with the
// request's filters applied. On error the returned status separates caller
// mistakes from storage failures.
func (h *Handler) melted(r *http.Request) ([]utils.MetricPoint, int, error) {
	params, err := models.ParseReportParams(r)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	if err := params.Validate(); err != nil {
		return nil, http.StatusBadRequest, err
	}
	rows, err := h.Store.FetchAll()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return utils.ApplyParams(utils.Melt(rows, utils.DefaultLabels), params), http.StatusOK, nil
}

// GetAverages serves the "current average" view: mean per metric label.
func (h *Handler) GetAverages(w http.ResponseWriter, r *http.Request) {
	points, status, err := h.melted(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(utils.AveragesChart(utils.MeanByLabel(points)))
}

// GetDailyTotals serves the "totals over time" view: sum per (date, label).
func (h *Handler) GetDailyTotals(w http.ResponseWriter, r *http.Request) {
	points, status, err := h.melted(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(utils.DailyTotalsChart(utils.SumByDateLabel(points)))
}

// GetGeoJSON serves the map feed: one feature per long-form metric row, so
// the consumer can size and color markers per metric.
func (h *Handler) GetGeoJSON(w http.ResponseWriter, r *http.Request) {
	points, status, err := h.melted(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(p.Point())
		f.Properties = geojson.Properties{
			"id":       p.ObservationID,
			"dataHora": p.DataHora,
			"label":    p.Label,
			"color":    p.Color,
			"value":    p.Value,
		}
		if p.Unmapped {
			f.Properties["unmapped"] = true
		}
		fc.Append(f)
	}

	w.Header().Set("Content-Type", "application/geo+json")
	json.NewEncoder(w).Encode(fc)
}
