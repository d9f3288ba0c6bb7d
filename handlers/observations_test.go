package handlers_test

import (
	"net/http"
	"testing"

	"postolog/models"
	"postolog/utils"
)

func TestCreateAndListObservations(t *testing.T) {
	app := newTestApp(t, stubAuth{})

	rec := app.do(t, http.MethodPost, "/api/v1/registros", map[string]interface{}{
		"latitude": -23.55, "longitude": -46.63,
		"gasolina": 5.49, "etanol": 0.0, "diesel": 6.10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	first := decode[models.Observation](t, rec)
	if first.ID == 0 {
		t.Error("created observation has no id")
	}
	if first.Etanol == nil || *first.Etanol != 0 {
		t.Errorf("a submitted zero must be stored, got %+v", first.Etanol)
	}

	rec = app.do(t, http.MethodPost, "/api/v1/registros", map[string]interface{}{
		"latitude": -22.91, "longitude": -43.17, "diesel": 6.20,
	})
	second := decode[models.Observation](t, rec)
	if second.ID <= first.ID {
		t.Errorf("ids not strictly increasing: %d then %d", first.ID, second.ID)
	}

	rec = app.do(t, http.MethodGet, "/api/v1/registros", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	rows := decode[[]models.Observation](t, rec)
	if len(rows) != 2 {
		t.Fatalf("list returned %d rows, expected 2", len(rows))
	}
	if rows[0].ID != second.ID {
		t.Errorf("list not newest first: %d before %d", rows[0].ID, rows[1].ID)
	}
}

func TestListObservationsMetricFilter(t *testing.T) {
	app := newTestApp(t, stubAuth{})

	app.do(t, http.MethodPost, "/api/v1/registros", map[string]interface{}{
		"latitude": -23.55, "longitude": -46.63, "gasolina": 5.49,
	})
	rec := app.do(t, http.MethodPost, "/api/v1/registros", map[string]interface{}{
		"latitude": -23.55, "longitude": -46.63, "diesel": 6.10,
	})
	dieselRow := decode[models.Observation](t, rec)

	rec = app.do(t, http.MethodGet, "/api/v1/registros?metricas=Diesel", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	rows := decode[[]models.Observation](t, rec)
	if len(rows) != 1 || rows[0].ID != dieselRow.ID {
		t.Fatalf("metricas filter returned %+v, expected only the diesel row", rows)
	}

	// An allow-set matching nothing yields an empty history, not an error.
	rec = app.do(t, http.MethodGet, "/api/v1/registros?metricas=Calibragem", nil)
	if rows := decode[[]models.Observation](t, rec); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestCreateObservationGeoIPFallback(t *testing.T) {
	app := newTestApp(t, stubAuth{})

	// No coordinates and an unreachable geo-IP endpoint: the record still
	// lands, at the fallback coordinate.
	rec := app.do(t, http.MethodPost, "/api/v1/registros", map[string]interface{}{
		"gasolina": 5.49,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	obs := decode[models.Observation](t, rec)
	if obs.Latitude != utils.FallbackPoint.Lat() || obs.Longitude != utils.FallbackPoint.Lon() {
		t.Errorf("coordinate = (%v, %v), expected fallback (%v, %v)",
			obs.Latitude, obs.Longitude, utils.FallbackPoint.Lat(), utils.FallbackPoint.Lon())
	}
}

func TestCreateObservationAwaitingLocation(t *testing.T) {
	app := newTestApp(t, stubAuth{})

	rec := app.do(t, http.MethodPost, "/api/v1/registros", map[string]interface{}{
		"aguardandoLocalizacao": true, "gasolina": 5.49,
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, expected 202", rec.Code)
	}
	if state := decode[map[string]string](t, rec)["state"]; state != "awaiting_location" {
		t.Errorf("state = %q, expected awaiting_location", state)
	}

	rec = app.do(t, http.MethodGet, "/api/v1/estado", nil)
	if state := decode[map[string]string](t, rec)["state"]; state != "awaiting_location" {
		t.Errorf("session state = %q, expected awaiting_location", state)
	}

	// Nothing was recorded while waiting.
	rec = app.do(t, http.MethodGet, "/api/v1/registros", nil)
	if rows := decode[[]models.Observation](t, rec); len(rows) != 0 {
		t.Errorf("history has %d rows, expected none", len(rows))
	}
}

func TestCreateObservationValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"negative metric", map[string]interface{}{"gasolina": -0.01}},
		{"latitude out of range", map[string]interface{}{"latitude": 91.0, "longitude": 0.0}},
		{"longitude out of range", map[string]interface{}{"latitude": 0.0, "longitude": -181.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, stubAuth{})
			rec := app.do(t, http.MethodPost, "/api/v1/registros", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected 400", rec.Code)
			}

			rec = app.do(t, http.MethodGet, "/api/v1/registros", nil)
			if rows := decode[[]models.Observation](t, rec); len(rows) != 0 {
				t.Errorf("rejected submission was recorded anyway")
			}
		})
	}
}

func TestAveragesEndpoint(t *testing.T) {
	app := newTestApp(t, stubAuth{})

	app.do(t, http.MethodPost, "/api/v1/registros", map[string]interface{}{
		"latitude": -23.55, "longitude": -46.63,
		"gasolina": 5.49, "etanol": 0.0, "diesel": 6.10,
	})

	rec := app.do(t, http.MethodGet, "/api/v1/registros/medias", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("medias status = %d", rec.Code)
	}
	chart := decode[utils.ChartData](t, rec)

	// Zero etanol is filtered; single-record means equal the raw values.
	if len(chart.Labels) != 2 || chart.Labels[0] != "Diesel" || chart.Labels[1] != "Gasolina" {
		t.Fatalf("chart labels = %v, expected [Diesel Gasolina]", chart.Labels)
	}
	if len(chart.Datasets) != 1 {
		t.Fatalf("chart has %d datasets, expected 1", len(chart.Datasets))
	}
	data := chart.Datasets[0].Data
	if data[0] != 6.10 || data[1] != 5.49 {
		t.Errorf("means = %v, expected [6.10 5.49]", data)
	}
}

func TestGeoJSONEndpoint(t *testing.T) {
	app := newTestApp(t, stubAuth{})

	app.do(t, http.MethodPost, "/api/v1/registros", map[string]interface{}{
		"latitude": -23.55, "longitude": -46.63, "gasolina": 5.49,
	})

	rec := app.do(t, http.MethodGet, "/api/v1/registros/geojson", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("geojson status = %d", rec.Code)
	}

	type feature struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]interface{} `json:"properties"`
	}
	type featureCollection struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}
	fc := decode[featureCollection](t, rec)

	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("unexpected feature collection: %+v", fc)
	}
	f := fc.Features[0]
	if f.Geometry.Coordinates[0] != -46.63 || f.Geometry.Coordinates[1] != -23.55 {
		t.Errorf("feature at %v, expected [-46.63 -23.55]", f.Geometry.Coordinates)
	}
	if f.Properties["label"] != "Gasolina" {
		t.Errorf("feature label = %v, expected Gasolina", f.Properties["label"])
	}
}

func TestExportEndpoints(t *testing.T) {
	app := newTestApp(t, stubAuth{})
	app.do(t, http.MethodPost, "/api/v1/registros", map[string]interface{}{
		"latitude": -23.55, "longitude": -46.63, "gasolina": 5.49,
	})

	rec := app.do(t, http.MethodGet, "/api/v1/registros/export/csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("csv content type = %q", ct)
	}

	rec = app.do(t, http.MethodGet, "/api/v1/registros/export/xlsx", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx status = %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("xlsx export is empty")
	}
}
