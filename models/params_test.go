package models

import (
	"net/http/httptest"
	"testing"
)

func TestParseReportParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
		check   func(t *testing.T, p *ReportParams)
	}{
		{
			name:  "empty query filters nothing",
			query: "",
			check: func(t *testing.T, p *ReportParams) {
				if p.DataInicial != "" || p.DataFinal != "" || p.RaioKm != nil || len(p.Metricas) != 0 {
					t.Errorf("zero params expected, got %+v", p)
				}
			},
		},
		{
			name:  "canonical dates",
			query: "data_inicial=2024-01-10&data_final=2024-01-15",
			check: func(t *testing.T, p *ReportParams) {
				if p.DataInicial != "2024-01-10" || p.DataFinal != "2024-01-15" {
					t.Errorf("dates = %q..%q", p.DataInicial, p.DataFinal)
				}
			},
		},
		{
			name:  "brazilian dates are canonicalized",
			query: "data_inicial=10%2F01%2F2024",
			check: func(t *testing.T, p *ReportParams) {
				if p.DataInicial != "2024-01-10" {
					t.Errorf("data_inicial = %q, expected 2024-01-10", p.DataInicial)
				}
			},
		},
		{
			name:  "radius with reference point",
			query: "raio_km=25&lat=-23.55&lon=-46.63",
			check: func(t *testing.T, p *ReportParams) {
				if p.RaioKm == nil || *p.RaioKm != 25 {
					t.Fatalf("raio = %v", p.RaioKm)
				}
				if p.Ref == nil || p.Ref.Lat() != -23.55 || p.Ref.Lon() != -46.63 {
					t.Errorf("ref = %v", p.Ref)
				}
			},
		},
		{
			name:  "metric allow-set",
			query: "metricas=Gasolina,%20Diesel",
			check: func(t *testing.T, p *ReportParams) {
				if len(p.Metricas) != 2 || p.Metricas[0] != "Gasolina" || p.Metricas[1] != "Diesel" {
					t.Errorf("metricas = %v", p.Metricas)
				}
			},
		},
		{"garbage date", "data_inicial=alecrim", true, nil},
		{"radius without lat", "raio_km=10&lon=-46.63", true, nil},
		{"radius not numeric", "raio_km=perto&lat=0&lon=0", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/registros?"+tt.query, nil)
			p, err := ParseReportParams(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.check != nil {
				tt.check(t, p)
			}
		})
	}
}

func TestReportParamsValidate(t *testing.T) {
	neg := -1.0
	raio := 10.0

	t.Run("inverted range", func(t *testing.T) {
		p := &ReportParams{DataInicial: "2024-02-01", DataFinal: "2024-01-01"}
		if p.Validate() == nil {
			t.Error("inverted date range passed validation")
		}
	})

	t.Run("equal bounds are fine", func(t *testing.T) {
		p := &ReportParams{DataInicial: "2024-01-10", DataFinal: "2024-01-10"}
		if err := p.Validate(); err != nil {
			t.Errorf("single-day range rejected: %v", err)
		}
	})

	t.Run("negative radius", func(t *testing.T) {
		p := &ReportParams{RaioKm: &neg}
		if p.Validate() == nil {
			t.Error("negative radius passed validation")
		}
	})

	t.Run("radius without reference", func(t *testing.T) {
		p := &ReportParams{RaioKm: &raio}
		if p.Validate() == nil {
			t.Error("radius without reference point passed validation")
		}
	})
}
