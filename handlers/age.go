package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"postolog/models"
)

// majorityAge is the Brazilian age of majority.
const majorityAge = 18

type ageReq struct {
	Dia int `json:"dia"`
	Mes int `json:"mes"`
	Ano int `json:"ano"`
}

type ageResp struct {
	Anos              int  `json:"anos"`
	Meses             int  `json:"meses"`
	Dias              int  `json:"dias"`
	MaiorDeIdade      bool `json:"maiorDeIdade"`
	AnosAteMaioridade int  `json:"anosAteMaioridade"`
}

// CalculateAge answers the birth-date form: full age breakdown plus the
// years remaining to majority. Malformed components come back as inline
// 400s; nothing is recorded either way.
func (h *Handler) CalculateAge(w http.ResponseWriter, r *http.Request) {
	var req ageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	now := time.Now().In(models.RecordZone)
	if msg := validateBirthDate(req, now); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	birth := time.Date(req.Ano, time.Month(req.Mes), req.Dia, 0, 0, 0, 0, models.RecordZone)
	anos, meses, dias := ageBreakdown(birth, now)

	resp := ageResp{
		Anos:         anos,
		Meses:        meses,
		Dias:         dias,
		MaiorDeIdade: anos >= majorityAge,
	}
	if anos < majorityAge {
		resp.AnosAteMaioridade = majorityAge - anos
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func validateBirthDate(req ageReq, now time.Time) string {
	if req.Ano < 1900 || req.Ano > now.Year() {
		return fmt.Sprintf("ano must be between 1900 and %d", now.Year())
	}
	if req.Mes < 1 || req.Mes > 12 {
		return "mes must be between 1 and 12"
	}
	if req.Dia < 1 || req.Dia > 31 {
		return "dia must be between 1 and 31"
	}
	// time.Date normalizes overflow (e.g. Feb 30 -> Mar 2), so a changed
	// day means the combination was not a real date.
	d := time.Date(req.Ano, time.Month(req.Mes), req.Dia, 0, 0, 0, 0, models.RecordZone)
	if d.Day() != req.Dia || d.Month() != time.Month(req.Mes) {
		return fmt.Sprintf("%02d/%02d/%d is not a valid date", req.Dia, req.Mes, req.Ano)
	}
	if d.After(now) {
		return "birth date cannot be in the future"
	}
	return ""
}

// ageBreakdown returns complete years, then leftover months and days.
func ageBreakdown(birth, now time.Time) (years, months, days int) {
	years = now.Year() - birth.Year()
	months = int(now.Month()) - int(birth.Month())
	days = now.Day() - birth.Day()

	if days < 0 {
		months--
		// days in the month before now
		prev := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location())
		days += prev.Day()
	}
	if months < 0 {
		years--
		months += 12
	}
	return years, months, days
}
