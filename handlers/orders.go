package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"postolog/middleware"
	"postolog/models"
	"postolog/session"
)

// The order panel is the one place with update/delete. Orders are scoped to
// the session and never persisted; logging out discards them.

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var orders []models.Order
	err := h.Sessions.Do(middleware.GetSessionID(r), func(s *session.Session) error {
		orders = append([]models.Order{}, s.Orders...)
		return nil
	})
	if err != nil {
		http.Error(w, "session not found", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var item models.Order
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if msg := validateOrder(&item); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	err := h.Sessions.Do(middleware.GetSessionID(r), func(s *session.Session) error {
		item = s.AddOrder(item)
		return nil
	})
	if err != nil {
		http.Error(w, "session not found", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var item models.Order
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if msg := validateOrder(&item); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	found := false
	err = h.Sessions.Do(middleware.GetSessionID(r), func(s *session.Session) error {
		item, found = s.UpdateOrder(id, item)
		return nil
	})
	if err != nil {
		http.Error(w, "session not found", http.StatusUnauthorized)
		return
	}
	if !found {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	found := false
	err = h.Sessions.Do(middleware.GetSessionID(r), func(s *session.Session) error {
		found = s.RemoveOrder(id)
		return nil
	})
	if err != nil {
		http.Error(w, "session not found", http.StatusUnauthorized)
		return
	}
	if !found {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validateOrder(o *models.Order) string {
	if o.Cliente == "" {
		return "cliente is required"
	}
	if o.Produto == "" {
		return "produto is required"
	}
	if o.Quantidade <= 0 {
		return "quantidade must be > 0"
	}
	if o.Valor < 0 {
		return "valor must be >= 0"
	}
	return ""
}
