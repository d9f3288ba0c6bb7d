package models

import "time"

// Order is the session-scoped entity behind the login-gated panel. Unlike
// Observation it supports update and delete, and it is never persisted:
// orders live in the session store for the session's lifetime only.
type Order struct {
	ID         int       `json:"id"`
	Cliente    string    `json:"cliente"`
	Produto    string    `json:"produto"`
	Quantidade int       `json:"quantidade"`
	Valor      float64   `json:"valor"`
	CriadoEm   time.Time `json:"criadoEm"`
}
