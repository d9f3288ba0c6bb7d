package handlers

import (
	"postolog/middleware"
	"postolog/session"
	"postolog/store"
	"postolog/utils"
)

// Handler bundles the application state the endpoints operate on. It is
// built once at startup and passed to the router; nothing here is a
// package-level global.
type Handler struct {
	Store    *store.Store
	Sessions *session.Store
	GeoIP    *utils.GeoIPClient
	Auth     middleware.Authenticator
}

func New(st *store.Store, sessions *session.Store, geoip *utils.GeoIPClient, auth middleware.Authenticator) *Handler {
	return &Handler{
		Store:    st,
		Sessions: sessions,
		GeoIP:    geoip,
		Auth:     auth,
	}
}
