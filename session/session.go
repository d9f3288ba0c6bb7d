// Package session holds per-session application state: the submission state
// machine, the resolved location, and the order panel's in-memory list.
// Nothing here is persisted; a session dies with the process or on logout.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"postolog/models"
)

// State is the submission lifecycle of a session. Transitions:
//
//	Idle/Displaying --submit(no location)--> AwaitingLocation
//	Idle/Displaying --submit(location)----> Submitting
//	AwaitingLocation --location resolved--> Submitting
//	AwaitingLocation --location denied----> AwaitingLocation (waits)
//	Submitting --record stored-----------> Displaying
type State int

const (
	StateIdle State = iota
	StateAwaitingLocation
	StateSubmitting
	StateDisplaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingLocation:
		return "awaiting_location"
	case StateSubmitting:
		return "submitting"
	case StateDisplaying:
		return "displaying"
	default:
		return "unknown"
	}
}

// ErrNotFound is returned for expired or unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one logged-in user's state. Mutate it only through Store.Do so
// the store's lock covers the change.
type Session struct {
	ID        uuid.UUID
	Username  string
	State     State
	Location  *orb.Point
	Orders    []models.Order
	CreatedAt time.Time

	nextOrderID int
}

// Submit moves the session toward recording an observation: straight to
// Submitting when a location is already known, otherwise AwaitingLocation.
func (s *Session) Submit() State {
	if s.Location != nil {
		s.State = StateSubmitting
	} else {
		s.State = StateAwaitingLocation
	}
	return s.State
}

// LocationResolved stores the coordinate and unblocks a pending submit.
func (s *Session) LocationResolved(p orb.Point) {
	s.Location = &p
	if s.State == StateAwaitingLocation {
		s.State = StateSubmitting
	}
}

// LocationDenied leaves the session waiting. Denial is never fatal; the
// client may retry or fall back to geo-IP on the next submit.
func (s *Session) LocationDenied() {
	s.Location = nil
}

// Recorded marks a completed insert.
func (s *Session) Recorded() {
	s.State = StateDisplaying
}

// AddOrder appends an order with a fresh session-local id.
func (s *Session) AddOrder(o models.Order) models.Order {
	s.nextOrderID++
	o.ID = s.nextOrderID
	o.CriadoEm = time.Now()
	s.Orders = append(s.Orders, o)
	return o
}

// UpdateOrder replaces the order with the given id, keeping id and creation
// time. Returns false when no such order exists.
func (s *Session) UpdateOrder(id int, o models.Order) (models.Order, bool) {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			o.ID = id
			o.CriadoEm = s.Orders[i].CriadoEm
			s.Orders[i] = o
			return o, true
		}
	}
	return models.Order{}, false
}

// RemoveOrder deletes the order with the given id. Returns false when no
// such order exists.
func (s *Session) RemoveOrder(id int) bool {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			s.Orders = append(s.Orders[:i], s.Orders[i+1:]...)
			return true
		}
	}
	return false
}

// Store keeps live sessions keyed by id. All access goes through the lock;
// sessions themselves carry no synchronization.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

// Create registers a new Idle session for username.
func (st *Store) Create(username string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := &Session{
		ID:        uuid.New(),
		Username:  username,
		State:     StateIdle,
		CreatedAt: time.Now(),
	}
	st.sessions[s.ID] = s
	return s
}

// Do runs fn on the session under the store lock.
func (st *Store) Do(id uuid.UUID, fn func(*Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return ErrNotFound
	}
	return fn(s)
}

// Delete drops the session and everything in it (orders included).
func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
