// Package identity derives the durable visitor identifier and the
// session identifier used by page-view tracking.
package identity

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Storage slot names. Fixed so identifiers survive deploys.
const (
	VisitorKey = "visitor_id"
	SessionKey = "session_id"
)

// Store is the minimal key-value capability the derivation needs. The
// server backs it with cookies; tests and the CLI use MapStore.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Identity is a visitor/session pair plus the repeat-visitor flag.
type Identity struct {
	VisitorID string
	SessionID string
	// Repeat is true iff the visitor identifier existed in durable
	// storage before this derivation. It tracks the durable slot only:
	// a fresh session with an old visitor ID is still a repeat visit.
	Repeat bool
}

// Derive reads or creates the visitor and session identifiers. Storage
// is only written when a slot is empty; existing identifiers are never
// rotated here.
func Derive(durable, session Store) Identity {
	id := Identity{Repeat: true}

	v, ok := durable.Get(VisitorKey)
	if !ok || v == "" {
		v = NewToken()
		durable.Set(VisitorKey, v)
		id.Repeat = false
	}
	id.VisitorID = v

	s, ok := session.Get(SessionKey)
	if !ok || s == "" {
		s = NewToken()
		session.Set(SessionKey, s)
	}
	id.SessionID = s

	return id
}

// NewToken generates an opaque collision-resistant token. UUIDv4 when
// the system randomness source cooperates, a weaker pseudo-random
// string otherwise.
func NewToken() string {
	if u, err := uuid.NewRandom(); err == nil {
		return u.String()
	}
	return strconv.FormatUint(rand.Uint64(), 36) + strconv.FormatInt(time.Now().UnixNano(), 36)
}

// MapStore is an in-memory Store for tests and one-shot CLI runs.
type MapStore map[string]string

func (m MapStore) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapStore) Set(key, value string) {
	m[key] = value
}
