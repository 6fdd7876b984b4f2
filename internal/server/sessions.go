package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"monarch-says/internal/db"

	"gorm.io/gorm"
)

const sessionCookie = "ms_session"

// renewThreshold is how much remaining lifetime triggers a rolling renewal.
const renewThreshold = 15 * 24 * time.Hour

// sessionStore maps session tokens to player IDs. The cookie carries the raw
// token; only its SHA-256 digest is ever stored, in memory or in the
// database.
type sessionStore struct {
	db       *gorm.DB
	lifetime time.Duration
	mu       sync.Mutex
	sessions map[string]sessionData
}

type sessionData struct {
	PlayerID  string
	ExpiresAt time.Time
}

func newSessionStore(conn *gorm.DB, lifetime time.Duration) *sessionStore {
	return &sessionStore{
		db:       conn,
		lifetime: lifetime,
		sessions: make(map[string]sessionData),
	}
}

// Issue binds a fresh session to the player and sets the cookie.
func (s *sessionStore) Issue(w http.ResponseWriter, playerID string) error {
	token, err := newSessionToken()
	if err != nil {
		return err
	}
	id := hashToken(token)
	expires := time.Now().UTC().Add(s.lifetime)
	if s.db == nil {
		s.mu.Lock()
		s.sessions[id] = sessionData{PlayerID: playerID, ExpiresAt: expires}
		s.mu.Unlock()
	} else {
		record := db.Session{ID: id, PlayerID: playerID, ExpiresAt: expires}
		if err := s.db.Save(&record).Error; err != nil {
			return err
		}
	}
	setSessionCookie(w, token, expires)
	return nil
}

// PlayerID resolves the request's session to a player. Sessions past their
// expiry are treated as absent; sessions in their final stretch are renewed
// in place with a refreshed cookie.
func (s *sessionStore) PlayerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	id := hashToken(cookie.Value)
	now := time.Now().UTC()

	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		data, ok := s.sessions[id]
		if !ok || now.After(data.ExpiresAt) {
			delete(s.sessions, id)
			return "", false
		}
		if data.ExpiresAt.Sub(now) < renewThreshold {
			data.ExpiresAt = now.Add(s.lifetime)
			s.sessions[id] = data
			setSessionCookie(w, cookie.Value, data.ExpiresAt)
		}
		return data.PlayerID, true
	}

	var record db.Session
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		return "", false
	}
	if now.After(record.ExpiresAt) {
		s.db.Delete(&record)
		return "", false
	}
	if record.ExpiresAt.Sub(now) < renewThreshold {
		record.ExpiresAt = now.Add(s.lifetime)
		if err := s.db.Save(&record).Error; err == nil {
			setSessionCookie(w, cookie.Value, record.ExpiresAt)
		}
	}
	return record.PlayerID, true
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func newSessionToken() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
