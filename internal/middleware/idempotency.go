package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/forgo/habitquest/internal/metrics"
)

// IdempotencyStore remembers responses to keyed mutating requests so a
// retried toggle is not applied twice
type IdempotencyStore struct {
	mu       sync.Mutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	now      func() time.Time
	stopOnce sync.Once
	stopChan chan struct{}
}

type idempotencyEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	done      chan struct{} // closed once the first request finishes
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // How long responses are replayed (default 24h)
	Cleanup time.Duration // Sweep interval (default 1h)
}

// NewIdempotencyStore creates a store and starts its sweeper
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup <= 0 {
		cfg.Cleanup = time.Hour
	}

	s := &IdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go s.sweepLoop(cfg.Cleanup)
	return s
}

// Stop ends the sweeper. Safe to call more than once.
func (s *IdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *IdempotencyStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if e.finished() && e.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

func (e *idempotencyEntry) finished() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// claim returns the entry for key and whether the caller owns it. A caller
// that does not own the entry must wait on done before replaying.
func (s *IdempotencyStore) claim(key string) (*idempotencyEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		if !e.finished() || e.expiresAt.After(s.now()) {
			return e, false
		}
	}
	e := &idempotencyEntry{done: make(chan struct{})}
	s.entries[key] = e
	return e, true
}

// finish records the response. Server errors are forgotten so the client
// can retry after a failed store write.
func (s *IdempotencyStore) finish(key string, e *idempotencyEntry, rec *recordingWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.status = rec.status
	e.headers = rec.Header().Clone()
	e.body = rec.body.Bytes()
	e.expiresAt = s.now().Add(s.ttl)
	if rec.status >= http.StatusInternalServerError && s.entries[key] == e {
		delete(s.entries, key)
	}
	close(e.done)
}

func fingerprint(ownerID, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	for _, part := range []string{ownerID, idempotencyKey, method, path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// recordingWriter tees the response into a buffer
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func replay(w http.ResponseWriter, e *idempotencyEntry) {
	for k, v := range e.headers {
		w.Header()[k] = append([]string(nil), v...)
	}
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(e.status)
	_, _ = w.Write(e.body)
	metrics.HTTPIdempotentReplays.Inc()
}

// Idempotency replays responses for POST, PATCH and DELETE requests carrying
// an Idempotency-Key header. Keys are scoped to the owner, route and body.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPatch, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get("Idempotency-Key")
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			ownerID := GetOwnerID(r.Context())
			if ownerID == "" {
				ownerID = clientAddr(r)
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := fingerprint(ownerID, idempotencyKey, r.Method, r.URL.Path, body)

			for {
				entry, owned := store.claim(key)
				if owned {
					rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
					next.ServeHTTP(rec, r)
					store.finish(key, entry, rec)
					return
				}

				select {
				case <-entry.done:
				case <-r.Context().Done():
					return
				}
				if entry.status < http.StatusInternalServerError {
					replay(w, entry)
					return
				}
				// first attempt failed; try to claim again
			}
		})
	}
}
