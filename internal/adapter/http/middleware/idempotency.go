package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/zeroedbooks/ledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks responses served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	maxIdempotencyKeyLength = 255
)

// IdempotencyMiddleware replays stored responses for repeated write requests. Keys
// are scoped per owner, so it must run after the auth middleware.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	replays func()
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}

	return &IdempotencyMiddleware{store: store, ttl: ttl, replays: func() {}}
}

// OnReplay registers a callback invoked for every replayed response.
func (m *IdempotencyMiddleware) OnReplay(fn func()) *IdempotencyMiddleware {
	m.replays = fn
	return m
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodDelete {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		if len(key) > maxIdempotencyKeyLength {
			writeError(w, http.StatusBadRequest, "idempotency key too long")
			return
		}

		owner, _ := OwnerFromContext(r.Context())
		scoped := owner + ":" + r.Method + ":" + key
		ctx := r.Context()

		stored, err := m.store.Reserve(ctx, scoped, m.ttl)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("idempotency check failed")
			writeError(w, http.StatusServiceUnavailable, "idempotency check failed")
			return
		}

		if stored != nil {
			if stored.Pending {
				writeError(w, http.StatusConflict, "request with this idempotency key is in progress")
				return
			}

			m.replays()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(IdempotencyReplayHeader, "true")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)

			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Server errors are not remembered so the client may retry.
		if recorder.statusCode >= http.StatusInternalServerError {
			if err := m.store.Release(ctx, scoped); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to release idempotency key")
			}

			return
		}

		err = m.store.Complete(ctx, scoped, usecase.IdempotentResponse{
			StatusCode: recorder.statusCode,
			Body:       recorder.body.Bytes(),
		}, m.ttl)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to store idempotent response")
		}
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
