package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/shopstack/commerce-core/internal/middleware"
)

// AuditEntry records one authenticated mutating request.
type AuditEntry struct {
	Time   time.Time `json:"time"`
	User   string    `json:"user"`
	Role   string    `json:"role"`
	Method string    `json:"method"`
	Path   string    `json:"path"`
	Status int       `json:"status"`
}

// AuditLog keeps a bounded in-memory trail of mutating requests. Recording is
// best-effort and never fails the request.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	max     int
}

// NewAuditLog creates an audit log retaining at most max entries.
func NewAuditLog(max int) *AuditLog {
	if max <= 0 {
		max = 200
	}
	return &AuditLog{max: max}
}

func (l *AuditLog) add(entry AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// Entries returns a snapshot of the recorded trail.
func (l *AuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// wrapWithAudit records authenticated mutating requests after they complete.
func wrapWithAudit(next http.Handler, audit *AuditLog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if r.Method == http.MethodGet {
			return
		}
		id, ok := middleware.IdentityFrom(r.Context())
		if !ok {
			return
		}
		audit.add(AuditEntry{
			Time:   time.Now().UTC(),
			User:   id.UserID,
			Role:   id.Role,
			Method: r.Method,
			Path:   r.URL.Path,
			Status: rec.status,
		})
	})
}
