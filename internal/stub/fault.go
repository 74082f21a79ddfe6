package stub

import (
	"net/http"
	"sync"
	"time"
)

// faultInjector degrades the stub on purpose so tests can exercise the
// client's error normalization and the views' stale-data behavior: fixed
// latency on every request, or a budget of forced failures.
type faultInjector struct {
	mu          sync.Mutex
	latency     time.Duration
	failBudget  int
	failStatus  int
	failMessage string
}

// InjectLatency delays every subsequent request by d. Zero disables it.
func (s *Server) InjectLatency(d time.Duration) {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	s.faults.latency = d
}

// FailNext forces the next n requests to fail with the given status and
// error message before reaching any handler.
func (s *Server) FailNext(n, status int, message string) {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	s.faults.failBudget = n
	s.faults.failStatus = status
	s.faults.failMessage = message
}

// middleware applies the configured faults.
func (f *faultInjector) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		latency := f.latency
		fail := false
		status := f.failStatus
		message := f.failMessage
		if f.failBudget > 0 {
			f.failBudget--
			fail = true
		}
		f.mu.Unlock()

		if latency > 0 {
			time.Sleep(latency)
		}
		if fail {
			writeError(w, status, message)
			return
		}
		next.ServeHTTP(w, r)
	})
}
