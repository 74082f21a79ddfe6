package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	backend *Server
	srv     *httptest.Server
	hc      *http.Client
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{backend: backend, srv: srv, hc: &http.Client{Jar: jar}}
}

func (e *testEnv) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := e.hc.Post(e.srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) seedAndLogin(t *testing.T, email, password string) {
	t.Helper()
	resp := e.post(t, "/dev/seed", nil)
	require.Equal(t, 200, resp.StatusCode)
	resp = e.post(t, "/auth/login", map[string]string{"email": email, "password": password})
	require.Equal(t, 200, resp.StatusCode)
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func (e *testEnv) firstCopyID(t *testing.T) string {
	t.Helper()
	resp, err := e.hc.Get(e.srv.URL + "/copies")
	require.NoError(t, err)
	defer resp.Body.Close()
	var copies []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&copies))
	require.NotEmpty(t, copies)
	return copies[0].ID
}

func TestLoansRequireAuth(t *testing.T) {
	e := newEnv(t)
	resp := e.post(t, "/loans", map[string]string{"copia_id": "x", "fecha_vencimiento": "2999-01-01"})
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLoanDueDateFloor(t *testing.T) {
	e := newEnv(t)
	e.seedAndLogin(t, "ana@example.com", "ana12345")

	resp := e.post(t, "/loans", map[string]string{
		"copia_id":          e.firstCopyID(t),
		"fecha_vencimiento": "2020-01-01",
	})
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, errorMessage(t, resp), "fecha de vencimiento")
}

func TestAssistedLoanNeedsElevatedRole(t *testing.T) {
	e := newEnv(t)
	e.seedAndLogin(t, "ana@example.com", "ana12345")

	resp := e.post(t, "/loans", map[string]string{
		"copia_id":          e.firstCopyID(t),
		"fecha_vencimiento": time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"socio_id":          "someone-else",
	})
	assert.Equal(t, 403, resp.StatusCode)
}

func TestRejectReasonLength(t *testing.T) {
	e := newEnv(t)
	e.seedAndLogin(t, "admin@bookbuster.dev", "admin123")

	resp, err := e.hc.Get(e.srv.URL + "/solicitudes")
	require.NoError(t, err)
	var reqs []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reqs))
	resp.Body.Close()
	require.NotEmpty(t, reqs)

	short := e.post(t, "/solicitudes/"+reqs[0].ID+"/reject", map[string]string{"motivo": " ab "})
	assert.Equal(t, 400, short.StatusCode)

	ok := e.post(t, "/solicitudes/"+reqs[0].ID+"/reject", map[string]string{"motivo": "Datos incompletos"})
	assert.Equal(t, 200, ok.StatusCode)

	again := e.post(t, "/solicitudes/"+reqs[0].ID+"/reject", map[string]string{"motivo": "Datos incompletos"})
	assert.Equal(t, 409, again.StatusCode, "a decided request cannot be decided again")
}

func TestSeedIsIdempotent(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/dev/seed", nil)
	var first struct {
		Created bool `json:"created"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	assert.True(t, first.Created)

	resp = e.post(t, "/dev/seed", nil)
	var second struct {
		Created bool `json:"created"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	assert.False(t, second.Created)
}

func TestFailNextBudget(t *testing.T) {
	e := newEnv(t)
	e.backend.FailNext(2, 503, "mantenimiento")

	for i := 0; i < 2; i++ {
		resp, err := e.hc.Get(e.srv.URL + "/books")
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Equal(t, "mantenimiento", errorMessage(t, resp))
		resp.Body.Close()
	}

	resp, err := e.hc.Get(e.srv.URL + "/books")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestInjectedLatency(t *testing.T) {
	e := newEnv(t)
	e.backend.InjectLatency(60 * time.Millisecond)

	start := time.Now()
	resp, err := e.hc.Get(e.srv.URL + "/books")
	require.NoError(t, err)
	resp.Body.Close()
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)

	e.backend.InjectLatency(0)
}
