package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"querypulse/internal/domain"
)

// runCommand executes the root command with args, capturing stdout. Commands
// print to os.Stdout directly, so the test swaps the file descriptor.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	root := newRootCmd()
	root.SetArgs(args)
	execErr := root.Execute()

	_ = w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), execErr
}

func newFakeAPI(t *testing.T, records []domain.QueryRecord) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/api/v1/databases", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []domain.Connection{{ID: "db-1", Name: "orders-prod", Type: domain.ConnectionPostgres, Host: "db.internal", Port: 5432, DatabaseName: "orders", ConnectionStatus: "connected"}})
	})
	mux.HandleFunc("/api/v1/databases/db-1/queries/slow", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, records)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testRecords() []domain.QueryRecord {
	now := time.Now()
	return []domain.QueryRecord{
		{ID: "q-1", SQLText: "SELECT * FROM orders", ExecutionTimeMS: 5400, Status: domain.QueryStatusSlow, Timestamp: now.Add(-10 * time.Minute)},
		{ID: "q-2", SQLText: "SELECT id FROM users", ExecutionTimeMS: 80, Status: domain.QueryStatusNormal, Timestamp: now.Add(-20 * time.Minute)},
		{ID: "q-3", SQLText: "UPDATE carts SET total = 0", ExecutionTimeMS: 2100, Status: domain.QueryStatusSlow, Timestamp: now.Add(-40 * 24 * time.Hour)},
	}
}

func TestQueriesListTableOutput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeAPI(t, testRecords())

	out, err := runCommand(t, "--host", srv.URL, "queries", "list", "--db", "db-1")
	require.NoError(t, err)

	assert.Contains(t, out, "SELECT * FROM orders")
	assert.Contains(t, out, "SELECT id FROM users")
	assert.NotContains(t, out, "UPDATE carts", "records outside the 24h window are dropped")
	assert.Contains(t, out, "Page 1 of 1 (2 matched)")
}

func TestQueriesListStatusFilter(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeAPI(t, testRecords())

	out, err := runCommand(t, "--host", srv.URL, "queries", "list", "--db", "db-1", "--status", "slow")
	require.NoError(t, err)

	assert.Contains(t, out, "SELECT * FROM orders")
	assert.NotContains(t, out, "SELECT id FROM users")
}

func TestQueriesListJSONOutput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeAPI(t, testRecords())

	out, err := runCommand(t, "--host", srv.URL, "-o", "json", "queries", "list", "--db", "db-1", "--sort", "execution_time", "--direction", "desc")
	require.NoError(t, err)

	var payload struct {
		Items      []domain.QueryRecord `json:"items"`
		TotalCount int                  `json:"total_count"`
		Page       int                  `json:"page"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Items, 2)
	assert.Equal(t, "q-1", payload.Items[0].ID, "slowest first under desc")
	assert.Equal(t, 2, payload.TotalCount)
	assert.Equal(t, 1, payload.Page)
}

func TestQueriesListRequiresDatabase(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := runCommand(t, "queries", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database selected")
}

func TestQueriesListRejectsBadFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeAPI(t, testRecords())

	_, err := runCommand(t, "--host", srv.URL, "queries", "list", "--db", "db-1", "--status", "broken")
	assert.Error(t, err)

	_, err = runCommand(t, "--host", srv.URL, "queries", "list", "--db", "db-1", "--page-size", "33")
	assert.Error(t, err)

	_, err = runCommand(t, "--host", srv.URL, "queries", "list", "--db", "db-1", "--max-ms", "99999")
	assert.Error(t, err)
}

func TestDBListOutput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeAPI(t, nil)

	out, err := runCommand(t, "--host", srv.URL, "db", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "orders-prod")
	assert.Contains(t, out, "db.internal:5432")
	assert.Contains(t, out, "connected")
}

func TestHostEnvPrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeAPI(t, nil)
	t.Setenv("QPULSE_HOST", srv.URL)

	out, err := runCommand(t, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
}

func TestHostFlagBeatsEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeAPI(t, nil)
	t.Setenv("QPULSE_HOST", "http://127.0.0.1:1")

	out, err := runCommand(t, "--host", srv.URL, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
}

func TestProfileDatabaseUsedAsDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := newFakeAPI(t, testRecords())
	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles:       map[string]Profile{"default": {Database: "db-1"}},
	}))

	out, err := runCommand(t, "--host", srv.URL, "queries", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT * FROM orders")
}

func TestRejectsUnknownOutputFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := runCommand(t, "-o", "yaml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "qpulse")
}
