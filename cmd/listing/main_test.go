package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const candidatesYAML = `
candidates:
  - kind: prosecution_case
    source_id: case-1
    next_hearing:
      hearing_type_id: trial
      court_location: B01LY00
      booking_reference: ref-2
      estimated_minutes: 30
    referral:
      notice_date: "2024-01-10"
      referral_date: "2024-01-20"
    prosecution_case:
      id: pc-1
      defendants:
        - id: def-1
          offences:
            - id: off-1
              code: TH68001
  - kind: court_application
    source_id: app-1
    next_hearing:
      hearing_type_id: sentence
      court_location: B01LY00
    court_application:
      id: ca-1
  - kind: prosecution_case
    source_id: case-2
    next_hearing:
      hearing_type_id: trial
      court_location: B01LY00
      booking_reference: ref-1
      estimated_minutes: 90
    prosecution_case:
      id: pc-2
`

const slotsYAML = `
ref-1: [cs-1]
ref-2: [cs-9, cs-1]
`

const courtsYAML = `
off-1:
  court_house_code: B01LY00
  court_house_name: Lavender Hill
`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LISTING_SQLITE_DSN", filepath.Join(dir, "listing.db"))
	t.Setenv("LISTING_LOG_LEVEL", "error")
	t.Setenv("LISTING_LOG_FORMAT", "json")
	t.Setenv("LISTING_COMMITTING_COURTS_FILE", "")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand(&stdout, &stderr)
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestEarliestDateCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "earliest-date", "--notice", "2024-01-10", "--referral", "2024-01-20")
	require.NoError(t, err)

	var got earliestDateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "2024-02-07", got.EarliestHearingDate)
	assert.Equal(t, "2024-01-10", got.NoticeDate)

	_, err = execute(t, "earliest-date", "--notice", "10/01/2024", "--referral", "2024-01-20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--notice")
}

func TestAssembleCommand_FromFiles(t *testing.T) {
	dir := setupEnv(t)
	candidates := writeFile(t, dir, "candidates.yaml", candidatesYAML)
	slots := writeFile(t, dir, "slots.yaml", slotsYAML)
	courts := writeFile(t, dir, "courts.yaml", courtsYAML)

	out, err := execute(t, "assemble", "--candidates", candidates, "--slots", slots, "--courts", courts)
	require.NoError(t, err)

	var got assembleOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.ListingNeeds, 2)

	trial := got.ListingNeeds[0]
	assert.Equal(t, []string{"case-1", "case-2"}, trial.SourceIDs)
	require.NotNil(t, trial.BookingReference)
	assert.Equal(t, "ref-1", *trial.BookingReference)
	assert.Equal(t, 90, trial.EstimatedMinutes)
	require.NotNil(t, trial.EarliestHearingDate)
	assert.Equal(t, "2024-02-07", *trial.EarliestHearingDate)
	require.Len(t, trial.ProsecutionCases, 2)
	court := trial.ProsecutionCases[0].Defendants[0].Offences[0].CommittingCourt
	require.NotNil(t, court)
	assert.Equal(t, "Lavender Hill", court.CourtHouseName)

	assert.Equal(t, []string{"app-1"}, got.ListingNeeds[1].SourceIDs)
	assert.NotEqual(t, trial.ID, got.ListingNeeds[1].ID)
}

func TestAssembleCommand_RejectsInvalidCandidates(t *testing.T) {
	dir := setupEnv(t)
	candidates := writeFile(t, dir, "candidates.yaml", `
- kind: prosecution_case
  source_id: case-1
  next_hearing:
    week_commencing_date: "next week"
  prosecution_case: {id: pc-1}
`)
	slots := writeFile(t, dir, "slots.yaml", "{}\n")

	_, err := execute(t, "assemble", "--candidates", candidates, "--slots", slots)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidates[0].next_hearing.week_commencing_date")
}

func TestAssembleCommand_RequiresSource(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "assemble")
	require.Error(t, err)

	_, err = execute(t, "assemble", "--candidates", "a.yaml", "--batch", "b")
	require.Error(t, err)
}

func TestAssembleCommand_UnknownBatch(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "assemble", "--batch", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMigrateCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "migrate", "--status")
	require.NoError(t, err)
	var before migrationStatusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &before))
	assert.Empty(t, before.Applied)
	assert.NotEmpty(t, before.Pending)

	out, err = execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "applied")

	out, err = execute(t, "migrate", "--status")
	require.NoError(t, err)
	var after migrationStatusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &after))
	assert.Len(t, after.Applied, len(before.Pending))
	assert.Empty(t, after.Pending)
}

func TestServe_WiresRouter(t *testing.T) {
	setupEnv(t)

	var stdout, stderr bytes.Buffer
	c := &cli{stdout: &stdout, stderr: &stderr}
	require.NoError(t, c.loadConfig())

	server, cleanup, err := c.newServer(context.Background())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	assert.Equal(t, ":8080", server.Addr)

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/earliest-hearing-date?notice_date=2024-01-10&referral_date=2024-01-20", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2024-02-07")

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "listing_http_requests_total")
}
