package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/medcabinet/reserve-engine/api"
	"github.com/medcabinet/reserve-engine/logging"
	"github.com/medcabinet/reserve-engine/rational"
	"github.com/medcabinet/reserve-engine/reserve"
	"github.com/medcabinet/reserve-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testToken = "sesame"

func newTestServer(t *testing.T, drugs ...reserve.Drug) (*httptest.Server, *reserve.Store) {
	t.Helper()

	store, err := reserve.Open(context.Background(), memory.New(drugs...))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	engine := reserve.Engine{MinWeeks: 3}
	profiles := map[string][]string{
		"compact": {"trade-name", "remaining", "replenish"},
	}
	h := api.NewHandler(store, engine, profiles, logging.New("dev"))

	srv := httptest.NewServer(api.NewRouter(h, []string{testToken}))
	t.Cleanup(srv.Close)
	return srv, store
}

func testDrug(name, daily, remaining string, show bool) reserve.Drug {
	return reserve.Drug{
		TradeName:     name,
		Remaining:     rational.MustParse(remaining),
		DosageMorning: rational.MustParse(daily),
		Show:          show,
	}
}

func getOverview(t *testing.T, srv *httptest.Server, query string) api.OverviewDTO {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/overview?token=" + testToken + query)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("overview status = %d", resp.StatusCode)
	}

	var overview api.OverviewDTO
	if err := json.NewDecoder(resp.Body).Decode(&overview); err != nil {
		t.Fatal(err)
	}
	return overview
}

func postAction(t *testing.T, srv *httptest.Server, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.Post(
		srv.URL+"/api/actions?token="+testToken,
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// =============================================================================
// OVERVIEW
// =============================================================================

func TestOverview_FiltersHiddenDrugs(t *testing.T) {
	srv, _ := newTestServer(t,
		testDrug("Shown", "1", "14", true),
		testDrug("Hidden", "1", "14", false),
	)

	overview := getOverview(t, srv, "")
	if len(overview.DrugsToDisplay) != 1 {
		t.Fatalf("expected 1 displayed drug, got %d", len(overview.DrugsToDisplay))
	}
	if overview.DrugsToDisplay[0].Drug.TradeName != "Shown" {
		t.Errorf("wrong drug displayed: %s", overview.DrugsToDisplay[0].Drug.TradeName)
	}
	// Index refers to the store position, so the mutation endpoint still
	// addresses the right drug when earlier rows are hidden.
	if overview.DrugsToDisplay[0].Index != 0 {
		t.Errorf("index = %d, want 0", overview.DrugsToDisplay[0].Index)
	}
}

func TestOverview_ProjectionAndUrgency(t *testing.T) {
	// daily 1, remaining 14 -> 2 weeks; threshold 3 -> replenish-soon
	srv, _ := newTestServer(t, testDrug("Bisoprolol", "1", "14", true))

	overview := getOverview(t, srv, "")
	row := overview.DrugsToDisplay[0]
	if row.RemainingWeeks == nil || *row.RemainingWeeks != 2 {
		t.Fatalf("remaining_weeks = %v, want 2", row.RemainingWeeks)
	}
	if row.Urgency != string(reserve.UrgencySoon) {
		t.Errorf("urgency = %q, want %q", row.Urgency, reserve.UrgencySoon)
	}
	if overview.MinWeeksPerPrescription != 3 {
		t.Errorf("min_weeks_per_prescription = %d, want 3", overview.MinWeeksPerPrescription)
	}
}

func TestOverview_QuantitiesAreExactStrings(t *testing.T) {
	srv, _ := newTestServer(t, testDrug("Levothyroxin", "1/2", "41/2", true))

	row := getOverview(t, srv, "").DrugsToDisplay[0]
	if row.Drug.Remaining.Exact != "41/2" {
		t.Errorf("exact = %q, want 41/2", row.Drug.Remaining.Exact)
	}
	if row.Drug.Remaining.Display != "20½" {
		t.Errorf("display = %q, want 20½", row.Drug.Remaining.Display)
	}
}

func TestOverview_ColumnProfiles(t *testing.T) {
	srv, _ := newTestServer(t, testDrug("A", "1", "7", true))

	// Known profile
	overview := getOverview(t, srv, "&columns=compact")
	if len(overview.ProfileColumns) != 3 {
		t.Errorf("compact profile: got %v", overview.ProfileColumns)
	}

	// Unknown profile falls back to the default column list
	overview = getOverview(t, srv, "&columns=nonsense")
	if len(overview.ProfileColumns) != len(api.DefaultColumns()) {
		t.Errorf("fallback: got %v", overview.ProfileColumns)
	}
}

func TestOverview_HideUIFlag(t *testing.T) {
	srv, _ := newTestServer(t, testDrug("A", "1", "7", true))

	if getOverview(t, srv, "").HideUI {
		t.Error("hide_ui must default to false")
	}
	if !getOverview(t, srv, "&hide-ui=1").HideUI {
		t.Error("hide-ui=1 must set the flag")
	}
}

// =============================================================================
// ACTIONS
// =============================================================================

func TestAction_Replenish(t *testing.T) {
	srv, store := newTestServer(t, testDrug("A", "1", "7", true))

	resp := postAction(t, srv, url.Values{
		"do":         {"replenish"},
		"drug-index": {"0"},
		"amount":     {"5/2"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	got := store.Snapshot()[0].Remaining
	if !got.Equal(rational.MustParse("19/2")) {
		t.Errorf("remaining = %s, want 19/2", got)
	}
}

func TestAction_TakeDays(t *testing.T) {
	srv, store := newTestServer(t, testDrug("A", "1/2", "20", true))

	resp := postAction(t, srv, url.Values{"do": {"take-days"}, "days": {"7"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	got := store.Snapshot()[0].Remaining
	if !got.Equal(rational.MustParse("33/2")) {
		t.Errorf("remaining = %s, want 33/2", got)
	}
}

func TestAction_BadRequests(t *testing.T) {
	srv, store := newTestServer(t, testDrug("A", "1", "7", true))

	cases := []struct {
		name string
		form url.Values
	}{
		{"missing do", url.Values{}},
		{"unknown do", url.Values{"do": {"explode"}}},
		{"missing index", url.Values{"do": {"replenish"}, "amount": {"1"}}},
		{"index not a number", url.Values{"do": {"replenish"}, "drug-index": {"x"}, "amount": {"1"}}},
		{"index out of range", url.Values{"do": {"replenish"}, "drug-index": {"9"}, "amount": {"1"}}},
		{"missing amount", url.Values{"do": {"replenish"}, "drug-index": {"0"}}},
		{"unparseable amount", url.Values{"do": {"replenish"}, "drug-index": {"0"}, "amount": {"pills"}}},
		{"negative amount", url.Values{"do": {"replenish"}, "drug-index": {"0"}, "amount": {"-1"}}},
		{"missing days", url.Values{"do": {"take-days"}}},
		{"zero days", url.Values{"do": {"take-days"}, "days": {"0"}}},
		{"negative days", url.Values{"do": {"take-days"}, "days": {"-3"}}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp := postAction(t, srv, c.form)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}

	// Nothing above may have touched the stock.
	if got := store.Snapshot()[0].Remaining; !got.Equal(rational.MustParse("7")) {
		t.Errorf("remaining = %s, want unchanged 7", got)
	}
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

func TestAuth_TokenRequired(t *testing.T) {
	srv, _ := newTestServer(t, testDrug("A", "1", "7", true))

	for _, u := range []string{
		srv.URL + "/api/overview",
		srv.URL + "/api/overview?token=wrong",
	} {
		resp, err := http.Get(u)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("GET %s: status = %d, want 403", u, resp.StatusCode)
		}
	}

	// Mutations are guarded too.
	resp, err := http.Post(srv.URL+"/api/actions", "application/x-www-form-urlencoded",
		strings.NewReader("do=take-days&days=1"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("unauthenticated POST: status = %d, want 403", resp.StatusCode)
	}
}

func TestAuth_HealthAndMetricsOpen(t *testing.T) {
	srv, _ := newTestServer(t, testDrug("A", "1", "7", true))

	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: status = %d, want 200", path, resp.StatusCode)
		}
	}
}

// =============================================================================
// COLUMN PROFILE VALIDATION
// =============================================================================

func TestValidateProfiles(t *testing.T) {
	if err := api.ValidateProfiles(map[string][]string{
		"ok": {"trade-name", "remaining"},
	}); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}

	if err := api.ValidateProfiles(map[string][]string{
		"bad": {"trade-name", "no-such-column"},
	}); err == nil {
		t.Error("unknown column tag must be rejected")
	}
}
