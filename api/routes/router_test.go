package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/angelmondragon/haulmarket/internal/matching"
	"github.com/angelmondragon/haulmarket/internal/pricing"
	"github.com/angelmondragon/haulmarket/pkg/config"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/pagination"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubMatching struct {
	found       []listings.Listing
	lastInput   matching.CandidateInput
	replacement *uuid.UUID
	applied     []bool
}

func (s *stubMatching) GetCandidates(_ context.Context, input matching.CandidateInput) ([]listings.Listing, error) {
	s.lastInput = input
	return s.found, nil
}

func (s *stubMatching) Rematch(_ context.Context, _ uuid.UUID, apply bool) (*uuid.UUID, error) {
	s.applied = append(s.applied, apply)
	return s.replacement, nil
}

type stubPricing struct {
	breakdown *pricing.Breakdown
	err       error
	lastInput pricing.QuoteInput
}

func (s *stubPricing) Quote(_ context.Context, input pricing.QuoteInput) (*pricing.Breakdown, error) {
	s.lastInput = input
	return s.breakdown, s.err
}

func (s *stubPricing) QuoteOrderGroup(context.Context, uuid.UUID, bool) (*pricing.Breakdown, error) {
	return s.breakdown, s.err
}

type stubListings struct {
	listings.Repository
	byStatus map[listings.Status][]listings.Listing
}

func (s stubListings) ListByStatus(_ context.Context, status listings.Status, page pagination.Params) (pagination.Page[listings.Listing], error) {
	return pagination.Trim(s.byStatus[status], page.Limit, func(l listings.Listing) pagination.Cursor {
		return pagination.Cursor{CreatedAt: l.CreatedAt, ID: l.ID}
	}), nil
}

type fakeIdempotency struct {
	data map[string]string
}

func (f *fakeIdempotency) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", errors.New("unexpected miss type")
}

func (f *fakeIdempotency) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key], _ = value.(string)
	return nil
}

func (f *fakeIdempotency) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.data[key], _ = value.(string)
	return true, nil
}

func (f *fakeIdempotency) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeIdempotency) IdempotencyKey(scope, key string) string {
	return scope + ":" + key
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test", CORSOrigins: []string{"http://localhost:3000"}}}
}

func flatRateListing() listings.Listing {
	return listings.Listing{
		ID:          uuid.New(),
		Active:      true,
		MainProduct: listings.MainProduct{ID: uuid.New(), HasService: true, DefaultTakeRate: decimal.NewFromInt(30)},
		Service:     listings.ServiceMileage{FlatRate: decimal.NewNullDecimal(decimal.NewFromInt(150))},
	}
}

type routerFixture struct {
	matching *stubMatching
	pricing  *stubPricing
	handler  http.Handler
}

func newFixture(t *testing.T, dbErr error) routerFixture {
	t.Helper()
	m := &stubMatching{found: []listings.Listing{flatRateListing()}}
	p := &stubPricing{}
	repo := stubListings{byStatus: map[listings.Status][]listings.Listing{
		listings.StatusNeedsAttention: {flatRateListing()},
	}}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	h := NewRouter(testConfig(), nil, stubPinger{err: dbErr}, nil, nil, metrics, repo, m, p)
	return routerFixture{matching: m, pricing: p, handler: h}
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()
	var env struct {
		Data any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env.Data
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return env.Error.Code
}

func TestHealthRoutes(t *testing.T) {
	f := newFixture(t, nil)

	rec := serve(f.handler, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Haulmarket-Env") != "test" {
		t.Fatalf("expected env header")
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected generated request id")
	}

	rec = serve(f.handler, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
	checks := decodeData(t, rec).(map[string]any)["checks"].(map[string]any)
	if checks["database"] != "up" || checks["redis"] != "disabled" {
		t.Fatalf("unexpected checks %v", checks)
	}

	down := newFixture(t, errors.New("connection refused"))
	rec = serve(down.handler, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready with db down: expected 503, got %d", rec.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	f := newFixture(t, nil)
	rec := serve(f.handler, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "# metrics" {
		t.Fatalf("unexpected metrics response %d %q", rec.Code, rec.Body.String())
	}
}

func TestMatchingCandidatesRoute(t *testing.T) {
	f := newFixture(t, nil)
	productID := uuid.New()

	rec := serve(f.handler, http.MethodPost, "/api/v1/matching/candidates",
		`{"product_id":"`+productID.String()+`","latitude":30.2672,"longitude":-97.7431}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.matching.lastInput.ProductID != productID || f.matching.lastInput.Location == nil {
		t.Fatalf("unexpected input %+v", f.matching.lastInput)
	}
	views := decodeData(t, rec).([]any)
	raw := views[0].(map[string]any)["service"].(map[string]any)["flat_rate_price"]
	if raw != "150" {
		t.Fatalf("expected raw supplier rate, got %v", raw)
	}

	rec = serve(f.handler, http.MethodPost, "/api/v1/matching/candidates",
		`{"product_id":"`+productID.String()+`","latitude":30.2672,"longitude":-97.7431,"apply_take_rate":true}`)
	views = decodeData(t, rec).([]any)
	adjusted := views[0].(map[string]any)["service"].(map[string]any)["flat_rate_price"]
	if adjusted != "195" {
		t.Fatalf("expected marked up rate, got %v", adjusted)
	}
}

func TestMatchingCandidatesRejectsHalfCoordinates(t *testing.T) {
	f := newFixture(t, nil)
	rec := serve(f.handler, http.MethodPost, "/api/v1/matching/candidates",
		`{"product_id":"`+uuid.NewString()+`","latitude":30.2672}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestPricingQuoteRoute(t *testing.T) {
	f := newFixture(t, nil)
	listingID := uuid.New()
	f.pricing.breakdown = &pricing.Breakdown{ListingID: listingID, Total: decimal.RequireFromString("786.5")}

	body := `{"listing_id":"` + listingID.String() + `","latitude":30.2672,"longitude":-97.7431,` +
		`"start_date":"2024-06-01T00:00:00Z","end_date":"2024-06-06T00:00:00Z","shift_count":2,"customer_facing":true}`
	rec := serve(f.handler, http.MethodPost, "/api/v1/pricing/quote", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !f.pricing.lastInput.CustomerFacing || f.pricing.lastInput.ShiftCount == nil || *f.pricing.lastInput.ShiftCount != 2 {
		t.Fatalf("unexpected input %+v", f.pricing.lastInput)
	}
	if total := decodeData(t, rec).(map[string]any)["total"]; total != "786.5" {
		t.Fatalf("unexpected total %v", total)
	}

	rec = serve(f.handler, http.MethodPost, "/api/v1/pricing/quote", strings.Replace(body, `"shift_count":2`, `"shift_count":4`, 1))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("shift count 4: expected 400, got %d", rec.Code)
	}
}

func TestPricingQuoteIncompleteListingIsNull(t *testing.T) {
	f := newFixture(t, nil)
	body := `{"listing_id":"` + uuid.NewString() + `","user_address_id":"` + uuid.NewString() + `",` +
		`"start_date":"2024-06-01T00:00:00Z","end_date":"2024-06-06T00:00:00Z"}`
	rec := serve(f.handler, http.MethodPost, "/api/v1/pricing/quote", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if data := decodeData(t, rec); data != nil {
		t.Fatalf("expected null breakdown, got %v", data)
	}
}

func TestOrderGroupRoutes(t *testing.T) {
	f := newFixture(t, nil)
	replacement := uuid.New()
	f.matching.replacement = &replacement
	ogID := uuid.NewString()

	rec := serve(f.handler, http.MethodPost, "/api/v1/order-groups/"+ogID+"/rematch?apply=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec).(map[string]any)
	if data["listing_id"] != replacement.String() || data["applied"] != true {
		t.Fatalf("unexpected response %v", data)
	}
	if len(f.matching.applied) != 1 || !f.matching.applied[0] {
		t.Fatalf("expected apply forwarded, got %v", f.matching.applied)
	}

	rec = serve(f.handler, http.MethodPost, "/api/v1/order-groups/not-a-uuid/rematch", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", rec.Code)
	}

	f.pricing.err = pkgerrors.New(pkgerrors.CodeNotFound, "order group not found")
	rec = serve(f.handler, http.MethodPost, "/api/v1/order-groups/"+ogID+"/quote", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing order group: expected 404, got %d", rec.Code)
	}
}

func TestRematchApplyRequiresIdempotencyKeyWithStore(t *testing.T) {
	m := &stubMatching{}
	h := NewRouter(testConfig(), nil, stubPinger{}, nil, &fakeIdempotency{data: map[string]string{}}, nil, stubListings{}, m, &stubPricing{})

	rec := serve(h, http.MethodPost, "/api/v1/order-groups/"+uuid.NewString()+"/rematch?apply=true", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without key, got %d", rec.Code)
	}
	if len(m.applied) != 0 {
		t.Fatalf("handler should not run without idempotency key")
	}

	rec = serve(h, http.MethodPost, "/api/v1/order-groups/"+uuid.NewString()+"/rematch", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dry run should not need a key, got %d", rec.Code)
	}
}

func TestPublicPingRoute(t *testing.T) {
	f := newFixture(t, nil)

	rec := serve(f.handler, http.MethodGet, "/api/public/ping", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeData(t, rec).(map[string]any)
	if body["service"] != "haulmarket" || body["status"] != "ok" {
		t.Fatalf("unexpected ping payload %v", body)
	}
}

func TestListingsByStatusRoute(t *testing.T) {
	f := newFixture(t, nil)

	rec := serve(f.handler, http.MethodGet, "/api/v1/listings?status=needs_attention", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := decodeData(t, rec).(map[string]any)
	if views := page["listings"].([]any); len(views) != 1 {
		t.Fatalf("expected one listing, got %d", len(views))
	}
	if _, ok := page["next_cursor"]; ok {
		t.Fatalf("single page should not carry a cursor")
	}

	rec = serve(f.handler, http.MethodGet, "/api/v1/listings?limit=0", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("limit below range: expected 400, got %d", rec.Code)
	}

	rec = serve(f.handler, http.MethodGet, "/api/v1/listings?status=archived", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: expected 400, got %d", rec.Code)
	}
}
