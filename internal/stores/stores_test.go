package stores

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/backend"
	"github.com/spec-kit/admin-console/internal/domain"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// fakeBackend counts reads per endpoint so tests can assert on cache
// behavior instead of timing.
type fakeBackend struct {
	mux        *http.ServeMux
	server     *httptest.Server
	statsReads int32
	rateReads  int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{mux: http.NewServeMux()}

	fb.mux.HandleFunc("/crm/stats", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fb.statsReads, 1)
		writeJSON(w, domain.SalesStats{
			Sales: []domain.Client{
				{ID: 1, FullName: "Aziza Karimova", Status: domain.ClientStatusContacted},
				{ID: 2, FullName: "Bobur Aliyev", Status: domain.ClientStatusNeedToCall},
			},
			TotalCustomers: 2,
			Contacted:      1,
			NeedToCall:     1,
		})
	})
	fb.mux.HandleFunc("/ceo/sales", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, domain.Client{ID: 3, FullName: "New Lead", Status: domain.ClientStatusNeedToCall})
	})
	fb.mux.HandleFunc("/ceo/sales/", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		status, _ := payload["status"].(string)
		writeJSON(w, domain.Client{ID: 2, FullName: "Bobur Aliyev", Status: domain.ClientStatus(status)})
	})
	fb.mux.HandleFunc("/ceo/payments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"payments": []domain.Payment{
			{ID: 10, Project: "hosting", Amount: 40, Paid: false},
			{ID: 11, Project: "domain", Amount: 12, Paid: true},
		}})
	})
	fb.mux.HandleFunc("/ceo/payments/", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Paid *bool `json:"payment"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.NotNil(t, payload.Paid)
		writeJSON(w, domain.Payment{ID: 10, Project: "hosting", Amount: 40, Paid: *payload.Paid})
	})
	fb.mux.HandleFunc("/finance/exchange-rate", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&fb.rateReads, 1)
		if n > 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]any{"usd_to_uzs": 12650.5})
	})

	fb.server = httptest.NewServer(fb.mux)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) client() *backend.Client {
	return backend.New(fb.server.URL, nil, 5*time.Second, nil, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestSalesStoreServesFromCacheWithinTTL(t *testing.T) {
	fb := newFakeBackend(t)
	store := NewSalesStore(fb.client(), time.Minute, nil)
	ctx := context.Background()

	first, err := store.Stats(ctx, "s1", false)
	require.NoError(t, err)
	require.Len(t, first.Sales, 2)

	second, err := store.Stats(ctx, "s1", false)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, int32(1), atomic.LoadInt32(&fb.statsReads), "second read must hit the cache")

	_, err = store.Stats(ctx, "s1", true)
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&fb.statsReads), "force bypasses staleness")
}

func TestSalesStoreCachesPerSession(t *testing.T) {
	fb := newFakeBackend(t)
	store := NewSalesStore(fb.client(), time.Minute, nil)
	ctx := context.Background()

	_, err := store.Stats(ctx, "s1", false)
	require.NoError(t, err)
	_, err = store.Stats(ctx, "s2", false)
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&fb.statsReads), "sessions do not share entries")
}

func TestSalesStoreUpdatePatchesCachedRow(t *testing.T) {
	fb := newFakeBackend(t)
	store := NewSalesStore(fb.client(), time.Minute, nil)
	ctx := context.Background()

	_, err := store.Stats(ctx, "s1", false)
	require.NoError(t, err)

	updated, err := store.Update(ctx, "s1", 2, backend.ClientPayload{Status: string(domain.ClientStatusFinished)})
	require.NoError(t, err)
	require.Equal(t, domain.ClientStatusFinished, updated.Status)

	// The cached stats reflect the edit without another upstream read.
	stats, err := store.Stats(ctx, "s1", false)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&fb.statsReads))
	var patched *domain.Client
	for i := range stats.Sales {
		if stats.Sales[i].ID == 2 {
			patched = &stats.Sales[i]
		}
	}
	require.NotNil(t, patched)
	require.Equal(t, domain.ClientStatusFinished, patched.Status)
}

func TestSalesStoreAddInvalidatesCache(t *testing.T) {
	fb := newFakeBackend(t)
	store := NewSalesStore(fb.client(), time.Minute, nil)
	ctx := context.Background()

	_, err := store.Stats(ctx, "s1", false)
	require.NoError(t, err)

	_, err = store.Add(ctx, "s1", backend.ClientPayload{FullName: "New Lead", Platform: "telegram"})
	require.NoError(t, err)

	_, err = store.Stats(ctx, "s1", false)
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&fb.statsReads), "a create must drop the cached stats")
}

func TestPaymentsStoreToggleFlipsPaidFlag(t *testing.T) {
	fb := newFakeBackend(t)
	store := NewPaymentsStore(fb.client(), time.Minute, nil)
	ctx := context.Background()

	toggled, err := store.Toggle(ctx, "s1", 10)
	require.NoError(t, err)
	require.True(t, toggled.Paid, "payment 10 starts unpaid and must flip to paid")
}

func TestPaymentsStoreToggleUnknownPayment(t *testing.T) {
	fb := newFakeBackend(t)
	store := NewPaymentsStore(fb.client(), time.Minute, nil)

	_, err := store.Toggle(context.Background(), "s1", 999)
	require.Error(t, err)
	var derr *apperrors.DomainError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "NOT_FOUND", derr.Code)
}

func TestExchangeRateStoreIsGlobalAcrossSessions(t *testing.T) {
	fb := newFakeBackend(t)
	store := NewExchangeRateStore(fb.client(), time.Hour, nil)
	ctx := context.Background()

	first, err := store.Rate(ctx, "s1", false)
	require.NoError(t, err)
	require.InDelta(t, 12650.5, first.USDToUZS, 0.001)

	// A different session reuses the cached rate; the backend would answer
	// 502 on a second read.
	second, err := store.Rate(ctx, "s2", false)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, int32(1), atomic.LoadInt32(&fb.rateReads))
}

func TestExchangeRateStoreLastSurvivesFailedRefresh(t *testing.T) {
	fb := newFakeBackend(t)
	store := NewExchangeRateStore(fb.client(), time.Hour, nil)
	ctx := context.Background()

	_, ok := store.Last()
	require.False(t, ok, "no rate before the first fetch")

	fetched, err := store.Rate(ctx, "s1", false)
	require.NoError(t, err)

	_, err = store.Rate(ctx, "s1", true)
	require.Error(t, err, "forced refresh hits the failing backend")

	last, ok := store.Last()
	require.True(t, ok)
	require.Equal(t, fetched, last, "the stale rate stays available after a failed refresh")
}

func TestValidateClientPayload(t *testing.T) {
	err := validateClientPayload(&backend.ClientPayload{Platform: "telegram"})
	require.Error(t, err, "full name is required")

	err = validateClientPayload(&backend.ClientPayload{FullName: "Aziza Karimova"})
	require.Error(t, err, "platform is required")

	payload := backend.ClientPayload{FullName: "Aziza Karimova", Platform: "telegram"}
	require.NoError(t, validateClientPayload(&payload))
	require.Equal(t, "aziza.karimova", payload.Username)

	// A caller-supplied username wins over the derived one.
	payload = backend.ClientPayload{FullName: "Aziza Karimova", Platform: "telegram", Username: "azizak"}
	require.NoError(t, validateClientPayload(&payload))
	require.Equal(t, "azizak", payload.Username)
}

func TestDerivedUsernameIsLowercaseDotted(t *testing.T) {
	fb := newFakeBackend(t)
	var gotUsername string
	fb.mux.HandleFunc("/crm/customers", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotUsername, _ = payload["username"].(string)
		writeJSON(w, domain.Client{ID: 7, FullName: "Aziza Karimova"})
	})

	store := NewClientsStore(fb.client(), time.Minute, nil)
	_, err := store.Add(context.Background(), "s1", backend.ClientPayload{FullName: "Aziza Karimova", Platform: "telegram"})
	require.NoError(t, err)
	require.Equal(t, "aziza.karimova", gotUsername)
}
