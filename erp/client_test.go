package erp

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// erpStub fakes the two ERP endpoints. inventory is swapped per test.
type erpStub struct {
	inventoryCalls int
	loginCalls     int
	inventory      func(w http.ResponseWriter, r *http.Request)
}

func newTestClient(t *testing.T, stub *erpStub) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		stub.loginCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Data":{"Datas":{"SESSION_ID":"test-session"}}}`))
	})
	mux.HandleFunc("/inventory", func(w http.ResponseWriter, r *http.Request) {
		stub.inventoryCalls++
		stub.inventory(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := Config{
		LoginURL:         server.URL + "/login",
		InventoryURL:     server.URL + "/inventory",
		InventoryListURL: server.URL + "/inventory",
		ComCode:          "12345",
		UserID:           "tester",
		APICertKey:       "key",
		LanType:          "ko-KR",
		Zone:             "CC",
	}

	client := NewClient(cfg, slog.New(slog.NewTextHandler(testWriter{t}, nil)), time.UTC)
	client.retryDelay = time.Millisecond
	return client
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func jsonBody(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestFetchAllFiltersNonPositiveAndKeepsOrder(t *testing.T) {
	stub := &erpStub{inventory: jsonBody(`{"Data":{"Result":[
		{"PROD_CD":"ITEM000001","BAL_QTY":5},
		{"PROD_CD":"ITEM000002","BAL_QTY":0},
		{"PROD_CD":"ITEM000003","BAL_QTY":"7.00"},
		{"PROD_CD":"ITEM000004","BAL_QTY":-2}
	]}}`)}
	client := newTestClient(t, stub)

	records, err := client.FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, StockRecord{Code: "ITEM000001", Quantity: 5}, records[0])
	assert.Equal(t, StockRecord{Code: "ITEM000003", Quantity: 7}, records[1])
}

func TestFetchAllEmptyResultIsNoStock(t *testing.T) {
	stub := &erpStub{inventory: jsonBody(`{"Data":{"Result":[]}}`)}
	client := newTestClient(t, stub)

	_, err := client.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrNoStock)
	assert.Equal(t, 1, stub.inventoryCalls, "structural failures must not be retried")
}

func TestFetchAllMissingResultIsNoStock(t *testing.T) {
	stub := &erpStub{inventory: jsonBody(`{"Data":{}}`)}
	client := newTestClient(t, stub)

	_, err := client.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrNoStock)
	assert.Equal(t, 1, stub.inventoryCalls)
}

func TestFetchOneAbsentWhenEmpty(t *testing.T) {
	stub := &erpStub{inventory: jsonBody(`{"Data":{"Result":[]}}`)}
	client := newTestClient(t, stub)

	rec, err := client.FetchOne(context.Background(), "ITEM000001")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchOneAbsentWhenNonPositive(t *testing.T) {
	stub := &erpStub{inventory: jsonBody(`{"Data":{"Result":[{"PROD_CD":"ITEM000001","BAL_QTY":0}]}}`)}
	client := newTestClient(t, stub)

	rec, err := client.FetchOne(context.Background(), "ITEM000001")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchOneReturnsPositiveRecord(t *testing.T) {
	stub := &erpStub{inventory: jsonBody(`{"Data":{"Result":[{"PROD_CD":"ITEM000001","BAL_QTY":"12"}]}}`)}
	client := newTestClient(t, stub)

	rec, err := client.FetchOne(context.Background(), "ITEM000001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, StockRecord{Code: "ITEM000001", Quantity: 12}, *rec)
}

func TestFetchRetriesTransientFailure(t *testing.T) {
	stub := &erpStub{}
	stub.inventory = func(w http.ResponseWriter, r *http.Request) {
		if stub.inventoryCalls < 5 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		jsonBody(`{"Data":{"Result":[{"PROD_CD":"ITEM000001","BAL_QTY":3}]}}`)(w, r)
	}
	client := newTestClient(t, stub)

	records, err := client.FetchAll(context.Background())
	require.NoError(t, err, "fifth attempt succeeds within the retry budget")
	require.Len(t, records, 1)
	assert.Equal(t, 5, stub.inventoryCalls)
}

func TestFetchExhaustsRetryBudget(t *testing.T) {
	stub := &erpStub{inventory: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}}
	client := newTestClient(t, stub)

	_, err := client.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 6, stub.inventoryCalls, "initial attempt plus five retries")
}

func TestQuotaExceededShortCircuits(t *testing.T) {
	stub := &erpStub{inventory: jsonBody(`{"Error":{"Message":"허용량을 초과했습니다."}}`)}
	client := newTestClient(t, stub)

	_, err := client.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, stub.inventoryCalls, "quota failures must never be retried")
}

func TestFetchReusesSessionAcrossCalls(t *testing.T) {
	stub := &erpStub{inventory: jsonBody(`{"Data":{"Result":[{"PROD_CD":"ITEM000001","BAL_QTY":3}]}}`)}
	client := newTestClient(t, stub)

	for i := 0; i < 3; i++ {
		_, err := client.FetchAll(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, stub.loginCalls)
}

func TestFetchRetriesWhenLoginUnavailable(t *testing.T) {
	stub := &erpStub{inventory: jsonBody(`{"Data":{"Result":[{"PROD_CD":"ITEM000001","BAL_QTY":3}]}}`)}
	client := newTestClient(t, stub)

	// Point the login URL at a closed server so every attempt fails at
	// session acquisition.
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	client.cfg.LoginURL = dead.URL + "/login"

	_, err := client.FetchAll(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 0, stub.inventoryCalls, "no inventory call without a session")
}
