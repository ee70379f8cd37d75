package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/denifrahman/deni-crm/internal/config"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Token = "test-token"
	cfg.TimeoutMs = 2000
	return cfg
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.Write([]byte(`{"data": [], "count": 0}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.ListDeals(context.Background(), domain.NewFilter(10))
	require.NoError(t, err)
}

func TestClient_EmptyTokenStillSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data": [], "count": 0}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Token = ""
	client := NewClient(cfg, NoopObserver{})
	_, err := client.ListProducts(context.Background(), domain.NewFilter(10))
	require.NoError(t, err)
}

func TestListDeals_NormalizesStageAndTopLevelCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/deals", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		assert.Equal(t, "router", r.URL.Query().Get("search"))

		w.Write([]byte(`{
			"count": 23,
			"data": [{
				"id": 7,
				"name": "PT Maju",
				"phone": "0811",
				"company": "Maju",
				"status_deal": "negotiation",
				"needs": "fiber 100mbps",
				"created_at": "2025-06-01T10:00:00Z",
				"items": [
					{"id": 3, "product_id": 1, "product": {"name": "Fiber 100"}, "qty": 2, "price": 150000, "approval": true, "approved": false}
				]
			}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	res, err := client.ListDeals(context.Background(), domain.NewFilter(10).WithSearch("router").WithPage(2))

	require.NoError(t, err)
	assert.Equal(t, 23, res.Count)
	require.Len(t, res.Records, 1)

	d := res.Records[0]
	assert.Equal(t, domain.StageNegotiation, d.Stage)
	assert.Equal(t, "01/06/2025", d.Date)
	require.Len(t, d.Items, 1)
	assert.Equal(t, "Fiber 100", d.Items[0].ProductName, "nested product name flattened")
	assert.True(t, d.Items[0].Approval)
	assert.False(t, d.Items[0].Approved)
}

func TestListDeals_UnknownStageFallsBackToQualified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 1, "data": [{"id": 1, "name": "x", "status_deal": "bogus"}]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	res, err := client.ListDeals(context.Background(), domain.NewFilter(10))

	require.NoError(t, err)
	assert.Equal(t, domain.StageQualified, res.Records[0].Stage)
}

func TestListTransactions_NormalizesMetaDataCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions", r.URL.Path)
		w.Write([]byte(`{
			"meta_data": {"count": 23},
			"data": [{
				"transaction": {"transaction_id": 11, "customer_name": "Budi", "total": 50000, "transaction_date": "2025-05-20T00:00:00Z"},
				"detail_transactions": [{"detail_id": 1, "product_name": "Modem", "quantity": 2, "unit_price": 25000}]
			}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	res, err := client.ListTransactions(context.Background(), domain.NewFilter(10))

	require.NoError(t, err)
	assert.Equal(t, 23, res.Count)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Budi", res.Records[0].CustomerName)
	assert.Equal(t, int64(25000), res.Records[0].Details[0].UnitPrice)
	assert.Equal(t, 2, res.Records[0].Details[0].Qty)
}

func TestSaveDeal_PostWithoutID_PutWithID(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "negotiation", payload["status"], "stage serialized as status on writes")

		w.Write([]byte(`{"data": "deal saved"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	deal := domain.Deal{Name: "PT Maju", Stage: domain.StageNegotiation}

	msg, err := client.SaveDeal(context.Background(), deal)
	require.NoError(t, err)
	assert.Equal(t, "deal saved", msg)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/deals", gotPath)

	deal.ID = 7
	_, err = client.SaveDeal(context.Background(), deal)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/v1/deals/7", gotPath)
}

func TestApproveDealItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/deals/approve/42", r.URL.Path)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["approved"])

		w.Write([]byte(`{"data": "approved"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	msg, err := client.ApproveDealItem(context.Background(), 42, true)
	require.NoError(t, err)
	assert.Equal(t, "approved", msg)
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["deal_id"])
		assert.Equal(t, "Jl. Sudirman 12", body["location"])

		w.Write([]byte(`{"data": "order created"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.CreateOrder(context.Background(), 7, "Jl. Sudirman 12")
	require.NoError(t, err)
}

func TestSaveProduct_QualifiedRoutesToProcess(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{"data": "ok"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})

	_, err := client.SaveProduct(context.Background(), domain.Product{ID: 3, Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/v1/products/3", gotPath)

	_, err = client.SaveProduct(context.Background(), domain.Product{ID: 3, Status: "qualified"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/products/process/3", gotPath)
}

func TestClient_UpstreamErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "deal name is required"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.SaveDeal(context.Background(), domain.Deal{})

	require.Error(t, err)
	assert.Equal(t, "deal name is required", UpstreamMessage(err))

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusUnprocessableEntity, ue.Status)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.TimeoutMs = 50
	client := NewClient(cfg, NoopObserver{})

	_, err := client.ListDeals(context.Background(), domain.NewFilter(10))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Unreachable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening
	client := NewClient(cfg, NoopObserver{})

	_, err := client.ListDeals(context.Background(), domain.NewFilter(10))
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestExport_ReturnsBytesVerbatim(t *testing.T) {
	blob := []byte{0x50, 0x4b, 0x03, 0x04, 0x99} // xlsx magic + junk
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/deals/export", r.URL.Path)
		assert.Equal(t, "router", r.URL.Query().Get("search"))
		w.Write(blob)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	data, err := client.Export(context.Background(), domain.KindDeal, domain.NewFilter(10).WithSearch("router"))

	require.NoError(t, err)
	assert.Equal(t, blob, data)
}
