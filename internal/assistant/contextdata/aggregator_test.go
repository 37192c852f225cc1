package contextdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"sales-assistant/internal/common/auth"
	"sales-assistant/internal/common/config"
	"sales-assistant/internal/common/database"
	"sales-assistant/internal/common/httpclient"
	"sales-assistant/internal/common/logger"
)

// ==========================
// Test Helpers
// ==========================

func setupRedis(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	assert.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

// crmServer serves the five dataset endpoints from a path→body map; any
// unmapped path fails with 500.
func crmServer(t *testing.T, responses map[string]string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAggregator(t *testing.T, baseURL string, store *database.RedisClient) *Aggregator {
	return NewAggregator(LoadConfig(baseURL), store, httpclient.New(), logger.NewTestLogger(t))
}

var seller = auth.Identity{ID: 42, Name: "Maria"}

// ==========================
// Aggregation
// ==========================

func TestAggregate_AllSourcesFail(t *testing.T) {
	store, mr := setupRedis(t)
	mr.Close()
	srv := crmServer(t, nil)

	snap := newAggregator(t, srv.URL, store).Aggregate(context.Background(), seller)

	assert.NotNil(t, snap)
	assert.Equal(t, "Maria", snap.UserName)
	assert.Empty(t, snap.Leads)
	assert.Empty(t, snap.Activities)
	assert.Empty(t, snap.Partners)
	assert.Empty(t, snap.Products)
	assert.Empty(t, snap.RecentOrders)
	assert.Zero(t, snap.TotalLeads)
	assert.Zero(t, snap.TotalOrders)
	assert.Zero(t, snap.TotalOrderValue)
}

func TestAggregate_ProductsFromCache_EmptyKeySkipped(t *testing.T) {
	store, mr := setupRedis(t)
	mr.Set("produtos:list:all", `[]`)
	mr.Set("produtos:list:1:50::", `{"produtos":[{"DESCRPROD":"Parafuso","ESTOQUE":10},{"DESCRPROD":"Porca","ESTOQUE":"5"}]}`)
	srv := crmServer(t, nil)

	snap := newAggregator(t, srv.URL, store).Aggregate(context.Background(), seller)

	assert.Equal(t, 2, snap.TotalProducts)
	assert.Equal(t, "Parafuso", snap.Products[0].DescrProd)
	assert.Equal(t, 5.0, snap.Products[1].Estoque.Float64())
}

func TestAggregate_ProductsCacheMissFallsBackToAPI(t *testing.T) {
	store, _ := setupRedis(t)
	srv := crmServer(t, map[string]string{
		"/api/sankhya/produtos": `{"produtos":[{"DESCRPROD":"Martelo"}]}`,
	})

	snap := newAggregator(t, srv.URL, store).Aggregate(context.Background(), seller)

	assert.Equal(t, 1, snap.TotalProducts)
	assert.Equal(t, "Martelo", snap.Products[0].DescrProd)
}

func TestAggregate_LeadsCappedPreservingOrder(t *testing.T) {
	store, _ := setupRedis(t)

	leads := `[`
	for i := 0; i < 12; i++ {
		if i > 0 {
			leads += ","
		}
		leads += `{"NOME":"Lead ` + string(rune('A'+i)) + `","VALOR":100}`
	}
	leads += `]`

	srv := crmServer(t, map[string]string{"/api/leads": leads})

	snap := newAggregator(t, srv.URL, store).Aggregate(context.Background(), seller)

	assert.Equal(t, 12, snap.TotalLeads)
	assert.Len(t, snap.Leads, 10)
	assert.Equal(t, "Lead A", snap.Leads[0].Nome)
	assert.Equal(t, "Lead J", snap.Leads[9].Nome)
}

func TestAggregate_LeadsCarryIdentityCookie(t *testing.T) {
	store, _ := setupRedis(t)

	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/leads" {
			gotCookie = r.Header.Get("Cookie")
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	newAggregator(t, srv.URL, store).Aggregate(context.Background(), seller)

	assert.Equal(t, `user={"id":42}`, gotCookie)
}

func TestAggregate_OrdersSummaryOverFullSet(t *testing.T) {
	store, _ := setupRedis(t)
	srv := crmServer(t, map[string]string{
		"/api/sankhya/pedidos/listar": `[
			{"NUNOTA":1,"NOMEPARC":"P1","VLRNOTA":10.5,"DTNEG":"01/08"},
			{"NUNOTA":2,"NOMEPARC":"P2","VLRNOTA":"abc","DTNEG":"02/08"},
			{"NUNOTA":3,"NOMEPARC":"P3","VLRNOTA":20,"DTNEG":"03/08"},
			{"NUNOTA":4,"NOMEPARC":"P4","VLRNOTA":12.5,"DTNEG":"04/08"},
			{"NUNOTA":5,"NOMEPARC":"P5","VLRNOTA":12.5,"DTNEG":"05/08"},
			{"NUNOTA":6,"NOMEPARC":"P6","VLRNOTA":12.5,"DTNEG":"06/08"},
			{"NUNOTA":7,"NOMEPARC":"P7","VLRNOTA":12.5,"DTNEG":"07/08"}
		]`,
	})

	snap := newAggregator(t, srv.URL, store).Aggregate(context.Background(), seller)

	assert.Equal(t, 7, snap.TotalOrders)
	assert.Equal(t, 80.5, snap.TotalOrderValue)
	assert.Len(t, snap.RecentOrders, 5)
	assert.Equal(t, "1", snap.RecentOrders[0].NuNota.String())
	assert.Equal(t, "5", snap.RecentOrders[4].NuNota.String())
}

func TestAggregate_Idempotent(t *testing.T) {
	store, mr := setupRedis(t)
	mr.Set("parceiros:list:1:50:::", `{"parceiros":[{"NOMEPARC":"ACME"}]}`)
	srv := crmServer(t, map[string]string{
		"/api/leads":                  `[{"NOME":"Lead","VALOR":500}]`,
		"/api/leads/atividades":       `[{"DESCRICAO":"Ligar","STATUS":"AGUARDANDO"}]`,
		"/api/sankhya/pedidos/listar": `[{"NUNOTA":9,"VLRNOTA":99}]`,
		"/api/sankhya/produtos":       `{"produtos":[{"DESCRPROD":"Chave"}]}`,
	})

	agg := newAggregator(t, srv.URL, store)
	first := agg.Aggregate(context.Background(), seller)
	second := agg.Aggregate(context.Background(), seller)

	assert.Equal(t, first, second)
}

// One slow dataset must not delay or abort the others past its own budget.
func TestAggregate_SlowDatasetDegradesAlone(t *testing.T) {
	store, _ := setupRedis(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/leads/atividades" {
			time.Sleep(300 * time.Millisecond)
		}
		w.Write([]byte(`[{"NOME":"Lead"}]`))
	}))
	t.Cleanup(srv.Close)

	cfg := LoadConfig(srv.URL)
	cfg.Activities.Timeout = 50 * time.Millisecond
	agg := NewAggregator(cfg, store, httpclient.New(), logger.NewTestLogger(t))

	snap := agg.Aggregate(context.Background(), seller)

	assert.Empty(t, snap.Activities)
	assert.Equal(t, 1, snap.TotalLeads)
}
