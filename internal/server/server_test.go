package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-agent-poc/server/internal/agent/react"
	"github.com/storefront-agent-poc/server/internal/agent/seo"
	"github.com/storefront-agent-poc/server/internal/agent/tools"
	"github.com/storefront-agent-poc/server/internal/catalog"
)

type stubModel struct {
	response *schema.Message
	err      error
}

func (m *stubModel) Generate(ctx context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func newTestServer(t *testing.T, queryModel, seoModel *stubModel) *Server {
	t.Helper()
	cat := catalog.Default()
	toolMap, err := tools.Map(context.Background(), tools.QueryTools(cat))
	require.NoError(t, err)

	queryEngine := react.New(react.Config{
		ChatModel: queryModel,
		Tools:     toolMap,
		MaxSteps:  5,
		ModelName: "gemini-2.5-flash",
	})
	seoEngine := seo.New(seo.Config{
		ChatModel: seoModel,
		Catalog:   cat,
		ModelName: "gemini-2.5-flash",
	})
	return New(Config{Addr: ":0"}, cat, queryEngine, seoEngine)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &stubModel{}, &stubModel{})

	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t, &stubModel{}, &stubModel{})

	rec := doRequest(t, s, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 5)
}

func TestListProductsFiltered(t *testing.T) {
	s := newTestServer(t, &stubModel{}, &stubModel{})

	rec := doRequest(t, s, http.MethodGet, "/api/products?q=pavilion", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "LAPTOP001", products[0].ID)

	rec = doRequest(t, s, http.MethodGet, "/api/products?category=accessories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 1)
}

func TestQueryEndpoint(t *testing.T) {
	qm := &stubModel{response: schema.AssistantMessage("We have 25 in stock.", nil)}
	s := newTestServer(t, qm, &stubModel{})

	rec := doRequest(t, s, http.MethodPost, "/api/query", `{"query":"stock of LAPTOP001?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report react.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, react.StatusDone, report.Status)
	assert.Equal(t, "We have 25 in stock.", report.Answer)
}

func TestQueryEndpointValidation(t *testing.T) {
	s := newTestServer(t, &stubModel{}, &stubModel{})

	rec := doRequest(t, s, http.MethodPost, "/api/query", `{"query":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/query", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryEndpointUpstreamFailure(t *testing.T) {
	qm := &stubModel{err: errors.New("gateway exploded")}
	s := newTestServer(t, qm, &stubModel{})

	rec := doRequest(t, s, http.MethodPost, "/api/query", `{"query":"hello"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var report react.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, react.StatusFailed, report.Status)
	require.NotNil(t, report.Failure)
	assert.Equal(t, react.FailureUpstream, report.Failure.Kind)
}

func TestQueryEndpointParseFailure(t *testing.T) {
	qm := &stubModel{response: schema.AssistantMessage("", nil)}
	s := newTestServer(t, qm, &stubModel{})

	rec := doRequest(t, s, http.MethodPost, "/api/query", `{"query":"hello"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSEOEndpointUnknownProduct(t *testing.T) {
	s := newTestServer(t, &stubModel{}, &stubModel{})

	rec := doRequest(t, s, http.MethodPost, "/api/seo", `{"product_id":"GHOST01"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSEOEndpointValidation(t *testing.T) {
	s := newTestServer(t, &stubModel{}, &stubModel{})

	rec := doRequest(t, s, http.MethodPost, "/api/seo", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSEOEndpointUpstreamFailure(t *testing.T) {
	sm := &stubModel{err: errors.New("gateway exploded")}
	s := newTestServer(t, &stubModel{}, sm)

	rec := doRequest(t, s, http.MethodPost, "/api/seo", `{"product_id":"LAPTOP001"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var report seo.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, seo.StatusFailed, report.Status)
}
