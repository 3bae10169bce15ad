package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex/docs-cms/internal/search"
)

func newSearchRouter(idx *search.Index) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSearchHandler(idx, Responder{Environment: "sandbox"})
	g := gin.New()
	h.Register(g.Group("/api"))
	return g
}

func TestSearchEndpoint(t *testing.T) {
	idx := search.NewIndex()
	idx.Initialize([]search.Document{
		{ID: "d1", Title: "Flight Search", Description: "Find flights", Section: "flights", Content: "routes and fares"},
		{ID: "d2", Title: "Hotel Booking", Description: "Reserve rooms", Section: "hotels", Content: "availability"},
	})
	g := newSearchRouter(idx)

	w := doJSON(g, http.MethodGet, "/api/search?q=flight", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.True(t, env.Success)

	res := dataMap(t, env)
	assert.Equal(t, "flight", res["query"])
	b, _ := json.Marshal(res["hits"])
	var hits []map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &hits))
	require.Len(t, hits, 1)
	doc := hits[0]["document"].(map[string]interface{})
	assert.Equal(t, "d1", doc["id"])
}

func TestSearchBeforeInitialization(t *testing.T) {
	g := newSearchRouter(search.NewIndex())

	w := doJSON(g, http.MethodGet, "/api/search?q=anything", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := dataMap(t, decodeEnvelope(t, w))
	assert.Equal(t, float64(0), res["count"])
}
