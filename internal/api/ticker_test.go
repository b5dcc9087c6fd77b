package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DinoSarlija/StockInformer/internal/domain"
	"github.com/DinoSarlija/StockInformer/internal/yahoo"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeProvider serves canned Yahoo responses for the AAPL symbol and a
// not-found error for everything else.
func newFakeProvider(t *testing.T) *yahoo.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/finance/search", func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Query().Get("q"), "AAPL") {
			fmt.Fprint(w, `{"quotes":[{"symbol":"AAPL","shortname":"Apple","longname":"Apple Inc."}]}`)
			return
		}
		fmt.Fprint(w, `{"quotes":[]}`)
	})
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		if symbol != "AAPL" {
			fmt.Fprint(w, `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
			return
		}
		fmt.Fprint(w, `{"chart":{"result":[{
			"timestamp":[1640908800,1640995200],
			"events":{"dividends":{"1640908800":{"amount":0.22,"date":1640908800}}},
			"indicators":{"quote":[{
				"open":[176.1,177.8],
				"high":[178.0,179.6],
				"low":[175.5,177.0],
				"close":[177.5,179.3],
				"volume":[64062300,59773000]
			}]}
		}],"error":null}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := yahoo.NewClient()
	client.SearchURL = srv.URL
	client.ChartURL = srv.URL
	return client
}

func TestAddTickerHandler(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "test@mail.com", "secret123!")
	portfolio := domain.NewPortfolio("growth", user.ID)
	require.NoError(t, db.Create(&portfolio).Error)

	r := gin.New()
	r.POST("/ticker/new", AddTickerHandler(db, newFakeProvider(t)))

	// Symbol resolves: created
	w := performJSON(t, r, http.MethodPost, "/ticker/new", gin.H{
		"name": "AAPL", "portfolio_id": portfolio.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Ticker
	decodeJSON(t, w, &created)
	assert.Equal(t, "AAPL", created.Name)
	assert.Equal(t, portfolio.ID, created.PortfolioID)

	// Duplicate (name, portfolio) pair
	w = performJSON(t, r, http.MethodPost, "/ticker/new", gin.H{
		"name": "AAPL", "portfolio_id": portfolio.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unresolvable symbol: rejected before any insert
	w = performJSON(t, r, http.MethodPost, "/ticker/new", gin.H{
		"name": "NOPE", "portfolio_id": portfolio.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	taken, err := domain.TickerNameTaken(db, "NOPE", portfolio.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestDeleteTickerHandler(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "test@mail.com", "secret123!")
	portfolio := domain.NewPortfolio("growth", user.ID)
	require.NoError(t, db.Create(&portfolio).Error)
	ticker := domain.NewTicker("AAPL", portfolio.ID)
	require.NoError(t, db.Create(&ticker).Error)

	r := gin.New()
	r.PUT("/ticker/:id", DeleteTickerHandler(db))

	w := performJSON(t, r, http.MethodPut, "/ticker/"+ticker.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted domain.Ticker
	decodeJSON(t, w, &deleted)
	assert.True(t, deleted.IsDeleted)

	// Second delete is a rejection
	w = performJSON(t, r, http.MethodPut, "/ticker/"+ticker.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLatestTickerInfoHandler(t *testing.T) {
	r := gin.New()
	r.GET("/ticker/info", GetLatestTickerInfoHandler(newFakeProvider(t), newTestCache()))

	w := performJSON(t, r, http.MethodGet, "/ticker/info", gin.H{
		"id": "9c5b94b1-35ad-49bb-b118-8e8fc24abf80", "symbol": "AAPL",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var view TickerView
	decodeJSON(t, w, &view)
	assert.Equal(t, "9c5b94b1-35ad-49bb-b118-8e8fc24abf80", view.ID)
	assert.Equal(t, "Apple Inc.", view.Name)
	assert.Equal(t, "AAPL", view.Symbol)
	assert.Equal(t, 177.8, view.Open)
	assert.Equal(t, 179.3, view.Close)
	assert.Equal(t, uint64(59773000), view.Volume)
	assert.Equal(t, 0.22, view.DividendValue)
	assert.Equal(t, "2022-01-01T00:00:00Z", view.Date.Format("2006-01-02T15:04:05Z07:00"))

	// Non-UUID id is blanked, not echoed
	w = performJSON(t, r, http.MethodGet, "/ticker/info", gin.H{
		"id": "short", "symbol": "AAPL",
	})
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &view)
	assert.Empty(t, view.ID)

	// Unknown symbol
	w = performJSON(t, r, http.MethodGet, "/ticker/info", gin.H{
		"id": "", "symbol": "NOPE",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTickersFromPortfolioHandler(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "test@mail.com", "secret123!")
	portfolio := domain.NewPortfolio("growth", user.ID)
	require.NoError(t, db.Create(&portfolio).Error)
	ticker := domain.NewTicker("AAPL", portfolio.ID)
	require.NoError(t, db.Create(&ticker).Error)

	r := gin.New()
	r.GET("/tickers/:portfolio_id", TickersFromPortfolioHandler(db, newFakeProvider(t)))

	w := performJSON(t, r, http.MethodGet, "/tickers/"+portfolio.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []PortfolioTickerView
	decodeJSON(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, ticker.ID, views[0].ID)
	assert.Equal(t, "Apple Inc.", views[0].Name)
	assert.Equal(t, "AAPL", views[0].Symbol)
	assert.Equal(t, 177.8, views[0].Open)
}

func TestTickerSearchHandlers(t *testing.T) {
	quotes := newFakeProvider(t)
	r := gin.New()
	r.GET("/ticker/search/:name", TickerSearchHandler(quotes, newTestCache()))
	r.GET("/ticker/search/:name/extended", TickerExtensiveSearchHandler(quotes))

	w := performJSON(t, r, http.MethodGet, "/ticker/search/AAPL", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ticker SearchedTicker
	decodeJSON(t, w, &ticker)
	assert.Equal(t, "AAPL", ticker.Symbol)
	assert.Equal(t, "Apple", ticker.ShortName)
	assert.Equal(t, "Apple Inc.", ticker.LongName)

	// No matches
	w = performJSON(t, r, http.MethodGet, "/ticker/search/NOPE", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Extended search returns the whole list
	w = performJSON(t, r, http.MethodGet, "/ticker/search/AAPL/extended", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tickers []SearchedTicker
	decodeJSON(t, w, &tickers)
	require.Len(t, tickers, 1)
}
