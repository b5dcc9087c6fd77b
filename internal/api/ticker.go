package api

import (
	"net/http" // HTTP status codes
	"time"     // View timestamps

	"github.com/DinoSarlija/StockInformer/internal/domain" // Importing domain models
	"github.com/DinoSarlija/StockInformer/internal/utils"  // Cache helpers
	"github.com/DinoSarlija/StockInformer/internal/yahoo"  // Quote lookup adapter

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Lookback used when probing a symbol for existence and when shaping views.
const (
	probeInterval = "1m"  // Existence probe: one-minute candles
	probeRange    = "1d"  // Existence probe: last trading day
	viewInterval  = "1d"  // Views: daily candles
	viewRange     = "6mo" // Views: six months back
)

// NewTickerRequest carries the fields of a ticker to attach
type NewTickerRequest struct {
	Name        string `json:"name" binding:"required"`         // Stock symbol
	PortfolioID string `json:"portfolio_id" binding:"required"` // Owning portfolio
}

// SearchedTicker is one symbol-search match as served to clients
type SearchedTicker struct {
	Symbol    string `json:"symbol"`     // Exchange symbol
	ShortName string `json:"short_name"` // Short company name
	LongName  string `json:"long_name"`  // Full company name
}

// TickerView joins a stored ticker with its latest quote and dividend
type TickerView struct {
	ID            string    `json:"id"`             // Stored ticker id, empty for ad-hoc lookups
	Name          string    `json:"name"`           // Full company name
	Symbol        string    `json:"symbol"`         // Exchange symbol
	DividendValue float64   `json:"dividend_value"` // Last dividend amount, 0 when none
	DividendDate  time.Time `json:"dividend_date"`  // Last dividend date
	Open          float64   `json:"open"`           // Latest open
	High          float64   `json:"high"`           // Latest high
	Low           float64   `json:"low"`            // Latest low
	Volume        uint64    `json:"volume"`         // Latest volume
	Close         float64   `json:"close"`          // Latest close
	Date          time.Time `json:"date"`           // Quote timestamp
}

// PortfolioTickerView is the per-ticker summary of a portfolio listing
type PortfolioTickerView struct {
	ID     string    `json:"id"`     // Stored ticker id
	Name   string    `json:"name"`   // Full company name
	Symbol string    `json:"symbol"` // Exchange symbol
	Open   float64   `json:"open"`   // Latest open
	Date   time.Time `json:"date"`   // Quote timestamp
}

// IDOrSymbol addresses a quote lookup: the symbol drives the provider call,
// the (optional) id is echoed back when it looks like a stored ticker id.
type IDOrSymbol struct {
	ID     string `json:"id"`                         // Stored ticker id, may be empty
	Symbol string `json:"symbol" binding:"required"` // Exchange symbol
}

// AddTickerHandler attaches a ticker to a portfolio. The symbol must
// resolve against the quote provider before anything is stored.
func AddTickerHandler(db *gorm.DB, quotes *yahoo.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NewTickerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Existence probe with a short lookback window
		if _, err := quotes.QuoteRange(c.Request.Context(), req.Name, probeInterval, probeRange); err != nil {
			logrus.WithField("symbol", req.Name).WithError(err).Warn("Ticker probe failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker '" + req.Name + "' does not exist."})
			return
		}
		taken, err := domain.TickerNameTaken(db, req.Name, req.PortfolioID)
		if err != nil {
			logrus.WithError(err).Error("Failed to check ticker name")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticker"})
			return
		}
		if taken {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker with that name already exists"})
			return
		}
		ticker := domain.NewTicker(req.Name, req.PortfolioID)
		if err := db.Create(&ticker).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"portfolio_id": req.PortfolioID,
				"symbol":       req.Name,
				"error":        err.Error(),
			}).Error("Failed to create ticker")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker with that name already exists"})
			return
		}
		c.JSON(http.StatusCreated, ticker)
	}
}

// DeleteTickerHandler soft-deletes one ticker
func DeleteTickerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		ticker, err := domain.SoftDeleteTicker(db, id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to delete ticker"})
			return
		}
		c.JSON(http.StatusOK, ticker)
	}
}

// GetLatestTickerInfoHandler shapes the latest quote and dividend of a
// symbol into a TickerView. Provider responses are cached briefly per
// symbol; the echoed id is stitched in after the cache.
func GetLatestTickerInfoHandler(quotes *yahoo.Client, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDOrSymbol
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		id := req.ID
		if len(id) != 36 {
			id = "" // Anything but a UUID is treated as an ad-hoc lookup
		}
		ctx := c.Request.Context()
		cacheKey := "ticker:info:" + req.Symbol

		var view TickerView
		if found, err := cache.Get(ctx, cacheKey, &view); err == nil && found {
			view.ID = id
			c.JSON(http.StatusOK, view)
			return
		}

		result, err := quotes.Search(ctx, req.Symbol)
		if err != nil || len(result.Quotes) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker does not exist."})
			return
		}
		history, err := quotes.QuoteRange(ctx, req.Symbol, viewInterval, viewRange)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Response " + err.Error()})
			return
		}
		quote, err := history.LastQuote()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quote " + err.Error()})
			return
		}
		dividend := history.LastDividend() // Zero-amount sentinel when none paid

		view = TickerView{
			ID:            id,
			Name:          result.Quotes[0].LongName,
			Symbol:        req.Symbol,
			DividendValue: dividend.Amount,
			DividendDate:  fromTimestamp(dividend.Date),
			Open:          quote.Open,
			High:          quote.High,
			Low:           quote.Low,
			Volume:        quote.Volume,
			Close:         quote.Close,
			Date:          fromTimestamp(quote.Timestamp),
		}
		if err := cache.Set(ctx, cacheKey, view); err != nil {
			logrus.WithError(err).Warn("Failed to cache ticker info")
		}
		c.JSON(http.StatusOK, view)
	}
}

// TickersFromPortfolioHandler lists a portfolio's tickers with their
// latest open quote and resolved company name.
func TickersFromPortfolioHandler(db *gorm.DB, quotes *yahoo.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		portfolioID := c.Param("portfolio_id")
		tickers, err := domain.GetTickersByPortfolio(db, portfolioID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Portfolio ID does not exist or there is not any ticker."})
			return
		}
		ctx := c.Request.Context()
		views := make([]PortfolioTickerView, 0, len(tickers))
		for _, ticker := range tickers {
			result, err := quotes.Search(ctx, ticker.Name)
			if err != nil || len(result.Quotes) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker names: " + ticker.Name})
				return
			}
			history, err := quotes.QuoteRange(ctx, ticker.Name, viewInterval, viewRange)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker values: " + err.Error()})
				return
			}
			quote, err := history.LastQuote()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker values: " + err.Error()})
				return
			}
			views = append(views, PortfolioTickerView{
				ID:     ticker.ID,
				Name:   result.Quotes[0].LongName,
				Symbol: ticker.Name,
				Open:   quote.Open,
				Date:   fromTimestamp(quote.Timestamp),
			})
		}
		c.JSON(http.StatusOK, views)
	}
}

// TickerSearchHandler returns the best symbol-search match
func TickerSearchHandler(quotes *yahoo.Client, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		ctx := c.Request.Context()
		cacheKey := "ticker:search:" + name

		var ticker SearchedTicker
		if found, err := cache.Get(ctx, cacheKey, &ticker); err == nil && found {
			c.JSON(http.StatusOK, ticker)
			return
		}

		result, err := quotes.Search(ctx, name)
		if err != nil || len(result.Quotes) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker does not exist."})
			return
		}
		item := result.Quotes[0]
		ticker = SearchedTicker{
			Symbol:    item.Symbol,
			ShortName: item.ShortName,
			LongName:  item.LongName,
		}
		if err := cache.Set(ctx, cacheKey, ticker); err != nil {
			logrus.WithError(err).Warn("Failed to cache ticker search")
		}
		c.JSON(http.StatusOK, ticker)
	}
}

// TickerExtensiveSearchHandler returns every symbol-search match
func TickerExtensiveSearchHandler(quotes *yahoo.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		result, err := quotes.Search(c.Request.Context(), name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker does not exist."})
			return
		}
		tickers := make([]SearchedTicker, 0, len(result.Quotes))
		for _, item := range result.Quotes {
			tickers = append(tickers, SearchedTicker{
				Symbol:    item.Symbol,
				ShortName: item.ShortName,
				LongName:  item.LongName,
			})
		}
		c.JSON(http.StatusOK, tickers)
	}
}
