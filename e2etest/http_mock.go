package e2etest

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// syncWSConn encapsulates a WebSocket connection with mutex protection
type syncWSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// MockServer serves the CoinGecko and Binance endpoints the service calls
type MockServer struct {
	server        *httptest.Server
	CoinGeckoMock *CoinGeckoMock
	BinanceMock   *BinanceMock
	WebSocketPath string
	upgrader      websocket.Upgrader

	mu             sync.RWMutex // Mutex to protect websocketConns
	websocketConns []*syncWSConn
	done           chan struct{}

	// forcedStatus, when non-zero, is returned for every REST request
	forcedStatus atomic.Int32
	requests     sync.Map // path -> *atomic.Int64
}

// CoinGeckoMock contains mock data for CoinGecko API
type CoinGeckoMock struct {
	Prices map[string]float64
	Coins  string
}

// BinanceMock contains mock data for Binance API
type BinanceMock struct {
	Prices       map[string]string
	ExchangeInfo string
	TickerData   string
}

// NewMockServer creates and returns a new mock server
func NewMockServer() *MockServer {
	ms := &MockServer{
		CoinGeckoMock: &CoinGeckoMock{
			Prices: map[string]float64{"bitcoin": 50000, "ethereum": 2500, "tether": 1},
			Coins:  defaultCoinsListData(),
		},
		BinanceMock: &BinanceMock{
			Prices:       map[string]string{"BTCUSDT": "50000.00", "ETHUSDT": "2500.00", "ETHBTC": "0.05"},
			ExchangeInfo: defaultExchangeInfoData(),
			TickerData:   defaultTickerData(),
		},
		WebSocketPath: "/ws/!ticker@arr",
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		websocketConns: make([]*syncWSConn, 0),
		done:           make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", ms.handleRequest)

	// Note: httptest.Server automatically selects a free port
	ms.server = httptest.NewServer(mux)

	// Start goroutine to send test data to WebSocket clients
	go ms.broadcastPriceUpdates()

	return ms
}

// Close closes the mock server and all WebSocket connections
func (ms *MockServer) Close() {
	close(ms.done)

	ms.mu.Lock()
	for _, syncConn := range ms.websocketConns {
		syncConn.mu.Lock()
		syncConn.conn.Close()
		syncConn.mu.Unlock()
	}
	ms.websocketConns = nil
	ms.mu.Unlock()

	if ms.server != nil {
		ms.server.Close()
	}
}

// ForceStatus makes every REST endpoint answer with status. Zero restores
// normal responses.
func (ms *MockServer) ForceStatus(status int) {
	ms.forcedStatus.Store(int32(status))
}

// Requests returns how many times path was requested
func (ms *MockServer) Requests(path string) int64 {
	counter, ok := ms.requests.Load(path)
	if !ok {
		return 0
	}
	return counter.(*atomic.Int64).Load()
}

func (ms *MockServer) countRequest(path string) {
	counter, _ := ms.requests.LoadOrStore(path, &atomic.Int64{})
	counter.(*atomic.Int64).Add(1)
}

// handleRequest processes incoming requests and returns mock data
func (ms *MockServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	query := r.URL.Query()

	// WebSocket connection handling - any path containing /ws/
	if strings.Contains(path, "/ws/") {
		ms.handleWebSocket(w, r)
		return
	}

	ms.countRequest(path)
	if status := int(ms.forcedStatus.Load()); status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch {
	// CoinGecko endpoints
	case path == "/api/v3/simple/price":
		response := make(map[string]map[string]float64)
		for _, id := range strings.Split(query.Get("ids"), ",") {
			if price, ok := ms.CoinGeckoMock.Prices[id]; ok {
				response[id] = map[string]float64{query.Get("vs_currencies"): price}
			}
		}
		writeJSON(w, response)

	case path == "/api/v3/coins/list":
		fmt.Fprint(w, ms.CoinGeckoMock.Coins)

	case strings.HasPrefix(path, "/api/v3/coins/") && strings.HasSuffix(path, "/market_chart"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/api/v3/coins/"), "/market_chart")
		price, ok := ms.CoinGeckoMock.Prices[id]
		if !ok {
			http.Error(w, `{"error":"coin not found"}`, http.StatusNotFound)
			return
		}
		fmt.Fprint(w, generateMarketChartData(price))

	// Binance endpoints
	case path == "/api/v3/ticker/price":
		tickers := make([]map[string]string, 0, len(ms.BinanceMock.Prices))
		for symbol, price := range ms.BinanceMock.Prices {
			tickers = append(tickers, map[string]string{"symbol": symbol, "price": price})
		}
		writeJSON(w, tickers)

	case path == "/api/v3/exchangeInfo":
		fmt.Fprint(w, ms.BinanceMock.ExchangeInfo)

	case path == "/api/v3/klines":
		price, ok := ms.BinanceMock.Prices[query.Get("symbol")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"code":-1121,"msg":"Invalid symbol."}`)
			return
		}
		fmt.Fprint(w, generateKlinesData(price))

	default:
		log.Printf("MockServer: Path not found: %s", path)
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("MockServer: Failed to encode response: %v", err)
	}
}

// handleWebSocket handles WebSocket connection requests
func (ms *MockServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := ms.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WS Error: Could not open websocket connection: %v", err)
		return
	}

	syncConn := &syncWSConn{conn: conn}

	ms.mu.Lock()
	ms.websocketConns = append(ms.websocketConns, syncConn)
	ms.mu.Unlock()

	// Send initial data right after connection
	syncConn.mu.Lock()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ms.BinanceMock.TickerData)); err != nil {
		log.Printf("WS Error: Failed to send initial data: %v", err)
	}
	syncConn.mu.Unlock()
}

// broadcastPriceUpdates sends periodic price updates via WebSocket
func (ms *MockServer) broadcastPriceUpdates() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ms.done:
			return
		case <-ticker.C:
			ms.copyAndBroadcast()
		}
	}
}

// copyAndBroadcast creates a copy of connections and sends them data
func (ms *MockServer) copyAndBroadcast() {
	ms.mu.RLock()
	connections := make([]*syncWSConn, len(ms.websocketConns))
	copy(connections, ms.websocketConns)
	ms.mu.RUnlock()

	for _, syncConn := range connections {
		syncConn.mu.Lock()
		err := syncConn.conn.WriteMessage(websocket.TextMessage, []byte(ms.BinanceMock.TickerData))
		syncConn.mu.Unlock()

		if err != nil {
			ms.removeConnection(syncConn)
		}
	}
}

// removeConnection removes a closed connection from the websocketConns slice
func (ms *MockServer) removeConnection(syncConn *syncWSConn) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for j, c := range ms.websocketConns {
		if c == syncConn {
			ms.websocketConns = append(ms.websocketConns[:j], ms.websocketConns[j+1:]...)

			syncConn.mu.Lock()
			syncConn.conn.Close()
			syncConn.mu.Unlock()
			break
		}
	}
}

// GetURL returns the base URL of the mock server
func (ms *MockServer) GetURL() string {
	return ms.server.URL
}

// GetWSURL returns the WebSocket URL of the mock server
func (ms *MockServer) GetWSURL() string {
	return "ws" + strings.TrimPrefix(ms.server.URL, "http") + ms.WebSocketPath
}

func defaultCoinsListData() string {
	return `[
		{"id": "bitcoin", "symbol": "btc", "name": "Bitcoin"},
		{"id": "ethereum", "symbol": "eth", "name": "Ethereum"},
		{"id": "tether", "symbol": "usdt", "name": "Tether"},
		{"id": "", "symbol": "", "name": "Broken"}
	]`
}

func defaultExchangeInfoData() string {
	return `{
		"symbols": [
			{"symbol": "BTCUSDT", "status": "TRADING", "baseAsset": "BTC", "quoteAsset": "USDT"},
			{"symbol": "ETHUSDT", "status": "TRADING", "baseAsset": "ETH", "quoteAsset": "USDT"},
			{"symbol": "ETHBTC", "status": "TRADING", "baseAsset": "ETH", "quoteAsset": "BTC"},
			{"symbol": "LUNAUSDT", "status": "BREAK", "baseAsset": "LUNA", "quoteAsset": "USDT"}
		]
	}`
}

// defaultTickerData is a websocket !ticker@arr message
func defaultTickerData() string {
	return `[
		{"e": "24hrTicker", "E": 1587558973622, "s": "BTCUSDT", "p": "1000.00", "P": "2.00", "c": "50000.00", "o": "49000.00", "h": "51000.00", "l": "49000.00", "v": "100000.0", "q": "4950000000.0", "O": 1587472573622, "C": 1587558973622, "F": 100, "L": 200, "n": 100},
		{"e": "24hrTicker", "E": 1587558973622, "s": "ETHUSDT", "p": "100.00", "P": "4.00", "c": "2500.00", "o": "2400.00", "h": "2550.00", "l": "2390.00", "v": "50000.0", "q": "125000000.0", "O": 1587472573622, "C": 1587558973622, "F": 300, "L": 400, "n": 100}
	]`
}

// generateMarketChartData generates 30 hourly prices ending now, in the
// order CoinGecko uses
func generateMarketChartData(price float64) string {
	now := time.Now()

	var prices []string
	for i := 29; i >= 0; i-- {
		timestamp := now.Add(-time.Duration(i) * time.Hour).UnixMilli()
		prices = append(prices, fmt.Sprintf("[%d, %.2f]", timestamp, price+float64(i)))
	}

	return fmt.Sprintf(`{"prices": [%s], "market_caps": [], "total_volumes": []}`, strings.Join(prices, ","))
}

// generateKlinesData generates 24 hourly klines ending at the current hour,
// newest first to exercise sorting
func generateKlinesData(closePrice string) string {
	end := time.Now().Truncate(time.Hour)

	var klines []string
	for i := 0; i < 24; i++ {
		openTime := end.Add(-time.Duration(i) * time.Hour).UnixMilli()
		klines = append(klines, fmt.Sprintf(`[%d, "1.0", "1.0", "1.0", "%s", "10.0", %d, "10.0", 5, "1.0", "1.0", "0"]`,
			openTime, closePrice, openTime+3599999))
	}
	return "[" + strings.Join(klines, ",") + "]"
}
