package binance

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/events"
	"github.com/status-im/crypto-converter/interfaces"
)

// StreamService feeds live tickers into a QuotesManager. The watch list
// follows the coin catalog: it is rebuilt every time the catalog changes.
type StreamService struct {
	config        config.BinanceConfig
	quotes        *QuotesManager
	catalog       interfaces.CatalogProvider
	catalogEvents events.ISubscriptionManager
	stream        *StreamClient

	mu           sync.Mutex
	subscription events.ISubscription
}

// NewStreamService creates the stream service
func NewStreamService(cfg config.BinanceConfig, quotes *QuotesManager, catalog interfaces.CatalogProvider, catalogEvents events.ISubscriptionManager) *StreamService {
	return &StreamService{
		config:        cfg,
		quotes:        quotes,
		catalog:       catalog,
		catalogEvents: catalogEvents,
		stream:        NewStreamClient(cfg.WSURL, quotes.UpdateQuotes),
	}
}

// Quotes returns the quotes manager fed by this service
func (s *StreamService) Quotes() *QuotesManager {
	return s.quotes
}

// Start implements core.Interface
func (s *StreamService) Start(ctx context.Context) error {
	if !s.config.StreamEnabled {
		log.Printf("BinanceStream: disabled")
		return nil
	}

	s.mu.Lock()
	if s.catalogEvents != nil {
		s.subscription = s.catalogEvents.Subscribe().Watch(ctx, s.updateWatchList, true)
	} else {
		s.updateWatchList()
	}
	s.mu.Unlock()

	s.stream.Start(ctx)
	return nil
}

// Stop implements core.Interface
func (s *StreamService) Stop() {
	s.mu.Lock()
	if s.subscription != nil {
		s.subscription.Cancel()
		s.subscription = nil
	}
	s.mu.Unlock()

	if s.config.StreamEnabled {
		s.stream.Stop()
	}
}

func (s *StreamService) updateWatchList() {
	coins := s.catalog.Catalog()

	seen := make(map[string]struct{}, len(coins))
	symbols := make([]string, 0, len(coins))
	for _, coin := range coins {
		symbol := strings.ToUpper(coin.Symbol)
		if symbol == "" {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	}

	s.quotes.SetWatchList(symbols, strings.ToUpper(s.config.QuoteAsset))
	log.Printf("BinanceStream: watching %d symbols", len(symbols))
}
