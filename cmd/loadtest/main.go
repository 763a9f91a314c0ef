package main

import (
	"context"
	"fmt"
	stdlog "log"
	"math/rand"
	"os"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/fatih/color"
	"github.com/nikolaydubina/fpdecimal"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/erain9/matchbook/config"
	"github.com/erain9/matchbook/pkg/backend/memory"
	"github.com/erain9/matchbook/pkg/core"
	"github.com/erain9/matchbook/pkg/logging"
	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/erain9/matchbook/pkg/messaging/kafka"
	"github.com/erain9/matchbook/pkg/otel"
)

// loadConfig holds the load test parameters, read from environment
// variables
type loadConfig struct {
	Security    string
	NumOrders   int
	PriceLevels int
	MidPrice    float64
	MaxSize     int64
	MatchEvery  int
	RateLimit   int
	Sender      string
	OtelEnabled bool
}

func loadTestConfig(security string) loadConfig {
	v := viper.New()

	v.SetDefault("LOADTEST_SECURITY", security)
	v.SetDefault("LOADTEST_NUM_ORDERS", 100000)
	v.SetDefault("LOADTEST_PRICE_LEVELS", 50)
	v.SetDefault("LOADTEST_MID_PRICE", 100.0)
	v.SetDefault("LOADTEST_MAX_SIZE", 100)
	v.SetDefault("LOADTEST_MATCH_EVERY", 10)
	v.SetDefault("LOADTEST_RATE_LIMIT", 0)
	v.SetDefault("LOADTEST_SENDER", "mock")
	v.SetDefault("LOADTEST_OTEL", false)

	v.AutomaticEnv()

	return loadConfig{
		Security:    v.GetString("LOADTEST_SECURITY"),
		NumOrders:   v.GetInt("LOADTEST_NUM_ORDERS"),
		PriceLevels: v.GetInt("LOADTEST_PRICE_LEVELS"),
		MidPrice:    v.GetFloat64("LOADTEST_MID_PRICE"),
		MaxSize:     v.GetInt64("LOADTEST_MAX_SIZE"),
		MatchEvery:  v.GetInt("LOADTEST_MATCH_EVERY"),
		RateLimit:   v.GetInt("LOADTEST_RATE_LIMIT"),
		Sender:      v.GetString("LOADTEST_SENDER"),
		OtelEnabled: v.GetBool("LOADTEST_OTEL"),
	}
}

// newSender picks the trade publisher: the in-memory recorder by default,
// or the kafka-go writer when pointed at a live broker.
func newSender(kind string, appCfg *config.Config) (messaging.MessageSender, error) {
	if kind == "kafka" {
		return kafka.NewKafkaMessageSender(appCfg.Kafka.BrokerAddr, appCfg.Kafka.Topic)
	}
	return messaging.NewMockMessageSender(), nil
}

func main() {
	appCfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Setup(logging.Config{
		Level:  appCfg.Server.LogLevel,
		Pretty: appCfg.Server.LogFormat == "pretty",
		Output: os.Stderr,
	})

	cfg := loadTestConfig(appCfg.Book.Security)
	ctx := context.Background()

	cleanup, err := otel.Init(otel.Config{
		ServiceVersion:   "0.1.0",
		CollectorEnabled: cfg.OtelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OpenTelemetry")
	}
	defer cleanup()

	book := core.NewOrderBook(memory.NewMemoryBackend(), cfg.Security)

	sender, err := newSender(cfg.Sender, appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create trade sender")
	}
	defer sender.Close()
	book.SetMessageSender(sender)

	// The book has a single writer, so one goroutine drives all orders
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	addLatency := hdrhistogram.New(1, 10_000_000_000, 3)
	matchLatency := hdrhistogram.New(1, 10_000_000_000, 3)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Info().
		Str("security", cfg.Security).
		Int("orders", cfg.NumOrders).
		Int("price_levels", cfg.PriceLevels).
		Int("match_every", cfg.MatchEvery).
		Msg("Starting load test")

	var totalTrades int
	start := time.Now()

	for i := 0; i < cfg.NumOrders; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				log.Fatal().Err(err).Msg("Rate limiter error")
			}
		}

		side := core.Buy
		if rng.Intn(2) == 0 {
			side = core.Sell
		}

		// Spread prices around the mid so both crossing and resting
		// orders occur
		offset := float64(rng.Intn(cfg.PriceLevels)-cfg.PriceLevels/2) * 0.01
		price := fpdecimal.FromFloat(cfg.MidPrice + offset)
		size := rng.Int63n(cfg.MaxSize) + 1

		order, err := core.NewOrder(int64(i+1), "LOADGEN", cfg.Security, price, size, side)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build order")
		}

		addStart := time.Now()
		if _, err := book.AddOrder(ctx, order); err != nil {
			log.Fatal().Err(err).Msg("Failed to add order")
		}
		_ = addLatency.RecordValue(time.Since(addStart).Nanoseconds())

		if cfg.MatchEvery > 0 && (i+1)%cfg.MatchEvery == 0 {
			matchStart := time.Now()
			trades := book.Match(ctx)
			_ = matchLatency.RecordValue(time.Since(matchStart).Nanoseconds())
			totalTrades += len(trades)
		}
	}

	// Final sweep so nothing crossing is left behind
	totalTrades += len(book.Match(ctx))
	elapsed := time.Since(start)

	printResults(cfg, elapsed, totalTrades, addLatency, matchLatency, book)
}

func printResults(cfg loadConfig, elapsed time.Duration, totalTrades int, addLatency, matchLatency *hdrhistogram.Histogram, book *core.OrderBook) {
	green := color.New(color.FgGreen).SprintfFunc()
	cyan := color.New(color.FgCyan).SprintfFunc()

	fmt.Println(green("Load test completed in %v", elapsed))
	fmt.Println(cyan("Throughput: %.0f orders/sec", float64(cfg.NumOrders)/elapsed.Seconds()))
	fmt.Printf("Orders: %d, Trades: %d\n", cfg.NumOrders, totalTrades)
	fmt.Printf("Resting: %d bids, %d asks\n", book.Len(core.Buy), book.Len(core.Sell))

	fmt.Println("\nAddOrder latency (µs):")
	printHistogram(addLatency)
	fmt.Println("\nMatch latency (µs):")
	printHistogram(matchLatency)
}

func printHistogram(h *hdrhistogram.Histogram) {
	fmt.Printf("  p50=%.1f p90=%.1f p99=%.1f p99.9=%.1f max=%.1f\n",
		float64(h.ValueAtQuantile(50))/1000.0,
		float64(h.ValueAtQuantile(90))/1000.0,
		float64(h.ValueAtQuantile(99))/1000.0,
		float64(h.ValueAtQuantile(99.9))/1000.0,
		float64(h.Max())/1000.0)
}
