package main

import (
	"context"
	"fmt"

	"github.com/erain9/matchbook/pkg/backend/memory"
	"github.com/erain9/matchbook/pkg/core"
	"github.com/erain9/matchbook/pkg/messaging"
)

func main() {
	// Initialize order book with in-memory backend
	backend := memory.NewMemoryBackend()
	book := core.NewOrderBook(backend, "XYZ")
	book.SetMessageSender(messaging.NewMockMessageSender())

	ctx := context.Background()

	// Wire-format records as they would arrive from the feed
	records := []string{
		"10000 CITADEL XYZ 101.00 50 BUY",
		"10001 JANE-ST XYZ 100.00 30 SELL",
		"10002 VIRTU   XYZ 100.50 40 SELL",
	}

	for _, record := range records {
		order, err := core.ParseOrder(record)
		if err != nil {
			panic(err)
		}

		id, err := book.AddOrder(ctx, order)
		if err != nil {
			panic(err)
		}

		fmt.Printf("Accepted order %d: %s %s %s @ %s\n",
			id, order.Participant(), order.Side(), order.Size(), order.Price())
	}

	fmt.Printf("\nBook before matching:\n%s\n", book)

	trades := book.Match(ctx)

	fmt.Printf("\nExecuted %d trade(s):\n", len(trades))
	for _, trade := range trades {
		fmt.Printf("- buy #%d x sell #%d: %s @ %s\n",
			trade.BuyOrderID, trade.SellOrderID, trade.Quantity, trade.Price)
	}

	fmt.Printf("\nBook after matching:\n%s\n", book)

	if bid, ok := book.BestBid(); ok {
		fmt.Printf("\nBest bid: %s\n", bid)
	}
	if ask, ok := book.BestAsk(); ok {
		fmt.Printf("Best ask: %s\n", ask)
	}
}
