package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

type OrderItem struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Order struct {
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Items         []OrderItem `json:"items"`
}

var customers = []struct {
	name  string
	email string
}{
	{"Alice Johnson", "alice@example.com"},
	{"Bob Williams", "bob@example.com"},
	{"Carol Davis", "carol@example.com"},
	{"Dave Miller", "dave@example.com"},
}

var catalog = []OrderItem{
	{ProductName: "Laptop", Price: 1299.99},
	{ProductName: "Wireless Mouse", Price: 29.99},
	{ProductName: "Smartphone", Price: 899.99},
	{ProductName: "Headphones", Price: 199.99},
	{ProductName: "Keyboard", Price: 79.99},
	{ProductName: "Monitor", Price: 349.99},
}

func generateRandomOrder() Order {
	customer := customers[rand.Intn(len(customers))]

	items := make([]OrderItem, 0, 3)
	for n := 1 + rand.Intn(3); n > 0; n-- {
		item := catalog[rand.Intn(len(catalog))]
		item.Quantity = 1 + rand.Intn(3)
		items = append(items, item)
	}

	return Order{
		CustomerName:  customer.name,
		CustomerEmail: customer.email,
		Items:         items,
	}
}

const producers = 4

func main() {
	writer := &kafka.Writer{
		Addr:  kafka.TCP("localhost:9092"),
		Topic: "orders",
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < producers; i++ {
		i := i
		g.Go(func() error { return produce(ctx, writer, i) })
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}

func produce(ctx context.Context, writer *kafka.Writer, id int) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			order := generateRandomOrder()
			data, err := json.Marshal(order)
			if err != nil {
				return err
			}
			if err := writer.WriteMessages(ctx, kafka.Message{Value: data}); err != nil {
				return fmt.Errorf("producer %d: %w", id, err)
			}
			log.Println("order generated", order.CustomerName, len(order.Items), "items")
		case <-ctx.Done():
			return nil
		}
	}
}
