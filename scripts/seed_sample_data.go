//go:build ignore

// Seeds the flat-file store with sample orders and contact messages.
//
//	go run scripts/seed_sample_data.go [data-dir]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"dosadelight/internal/model"
	"dosadelight/internal/service"
	"dosadelight/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	dataDir := "data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	ctx := context.Background()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	fileStore := store.NewFileStore(dataDir, nil, logger)
	for _, c := range store.Collections {
		if err := fileStore.Ensure(ctx, c); err != nil {
			log.Fatalf("Failed to prepare %s: %v", c, err)
		}
	}

	svc := service.NewSubmissionService(fileStore, nil, logger)

	orders := []model.Order{
		{
			CustomerDetails: model.CustomerDetails{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876500001", Address: "12 MG Road, Bengaluru"},
			Items: []model.CartItem{
				{ID: "d1", Name: "Masala Dosa", Description: "Crisp dosa with potato masala", Price: "₹120", Category: "dosa", Quantity: 2, IsVeg: true},
				{ID: "c1", Name: "Filter Coffee", Description: "Strong South Indian coffee", Price: "₹40", Category: "drinks", Quantity: 2, IsVeg: true},
			},
			Total: 320,
		},
		{
			CustomerDetails: model.CustomerDetails{Name: "Karthik", Email: "karthik@example.com", Phone: "9876500002", Address: "4 Anna Salai, Chennai", Notes: "Extra spicy"},
			Items: []model.CartItem{
				{ID: "d7", Name: "Chicken Ghee Roast Dosa", Description: "Mangalorean ghee roast", Price: "₹220", Category: "dosa", Quantity: 1, IsSpicy: true},
			},
			Total: 220,
		},
	}

	contacts := []model.Contact{
		{Name: "Meera", Email: "meera@example.com", Phone: "9876500003", Message: "Do you cater for weddings?"},
		{Name: "John", Email: "john@example.com", Message: "Best sambar in town!"},
	}

	for _, o := range orders {
		doc, err := toDocument(o)
		if err != nil {
			log.Fatalf("Failed to encode order: %v", err)
		}
		id, err := svc.SubmitOrder(ctx, doc)
		if err != nil {
			log.Fatalf("Failed to save order: %v", err)
		}
		fmt.Printf("Created order %s\n", id)

		// Identifiers are millisecond timestamps.
		time.Sleep(2 * time.Millisecond)
	}

	for _, c := range contacts {
		doc, err := toDocument(c)
		if err != nil {
			log.Fatalf("Failed to encode contact: %v", err)
		}
		id, err := svc.SubmitContact(ctx, doc)
		if err != nil {
			log.Fatalf("Failed to save contact: %v", err)
		}
		fmt.Printf("Created contact %s\n", id)
		time.Sleep(2 * time.Millisecond)
	}

	fmt.Println("\nSample data created successfully!")
}

func toDocument(v any) (model.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return model.ParseDocument(data)
}
