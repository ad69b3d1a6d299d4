// Command main runs the database seeder for OAC Market.
package main

import (
	"flag"
	"log"

	"oacmarket/internal/config"
	"oacmarket/internal/database"
	"oacmarket/internal/seed"
)

func main() {
	numSellers := flag.Int("sellers", 5, "Number of sellers (each with one store) to create")
	numBuyers := flag.Int("buyers", 10, "Number of buyers to create")
	productsPerStore := flag.Int("products", 4, "Number of products per store")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d sellers, %d buyers, %d products/store, clean=%v\n",
		*numSellers, *numBuyers, *productsPerStore, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumSellers:       *numSellers,
		NumBuyers:        *numBuyers,
		ProductsPerStore: *productsPerStore,
		ShouldClean:      *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
