package main

import (
	"fmt"
	"log"
	"os"

	"github.com/xelth-com/esimchatgo/internal/config"
	"github.com/xelth-com/esimchatgo/internal/database"
	"github.com/xelth-com/esimchatgo/internal/models"
	"github.com/xelth-com/esimchatgo/internal/utils"
)

const demoOrdersCSV = `Order Number ,email,ICCID,GEO,Data,Validity,Price ,Currency,LPA
15622,alice@example.com,8937204016180003021,Turkey,10GB,30 days,19.90,USD,LPA:1$smdp.example.com$TR-15622
15623,bob@example.com,8937204016180003022,Spain,5GB,15 days,12.50,EUR,LPA:1$smdp.example.com$ES-15623
15624,alice@example.com,8937204016180003023,Italy,20GB,30 days,29.00,USD,LPA:1$smdp.example.com$IT-15624
15701,carol@example.com,8937204016180003101,Japan,3GB,7 days,9.90,USD,LPA:1$smdp.example.com$JP-15701
15702,dave@example.com,8937204016180003102,USA,Unlimited,30 days,49.00,USD,LPA:1$smdp.example.com$US-15702
`

func main() {
	fmt.Println("🌱 eSIM Chat Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// 1. Demo orders CSV
	path := cfg.Orders.FallbackPath
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("⚠️  %s already exists, leaving it in place\n", path)
	} else {
		if err := os.WriteFile(path, []byte(demoOrdersCSV), 0o644); err != nil {
			log.Fatalf("❌ Failed to write demo orders: %v", err)
		}
		fmt.Printf("✅ Wrote demo orders to %s\n", path)
	}

	// 2. Admin user
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.UserAuth{}, &models.ChatSettings{}); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	var count int64
	db.Model(&models.UserAuth{}).Where("email = ?", "admin@example.com").Count(&count)
	if count > 0 {
		fmt.Println("⚠️  Admin user already exists, skipping")
	} else {
		password := os.Getenv("SEED_ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			log.Fatalf("❌ Failed to hash password: %v", err)
		}
		admin := models.UserAuth{
			Username: "admin",
			Email:    "admin@example.com",
			Password: hash,
			Name:     "Demo Admin",
			Role:     "admin",
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("❌ Failed to create admin user: %v", err)
		}
		fmt.Println("✅ Created admin user admin@example.com")
	}

	fmt.Println()
	fmt.Println("🚀 Start the server:")
	fmt.Println("   go run ./cmd/api")
	fmt.Println("   Then visit: http://localhost:3000")
}
