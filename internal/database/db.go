package database

import (
	"os"
	"time"

	"go-furnish-pos/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set. Configure the database connection in .env")
	}

	var err error

	// Wait for the DB to come up (docker compose starts both at once)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.WithError(err).Warnf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database after 5 attempts")
	}

	log.Info("Connected to MySQL")

	if err := Migrate(DB); err != nil {
		log.WithError(err).Fatal("Failed to migrate database schema")
	}

	log.Info("Database schema synced")
}

// Migrate keeps the schema in step with the models. Shared with the test
// setup, which runs the same migration against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Product{},
		&models.Customer{},
		&models.CustomerImage{},
		&models.Sale{},
		&models.SaleItem{},
		&models.HirePurchaseContract{},
		&models.HirePurchaseItem{},
		&models.InstallmentPayment{},
		&models.InstallmentReceipt{},
		&models.InventoryMovement{},
		&models.ProductTransfer{},
		&models.BranchExpense{},
	)
}
