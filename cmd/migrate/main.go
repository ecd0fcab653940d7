package main

import (
	"fmt"
	"log"
	"os"
	"time"

	cfg "pinpoint-provisioner/internal/config"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// provisioningRun mirrors the row layout the repository reads and writes.
type provisioningRun struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ApplicationID   string         `gorm:"index"`
	ApplicationName string
	Channels        pq.StringArray `gorm:"type:text[]"`
	CSVURL          string         `gorm:"column:csv_url"`
	Status          string         `gorm:"index"`
	BaseSegmentID   string         `gorm:"column:base_segment_id"`
	EmailSegmentID  string         `gorm:"column:email_segment_id"`
	SMSSegmentID    string         `gorm:"column:sms_segment_id"`
	LastError       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (provisioningRun) TableName() string { return "provisioning_runs" }

func main() {
	conf := cfg.FromEnv()

	fmt.Println("🔗 Connecting to database...")
	fmt.Println("DSN:", conf.DatabaseURL)

	db, err := gorm.Open(postgres.Open(conf.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect: %v", err)
	}

	sqlDB, _ := db.DB()
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("❌ Failed to ping database: %v", err)
	}

	fmt.Println("✅ Connected to database")
	fmt.Println("🔄 Running migrations...")

	if err := db.AutoMigrate(&provisioningRun{}); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	fmt.Println("✅ Migration complete!")
	fmt.Println("")
	fmt.Println("📊 Checking tables...")

	var tables []string
	db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables)

	if len(tables) == 0 {
		fmt.Println("⚠️  No tables found")
		os.Exit(1)
	}

	fmt.Println("✅ Tables created:")
	for _, table := range tables {
		fmt.Printf("  - %s\n", table)
	}

	fmt.Println("")
	fmt.Println("🎉 Database ready!")
}
