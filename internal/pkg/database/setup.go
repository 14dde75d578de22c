package database

import (
	"fmt"
	"log"
	"time"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/internal/pkg/env"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var db *gorm.DB

// services every installation needs; their slugs select the plan table.
var defaultServices = []models.Service{
	{Name: "Internet", Slug: "internet"},
	{Name: "Wireless", Slug: "wireless"},
	{Name: "TV", Slug: "tv"},
}

func SetupDatabase() *gorm.DB {
	var err error
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		db, err = Open(mysql.New(mysql.Config{
			DSN:                       dsn,   // data source name
			DefaultStringSize:         256,   // default size for string fields
			DisableDatetimePrecision:  true,  // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true,  // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true,  // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false, // auto configure based on currently MySQL version
		}))
		if err == nil {
			if err = Migrate(db); err != nil {
				panic(err)
			}
			return db
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retry in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	panic(err)
}

// GetDB returns the connection opened by SetupDatabase.
func GetDB() *gorm.DB {
	return db
}

// Open connects with driver errors translated to gorm errors, so unique
// index violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

// Migrate creates or updates every table and seeds the default services.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.InternetPlan{},
		&models.WirelessPlan{},
		&models.TVPlan{},
		&models.OrderedPlansList{},
		&models.OrderedPlan{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, s := range defaultServices {
		service := s
		err := db.Where(models.Service{Slug: service.Slug}).
			Attrs(models.Service{Name: service.Name}).
			FirstOrCreate(&service).Error
		if err != nil {
			return fmt.Errorf("seed service %s: %w", s.Slug, err)
		}
	}

	return nil
}
