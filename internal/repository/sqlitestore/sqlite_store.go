// Package sqlitestore keeps links in an SQLite database through gorm.
package sqlitestore

import (
	"context"
	"fmt"

	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// saveBatchSize bounds the number of rows per INSERT statement.
const saveBatchSize = 100

// link is a row of the links table.
type link struct {
	ShortCode string `gorm:"primaryKey"`
	URL       string `gorm:"not null"`
}

func (link) TableName() string {
	return "links"
}

// LinkRepository stores every link as a row of the links table.
type LinkRepository struct {
	db *gorm.DB
}

// Open opens or creates the database file at path and migrates the schema.
func Open(path string) (*LinkRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %w", err)
	}

	if err = db.AutoMigrate(&link{}); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}

	return NewLinkRepository(db)
}

// NewLinkRepository wraps an already migrated database.
func NewLinkRepository(db *gorm.DB) (*LinkRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: database", errs.ErrNilDependency)
	}
	return &LinkRepository{db: db}, nil
}

// Load selects every stored link.
func (r *LinkRepository) Load(ctx context.Context) (models.Links, error) {
	var rows []link
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}

	links := make(models.Links, len(rows))
	for _, row := range rows {
		links[row.ShortCode] = row.URL
	}

	return links, nil
}

// Save replaces every row with the given links in one transaction.
func (r *LinkRepository) Save(ctx context.Context, links models.Links) error {
	rows := make([]link, 0, len(links))
	for code, url := range links {
		rows = append(rows, link{ShortCode: code, URL: url})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&link{}).Error; err != nil {
			return fmt.Errorf("delete links: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, saveBatchSize).Error; err != nil {
			return fmt.Errorf("insert links: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save links: %w", err)
	}

	return nil
}

// Ping checks the database connection.
func (r *LinkRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrDBNotConnected, err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrDBNotConnected, err)
	}
	return nil
}

// Close closes the underlying database.
func (r *LinkRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
