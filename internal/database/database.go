package database

import (
	"log/slog"
	"time"

	"upkeep/config"
	"upkeep/internal/models"
	"upkeep/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// HistoryRow is the local persistence shape for a HistoryEntry. The cache is
// append-only: rows are inserted on every logged mutation and read back once
// at startup.
type HistoryRow struct {
	ID        string    `gorm:"type:text;primaryKey"`
	Timestamp time.Time `gorm:"index;not null"`
	Action    string    `gorm:"type:text;not null"`
	ItemType  string    `gorm:"type:text;not null"`
	ItemName  string    `gorm:"type:text;not null"`
	PhotoURL  string    `gorm:"type:text"`
}

func (HistoryRow) TableName() string {
	return "history_entries"
}

type DB struct {
	SQL *gorm.DB
	log logger.Logger
}

func New(config config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	gormConfig := &gorm.Config{
		Logger: gormLogger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
			},
		),
		SkipDefaultTransaction: true,
	}

	sql, err := gorm.Open(sqlite.Open(config.LocalCachePath), gormConfig)
	if err != nil {
		return DB{}, log.Err("failed to open local cache database", err, "path", config.LocalCachePath)
	}

	if err := sql.AutoMigrate(&HistoryRow{}); err != nil {
		return DB{}, log.Err("failed to migrate local cache database", err)
	}

	log.Info("Initialized local cache database", "path", config.LocalCachePath)
	return DB{SQL: sql, log: logger.New("database")}, nil
}

// AppendHistory inserts one history entry. Entries are never updated or
// deleted.
func (db DB) AppendHistory(entry models.HistoryEntry) error {
	row := HistoryRow{
		ID:        entry.ID.String(),
		Timestamp: entry.Timestamp,
		Action:    string(entry.Action),
		ItemType:  string(entry.ItemType),
		ItemName:  entry.ItemName,
		PhotoURL:  entry.PhotoURL,
	}

	if err := db.SQL.Create(&row).Error; err != nil {
		return db.log.Err("failed to append history entry", err, "id", row.ID)
	}
	return nil
}

// LoadHistory returns all cached history entries, newest first.
func (db DB) LoadHistory() ([]models.HistoryEntry, error) {
	log := db.log.Function("LoadHistory")

	var rows []HistoryRow
	if err := db.SQL.Order("timestamp desc").Find(&rows).Error; err != nil {
		return nil, log.Err("failed to load history entries", err)
	}

	entries := make([]models.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			log.Warn("Skipping history row with invalid id", "id", row.ID)
			continue
		}
		entries = append(entries, models.HistoryEntry{
			ID:        id,
			Timestamp: row.Timestamp,
			Action:    models.HistoryAction(row.Action),
			ItemType:  models.HistoryItemType(row.ItemType),
			ItemName:  row.ItemName,
			PhotoURL:  row.PhotoURL,
		})
	}

	return entries, nil
}

func (db DB) Close() error {
	if db.SQL == nil {
		return nil
	}

	sqlDB, err := db.SQL.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
