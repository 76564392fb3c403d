package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type historyModel struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	Category  string    `gorm:"column:category;not null"`
	Lat       *float64  `gorm:"column:lat"`
	Lon       *float64  `gorm:"column:lon"`
	Result    string    `gorm:"column:result;type:jsonb;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index"`
}

func (historyModel) TableName() string { return "recommendation_histories" }

// PostgresStore implements ports.HistoryStore on Postgres through GORM.
type PostgresStore struct {
	db *gorm.DB
	stamper
}

// NewPostgresStore connects to databaseURL and migrates the history table.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(15 * time.Minute)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&historyModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate history table: %w", err)
	}
	return &PostgresStore{db: db, stamper: defaultStamper()}, nil
}

// Save inserts one record.
func (s *PostgresStore) Save(ctx context.Context, category string, lat, lon *float64, result entities.RecommendationResult) (rec entities.HistoryRecord, err error) {
	defer func() { observeSave("postgres", err) }()

	rec = s.record(category, lat, lon, result)
	model, err := toModel(rec)
	if err != nil {
		return entities.HistoryRecord{}, unavailable(opSave, err)
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isPostgresUnique(err) {
			return entities.HistoryRecord{}, conflict(err)
		}
		return entities.HistoryRecord{}, unavailable(opSave, err)
	}
	return rec, nil
}

// List returns every record, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]entities.HistoryRecord, error) {
	var models []historyModel
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, unavailable(opList, err)
	}

	records := make([]entities.HistoryRecord, 0, len(models))
	for _, m := range models {
		rec, err := fromModel(m)
		if err != nil {
			return nil, unavailable(opList, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toModel(rec entities.HistoryRecord) (historyModel, error) {
	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return historyModel{}, err
	}
	return historyModel{
		ID:        rec.ID,
		Category:  rec.Category,
		Lat:       rec.Lat,
		Lon:       rec.Lon,
		Result:    string(payload),
		CreatedAt: rec.CreatedAt,
	}, nil
}

func fromModel(m historyModel) (entities.HistoryRecord, error) {
	rec := entities.HistoryRecord{
		ID:        m.ID,
		Category:  m.Category,
		Lat:       m.Lat,
		Lon:       m.Lon,
		CreatedAt: m.CreatedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(m.Result), &rec.Result); err != nil {
		return entities.HistoryRecord{}, fmt.Errorf("decoding result of %s: %w", m.ID, err)
	}
	return rec, nil
}

func isPostgresUnique(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
