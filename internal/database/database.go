package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/gridfall/outbreak/internal/model"
)

// Manager handles database connections and operations.
type Manager struct {
	DB              *gorm.DB
	IsValid         bool
	ShouldSaveLocal bool
	Logger          zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		IsValid:         false,
		ShouldSaveLocal: false,
		Logger:          log,
	}
}

// Connect establishes a database connection, falling back to SQLite if
// Postgres fails.
func (m *Manager) Connect() error {
	var err error

	m.DB, err = m.GetPostgresDB()
	if err == nil {
		sqlDB, pingErr := m.DB.DB()
		if pingErr == nil {
			pingErr = sqlDB.Ping()
		}
		if pingErr == nil {
			sqlDB.SetMaxOpenConns(10)
			m.IsValid = true
			m.Logger.Info().Msg("Connected to database")
			return nil
		}
		err = pingErr
	}

	m.Logger.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
	m.ShouldSaveLocal = true
	m.DB, err = m.GetSqliteDB(viper.GetString("db.sqlitePath"))
	if err != nil || m.DB == nil {
		m.IsValid = false
		return fmt.Errorf("failed to get local SQLite DB: %s", err)
	}
	m.IsValid = true
	return nil
}

// GetPostgresDB returns a connection to the Postgres database.
func (m *Manager) GetPostgresDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		viper.GetString("db.host"),
		viper.GetString("db.port"),
		viper.GetString("db.username"),
		viper.GetString("db.password"),
		viper.GetString("db.database"),
	)

	m.Logger.Debug().Msgf("Connecting to Postgres DB at '%s'", dsn)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// GetSqliteDB returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func (m *Manager) GetSqliteDB(path string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	dsn := "file::memory:?cache=shared"
	if path != "" {
		dsn = path
	}

	db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		m.IsValid = false
		return nil, err
	}

	if path != "" {
		m.Logger.Info().Str("path", path).Msg("Using local SQLite DB")
	} else {
		m.Logger.Info().Msg("Using local SQLite DB in memory")
	}

	// set PRAGMAS
	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA cache_size = -32000;",
		"PRAGMA temp_store = MEMORY;",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %s", err)
		}
	}

	return db, nil
}

// Setup migrates the schema.
func (m *Manager) Setup() error {
	m.Logger.Info().Msg("Migrating schema")
	if err := m.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to migrate schema: %s", err)
	}

	m.Logger.Info().Msg("Database setup complete")
	return nil
}

// SavePlace upserts a geocoded place by its grid key.
func (m *Manager) SavePlace(p *model.Place) error {
	if !m.IsValid {
		return fmt.Errorf("db not valid")
	}
	return m.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "category", "lat", "lng"}),
	}).Create(p).Error
}

// FindPlace looks up a place by grid key. A miss returns (nil, nil).
func (m *Manager) FindPlace(key string) (*model.Place, error) {
	if !m.IsValid {
		return nil, fmt.Errorf("db not valid")
	}
	var p model.Place
	err := m.DB.Where("key = ?", key).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPlaces returns every persisted place, for warming the in-memory cache
// at startup.
func (m *Manager) LoadPlaces() ([]model.Place, error) {
	if !m.IsValid {
		return nil, fmt.Errorf("db not valid")
	}
	var places []model.Place
	if err := m.DB.Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

// SaveRun archives a finished run.
func (m *Manager) SaveRun(r *model.RunRecord) error {
	if !m.IsValid {
		return fmt.Errorf("db not valid")
	}
	return m.DB.Create(r).Error
}
