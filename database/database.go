package database

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ballpark-api/logging"
	"ballpark-api/models"
)

// Initialize opens the database handle for driver. The caller owns the
// handle and must Close it at shutdown.
func Initialize(driver, databaseURL, logLevel string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(databaseURL)
	case "postgres":
		dialector = postgres.Open(databaseURL)
	case "sqlite":
		dialector = sqlite.Open(databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(gormLogLevel(logLevel)),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		// A single connection keeps in-memory databases shared and avoids
		// SQLITE_BUSY on concurrent writers.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Migrate(db *gorm.DB) error {
	// Unique pairs and composite indexes are declared on the models so they
	// are created the same way on every driver.
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostHashtag{},
		&models.Follow{},
		&models.Block{},
		&models.Like{},
		&models.Comment{},
		&models.SavedPost{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// SeedData populates an empty database with a few fans for development.
func SeedData(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		logging.Info().Msg("database already has data, skipping seed")
		return nil
	}

	team := "Chicago Cubs"
	otherTeam := "New York Yankees"
	player := "Shohei Ohtani"
	city := "Chicago"

	testUsers := []models.User{
		{ID: "user-1", Username: "wrigley_fan", Name: "Casey Diaz", Email: "casey@example.com", FavoriteTeam: &team, Location: &city},
		{ID: "user-2", Username: "bleacher_bum", Name: "Jordan Lee", Email: "jordan@example.com", FavoriteTeam: &team, FavoritePlayer: &player},
		{ID: "user-3", Username: "bronx_bomber", Name: "Sam Park", Email: "sam@example.com", FavoriteTeam: &otherTeam},
	}
	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			logging.Warn().Err(err).Str("username", user.Username).Msg("could not create seed user")
		}
	}

	content := "Opening day at Wrigley! #ChicagoCubs #OpeningDay"
	seedPost := models.Post{
		ID:       "post-1",
		AuthorID: "user-2",
		Content:  &content,
		Hashtags: models.StringSlice{"ChicagoCubs", "OpeningDay"},
	}
	if err := db.Create(&seedPost).Error; err != nil {
		logging.Warn().Err(err).Msg("could not create seed post")
	}
	for _, tag := range seedPost.Hashtags {
		db.Create(&models.PostHashtag{PostID: seedPost.ID, Tag: tag})
	}

	logging.Info().Int("users", len(testUsers)).Msg("database seeded with test data")
	return nil
}
