package db

import (
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	constant "votehub.xyz/votecollector-service/pkg/common"
	"votehub.xyz/votecollector-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

func GetInstance(dialector gorm.Dialector) *DB {
	var logger = constant.GetLogger()
	once.Do(func() {
		conn, err := gorm.Open(dialector, &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

		instance = &DB{Conn: conn}

		err = instance.Conn.AutoMigrate(
			&models.Collector{},
			&models.Seat{},
			&models.Participant{},
			&models.Keypad{},
			&models.Poll{},
			&models.Candidate{},
			&models.VoteRecord{},
			&models.SpeakerEntry{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}

		logger.Info("Database migration completed")

		if err := instance.Conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			log.Fatal("Failed to enable sqlite foreign key support", err)
		}

		if err := instance.Conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			log.Fatal("Failed to set sqlite journal mode", err)
		}

		// The session record is a singleton; make sure the row exists so
		// all transitions can be conditional updates against it.
		seed := models.Collector{ID: models.CollectorID, VotingMode: models.ModeNone}
		if err := instance.Conn.FirstOrCreate(&seed, models.Collector{ID: models.CollectorID}).Error; err != nil {
			log.Fatal("Failed to seed collector row:", err)
		}

		logger.Info("Collector row ready", zap.Uint("id", models.CollectorID))
	})
	return instance
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(constant.EnvKeyVCDbPath); !found {
		dbPath = "votecollector.db"
	}
	return sqlite.Open(dbPath)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}
