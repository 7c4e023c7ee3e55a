package db

import (
	"time"

	"skinviz/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init opens MySQL when a DSN is given, SQLite otherwise. An empty SQLite file
// name keeps the database in memory.
func Init(mysqlDSN, sqliteFile string) error {
	var dialector gorm.Dialector
	if mysqlDSN != "" {
		dialector = mysql.Open(mysqlDSN)
	} else {
		if sqliteFile == "" {
			sqliteFile = "file::memory:?cache=shared"
		}
		dialector = sqlite.Open(sqliteFile)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger: gormlogger.New(logger.L(), gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return err
	}
	Instance = db
	logger.Info(logger.Fields{"dialect": dialector.Name()}, "Database ready")
	return nil
}
