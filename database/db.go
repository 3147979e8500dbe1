package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/uslanozan/asset-smith/config"
	"github.com/uslanozan/asset-smith/logger"
	"github.com/uslanozan/asset-smith/models"
)

// InitDB: Asset veritabanına bağlanır (sqlite ise dosyayı, mysql ise veritabanını yoksa oluşturur) ve tabloyu hazırlar.
func InitDB(cfg config.DBConfig, log *logger.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg, log)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("%s bağlantı hatası: %w", cfg.Driver, err)
	}
	log.Info("database connected", "driver", cfg.Driver)

	if err := MigrateAssets(db); err != nil {
		return nil, err
	}
	log.Info("tables synchronized", "tables", "assets")
	return db, nil
}

// InitMemoryDB: Agent hafızası için ayrı sqlite dosyasını açar ve checkpoint tablosunu hazırlar.
func InitMemoryDB(path string, log *logger.Logger) (*gorm.DB, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("memory db bağlantı hatası: %w", err)
	}
	// Aynı session'a eşzamanlı yazan istekler tek bağlantı üzerinden sıraya girer.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := MigrateMemory(db); err != nil {
		return nil, err
	}
	log.Info("memory store ready", "path", path)
	return db, nil
}

// Bu komut, models klasöründeki struct'lara göre tabloları oluşturur. Seed yapmaz, sadece şemayı hazırlar.
func MigrateAssets(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Asset{}); err != nil {
		return fmt.Errorf("tablo oluşturma hatası: %w", err)
	}
	return nil
}

func MigrateMemory(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Checkpoint{}); err != nil {
		return fmt.Errorf("checkpoint tablosu oluşturma hatası: %w", err)
	}
	return nil
}

// Ping, healthcheck için havuzdaki bağlantıyı yoklar.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ---------------------- HELPERS ----------------------

func gormConfig(log *logger.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: logger.NewGormLogger(log, gormlogger.Warn),
	}
}

func dialectorFor(cfg config.DBConfig, log *logger.Logger) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if err := ensureDir(cfg.DSN); err != nil {
			return nil, err
		}
		return sqlite.Open(sqliteDSN(cfg.DSN)), nil
	case config.DriverMySQL:
		ensureMySQLDatabase(cfg.DSN, log)
		return mysql.Open(cfg.DSN), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("desteklenmeyen db driver: %q", cfg.Driver)
	}
}

// Her iki sqlite dosyası da aynı ayarlarla açılır: yazma transaction'ı BEGIN IMMEDIATE ile
// baştan kilit alır, kilitli dosyada 5 sn beklenir, WAL sayesinde okuyucular yazarı engellemez.
const sqlitePragmas = "_txlock=immediate&_busy_timeout=5000&_journal_mode=WAL"

// sqliteDSN dosya yoluna bağlantı ayarlarını ekler. DSN'de zaten parametre varsa sonuna eklenir.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqlitePragmas
	}
	return path + "?" + sqlitePragmas
}

// ensureDir sqlite dosyasının klasörünü oluşturur. ":memory:" ve "file:" DSN'lerine dokunmaz.
func ensureDir(path string) error {
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("veritabanı klasörü oluşturulamadı (%s): %w", dir, err)
	}
	return nil
}

// ensureMySQLDatabase veritabanı yoksa root DSN üzerinden oluşturur. Başarısız olursa asıl bağlantı hatayı raporlar.
func ensureMySQLDatabase(dsn string, log *logger.Logger) {
	rootDSN, dbName, ok := splitMySQLDSN(dsn)
	if !ok {
		return
	}
	tempDB, err := gorm.Open(mysql.Open(rootDSN), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		log.Warn("mysql root connection failed, skipping create database", "error", err)
		return
	}
	defer Close(tempDB)

	log.Info("checking database", "name", dbName)
	// dbName env'den geliyor ve splitMySQLDSN sadece isim karakterlerine izin veriyor
	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci;", dbName)
	if err := tempDB.Exec(stmt).Error; err != nil {
		log.Warn("create database failed", "name", dbName, "error", err)
	}
}

// splitMySQLDSN "user:pass@tcp(addr)/dbname?params" DSN'ini "user:pass@tcp(addr)/?params" ve "dbname" olarak ayırır.
func splitMySQLDSN(dsn string) (rootDSN, dbName string, ok bool) {
	idx := strings.LastIndex(dsn, "/")
	if idx < 0 {
		return "", "", false
	}
	prefix, rest := dsn[:idx+1], dsn[idx+1:]

	params := ""
	if q := strings.Index(rest, "?"); q >= 0 {
		rest, params = rest[:q], rest[q+1:]
	}
	dbName = strings.TrimSpace(rest)
	if dbName == "" || !validIdentifier(dbName) {
		return "", "", false
	}

	rootDSN = prefix
	if params != "" {
		rootDSN += "?" + params
	}
	return rootDSN, dbName, true
}

func validIdentifier(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
