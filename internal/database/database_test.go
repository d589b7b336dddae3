package database

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm/schema"

	"github.com/example/catalogadmin/internal/models"
)

func TestConnectSqliteMigrates(t *testing.T) {
	db, err := Connect(Options{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "catalog.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}

	for _, table := range []interface{}{&models.Store{}, &models.Category{}, &models.Brand{}, &models.Product{}, &models.Image{}, &models.Blog{}} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table for %T", table)
		}
	}

	store := models.Store{Name: "Main", UserID: "user_1"}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	product := models.Product{
		StoreID:     store.ID,
		Name:        "Lamp",
		ProductSlug: "lamp",
		Price:       decimal.RequireFromString("19.99"),
		Images:      []models.Image{{URL: "https://img/1.png"}},
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	var loaded models.Product
	if err := db.Preload("Images").First(&loaded, "product_slug = ?", "lamp").Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if !loaded.Price.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("expected price 19.99, got %s", loaded.Price)
	}
	if len(loaded.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(loaded.Images))
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	if _, err := Connect(Options{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestEnsureDatabaseSkipsNonPostgres(t *testing.T) {
	if err := ensureDatabase("file:catalog.db"); err != nil {
		t.Fatalf("expected nil for non-postgres dsn, got %v", err)
	}
}

func TestMySQLColumnTypes(t *testing.T) {
	dialector := mysql.New(mysql.Config{})
	for _, model := range []interface{}{&models.Store{}, &models.Category{}, &models.Brand{}, &models.Product{}, &models.Image{}, &models.Blog{}} {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		if err != nil {
			t.Fatalf("parse %T: %v", model, err)
		}
		for _, name := range s.DBNames {
			field := s.FieldsByDBName[name]
			colType := strings.ToLower(dialector.DataTypeOf(field))
			if colType == "uuid" {
				t.Fatalf("%s.%s uses a postgres-only type", s.Table, name)
			}
			_, indexed := field.TagSettings["INDEX"]
			_, unique := field.TagSettings["UNIQUEINDEX"]
			if (field.PrimaryKey || indexed || unique) && strings.Contains(colType, "text") {
				t.Fatalf("%s.%s is indexed but maps to %s", s.Table, name, colType)
			}
		}
	}
}

func TestMySQLDSNEnablesParseTime(t *testing.T) {
	dsn, err := mysqlDSN("catalog:secret@tcp(localhost:3306)/catalog")
	if err != nil {
		t.Fatalf("mysqlDSN returned error: %v", err)
	}
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("parse %q: %v", dsn, err)
	}
	if !cfg.ParseTime || cfg.DBName != "catalog" || cfg.User != "catalog" {
		t.Fatalf("unexpected config from %q: %+v", dsn, cfg)
	}

	if _, err := mysqlDSN("not a dsn"); err == nil {
		t.Fatalf("expected error for malformed dsn")
	}
}
