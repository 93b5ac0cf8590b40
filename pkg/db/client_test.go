package db

import (
	"context"
	"testing"

	"github.com/Marshal-AM/cumadmin/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestNew_SQLiteDriver(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: "sqlite",
	}, nil)
	if err != nil {
		t.Fatalf("New with sqlite driver failed: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNew_RequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestClientExecutesQueries(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	if err := client.DB().Create(&testModel{Name: "created"}).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var count int64
	if err := client.DB().Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}
}
