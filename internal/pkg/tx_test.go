package pkg

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type txRecord struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&txRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func countRecords(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&txRecord{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWithTx_Commit(t *testing.T) {
	db := newSQLiteDB(t)

	err := WithTx(db, func(tx *gorm.DB) error {
		return tx.Create(&txRecord{Name: "kept"}).Error
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if n := countRecords(t, db); n != 1 {
		t.Errorf("records = %d; want 1 after commit", n)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := newSQLiteDB(t)
	wantErr := errors.New("halt")

	err := WithTx(db, func(tx *gorm.DB) error {
		if err := tx.Create(&txRecord{Name: "discarded"}).Error; err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v; want %v", err, wantErr)
	}
	if n := countRecords(t, db); n != 0 {
		t.Errorf("records = %d; want 0 after rollback", n)
	}
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := newSQLiteDB(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic should propagate")
			}
		}()
		_ = WithTx(db, func(tx *gorm.DB) error {
			if err := tx.Create(&txRecord{Name: "discarded"}).Error; err != nil {
				return err
			}
			panic("boom")
		})
	}()

	if n := countRecords(t, db); n != 0 {
		t.Errorf("records = %d; want 0 after panic rollback", n)
	}
}
