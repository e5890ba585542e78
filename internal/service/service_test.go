package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/dailystatus/internal/db"
	"github.com/dailystatus/internal/form"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func validRecord(t *testing.T) form.Record {
	t.Helper()
	snap, errs := form.Replay(form.NewSnapshot(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)),
		form.Edit{Field: form.FieldEmployeeID, Value: "EMP-10452"},
		form.Edit{Field: form.FieldFullName, Value: "Asha Rao"},
		form.Edit{Field: form.FieldRole, Value: "Data Engineer"},
		form.Edit{Field: form.FieldDepartment, Value: "Data Engineering"},
		form.Edit{Field: form.FieldHoursWorked, Value: "10.5"},
		form.Edit{Field: form.FieldProjectNames, Value: "Apollo, Falcon"},
		form.Edit{Field: form.FieldProjectManagerName, Value: "Priya Nair"},
		form.Edit{Field: form.FieldTaskSummary, Value: "Migrated the ingestion jobs"},
	)
	if len(errs) > 0 {
		t.Fatalf("unexpected replay errors: %v", errs)
	}
	return snap.Record
}
