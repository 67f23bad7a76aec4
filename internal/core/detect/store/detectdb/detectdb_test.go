package detectdb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gowvp/awss/internal/core/detect"
	"github.com/ixugo/goddd/pkg/orm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func generateMockDB() (*gorm.DB, sqlmock.Sqlmock, error) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}
	return db, mock, nil
}

func TestDetectionGet(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	detDB := NewDB(db).Detection()

	mock.ExpectQuery(`SELECT \* FROM "detections" WHERE id=\$1 (.+) LIMIT \$2`).
		WithArgs("abc", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "category"}).AddRow("abc", "RECYCLING"))
	var out detect.Detection
	if err := detDB.Get(context.Background(), &out, orm.Where("id=?", "abc")); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}
