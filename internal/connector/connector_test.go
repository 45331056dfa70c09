package connector

import (
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return logger
}

func TestNewDatabaseConnector(t *testing.T) {
	// Set environment variables for testing
	os.Setenv("MYSQL_HOST", "test-host")
	os.Setenv("MYSQL_USER", "test-user")
	os.Setenv("MYSQL_PASSWORD", "test-password")
	os.Setenv("MYSQL_DATABASE", "test-database")
	os.Setenv("MYSQL_PORT", "3307")
	defer func() {
		for _, v := range []string{"MYSQL_HOST", "MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_DATABASE", "MYSQL_PORT"} {
			os.Unsetenv(v)
		}
	}()

	logger := testLogger()

	// Environment variables fill unset parameters
	db := NewDatabaseConnector("", "", "", "", "", logger)
	if db.Host != "test-host" {
		t.Errorf("Expected host to be 'test-host', got '%s'", db.Host)
	}
	if db.User != "test-user" {
		t.Errorf("Expected user to be 'test-user', got '%s'", db.User)
	}
	if db.Password != "test-password" {
		t.Errorf("Expected password to be 'test-password', got '%s'", db.Password)
	}
	if db.Database != "test-database" {
		t.Errorf("Expected database to be 'test-database', got '%s'", db.Database)
	}
	if db.Port != "3307" {
		t.Errorf("Expected port to be '3307', got '%s'", db.Port)
	}

	// Explicit parameters win over the environment
	db = NewDatabaseConnector("explicit-host", "explicit-user", "explicit-password", "explicit-database", "3308", logger)
	if db.Host != "explicit-host" {
		t.Errorf("Expected host to be 'explicit-host', got '%s'", db.Host)
	}
	if db.Database != "explicit-database" {
		t.Errorf("Expected database to be 'explicit-database', got '%s'", db.Database)
	}
	if db.Port != "3308" {
		t.Errorf("Expected port to be '3308', got '%s'", db.Port)
	}
}

func TestExecuteQueryMapsRowsAndNulls(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer mockDB.Close()

	dc := &DatabaseConnector{
		Database: "test-database",
		DB:       mockDB,
		Logger:   testLogger(),
	}

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"column_name", "column_type", "column_comment"}).
			AddRow("email", []byte("varchar(128)"), nil))

	result, err := dc.ExecuteQuery("SELECT column_name, column_type, column_comment FROM information_schema.columns")
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(result))
	}
	if result[0]["column_name"] != "email" {
		t.Errorf("Expected column_name 'email', got %v", result[0]["column_name"])
	}
	if result[0]["column_type"] != "varchar(128)" {
		t.Errorf("Expected []byte values to convert to string, got %T", result[0]["column_type"])
	}
	if result[0]["column_comment"] != nil {
		t.Errorf("Expected NULL to map to nil, got %v", result[0]["column_comment"])
	}
}

func TestExecuteManyCommitsOneTransaction(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer mockDB.Close()

	dc := &DatabaseConnector{
		Database: "test-database",
		DB:       mockDB,
		Logger:   testLogger(),
	}

	mock.ExpectBegin()
	prepared := mock.ExpectPrepare("INSERT INTO demo_customers")
	prepared.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prepared.ExpectExec().WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	affected, err := dc.ExecuteMany("INSERT INTO demo_customers (full_name) VALUES (?)", [][]interface{}{
		{"Ada"},
		{"Grace"},
	})
	if err != nil {
		t.Fatalf("ExecuteMany failed: %v", err)
	}
	if affected != 2 {
		t.Errorf("Expected 2 affected rows, got %d", affected)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet sqlmock expectations: %v", err)
	}
}
