package demo

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/sirupsen/logrus"

	"github.com/dbaops/mysql-sensitive-scanner/internal/connector"
)

// DemoSeeder creates a small sample schema with sensitive-looking columns and
// fake data, so a fresh install has something for the scanner to find
type DemoSeeder struct {
	DB     *connector.DatabaseConnector
	Faker  faker.Faker
	Logger *logrus.Logger
}

// NewDemoSeeder creates a new demo seeder
func NewDemoSeeder(db *connector.DatabaseConnector, logger *logrus.Logger) *DemoSeeder {
	return &DemoSeeder{
		DB:     db,
		Faker:  faker.New(),
		Logger: logger,
	}
}

// Seed creates the demo tables and populates them with fake rows
func (ds *DemoSeeder) Seed(records int) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS demo_customers (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			full_name VARCHAR(128) NOT NULL,
			email VARCHAR(128) NOT NULL,
			phone_number VARCHAR(32),
			street_address VARCHAR(256),
			ssn VARCHAR(16),
			credit_card_number VARCHAR(32),
			date_of_birth DATE,
			widget_color VARCHAR(16)
		)`,
		`CREATE TABLE IF NOT EXISTS demo_employees (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			employee_id VARCHAR(16) NOT NULL,
			password_hash VARCHAR(128) NOT NULL,
			salary DECIMAL(12,2),
			medical_notes TEXT,
			hire_date DATE
		)`,
	}

	for _, stmt := range tables {
		if _, err := ds.DB.ExecuteStatement(stmt); err != nil {
			ds.Logger.Errorf("Error creating demo table: %v", err)
			return err
		}
	}

	if err := ds.populateCustomers(records); err != nil {
		return err
	}
	if err := ds.populateEmployees(records); err != nil {
		return err
	}

	ds.Logger.Infof("Demo schema seeded with %d rows per table", records)
	return nil
}

// populateCustomers inserts fake customer rows
func (ds *DemoSeeder) populateCustomers(records int) error {
	query := `
		INSERT INTO demo_customers
			(full_name, email, phone_number, street_address, ssn, credit_card_number, date_of_birth, widget_color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var paramsList [][]interface{}
	for i := 0; i < records; i++ {
		paramsList = append(paramsList, []interface{}{
			ds.Faker.Person().Name(),
			ds.Faker.Internet().Email(),
			ds.Faker.Phone().Number(),
			ds.Faker.Address().Address(),
			fmt.Sprintf("%03d-%02d-%04d", rand.Intn(900)+100, rand.Intn(100), rand.Intn(10000)),
			fmt.Sprintf("4%015d", rand.Int63n(1000000000000000)),
			time.Now().AddDate(-20-rand.Intn(40), 0, -rand.Intn(365)),
			ds.Faker.Color().Hex(),
		})
	}

	affected, err := ds.DB.ExecuteMany(query, paramsList)
	if err != nil {
		ds.Logger.Errorf("Error populating demo_customers: %v", err)
		return err
	}

	ds.Logger.Infof("Inserted %d rows into demo_customers", affected)
	return nil
}

// populateEmployees inserts fake employee rows
func (ds *DemoSeeder) populateEmployees(records int) error {
	query := `
		INSERT INTO demo_employees
			(employee_id, password_hash, salary, medical_notes, hire_date)
		VALUES (?, ?, ?, ?, ?)
	`

	var paramsList [][]interface{}
	for i := 0; i < records; i++ {
		paramsList = append(paramsList, []interface{}{
			fmt.Sprintf("EMP-%05d", rand.Intn(100000)),
			ds.Faker.RandomStringWithLength(64),
			float64(rand.Intn(150000)+30000) + rand.Float64(),
			ds.Faker.Lorem().Sentence(8),
			time.Now().AddDate(-rand.Intn(10), -rand.Intn(12), 0),
		})
	}

	affected, err := ds.DB.ExecuteMany(query, paramsList)
	if err != nil {
		ds.Logger.Errorf("Error populating demo_employees: %v", err)
		return err
	}

	ds.Logger.Infof("Inserted %d rows into demo_employees", affected)
	return nil
}
