// Package testdb provides utilities specifically for database testing.
// It opens the PostgreSQL database named by DATABASE_URL, applies the embedded
// migrations, and runs each test inside a transaction that is rolled back.
package testdb
