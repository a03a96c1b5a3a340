// Package postgres provides the PostgreSQL implementation of store.TaskStore.
// It handles query execution and the mapping between domain tasks and rows in
// the tasks table. Connections are opened through the pgx database/sql driver.
package postgres
