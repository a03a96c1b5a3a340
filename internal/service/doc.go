// Package service implements the task lifecycle: it validates payloads,
// stamps server-owned timestamps, persists through a store.TaskStore, and
// classifies every failure as not found, invalid input, or store unavailable.
package service
