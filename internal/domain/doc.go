// Package domain contains the task entity, its enumerations, and the
// validation rules every stored task must satisfy. It has no knowledge of
// HTTP or of any particular database.
package domain
