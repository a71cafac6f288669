package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// No business logic here: the workflow rules belong to internal/engine.

// ErrConflict is returned when a transition's compare-and-swap on the
// document status matches no row: another caller already moved the document
// past the expected status. The caller should re-read and retry.
var ErrConflict = errors.New("document status changed concurrently")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
