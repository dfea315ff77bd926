// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

// Package query provides SQL query building utilities for the database package.
// Every value is bound as a parameter; only column names are interpolated.
package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddHour("t.pickup_hour", &hour)
//	wb.AddEquals("z.borough", "Manhattan")
//	whereClause, args := wb.Build()
//	// t.pickup_hour = ? AND z.borough = ?
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?" when value is non-empty.
func (wb *WhereBuilder) AddEquals(column, value string) *WhereBuilder {
	if value == "" {
		return wb
	}
	return wb.AddClause(column+" = ?", value)
}

// AddHour adds "column = ?" when hour is non-nil.
func (wb *WhereBuilder) AddHour(column string, hour *int) *WhereBuilder {
	if hour == nil {
		return wb
	}
	return wb.AddClause(column+" = ?", *hour)
}

// AddSample restricts rows to the deterministic "column % modulus = 0" sample.
// A modulus of 1 or less keeps every row and adds nothing.
func (wb *WhereBuilder) AddSample(column string, modulus int) *WhereBuilder {
	if modulus <= 1 {
		return wb
	}
	return wb.AddClause(fmt.Sprintf("%s %% ? = 0", column), modulus)
}

// Build returns the WHERE clause (without the WHERE keyword) and arguments.
// An empty builder yields "1=1".
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with the WHERE keyword.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
