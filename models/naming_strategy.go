package models

import (
	"gorm.io/gorm/schema"
)

// NamingStrategy routes GORM index and unique-constraint naming through the
// deterministic generator so every generated name fits the 30-character
// budget and stays stable across runs. Table, column, and join-table naming
// keep GORM's defaults.
type NamingStrategy struct {
	schema.NamingStrategy
}

// NewNamingStrategy returns the naming strategy used by every gorm.Open in
// this application, including the test harness.
func NewNamingStrategy() NamingStrategy {
	return NamingStrategy{}
}

// IndexName implements schema.Namer.
func (ns NamingStrategy) IndexName(table, column string) string {
	name, err := CreateIndexName(table, []string{column})
	if err != nil {
		return ns.NamingStrategy.IndexName(table, column)
	}
	return name
}

// UniqueName implements schema.Namer for unique constraints.
func (ns NamingStrategy) UniqueName(table, column string) string {
	name, err := CreateUniqueConstraintName(table, []string{column})
	if err != nil {
		return ns.NamingStrategy.UniqueName(table, column)
	}
	return name
}
