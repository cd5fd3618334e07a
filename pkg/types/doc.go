// Package types defines the Store, Session and PositionStore interfaces, the
// board entity types, and the standard error values for taskboard.
//
// Columns (ranked within a board) and tasks (ranked within a column) share one
// ordering model: see Ranked and PositionStore.
package types
