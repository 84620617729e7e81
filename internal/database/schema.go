package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.surql
var schema string

// Schema returns the SurrealQL schema definition.
func Schema() string {
	return schema
}

// ApplySchema defines tables, field assertions and indexes. Every statement
// uses OVERWRITE so it can run on each start.
func ApplySchema(ctx context.Context, db Database) error {
	if err := db.Execute(ctx, schema, nil); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
