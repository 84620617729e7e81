// Package database provides database connectivity for the tourbook API.
//
// # Connection Management
//
// Connect to SurrealDB and apply the schema:
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    Namespace: "tourbook",
//	    Database:  "main",
//	    User:      "root",
//	    Password:  "secret",
//	})
//	if err := db.Connect(ctx); err != nil { ... }
//	if err := database.ApplySchema(ctx, db); err != nil { ... }
//
// # Schema
//
// schema.surql defines the tour, review and user tables, the field
// assertions enforced at the storage boundary (required review text,
// rating in [1,5]) and the unique index on user email.
package database
