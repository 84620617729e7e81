// Package testdb provides test database utilities for the Tourbook API.
//
// Tests using it need a running SurrealDB reachable at TEST_DB_HOST
// (TEST_DB_PORT, TEST_DB_USER and TEST_DB_PASSWORD are optional). Without
// TEST_DB_HOST they are skipped.
//
// # Isolation
//
// Each TestDB gets its own namespace with the application schema applied,
// and Close removes it:
//
//	tdb := testdb.New(t)
//	defer tdb.Close()
//
// # Shared Database
//
// For subtests that share one schema:
//
//	tdb := testdb.NewShared(t)
//	t.Run("create", func(t *testing.T) { db := tdb.SetupSubtest(t); ... })
package testdb
