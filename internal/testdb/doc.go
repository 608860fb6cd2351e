// Package testdb provides helpers for tests that need a real PostgreSQL
// database: connection from the environment, schema migration and
// per-test transactions that are always rolled back.
//
// Tests using it are skipped when no database URL is configured:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	    s := postgres.NewPostgresTaskStore(tx, nil)
//	    // ...
//	})
package testdb
