// Package database provides SQLite connectivity for Gray Logic Node's
// local snapshot store.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Connection pooling and lifecycle management
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Schema ownership lives with the consuming package: the history
// repository creates its own table on construction, so the database
// layer stays a plain connection wrapper.
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
package database
