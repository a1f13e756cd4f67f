// Package repomanager wires the PostgreSQL repository implementations
// together and owns schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/frostgate/frostgate/internal/dbx"
	"github.com/frostgate/frostgate/internal/server/repositories/licenses"
	"github.com/frostgate/frostgate/internal/server/repositories/questions"
	"github.com/frostgate/frostgate/internal/server/repositories/sessions"
	"github.com/frostgate/frostgate/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to an arbitrary DBTX, so the
// same constructors serve both standalone handles and transactions.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Questions(db dbx.DBTX) questions.Repository
	Licenses(db dbx.DBTX) licenses.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
