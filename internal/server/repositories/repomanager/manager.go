package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/pending"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/sessions"
)

// RepositoryManager vends repositories bound to a DBTX, so the same store can
// be used on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Pending(db dbx.DBTX) pending.Repository
}
