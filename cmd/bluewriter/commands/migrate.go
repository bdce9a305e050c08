package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bluewriter/bluewriter/internal/config"
	"github.com/bluewriter/bluewriter/internal/storage"
)

var migrateRollback bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Open the database, applying any pending migrations, and print the
resulting schema version. With --rollback the most recent migration is
undone instead.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateRollback, "rollback", false, "Undo the most recent migration")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	path := config.DatabasePath(appConfig)
	lock := storage.NewFileLock(path)
	if err := lock.TryLock(); err != nil {
		return err
	}
	defer lock.Unlock()

	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if migrateRollback {
		if err := storage.RollbackMigration(store.DB()); err != nil {
			return err
		}
	}

	version, err := store.SchemaVersion(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d (latest %d)\n", path, version, storage.LatestVersion())
	return nil
}
