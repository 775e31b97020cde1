package system

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/habitlog/internal/backup"
	"github.com/julianstephens/habitlog/internal/cli"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the local database." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available snapshots."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the local database from a snapshot."`
}

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *cli.Context) error {
	path, err := backup.NewManager(ctx.DB.Path()).Create()
	if err != nil {
		return err
	}
	ctx.Printf("✓ Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.DB.Path())
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		ctx.Printf("No backups in %s\n", mgr.Dir())
		return nil
	}

	rows := make([][]string, 0, len(backups))
	for _, b := range backups {
		rows = append(rows, []string{
			filepath.Base(b.Path),
			b.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.1f KB", float64(b.Size)/1024),
		})
	}
	ctx.Printf("%s", cli.Table([]string{"FILE", "CREATED", "SIZE"}, rows))
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Snapshot file name or path."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (cmd *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.DB.Path())
	path := cmd.File
	if filepath.Base(path) == path {
		path = filepath.Join(mgr.Dir(), path)
	}

	ok, err := ctx.Confirm(cmd.Yes,
		"Restore "+filepath.Base(path)+"?",
		"Current settings and file-backend tokens are replaced. A snapshot of them is taken first.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Cancelled.")
		return nil
	}

	if err := ctx.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	restoreErr := mgr.Restore(path)
	if err := ctx.DB.Load(); err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	if restoreErr != nil {
		return restoreErr
	}
	ctx.Printf("✓ Restored %s\n", filepath.Base(path))
	return nil
}
