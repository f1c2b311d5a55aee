package backups

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/bamboocare/internal/backup"
	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/keyring"
	"github.com/julianstephens/bamboocare/internal/storage/sqlite"
)

// Replaced in tests.
var (
	stdin     io.Reader = os.Stdin
	newRemote           = func(ctx context.Context, cfg backup.S3Config) (remote, error) {
		return backup.NewS3Remote(ctx, cfg)
	}
)

type remote interface {
	Upload(ctx context.Context, path string) (string, error)
	List(ctx context.Context) ([]backup.RemoteObject, error)
	Download(ctx context.Context, name, dir string) (string, error)
}

// S3Flags select the off-site bucket. Unset flags fall back to the
// BAMBOOCARE_BACKUP_S3_* environment and the keyring credentials.
type S3Flags struct {
	S3         bool   `help:"Also use the S3 bucket."`
	S3Bucket   string `help:"S3 bucket name." name:"s3-bucket"`
	S3Region   string `help:"S3 region." name:"s3-region"`
	S3Endpoint string `help:"Custom S3 endpoint (MinIO etc.)." name:"s3-endpoint"`
}

func (f S3Flags) enabled() bool {
	return f.S3 || f.S3Bucket != ""
}

func (f S3Flags) config() (backup.S3Config, error) {
	cfg, _ := backup.S3ConfigFromEnv()
	if f.S3Bucket != "" {
		cfg.Bucket = f.S3Bucket
	}
	if f.S3Region != "" {
		cfg.Region = f.S3Region
	}
	if f.S3Endpoint != "" {
		cfg.Endpoint = f.S3Endpoint
		cfg.PathStyle = true
	}
	if cfg.Bucket == "" {
		return cfg, fmt.Errorf("no S3 bucket configured: pass --s3-bucket or set %s", constants.EnvS3Bucket)
	}
	if id, secret, ok := keyring.S3Credentials(); ok {
		cfg.AccessKeyID, cfg.SecretAccessKey = id, secret
	}
	return cfg, nil
}

func (f S3Flags) remote(ctx context.Context) (remote, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, err
	}
	return newRemote(ctx, cfg)
}

func requireSQLite(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("backups are only supported for SQLite storage")
	}
	return nil
}

type BackupCreateCmd struct {
	S3Flags `embed:""`
}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	if err := requireSQLite(ctx); err != nil {
		return err
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))

	if !c.enabled() {
		return nil
	}
	r, err := c.remote(ctx.Ctx())
	if err != nil {
		return err
	}
	key, err := r.Upload(ctx.Ctx(), backupPath)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Uploaded to s3: %s\n", key)
	return nil
}

type BackupListCmd struct {
	S3Flags `embed:""`
}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	if c.enabled() {
		return c.listRemote(ctx)
	}
	if err := requireSQLite(ctx); err != nil {
		return err
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		fmt.Printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Name, sizeKB)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

func (c *BackupListCmd) listRemote(ctx *cli.Context) error {
	r, err := c.remote(ctx.Ctx())
	if err != nil {
		return err
	}
	objects, err := r.List(ctx.Ctx())
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		fmt.Println("No backups found in bucket.")
		return nil
	}
	fmt.Printf("Remote backups (%d):\n\n", len(objects))
	for _, o := range objects {
		fmt.Printf("  %s  %s  (%.1f KB)\n", o.LastModified.Format("2006-01-02 15:04:05"), o.Key, float64(o.Size)/1024.0)
	}
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore (an object key with --s3)."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
	S3Flags    `embed:""`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	if err := requireSQLite(ctx); err != nil {
		return err
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())

	backupPath, err := c.resolve(ctx, mgr)
	if err != nil {
		return err
	}

	if !c.Yes {
		fmt.Println("⚠️  WARNING: This will replace your current database with the backup.")
		fmt.Println("⚠️  IMPORTANT: Stop any running bamboocare processes (tui, serve) before restoring.")
		fmt.Println("A backup of your current database will be created before restoring.")
		fmt.Printf("\nRestore from: %s\n", backupPath)
		fmt.Print("Continue? [y/N]: ")

		response, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Database restored successfully!")
	if preRestore != "" {
		fmt.Printf("  Previous database saved as %s\n", filepath.Base(preRestore))
	}
	return nil
}

func (c *BackupRestoreCmd) resolve(ctx *cli.Context, mgr *backup.Manager) (string, error) {
	if c.enabled() {
		r, err := c.remote(ctx.Ctx())
		if err != nil {
			return "", err
		}
		return r.Download(ctx.Ctx(), c.BackupFile, mgr.GetBackupDir())
	}

	if filepath.IsAbs(c.BackupFile) {
		if _, err := os.Stat(c.BackupFile); os.IsNotExist(err) {
			return "", fmt.Errorf("backup file not found: %s", c.BackupFile)
		}
		return c.BackupFile, nil
	}
	if _, err := os.Stat(c.BackupFile); err == nil {
		return filepath.Abs(c.BackupFile)
	}
	possiblePath := filepath.Join(mgr.GetBackupDir(), c.BackupFile)
	if _, err := os.Stat(possiblePath); err == nil {
		return possiblePath, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", mgr.GetBackupDir())
}
