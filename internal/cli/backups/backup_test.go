package backups

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/bamboocare/internal/backup"
	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/keyring"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage"
	"github.com/julianstephens/bamboocare/internal/storage/sqlite"
)

type fakeRemote struct {
	cfg      backup.S3Config
	uploaded []string
	dir      string
	listErr  error
}

func (f *fakeRemote) Upload(_ context.Context, path string) (string, error) {
	f.uploaded = append(f.uploaded, path)
	return "backups/" + filepath.Base(path), nil
}

func (f *fakeRemote) List(context.Context) ([]backup.RemoteObject, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []backup.RemoteObject
	for _, p := range f.uploaded {
		out = append(out, backup.RemoteObject{Key: "backups/" + filepath.Base(p), Size: 1024, LastModified: time.Now()})
	}
	return out, nil
}

func (f *fakeRemote) Download(_ context.Context, name, dir string) (string, error) {
	for _, p := range f.uploaded {
		if filepath.Base(p) == filepath.Base(name) {
			return p, nil
		}
	}
	return "", errors.New("no such object")
}

func withRemote(t *testing.T, f *fakeRemote) {
	t.Helper()
	old := newRemote
	newRemote = func(_ context.Context, cfg backup.S3Config) (remote, error) {
		f.cfg = cfg
		return f, nil
	}
	t.Cleanup(func() { newRemote = old })
}

func withStdin(t *testing.T, input string) {
	t.Helper()
	old := stdin
	stdin = strings.NewReader(input)
	t.Cleanup(func() { stdin = old })
}

func setupTestDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	gokeyring.MockInit()
	t.Setenv(constants.EnvS3Bucket, "")

	dbPath := filepath.Join(t.TempDir(), "bamboocare.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return &cli.Context{Store: store}, dbPath
}

func addPlant(t *testing.T, store storage.Provider, name string) {
	t.Helper()
	p := models.Plant{
		ID: name, Name: name,
		Location: models.LocationIndoor, LightLevel: models.LightIndirect, Container: models.ContainerPot,
		AddedDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.AddPlant(p); err != nil {
		t.Fatal(err)
	}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, dbPath := setupTestDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list with no backups failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	backups, err := backup.NewManager(dbPath).ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("backups = %d, want 1", len(backups))
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Error(err)
	}
}

func TestBackupCreateUploadsToS3(t *testing.T) {
	ctx, _ := setupTestDB(t)
	f := &fakeRemote{}
	withRemote(t, f)
	if err := keyring.Set(keyring.UserS3AccessKey, "AKIA"); err != nil {
		t.Fatal(err)
	}
	if err := keyring.Set(keyring.UserS3SecretKey, "secret"); err != nil {
		t.Fatal(err)
	}

	cmd := &BackupCreateCmd{S3Flags: S3Flags{S3Bucket: "plants", S3Endpoint: "http://localhost:9000"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(f.uploaded) != 1 {
		t.Fatalf("uploaded = %v, want one file", f.uploaded)
	}
	if f.cfg.Bucket != "plants" || !f.cfg.PathStyle || f.cfg.AccessKeyID != "AKIA" || f.cfg.SecretAccessKey != "secret" {
		t.Errorf("config = %+v", f.cfg)
	}

	if err := (&BackupListCmd{S3Flags: S3Flags{S3Bucket: "plants"}}).Run(ctx); err != nil {
		t.Errorf("remote list failed: %v", err)
	}
}

func TestBackupS3RequiresBucket(t *testing.T) {
	ctx, _ := setupTestDB(t)
	withRemote(t, &fakeRemote{})

	err := (&BackupListCmd{S3Flags: S3Flags{S3: true}}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "no S3 bucket configured") {
		t.Errorf("error = %v, want missing bucket", err)
	}

	t.Setenv(constants.EnvS3Bucket, "from-env")
	f := &fakeRemote{}
	withRemote(t, f)
	if err := (&BackupListCmd{S3Flags: S3Flags{S3: true}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if f.cfg.Bucket != "from-env" {
		t.Errorf("Bucket = %q, want from-env", f.cfg.Bucket)
	}
}

func TestBackupRestoreCmd(t *testing.T) {
	ctx, dbPath := setupTestDB(t)
	addPlant(t, ctx.Store, "kenji")
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	backups, _ := backup.NewManager(dbPath).ListBackups()
	name := backups[0].Name
	addPlant(t, ctx.Store, "mochi")

	t.Run("declined", func(t *testing.T) {
		withStdin(t, "n\n")
		if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
			t.Fatal(err)
		}
		plants, err := ctx.Store.GetAllPlants()
		if err != nil {
			t.Fatal(err)
		}
		if len(plants) != 2 {
			t.Errorf("plants = %d, want 2 after a cancelled restore", len(plants))
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		withStdin(t, "yes\n")
		if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
			t.Fatalf("restore failed: %v", err)
		}

		reopened := sqlite.NewStore(dbPath)
		if err := reopened.Load(); err != nil {
			t.Fatal(err)
		}
		defer reopened.Close()
		plants, err := reopened.GetAllPlants()
		if err != nil {
			t.Fatal(err)
		}
		if len(plants) != 1 || plants[0].Name != "kenji" {
			t.Errorf("plants after restore = %+v", plants)
		}

		// the pre-restore snapshot sits next to the restored backup
		after, _ := backup.NewManager(dbPath).ListBackups()
		if len(after) != 2 {
			t.Errorf("backups = %d, want 2", len(after))
		}
	})
}

func TestBackupRestoreCmd_FromS3(t *testing.T) {
	ctx, dbPath := setupTestDB(t)
	addPlant(t, ctx.Store, "kenji")
	f := &fakeRemote{}
	withRemote(t, f)

	if err := (&BackupCreateCmd{S3Flags: S3Flags{S3Bucket: "plants"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	key := "backups/" + filepath.Base(f.uploaded[0])

	cmd := &BackupRestoreCmd{BackupFile: key, Yes: true, S3Flags: S3Flags{S3Bucket: "plants"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database missing after restore: %v", err)
	}
}

func TestBackupRestoreCmd_Missing(t *testing.T) {
	ctx, _ := setupTestDB(t)
	err := (&BackupRestoreCmd{BackupFile: "bamboocare-20000101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "backup file not found") {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "plants.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := &cli.Context{Store: store}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected error for JSON storage")
	}
}
