// Package notifier shows watering reminders as desktop notifications. It does
// not draw anything itself: the bamboocare tray app advertises a local webhook
// through a lockfile ("port|pid|secret") and the notifier posts to it.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/bamboocare/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning means no live tray process owns the lockfile.
var ErrTrayNotRunning = errors.New(constants.TrayExecutable + " is not running")

// Message is the webhook body understood by the tray app.
type Message struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// lock is the parsed content of the tray lockfile.
type lock struct {
	port   int
	pid    int
	secret string
}

func (l lock) url() string {
	return "http://127.0.0.1:" + strconv.Itoa(l.port)
}

func parseLock(content string) (lock, error) {
	fields := strings.Split(strings.TrimSpace(content), "|")
	if len(fields) != 3 {
		return lock{}, fmt.Errorf("lockfile is malformed: want port|pid|secret, got %d field(s)", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var l lock
	var err error
	if fields[0] == "" {
		return lock{}, errors.New("lockfile port is empty")
	}
	if l.port, err = strconv.Atoi(fields[0]); err != nil {
		return lock{}, fmt.Errorf("lockfile port %q is not a number", fields[0])
	}
	if l.port < 1 || l.port > 65535 {
		return lock{}, fmt.Errorf("lockfile port %d is out of range", l.port)
	}
	if l.pid, err = strconv.Atoi(fields[1]); err != nil {
		return lock{}, fmt.Errorf("lockfile process ID %q is not a number", fields[1])
	}
	if l.secret = fields[2]; l.secret == "" {
		return lock{}, errors.New("lockfile secret is empty")
	}
	return l, nil
}

// TrayDir returns the directory holding the tray lockfile. The tray's own
// settings.json may relocate it through settings.lockfile_dir.
func TrayDir() (string, error) {
	base, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	dir := filepath.Join(base, constants.TrayAppIdentifier)

	raw, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var cfg struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(raw, &cfg) == nil && cfg.Settings.LockfileDir != "" {
		return cfg.Settings.LockfileDir, nil
	}
	return dir, nil
}

// readLock loads the lockfile at path and checks that its pid belongs to a
// running tray process.
func readLock(path string) (lock, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return lock{}, ErrTrayNotRunning
	}
	l, err := parseLock(string(raw))
	if err != nil {
		return lock{}, err
	}

	proc, err := findProcessFunc(l.pid)
	if err != nil || proc == nil {
		return lock{}, ErrTrayNotRunning
	}
	if exe := proc.Executable(); !strings.HasPrefix(exe, constants.TrayExecutable) {
		return lock{}, fmt.Errorf("pid %d belongs to %s, not %s", l.pid, exe, constants.TrayExecutable)
	}
	return l, nil
}

type Notifier struct {
	client *http.Client
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 5 * time.Second}}
}

// Notify shows title and body through the tray app.
func (n *Notifier) Notify(title, body string) error {
	dir, err := TrayDir()
	if err != nil {
		return err
	}
	l, err := readLock(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	return n.post(l, Message{Title: title, Text: body, DurationMs: constants.NotificationDurationMs})
}

func (n *Notifier) post(l lock, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, l.url(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, l.secret)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tray rejected notification (%d): %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
