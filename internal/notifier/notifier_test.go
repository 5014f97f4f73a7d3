package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/dosely/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func mockConfigDir(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) {
		return tempDir, nil
	}
	return tempDir
}

func mockTrayProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := mockConfigDir(t)

	expectedDefault := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != expectedDefault {
		t.Errorf("expected %s, got %s", expectedDefault, dir)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/dosely/dir"
	settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": "%s"}}`, customDir)
	if err := os.WriteFile(filepath.Join(expectedDefault, "settings.json"), []byte(settingsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfilePath); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning for missing lockfile, got %v", err)
	}

	malformed := []struct {
		name    string
		content string
		errPart string
	}{
		{name: "two parts", content: "8080|12345", errPart: "malformed"},
		{name: "garbage", content: "invalid", errPart: "malformed"},
		{name: "empty secret", content: "8080|12345|", errPart: "secret"},
		{name: "empty port", content: "|12345|testsecret123", errPart: "port"},
		{name: "port out of range", content: "99999|12345|testsecret123", errPart: "range"},
		{name: "bad pid", content: "8080|abc|testsecret123", errPart: "process ID"},
	}
	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, err := findAndValidateTrayProcess(lockfilePath)
			if err == nil || !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}

	if err := os.WriteFile(lockfilePath, []byte("8080|12345|testsecret123"), 0644); err != nil {
		t.Fatal(err)
	}

	old := findProcessFunc
	defer func() { findProcessFunc = old }()
	findProcessFunc = func(pid int) (ps.Process, error) {
		return nil, nil
	}
	if _, _, err := findAndValidateTrayProcess(lockfilePath); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning for missing process, got %v", err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for wrong executable")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "dosely-tray"}, nil
	}
	port, secret, err := findAndValidateTrayProcess(lockfilePath)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if port != "8080" {
		t.Errorf("expected port 8080, got %s", port)
	}
	if secret != "testsecret123" {
		t.Errorf("expected secret testsecret123, got %s", secret)
	}
}

func newTrayServer(t *testing.T, failures int32) (*httptest.Server, *[]WebhookPayload) {
	t.Helper()
	var received []WebhookPayload
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("X-Dosely-Secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if calls.Add(1) <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		received = append(received, payload)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &received
}

func serverPort(server *httptest.Server) string {
	parts := strings.Split(server.URL, ":")
	return parts[len(parts)-1]
}

func TestSendNotification(t *testing.T) {
	server, _ := newTrayServer(t, 0)
	port := serverPort(server)
	n := New()
	ctx := context.Background()

	if err := n.sendNotification(ctx, port, "test-secret", WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.sendNotification(ctx, port, "", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for missing secret")
	}
	if err := n.sendNotification(ctx, port, "wrong-secret", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
	if err := n.sendNotification(ctx, port, "test-secret", WebhookPayload{Text: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
}

func writeLockfile(t *testing.T, configDir, port string) {
	t.Helper()
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := fmt.Sprintf("%s|4242|test-secret", port)
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestEmit(t *testing.T) {
	configDir := mockConfigDir(t)
	mockTrayProcess(t, "dosely-tray")
	server, received := newTrayServer(t, 1)
	writeLockfile(t, configDir, serverPort(server))

	n := New()
	if err := n.EnsureChannel(constants.ReminderChannelID, constants.ReminderChannelName, constants.ReminderChannelImportance); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := n.Emit(context.Background(), 1002, "23:20 reminder", "Some items are still unchecked for today."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(*received) != 1 {
		t.Fatalf("expected 1 delivered notification after a retry, got %d", len(*received))
	}
	got := (*received)[0]
	if got.ID != 1002 || got.Channel != "reminders" || got.Importance != "high" {
		t.Errorf("unexpected payload: %+v", got)
	}
	if got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("expected duration %d, got %d", constants.NotificationDurationMs, got.DurationMs)
	}
}

func TestEmit_TrayNotRunning(t *testing.T) {
	mockConfigDir(t)
	n := New()
	if err := n.Emit(context.Background(), 1001, "title", "body"); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning, got %v", err)
	}
	if err := n.Reachable(); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("expected ErrTrayNotRunning from Reachable, got %v", err)
	}
}

func TestEnsureChannel_RejectsEmptyID(t *testing.T) {
	if err := New().EnsureChannel(" ", "name", "high"); err == nil {
		t.Error("expected error for empty channel id")
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	if err := p.EnsureChannel("reminders", "Reminders", "high"); err != nil {
		t.Fatal(err)
	}
	if err := p.Emit(context.Background(), 1001, "Evening reminder", "body"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "#1001 Evening reminder") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestEmit_NoWaitAfterFinalAttempt(t *testing.T) {
	configDir := mockConfigDir(t)
	mockTrayProcess(t, "dosely-tray")
	server, received := newTrayServer(t, 100)
	writeLockfile(t, configDir, serverPort(server))

	var waits []time.Duration
	orig := retryWait
	retryWait = func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}
	t.Cleanup(func() { retryWait = orig })

	if err := New().Emit(context.Background(), 1001, "20:30 reminder", "body"); err == nil {
		t.Fatal("expected an error when every attempt fails")
	}
	if len(*received) != 0 {
		t.Errorf("expected no delivered notification, got %d", len(*received))
	}
	if len(waits) != constants.NotifyMaxRetries-1 {
		t.Fatalf("expected %d waits between %d attempts, got %v", constants.NotifyMaxRetries-1, constants.NotifyMaxRetries, waits)
	}
	for i, d := range waits {
		if want := constants.NotifyRetryDelay * time.Duration(i+1); d != want {
			t.Errorf("wait %d = %v, want %v", i, d, want)
		}
	}
}
