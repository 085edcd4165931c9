package serve

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/marcus/postadmin/internal/db"
)

const (
	registryFile     = "serve-port"
	registryLockFile = "serve-port.lock"
	instancePrefix   = "srv_"

	healthTimeout = 2 * time.Second
	lockTimeout   = 5 * time.Second
	lockBackoff   = 5 * time.Millisecond
	lockMaxWait   = 50 * time.Millisecond
)

// errLocked is returned by tryLock when another process holds the lock.
var errLocked = errors.New("registry lock held")

// Registration is what a running server records in the data dir so the
// other postadmin commands of the project can reach it.
type Registration struct {
	Port       int       `json:"port"`
	PID        int       `json:"pid"`
	StartedAt  time.Time `json:"started_at"`
	InstanceID string    `json:"instance_id"`
}

// URL is the base URL clients use for the registered server.
func (r Registration) URL() string {
	return fmt.Sprintf("http://localhost:%d", r.Port)
}

// NewInstanceID returns a random id like "srv_8f3b2c". /health reports it so
// a registration can be matched to the server actually on the port.
func NewInstanceID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate instance id: %w", err)
	}
	return instancePrefix + hex.EncodeToString(b), nil
}

// RegistryPath returns the registration file for baseDir.
func RegistryPath(baseDir string) string {
	return filepath.Join(baseDir, db.DataDir, registryFile)
}

// Register records reg for baseDir. It fails while another registered
// server still answers on its port. The returned func removes the registration if it
// still names reg's instance.
func Register(ctx context.Context, baseDir string, reg Registration) (func() error, error) {
	if reg.Port == 0 || reg.InstanceID == "" {
		return nil, errors.New("registration needs a port and an instance id")
	}

	err := withRegistryLock(baseDir, func() error {
		if cur, err := readRegistration(baseDir); err == nil && cur.Port != reg.Port && answers(ctx, cur) {
			return fmt.Errorf("postadmin serve already running at %s (pid %d)", cur.URL(), cur.PID)
		}
		data, err := json.MarshalIndent(reg, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(RegistryPath(baseDir), data, 0644)
	})
	if err != nil {
		return nil, err
	}

	unregister := func() error {
		return withRegistryLock(baseDir, func() error {
			cur, err := readRegistration(baseDir)
			if err != nil || cur.InstanceID != reg.InstanceID {
				return nil
			}
			if err := os.Remove(RegistryPath(baseDir)); err != nil && !os.IsNotExist(err) {
				return err
			}
			return nil
		})
	}
	return unregister, nil
}

// Discover returns the URL of the server registered for baseDir, if it
// answers /health as the registered instance. A registration whose server
// died, or whose port now belongs to something else, is ignored.
func Discover(ctx context.Context, baseDir string) (string, bool) {
	reg, err := readRegistration(baseDir)
	if err != nil || !answers(ctx, reg) {
		return "", false
	}
	return reg.URL(), true
}

func readRegistration(baseDir string) (Registration, error) {
	var reg Registration
	data, err := os.ReadFile(RegistryPath(baseDir))
	if err != nil {
		return reg, err
	}
	if err := json.Unmarshal(data, &reg); err != nil {
		return reg, fmt.Errorf("parse %s: %w", registryFile, err)
	}
	if reg.Port == 0 || reg.InstanceID == "" {
		return reg, fmt.Errorf("%s is incomplete", registryFile)
	}
	return reg, nil
}

// answers reports whether reg's port serves /health with reg's instance id.
func answers(ctx context.Context, reg Registration) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reg.URL()+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var env Envelope
	var health HealthResponse
	if json.NewDecoder(resp.Body).Decode(&env) != nil || json.Unmarshal(env.Data, &health) != nil {
		return false
	}
	return health.InstanceID == reg.InstanceID
}

// withRegistryLock runs fn while holding the registry lock file, retrying
// with backoff until lockTimeout.
func withRegistryLock(baseDir string, fn func() error) error {
	dir := filepath.Join(baseDir, db.DataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, registryLockFile), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open registry lock: %w", err)
	}
	defer f.Close()

	deadline := time.Now().Add(lockTimeout)
	wait := lockBackoff
	for {
		err := tryLock(f)
		if err == nil {
			break
		}
		if !errors.Is(err, errLocked) {
			return fmt.Errorf("lock registry: %w", err)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("registry still locked after %v", lockTimeout)
		}
		time.Sleep(wait)
		wait = min(wait*2, lockMaxWait)
	}
	defer unlock(f)

	return fn()
}
