package workdir

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcus/postadmin/internal/db"
)

func mkdirs(t *testing.T, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFind(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := Find(""); got != "" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("data dir present", func(t *testing.T) {
		dir := t.TempDir()
		mkdirs(t, filepath.Join(dir, db.DataDir))
		if got := Find(dir); got != dir {
			t.Errorf("got %q, want %q", got, dir)
		}
	})

	t.Run("walks up from a subdirectory", func(t *testing.T) {
		dir := t.TempDir()
		sub := filepath.Join(dir, "content", "drafts")
		mkdirs(t, filepath.Join(dir, db.DataDir), sub)
		if got := Find(sub); got != dir {
			t.Errorf("got %q, want %q", got, dir)
		}
	})

	t.Run("relative root file", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "main")
		checkout := filepath.Join(dir, "feature")
		mkdirs(t, target, filepath.Join(checkout, "sub"))
		if err := os.WriteFile(filepath.Join(checkout, RootFile), []byte("../main\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if got := Find(filepath.Join(checkout, "sub")); got != target {
			t.Errorf("got %q, want %q", got, target)
		}
	})

	t.Run("blank root file ignored", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, RootFile), []byte("  \n"), 0644); err != nil {
			t.Fatal(err)
		}
		mkdirs(t, filepath.Join(dir, db.DataDir))
		if got := Find(dir); got != dir {
			t.Errorf("got %q, want %q", got, dir)
		}
	})

	t.Run("no markers", func(t *testing.T) {
		dir := t.TempDir()
		if got := Find(dir); got != dir {
			t.Errorf("got %q, want %q", got, dir)
		}
	})
}

func TestLink(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "main")
	checkout := filepath.Join(dir, "checkout")
	mkdirs(t, filepath.Join(primary, db.DataDir), checkout)

	if err := Link(checkout, "../main"); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if got := Find(checkout); got != primary {
		t.Errorf("Find after Link = %q, want %q", got, primary)
	}

	tests := []struct {
		name   string
		dir    string
		target string
		want   string
	}{
		{"empty target", checkout, " ", "empty"},
		{"target without database", checkout, dir, "no post database"},
		{"dir with its own data", primary, checkout, "has its own"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Link(tt.dir, tt.target)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
