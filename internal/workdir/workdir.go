// Package workdir finds the project directory whose .posts data dir the
// commands work on.
package workdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcus/postadmin/internal/db"
)

// RootFile redirects a directory to another project directory, so a second
// checkout can share the posts of the first.
const RootFile = ".posts-root"

// Find walks up from start to the nearest directory that has a data dir or
// a RootFile, and returns the project directory it names. start is returned
// when neither is found.
func Find(start string) string {
	if start == "" {
		return ""
	}
	start = filepath.Clean(start)

	for dir := start; ; {
		if target, ok := readRedirect(dir); ok {
			return target
		}
		if hasDataDir(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// Link writes a RootFile in dir pointing at target, which must already hold
// a data dir. A relative target is kept relative to dir.
func Link(dir, target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return errors.New("link target is empty")
	}
	if hasDataDir(dir) {
		return fmt.Errorf("%s has its own %s directory", dir, db.DataDir)
	}

	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(dir, resolved)
	}
	if !hasDataDir(resolved) {
		return fmt.Errorf("no post database in %s; run 'postadmin init' there first", filepath.Clean(resolved))
	}

	return os.WriteFile(filepath.Join(dir, RootFile), []byte(target+"\n"), 0644)
}

func readRedirect(dir string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(dir, RootFile))
	if err != nil {
		return "", false
	}
	target := strings.TrimSpace(string(content))
	if target == "" {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return filepath.Clean(target), true
}

func hasDataDir(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, db.DataDir))
	return err == nil && fi.IsDir()
}
