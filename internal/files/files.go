// Package files implements generic file tools missing from the standard library.
package files

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var (
	// DirCreationPerm is used when creating new directories.
	DirCreationPerm = os.FileMode(0755)

	// FileCreationPerm is used when creating new files.
	FileCreationPerm = os.FileMode(0644)
)

// Exists returns true if file or directory exists.
func Exists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// ReplaceTildeInDir by the user's home directory. Returns dir if it doesn't start with "~".
//
// It returns an error if `dir` has an unknown user (e.g: `~unknown/...`)
func ReplaceTildeInDir(dir string) (string, error) {
	if len(dir) == 0 || dir[0] != '~' {
		return dir, nil
	}
	var userName string
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		sepIdx := strings.IndexRune(dir, '/')
		if sepIdx == -1 {
			userName = dir[1:]
		} else {
			userName = dir[1:sepIdx]
		}
	}
	var usr *user.User
	var err error
	if userName == "" {
		usr, err = user.Current()
	} else {
		usr, err = user.Lookup(userName)
	}
	if err != nil {
		return dir, errors.Wrapf(err, "failed to lookup home directory for user in path %q", dir)
	}
	return filepath.Join(usr.HomeDir, dir[1+len(userName):]), nil
}

// ExpandPath replaces a leading "~" and cleans the path.
func ExpandPath(filePath string) (string, error) {
	if filePath == "" {
		return "", errors.New("empty file path")
	}
	expanded, err := ReplaceTildeInDir(filePath)
	if err != nil {
		return "", err
	}
	return filepath.Clean(expanded), nil
}

// ReadFile is os.ReadFile with the path added to the error.
func ReadFile(filePath string) ([]byte, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %q", filePath)
	}
	return content, nil
}

// WriteFileAtomic writes content to filePath+".tmp" and then atomically renames it to filePath,
// so readers never see a partially written file. Missing parent directories are created.
func WriteFileAtomic(filePath string, content []byte) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, DirCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory %q", dir)
	}
	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, content, FileCreationPerm); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to write temporary file %q", tmpPath)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to move %q to %q", tmpPath, filePath)
	}
	return nil
}
