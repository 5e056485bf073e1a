package storageset

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/pkg/errors"
)

// WriteFile writes s to path.
//
// The data is written to a temporary file in the same directory which then replaces path,
// so a crash never leaves a truncated file behind.
func (s *Set) WriteFile(path string) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return errors.Wrap(err, "storageset: create temp file")
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = Encode(tmp, s); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "storageset: sync")
	}
	if err = tmp.Chmod(consts.STORAGE_FILE_PERM); err != nil {
		return errors.Wrap(err, "storageset: chmod")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "storageset: close")
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(err, "storageset: rename to %s", path)
	}

	if consts.DEBUG_SAVE_LOAD {
		gwlog.Debugf("storageset: written %s", path)
	}
	return nil
}

// Load parses the file at path.
//
// It returns nil, nil if the file does not exist and an empty Set if the file is empty.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "storageset: open %s", path)
	}
	defer f.Close()

	s, err := Decode(bufio.NewReaderSize(f, consts.STORAGE_READ_BUFFSIZE))
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return s, nil
}

// ReadFile parses the file at path, returning nil if it does not exist or can not be parsed.
//
// Failures are logged and never propagate, so one corrupt file can not take the world down.
func ReadFile(path string) *Set {
	s, err := Load(path)
	if err != nil {
		gwlog.Errorf("storageset: read %s failed: %v", path, err)
		return nil
	}
	return s
}
