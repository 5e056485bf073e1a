package entity_storage_filesystem

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	. "github.com/kasanryukin/nesiadmud/engine/storage/storage_common"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
)

// FileSystemEntityStorage saves each entity as a storage set file
type FileSystemEntityStorage struct {
	directory string
}

// FileName returns the name of the file the entity is saved to
func FileName(kind string, entityID common.EntityID) string {
	return kind + "$" + base64.URLEncoding.EncodeToString([]byte(entityID))
}

func (es *FileSystemEntityStorage) getFilePath(kind string, entityID common.EntityID) string {
	return filepath.Join(es.directory, FileName(kind, entityID))
}

func (es *FileSystemEntityStorage) Write(kind string, entityID common.EntityID, data *storageset.Set) error {
	saveFile := es.getFilePath(kind, entityID)
	if consts.DEBUG_SAVE_LOAD {
		gwlog.Debugf("Saving to file %s: %s", saveFile, data)
	}
	return data.WriteFile(saveFile)
}

func (es *FileSystemEntityStorage) Read(kind string, entityID common.EntityID) (*storageset.Set, error) {
	return storageset.Load(es.getFilePath(kind, entityID))
}

func (es *FileSystemEntityStorage) Exists(kind string, entityID common.EntityID) (exists bool, err error) {
	_, err = os.Stat(es.getFilePath(kind, entityID))
	if err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (es *FileSystemEntityStorage) Delete(kind string, entityID common.EntityID) error {
	err := os.Remove(es.getFilePath(kind, entityID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (es *FileSystemEntityStorage) List(kind string) ([]common.EntityID, error) {
	prefix := kind + "$"
	pat := filepath.Join(es.directory, prefix+"*")
	files, err := filepath.Glob(pat)
	if err != nil {
		return nil, err
	}
	res := make([]common.EntityID, 0, len(files))
	prefixLen := len(prefix)
	for _, fpath := range files {
		_, fn := filepath.Split(fpath)
		if !strings.HasPrefix(fn, prefix) {
			gwlog.Errorf("invalid file: %s", fpath)
			continue
		}
		idbytes, err := base64.URLEncoding.DecodeString(fn[prefixLen:])
		if err != nil {
			gwlog.Warnf("fail to parse file %s: %v", fpath, err)
			continue
		}

		res = append(res, common.EntityID(idbytes))
	}
	return res, nil
}

func (es *FileSystemEntityStorage) Close() {
	// need to do nothing
}

func (es *FileSystemEntityStorage) IsEOF(err error) bool {
	return false
}

// OpenDirectory opens the directory as entity storage, creating it if necessary
func OpenDirectory(directory string) (EntityStorage, error) {
	if err := os.MkdirAll(directory, consts.STORAGE_DIR_PERM); err != nil {
		return nil, errors.Wrap(err, "create storage directory failed")
	}

	return &FileSystemEntityStorage{
		directory: directory,
	}, nil
}
