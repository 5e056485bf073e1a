package entitystoragesqlite

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"time"

	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/storage/storage_common"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// MemoryDSN opens a private in-memory database
const MemoryDSN = ":memory:"

var (
	dataPacker storagecommon.SetPacker = storagecommon.TextSetPacker{}
)

type sqliteEntityStorage struct {
	db *sql.DB
}

// OpenSQLite opens the sqlite database file as entity storage
func OpenSQLite(path string) (storagecommon.EntityStorage, error) {
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), consts.STORAGE_DIR_PERM); err != nil {
			return nil, errors.Wrap(err, "create sqlite directory failed")
		}
	}

	gwlog.Debugf("Opening SQLite %s ...", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite open failed")
	}
	// the storage routine is the only user, and each connection to :memory: is a new database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "sqlite create schema failed")
	}

	return &sqliteEntityStorage{
		db: db,
	}, nil
}

func (es *sqliteEntityStorage) List(kind string) ([]common.EntityID, error) {
	rows, err := es.db.Query("SELECT id FROM entities WHERE kind = ? ORDER BY id", kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eids []common.EntityID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		eids = append(eids, common.EntityID(id))
	}
	return eids, rows.Err()
}

func (es *sqliteEntityStorage) Write(kind string, entityID common.EntityID, data *storageset.Set) error {
	b, err := dataPacker.PackSet(data, nil)
	if err != nil {
		return err
	}

	_, err = es.db.Exec(`INSERT INTO entities (kind, id, data, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		kind, string(entityID), b, time.Now().Unix())
	return err
}

func (es *sqliteEntityStorage) Read(kind string, entityID common.EntityID) (*storageset.Set, error) {
	var b []byte
	err := es.db.QueryRow("SELECT data FROM entities WHERE kind = ? AND id = ?", kind, string(entityID)).Scan(&b)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return dataPacker.UnpackSet(b)
}

func (es *sqliteEntityStorage) Exists(kind string, entityID common.EntityID) (bool, error) {
	var n int
	err := es.db.QueryRow("SELECT COUNT(*) FROM entities WHERE kind = ? AND id = ?", kind, string(entityID)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (es *sqliteEntityStorage) Delete(kind string, entityID common.EntityID) error {
	_, err := es.db.Exec("DELETE FROM entities WHERE kind = ? AND id = ?", kind, string(entityID))
	return err
}

func (es *sqliteEntityStorage) Close() {
	if err := es.db.Close(); err != nil {
		gwlog.Errorf("sqlite close failed: %v", err)
	}
}

func (es *sqliteEntityStorage) IsEOF(err error) bool {
	return err == sql.ErrConnDone
}
