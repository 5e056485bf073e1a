package storage

import (
	"strconv"
	"time"

	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/config"
	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/opmon"
	"github.com/kasanryukin/nesiadmud/engine/post"
	"github.com/kasanryukin/nesiadmud/engine/storage/backend/filesystem"
	"github.com/kasanryukin/nesiadmud/engine/storage/backend/mongodb"
	"github.com/kasanryukin/nesiadmud/engine/storage/backend/redis"
	"github.com/kasanryukin/nesiadmud/engine/storage/backend/redis_cluster"
	"github.com/kasanryukin/nesiadmud/engine/storage/backend/sqlite"
	"github.com/kasanryukin/nesiadmud/engine/storage/storage_common"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
	"github.com/xiaonanln/go-xnsyncutil/xnsyncutil"
)

var (
	storageConfig            *config.StorageConfig
	storageEngine            storagecommon.EntityStorage
	operationQueue           *xnsyncutil.SyncQueue
	storageRoutineTerminated *xnsyncutil.OneTimeCond
)

type saveRequest struct {
	Kind     string
	EntityID common.EntityID
	Data     *storageset.Set
	Callback SaveCallbackFunc
}

type loadRequest struct {
	Kind     string
	EntityID common.EntityID
	Callback LoadCallbackFunc
}

type existsRequest struct {
	Kind     string
	EntityID common.EntityID
	Callback ExistsCallbackFunc
}

type deleteRequest struct {
	Kind     string
	EntityID common.EntityID
	Callback DeleteCallbackFunc
}

type listEntityIDsRequest struct {
	Kind     string
	Callback ListCallbackFunc
}

// SaveCallbackFunc is the callback type of storage Save
type SaveCallbackFunc func()

// LoadCallbackFunc is the callback type of storage Load
//
// data is nil if the entity is not saved. The callback owns data and should Close it when done.
type LoadCallbackFunc func(data *storageset.Set, err error)

// ExistsCallbackFunc is the callback type of storage Exists
type ExistsCallbackFunc func(exists bool, err error)

// DeleteCallbackFunc is the callback type of storage Delete
type DeleteCallbackFunc func(err error)

// ListCallbackFunc is the callback type of storage List
type ListCallbackFunc func([]common.EntityID, error)

// Save saves entity data to storage
//
// The storage routine takes the ownership of data, the caller must not use it any more.
func Save(kind string, entityID common.EntityID, data *storageset.Set, callback SaveCallbackFunc) {
	operationQueue.Push(saveRequest{
		Kind:     kind,
		EntityID: entityID,
		Data:     data,
		Callback: callback,
	})
	checkOperationQueueLen()
}

// Load loads entity data from storage
func Load(kind string, entityID common.EntityID, callback LoadCallbackFunc) {
	operationQueue.Push(loadRequest{
		Kind:     kind,
		EntityID: entityID,
		Callback: callback,
	})
	checkOperationQueueLen()
}

// Exists checks if entity of specified ID exists in storage
func Exists(kind string, entityID common.EntityID, callback ExistsCallbackFunc) {
	operationQueue.Push(existsRequest{
		Kind:     kind,
		EntityID: entityID,
		Callback: callback,
	})
	checkOperationQueueLen()
}

// Delete removes the saved entity from storage
func Delete(kind string, entityID common.EntityID, callback DeleteCallbackFunc) {
	operationQueue.Push(deleteRequest{
		Kind:     kind,
		EntityID: entityID,
		Callback: callback,
	})
	checkOperationQueueLen()
}

// ListEntityIDs returns all entity IDs in storage
//
// Return values can be large for common entity kinds
func ListEntityIDs(kind string, callback ListCallbackFunc) {
	operationQueue.Push(listEntityIDsRequest{
		Kind:     kind,
		Callback: callback,
	})
	checkOperationQueueLen()
}

var recentWarnedQueueLen = 0

func checkOperationQueueLen() {
	qlen := operationQueue.Len()
	if qlen > consts.STORAGE_QUEUE_WARN_LEN && qlen%consts.STORAGE_QUEUE_WARN_LEN == 0 && recentWarnedQueueLen != qlen {
		gwlog.Warnf("Storage operation queue length = %d", qlen)
		recentWarnedQueueLen = qlen
	}
}

// Shutdown storage module, waiting for all queued operations to finish
func Shutdown() {
	operationQueue.Close()
	storageRoutineTerminated.Wait()
}

// Initialize is called by engine to initialize storage module
func Initialize(cfg *config.StorageConfig) {
	storageConfig = cfg
	err := assureStorageEngineReady()
	if err != nil {
		gwlog.Fatalf("Storage engine is not ready: %s", err)
	}
	start()
}

// InitializeWithEngine starts the storage module on an opened storage engine
func InitializeWithEngine(es storagecommon.EntityStorage) {
	storageConfig = nil
	storageEngine = es
	start()
}

func start() {
	operationQueue = xnsyncutil.NewSyncQueue()
	storageRoutineTerminated = xnsyncutil.NewOneTimeCond()
	go storageRoutine()
}

// OpenStorage opens the storage engine described by cfg
func OpenStorage(cfg *config.StorageConfig) (storagecommon.EntityStorage, error) {
	switch cfg.Type {
	case config.StorageFilesystem:
		return entity_storage_filesystem.OpenDirectory(cfg.Directory)
	case config.StorageMongoDB:
		return entitystoragemongodb.OpenMongoDB(cfg.Url, cfg.DB)
	case config.StorageRedis:
		dbindex, err := strconv.Atoi(cfg.DB)
		if err != nil {
			return nil, errors.Wrap(err, "redis db must be integer")
		}
		return entitystorageredis.OpenRedis(cfg.Url, dbindex)
	case config.StorageRedisCluster:
		return entitystoragerediscluster.OpenRedisCluster(cfg.StartNodeList())
	case config.StorageSQLite:
		return entitystoragesqlite.OpenSQLite(cfg.Url)
	}
	return nil, errors.Errorf("unknown storage type: %s", cfg.Type)
}

func assureStorageEngineReady() (err error) {
	if storageEngine != nil {
		return
	}
	if storageConfig == nil {
		return errors.New("storage engine is closed")
	}

	storageEngine, err = OpenStorage(storageConfig)
	return
}

func closeStorageEngineOnEOF(err error) {
	if err != nil && storageEngine != nil && storageEngine.IsEOF(err) {
		storageEngine.Close()
		storageEngine = nil
	}
}

func storageRoutine() {
	defer func() {
		err := recover()
		if err != nil {
			gwlog.TraceError("storage routine paniced: %s, restarting ...", err)
			go storageRoutine() // restart the storage routine
		} else {
			// normal quit
			if storageEngine != nil {
				storageEngine.Close()
				storageEngine = nil
			}
			storageRoutineTerminated.Signal()
		}
	}()

	for {
		op := operationQueue.Pop()
		if op == nil { // entity storage closed
			break
		}

		for {
			err := assureStorageEngineReady()
			if err == nil {
				break
			}
			gwlog.Errorf("Storage engine is not ready: %s", err)
			time.Sleep(consts.STORAGE_RETRY_INTERVAL)
		}

		switch req := op.(type) {
		case saveRequest:
			handleSaveRequest(req)
		case loadRequest:
			handleLoadRequest(req)
		case existsRequest:
			monop := opmon.StartOperation("storage.exists")
			exists, err := storageEngine.Exists(req.Kind, req.EntityID)
			monop.Finish(consts.STORAGE_LOAD_WARN_THRESHOLD)
			if req.Callback != nil {
				post.Post(func() {
					req.Callback(exists, err)
				})
			}
			closeStorageEngineOnEOF(err)
		case deleteRequest:
			monop := opmon.StartOperation("storage.delete")
			err := storageEngine.Delete(req.Kind, req.EntityID)
			monop.Finish(consts.STORAGE_SAVE_WARN_THRESHOLD)
			if err != nil {
				gwlog.Errorf("storage: delete %s %s failed: %s", req.Kind, req.EntityID, err)
			}
			if req.Callback != nil {
				post.Post(func() {
					req.Callback(err)
				})
			}
			closeStorageEngineOnEOF(err)
		case listEntityIDsRequest:
			monop := opmon.StartOperation("storage.list")
			eids, err := storageEngine.List(req.Kind)
			if err != nil {
				gwlog.TraceError("ListEntityIDs %s failed: %s", req.Kind, err)
			}
			monop.Finish(consts.STORAGE_LIST_WARN_THRESHOLD)
			if req.Callback != nil {
				post.Post(func() {
					req.Callback(eids, err)
				})
			}
			closeStorageEngineOnEOF(err)
		default:
			gwlog.Panicf("storage: unknown operation: %v", op)
		}
	}
}

func handleSaveRequest(req saveRequest) {
	monop := opmon.StartOperation("storage.save")
	defer req.Data.Close()
	for {
		if consts.DEBUG_SAVE_LOAD {
			gwlog.Debugf("storage: SAVING %s %s ...", req.Kind, req.EntityID)
		}
		err := assureStorageEngineReady()
		if err != nil {
			gwlog.Errorf("Storage engine is not ready: %s", err)
			time.Sleep(consts.STORAGE_RETRY_INTERVAL) // wait to retry
			continue
		}

		err = storageEngine.Write(req.Kind, req.EntityID, req.Data)
		if err != nil {
			// save failed ?
			gwlog.Errorf("storage: save %s %s failed: %s", req.Kind, req.EntityID, err)
			closeStorageEngineOnEOF(err)
			time.Sleep(consts.STORAGE_RETRY_INTERVAL)
			continue // always retry if fail
		}

		monop.Finish(consts.STORAGE_SAVE_WARN_THRESHOLD)
		if req.Callback != nil {
			post.Post(func() {
				req.Callback()
			})
		}
		return
	}
}

func handleLoadRequest(req loadRequest) {
	if consts.DEBUG_SAVE_LOAD {
		gwlog.Debugf("storage: LOADING %s %s ...", req.Kind, req.EntityID)
	}
	monop := opmon.StartOperation("storage.load")
	data, err := storageEngine.Read(req.Kind, req.EntityID)
	if err != nil {
		gwlog.Errorf("storage: load %s %s failed: %s", req.Kind, req.EntityID, err)
		data = nil
	}

	monop.Finish(consts.STORAGE_LOAD_WARN_THRESHOLD)
	if req.Callback != nil {
		post.Post(func() {
			req.Callback(data, err)
		})
	} else if data != nil {
		data.Close()
	}
	closeStorageEngineOnEOF(err)
}
