package nesiadmud

import (
	"context"
	"os"
	"time"

	"github.com/kasanryukin/nesiadmud/engine/auxiliary"
	"github.com/kasanryukin/nesiadmud/engine/binutil"
	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/config"
	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/kasanryukin/nesiadmud/engine/entity"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/kasanryukin/nesiadmud/engine/opmon"
	"github.com/kasanryukin/nesiadmud/engine/post"
	"github.com/kasanryukin/nesiadmud/engine/storage"
	"github.com/xiaonanln/goTimer"
)

// EntityID is the type of entity ID
type EntityID = common.EntityID

// Entity is the type of world entities
type Entity = entity.Entity

// Initialize reads the config file and starts the auxiliary registry and the storage module.
//
// Auxiliaries can be installed only after Initialize.
func Initialize(configFile string) {
	if configFile != "" {
		config.SetConfigFile(configFile)
	}
	cfg := config.Get()
	binutil.SetupGWLog("world", cfg.World.LogLevel, cfg.World.LogFile, cfg.World.LogStderr)
	gwlog.Infof("Read config: %s", config.DumpPretty(cfg))

	auxiliary.Initialize()
	entity.SetSaveInterval(cfg.World.SaveInterval)
	entity.SetSaveOnDestroy(cfg.World.SaveOnDestroy)
	storage.Initialize(&cfg.Storage)
}

// Install installs a new auxiliary type
func Install(desc auxiliary.Descriptor) error {
	return auxiliary.Install(desc)
}

// CreateEntity creates a new entity of kind
func CreateEntity(kind auxiliary.Kind) *Entity {
	return entity.CreateEntity(kind)
}

// LoadEntity loads a saved entity, calling cb in the world loop
func LoadEntity(kind auxiliary.Kind, id EntityID, cb func(e *Entity, err error)) {
	entity.LoadEntity(kind, id, cb)
}

// GetEntity returns the loaded entity of specified ID, or nil
func GetEntity(id EntityID) *Entity {
	return entity.GetEntity(id)
}

// Tick runs posted callbacks and expired timers. It must be called periodically by the world loop.
func Tick() {
	post.Tick()
	timer.Tick()
}

// Run ticks the world until ctx is done, then shuts down the world
func Run(ctx context.Context) {
	if consts.OPMON_DUMP_INTERVAL > 0 {
		timer.AddTimer(consts.OPMON_DUMP_INTERVAL, func() {
			opmon.Dump(os.Stderr)
		})
	}

	ticker := time.NewTicker(consts.WORLD_TICK_INTERVAL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			gwlog.Infof("World is shutting down: %v", ctx.Err())
			Shutdown()
			return
		case <-ticker.C:
			Tick()
		}
	}
}

// Shutdown destroys all entities, waits for all storage operations to finish and tears down the auxiliary registry
func Shutdown() {
	if !config.GetWorld().SaveOnDestroy {
		entity.SaveAllEntities()
	}
	entity.DestroyAllEntities()
	storage.Shutdown()
	post.Tick()
	auxiliary.Teardown()
	gwlog.Sync()
}
