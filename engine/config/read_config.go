package config

import (
	"encoding/json"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-ini/ini"
	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
	"github.com/pkg/errors"
)

const (
	_DEFAULT_CONFIG_FILE       = "nesiadmud.ini"
	_DEFAULT_SAVE_ITNERVAL     = time.Minute * 5
	_DEFAULT_LOG_LEVEL         = "debug"
	_DEFAULT_LOG_FILE          = "world.log"
	_DEFAULT_STORAGE_TYPE      = "filesystem"
	_DEFAULT_STORAGE_DIRECTORY = "lib/save"
	_DEFAULT_STORAGE_DB        = "nesiadmud"
)

// Storage types
const (
	StorageFilesystem   = "filesystem"
	StorageMongoDB      = "mongodb"
	StorageRedis        = "redis"
	StorageRedisCluster = "redis_cluster"
	StorageSQLite       = "sqlite"
)

var (
	configFilePath = _DEFAULT_CONFIG_FILE
	worldConfig    *NesiaConfig
	configLock     sync.Mutex
)

// WorldConfig defines fields of the world loop config
type WorldConfig struct {
	SaveInterval  time.Duration // Interval of periodical entity saving, 0 to disable
	SaveOnDestroy bool          // Save persistent entities when they are destroyed
	LogFile       string
	LogStderr     bool
	LogLevel      string
}

// StorageConfig defines fields of storage config
type StorageConfig struct {
	Type       string // Type of storage (filesystem, mongodb, redis, redis_cluster, sqlite)
	Directory  string // Directory of filesystem storage (filesystem)
	Url        string // Connection URL (mongodb, redis) or database file (sqlite)
	DB         string // Database name (mongodb, redis)
	StartNodes common.StringSet
}

// NesiaConfig defines the total config file structure
type NesiaConfig struct {
	World   WorldConfig
	Storage StorageConfig
}

// SetConfigFile sets the config file path (nesiadmud.ini by default)
func SetConfigFile(f string) {
	configLock.Lock()
	configFilePath = f
	worldConfig = nil
	configLock.Unlock()
}

// GetConfigDir returns the directory of the config file
func GetConfigDir() string {
	dir, _ := path.Split(configFilePath)
	return dir
}

// GetConfigFilePath returns the config file path
func GetConfigFilePath() string {
	return configFilePath
}

// Get returns the total config
func Get() *NesiaConfig {
	configLock.Lock()
	defer configLock.Unlock() // protect concurrent access from the storage routine
	if worldConfig == nil {
		worldConfig = readNesiaConfig()
	}
	return worldConfig
}

// Reload forces the config file to be read again
func Reload() *NesiaConfig {
	configLock.Lock()
	worldConfig = nil
	configLock.Unlock()

	return Get()
}

// GetWorld returns the world config
func GetWorld() *WorldConfig {
	return &Get().World
}

// GetStorage returns the storage config
func GetStorage() *StorageConfig {
	return &Get().Storage
}

// StartNodeList returns the redis cluster start nodes in sorted order
func (sc *StorageConfig) StartNodeList() []string {
	return sc.StartNodes.ToList()
}

// DumpPretty format config to string in pretty format
func DumpPretty(cfg interface{}) string {
	s, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err.Error()
	}
	return string(s)
}

func readNesiaConfig() *NesiaConfig {
	config := NesiaConfig{}
	gwlog.Infof("Using config file: %s", configFilePath)
	iniFile, err := ini.Load(configFilePath)
	checkConfigError(err, "")

	readWorldConfig(iniFile.Section("world"), &config.World)
	readStorageConfig(iniFile.Section("storage"), &config.Storage)

	for _, sec := range iniFile.Sections() {
		secName := strings.ToLower(sec.Name())
		if secName == "default" || secName == "world" || secName == "storage" {
			continue
		}
		gwlog.Errorf("unknown section: %s", sec.Name())
	}
	return &config
}

func readWorldConfig(sec *ini.Section, wc *WorldConfig) {
	wc.SaveInterval = _DEFAULT_SAVE_ITNERVAL
	wc.SaveOnDestroy = true
	wc.LogFile = _DEFAULT_LOG_FILE
	wc.LogStderr = true
	wc.LogLevel = _DEFAULT_LOG_LEVEL

	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "save_interval" {
			wc.SaveInterval = time.Second * time.Duration(key.MustInt(int(_DEFAULT_SAVE_ITNERVAL/time.Second)))
		} else if name == "save_on_destroy" {
			wc.SaveOnDestroy = key.MustBool(wc.SaveOnDestroy)
		} else if name == "log_file" {
			wc.LogFile = key.MustString(wc.LogFile)
		} else if name == "log_stderr" {
			wc.LogStderr = key.MustBool(wc.LogStderr)
		} else if name == "log_level" {
			wc.LogLevel = key.MustString(wc.LogLevel)
		} else {
			gwlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}

	if wc.SaveInterval < 0 {
		gwlog.Panicf("save_interval must not be negative")
	}
}

func readStorageConfig(sec *ini.Section, config *StorageConfig) {
	config.Type = _DEFAULT_STORAGE_TYPE
	config.Directory = _DEFAULT_STORAGE_DIRECTORY
	config.StartNodes = common.StringSet{}
	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "type" {
			config.Type = key.MustString(config.Type)
		} else if name == "directory" {
			config.Directory = key.MustString(config.Directory)
		} else if name == "url" {
			config.Url = key.MustString(config.Url)
		} else if name == "db" {
			config.DB = key.MustString(config.DB)
		} else if strings.HasPrefix(name, "start_nodes_") {
			config.StartNodes.Add(key.MustString(""))
		} else {
			gwlog.Panicf("section %s has unknown key: %s", sec.Name(), key.Name())
		}
	}

	if config.Type == StorageRedis {
		if config.DB == "" {
			config.DB = "0"
		}
	} else if config.Type == StorageMongoDB {
		if config.DB == "" {
			config.DB = _DEFAULT_STORAGE_DB
		}
	} else if config.Type == StorageSQLite {
		if config.Url == "" {
			config.Url = filepath.Join(config.Directory, _DEFAULT_STORAGE_DB+".db")
		}
	}

	validateStorageConfig(config)
}

func checkConfigError(err error, msg string) {
	if err != nil {
		if msg == "" {
			msg = err.Error()
		}
		gwlog.Panicf("read config error: %s", msg)
	}
}

func validateStorageConfig(config *StorageConfig) {
	if config.Type == StorageFilesystem {
		// directory must be set
		if config.Directory == "" {
			gwlog.Panicf("directory is not set in %s storage config", config.Type)
		}
	} else if config.Type == StorageMongoDB {
		if config.Url == "" {
			gwlog.Panicf("url is not set in %s storage config", config.Type)
		}
	} else if config.Type == StorageRedis {
		if config.Url == "" {
			gwlog.Panicf("redis url is not set")
		}
		if _, err := strconv.Atoi(config.DB); err != nil {
			gwlog.Panic(errors.Wrap(err, "redis db must be integer"))
		}
	} else if config.Type == StorageRedisCluster {
		if len(config.StartNodes) == 0 {
			gwlog.Panicf("must have at least 1 start_nodes for [storage].redis_cluster")
		}
		for s := range config.StartNodes {
			if s == "" {
				gwlog.Panicf("start_nodes must not be empty")
			}
		}
	} else if config.Type == StorageSQLite {
		if config.Url == "" {
			gwlog.Panicf("sqlite database file is not set")
		}
	} else {
		gwlog.Panicf("unknown storage type: %s, valid types: %v", config.Type, storageTypes())
	}
}

func storageTypes() []string {
	types := []string{StorageFilesystem, StorageMongoDB, StorageRedis, StorageRedisCluster, StorageSQLite}
	sort.Strings(types)
	return types
}
