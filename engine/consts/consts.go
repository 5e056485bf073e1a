package consts

import "time"

// Tunable Options
const (
	// For Storage Sets
	// STORAGE_FILE_PERM is the permission of persisted storage set files
	STORAGE_FILE_PERM = 0644
	// STORAGE_DIR_PERM is the permission of directories created for storage
	STORAGE_DIR_PERM = 0755
	// STORAGE_READ_BUFFSIZE is the buffer size used when parsing storage set files
	STORAGE_READ_BUFFSIZE = 16384

	// For Storage Routine
	// STORAGE_QUEUE_WARN_LEN is the operation queue length above which warnings are printed
	STORAGE_QUEUE_WARN_LEN = 100
	// STORAGE_RETRY_INTERVAL is the wait time before retrying a failed storage operation
	STORAGE_RETRY_INTERVAL = time.Second
	// STORAGE_SAVE_WARN_THRESHOLD is the save duration that triggers an opmon warning
	STORAGE_SAVE_WARN_THRESHOLD = time.Millisecond * 100
	// STORAGE_LOAD_WARN_THRESHOLD is the load duration that triggers an opmon warning
	STORAGE_LOAD_WARN_THRESHOLD = time.Millisecond * 100
	// STORAGE_LIST_WARN_THRESHOLD is the list duration that triggers an opmon warning
	STORAGE_LIST_WARN_THRESHOLD = time.Second

	// For World Loop
	// WORLD_TICK_INTERVAL is the tick interval to tick timers and posted callbacks
	WORLD_TICK_INTERVAL = time.Millisecond * 10

	// For Operation Monitor
	// OPMON_DUMP_INTERVAL is the interval to print opmon infos to output
	OPMON_DUMP_INTERVAL = 0
)

// Debug Options
const (
	// DEBUG_SAVE_LOAD prints save & load debug logs
	DEBUG_SAVE_LOAD = false
	// DEBUG_AUXILIARY prints auxiliary install & restore debug logs
	DEBUG_AUXILIARY = false
)

//  System level configurations
const (
	// DEBUG_MODE = true turns on debug mode
	DEBUG_MODE = false
)
