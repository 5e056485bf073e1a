package opmon

import (
	"sync"
	"time"

	"sort"

	"fmt"
	"io"
	"os"

	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
)

var (
	operationAllocPool = sync.Pool{
		New: func() interface{} {
			return &Operation{}
		},
	}

	monitor = newMonitor()
)

func init() {
	if consts.OPMON_DUMP_INTERVAL > 0 {
		go func() {
			for {
				time.Sleep(consts.OPMON_DUMP_INTERVAL)
				Dump(os.Stderr)
			}
		}()
	}
}

// OpStats is the accumulated statistics of one kind of operation
type OpStats struct {
	Name          string
	Count         uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
}

// Avg returns the average duration of the operation
func (s OpStats) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Count)
}

type _Monitor struct {
	sync.Mutex
	opInfos map[string]*OpStats
}

func newMonitor() *_Monitor {
	m := &_Monitor{
		opInfos: map[string]*OpStats{},
	}
	return m
}

func (monitor *_Monitor) record(opname string, duration time.Duration) {
	monitor.Lock()
	info := monitor.opInfos[opname]
	if info == nil {
		info = &OpStats{Name: opname}
		monitor.opInfos[opname] = info
	}
	info.Count += 1
	info.TotalDuration += duration
	if duration > info.MaxDuration {
		info.MaxDuration = duration
	}
	monitor.Unlock()
}

func (monitor *_Monitor) snapshot(reset bool) []OpStats {
	monitor.Lock()
	opInfos := monitor.opInfos
	if reset {
		monitor.opInfos = map[string]*OpStats{}
	}
	res := make([]OpStats, 0, len(opInfos))
	for _, info := range opInfos {
		res = append(res, *info)
	}
	monitor.Unlock()

	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})
	return res
}

// Stats returns the statistics of all operations recorded so far, sorted by name
func Stats() []OpStats {
	return monitor.snapshot(false)
}

// Dump prints operation statistics to w and clears them
func Dump(w io.Writer) {
	fmt.Fprint(w, "=====================================================================================\n")
	for _, info := range monitor.snapshot(true) {
		fmt.Fprintf(w, "%-30sx%-10d AVG %-10s MAX %-10s\n", info.Name, info.Count, info.Avg(), info.MaxDuration)
	}
}

// Operation is the type of operation to be monitored
type Operation struct {
	name      string
	startTime time.Time
}

// StartOperation creates a new operation
func StartOperation(operationName string) *Operation {
	op := operationAllocPool.Get().(*Operation)
	op.name = operationName
	op.startTime = time.Now()
	return op
}

// Finish finishes the operation and records the duration of operation
func (op *Operation) Finish(warnThreshold time.Duration) {
	takeTime := time.Since(op.startTime)
	monitor.record(op.name, takeTime)
	if takeTime >= warnThreshold {
		gwlog.Warnf("opmon: operation %s takes %s > %s", op.name, takeTime, warnThreshold)
	}
	operationAllocPool.Put(op)
}
