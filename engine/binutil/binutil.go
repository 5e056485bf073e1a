package binutil

import (
	"github.com/kasanryukin/nesiadmud/engine/gwlog"
)

// SetupGWLog setup the log system
func SetupGWLog(component string, logLevel string, logFile string, logStderr bool) {
	gwlog.SetSource(component)
	gwlog.Infof("Set log level to %s", logLevel)
	gwlog.SetLevel(gwlog.ParseLevel(logLevel))

	outputs := LogOutputs(logFile, logStderr)
	if len(outputs) == 0 {
		gwlog.Warnf("no log output configured, logging to stderr")
		outputs = []string{"stderr"}
	}
	gwlog.SetOutput(outputs)
}

// LogOutputs returns the log output paths for the log file and stderr settings
func LogOutputs(logFile string, logStderr bool) []string {
	outputs := make([]string, 0, 2)
	if logFile != "" {
		outputs = append(outputs, logFile)
	}
	if logStderr {
		outputs = append(outputs, "stderr")
	}
	return outputs
}
