package monitor

import (
	"fmt"
	"log/slog"
	"time"
)

// Defaults returns the monitors used for run metadata, watching storage at
// the given paths.
func Defaults(paths ...string) []Monitor {
	return []Monitor{
		NewHostMonitor(),
		NewCPUMonitor(),
		NewMemoryMonitor(),
		NewStorageMonitor(paths),
	}
}

// Collect runs every monitor once and merges the results. A failing monitor
// is logged and leaves its section zero.
func Collect(monitors []Monitor, logger *slog.Logger) *Snapshot {
	snap := &Snapshot{
		Timestamp: time.Now().UTC(),
		Storage:   make(StorageState),
	}

	for _, m := range monitors {
		data, err := m.Collect()
		if err != nil {
			logger.Warn("monitor collection failed",
				"monitor", m.Name(),
				"error", err,
			)
			continue
		}

		switch v := data.(type) {
		case *HostState:
			snap.Host = *v
		case *CPUState:
			snap.CPU = *v
		case *MemoryState:
			snap.Memory = *v
		case StorageState:
			for path, usage := range v {
				snap.Storage[path] = usage
			}
		default:
			logger.Debug("monitor returned unknown state", "monitor", m.Name(), "type", fmt.Sprintf("%T", v))
		}
	}

	return snap
}
