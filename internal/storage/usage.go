package storage

import (
	"fmt"
	"os"
)

// Usage is a best-effort storage accounting snapshot.
type Usage struct {
	UsedBytes  int64
	QuotaBytes int64 // 0 when no quota is configured
}

// UsageEstimate reports how many bytes the database occupies on disk,
// including the WAL and shared-memory sidecar files, against an optional
// configured quota. When the database file cannot be statted the feature is
// unsupported on this host and ErrUsageUnavailable is returned; callers
// treat that as "unknown", not as a failure.
func UsageEstimate(dbPath string, quotaBytes int64) (Usage, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return Usage{}, fmt.Errorf("%w: %s", ErrUsageUnavailable, dbPath)
	}

	used := info.Size()
	for _, sidecar := range []string{dbPath + "-wal", dbPath + "-shm"} {
		if si, err := os.Stat(sidecar); err == nil {
			used += si.Size()
		}
	}

	return Usage{UsedBytes: used, QuotaBytes: quotaBytes}, nil
}
