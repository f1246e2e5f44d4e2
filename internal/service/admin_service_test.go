package service

import (
	"context"
	"path/filepath"
	"testing"

	"jewel-backoffice-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adminTestLogger writes to a file in a per-test temp dir so GetLogs reads
// back exactly what the test logged.
func adminTestLogger(t *testing.T) logger.ILogger {
	t.Helper()
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "app.log"))
	t.Cleanup(func() { _ = log.Sync() })
	return log
}

func TestAdminServiceGetSystemLogs(t *testing.T) {
	log := adminTestLogger(t)
	log.Info("ExportService", "catalog exported", map[string]interface{}{"rows": 12})
	log.Error("RewriterService", "store rejected update", map[string]interface{}{"sku": "JW-100"})
	require.NoError(t, log.Sync())

	svc := NewAdminService(log)

	logs, err := svc.GetSystemLogs(context.Background(), 1, 10, "")
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Newest first.
	assert.Equal(t, "store rejected update", logs[0].Message)
	assert.Equal(t, "RewriterService", logs[0].Module)
	assert.Equal(t, "catalog exported", logs[1].Message)
	assert.NotEmpty(t, logs[0].Id)

	errors, err := svc.GetSystemLogs(context.Background(), 1, 10, "ERROR")
	require.NoError(t, err)
	require.Len(t, errors, 1)
	assert.Equal(t, "store rejected update", errors[0].Message)
}

func TestAdminServiceGetLogDetail(t *testing.T) {
	log := adminTestLogger(t)
	log.Info("ExportService", "catalog exported", map[string]interface{}{"rows": float64(12)})
	require.NoError(t, log.Sync())

	svc := NewAdminService(log)

	logs, err := svc.GetSystemLogs(context.Background(), 1, 10, "")
	require.NoError(t, err)
	require.Len(t, logs, 1)

	detail, err := svc.GetLogDetail(context.Background(), logs[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "catalog exported", detail.Message)
	assert.Equal(t, float64(12), detail.Details["rows"])

	_, err = svc.GetLogDetail(context.Background(), "no-such-id")
	assert.Error(t, err)
}
