//go:build linux

package fptaylor

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
)

// alive reports whether pid is still running. Zombies count as gone.
func alive(pid int) bool {
	raw, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return false
	}
	stat := string(raw)
	i := strings.LastIndexByte(stat, ')')
	if i < 0 || i+2 >= len(stat) {
		return false
	}
	return stat[i+2] != 'Z'
}

func TestInvoke_TimeoutKillsHelperProcesses(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "helper.pid")
	program := writeScript(t, `sleep 30 &
echo $! > "`+pidFile+`"
wait`)
	r := NewRunner(program, t.TempDir())

	start := time.Now()
	_, err := r.Invoke(context.Background(), domain.InvokeRequest{Query: "q", Timeout: 300 * time.Millisecond})
	require.ErrorIs(t, err, domain.ErrTimeout)
	assert.Less(t, time.Since(start), waitDelay, "killed group must release the pipes before WaitDelay")

	raw, err := os.ReadFile(pidFile)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return !alive(pid) }, 2*time.Second, 20*time.Millisecond,
		"helper %d outlived the timeout", pid)
}
