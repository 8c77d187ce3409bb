package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/pbxgraph/internal/config"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates an App logging at debug level into the returned
// buffer. A nil cfg uses config.Default.
func SetupAppTest(t *testing.T, cfg *config.Model) (*App, *SafeBuffer) {
	t.Helper()

	if cfg == nil {
		cfg = config.Default()
	}
	cfg = cfg.Clone()
	cfg.Log.Level = "debug"

	logBuffer := &SafeBuffer{}
	testApp, err := New(logBuffer, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("PBXGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
