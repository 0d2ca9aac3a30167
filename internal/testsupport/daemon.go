package testsupport

import (
	"context"
	"testing"
	"time"

	"meridian/internal/ipc"
)

// WaitForDaemon polls the endpoint until the daemon answers a ping,
// failing the test after five seconds.
func WaitForDaemon(t testing.TB, endpoint string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(endpoint, time.Second)
		if err == nil {
			_, pingErr := client.Ping(context.Background())
			_ = client.Close()
			if pingErr == nil {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("daemon at %s never became reachable", endpoint)
}
