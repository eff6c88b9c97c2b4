package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Layout of run directories under a root:
//
//	<root>/<YYYY-MM-DD>/<name>/<HH-MM-SS>
const (
	dateLayout = "2006-01-02"
	timeLayout = "15-04-05"
)

// clock is swapped in tests.
type clock struct {
	now   func() time.Time
	sleep func(time.Duration)
}

var systemClock = clock{now: time.Now, sleep: time.Sleep}

// CreateLogDir creates and returns a fresh run directory under root for
// the run called name. When the directory for the current second already
// exists it waits for the next second.
func CreateLogDir(root, name string) (string, error) {
	return systemClock.createLogDir(root, name)
}

func (c clock) createLogDir(root, name string) (string, error) {
	for {
		now := c.now()
		dir := filepath.Join(root, now.Format(dateLayout), name, now.Format(timeLayout))

		_, err := os.Stat(dir)
		if err == nil {
			c.sleep(time.Second)
			continue
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to inspect log directory: %w", err)
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
		return dir, nil
	}
}
