// Package snapshot compares JSON renderings of values against files kept
// under a package's testdata directory.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var (
	lock      sync.Mutex
	funcCount = make(map[string]int)
)

// ValidateSnapshot compares obj with testdata/<TestFunc>-<n>.json, where n counts
// the calls made from the same test function. A missing snapshot is written out
// and the check passes.
func ValidateSnapshot(t *testing.T, obj interface{}, depth int, msgAndArgs ...interface{}) {
	t.Helper()

	filename := snapshotFile(2 + depth)

	objJSON, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatalf("could not marshal snapshot: %v", err)
	}

	expects, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			if err := create(filename, objJSON); err != nil {
				t.Fatalf("could not write snapshot %s: %v", filename, err)
			}
			return
		}

		t.Fatalf("could not read snapshot %s: %v", filename, err)
	}

	if !assert.Equal(t, strings.Trim(string(expects), "\n"), strings.Trim(string(objJSON), "\n"), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
	}
}

func snapshotFile(skip int) string {
	pc, _, _, _ := runtime.Caller(skip)
	funcName := filepath.Base(runtime.FuncForPC(pc).Name())

	lock.Lock()
	call := funcCount[funcName]
	funcCount[funcName] = call + 1
	lock.Unlock()

	return filepath.Join("testdata", fmt.Sprintf("%s-%d.json", funcName, call))
}

func create(filename string, objJSON []byte) error {
	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	return os.WriteFile(filename, append(objJSON, '\n'), 0644)
}
