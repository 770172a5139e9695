package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

// LoadJSON reads a JSON fixture from the testdata directory and returns its
// raw bytes. If target is provided, it also unmarshals the JSON into the
// target struct.
func LoadJSON(filename string, target ...any) ([]byte, error) {
	_, currentFile, _, _ := runtime.Caller(0)
	dir := filepath.Dir(currentFile)

	data, err := os.ReadFile(filepath.Join(dir, "testdata", filename))
	if err != nil {
		return nil, err
	}

	if len(target) > 0 && target[0] != nil {
		if err := json.Unmarshal(data, target[0]); err != nil {
			return nil, err
		}
	}

	return data, nil
}
