package jabber

import "os"

// loadStateFile reads the persisted snapshot from disk. A missing file is
// treated as "no prior state" rather than an error, so a fresh bot starts
// with an empty engine.
func loadStateFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)

	if os.IsNotExist(err) {
		return nil, nil
	}

	return data, err
}
