package relay

import "gopkg.in/yaml.v3"

// Serialize takes a full snapshot of the engine's state under the state
// mutex.
func (e *ChatEngine) Serialize() ([]byte, error) {
	e.mu.Lock()
	doc := e.serializeLocked()
	e.mu.Unlock()

	return yaml.Marshal(doc)
}

// Deserialize replaces the engine's state with the contents of data.
// Channels with empty membership after loading are dropped. It returns
// false on unparseable input or a nick-uniqueness violation.
func (e *ChatEngine) Deserialize(data []byte) bool {
	var doc snapshotDoc

	if err := yaml.Unmarshal(data, &doc); err != nil {
		e.log.Errorf("unable to parse state snapshot: %s", err)

		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.applyLocked(doc)
}
