package relay

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StatePersister watches the engine's version counter and writes a
// snapshot whenever the model changes, at most once per saveInterval.
type StatePersister struct {
	engine       *ChatEngine
	log          Logger
	stateFile    string
	saveInterval time.Duration
	lastSaveTime time.Time
}

// NewStatePersister constructs a persister for engine. Call Run in its
// own goroutine to start the background loop.
func NewStatePersister(engine *ChatEngine, log Logger, stateFile string, saveInterval time.Duration) *StatePersister {
	return &StatePersister{
		engine:       engine,
		log:          log,
		stateFile:    stateFile,
		saveInterval: saveInterval,
	}
}

// Run is the persister's background loop. It never returns; a fatal fault
// in it is expected to crash the process.
func (p *StatePersister) Run() {
	for {
		e := p.engine

		e.mu.Lock()
		for e.currentVersion <= e.savedVersion {
			e.versionCond.Wait()
		}
		e.mu.Unlock()

		sleep := p.saveInterval - time.Since(p.lastSaveTime)
		if sleep > 0 {
			time.Sleep(sleep)
		}

		p.trySave()
	}
}

// trySave takes a snapshot under the mutex if there is still something
// unsaved (the wait in Run can race with a concurrent save), then writes
// it to disk outside the mutex.
func (p *StatePersister) trySave() {
	e := p.engine

	e.mu.Lock()

	if e.currentVersion == e.savedVersion {
		e.mu.Unlock()

		return
	}

	doc := e.serializeLocked()
	e.savedVersion = e.currentVersion
	p.lastSaveTime = time.Now()

	e.mu.Unlock()

	if err := p.writeSnapshot(doc); err != nil {
		p.log.Errorf("unable to write state file %s: %s", p.stateFile, err)
	}
}

// SaveStateIfChanged performs a synchronous save, used from the shutdown
// path.
func (p *StatePersister) SaveStateIfChanged() {
	p.trySave()
}

func (p *StatePersister) writeSnapshot(doc snapshotDoc) error {
	data, err := yaml.Marshal(doc)

	if err != nil {
		return err
	}

	tmpPath := p.stateFile + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)

	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)

		return err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)

		return err
	}

	return os.Rename(tmpPath, p.stateFile)
}
