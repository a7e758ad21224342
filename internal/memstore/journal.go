package memstore

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// journalFile is the name of the event log inside the data directory.
const journalFile = "memory.json"

// compactThreshold is the number of replayed events above which the log is
// rewritten on open.
const compactThreshold = 1000

// Journal is an append-only JSON event log of memory changes.
//
// The log is replayed when the journal is opened. Saves are handed to a
// background loop which appends the difference to the previous snapshot,
// so Save never blocks on disk I/O.
type Journal struct {
	dataDir  string
	dataFile *os.File
	writer   *json.Encoder
	written  Snapshot // owned by mainLoop after open

	mu      sync.Mutex
	current Snapshot
	err     error // first write error
	closed  bool

	saveCh  chan Snapshot
	flushCh chan struct{}
	quitCh  chan struct{}
	wg      sync.WaitGroup
}

// NewJournal opens the journal in datadir, creating it if needed, and
// replays it.
func NewJournal(datadir string) (*Journal, error) {
	j := &Journal{
		dataDir: datadir,
		saveCh:  make(chan Snapshot, 256),
		flushCh: make(chan struct{}, 1),
		quitCh:  make(chan struct{}),
	}
	if err := j.initFile(); err != nil {
		return nil, err
	}
	j.current = j.written.Clone()
	j.wg.Add(1)
	go j.mainLoop()
	return j, nil
}

// Load returns the most recent snapshot, including saves that have not been
// written yet.
func (j *Journal) Load() (Snapshot, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return Snapshot{}, ErrClosed
	}
	return j.current.Clone(), nil
}

// Save queues s to be written. It returns the first error of an earlier
// write, if any.
func (j *Journal) Save(s Snapshot) error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return ErrClosed
	}
	if j.err != nil {
		err := j.err
		j.mu.Unlock()
		return err
	}
	j.current = s.Clone()
	j.mu.Unlock()

	select {
	case j.saveCh <- s.Clone():
	case <-j.quitCh:
	}
	return nil
}

// Persist tells the journal to flush data to disk.
func (j *Journal) Persist() {
	select {
	case j.flushCh <- struct{}{}:
	default:
	}
}

// Close writes pending saves, closes the file and waits for the loop to exit.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	j.mu.Unlock()

	close(j.quitCh)
	j.wg.Wait()

	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *Journal) mainLoop() {
	defer j.wg.Done()

	for {
		select {
		case s := <-j.saveCh:
			j.write(s)

		case <-j.flushCh:
			err := j.dataFile.Sync()
			log.Printf("memory journal flushed (err: %v)", err)
			j.setErr(err)

		case <-j.quitCh:
			j.drain()
			err := j.dataFile.Close()
			log.Printf("memory journal closed (err: %v)", err)
			j.setErr(err)
			return
		}
	}
}

// drain writes saves that were queued before Close.
func (j *Journal) drain() {
	for {
		select {
		case s := <-j.saveCh:
			j.write(s)
		default:
			return
		}
	}
}

func (j *Journal) write(s Snapshot) {
	for _, ev := range diff(j.written, s) {
		if err := writeEvent(j.writer, ev); err != nil {
			j.setErr(err)
			return
		}
		ev.apply(&j.written)
	}
}

func (j *Journal) setErr(err error) {
	if err == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err == nil {
		j.err = err
	}
}

func (j *Journal) initFile() error {
	if err := os.MkdirAll(j.dataDir, 0700); err != nil {
		return err
	}
	filename := filepath.Join(j.dataDir, journalFile)
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	log.Printf("memory journal opened: %s", filename)

	count, clean := j.replay(json.NewDecoder(f))
	if count > compactThreshold || !clean {
		f.Close()
		if f, err = j.compact(filename); err != nil {
			return err
		}
	} else if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return err
	}
	j.dataFile = f
	j.writer = json.NewEncoder(f)
	return nil
}

// replay loads events from the data file into j.written. It reports false
// if the log ends in a damaged entry.
func (j *Journal) replay(dec *json.Decoder) (int, bool) {
	count := 0
	for {
		ev, err := readEvent(dec)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("decode error: %v", err)
			return count, false
		}
		if ev == nil {
			continue
		}
		count++
		ev.apply(&j.written)
	}
	log.Println("replay done:", count, "events")
	return count, true
}

// compact rewrites the log as the minimal event sequence for j.written.
func (j *Journal) compact(filename string) (*os.File, error) {
	tmp := filename + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(f)
	for _, ev := range diff(Snapshot{}, j.written) {
		if err := writeEvent(enc, ev); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return nil, err
	}
	if err := os.Rename(tmp, filename); err != nil {
		f.Close()
		return nil, err
	}
	log.Printf("memory journal compacted: %s", filename)
	return f, nil
}
