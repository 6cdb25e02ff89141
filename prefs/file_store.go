package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

const prefsFileName = "preferences.json"

// FileStore persists preferences as a single JSON document on disk. A file
// lock guards against concurrent processes clobbering each other's writes;
// an in-process mutex guards concurrent goroutines.
type FileStore struct {
	dir  string
	lock sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on first write, not here.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (fs *FileStore) filePath() string {
	return filepath.Join(fs.dir, prefsFileName)
}

func (fs *FileStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "[FileStore.Set] marshal value")
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()

	return fs.withFileLock(func() error {
		doc, err := fs.readDocument()
		if err != nil {
			return errors.Wrap(err, "[FileStore.Set] read document")
		}
		doc[key] = json.RawMessage(raw)
		return fs.writeDocument(doc)
	})
}

func (fs *FileStore) Get(key string, out any) (bool, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	var raw json.RawMessage
	err := fs.withFileLock(func() error {
		doc, err := fs.readDocument()
		if err != nil {
			return errors.Wrap(err, "[FileStore.Get] read document")
		}
		raw = doc[key]
		return nil
	})
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrap(err, "[FileStore.Get] unmarshal value")
	}
	return true, nil
}

func (fs *FileStore) Remove(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	return fs.withFileLock(func() error {
		doc, err := fs.readDocument()
		if err != nil {
			return errors.Wrap(err, "[FileStore.Remove] read document")
		}
		if _, ok := doc[key]; !ok {
			return nil
		}
		delete(doc, key)
		return fs.writeDocument(doc)
	})
}

// withFileLock runs fn while holding the cross-process file lock. The lock
// file lives next to the preferences file.
func (fs *FileStore) withFileLock(fn func() error) error {
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return errors.Wrap(err, "[FileStore] create preferences directory")
	}

	fileLock := flock.New(fs.filePath() + ".lock")
	if err := fileLock.Lock(); err != nil {
		return errors.Wrap(err, "[FileStore] acquire file lock")
	}
	defer func() { _ = fileLock.Unlock() }()

	return fn()
}

func (fs *FileStore) readDocument() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(fs.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, err
	}

	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (fs *FileStore) writeDocument(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	// 0600: the document can hold the refresh token
	return os.WriteFile(fs.filePath(), data, 0o600)
}
