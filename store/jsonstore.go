package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// file content: table name -> document id -> document
type jsonFileContent map[string]map[string]json.RawMessage

// one lock per file, shared by all tables living in it
var fileLocks sync.Map

/**
* Table persisted into a single json file, using the layout of the legacy key and record files
* ({"<table>": {"<id>": {...}}}). The file is re-read on every access, so other processes
* (e.g. the register-key command) may write to it while the server is running.
 */
type JsonFileTable struct {
	path string
	name string
	lock *sync.RWMutex
}

func NewJsonFileTable(path string, name string) (*JsonFileTable, error) {
	if path == "" {
		return nil, errors.New("no_file_path_provided")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("was not able to create %s: %w", dir, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	lock, _ := fileLocks.LoadOrStore(absPath, &sync.RWMutex{})
	logger.Debugf("Opened json table %s at %s.", name, absPath)
	return &JsonFileTable{path: absPath, name: name, lock: lock.(*sync.RWMutex)}, nil
}

func (t *JsonFileTable) Name() string {
	return t.name
}

func (t *JsonFileTable) Get(ctx context.Context, id string) ([]byte, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	content, err := t.read()
	if err != nil {
		return nil, err
	}
	document, ok := content[t.name][id]
	if !ok {
		return nil, notFound(t.name, id)
	}
	// the file is indented, callers get the compact form
	compacted := bytes.Buffer{}
	if err := json.Compact(&compacted, document); err != nil {
		return nil, err
	}
	return compacted.Bytes(), nil
}

func (t *JsonFileTable) Insert(ctx context.Context, id string, document []byte) error {
	return t.modify(func(documents map[string]json.RawMessage) error {
		if _, ok := documents[id]; ok {
			return alreadyExists(t.name, id)
		}
		documents[id] = json.RawMessage(document)
		return nil
	})
}

func (t *JsonFileTable) Update(ctx context.Context, id string, document []byte) error {
	return t.modify(func(documents map[string]json.RawMessage) error {
		if _, ok := documents[id]; !ok {
			return notFound(t.name, id)
		}
		documents[id] = json.RawMessage(document)
		return nil
	})
}

func (t *JsonFileTable) Remove(ctx context.Context, id string) error {
	return t.modify(func(documents map[string]json.RawMessage) error {
		if _, ok := documents[id]; !ok {
			return notFound(t.name, id)
		}
		delete(documents, id)
		return nil
	})
}

func (t *JsonFileTable) Truncate(ctx context.Context) error {
	return t.modify(func(documents map[string]json.RawMessage) error {
		for id := range documents {
			delete(documents, id)
		}
		return nil
	})
}

func (t *JsonFileTable) Ping(ctx context.Context) error {
	t.lock.RLock()
	defer t.lock.RUnlock()
	_, err := t.read()
	return err
}

func (t *JsonFileTable) modify(modification func(documents map[string]json.RawMessage) error) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	content, err := t.read()
	if err != nil {
		return err
	}
	documents, ok := content[t.name]
	if !ok {
		documents = map[string]json.RawMessage{}
		content[t.name] = documents
	}
	if err := modification(documents); err != nil {
		return err
	}
	return t.write(content)
}

func (t *JsonFileTable) read() (content jsonFileContent, err error) {
	content = jsonFileContent{}
	fileContent, err := os.ReadFile(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return content, nil
	}
	if err != nil {
		return content, fmt.Errorf("was not able to read %s: %w", t.path, err)
	}
	if len(bytes.TrimSpace(fileContent)) == 0 {
		return content, nil
	}
	if err := json.Unmarshal(fileContent, &content); err != nil {
		return content, fmt.Errorf("%s is not a valid document file: %w", t.path, err)
	}
	return content, nil
}

func (t *JsonFileTable) write(content jsonFileContent) error {
	fileContent, err := json.MarshalIndent(content, "", "    ")
	if err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(t.path), filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("was not able to write %s: %w", t.path, err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(fileContent); err != nil {
		tmpFile.Close()
		return fmt.Errorf("was not able to write %s: %w", t.path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpFile.Name(), t.path)
}
