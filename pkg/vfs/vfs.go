package vfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// MaxDiskBytes represents the maximum disk size in bytes (1.44MB).
const MaxDiskBytes = 1474560

// MaxDocumentBytes caps a single compiled document.
const MaxDocumentBytes = 64 * 1024

// HostExt is the extension of persisted documents on the host.
const HostExt = ".bin"

// validName matches document names: a capital letter followed by up to
// seven capitals or digits.
var validName = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,7}$`)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidName      = errors.New("invalid document name")
	ErrQuotaExceeded    = errors.New("disk quota exceeded")
	ErrTooLarge         = errors.New("document too large")
)

// ValidName reports whether name can be stored.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

type Entry struct {
	Data     []byte
	Created  time.Time
	Modified time.Time
}

// DocumentDisk is an in-memory store of compiled documents.
type DocumentDisk struct {
	Mu        sync.RWMutex
	Docs      map[string]*Entry
	DirtyDocs map[string]bool
	UsedBytes int
	Dirty     bool
}

// NewDocumentDisk creates an empty disk.
func NewDocumentDisk() *DocumentDisk {
	return &DocumentDisk{
		Docs:      make(map[string]*Entry),
		DirtyDocs: make(map[string]bool),
	}
}

// Write stores a compiled document under name, replacing any previous
// version. The data is copied.
func (d *DocumentDisk) Write(name string, data []byte) error {
	d.Mu.Lock()
	defer d.Mu.Unlock()

	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if len(data) > MaxDocumentBytes {
		return fmt.Errorf("%s: %w (%d bytes)", name, ErrTooLarge, len(data))
	}

	oldSize := 0
	entry := d.Docs[name]
	if entry != nil {
		oldSize = len(entry.Data)
	}

	newSize := len(data)
	if d.UsedBytes-oldSize+newSize > MaxDiskBytes {
		return ErrQuotaExceeded
	}

	newData := make([]byte, newSize)
	copy(newData, data)

	if entry == nil {
		entry = &Entry{Created: time.Now()}
		d.Docs[name] = entry
	}
	entry.Data = newData
	entry.Modified = time.Now()

	d.DirtyDocs[name] = true
	d.UsedBytes = d.UsedBytes - oldSize + newSize
	d.Dirty = true

	return nil
}

// Open returns a copy of the named document. The caller owns the buffer and
// may drop it once parsed.
func (d *DocumentDisk) Open(name string) ([]byte, error) {
	d.Mu.RLock()
	defer d.Mu.RUnlock()

	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	entry, ok := d.Docs[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrDocumentNotFound)
	}

	out := make([]byte, len(entry.Data))
	copy(out, entry.Data)
	return out, nil
}

// Size returns the size of a document in bytes.
func (d *DocumentDisk) Size(name string) (int, error) {
	d.Mu.RLock()
	defer d.Mu.RUnlock()

	entry, ok := d.Docs[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrDocumentNotFound)
	}
	return len(entry.Data), nil
}

// Delete removes a document.
func (d *DocumentDisk) Delete(name string) error {
	d.Mu.Lock()
	defer d.Mu.Unlock()

	entry, ok := d.Docs[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrDocumentNotFound)
	}

	d.UsedBytes -= len(entry.Data)
	delete(d.Docs, name)

	// the host copy goes on the next persist
	d.DirtyDocs[name] = true
	d.Dirty = true

	return nil
}

// FreeSpace returns the number of free bytes on the disk.
func (d *DocumentDisk) FreeSpace() int {
	d.Mu.RLock()
	defer d.Mu.RUnlock()
	return MaxDiskBytes - d.UsedBytes
}

// List returns the stored document names in order.
func (d *DocumentDisk) List() []string {
	d.Mu.RLock()
	defer d.Mu.RUnlock()

	names := make([]string, 0, len(d.Docs))
	for k := range d.Docs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsDirty reports whether there are changes not yet persisted.
func (d *DocumentDisk) IsDirty() bool {
	d.Mu.RLock()
	defer d.Mu.RUnlock()
	return d.Dirty
}

// LoadFrom reads every NAME.bin file in a host directory. Files whose names
// are not valid document names, or that exceed the size limits, are skipped.
// A missing directory is not an error.
func (d *DocumentDisk) LoadFrom(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	d.Mu.Lock()
	defer d.Mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), HostExt)
		if !ok || !validName.MatchString(name) {
			continue
		}

		fullPath := filepath.Join(path, entry.Name())
		raw, err := os.ReadFile(fullPath)
		if err != nil || len(raw) > MaxDocumentBytes || d.UsedBytes+len(raw) > MaxDiskBytes {
			continue
		}

		doc := &Entry{Data: raw, Created: time.Now(), Modified: time.Now()}
		if info, err := entry.Info(); err == nil {
			doc.Created = info.ModTime()
			doc.Modified = info.ModTime()
		}

		if old, ok := d.Docs[name]; ok {
			d.UsedBytes -= len(old.Data)
		}
		d.Docs[name] = doc
		d.UsedBytes += len(raw)
	}

	return nil
}

// PersistTo writes all dirty documents to a host directory, creating it if
// needed, and removes the host copies of deleted ones. It returns the first
// error encountered; documents that failed stay dirty.
func (d *DocumentDisk) PersistTo(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}

	// Snapshot under the lock, then do I/O without it.
	d.Mu.Lock()
	snapshot := make(map[string]*Entry)
	deleted := make([]string, 0)

	for name := range d.DirtyDocs {
		if entry, ok := d.Docs[name]; ok {
			data := make([]byte, len(entry.Data))
			copy(data, entry.Data)
			snapshot[name] = &Entry{Data: data, Created: entry.Created, Modified: entry.Modified}
		} else {
			deleted = append(deleted, name)
		}
		delete(d.DirtyDocs, name)
	}
	d.Dirty = false
	d.Mu.Unlock()

	var firstErr error

	for _, name := range deleted {
		err := os.Remove(filepath.Join(path, name+HostExt))
		if err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}

	for name, entry := range snapshot {
		file := filepath.Join(path, name+HostExt)
		if err := os.WriteFile(file, entry.Data, 0644); err != nil {
			d.Mu.Lock()
			d.DirtyDocs[name] = true
			d.Dirty = true
			d.Mu.Unlock()
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		_ = os.Chtimes(file, time.Now(), entry.Modified)
	}

	return firstErr
}
