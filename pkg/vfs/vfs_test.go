package vfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDocumentDisk_Write(t *testing.T) {
	tests := []struct {
		name         string
		docName      string
		data         []byte
		initialUsed  int
		expectErr    error
		expectedUsed int
	}{
		{
			name:         "Valid write",
			docName:      "DOC1",
			data:         []byte{1, 2, 3},
			expectedUsed: 3,
		},
		{
			name:      "Lower case name",
			docName:   "doc1",
			data:      []byte{1},
			expectErr: ErrInvalidName,
		},
		{
			name:      "Leading digit",
			docName:   "1DOC",
			data:      []byte{1},
			expectErr: ErrInvalidName,
		},
		{
			name:      "Name too long",
			docName:   "ABCDEFGHI",
			data:      []byte{1},
			expectErr: ErrInvalidName,
		},
		{
			name:      "Path traversal",
			docName:   "../PASSWD",
			data:      []byte{1},
			expectErr: ErrInvalidName,
		},
		{
			name:      "Document too large",
			docName:   "BIG",
			data:      make([]byte, MaxDocumentBytes+1),
			expectErr: ErrTooLarge,
		},
		{
			name:        "Quota exceeded",
			docName:     "LAST",
			data:        make([]byte, 10),
			initialUsed: MaxDiskBytes - 5,
			expectErr:   ErrQuotaExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDocumentDisk()
			d.UsedBytes = tt.initialUsed
			err := d.Write(tt.docName, tt.data)

			if !errors.Is(err, tt.expectErr) {
				t.Fatalf("Write() error = %v, want %v", err, tt.expectErr)
			}
			if tt.expectErr != nil {
				return
			}
			if d.UsedBytes != tt.expectedUsed {
				t.Errorf("UsedBytes = %d, expected %d", d.UsedBytes, tt.expectedUsed)
			}
			stored, ok := d.Docs[tt.docName]
			if !ok {
				t.Fatalf("document %s not stored", tt.docName)
			}
			if !reflect.DeepEqual(stored.Data, tt.data) {
				t.Errorf("Stored data = %v, expected %v", stored.Data, tt.data)
			}
			if stored.Created.IsZero() || stored.Modified.IsZero() {
				t.Errorf("Timestamps not set: Created=%v, Modified=%v", stored.Created, stored.Modified)
			}
		})
	}
}

func TestDocumentDisk_Open(t *testing.T) {
	d := NewDocumentDisk()
	data := []byte{10, 20, 30}
	if err := d.Write("DOC1", data); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		docName    string
		expectErr  error
		expectData []byte
	}{
		{"Open existing", "DOC1", nil, data},
		{"Open missing", "MISSING", ErrDocumentNotFound, nil},
		{"Open invalid name", "../x", ErrInvalidName, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Open(tt.docName)
			if !errors.Is(err, tt.expectErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.expectErr)
			}
			if tt.expectErr == nil && !reflect.DeepEqual(got, tt.expectData) {
				t.Errorf("Open() got = %v, want %v", got, tt.expectData)
			}
		})
	}
}

func TestDocumentDisk_CopiesData(t *testing.T) {
	d := NewDocumentDisk()
	data := []byte{1, 2, 3}
	if err := d.Write("DOC", data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data[0] = 99
	got, _ := d.Open("DOC")
	if got[0] == 99 {
		t.Error("Write kept a reference to the caller's buffer")
	}

	got[1] = 99
	again, _ := d.Open("DOC")
	if again[1] == 99 {
		t.Error("Open returned the stored buffer")
	}
}

func TestDocumentDisk_UpdateSize(t *testing.T) {
	d := NewDocumentDisk()

	if err := d.Write("UPD", []byte{1, 2, 3, 4, 5}); err != nil {
		t.Fatalf("Initial Write failed: %v", err)
	}
	created := d.Docs["UPD"].Created

	time.Sleep(1 * time.Millisecond)

	if err := d.Write("UPD", []byte{1, 2, 3, 4, 5, 6, 7}); err != nil {
		t.Fatalf("Update (larger) failed: %v", err)
	}
	if d.UsedBytes != 7 {
		t.Errorf("UsedBytes after larger update = %d, expected 7", d.UsedBytes)
	}
	entry := d.Docs["UPD"]
	if !entry.Created.Equal(created) {
		t.Error("Created time should not change on update")
	}
	if !entry.Modified.After(entry.Created) {
		t.Error("Modified time should be after Created time after update")
	}

	if err := d.Write("UPD", []byte{1, 2}); err != nil {
		t.Fatalf("Update (smaller) failed: %v", err)
	}
	if size, _ := d.Size("UPD"); size != 2 || d.UsedBytes != 2 {
		t.Errorf("size = %d, UsedBytes = %d, expected 2", size, d.UsedBytes)
	}
}

func TestDocumentDisk_QuotaExact(t *testing.T) {
	d := NewDocumentDisk()

	full := MaxDiskBytes / MaxDocumentBytes
	for i := 0; i < full; i++ {
		if err := d.Write(fmt.Sprintf("D%d", i), make([]byte, MaxDocumentBytes)); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}

	rest := MaxDiskBytes - full*MaxDocumentBytes
	if err := d.Write("REST", make([]byte, rest+1)); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Expected quota error, got %v", err)
	}
	if err := d.Write("REST", make([]byte, rest)); err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if d.UsedBytes != MaxDiskBytes || d.FreeSpace() != 0 {
		t.Errorf("UsedBytes = %d, expected %d", d.UsedBytes, MaxDiskBytes)
	}
}

func TestDocumentDisk_ListDelete(t *testing.T) {
	d := NewDocumentDisk()
	for _, name := range []string{"C", "A", "B"} {
		d.Write(name, []byte{1})
	}

	if list := d.List(); !reflect.DeepEqual(list, []string{"A", "B", "C"}) {
		t.Errorf("List = %v", list)
	}

	if err := d.Delete("B"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if list := d.List(); !reflect.DeepEqual(list, []string{"A", "C"}) {
		t.Errorf("List after delete = %v", list)
	}
	if d.UsedBytes != 2 {
		t.Errorf("UsedBytes = %d, expected 2", d.UsedBytes)
	}

	if err := d.Delete("B"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Delete missing error = %v, expected ErrDocumentNotFound", err)
	}
}

func TestDocumentDisk_Persistence(t *testing.T) {
	dir := t.TempDir()
	d := NewDocumentDisk()

	d.Write("DOC1", []byte{'a'})
	d.Write("DOC2", []byte{'b'})
	if !d.IsDirty() || !d.DirtyDocs["DOC1"] {
		t.Error("disk should be dirty after writes")
	}

	if err := d.PersistTo(dir); err != nil {
		t.Fatalf("PersistTo failed: %v", err)
	}
	if d.IsDirty() || len(d.DirtyDocs) != 0 {
		t.Error("disk should not be dirty after persist")
	}
	for _, f := range []string{"DOC1.bin", "DOC2.bin"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("%s not persisted: %v", f, err)
		}
	}

	d.Write("DOC1", []byte{'c'})
	d.Delete("DOC2")
	if d.DirtyDocs["DOC1"] != true || d.DirtyDocs["DOC2"] != true {
		t.Error("changed documents should be dirty")
	}
	if err := d.PersistTo(dir); err != nil {
		t.Fatalf("PersistTo failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "DOC2.bin")); !os.IsNotExist(err) {
		t.Error("DOC2.bin should have been deleted")
	}

	// Reload into a fresh disk; foreign files are ignored.
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "lower.bin"), []byte("x"), 0644)

	fresh := NewDocumentDisk()
	if err := fresh.LoadFrom(dir); err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if list := fresh.List(); !reflect.DeepEqual(list, []string{"DOC1"}) {
		t.Errorf("List = %v, want [DOC1]", list)
	}
	if got, _ := fresh.Open("DOC1"); !reflect.DeepEqual(got, []byte{'c'}) {
		t.Errorf("DOC1 = %v", got)
	}
	if fresh.IsDirty() {
		t.Error("freshly loaded disk should be clean")
	}
}

func TestDocumentDisk_LoadFromMissingDir(t *testing.T) {
	d := NewDocumentDisk()
	if err := d.LoadFrom(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("LoadFrom missing dir = %v, want nil", err)
	}
}
