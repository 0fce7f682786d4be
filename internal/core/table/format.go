package table

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

const (
	TextExt   = ".db"
	BinaryExt = ".bdb"
)

// File is the content of a table file: table name to record name to record.
type File map[string]map[string]json.RawMessage

// Tables lists table names in sorted order.
func (f File) Tables() []string {
	return slices.Sorted(maps.Keys(f))
}

// DecodeText reads a ".db" JSON file. Top level entries that are not JSON
// objects are returned in skipped.
func DecodeText(r io.Reader) (file File, skipped []string, err error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", TextExt, err)
	}

	file = make(File, len(top))
	for _, name := range slices.Sorted(maps.Keys(top)) {
		var records map[string]json.RawMessage
		if err := json.Unmarshal(top[name], &records); err != nil || records == nil {
			skipped = append(skipped, name)
			continue
		}
		file[name] = records
	}
	return file, skipped, nil
}

func DecodeBinary(r io.Reader) (File, error) {
	var file File
	if err := gob.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", BinaryExt, err)
	}
	return file, nil
}

func EncodeBinary(w io.Writer, file File) error {
	if err := gob.NewEncoder(w).Encode(file); err != nil {
		return fmt.Errorf("encoding %s: %w", BinaryExt, err)
	}
	return nil
}

// ReadFile decodes a table file by extension.
func ReadFile(path string) (File, []string, error) {
	ext := filepath.Ext(path)
	if ext != TextExt && ext != BinaryExt {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if ext == TextExt {
		return DecodeText(f)
	}
	file, err := DecodeBinary(f)
	return file, nil, err
}

// WriteBinaryFile writes file as a ".bdb" at path.
func WriteBinaryFile(path string, file File) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeBinary(f, file); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// IsTableFile reports whether path has a table file extension.
func IsTableFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == TextExt || ext == BinaryExt
}
