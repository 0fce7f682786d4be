package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hexaengine/hexa/internal/core/table"
)

// Comp converts a table source in json, yaml or toml into a binary table
// file: comp <format> <source> [output].
type Comp struct{}

func NewComp() *Comp { return &Comp{} }

func (c *Comp) Name() string { return "comp" }

func (c *Comp) Description() string {
	return "convert a json, yaml or toml table source to " + table.BinaryExt
}

func (c *Comp) Execute(_ context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: source format is required", ErrUsage)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: source file path is required", ErrUsage)
	}
	format, src := strings.ToLower(args[0]), args[1]
	dst := strings.TrimSuffix(src, filepath.Ext(src)) + table.BinaryExt
	if len(args) >= 3 {
		dst = args[2]
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read from source file: %w", err)
	}
	file, err := Convert(format, data)
	if err != nil {
		return err
	}
	if err := table.WriteBinaryFile(dst, file); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	_, err = fmt.Fprintf(out, "Conversion done! %s -> %s\n", src, dst)
	return err
}

// Convert decodes a table source document of the given format.
func Convert(format string, data []byte) (table.File, error) {
	var doc map[string]map[string]any
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &doc)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &doc)
	case "toml":
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: converter %s is not a valid converter", ErrUsage, format)
	}
	if err != nil {
		return nil, fmt.Errorf("source contains a broken table document: %w", err)
	}

	file := make(table.File, len(doc))
	for tableName, records := range doc {
		converted := make(map[string]json.RawMessage, len(records))
		for key, record := range records {
			raw, err := json.Marshal(record)
			if err != nil {
				return nil, fmt.Errorf("record %s.%s: %w", tableName, key, err)
			}
			converted[key] = raw
		}
		file[tableName] = converted
	}
	return file, nil
}
