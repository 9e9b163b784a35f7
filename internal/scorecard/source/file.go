package source

import (
	"context"
	"fmt"
	"os"

	"scorecard/internal/scorecard"
)

// FileSource reads a scorecard artifact from the local file system.
type FileSource struct {
	path   string // path to the artifact
	format string // csv, yaml or json
}

// Load opens the artifact and decodes its rows.
// The context is accepted for Source compatibility; reading a local file is not cancellable.
func (fs *FileSource) Load(_ context.Context) (scorecard.Table, error) {
	file, err := os.Open(fs.path)
	if err != nil {
		return nil, fmt.Errorf("open scorecard %s: %w", fs.path, err)
	}
	defer file.Close()

	table, err := Decode(file, fs.format)
	if err != nil {
		return nil, fmt.Errorf("load scorecard %s: %w", fs.path, err)
	}
	return table, nil
}

// NewFileSource creates a source for the artifact at path.
// When format is empty it is inferred from the file extension.
func NewFileSource(path, format string) (*FileSource, error) {
	if format == "" {
		format = FormatFromName(path)
	}
	if format == "" {
		return nil, fmt.Errorf("cannot infer scorecard format of %s", path)
	}
	return &FileSource{path: path, format: format}, nil
}
