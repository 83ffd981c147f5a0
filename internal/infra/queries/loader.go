// Package queries loads the report query template from disk and binds its
// named parameters into the driver's positional form. The template is
// opaque text; SQL syntax is never parsed or validated here.
package queries

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"immunization_reporter/internal/domain/schoolyear"

	"github.com/sirupsen/logrus"
)

var ErrQueryFileNotFound = errors.New("query file not found")

type Loader struct {
	path string
	log  *logrus.Entry
}

func NewLoader(path string, log *logrus.Entry) *Loader {
	return &Loader{path: path, log: log}
}

// Load reads the entire query template. The file is re-read on every call,
// never cached.
func (l *Loader) Load() (string, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrQueryFileNotFound, l.path)
	}
	if err != nil {
		return "", fmt.Errorf("error reading query file %s: %w", l.path, err)
	}
	l.log.Debugf("query template loaded from %s (%d bytes)", l.path, len(data))
	return string(data), nil
}

// Validate is a non-throwing health check on the query file: nil when the
// path exists, is a regular file, and has non-whitespace content.
func (l *Loader) Validate() error {
	info, err := os.Stat(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrQueryFileNotFound, l.path)
	}
	if err != nil {
		return fmt.Errorf("error checking query file %s: %w", l.path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("query path is not a regular file: %s", l.path)
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("error reading query file %s: %w", l.path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return fmt.Errorf("query file is empty: %s", l.path)
	}
	return nil
}

// Parameters builds the bind parameters for one report run.
func (l *Loader) Parameters(year schoolyear.Year) map[string]any {
	return map[string]any{"school_year": int(year)}
}

// Bind loads the template and rewrites its named placeholders for the
// given school year, returning the executable query and its ordered args.
func (l *Loader) Bind(year schoolyear.Year) (string, []any, error) {
	template, err := l.Load()
	if err != nil {
		return "", nil, err
	}
	return BindNamed(template, l.Parameters(year))
}
