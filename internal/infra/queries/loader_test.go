package queries

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
)

func testEntry() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func writeQueryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "query.sql")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ReturnsFileContents(t *testing.T) {
	const query = "SELECT 1 WHERE year = :school_year\n"
	l := NewLoader(writeQueryFile(t, query), testEntry())

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != query {
		t.Errorf("Load() = %q, want %q", got, query)
	}
}

func TestLoad_IdempotentForUnchangedFile(t *testing.T) {
	l := NewLoader(writeQueryFile(t, "SELECT :school_year"), testEntry())

	first, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("two loads of an unchanged file differ: %q vs %q", first, second)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "absent.sql"), testEntry())
	_, err := l.Load()
	if !errors.Is(err, ErrQueryFileNotFound) {
		t.Errorf("Load() error = %v, want ErrQueryFileNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name   string
		path   string
		wantOK bool
	}{
		{"valid file", writeQueryFile(t, "SELECT 1"), true},
		{"missing file", filepath.Join(dir, "absent.sql"), false},
		{"directory", dir, false},
		{"empty file", writeQueryFile(t, ""), false},
		{"whitespace only", writeQueryFile(t, " \n\t\n"), false},
	}
	for _, tc := range cases {
		err := NewLoader(tc.path, testEntry()).Validate()
		if (err == nil) != tc.wantOK {
			t.Errorf("%s: Validate() = %v, want ok=%v", tc.name, err, tc.wantOK)
		}
	}
}

func TestParameters(t *testing.T) {
	l := NewLoader("unused.sql", testEntry())
	got := l.Parameters(2024)
	want := map[string]any{"school_year": 2024}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parameters(2024) = %v, want %v", got, want)
	}
}

func TestBindNamed(t *testing.T) {
	params := map[string]any{"school_year": 2024}

	cases := []struct {
		name      string
		query     string
		wantQuery string
		wantArgs  []any
		wantErr   bool
	}{
		{
			name:      "single placeholder",
			query:     "SELECT * FROM enrollments WHERE school_year = :school_year",
			wantQuery: "SELECT * FROM enrollments WHERE school_year = $1",
			wantArgs:  []any{2024},
		},
		{
			name:      "repeated placeholder shares the ordinal",
			query:     "SELECT :school_year WHERE y = :school_year",
			wantQuery: "SELECT $1 WHERE y = $1",
			wantArgs:  []any{2024},
		},
		{
			name:      "type cast untouched",
			query:     "SELECT enrolled::int FROM t WHERE y = :school_year",
			wantQuery: "SELECT enrolled::int FROM t WHERE y = $1",
			wantArgs:  []any{2024},
		},
		{
			name:      "no placeholders",
			query:     "SELECT 1",
			wantQuery: "SELECT 1",
			wantArgs:  nil,
		},
		{
			name:    "unknown placeholder",
			query:   "SELECT :district_id",
			wantErr: true,
		},
	}
	for _, tc := range cases {
		gotQuery, gotArgs, err := BindNamed(tc.query, params)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: BindNamed() succeeded, want error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: BindNamed() error: %v", tc.name, err)
			continue
		}
		if gotQuery != tc.wantQuery {
			t.Errorf("%s: query = %q, want %q", tc.name, gotQuery, tc.wantQuery)
		}
		if !reflect.DeepEqual(gotArgs, tc.wantArgs) {
			t.Errorf("%s: args = %v, want %v", tc.name, gotArgs, tc.wantArgs)
		}
	}
}
