package bank

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/abhisek/recall/internal/answermatch"
)

//go:embed banks/*.json
var builtinFS embed.FS

// SupportedMajor is the bank format major version this build reads.
const SupportedMajor = "v1"

// ValidationError reports a bank that failed schema or consistency checks.
type ValidationError struct {
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid bank %s: %v", e.Source, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// bankJSONSchema compiles the bank schema once.
func bankJSONSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(bankSchema), &def); err != nil {
			schemaErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		const url = "schema://bank.json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile bank schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Load decodes and validates one bank. source names the input in errors.
func Load(r io.Reader, source string) (*Bank, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	sch, err := bankJSONSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Source: source, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := sch.Validate(doc); err != nil {
		return nil, &ValidationError{Source: source, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var b Bank
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}
	if err := checkVersion(b.Version); err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}
	if err := b.Validate(); err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}
	return &b, nil
}

// LoadFile loads the bank stored at path.
func LoadFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bank: %w", err)
	}
	defer f.Close()
	return Load(f, path)
}

// LoadFS loads every *.json file in dir of fsys. Banks that fail to load are
// skipped; their errors are joined into the returned error, so the library
// is usable even when err is non-nil.
func LoadFS(fsys fs.FS, dir string) (*Library, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	sort.Strings(matches)

	var (
		banks []*Bank
		errs  []error
	)
	for _, name := range matches {
		f, err := fsys.Open(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", name, err))
			continue
		}
		b, err := Load(f, name)
		f.Close()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		banks = append(banks, b)
	}
	return NewLibrary(banks...), errors.Join(errs...)
}

// LoadDir loads the banks of a directory on disk.
func LoadDir(dir string) (*Library, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// Builtin returns the banks shipped with the binary.
func Builtin() (*Library, error) {
	return LoadFS(builtinFS, "banks")
}

// checkVersion accepts "v1.x.y" style versions; the leading v is optional.
func checkVersion(v string) error {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("%w: %s (this build reads %s)", ErrUnsupportedVersion, major, SupportedMajor)
	}
	return nil
}

// Validate checks the consistency rules the schema cannot express.
func (b *Bank) Validate() error {
	var errs []error
	if b.Preset != "" {
		if _, err := answermatch.Preset(b.Preset); err != nil {
			errs = append(errs, err)
		}
	}

	seen := make(map[string]bool, len(b.Questions))
	for i := range b.Questions {
		q := &b.Questions[i]
		if seen[q.ID] {
			errs = append(errs, fmt.Errorf("question %q: duplicate id", q.ID))
		}
		seen[q.ID] = true
		if err := q.validate(); err != nil {
			errs = append(errs, fmt.Errorf("question %q: %w", q.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (q *Question) validate() error {
	switch q.Kind {
	case KindMultipleChoice:
		if len(q.Options) < 2 {
			return errors.New("needs at least 2 options")
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
			return fmt.Errorf("answerIndex %d out of range", q.AnswerIndex)
		}
	case KindTypeIn:
		if strings.TrimSpace(q.Answer) == "" {
			return errors.New("empty answer")
		}
	case KindFindIncorrect:
		if len(q.Options) < 2 {
			return errors.New("needs at least 2 options")
		}
		if len(q.Incorrect) == 0 {
			return errors.New("no incorrect options listed")
		}
		picked := make(map[int]bool, len(q.Incorrect))
		for _, i := range q.Incorrect {
			if i < 0 || i >= len(q.Options) {
				return fmt.Errorf("incorrect index %d out of range", i)
			}
			if picked[i] {
				return fmt.Errorf("incorrect index %d listed twice", i)
			}
			picked[i] = true
		}
	case KindMatchPairs:
		terms := make(map[string]bool, len(q.Pairs))
		defs := make(map[string]bool, len(q.Pairs))
		for _, p := range q.Pairs {
			if terms[p.Term] || defs[p.Definition] {
				return fmt.Errorf("pair %q repeats a term or definition", p.Term)
			}
			terms[p.Term] = true
			defs[p.Definition] = true
		}
	default:
		return fmt.Errorf("unknown kind %q", q.Kind)
	}
	return nil
}
