// ABOUTME: YAML fixture storage for professors, used offline and in tests.
// ABOUTME: The file is re-read on every list call and written atomically on export.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/profsearch/internal/models"
)

// fixtureNamespace seeds stable UUIDs for fixture records that omit an id.
var fixtureNamespace = uuid.MustParse("6f1c2b8e-3d4a-5e6f-8a9b-0c1d2e3f4a5b")

// FileStore reads professors from a YAML file.
type FileStore struct {
	path string
}

// fixtureFile is the top-level layout of the fixture file.
type fixtureFile struct {
	Profesores []fixtureProfessor `yaml:"profesores"`
}

// fixtureProfessor mirrors models.Professor with YAML-friendly field types.
type fixtureProfessor struct {
	ID           string   `yaml:"id,omitempty"`
	Nombre       string   `yaml:"nombre"`
	Departamento string   `yaml:"departamento,omitempty"`
	Universidad  string   `yaml:"universidad,omitempty"`
	Biografia    string   `yaml:"biografia,omitempty"`
	Materias     []string `yaml:"materias,omitempty"`
}

// NewFileStore creates a store backed by the YAML file at path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("fixture path is required")
	}
	return &FileStore{path: path}, nil
}

// Path returns the fixture file location.
func (s *FileStore) Path() string {
	return s.path
}

// ListProfessors parses the fixture file and returns the requested page.
func (s *FileStore) ListProfessors(ctx context.Context, opts ListOptions) ([]*models.Professor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	professors := make([]*models.Professor, 0, len(file.Profesores))
	for i, fp := range file.Profesores {
		p := &models.Professor{
			Name:       fp.Nombre,
			Department: fp.Departamento,
			University: fp.Universidad,
			Bio:        fp.Biografia,
			Subjects:   fp.Materias,
		}
		if p.Subjects == nil {
			p.Subjects = []string{}
		}
		p.ID = strings.TrimSpace(fp.ID)
		if p.ID == "" {
			p.ID = uuid.NewSHA1(fixtureNamespace, []byte(strconv.Itoa(i)+":"+fp.Nombre)).String()
		}
		professors = append(professors, p)
	}

	return paginate(professors, opts), nil
}

// WriteProfessors replaces the fixture file with the given professors.
func (s *FileStore) WriteProfessors(professors []*models.Professor) error {
	file := fixtureFile{Profesores: make([]fixtureProfessor, 0, len(professors))}
	for _, p := range professors {
		fp := fixtureProfessor{
			ID:           p.ID,
			Nombre:       p.Name,
			Departamento: p.Department,
			Universidad:  p.University,
			Biografia:    p.Bio,
			Materias:     p.Subjects,
		}
		file.Profesores = append(file.Profesores, fp)
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to marshal fixture: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create fixture directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".profesores-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write fixture: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace fixture: %w", err)
	}
	return nil
}

// Close releases any resources held by the store.
func (s *FileStore) Close() error {
	return nil
}

var _ ProfessorStore = (*FileStore)(nil)
