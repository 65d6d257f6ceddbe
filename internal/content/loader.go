// Package content loads course sections, article bodies and assessment banks
// from a directory tree and builds the assessment widgets they declare.
package content

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/trade-courses/internal/assessment"
)

const (
	bankSuffix    = ".assessments.yaml"
	articleSuffix = ".article.md"
)

// Loader loads and caches course content from the filesystem.
type Loader struct {
	rootDir          string
	defaultThreshold int

	sections     map[string]Section
	articles     map[string]string
	quizzes      map[string]map[string]*assessment.Quiz
	checks       map[string]map[string]*assessment.InlineCheck
	widgets      map[string][]WidgetDescriptor
	fingerprints map[string]string
	mu           sync.RWMutex
}

// NewLoader loads all content under rootDir. defaultThreshold applies to quizzes
// whose bank sets no pass_threshold; 0 selects assessment.DefaultPassThreshold.
// Any malformed assessment bank fails the whole load.
func NewLoader(rootDir string, defaultThreshold int) (*Loader, error) {
	l := &Loader{
		rootDir:          rootDir,
		defaultThreshold: defaultThreshold,
		sections:         make(map[string]Section),
		articles:         make(map[string]string),
		quizzes:          make(map[string]map[string]*assessment.Quiz),
		checks:           make(map[string]map[string]*assessment.InlineCheck),
		widgets:          make(map[string][]WidgetDescriptor),
		fingerprints:     make(map[string]string),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	slog.Info("content loaded",
		"sections", len(l.sections),
		"quizzes", countWidgets(l.quizzes),
		"inline_checks", countWidgets(l.checks),
	)
	return l, nil
}

// Section returns a section by ID.
func (l *Loader) Section(id string) (Section, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sections[id]
	return s, ok
}

// Sections returns all sections ordered by course, then order, then ID.
func (l *Loader) Sections() []Section {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sections := make([]Section, 0, len(l.sections))
	for _, s := range l.sections {
		sections = append(sections, s)
	}
	sort.Slice(sections, func(i, j int) bool {
		a, b := sections[i], sections[j]
		if a.Course != b.Course {
			return a.Course < b.Course
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return sections
}

// Article returns the markdown body for a section.
func (l *Loader) Article(sectionID string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.articles[sectionID]
	return a, ok
}

// Quiz returns a validated quiz. Callers start their own attempt state from it.
func (l *Loader) Quiz(sectionID, quizID string) (*assessment.Quiz, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	q, ok := l.quizzes[sectionID][quizID]
	return q, ok
}

// InlineCheck returns a validated inline check.
func (l *Loader) InlineCheck(sectionID, checkID string) (*assessment.InlineCheck, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.checks[sectionID][checkID]
	return c, ok
}

// Widgets returns the learner-facing descriptors of a section's widgets.
func (l *Loader) Widgets(sectionID string) []WidgetDescriptor {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]WidgetDescriptor(nil), l.widgets[sectionID]...)
}

// Fingerprint identifies the bank revision a section's widgets were built from.
func (l *Loader) Fingerprint(sectionID string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fingerprints[sectionID]
}

type loadedBank struct {
	path string
	raw  []byte
	bank Bank
}

func (l *Loader) loadAll() error {
	var banks []loadedBank
	var errs []error

	err := filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		switch {
		case strings.HasSuffix(path, articleSuffix):
			return l.loadArticle(path)
		case strings.HasSuffix(path, bankSuffix):
			b, err := readBank(path)
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			banks = append(banks, b)
		case strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml"):
			return l.loadSection(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Banks are attached after the walk so they can reference any section.
	for _, b := range banks {
		if err := l.attachBank(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *Loader) loadSection(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var section Section
	if err := yaml.Unmarshal(data, &section); err != nil {
		slog.Warn("skipping invalid section YAML", "path", path, "error", err)
		return nil
	}

	if section.ID == "" {
		return nil // Not a section file
	}

	l.mu.Lock()
	l.sections[section.ID] = section
	l.mu.Unlock()

	return nil
}

func (l *Loader) loadArticle(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Derive the section ID from the matching YAML file
	yamlPath := strings.TrimSuffix(path, articleSuffix) + ".yaml"
	yamlData, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil // No matching YAML, skip
	}

	var partial struct {
		ID string `yaml:"id"`
	}
	if err := yaml.Unmarshal(yamlData, &partial); err != nil || partial.ID == "" {
		return nil
	}

	l.mu.Lock()
	l.articles[partial.ID] = string(data)
	l.mu.Unlock()

	return nil
}

func readBank(path string) (loadedBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadedBank{}, fmt.Errorf("%s: %w", path, err)
	}
	bank, err := ParseBank(data)
	if err != nil {
		return loadedBank{}, fmt.Errorf("%s: %w", path, err)
	}
	return loadedBank{path: path, raw: data, bank: bank}, nil
}

func (l *Loader) attachBank(b loadedBank) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sectionID := b.bank.SectionID
	if _, ok := l.sections[sectionID]; !ok {
		return fmt.Errorf("%s: unknown section %q", b.path, sectionID)
	}
	if _, ok := l.fingerprints[sectionID]; ok {
		return fmt.Errorf("%s: section %q already has an assessment bank", b.path, sectionID)
	}

	built, err := Build(b.bank, l.defaultThreshold)
	if err != nil {
		return fmt.Errorf("%s: %w", b.path, err)
	}

	l.quizzes[sectionID] = built.Quizzes
	l.checks[sectionID] = built.InlineChecks
	l.widgets[sectionID] = built.Widgets
	l.fingerprints[sectionID] = Fingerprint(b.raw)
	return nil
}

func countWidgets[T any](m map[string]map[string]T) int {
	n := 0
	for _, inner := range m {
		n += len(inner)
	}
	return n
}
