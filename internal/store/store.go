// Package store persists ledger data: user pattern files in YAML and
// classified transactions in SQLite.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/patterns"
	"saikumar/sms-ledger/internal/smserror"

	"gopkg.in/yaml.v3"
)

// Default file names for the user-editable pattern files.
const (
	DefaultCategoriesFile       = "categories.yaml"
	DefaultMerchantPatternsFile = "merchant_patterns.yaml"
	DefaultSalaryPayersFile     = "salary_payers.yaml"
)

// PatternFileStore loads and saves the user-editable YAML files: the
// category catalog, merchant patterns and salary payer names.
type PatternFileStore struct {
	CategoriesFile       string
	MerchantPatternsFile string
	SalaryPayersFile     string
	logger               logging.Logger
}

// NewPatternFileStore creates a store for the given files. Empty names use
// the defaults.
func NewPatternFileStore(categoriesFile, merchantFile, salaryFile string, logger logging.Logger) *PatternFileStore {
	return &PatternFileStore{
		CategoriesFile:       orDefault(categoriesFile, DefaultCategoriesFile),
		MerchantPatternsFile: orDefault(merchantFile, DefaultMerchantPatternsFile),
		SalaryPayersFile:     orDefault(salaryFile, DefaultSalaryPayersFile),
		logger:               logging.OrDefault(logger),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// FindConfigFile looks for a file in the current directory, ./config,
// ./database and ~/.config/sms-ledger.
func (s *PatternFileStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "sms-ledger", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// readFile returns nil data and no error when the file does not exist.
func (s *PatternFileStore) readFile(filename, what string) ([]byte, string, error) {
	path, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Pattern file not found, using defaults",
				logging.Field{Key: logging.FieldPath, Value: filename},
				logging.Field{Key: logging.FieldSource, Value: what})
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("error resolving %s file: %w", what, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("error reading %s file: %w", what, err)
	}
	return data, path, nil
}

// writePath returns the existing location of filename or ./database/filename.
func (s *PatternFileStore) writePath(filename string) (string, error) {
	path, err := s.FindConfigFile(filename)
	if err == nil {
		return path, nil
	}
	if filepath.IsAbs(filename) {
		path = filename
	} else {
		path = filepath.Join("database", filename)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}
	return path, nil
}

// LoadCategories loads the category catalog. A missing file yields the
// built-in catalog. Both "categories: [...]" and a bare list are accepted.
func (s *PatternFileStore) LoadCategories() ([]models.Category, error) {
	data, path, err := s.readFile(s.CategoriesFile, "categories")
	if err != nil {
		return nil, err
	}
	if data == nil {
		return models.DefaultCatalog(), nil
	}

	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && len(cfg.Categories) > 0 {
		return s.validateCategories(cfg.Categories, path)
	}
	var list []models.Category
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, &smserror.ValidationError{Path: path, Reason: fmt.Sprintf("not a category list: %v", err)}
	}
	if len(list) == 0 {
		s.logger.Warn("Categories file is empty, using defaults", logging.Field{Key: logging.FieldPath, Value: path})
		return models.DefaultCatalog(), nil
	}
	return s.validateCategories(list, path)
}

// validateCategories assigns missing ids after the highest id in use and
// rejects unnamed or duplicate entries.
func (s *PatternFileStore) validateCategories(list []models.Category, path string) ([]models.Category, error) {
	var maxID int64
	seen := make(map[string]bool, len(list))
	for _, c := range list {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			return nil, &smserror.ValidationError{Path: path, Reason: "category without a name"}
		}
		if seen[name] {
			return nil, &smserror.ValidationError{Path: path, Reason: fmt.Sprintf("duplicate category %q", c.Name)}
		}
		seen[name] = true
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	out := make([]models.Category, len(list))
	for i, c := range list {
		c.Name = strings.TrimSpace(c.Name)
		if c.ID == 0 {
			maxID++
			c.ID = maxID
		}
		if c.Type == "" {
			c.Type = models.CategoryTypeExpense
		}
		out[i] = c
	}
	s.logger.Debug("Loaded categories",
		logging.Field{Key: logging.FieldPath, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(out)})
	return out, nil
}

// LoadMerchantPatterns loads the keyword to category map. Entries with an
// empty keyword or category are skipped with a warning.
func (s *PatternFileStore) LoadMerchantPatterns() (map[string]string, error) {
	data, path, err := s.readFile(s.MerchantPatternsFile, "merchant patterns")
	if err != nil || data == nil {
		return map[string]string{}, err
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing merchant patterns: %w", err)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if err := ValidatePattern(k, v); err != nil {
			s.logger.WithError(err).Warn("Skipping merchant pattern",
				logging.Field{Key: logging.FieldPath, Value: path},
				logging.Field{Key: logging.FieldMerchant, Value: k})
			continue
		}
		out[patterns.Normalize(k)] = strings.TrimSpace(v)
	}
	s.logger.Debug("Loaded merchant patterns",
		logging.Field{Key: logging.FieldPath, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(out)})
	return out, nil
}

// ValidatePattern checks one keyword to category entry.
func ValidatePattern(keyword, category string) error {
	if strings.TrimSpace(keyword) == "" {
		return fmt.Errorf("%w: empty keyword", smserror.ErrInvalidPattern)
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: empty category for %q", smserror.ErrInvalidPattern, keyword)
	}
	if len(patterns.Normalize(keyword)) < 3 {
		return fmt.Errorf("%w: keyword %q is shorter than 3 characters", smserror.ErrInvalidPattern, keyword)
	}
	return nil
}

// SaveMerchantPatterns writes the keyword to category map.
func (s *PatternFileStore) SaveMerchantPatterns(mappings map[string]string) error {
	for k, v := range mappings {
		if err := ValidatePattern(k, v); err != nil {
			return err
		}
	}
	return s.writeYAML(s.MerchantPatternsFile, "merchant patterns", mappings, len(mappings))
}

type salaryPayersFile struct {
	SalaryPayers []string `yaml:"salary_payers"`
}

// LoadSalaryPayers loads the salary payer names, de-duplicated and sorted.
func (s *PatternFileStore) LoadSalaryPayers() ([]string, error) {
	data, path, err := s.readFile(s.SalaryPayersFile, "salary payers")
	if err != nil || data == nil {
		return []string{}, err
	}

	var f salaryPayersFile
	if err := yaml.Unmarshal(data, &f); err != nil || f.SalaryPayers == nil {
		var list []string
		if listErr := yaml.Unmarshal(data, &list); listErr != nil {
			return nil, fmt.Errorf("error parsing salary payers: %w", listErr)
		}
		f.SalaryPayers = list
	}

	seen := make(map[string]bool)
	out := make([]string, 0, len(f.SalaryPayers))
	for _, p := range f.SalaryPayers {
		n := patterns.Normalize(p)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	s.logger.Debug("Loaded salary payers",
		logging.Field{Key: logging.FieldPath, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(out)})
	return out, nil
}

// SaveSalaryPayers writes the salary payer names.
func (s *PatternFileStore) SaveSalaryPayers(payers []string) error {
	return s.writeYAML(s.SalaryPayersFile, "salary payers", salaryPayersFile{SalaryPayers: payers}, len(payers))
}

// LoadOverlay loads merchant patterns and salary payers as one overlay.
func (s *PatternFileStore) LoadOverlay() (patterns.Overlay, error) {
	merchants, err := s.LoadMerchantPatterns()
	if err != nil {
		return patterns.Overlay{}, err
	}
	payers, err := s.LoadSalaryPayers()
	if err != nil {
		return patterns.Overlay{}, err
	}
	return patterns.Overlay{MerchantPatterns: merchants, SalaryPayers: payers}, nil
}

func (s *PatternFileStore) writeYAML(filename, what string, v interface{}, count int) error {
	path, err := s.writePath(filename)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", what, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing %s: %w", what, err)
	}
	s.logger.Debug("Saved "+what,
		logging.Field{Key: logging.FieldPath, Value: path},
		logging.Field{Key: logging.FieldCount, Value: count})
	return nil
}
