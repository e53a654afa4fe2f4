package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/smserror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

// newTestPatternStore returns a store whose files live in dir.
func newTestPatternStore(dir string) *PatternFileStore {
	return NewPatternFileStore(
		filepath.Join(dir, "categories.yaml"),
		filepath.Join(dir, "merchant_patterns.yaml"),
		filepath.Join(dir, "salary_payers.yaml"),
		logging.NewMockLogger(),
	)
}

func TestNewPatternFileStore_Defaults(t *testing.T) {
	s := NewPatternFileStore("", "", "", nil)
	assert.Equal(t, DefaultCategoriesFile, s.CategoriesFile)
	assert.Equal(t, DefaultMerchantPatternsFile, s.MerchantPatternsFile)
	assert.Equal(t, DefaultSalaryPayersFile, s.SalaryPayersFile)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test.yaml")
	writeFile(t, testFile, "test content")

	s := NewPatternFileStore("", "", "", logging.NewMockLogger())

	file, err := s.FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = s.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCategories(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantNames []string
		wantErr   bool
	}{
		{
			name: "wrapped layout",
			content: `categories:
  - id: 7
    name: Food Outside
  - name: Salary
    type: INCOME
`,
			wantNames: []string{"Food Outside", "Salary"},
		},
		{
			name: "bare list",
			content: `- name: Groceries
- name: Rent
`,
			wantNames: []string{"Groceries", "Rent"},
		},
		{
			name: "duplicate names",
			content: `- name: Rent
- name: rent
`,
			wantErr: true,
		},
		{
			name:    "unnamed entry",
			content: "- id: 3\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			content: `{malformed: yaml: content}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "categories.yaml"), tt.content)

			cats, err := newTestPatternStore(dir).LoadCategories()
			if tt.wantErr {
				var verr *smserror.ValidationError
				assert.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
				return
			}
			require.NoError(t, err)
			require.Len(t, cats, len(tt.wantNames))
			for i, want := range tt.wantNames {
				assert.Equal(t, want, cats[i].Name)
				assert.NotZero(t, cats[i].ID)
				assert.NotEmpty(t, cats[i].Type)
			}
		})
	}
}

func TestLoadCategories_AssignsIDsAfterHighest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "categories.yaml"), `- name: A
- id: 10
  name: B
`)
	cats, err := newTestPatternStore(dir).LoadCategories()
	require.NoError(t, err)
	assert.Equal(t, int64(11), cats[0].ID)
	assert.Equal(t, int64(10), cats[1].ID)
	assert.Equal(t, models.CategoryTypeExpense, cats[0].Type)
}

func TestLoadCategories_MissingFileUsesDefaults(t *testing.T) {
	logger := logging.NewMockLogger()
	dir := t.TempDir()
	s := newTestPatternStore(dir)
	s.logger = logger

	cats, err := s.LoadCategories()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCatalog(), cats)
	assert.True(t, logger.HasEntry("WARN", "Pattern file not found, using defaults"))
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		keyword, category string
		valid             bool
	}{
		{"swiggy", "Food Outside", true},
		{"", "Food Outside", false},
		{"swiggy", "  ", false},
		{"ab", "Shopping", false},
	}
	for _, tt := range tests {
		err := ValidatePattern(tt.keyword, tt.category)
		if tt.valid {
			assert.NoError(t, err, tt.keyword)
		} else {
			assert.ErrorIs(t, err, smserror.ErrInvalidPattern, tt.keyword)
		}
	}
}

func TestLoadAndSaveMerchantPatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "merchant_patterns.yaml"), `swiggy: Food Outside
"big  basket": Groceries
xy: Shopping
`)
	s := newTestPatternStore(dir)

	m, err := s.LoadMerchantPatterns()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"SWIGGY": "Food Outside", "BIG BASKET": "Groceries"}, m)

	m["UBER"] = "Transport"
	require.NoError(t, s.SaveMerchantPatterns(m))

	reloaded, err := s.LoadMerchantPatterns()
	require.NoError(t, err)
	assert.Equal(t, "Transport", reloaded["UBER"])

	err = s.SaveMerchantPatterns(map[string]string{"ok": "x"})
	assert.ErrorIs(t, err, smserror.ErrInvalidPattern)
}

func TestLoadMerchantPatterns_Missing(t *testing.T) {
	m, err := newTestPatternStore(t.TempDir()).LoadMerchantPatterns()
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestLoadAndSaveSalaryPayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "salary_payers.yaml")
	s := newTestPatternStore(dir)

	writeFile(t, path, "salary_payers:\n  - acme corp\n  - Globex\n  - ACME  CORP\n")
	payers, err := s.LoadSalaryPayers()
	require.NoError(t, err)
	assert.Equal(t, []string{"ACME CORP", "GLOBEX"}, payers)

	writeFile(t, path, "- initech\n")
	payers, err = s.LoadSalaryPayers()
	require.NoError(t, err)
	assert.Equal(t, []string{"INITECH"}, payers)

	require.NoError(t, s.SaveSalaryPayers([]string{"UMBRELLA"}))
	payers, err = s.LoadSalaryPayers()
	require.NoError(t, err)
	assert.Equal(t, []string{"UMBRELLA"}, payers)
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "merchant_patterns.yaml"), "zepto: Groceries\n")
	writeFile(t, filepath.Join(dir, "salary_payers.yaml"), "- acme\n")

	o, err := newTestPatternStore(dir).LoadOverlay()
	require.NoError(t, err)
	assert.Equal(t, "Groceries", o.MerchantPatterns["ZEPTO"])
	assert.Equal(t, []string{"ACME"}, o.SalaryPayers)
}
