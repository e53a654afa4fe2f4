package models

import "strings"

// CategoryType groups catalog categories by the kind of flow they describe.
type CategoryType string

const (
	CategoryTypeExpense    CategoryType = "EXPENSE"
	CategoryTypeIncome     CategoryType = "INCOME"
	CategoryTypeInvestment CategoryType = "INVESTMENT"
	CategoryTypeTransfer   CategoryType = "TRANSFER"
	CategoryTypeLiability  CategoryType = "LIABILITY"
)

// Default category names used when no merchant pattern applies.
const (
	CategoryUncategorized     = "Uncategorized"
	CategorySalary            = "Salary"
	CategoryOtherIncome       = "Other Income"
	CategoryCashback          = "Cashback"
	CategoryRefund            = "Refund"
	CategoryInterest          = "Interest"
	CategoryCreditCardPayment = "Credit Card Payment"
	CategoryTransfer          = "Transfer"
	CategoryInvestment        = "Investment"
	CategoryFoodOutside       = "Food Outside"
)

// Category is a catalog entry.
type Category struct {
	ID   int64        `yaml:"id" json:"id"`
	Name string       `yaml:"name" json:"name"`
	Type CategoryType `yaml:"type" json:"type"`
}

// CategoriesConfig is the layout of the category catalog YAML file.
type CategoriesConfig struct {
	Categories []Category `yaml:"categories"`
}

// FindCategory returns the catalog entry whose name matches name
// case-insensitively.
func FindCategory(catalog []Category, name string) (Category, bool) {
	want := strings.TrimSpace(name)
	for _, c := range catalog {
		if strings.EqualFold(c.Name, want) {
			return c, true
		}
	}
	return Category{}, false
}

// DefaultCatalog is used when no catalog file is configured.
func DefaultCatalog() []Category {
	return []Category{
		{ID: 1, Name: CategoryFoodOutside, Type: CategoryTypeExpense},
		{ID: 2, Name: "Groceries", Type: CategoryTypeExpense},
		{ID: 3, Name: "Transport", Type: CategoryTypeExpense},
		{ID: 4, Name: "Travel", Type: CategoryTypeExpense},
		{ID: 5, Name: "Shopping", Type: CategoryTypeExpense},
		{ID: 6, Name: "Mobile + WiFi", Type: CategoryTypeExpense},
		{ID: 7, Name: "Entertainment", Type: CategoryTypeExpense},
		{ID: 8, Name: "Fuel", Type: CategoryTypeExpense},
		{ID: 9, Name: "Healthcare", Type: CategoryTypeExpense},
		{ID: 10, Name: "Insurance", Type: CategoryTypeExpense},
		{ID: 11, Name: "Utilities", Type: CategoryTypeExpense},
		{ID: 12, Name: CategoryInvestment, Type: CategoryTypeInvestment},
		{ID: 13, Name: CategorySalary, Type: CategoryTypeIncome},
		{ID: 14, Name: CategoryCashback, Type: CategoryTypeIncome},
		{ID: 15, Name: CategoryRefund, Type: CategoryTypeIncome},
		{ID: 16, Name: CategoryInterest, Type: CategoryTypeIncome},
		{ID: 17, Name: CategoryOtherIncome, Type: CategoryTypeIncome},
		{ID: 18, Name: CategoryCreditCardPayment, Type: CategoryTypeLiability},
		{ID: 19, Name: CategoryTransfer, Type: CategoryTypeTransfer},
		{ID: 20, Name: CategoryUncategorized, Type: CategoryTypeExpense},
	}
}
