// Package patterns manages the user merchant patterns and salary payers.
package patterns

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/internal/container"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/smserror"
	"saikumar/sms-ledger/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the patterns command
var Cmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage user merchant patterns and salary payers",
}

var addCmd = &cobra.Command{
	Use:   "add <keyword> <category>",
	Short: "Map a merchant keyword to a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		return AddMerchant(app, cmd.OutOrStdout(), args[0], args[1])
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print user merchant patterns and salary payers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		return List(app, cmd.OutOrStdout())
	},
}

var salaryCmd = &cobra.Command{
	Use:   "add-salary-payer <name>",
	Short: "Treat credits from an employer as salary",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		return AddSalaryPayer(app, cmd.OutOrStdout(), strings.Join(args, " "))
	},
}

func init() {
	Cmd.AddCommand(addCmd, listCmd, salaryCmd)
}

// AddMerchant validates and saves one keyword. The category must exist in
// the catalog. Run reclassify afterwards to apply it to stored records.
func AddMerchant(app *container.Container, out io.Writer, keyword, category string) error {
	if err := store.ValidatePattern(keyword, category); err != nil {
		return err
	}
	cat, ok := models.FindCategory(app.GetCatalog(), category)
	if !ok {
		return &smserror.ValidationError{Path: "category", Reason: fmt.Sprintf("unknown category %q", category)}
	}

	files := app.GetPatternFiles()
	mappings, err := files.LoadMerchantPatterns()
	if err != nil {
		return err
	}
	mappings[strings.ToUpper(strings.TrimSpace(keyword))] = cat.Name
	if err := files.SaveMerchantPatterns(mappings); err != nil {
		return err
	}
	fmt.Fprintf(out, "Mapped %s to %s\n", strings.ToUpper(strings.TrimSpace(keyword)), cat.Name)
	return nil
}

// AddSalaryPayer saves one employer name.
func AddSalaryPayer(app *container.Container, out io.Writer, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &smserror.ValidationError{Path: "salary payer", Reason: "empty name"}
	}
	files := app.GetPatternFiles()
	payers, err := files.LoadSalaryPayers()
	if err != nil {
		return err
	}
	for _, p := range payers {
		if strings.EqualFold(p, name) {
			fmt.Fprintf(out, "%s is already a salary payer\n", name)
			return nil
		}
	}
	if err := files.SaveSalaryPayers(append(payers, name)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added salary payer %s\n", name)
	return nil
}

// List prints the user patterns sorted by keyword.
func List(app *container.Container, out io.Writer) error {
	files := app.GetPatternFiles()
	mappings, err := files.LoadMerchantPatterns()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(out, "Merchant patterns (%d):\n", len(keys))
	for _, k := range keys {
		fmt.Fprintf(out, "  %s: %s\n", k, mappings[k])
	}

	payers, err := files.LoadSalaryPayers()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Salary payers (%d):\n", len(payers))
	for _, p := range payers {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}
