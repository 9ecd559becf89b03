package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"textok/internal/adapter/rulefile"
)

var (
	rulesName string
	rulesJSON bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage saved rule sets",
	Long: `Save, inspect and export named rule sets. Saved rule sets live in
.textok/rules.db and can be selected with --tokenizer.

Examples:
  textok rules list
  textok rules save punct.yaml --name punct
  textok rules show basic_english
  textok rules export punct punct.yaml
  textok rules delete punct`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and saved rule sets",
	Args:  cobra.NoArgs,
	RunE:  runRulesList,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a rule set as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesShow,
}

var rulesSaveCmd = &cobra.Command{
	Use:   "save <file.yaml>",
	Short: "Validate a YAML rule file and save it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesSave,
}

var rulesExportCmd = &cobra.Command{
	Use:   "export <name> <file.yaml>",
	Short: "Write a rule set to a YAML file",
	Args:  cobra.ExactArgs(2),
	RunE:  runRulesExport,
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved rule set",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesDelete,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesShowCmd, rulesSaveCmd, rulesExportCmd, rulesDeleteCmd)
	rulesListCmd.Flags().BoolVar(&rulesJSON, "json", false, "output as JSON")
	rulesSaveCmd.Flags().StringVar(&rulesName, "name", "", "save under this name instead of the one in the file")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	uc, closeStore, err := newRuleSetUseCase(false)
	if err != nil {
		return err
	}
	defer closeStore()

	infos, err := uc.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rulesJSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRULES\tLOWERCASE\tSOURCE\tHASH")
	for _, info := range infos {
		source := "saved"
		if info.Builtin {
			source = "built-in"
		}
		fmt.Fprintf(tw, "%s\t%d\t%v\t%s\t%s\n", info.Name, info.Rules, info.Lowercase, source, info.Hash[:12])
	}
	return tw.Flush()
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	uc, closeStore, err := newRuleSetUseCase(false)
	if err != nil {
		return err
	}
	defer closeStore()

	rs, err := uc.Show(args[0])
	if err != nil {
		return err
	}
	return rulefile.Encode(cmd.OutOrStdout(), rs)
}

func runRulesSave(cmd *cobra.Command, args []string) error {
	uc, closeStore, err := newRuleSetUseCase(true)
	if err != nil {
		return err
	}
	defer closeStore()

	rs, err := uc.Import(args[0], rulesName)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Saved rule set %q (%d rules)\n", rs.Name, len(rs.Rules))

	same, err := uc.Identical(rs)
	if err != nil {
		return err
	}
	if len(same) > 0 {
		fmt.Fprintf(out, "Note: identical to saved rule set %s\n", strings.Join(same, ", "))
	}
	return nil
}

func runRulesExport(cmd *cobra.Command, args []string) error {
	uc, closeStore, err := newRuleSetUseCase(false)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := uc.Export(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
	return nil
}

func runRulesDelete(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configStorePath()); os.IsNotExist(err) {
		return fmt.Errorf("no saved rule sets. Run 'textok rules save' first")
	}

	uc, closeStore, err := newRuleSetUseCase(false)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := uc.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule set %q\n", args[0])
	return nil
}
