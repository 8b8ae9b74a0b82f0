package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/proppulse/proppulse/internal/model"
)

// criteriaCmd represents the criteria command
var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Manage your investment criteria (buy box)",
	Long: `Your buy box is the threshold set every underwrite is judged against:
minimum cap rate, cash-on-cash return, IRR and DSCR, plus price and unit
bands. It lives at ~/.proppulse/criteria.yaml; rates are percentages
(min_cap_rate: 6 means 6%), DSCR is a plain ratio.`,
}

var criteriaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the criteria an underwrite would use",
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := loadCriteria("")
		if err != nil {
			return err
		}

		saved, pathErr := savedCriteriaPath()
		if pathErr == nil {
			if _, statErr := os.Stat(saved); statErr == nil {
				fmt.Fprintf(os.Stderr, "Criteria file: %s\n\n", saved)
			} else {
				fmt.Fprintf(os.Stderr, "No saved criteria (using built-in defaults)\n\n")
			}
		}

		data, err := yaml.Marshal(criteria)
		if err != nil {
			return fmt.Errorf("marshal criteria: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var criteriaInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Save the default criteria for editing",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := savedCriteriaPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("criteria file already exists: %s\nEdit it directly, or delete it first to recreate", path)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		data, err := yaml.Marshal(model.DefaultCriteria())
		if err != nil {
			return fmt.Errorf("marshal criteria: %w", err)
		}

		header := []byte("# PropPulse investment criteria (buy box)\n" +
			"# Rates are percentages: min_cap_rate: 6 means 6%. min_dscr is a ratio.\n\n")
		if err := os.WriteFile(path, append(header, data...), 0644); err != nil {
			return fmt.Errorf("write criteria: %w", err)
		}

		fmt.Printf("✓ Saved default criteria: %s\n", path)
		fmt.Printf("\nEdit the file to match your buy box:\n")
		fmt.Printf("  $EDITOR %s\n", path)
		return nil
	},
}

func savedCriteriaPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".proppulse", "criteria.yaml"), nil
}

func init() {
	rootCmd.AddCommand(criteriaCmd)
	criteriaCmd.AddCommand(criteriaShowCmd)
	criteriaCmd.AddCommand(criteriaInitCmd)
}
