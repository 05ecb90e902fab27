package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/assetlink-labs/assetlink/internal/config"
	"github.com/assetlink-labs/assetlink/internal/model"
	"github.com/spf13/cobra"
)

var modelsDirFlag string

func init() {
	modelsCmd.PersistentFlags().StringVar(&modelsDirFlag, "dir", "", "Object-model directory (defaults to the configured models_dir)")
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsValidateCmd)
	rootCmd.AddCommand(modelsCmd)
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect and validate object-model documents",
}

func modelsDir() string {
	if modelsDirFlag != "" {
		return modelsDirFlag
	}
	return config.ModelsDir()
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the object models the agent would load",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := model.NewDir(modelsDir())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "APP\tID\tNAME\tFIELDS")
		for _, m := range dir.Models() {
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\n", m.App, m.ID, m.Name, len(m.Fields))
		}
		return w.Flush()
	},
}

var modelsValidateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate object-model documents against the schema",
	Long: `Validate the given files, or every YAML document in the model
directory when no files are named.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			yamls, err := filepath.Glob(filepath.Join(modelsDir(), "*.yaml"))
			if err != nil {
				return fmt.Errorf("scanning model directory: %w", err)
			}
			ymls, err := filepath.Glob(filepath.Join(modelsDir(), "*.yml"))
			if err != nil {
				return fmt.Errorf("scanning model directory: %w", err)
			}
			files = append(yamls, ymls...)
		}
		if len(files) == 0 {
			fmt.Println("No model documents found.")
			return nil
		}

		failed := 0
		for _, f := range files {
			res, err := model.ValidateFile(f)
			if err != nil {
				return fmt.Errorf("validating %s: %w", f, err)
			}
			if res.Valid {
				fmt.Printf("%s: ok\n", f)
				continue
			}
			failed++
			fmt.Printf("%s: invalid\n", f)
			for _, issue := range res.Issues {
				fmt.Printf("  %s: %s\n", issue.Path, issue.Message)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed validation", failed, len(files))
		}
		return nil
	},
}
