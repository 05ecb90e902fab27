package cli

import (
	"fmt"
	"os"

	"github.com/assetlink-labs/assetlink/internal/branding"
	"github.com/assetlink-labs/assetlink/internal/config"
	"github.com/assetlink-labs/assetlink/internal/model"
	"github.com/assetlink-labs/assetlink/internal/snapshot"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the agent installation",
	Long:  `Run diagnostic checks on the ` + branding.DisplayName() + ` configuration, models, and state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		check := func(name string, err error) {
			if err != nil {
				failed++
				fmt.Printf("✗ %s: %v\n", name, err)
				return
			}
			fmt.Printf("✓ %s\n", name)
		}

		check("config directory", checkDir(config.Dir()))
		check("model directory", checkModels())
		check("value snapshot", checkSnapshot())

		if failed > 0 {
			return fmt.Errorf("%d checks failed", failed)
		}
		return nil
	},
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func checkModels() error {
	dir, err := model.NewDir(config.ModelsDir())
	if err != nil {
		return err
	}
	if dir.Len() == 0 {
		return fmt.Errorf("no model documents in %s", dir.Path())
	}
	return nil
}

func checkSnapshot() error {
	path := config.SnapshotFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// A fresh install has no snapshot yet.
		return nil
	}
	_, err := snapshot.Load(path)
	return err
}
