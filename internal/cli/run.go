package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/assetlink-labs/assetlink/internal/asset"
	"github.com/assetlink-labs/assetlink/internal/config"
	"github.com/assetlink-labs/assetlink/internal/logging"
	"github.com/assetlink-labs/assetlink/internal/model"
	"github.com/assetlink-labs/assetlink/internal/snapshot"
	"github.com/assetlink-labs/assetlink/internal/softmgmt"
)

var (
	runModelsDir string
	runSnapshot  bool
)

func init() {
	runCmd.Flags().StringVar(&runModelsDir, "models", "", "Object-model directory (defaults to the configured models_dir)")
	runCmd.Flags().BoolVar(&runSnapshot, "snapshot", true, "Restore values on start and persist them on exit")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the data engine until interrupted",
	Long: `Stand up the asset tree from the object-model directory, attach the
software-management object, and keep the registration-update debouncer
running. The connection layer is stubbed with a log sink; this command
exists to exercise the engine end to end on a device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(config.LogMode())
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer log.Sync()

		dir := runModelsDir
		if dir == "" {
			dir = config.ModelsDir()
		}
		models, err := model.NewDir(dir)
		if err != nil {
			return err
		}

		endpoint := uuid.NewString()
		log = log.With("endpoint", endpoint)

		reg := asset.NewRegistry(models, log)
		defer reg.Close()
		reg.SetRegistrationSink(func() {
			buf := make([]byte, 4096)
			n, err := reg.InstanceList(buf)
			if err != nil {
				log.Warn("building registration payload", "error", err)
				return
			}
			log.Info("registration update", "instances", string(buf[:n]))
		})

		if _, err := softmgmt.Attach(reg, log, softmgmt.Hooks{}); err != nil {
			return err
		}

		if runSnapshot {
			if st, err := snapshot.Load(config.SnapshotFile()); err == nil {
				if err := snapshot.Restore(reg, st); err != nil {
					log.Warn("restoring snapshot", "error", err)
				}
			}
		}

		// One instance per model so the tree is populated even on a
		// first boot.
		for _, m := range models.Models() {
			if a, ok := reg.LookupByID(m.App, m.ID); ok && len(a.Instances()) > 0 {
				continue
			}
			if _, err := reg.CreateInstanceByID(m.App, m.ID, asset.AutoID); err != nil {
				return fmt.Errorf("creating instance of %s/%d: %w", m.App, m.ID, err)
			}
		}
		if _, err := reg.CreateInstanceByID(asset.BuiltinApp, asset.SoftwareObjectID, 0); err != nil && !errors.Is(err, asset.ErrDuplicate) {
			return err
		}

		log.Info("engine running", "models", models.Len())

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		if runSnapshot {
			if err := config.EnsureDir(); err != nil {
				return err
			}
			if err := snapshot.Save(config.SnapshotFile(), snapshot.Capture(reg)); err != nil {
				return err
			}
			log.Info("snapshot written", "path", config.SnapshotFile())
		}
		return nil
	},
}
