package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/services/checklist"
	sinks "github.com/softservesoftware/stig-bee/pkg/services/export"
)

type ConvertCmd struct {
	output       string
	profile      string
	profilesPath string
	rt           *Runtime
}

func NewConvertCmd(rt *Runtime) *cobra.Command {
	cc := &ConvertCmd{rt: rt}
	cmd := &cobra.Command{
		Use:   "convert <file.xml|file.ckl>...",
		Short: "Convert XCCDF benchmarks or checklists into CKL checklists",
		Args:  cobra.MinimumNArgs(1),
		RunE:  cc.run,
	}

	cmd.Flags().StringVarP(&cc.output, "output", "o", "",
		"Destination: a directory, a .ckl path, s3://bucket/prefix or - for stdout (default export.destination)")
	cmd.Flags().StringVar(&cc.profile, "profile", "", "Asset profile to apply to the checklist")
	cmd.Flags().StringVar(&cc.profilesPath, "profiles", "", "Path to the asset profile file (default profiles.path)")

	return cmd
}

func (cc *ConvertCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	destination := cc.output
	if destination == "" {
		destination = cc.rt.Config.Export.Destination
	}
	sink, err := sinks.Resolve(ctx, cc.rt.Sinks, destination)
	if err != nil {
		return fmt.Errorf("failed to resolve destination %q: %w", destination, err)
	}

	var asset *domain.Asset
	if cc.profile != "" {
		registry, err := cc.rt.profiles(cc.profilesPath)
		if err != nil {
			return err
		}
		a, err := registry.GetAsset(ctx, cc.profile)
		if err != nil {
			return err
		}
		asset = &a
	}

	for _, path := range args {
		a, err := loadAssessment(ctx, path)
		if err != nil {
			return err
		}
		if asset != nil {
			a.Asset = *asset
		}

		data, err := checklist.Project(a, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		location, err := sink.Write(ctx, checklist.FileName(a.Title), data)
		if err != nil {
			return err
		}

		logger.Info().
			Str("input", path).
			Str("location", location).
			Int("findings", len(a.Findings)).
			Msg("checklist written")
		if sink.Name() != sinks.SchemeStdout {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", path, location)
		}
	}
	return nil
}
