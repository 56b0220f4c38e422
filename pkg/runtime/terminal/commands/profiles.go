package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	profilesPath string
	rt           *Runtime
}

func NewProfilesCmd(rt *Runtime) *cobra.Command {
	pc := &ProfilesCmd{rt: rt}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List asset profiles",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.profilesPath, "profiles", "", "Path to the asset profile file (default profiles.path)")

	return cmd
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	registry, err := pc.rt.profiles(pc.profilesPath)
	if err != nil {
		return err
	}

	profiles, err := registry.GetProfiles(cmd.Context())
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No asset profiles found")
		return nil
	}

	for _, p := range profiles {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\thost=%s ip=%s type=%s\n",
			p.Name, p.Asset.HostName, p.Asset.HostIP, p.Asset.AssetType)
	}
	return nil
}
