package config

import (
	"context"
	"fmt"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry reads asset profiles from an INI file where every section
// describes one target host.
type Registry interface {
	GetProfiles(ctx context.Context) ([]domain.AssetProfile, error)
	GetAsset(ctx context.Context, profile string) (domain.Asset, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset profiles: %w", err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(ctx context.Context) ([]domain.AssetProfile, error) {
	var profiles []domain.AssetProfile
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		asset, err := cr.GetAsset(ctx, section.Name())
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, domain.AssetProfile{Name: section.Name(), Asset: asset})
	}
	return profiles, nil
}

// GetAsset returns the default asset with the profile's keys applied.
func (cr *cfgRegistry) GetAsset(_ context.Context, profile string) (domain.Asset, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil || len(section.Keys()) == 0 {
		return domain.Asset{}, domain.NotFound("asset profile %q not found", profile)
	}

	asset := domain.DefaultAsset()
	fields := map[string]*string{
		"host_name":       &asset.HostName,
		"host_ip":         &asset.HostIP,
		"host_mac":        &asset.HostMAC,
		"host_fqdn":       &asset.HostFQDN,
		"role":            &asset.Role,
		"asset_type":      &asset.AssetType,
		"tech_area":       &asset.TechArea,
		"target_key":      &asset.TargetKey,
		"target_comment":  &asset.TargetComment,
		"web_or_database": &asset.WebOrDatabase,
		"web_db_site":     &asset.WebDBSite,
		"web_db_instance": &asset.WebDBInstance,
	}
	for key, dst := range fields {
		if section.HasKey(key) {
			*dst = section.Key(key).String()
		}
	}
	return asset, nil
}
