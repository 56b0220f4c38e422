package domain

import "fmt"

// AssetProfile is a named host description kept in the asset profile file.
type AssetProfile struct {
	Name  string
	Asset Asset
}

func (p AssetProfile) String() string {
	return fmt.Sprintf("%s:%s", p.Name, p.Asset.HostName)
}
