package domain

// DocumentFormat identifies which source shape an assessment was read from.
type DocumentFormat string

const (
	FormatXCCDF DocumentFormat = "xccdf"
	FormatCKL   DocumentFormat = "ckl"
)

// Fallbacks for benchmark metadata missing from the source document.
const (
	UnknownTitle       = "Unknown Benchmark"
	UnknownVersion     = "Unknown Version"
	UnknownReleaseInfo = "Unknown Release"
	UnknownSource      = "Unknown Source"
)

// Asset is the checklist's target host block.
type Asset struct {
	Role          string
	AssetType     string
	HostName      string
	HostIP        string
	HostMAC       string
	HostFQDN      string
	TargetComment string
	TechArea      string
	TargetKey     string
	WebOrDatabase string
	WebDBSite     string
	WebDBInstance string
}

func DefaultAsset() Asset {
	return Asset{
		Role:          "None",
		AssetType:     "Computing",
		WebOrDatabase: "false",
	}
}

// Ident is a rule identifier such as a CCI reference.
type Ident struct {
	System string
	Value  string
}

// Finding is one checklist item: an XCCDF Group/Rule pair or a CKL VULN.
type Finding struct {
	ID                      string
	GroupTitle              string
	RuleID                  string
	RuleVersion             string
	RuleTitle               string
	Severity                Severity
	VulnerabilityDiscussion string
	CheckContent            string
	FixText                 string
	Idents                  []Ident

	// reviewer owned
	Status         Status
	FindingDetails string
	Comments       string
}

// Assessment is the format independent model both document shapes are
// normalized into.
type Assessment struct {
	Title       string
	Description string
	Version     string
	ReleaseInfo string
	ReleaseDate string // YYYY-MM-DD or empty
	Source      string
	BenchmarkID string

	Classification string
	FileName       string
	StigUUID       string

	Format   DocumentFormat
	Asset    Asset
	Findings []Finding
}

// Finding returns the finding with the given id.
func (a *Assessment) Finding(id string) (Finding, bool) {
	for _, f := range a.Findings {
		if f.ID == id {
			return f, true
		}
	}
	return Finding{}, false
}
