package api

import "time"

type Asset struct {
	Role          string `json:"role"`
	AssetType     string `json:"asset_type"`
	HostName      string `json:"host_name"`
	HostIP        string `json:"host_ip"`
	HostMAC       string `json:"host_mac"`
	HostFQDN      string `json:"host_fqdn"`
	TargetComment string `json:"target_comment"`
	TechArea      string `json:"tech_area"`
	TargetKey     string `json:"target_key"`
	WebOrDatabase string `json:"web_or_database"`
	WebDBSite     string `json:"web_db_site"`
	WebDBInstance string `json:"web_db_instance"`
}

type Statistics struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	BySeverity     map[string]int `json:"by_severity"`
	OpenBySeverity map[string]int `json:"open_by_severity"`
}

type Assessment struct {
	ID          string     `json:"id"`
	FileName    string     `json:"file_name"`
	Format      string     `json:"format"`
	CreatedAt   time.Time  `json:"created_at"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Version     string     `json:"version"`
	ReleaseInfo string     `json:"release_info"`
	ReleaseDate string     `json:"release_date"`
	Source      string     `json:"source"`
	BenchmarkID string     `json:"benchmark_id"`
	Asset       Asset      `json:"asset"`
	Statistics  Statistics `json:"statistics"`
}

type Ident struct {
	System string `json:"system"`
	Value  string `json:"value"`
}

type Finding struct {
	ID                      string  `json:"id"`
	GroupTitle              string  `json:"group_title"`
	RuleID                  string  `json:"rule_id"`
	RuleVersion             string  `json:"rule_version"`
	RuleTitle               string  `json:"rule_title"`
	Severity                string  `json:"severity"`
	VulnerabilityDiscussion string  `json:"vulnerability_discussion"`
	CheckContent            string  `json:"check_content"`
	FixText                 string  `json:"fix_text"`
	Idents                  []Ident `json:"idents"`
	Status                  string  `json:"status"`
	StatusLabel             string  `json:"status_label"`
	FindingDetails          string  `json:"finding_details"`
	Comments                string  `json:"comments"`
}

type FindingGroup struct {
	Severity string    `json:"severity"`
	Findings []Finding `json:"findings"`
}

// FindingList carries either a flat list or severity groups, never both.
type FindingList struct {
	Total    int            `json:"total"`
	Findings []Finding      `json:"findings,omitempty"`
	Groups   []FindingGroup `json:"groups,omitempty"`
}

// AnnotationRequest fields left out of the body are not changed.
type AnnotationRequest struct {
	Status         *string `json:"status,omitempty"`
	FindingDetails *string `json:"finding_details,omitempty"`
	Comments       *string `json:"comments,omitempty"`
}

// AssetRequest sets the ASSET block either from a named profile or verbatim.
type AssetRequest struct {
	Profile string `json:"profile,omitempty"`
	Asset   *Asset `json:"asset,omitempty"`
}

type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type AssetProfile struct {
	Name  string `json:"name"`
	Asset Asset  `json:"asset"`
}
