package store

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

type Assessment struct {
	ID           string
	FileName     string
	SourceFormat string
	Document     []byte // JSON encoded AssessmentDocument
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Annotation struct {
	AssessmentID   string
	FindingID      string
	Status         *string
	FindingDetails *string
	Comments       *string
	UpdatedAt      time.Time
}

type AssessmentDocument struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Version        string            `json:"version"`
	ReleaseInfo    string            `json:"release_info"`
	ReleaseDate    string            `json:"release_date"`
	Source         string            `json:"source"`
	BenchmarkID    string            `json:"benchmark_id"`
	Classification string            `json:"classification,omitempty"`
	FileName       string            `json:"file_name,omitempty"`
	StigUUID       string            `json:"stig_uuid,omitempty"`
	Format         string            `json:"format"`
	Asset          AssetDocument     `json:"asset"`
	Findings       []FindingDocument `json:"findings"`
}

type AssetDocument struct {
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

type FindingDocument struct {
	ID                      string          `json:"id"`
	GroupTitle              string          `json:"group_title"`
	RuleID                  string          `json:"rule_id"`
	RuleVersion             string          `json:"rule_version"`
	RuleTitle               string          `json:"rule_title"`
	Severity                string          `json:"severity"`
	VulnerabilityDiscussion string          `json:"vulnerability_discussion"`
	CheckContent            string          `json:"check_content"`
	FixText                 string          `json:"fix_text"`
	Idents                  []IdentDocument `json:"idents,omitempty"`
	Status                  string          `json:"status"`
	FindingDetails          string          `json:"finding_details"`
	Comments                string          `json:"comments"`
}

type IdentDocument struct {
	System string `json:"system"`
	Value  string `json:"value"`
}
