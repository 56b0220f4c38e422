package checklist

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
)

// Build merges annotations into the assessment and lays out the CKL model.
// Any finding that breaks the model's invariants (duplicate id, severity or
// status outside the closed sets) fails the whole build.
func Build(a *domain.Assessment, ann domain.Annotations) (*Document, error) {
	if a == nil {
		return nil, domain.InternalInconsistency("nil assessment")
	}

	doc := &Document{
		Asset:        assetFields(a.Asset),
		IStigVersion: IStigVersion,
		Info:         infoFields(a),
		Vulns:        make([]Vuln, 0, len(a.Findings)),
	}

	seen := make(map[string]struct{}, len(a.Findings))
	for _, f := range ann.ApplyAll(a.Findings) {
		if f.ID == "" {
			return nil, domain.InternalInconsistency("finding without id")
		}
		if _, dup := seen[f.ID]; dup {
			return nil, domain.InternalInconsistency("duplicate finding id %q", f.ID)
		}
		seen[f.ID] = struct{}{}

		if !f.Severity.Valid() {
			return nil, domain.InternalInconsistency("finding %q has severity %q", f.ID, f.Severity)
		}
		if !f.Status.Valid() {
			return nil, domain.InternalInconsistency("finding %q has status %q", f.ID, f.Status)
		}

		doc.Vulns = append(doc.Vulns, Vuln{
			Status: string(f.Status),
			StigData: []Field{
				{"Vuln_Num", f.ID},
				{"Group_Title", f.GroupTitle},
				{"Rule_ID", f.RuleID},
				{"Rule_Ver", f.RuleVersion},
				{"Rule_Title", f.RuleTitle},
				{"Vuln_Discuss", f.VulnerabilityDiscussion},
				{"Check_Content", f.CheckContent},
				{"Fix_Text", f.FixText},
			},
			FindingDetails: f.FindingDetails,
			Comments:       f.Comments,
			Severity:       f.Severity.CKL(),
		})
	}
	return doc, nil
}

func assetFields(a domain.Asset) []Field {
	return []Field{
		{"ROLE", a.Role},
		{"ASSET_TYPE", a.AssetType},
		{"HOST_NAME", a.HostName},
		{"HOST_IP", a.HostIP},
		{"HOST_MAC", a.HostMAC},
		{"HOST_FQDN", a.HostFQDN},
		{"TARGET_COMMENT", a.TargetComment},
		{"TECH_AREA", a.TechArea},
		{"TARGET_KEY", a.TargetKey},
		{"WEB_OR_DATABASE", a.WebOrDatabase},
		{"WEB_DB_SITE", a.WebDBSite},
		{"WEB_DB_INSTANCE", a.WebDBInstance},
	}
}

func infoFields(a *domain.Assessment) []Field {
	classification := a.Classification
	if classification == "" {
		classification = DefaultClassification
	}
	return []Field{
		{"version", a.Version},
		{"classification", classification},
		{"customname", ""},
		{"stigid", a.BenchmarkID},
		{"description", a.Description},
		{"filename", a.FileName},
		{"releaseinfo", a.ReleaseInfo},
		{"title", a.Title},
		{"uuid", StigUUID(a)},
		{"notice", ""},
		{"source", a.Source},
	}
}

// StigUUID returns the carried STIG UUID or derives a name based one from the
// benchmark id and version, so repeated exports of one benchmark agree.
func StigUUID(a *domain.Assessment) string {
	if a.StigUUID != "" {
		return a.StigUUID
	}
	name := a.BenchmarkID + "|" + a.Version
	if a.BenchmarkID == "" {
		name = a.Title + "|" + a.Version
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("stig:"+name)).String()
}

const cklTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<CHECKLIST xmlns:xsi="{{xml .NamespaceXSI}}" xmlns:dsig="{{xml .NamespaceDSig}}" xmlns="{{xml .NamespaceXCCDF}}" xsi:schemaLocation="{{xml .SchemaLocation}}">
  <ASSET>
{{- range .Doc.Asset}}
    <{{.Name}}>{{xml .Value}}</{{.Name}}>
{{- end}}
  </ASSET>
  <STIGS>
    <iSTIG version="{{xml .Doc.IStigVersion}}">
      <STIG_INFO>
{{- range .Doc.Info}}
        <SI_DATA>
          <SID_NAME>{{xml .Name}}</SID_NAME>
          <SID_DATA>{{xml .Value}}</SID_DATA>
        </SI_DATA>
{{- end}}
      </STIG_INFO>
{{- range .Doc.Vulns}}
      <VULN status="{{xml .Status}}">
{{- range .StigData}}
        <STIG_DATA>
          <VULN_ATTRIBUTE>{{xml .Name}}</VULN_ATTRIBUTE>
          <ATTRIBUTE_DATA>{{xml .Value}}</ATTRIBUTE_DATA>
        </STIG_DATA>
{{- end}}
        <STATUS>{{xml .Status}}</STATUS>
        <FINDING_DETAILS>{{xml .FindingDetails}}</FINDING_DETAILS>
        <COMMENTS>{{xml .Comments}}</COMMENTS>
        <SEVERITY>{{xml .Severity}}</SEVERITY>
        <SEVERITY_OVERRIDE>{{xml .SeverityOverride}}</SEVERITY_OVERRIDE>
        <SEVERITY_JUSTIFICATION>{{xml .SeverityJustification}}</SEVERITY_JUSTIFICATION>
      </VULN>
{{- end}}
    </iSTIG>
  </STIGS>
</CHECKLIST>
`

var ckl = template.Must(template.New("ckl").Funcs(template.FuncMap{"xml": Escape}).Parse(cklTemplate))

type renderData struct {
	NamespaceXSI   string
	NamespaceDSig  string
	NamespaceXCCDF string
	SchemaLocation string
	Doc            *Document
}

// Render writes doc as CKL XML text. Every value goes through Escape.
func Render(w io.Writer, doc *Document) error {
	err := ckl.Execute(w, renderData{
		NamespaceXSI:   NamespaceXSI,
		NamespaceDSig:  NamespaceDSig,
		NamespaceXCCDF: NamespaceXCCDF,
		SchemaLocation: SchemaLocation,
		Doc:            doc,
	})
	if err != nil {
		return fmt.Errorf("render checklist: %w", err)
	}
	return nil
}

// Project builds and renders in one step.
func Project(a *domain.Assessment, ann domain.Annotations) ([]byte, error) {
	doc, err := Build(a, ann)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName derives the download name from a benchmark title: every rune that
// is not an ASCII letter or digit becomes '_', the result is lower-cased and
// given a .ckl extension.
func FileName(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			b.WriteRune(r)
		case 'A' <= r && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "checklist.ckl"
	}
	return b.String() + ".ckl"
}
