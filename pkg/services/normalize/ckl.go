package normalize

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	x "github.com/softservesoftware/stig-bee/pkg/xmltree"
)

// STIG_DATA attribute names.
const (
	attrVulnNum      = "Vuln_Num"
	attrGroupTitle   = "Group_Title"
	attrRuleID       = "Rule_ID"
	attrRuleVer      = "Rule_Ver"
	attrRuleTitle    = "Rule_Title"
	attrVulnDiscuss  = "Vuln_Discuss"
	attrCheckContent = "Check_Content"
	attrFixText      = "Fix_Text"
	attrSeverity     = "Severity"
	attrCCIRef       = "CCI_REF"
)

func fromChecklist(ctx context.Context, c any) (*domain.Assessment, error) {
	stigs := x.Child(c, "STIGS")
	if stigs == nil {
		return nil, domain.IncompleteDocument("CHECKLIST.STIGS")
	}
	istigs := x.AsSlice(x.Child(stigs, "iSTIG"))
	if len(istigs) == 0 {
		return nil, domain.IncompleteDocument("CHECKLIST.STIGS.iSTIG")
	}
	if len(istigs) > 1 {
		zerolog.Ctx(ctx).Warn().
			Int("benchmarks", len(istigs)).
			Msg("checklist holds more than one benchmark, only the first is loaded")
	}
	istig := istigs[0]

	info := stigInfo(x.Child(istig, "STIG_INFO"))
	a := &domain.Assessment{
		Title:          orDefault(info["title"], domain.UnknownTitle),
		Description:    info["description"],
		Version:        orDefault(info["version"], domain.UnknownVersion),
		ReleaseInfo:    orDefault(info["releaseinfo"], domain.UnknownReleaseInfo),
		ReleaseDate:    releaseDate(info["releaseinfo"]),
		Source:         orDefault(info["source"], domain.UnknownSource),
		BenchmarkID:    info["stigid"],
		Classification: info["classification"],
		FileName:       info["filename"],
		StigUUID:       info["uuid"],
		Format:         domain.FormatCKL,
		Asset:          asset(x.Child(c, "ASSET")),
	}

	vulns := x.AsSlice(x.Child(istig, "VULN"))
	a.Findings = make([]domain.Finding, 0, len(vulns))
	for _, v := range vulns {
		a.Findings = append(a.Findings, fromVuln(v))
	}
	return a, nil
}

// stigInfo folds STIG_INFO into a map keyed by the DISA SI_DATA names. Both
// the SID_NAME/SID_DATA pair form and the older form with one child element
// per field are read; pairs win.
func stigInfo(v any) map[string]string {
	out := map[string]string{}

	if n, ok := v.(x.Node); ok {
		for k, child := range n {
			if k == "SI_DATA" || strings.HasPrefix(k, x.AttrPrefix) || k == x.TextKey {
				continue
			}
			out[infoKey(k)] = textOf(child)
		}
	}
	for _, sd := range x.AsSlice(x.Child(v, "SI_DATA")) {
		name := textOf(x.Child(sd, "SID_NAME"))
		if name == "" {
			continue
		}
		out[infoKey(name)] = textOf(x.Child(sd, "SID_DATA"))
	}
	return out
}

// infoKey maps RELEASE_INFO, STIG_ID and STIG_UUID onto releaseinfo, stigid
// and uuid.
func infoKey(name string) string {
	k := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	if k == "stiguuid" {
		return "uuid"
	}
	return k
}

func asset(v any) domain.Asset {
	a := domain.DefaultAsset()
	set := func(dst *string, name string) {
		if s := textOf(x.Child(v, name)); s != "" {
			*dst = s
		}
	}
	set(&a.Role, "ROLE")
	set(&a.AssetType, "ASSET_TYPE")
	set(&a.HostName, "HOST_NAME")
	set(&a.HostIP, "HOST_IP")
	set(&a.HostMAC, "HOST_MAC")
	set(&a.HostFQDN, "HOST_FQDN")
	set(&a.TargetComment, "TARGET_COMMENT")
	set(&a.TechArea, "TECH_AREA")
	set(&a.TargetKey, "TARGET_KEY")
	set(&a.WebOrDatabase, "WEB_OR_DATABASE")
	set(&a.WebDBSite, "WEB_DB_SITE")
	set(&a.WebDBInstance, "WEB_DB_INSTANCE")
	return a
}

func fromVuln(v any) domain.Finding {
	data := map[string]string{}
	var idents []domain.Ident
	for _, sd := range x.AsSlice(x.Child(v, "STIG_DATA")) {
		name := textOf(x.Child(sd, "VULN_ATTRIBUTE"))
		value := textOf(x.Child(sd, "ATTRIBUTE_DATA"))
		if name == attrCCIRef && value != "" {
			idents = append(idents, domain.Ident{System: "http://cyber.mil/cci", Value: value})
		}
		data[name] = value
	}

	severity := textOf(x.Child(v, "SEVERITY"))
	if strings.TrimSpace(severity) == "" {
		severity = data[attrSeverity]
	}

	status := textOf(x.Child(v, "STATUS"))
	if strings.TrimSpace(status) == "" {
		status = x.Attr(v, "status")
	}

	return domain.Finding{
		ID:                      data[attrVulnNum],
		GroupTitle:              data[attrGroupTitle],
		RuleID:                  data[attrRuleID],
		RuleVersion:             data[attrRuleVer],
		RuleTitle:               data[attrRuleTitle],
		Severity:                domain.ParseSeverity(severity),
		VulnerabilityDiscussion: data[attrVulnDiscuss],
		CheckContent:            data[attrCheckContent],
		FixText:                 data[attrFixText],
		Idents:                  idents,
		Status:                  domain.ParseStatus(status),
		FindingDetails:          textOf(x.Child(v, "FINDING_DETAILS")),
		Comments:                textOf(x.Child(v, "COMMENTS")),
	}
}
