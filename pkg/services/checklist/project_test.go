package checklist

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/services/normalize"
	"github.com/softservesoftware/stig-bee/pkg/xmltree"
)

func ptr[T any](v T) *T {
	return &v
}

func sampleAssessment() *domain.Assessment {
	return &domain.Assessment{
		Title:       "Sample STIG",
		Version:     "1",
		ReleaseInfo: "Release: 2 Benchmark Date: 01 Jan 2024",
		Source:      "STIG.DOD.MIL",
		BenchmarkID: "Sample_STIG",
		Asset:       domain.DefaultAsset(),
		Findings: []domain.Finding{
			{
				ID:           "V-1",
				GroupTitle:   "SRG-1",
				RuleID:       "SV-1r1_rule",
				RuleVersion:  "S-01",
				RuleTitle:    "Do the thing",
				Severity:     domain.SeverityHigh,
				CheckContent: "Check the thing.",
				FixText:      "Fix the thing.",
				Status:       domain.StatusOpen,
			},
			{
				ID:       "V-2",
				Severity: domain.SeverityLow,
				Status:   domain.StatusNotAFinding,
				Comments: "fine",
			},
		},
	}
}

func vulns(t *testing.T, out []byte) []any {
	t.Helper()
	tree, err := xmltree.Parse(out)
	require.NoError(t, err, "projected checklist must be well-formed")
	return xmltree.AsSlice(xmltree.Path(tree, "CHECKLIST", "STIGS", "iSTIG", "VULN"))
}

func stigData(v any) map[string]string {
	out := map[string]string{}
	for _, sd := range xmltree.AsSlice(xmltree.Child(v, "STIG_DATA")) {
		out[xmltree.Text(xmltree.Child(sd, "VULN_ATTRIBUTE"))] = xmltree.Text(xmltree.Child(sd, "ATTRIBUTE_DATA"))
	}
	return out
}

func TestProject_Skeleton(t *testing.T) {
	out, err := Project(sampleAssessment(), nil)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`+"\n<CHECKLIST "))
	assert.Contains(t, text, `xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`)
	assert.Contains(t, text, `xmlns:dsig="http://www.w3.org/2000/09/xmldsig#"`)
	assert.Contains(t, text, `xmlns="http://checklists.nist.gov/xccdf/1.1"`)
	assert.Contains(t, text, `xsi:schemaLocation="http://checklists.nist.gov/xccdf/1.1 xccdf_checklist.1.1.xsd"`)
	assert.Contains(t, text, `<iSTIG version="1.0">`)
	assert.Contains(t, text, `<ROLE>None</ROLE>`)
	assert.Contains(t, text, `<ASSET_TYPE>Computing</ASSET_TYPE>`)
	assert.Contains(t, text, `<WEB_OR_DATABASE>false</WEB_OR_DATABASE>`)

	tree, err := xmltree.Parse(out)
	require.NoError(t, err)
	info := xmltree.AsSlice(xmltree.Path(tree, "CHECKLIST", "STIGS", "iSTIG", "STIG_INFO", "SI_DATA"))
	require.Len(t, info, len(SIDataOrder))
	for i, sd := range info {
		assert.Equal(t, SIDataOrder[i], xmltree.Text(xmltree.Child(sd, "SID_NAME")))
	}

	vs := vulns(t, out)
	require.Len(t, vs, 2)
	pairs := xmltree.AsSlice(xmltree.Child(vs[0], "STIG_DATA"))
	require.Len(t, pairs, 8)
	for i, sd := range pairs {
		assert.Equal(t, StigDataOrder[i], xmltree.Text(xmltree.Child(sd, "VULN_ATTRIBUTE")))
	}
	assert.Equal(t, "HIGH", xmltree.Text(xmltree.Child(vs[0], "SEVERITY")))
	assert.Equal(t, "Open", xmltree.Attr(vs[0], "status"))
}

func TestProject_EmptyAssessment(t *testing.T) {
	a := sampleAssessment()
	a.Findings = nil

	out, err := Project(a, nil)
	require.NoError(t, err)
	assert.Empty(t, vulns(t, out))
	assert.NotContains(t, string(out), "<VULN")
}

func TestProject_AnnotationPrecedence(t *testing.T) {
	ann := domain.Annotations{
		"V-1": {Status: ptr(domain.StatusNotAFinding)},
		"V-2": {FindingDetails: ptr("draft details")},
	}

	out, err := Project(sampleAssessment(), ann)
	require.NoError(t, err)

	vs := vulns(t, out)
	require.Len(t, vs, 2)
	assert.Equal(t, "NotAFinding", xmltree.Text(xmltree.Child(vs[0], "STATUS")))
	assert.Equal(t, "NotAFinding", xmltree.Attr(vs[0], "status"))
	assert.Equal(t, "NotAFinding", xmltree.Text(xmltree.Child(vs[1], "STATUS")), "status falls back to the finding")
	assert.Equal(t, "draft details", xmltree.Text(xmltree.Child(vs[1], "FINDING_DETAILS")))
	assert.Equal(t, "fine", xmltree.Text(xmltree.Child(vs[1], "COMMENTS")))
}

func TestProject_Escaping(t *testing.T) {
	tricky := []string{
		`<script>&"'</script>`,
		"line one\r\nline two\ttabbed",
		"]]> <![CDATA[ x",
	}

	for _, s := range tricky {
		t.Run(s, func(t *testing.T) {
			a := sampleAssessment()
			a.Title = s
			ann := domain.Annotations{"V-1": {Comments: ptr(s), FindingDetails: ptr(s)}}

			out, err := Project(a, ann)
			require.NoError(t, err)

			// a standard decoder must recover the exact string
			var doc struct {
				Vulns []struct {
					Comments string `xml:"COMMENTS"`
					Details  string `xml:"FINDING_DETAILS"`
				} `xml:"STIGS>iSTIG>VULN"`
			}
			require.NoError(t, xml.Unmarshal(out, &doc))
			require.Len(t, doc.Vulns, 2)
			assert.Equal(t, s, doc.Vulns[0].Comments)
			assert.Equal(t, s, doc.Vulns[0].Details)
		})
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;a&gt; &amp; &quot;b&quot; &apos;c&apos;", Escape(`<a> & "b" 'c'`))
	assert.Equal(t, "a&#xD;\nb", Escape("a\r\nb"))
	assert.Equal(t, "ab", Escape("a\x00\x1bb"))
	assert.Equal(t, "plain", Escape("plain"))
}

func TestBuild_InternalInconsistency(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *domain.Assessment)
		ann    domain.Annotations
	}{
		{"duplicate id", func(a *domain.Assessment) { a.Findings[1].ID = "V-1" }, nil},
		{"missing id", func(a *domain.Assessment) { a.Findings[0].ID = "" }, nil},
		{"severity out of enum", func(a *domain.Assessment) { a.Findings[0].Severity = "critical" }, nil},
		{"status out of enum", func(a *domain.Assessment) {}, domain.Annotations{"V-2": {Status: ptr(domain.Status("maybe"))}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := sampleAssessment()
			tt.mutate(a)

			doc, err := Build(a, tt.ann)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, domain.ErrInternalInconsistency)
			assert.False(t, domain.IsUserError(err))
		})
	}
}

func TestStigUUID(t *testing.T) {
	a := sampleAssessment()
	first := StigUUID(a)
	assert.Equal(t, first, StigUUID(sampleAssessment()))
	assert.Len(t, first, 36)

	a.Version = "2"
	assert.NotEqual(t, first, StigUUID(a))

	a.StigUUID = "carried"
	assert.Equal(t, "carried", StigUUID(a))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "red_hat_enterprise_linux_9_stig.ckl", FileName("Red Hat Enterprise Linux 9 STIG"))
	assert.Equal(t, "a_b_c_.ckl", FileName("a/b:c!"))
	assert.Equal(t, "caf_.ckl", FileName("café"))
	assert.Equal(t, "checklist.ckl", FileName(""))
}

const exampleChecklist = `<CHECKLIST><STIGS><iSTIG><VULN>
	<STIG_DATA><VULN_ATTRIBUTE>Vuln_Num</VULN_ATTRIBUTE><ATTRIBUTE_DATA>V-1</ATTRIBUTE_DATA></STIG_DATA>
	<STIG_DATA><VULN_ATTRIBUTE>Severity</VULN_ATTRIBUTE><ATTRIBUTE_DATA>high</ATTRIBUTE_DATA></STIG_DATA>
	<STATUS>Open</STATUS>
</VULN></iSTIG></STIGS></CHECKLIST>`

func TestEndToEnd(t *testing.T) {
	a, err := normalize.NormalizeBytes(context.Background(), []byte(exampleChecklist))
	require.NoError(t, err)
	require.Len(t, a.Findings, 1)
	assert.Equal(t, "V-1", a.Findings[0].ID)
	assert.Equal(t, domain.SeverityHigh, a.Findings[0].Severity)
	assert.Equal(t, domain.StatusOpen, a.Findings[0].Status)

	out, err := Project(a, nil)
	require.NoError(t, err)

	vs := vulns(t, out)
	require.Len(t, vs, 1)
	assert.Equal(t, "Open", xmltree.Text(xmltree.Child(vs[0], "STATUS")))
	assert.Equal(t, "V-1", stigData(vs[0])["Vuln_Num"])
}

type tuple struct {
	ID, Severity, Status, FindingDetails, Comments, CheckContent, FixText string
}

func tuples(t *testing.T, out []byte) map[tuple]int {
	set := map[tuple]int{}
	for _, v := range vulns(t, out) {
		data := stigData(v)
		set[tuple{
			ID:             data["Vuln_Num"],
			Severity:       strings.ToLower(xmltree.Text(xmltree.Child(v, "SEVERITY"))),
			Status:         xmltree.Text(xmltree.Child(v, "STATUS")),
			FindingDetails: xmltree.Text(xmltree.Child(v, "FINDING_DETAILS")),
			Comments:       xmltree.Text(xmltree.Child(v, "COMMENTS")),
			CheckContent:   data["Check_Content"],
			FixText:        data["Fix_Text"],
		}]++
	}
	return set
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		a := sampleAssessment()
		a.Findings = nil
		for i := 0; i < n; i++ {
			a.Findings = append(a.Findings, domain.Finding{
				ID:             "V-" + strings.Repeat("9", i+1),
				Severity:       domain.Severities()[i%4],
				Status:         domain.Statuses()[i%4],
				FindingDetails: "details <" + strings.Repeat("&", i) + ">",
				Comments:       "it's \"quoted\"",
				CheckContent:   "check\n  indented",
				FixText:        "fix",
			})
		}

		original, err := Project(a, nil)
		require.NoError(t, err)

		normalized, err := normalize.NormalizeBytes(context.Background(), original)
		require.NoError(t, err)
		again, err := Project(normalized, nil)
		require.NoError(t, err)

		assert.Equal(t, tuples(t, original), tuples(t, again), "n=%d", n)
		assert.Len(t, normalized.Findings, n)
		assert.Equal(t, a.Title, normalized.Title)
		assert.Equal(t, StigUUID(a), normalized.StigUUID)
	}
}
