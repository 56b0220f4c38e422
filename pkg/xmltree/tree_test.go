package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Shape(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<xccdf:Benchmark xmlns:xccdf="http://checklists.nist.gov/xccdf/1.1"
	xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
	xsi:schemaLocation="a b" id="RHEL_9">
	<xccdf:status date="2024-01-02">accepted</xccdf:status>
	<xccdf:Group id="V-1"><xccdf:title>one</xccdf:title></xccdf:Group>
	<xccdf:Group id="V-2"><xccdf:title>two</xccdf:title></xccdf:Group>
	<empty/>
</xccdf:Benchmark>`

	tree, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Contains(t, tree, "Benchmark")

	b := tree["Benchmark"]
	assert.Equal(t, "RHEL_9", Attr(b, "id"))
	assert.Equal(t, "a b", Attr(b, "xsi:schemaLocation"))
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema-instance", Attr(b, "xmlns:xsi"))

	status := Child(b, "status")
	assert.Equal(t, "accepted", Text(status))
	assert.Equal(t, "2024-01-02", Attr(status, "date"))

	groups := AsSlice(Child(b, "Group"))
	require.Len(t, groups, 2)
	assert.Equal(t, "V-1", Attr(groups[0], "id"))
	assert.Equal(t, "two", Text(Child(groups[1], "title")))

	assert.Equal(t, "", Child(b, "empty"))
	_, hasText := b.(Node)[TextKey]
	assert.False(t, hasText, "whitespace between children is not text")
}

func TestParse_SingleChildIsScalar(t *testing.T) {
	tree, err := Parse([]byte(`<CHECKLIST><STIGS><iSTIG><VULN><STATUS>Open</STATUS></VULN></iSTIG></STIGS></CHECKLIST>`))
	require.NoError(t, err)

	vuln := Path(tree, "CHECKLIST", "STIGS", "iSTIG", "VULN")
	_, isNode := vuln.(Node)
	assert.True(t, isNode)
	assert.Len(t, AsSlice(vuln), 1)
	assert.Equal(t, "Open", Text(Child(vuln, "STATUS")))
}

func TestParse_LeafTextPreserved(t *testing.T) {
	tree, err := Parse([]byte("<a><c>  line one\n line two &lt;b&gt; &amp; &quot;x&quot; </c><d><![CDATA[<raw>]]></d></a>"))
	require.NoError(t, err)

	assert.Equal(t, "  line one\n line two <b> & \"x\" ", Text(Path(tree, "a", "c")))
	assert.Equal(t, "<raw>", Text(Path(tree, "a", "d")))
}

func TestParse_BOM(t *testing.T) {
	tree, err := Parse([]byte("\xEF\xBB\xBF<root>x</root>"))
	require.NoError(t, err)
	assert.Equal(t, "x", Text(tree["root"]))
}

func TestParse_Latin1(t *testing.T) {
	tree, err := Parse([]byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><r>caf\xe9</r>"))
	require.NoError(t, err)
	assert.Equal(t, "café", Text(tree["r"]))
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"not xml", "this is not xml"},
		{"mismatched", "<a><b></a></b>"},
		{"unclosed", "<a><b></b>"},
		{"two roots", "<a/><b/>"},
		{"text after root", "<a/>trailing"},
		{"bad entity", "<a>&nope;</a>"},
		{"stray close", "<a/></b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestElementText(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		expected string
		found    bool
	}{
		{"embedded description", "<VulnDiscussion>x &amp; y</VulnDiscussion><Documentable>false</Documentable>", "x & y", true},
		{"html entities", "<VulnDiscussion>a&nbsp;b</VulnDiscussion>", "a\u00a0b", true},
		{"inline placeholder", "<VulnDiscussion>Set <blank> before reboot.</VulnDiscussion>", "Set <blank> before reboot.", true},
		{"prefixed element", "<x:VulnDiscussion>see <path> now</x:VulnDiscussion>", "see <path> now", true},
		{"nested same name", "<VulnDiscussion>a<VulnDiscussion>b</VulnDiscussion>c</VulnDiscussion>", "a<VulnDiscussion>b</VulnDiscussion>c", true},
		{"unclosed", "<VulnDiscussion>tail", "tail", true},
		{"missing", "<FalsePositives>x</FalsePositives>", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := ElementText(tt.fragment, "VulnDiscussion")
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAccessors(t *testing.T) {
	n := Node{"@_id": "x", TextKey: "body", "k": []any{"a", "b"}}

	assert.Nil(t, AsSlice(nil))
	assert.Equal(t, []any{"a", "b"}, AsSlice(n["k"]))
	assert.Equal(t, "body", Text(n))
	assert.Equal(t, "", Text(42))
	assert.Equal(t, "x", Attr(n, "id"))
	assert.Equal(t, "", Attr("scalar", "id"))
	assert.Nil(t, Child("scalar", "k"))
	assert.Nil(t, Path(n, "missing", "deeper"))
	assert.True(t, Has(n, "k"))
	assert.False(t, Has(n, "z"))
}
