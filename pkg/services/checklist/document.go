// Package checklist projects an Assessment into a DISA STIG Viewer CKL document.
package checklist

const (
	NamespaceXSI   = "http://www.w3.org/2001/XMLSchema-instance"
	NamespaceDSig  = "http://www.w3.org/2000/09/xmldsig#"
	NamespaceXCCDF = "http://checklists.nist.gov/xccdf/1.1"
	SchemaLocation = "http://checklists.nist.gov/xccdf/1.1 xccdf_checklist.1.1.xsd"

	IStigVersion          = "1.0"
	DefaultClassification = "UNCLASSIFIED"
)

// Document is the CKL document model. Slices keep element order, which is
// part of the output contract.
type Document struct {
	Asset        []Field
	IStigVersion string
	Info         []Field
	Vulns        []Vuln
}

// Field is one named value: an ASSET child, an SI_DATA pair or a STIG_DATA
// pair depending on where it sits.
type Field struct {
	Name  string
	Value string
}

type Vuln struct {
	Status                string // VULN@status
	StigData              []Field
	FindingDetails        string
	Comments              string
	Severity              string
	SeverityOverride      string
	SeverityJustification string
}

// StigDataOrder is the order STIG_DATA pairs are written in.
var StigDataOrder = []string{
	"Vuln_Num",
	"Group_Title",
	"Rule_ID",
	"Rule_Ver",
	"Rule_Title",
	"Vuln_Discuss",
	"Check_Content",
	"Fix_Text",
}

// SIDataOrder is the order STIG_INFO SI_DATA pairs are written in.
var SIDataOrder = []string{
	"version",
	"classification",
	"customname",
	"stigid",
	"description",
	"filename",
	"releaseinfo",
	"title",
	"uuid",
	"notice",
	"source",
}
