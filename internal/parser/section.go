package parser

// Section is one contiguous unit of a source file: the prose pulled out of
// its comments and the code that goes with it. At least one of DocsText and
// CodeText is non-empty on every section the parser emits.
//
// DocsHTML and CodeHTML start empty; downstream renderers attach their
// output to the same record in place. Num is the section's zero-based
// position in the file, assigned after parsing completes.
type Section struct {
	DocsText string `json:"docs_text"`
	CodeText string `json:"code_text"`
	DocsHTML string `json:"docs_html,omitempty"`
	CodeHTML string `json:"code_html,omitempty"`
	Num      int    `json:"num"`
}
