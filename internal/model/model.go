package model

// Conversation roles as the Gemini API names them.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// DirectiveKind distinguishes the two directive forms found in a response.
type DirectiveKind int

const (
	DirectiveFolder DirectiveKind = iota
	DirectiveFile
)

func (k DirectiveKind) String() string {
	if k == DirectiveFolder {
		return "folder"
	}
	return "file"
}

// Directive is a single parsed instruction extracted from model output.
type Directive struct {
	Kind    DirectiveKind
	Path    string
	Content string // file directives only
}

// Outcome records the result of materializing one directive.
type Outcome struct {
	Kind DirectiveKind
	Path string
	Err  error
}

// Turn is one entry of a running conversation.
type Turn struct {
	Role string
	Text string
}

// Snippet is a plain fenced code block from a response, as opposed to a
// file or folder directive.
type Snippet struct {
	Lang    string
	Content string
}

// Summary describes one completed operation for display.
type Summary struct {
	Folders  []string
	Created  []string
	Modified []string
	Failed   []string
	Message  string
}

// Empty reports whether the summary carries nothing to show.
func (s Summary) Empty() bool {
	return len(s.Folders) == 0 && len(s.Created) == 0 &&
		len(s.Modified) == 0 && len(s.Failed) == 0 && s.Message == ""
}
