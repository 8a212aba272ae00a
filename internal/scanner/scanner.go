package scanner

import (
	"strings"

	"genforge/internal/model"
)

// Response markers. A folder directive is self-contained on one line; a file
// directive opens a block that runs until a bare closing fence.
const (
	folderMarker = "```folder:"
	fileMarker   = "```file:"
	closeMarker  = "```"
)

// Materializer performs the filesystem effect of a single directive.
type Materializer interface {
	EnsureFolder(path string) error
	WriteFile(path, content string) error
}

// Options control scanning behavior.
type Options struct {
	// TrimContent trims surrounding whitespace from the joined file content
	// before it is written. Off by default: content is written verbatim.
	TrimContent bool
}

// Scanner walks a response line by line and materializes every recognized
// directive in document order.
type Scanner struct {
	mat  Materializer
	opts Options
}

// New creates a scanner that drives the given materializer.
func New(mat Materializer, opts Options) *Scanner {
	return &Scanner{mat: mat, opts: opts}
}

// Scan extracts directives from text and materializes each one
// synchronously, in the order the markers appear. Materializer failures are
// recorded per directive and never abort the rest of the scan. Marker-like
// lines that do not parse (e.g. a missing path) are treated as prose.
func (s *Scanner) Scan(text string) []model.Outcome {
	var outcomes []model.Outcome

	var currentPath string
	var buffer []string
	inBlock := false

	flush := func() {
		content := strings.Join(buffer, "\n")
		if s.opts.TrimContent {
			content = strings.TrimSpace(content)
		}
		err := s.mat.WriteFile(currentPath, content)
		outcomes = append(outcomes, model.Outcome{
			Kind: model.DirectiveFile,
			Path: currentPath,
			Err:  err,
		})
		currentPath = ""
		buffer = nil
		inBlock = false
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case isFolderDirective(line):
			path := folderPath(line)
			err := s.mat.EnsureFolder(path)
			outcomes = append(outcomes, model.Outcome{
				Kind: model.DirectiveFolder,
				Path: path,
				Err:  err,
			})

		case isFileOpen(line):
			// A second open marker before a close means the previous block
			// never terminated; flush what was buffered so far.
			if inBlock {
				flush()
			}
			currentPath = filePath(line)
			buffer = []string{}
			inBlock = true

		case line == closeMarker && inBlock:
			flush()

		case inBlock:
			buffer = append(buffer, line)

		default:
			// Prose between directives carries no instruction.
		}
	}

	// A response that ends mid-block still gets its content written.
	if inBlock {
		flush()
	}

	return outcomes
}

// isFolderDirective matches a one-line folder directive: the folder marker,
// a non-empty path, and a closing fence on the same line. A folder marker
// without the same-line close is out of grammar and reads as prose.
func isFolderDirective(line string) bool {
	if !strings.HasPrefix(line, folderMarker) {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, folderMarker))
	if !strings.HasSuffix(rest, closeMarker) {
		return false
	}
	return strings.TrimSpace(strings.TrimSuffix(rest, closeMarker)) != ""
}

func folderPath(line string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(line, folderMarker))
	return strings.TrimSpace(strings.TrimSuffix(rest, closeMarker))
}

// isFileOpen matches a file-open marker with a non-empty path and no closing
// fence on the same line.
func isFileOpen(line string) bool {
	if !strings.HasPrefix(line, fileMarker) {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, fileMarker))
	return rest != "" && !strings.HasSuffix(rest, closeMarker)
}

func filePath(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, fileMarker))
}

// HasFileDirective reports whether any outcome wrote a file. Callers that
// expect a replacement file use this to detect an empty-handed response.
func HasFileDirective(outcomes []model.Outcome) bool {
	for _, o := range outcomes {
		if o.Kind == model.DirectiveFile {
			return true
		}
	}
	return false
}
