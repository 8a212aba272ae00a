// Package prompt holds the templates sent to the model. The formatting
// section teaches the marker convention the scanner consumes; every verb
// prompt embeds it.
package prompt

import (
	"fmt"
	"strings"
)

// FormatInstructions is appended to every generation prompt. The response
// scanner depends on this exact convention.
const FormatInstructions = "**Strict Output Formatting (Non-Negotiable):**\n" +
	"When you create or modify files, use exactly these markers:\n\n" +
	"1. To create a folder, emit a single line:\n" +
	"```folder:path/to/folder```\n" +
	"2. To create or fully replace a file, open a fenced block whose first line is\n" +
	"```file:path/to/file\n" +
	"followed by the complete file content, and close it with a line containing only:\n" +
	"```\n" +
	"3. Always output full, complete files. No snippets, no diffs, no placeholders like \"...\".\n" +
	"4. Paths are relative to the project root.\n" +
	"Any text outside these blocks is treated as explanation and ignored.\n"

// ProjectCreate asks the model to scaffold a new project.
func ProjectCreate(description string) string {
	return fmt.Sprintf(
		"You are an expert software engineer. Scaffold a complete, working project for the following request:\n\n"+
			"%s\n\n"+
			"Create every folder and file the project needs, including build files.\n\n%s",
		description, FormatInstructions)
}

// FileUpgrade asks for a full replacement of one file.
func FileUpgrade(path, content, instruction string) string {
	if instruction == "" {
		instruction = "Improve this code: fix bugs, simplify, and modernize it without changing its behavior."
	}
	return fmt.Sprintf(
		"You are an expert software engineer. %s\n\n"+
			"The file `%s` currently contains:\n\n"+
			"```\n%s\n```\n\n"+
			"Reply with the complete replacement for `%s` using the file marker convention below. "+
			"If no change is needed, say so in prose and emit no file block.\n\n%s",
		instruction, path, content, path, FormatInstructions)
}

// FileBlob pairs a path with its content for folder-wide prompts.
type FileBlob struct {
	Path    string
	Content string
}

// FolderUpgrade asks for replacements across a set of files.
func FolderUpgrade(files []FileBlob, instruction string) string {
	if instruction == "" {
		instruction = "Improve these files: fix bugs, simplify, and modernize them without changing behavior."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert software engineer. %s\n\nThe project files are:\n\n", instruction)
	for _, f := range files {
		fmt.Fprintf(&sb, "`%s`:\n```\n%s\n```\n\n", f.Path, f.Content)
	}
	sb.WriteString("Reply with a complete replacement block for every file you change. " +
		"Skip files that need no change.\n\n")
	sb.WriteString(FormatInstructions)
	return sb.String()
}

// TestFix sends failing test output back to the model.
func TestFix(command, output string, files []FileBlob) string {
	var sb strings.Builder
	fmt.Fprintf(&sb,
		"Running `%s` in this project failed with the following output:\n\n```\n%s\n```\n\n",
		command, output)
	if len(files) > 0 {
		sb.WriteString("The relevant files are:\n\n")
		for _, f := range files {
			fmt.Fprintf(&sb, "`%s`:\n```\n%s\n```\n\n", f.Path, f.Content)
		}
	}
	sb.WriteString("Fix the failures. Reply with complete replacement blocks for every file you change.\n\n")
	sb.WriteString(FormatInstructions)
	return sb.String()
}
