package app

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"genforge/internal/model"
	"genforge/internal/prompt"
	"genforge/internal/scanner"
	"genforge/internal/source"
)

// projectCreate scaffolds a new project from a description.
func (a *App) projectCreate(ctx context.Context, description string) (model.Summary, error) {
	if strings.TrimSpace(description) == "" {
		return model.Summary{}, fmt.Errorf("usage: project:create <description>")
	}

	resp, err := a.completeWithRetry(ctx, prompt.ProjectCreate(description))
	if err != nil {
		return model.Summary{}, fmt.Errorf("project:create failed: %w", err)
	}

	summary, _ := a.materialize(resp)
	if summary.Empty() {
		summary.Message = "The model produced no directives. Try rephrasing the description."
	}
	return summary, nil
}

// fileUpgrade sends one file for a full replacement. A response without a
// file directive keeps the previous version and reports ErrNoDirective.
func (a *App) fileUpgrade(ctx context.Context, path, instruction string) (model.Summary, error) {
	abs := a.resolver.Resolve(path)
	content, err := os.ReadFile(abs)
	if err != nil {
		return model.Summary{}, fmt.Errorf("could not read %s: %w", path, err)
	}

	resp, err := a.completeWithRetry(ctx, prompt.FileUpgrade(path, string(content), instruction))
	if err != nil {
		return model.Summary{}, fmt.Errorf("file:upgrade %s failed: %w", path, err)
	}

	summary, outcomes := a.materialize(resp)
	if !scanner.HasFileDirective(outcomes) {
		return model.Summary{}, fmt.Errorf("file:upgrade %s: %w (previous version kept)", path, ErrNoDirective)
	}
	return summary, nil
}

// folderUpgrade sends every file under dir for replacement.
func (a *App) folderUpgrade(ctx context.Context, dir, instruction string) (model.Summary, error) {
	files, err := a.collectFiles(dir)
	if err != nil {
		return model.Summary{}, err
	}
	if len(files) == 0 {
		return model.Summary{Message: fmt.Sprintf("No files found under %s.", dir)}, nil
	}

	resp, err := a.completeWithRetry(ctx, prompt.FolderUpgrade(files, instruction))
	if err != nil {
		return model.Summary{}, fmt.Errorf("folder:upgrade %s failed: %w", dir, err)
	}

	summary, outcomes := a.materialize(resp)
	if !scanner.HasFileDirective(outcomes) {
		return model.Summary{}, fmt.Errorf("folder:upgrade %s: %w (previous versions kept)", dir, ErrNoDirective)
	}
	return summary, nil
}

// collectFiles gathers regular files under dir, skipping the state dir and
// anything hidden.
func (a *App) collectFiles(dir string) ([]prompt.FileBlob, error) {
	absDir := a.resolver.Resolve(dir)
	var files []prompt.FileBlob

	err := filepath.WalkDir(absDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") && path != absDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(a.sess.Root(), path)
		if err != nil {
			rel = path
		}
		files = append(files, prompt.FileBlob{Path: filepath.ToSlash(rel), Content: string(content)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not walk %s: %w", dir, err)
	}
	return files, nil
}

// applyFromSource scans an already-generated response from stdin or the
// clipboard without calling the API.
func (a *App) applyFromSource() (model.Summary, error) {
	content, err := a.source.GetContent()
	if err != nil {
		return model.Summary{}, err
	}
	if content == "" {
		return model.Summary{Message: "Source is empty. Nothing to process."}, nil
	}

	a.lastResponse = content
	summary, _ := a.materialize(content)
	if summary.Empty() {
		summary.Message = "No directives found in the source."
	}
	return summary, nil
}

func (a *App) snippetList() (model.Summary, error) {
	if a.lastResponse == "" {
		return model.Summary{Message: "No response yet; run a command or 'apply' first."}, nil
	}
	snippets, err := scanner.ExtractSnippets([]byte(a.lastResponse))
	if err != nil {
		return model.Summary{}, fmt.Errorf("could not parse response: %w", err)
	}
	if len(snippets) == 0 {
		return model.Summary{Message: "No snippets in the last response."}, nil
	}

	var sb strings.Builder
	sb.WriteString("Snippets in the last response:\n")
	for i, sn := range snippets {
		lang := sn.Lang
		if lang == "" {
			lang = "text"
		}
		firstLine, _, _ := strings.Cut(strings.TrimSpace(sn.Content), "\n")
		fmt.Fprintf(&sb, "  %d. [%s] %s\n", i+1, lang, firstLine)
	}
	return model.Summary{Message: strings.TrimRight(sb.String(), "\n")}, nil
}

func (a *App) snippetCopy(arg string) (model.Summary, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return model.Summary{}, fmt.Errorf("snippet:copy wants a positive number, got %q", arg)
	}
	snippets, err := scanner.ExtractSnippets([]byte(a.lastResponse))
	if err != nil {
		return model.Summary{}, fmt.Errorf("could not parse response: %w", err)
	}
	if n > len(snippets) {
		return model.Summary{}, fmt.Errorf("snippet %d does not exist; the last response has %d", n, len(snippets))
	}
	if err := source.CopyToClipboard(snippets[n-1].Content); err != nil {
		return model.Summary{}, fmt.Errorf("could not copy snippet: %w", err)
	}
	return model.Summary{Message: fmt.Sprintf("Snippet %d copied to clipboard.", n)}, nil
}

// testRun executes the configured test command; on failure the output goes
// back to the model and any fixes are materialized.
func (a *App) testRun(ctx context.Context) (model.Summary, error) {
	command := a.conf.TestCommand
	if command == "" {
		return model.Summary{}, fmt.Errorf("no test_command configured")
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = a.sess.Root()
	output, err := cmd.CombinedOutput()
	if err == nil {
		return model.Summary{Message: fmt.Sprintf("`%s` passed.", command)}, nil
	}
	a.log.Infow("test command failed, requesting fixes", "command", command)

	resp, rerr := a.completeWithRetry(ctx, prompt.TestFix(command, string(output), nil))
	if rerr != nil {
		return model.Summary{}, fmt.Errorf("test:run fix request failed: %w", rerr)
	}

	summary, outcomes := a.materialize(resp)
	if !scanner.HasFileDirective(outcomes) {
		summary.Message = "Tests failed and the model proposed no file changes."
	} else {
		summary.Message = fmt.Sprintf("`%s` failed; applied the model's fixes. Run test:run again.", command)
	}
	return summary, nil
}

func (a *App) git(ctx context.Context, args ...string) (model.Summary, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = a.sess.Root()
	output, err := cmd.CombinedOutput()
	if err != nil {
		return model.Summary{}, fmt.Errorf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	msg := strings.TrimRight(string(output), "\n")
	if msg == "" {
		msg = "(clean)"
	}
	return model.Summary{Message: msg}, nil
}

func (a *App) gitCommit(ctx context.Context, message string) (model.Summary, error) {
	if _, err := a.git(ctx, "add", "-A"); err != nil {
		return model.Summary{}, err
	}
	return a.git(ctx, "commit", "-m", message)
}
