// Package app orchestrates verbs: it builds prompts, drives the remote
// call through the retry wrapper, and feeds responses to the scanner.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"genforge/internal/config"
	"genforge/internal/fs"
	"genforge/internal/llm"
	"genforge/internal/model"
	"genforge/internal/retry"
	"genforge/internal/scanner"
	"genforge/internal/session"
	"genforge/internal/source"
	"genforge/internal/state"
)

// ErrNoDirective reports a response that contained no file directive where
// one was expected. The previous file version is kept.
var ErrNoDirective = errors.New("response contained no file directive")

// ErrNoClient reports a remote verb invoked without an API key configured.
var ErrNoClient = errors.New("no API key configured (set GEMINI_API_KEY)")

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// App holds everything one invocation needs. There is no module-level
// state; the session object carries the conversation.
type App struct {
	conf     *config.Config
	log      *zap.SugaredLogger
	client   llm.Client
	sess     *session.Session
	state    *state.Manager
	resolver *fs.PathResolver
	source   *source.Provider
	strategy retry.Strategy

	lastResponse string
}

// New creates an App rooted at the session's project root. client may be
// nil; remote verbs then fail with ErrNoClient while offline verbs
// (apply, undo, snippets, git) keep working.
func New(conf *config.Config, client llm.Client, sess *session.Session, log *zap.SugaredLogger) (*App, error) {
	stateManager, err := state.New(filepath.Join(sess.Root(), config.Dir))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}

	return &App{
		conf:     conf,
		log:      log,
		client:   client,
		sess:     sess,
		state:    stateManager,
		resolver: fs.NewPathResolver(sess.Root()),
		source:   source.New(),
		strategy: strategyFor(conf),
	}, nil
}

func strategyFor(conf *config.Config) retry.Strategy {
	if conf.Backoff == "fixed" {
		return retry.Fixed(conf.RetryDelay.Std())
	}
	return retry.Exponential{Base: conf.RetryDelay.Std(), Max: 30 * time.Second}
}

// Session exposes the conversation state, mainly for tests and the TUI.
func (a *App) Session() *session.Session {
	return a.sess
}

// LastResponse returns the most recent raw model response.
func (a *App) LastResponse() string {
	return a.lastResponse
}

// Dispatch parses one command line and runs the matching verb. A failing
// verb reports its error; the caller's loop survives and returns to the
// prompt.
func (a *App) Dispatch(ctx context.Context, line string) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return model.Summary{}, nil
	}
	verb, args := fields[0], fields[1:]
	a.log.Debugw("dispatch", "verb", verb, "args", args)

	switch verb {
	case "project:create":
		return a.projectCreate(ctx, strings.Join(args, " "))
	case "file:upgrade":
		if len(args) == 0 {
			return model.Summary{}, fmt.Errorf("usage: file:upgrade <path> [instruction]")
		}
		return a.fileUpgrade(ctx, args[0], strings.Join(args[1:], " "))
	case "folder:upgrade":
		if len(args) == 0 {
			return model.Summary{}, fmt.Errorf("usage: folder:upgrade <path> [instruction]")
		}
		return a.folderUpgrade(ctx, args[0], strings.Join(args[1:], " "))
	case "apply":
		return a.applyFromSource()
	case "snippet:list":
		return a.snippetList()
	case "snippet:copy":
		if len(args) != 1 {
			return model.Summary{}, fmt.Errorf("usage: snippet:copy <number>")
		}
		return a.snippetCopy(args[0])
	case "test:run":
		return a.testRun(ctx)
	case "git:status":
		return a.git(ctx, "status", "--short")
	case "git:commit":
		if len(args) == 0 {
			return model.Summary{}, fmt.Errorf("usage: git:commit <message>")
		}
		return a.gitCommit(ctx, strings.Join(args, " "))
	case "undo":
		return a.undo()
	case "redo":
		return a.redo()
	case "history:clear":
		a.sess.Clear()
		return model.Summary{Message: "Conversation history cleared."}, nil
	default:
		return model.Summary{}, fmt.Errorf("unknown command %q", verb)
	}
}

// completeWithRetry sends the prompt as the next conversation turn, retrying
// on failure. Every failed attempt rolls its speculative turns back so the
// next attempt sees the history exactly as the first one did.
func (a *App) completeWithRetry(ctx context.Context, promptText string) (string, error) {
	if a.client == nil {
		return "", ErrNoClient
	}

	mark := a.sess.Mark()
	var text string

	err := retry.Do(ctx, a.conf.MaxAttempts, a.strategy, func(ctx context.Context) error {
		a.sess.Rollback(mark)
		a.sess.Append(model.RoleUser, promptText)

		resp, err := a.client.Chat(ctx, a.sess.Turns())
		if err != nil {
			a.log.Warnw("remote call failed", "error", err)
			return err
		}

		a.sess.Append(model.RoleModel, resp)
		text = resp
		return nil
	})
	if err != nil {
		a.sess.Rollback(mark)
		return "", err
	}

	a.lastResponse = text
	return text, nil
}

// materialize scans the response and performs every directive, journaling
// each write for undo.
func (a *App) materialize(text string) (model.Summary, []model.Outcome) {
	mat := newJournalingMat(a.resolver, a.state, a.log)
	s := scanner.New(mat, scanner.Options{TrimContent: a.conf.TrimContent})

	outcomes := s.Scan(text)

	if err := a.state.Write(mat.ops); err != nil {
		a.log.Warnw("failed to persist journal", "error", err)
	}

	return mat.summarize(a.sess.Root(), outcomes), outcomes
}

func (a *App) undo() (model.Summary, error) {
	restored, failed := a.state.Undo()
	if len(restored) == 0 && len(failed) == 0 {
		return model.Summary{Message: "No operation to undo."}, nil
	}
	return model.Summary{
		Modified: relativize(a.sess.Root(), restored),
		Failed:   relativize(a.sess.Root(), failed),
		Message:  "Undid last operation.",
	}, nil
}

func (a *App) redo() (model.Summary, error) {
	redone, failed := a.state.Redo()
	if len(redone) == 0 && len(failed) == 0 {
		return model.Summary{Message: "No operation to redo."}, nil
	}
	return model.Summary{
		Modified: relativize(a.sess.Root(), redone),
		Failed:   relativize(a.sess.Root(), failed),
		Message:  "Redid last undone operation.",
	}, nil
}

// relativize converts absolute paths to project-relative ones for display.
func relativize(root string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			out[i] = p
			continue
		}
		out[i] = rel
	}
	return out
}
