package app

import (
	"go.uber.org/zap"

	"genforge/internal/fs"
	"genforge/internal/model"
	"genforge/internal/state"
)

// journalingMat is the scanner's materializer: it resolves directive paths
// onto the project root, backs up overwritten content for undo, and records
// an operation per write.
type journalingMat struct {
	resolver *fs.PathResolver
	state    *state.Manager
	log      *zap.SugaredLogger

	ops     []state.Operation
	actions map[string]string // resolved path -> create|modify
}

func newJournalingMat(resolver *fs.PathResolver, st *state.Manager, log *zap.SugaredLogger) *journalingMat {
	return &journalingMat{
		resolver: resolver,
		state:    st,
		log:      log,
		actions:  make(map[string]string),
	}
}

func (j *journalingMat) EnsureFolder(path string) error {
	abs := j.resolver.Resolve(path)
	if err := fs.EnsureFolder(abs); err != nil {
		j.log.Warnw("folder creation failed", "path", abs, "error", err)
		return err
	}
	j.ops = append(j.ops, state.Operation{Path: abs, Action: state.ActionFolder})
	return nil
}

func (j *journalingMat) WriteFile(path, content string) error {
	abs := j.resolver.Resolve(path)

	action := state.ActionCreate
	if fs.Exists(abs) {
		action = state.ActionModify
	}

	prev, err := j.state.Backup(abs)
	if err != nil {
		// A failed backup only costs undo for this file, not the write.
		j.log.Warnw("backup failed", "path", abs, "error", err)
		prev = ""
	}

	if err := fs.WriteFile(abs, content); err != nil {
		j.log.Warnw("file write failed", "path", abs, "error", err)
		return err
	}

	after, err := j.state.Backup(abs)
	if err != nil {
		j.log.Warnw("post-write backup failed", "path", abs, "error", err)
	}

	j.ops = append(j.ops, state.Operation{
		Path:       abs,
		Action:     action,
		PrevBackup: prev,
		NewBackup:  after,
	})
	// A later directive may rewrite the same path; the first action wins
	// for display purposes.
	if _, seen := j.actions[abs]; !seen {
		j.actions[abs] = action
	}
	return nil
}

// summarize turns scan outcomes into a display summary with paths relative
// to the project root.
func (j *journalingMat) summarize(root string, outcomes []model.Outcome) model.Summary {
	var s model.Summary
	seen := make(map[string]bool)

	for _, o := range outcomes {
		abs := j.resolver.Resolve(o.Path)
		if o.Err != nil {
			s.Failed = append(s.Failed, o.Path)
			continue
		}
		if o.Kind == model.DirectiveFolder {
			s.Folders = append(s.Folders, o.Path)
			continue
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		if j.actions[abs] == state.ActionCreate {
			s.Created = append(s.Created, o.Path)
		} else {
			s.Modified = append(s.Modified, o.Path)
		}
	}
	return s
}
