package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"genforge/internal/config"
	"genforge/internal/model"
	"genforge/internal/retry"
	"genforge/internal/session"
)

// stubClient fails a fixed number of times, then replies with its canned
// response. It records every history it was called with.
type stubClient struct {
	failures  int
	response  string
	calls     int
	histories [][]model.Turn
}

func (c *stubClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []model.Turn{{Role: model.RoleUser, Text: prompt}})
}

func (c *stubClient) Chat(_ context.Context, turns []model.Turn) (string, error) {
	c.calls++
	snapshot := make([]model.Turn, len(turns))
	copy(snapshot, turns)
	c.histories = append(c.histories, snapshot)

	if c.calls <= c.failures {
		return "", errors.New("remote unavailable")
	}
	return c.response, nil
}

func newTestApp(t *testing.T, client *stubClient) (*App, string) {
	t.Helper()
	root := t.TempDir()

	conf := config.Default()
	conf.RetryDelay = config.Duration(0)

	a, err := New(conf, client, session.New(root), zap.NewNop().Sugar())
	require.NoError(t, err)
	return a, root
}

func TestProjectCreateMaterializesResponse(t *testing.T) {
	client := &stubClient{response: "Here is your project.\n" +
		"```folder:cmd```\n" +
		"```file:cmd/main.go\npackage main\n\nfunc main() {}\n```\n" +
		"```file:go.mod\nmodule demo\n```\n"}
	a, root := newTestApp(t, client)

	summary, err := a.Dispatch(context.Background(), "project:create a demo app")
	require.NoError(t, err)

	assert.Equal(t, []string{"cmd"}, summary.Folders)
	assert.ElementsMatch(t, []string{"cmd/main.go", "go.mod"}, summary.Created)

	data, err := os.ReadFile(filepath.Join(root, "cmd", "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc main() {}", string(data))
}

func TestFileUpgradeReplacesFile(t *testing.T) {
	client := &stubClient{response: "Upgraded version below.\n" +
		"```file:hello.txt\nnew content\n```\n"}
	a, root := newTestApp(t, client)

	target := filepath.Join(root, "hello.txt")
	require.NoError(t, os.WriteFile(target, []byte("old content"), 0644))

	summary, err := a.Dispatch(context.Background(), "file:upgrade hello.txt make it better")
	require.NoError(t, err)

	assert.Equal(t, []string{"hello.txt"}, summary.Modified)
	data, _ := os.ReadFile(target)
	assert.Equal(t, "new content", string(data))
}

func TestFileUpgradeWithoutDirectiveKeepsOldFile(t *testing.T) {
	client := &stubClient{response: "This file already looks fine to me."}
	a, root := newTestApp(t, client)

	target := filepath.Join(root, "hello.txt")
	require.NoError(t, os.WriteFile(target, []byte("old content"), 0644))

	_, err := a.Dispatch(context.Background(), "file:upgrade hello.txt")
	assert.ErrorIs(t, err, ErrNoDirective)

	data, _ := os.ReadFile(target)
	assert.Equal(t, "old content", string(data))
}

func TestRetryRollsBackHistoryBetweenAttempts(t *testing.T) {
	client := &stubClient{failures: 2, response: "```file:out.txt\nok\n```"}
	a, _ := newTestApp(t, client)

	a.Session().Append(model.RoleUser, "earlier question")
	a.Session().Append(model.RoleModel, "earlier answer")

	_, err := a.Dispatch(context.Background(), "project:create retry demo")
	require.NoError(t, err)

	assert.Equal(t, 3, client.calls)
	// Every attempt saw the same history: two old turns plus the prompt.
	for _, h := range client.histories {
		assert.Len(t, h, 3)
		assert.Equal(t, "earlier answer", h[1].Text)
	}
	// Success appended exactly the prompt and the reply.
	assert.Equal(t, 4, a.Session().Len())
}

func TestExhaustedRetriesLeaveHistoryClean(t *testing.T) {
	client := &stubClient{failures: 100}
	a, _ := newTestApp(t, client)

	_, err := a.Dispatch(context.Background(), "project:create doomed")
	require.Error(t, err)

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, config.Default().MaxAttempts, exhausted.Attempts)
	assert.Equal(t, config.Default().MaxAttempts, client.calls)

	// No speculative turns survive the failure.
	assert.Zero(t, a.Session().Len())
}

func TestRemoteVerbWithoutClient(t *testing.T) {
	root := t.TempDir()
	conf := config.Default()
	a, err := New(conf, nil, session.New(root), zap.NewNop().Sugar())
	require.NoError(t, err)

	_, err = a.Dispatch(context.Background(), "project:create anything")
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestUnknownVerb(t *testing.T) {
	a, _ := newTestApp(t, &stubClient{})

	_, err := a.Dispatch(context.Background(), "bogus:verb")
	assert.Error(t, err)

	summary, err := a.Dispatch(context.Background(), "   ")
	assert.NoError(t, err)
	assert.True(t, summary.Empty())
}

func TestUndoAfterProjectCreate(t *testing.T) {
	client := &stubClient{response: "```file:made.txt\ncontent\n```"}
	a, root := newTestApp(t, client)

	_, err := a.Dispatch(context.Background(), "project:create demo")
	require.NoError(t, err)
	target := filepath.Join(root, "made.txt")
	require.FileExists(t, target)

	summary, err := a.Dispatch(context.Background(), "undo")
	require.NoError(t, err)
	assert.Contains(t, summary.Message, "Undid")
	assert.NoFileExists(t, target)

	summary, err = a.Dispatch(context.Background(), "redo")
	require.NoError(t, err)
	assert.Contains(t, summary.Message, "Redid")
	assert.FileExists(t, target)
}

func TestSnippetListFromLastResponse(t *testing.T) {
	client := &stubClient{response: "Some prose.\n\n```bash\necho hi\n```\n\n" +
		"```file:skip.txt\nnot a snippet\n```\n"}
	a, _ := newTestApp(t, client)

	_, err := a.Dispatch(context.Background(), "project:create demo")
	require.NoError(t, err)

	summary, err := a.Dispatch(context.Background(), "snippet:list")
	require.NoError(t, err)
	assert.Contains(t, summary.Message, "[bash]")
	assert.NotContains(t, summary.Message, "skip.txt")
}

func TestHistoryClear(t *testing.T) {
	a, _ := newTestApp(t, &stubClient{response: "hi"})
	a.Session().Append(model.RoleUser, "x")

	_, err := a.Dispatch(context.Background(), "history:clear")
	require.NoError(t, err)
	assert.Zero(t, a.Session().Len())
}

func TestStrategySelection(t *testing.T) {
	conf := config.Default()
	conf.Backoff = "fixed"
	conf.RetryDelay = config.Duration(5 * time.Second)
	assert.Equal(t, retry.Fixed(5*time.Second), strategyFor(conf))

	conf.Backoff = "exponential"
	s, ok := strategyFor(conf).(retry.Exponential)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, s.Base)
}
