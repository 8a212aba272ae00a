package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSnippets(t *testing.T) {
	source := []byte("Run this first:\n\n" +
		"```bash\ngo mod tidy\n```\n\n" +
		"Then note this config:\n\n" +
		"```yaml\nkey: value\n```\n")

	snippets, err := ExtractSnippets(source)
	require.NoError(t, err)

	require.Len(t, snippets, 2)
	assert.Equal(t, "bash", snippets[0].Lang)
	assert.Equal(t, "go mod tidy\n", snippets[0].Content)
	assert.Equal(t, "yaml", snippets[1].Lang)
}

func TestExtractSnippetsSkipsDirectiveBlocks(t *testing.T) {
	source := []byte("```file:a.txt\ncontent\n```\n\n" +
		"```folder:b\n```\n\n" +
		"```python\nprint('hi')\n```\n")

	snippets, err := ExtractSnippets(source)
	require.NoError(t, err)

	require.Len(t, snippets, 1)
	assert.Equal(t, "python", snippets[0].Lang)
}

func TestExtractSnippetsEmptyInput(t *testing.T) {
	snippets, err := ExtractSnippets([]byte("just prose, no fences"))
	require.NoError(t, err)
	assert.Empty(t, snippets)
}
