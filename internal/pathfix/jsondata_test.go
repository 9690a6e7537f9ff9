package pathfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataAdapter_ExtractStringValuesOnly(t *testing.T) {
	content := []byte(`{"C:\\key": "ok", "a/b": ["/repo/x.png", 3, {"t~": "deep"}], "n": null}`)

	candidates, err := dataAdapter{}.Extract(content)
	require.NoError(t, err)

	var got []string
	for _, c := range candidates {
		got = append(got, c.Slot+" "+c.Value)
	}
	assert.Equal(t, []string{
		"/C:\\key ok",
		"/a~1b/0 /repo/x.png",
		"/a~1b/2/t~0 deep",
	}, got)
}

func TestDataAdapter_RewritePreservesOrderAndNumbers(t *testing.T) {
	content := []byte(`{"name": "demo", "icon": "C:\\temp\\x.png", "n": 1.50, "nested": {"list": ["/repo/a.png", true, null], "empty": {}, "none": []}}`)
	repls := []Replacement{{Candidate: Candidate{Slot: "/icon", Value: `C:\temp\x.png`}, New: "x.png"}}

	out, applied, err := dataAdapter{}.Rewrite(content, repls)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, `{
  "name": "demo",
  "icon": "x.png",
  "n": 1.50,
  "nested": {
    "list": [
      "/repo/a.png",
      true,
      null
    ],
    "empty": {},
    "none": []
  }
}`, string(out))
}

func TestDataAdapter_RewriteKeepsTrailingNewlineAndHTML(t *testing.T) {
	content := []byte("[\"<b>/repo/a.png</b>\", \"/repo/b.png\"]\n")
	repls := []Replacement{{Candidate: Candidate{Slot: "/1", Value: "/repo/b.png"}, New: "b.png"}}

	out, _, err := dataAdapter{}.Rewrite(content, repls)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"<b>/repo/a.png</b>\",\n  \"b.png\"\n]\n", string(out))
}

func TestDataAdapter_DuplicateKeysRewrittenByPosition(t *testing.T) {
	content := []byte(`{"a":"C:\\x.png","a":"C:\\y.png"}`)
	candidates, err := dataAdapter{}.Extract(content)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, candidates[0].Slot, candidates[1].Slot)

	repls := []Replacement{
		{Candidate: candidates[0], New: "x.png"},
		{Candidate: candidates[1], New: "y.png"},
	}
	out, applied, err := dataAdapter{}.Rewrite(content, repls)
	require.NoError(t, err)
	assert.Len(t, applied, 2)
	assert.Equal(t, "{\n  \"a\": \"x.png\",\n  \"a\": \"y.png\"\n}", string(out))
}

func TestDataAdapter_NothingAppliedReturnsInput(t *testing.T) {
	content := []byte(`{"a":"b"}`)
	repls := []Replacement{{Candidate: Candidate{Slot: "/a", Value: "stale"}, New: "x"}}

	out, applied, err := dataAdapter{}.Rewrite(content, repls)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, content, out)
}

func TestDataAdapter_Malformed(t *testing.T) {
	for _, in := range []string{
		`{"a": `,
		`{"a": 1,}`,
		`{} {}`,
		``,
		`[1, 2`,
	} {
		_, err := dataAdapter{}.Extract([]byte(in))
		assert.Error(t, err, in)
	}
}
