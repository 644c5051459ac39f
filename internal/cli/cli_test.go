package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t    *testing.T
	base []string
}

func newHarness(t *testing.T) *harness {
	for _, k := range []string{"MEMORY_GATE_BACKEND", "MEMORY_GATE_DB", "MEMORY_GATE_DIR", "MEMORY_GATE_LOG_LEVEL", "MEMORY_GATE_CONFIG"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return &harness{t: t, base: []string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--backend", "sqlite",
		"--db", filepath.Join(dir, "memory.db"),
		"--owner", "u1",
	}}
}

func (h *harness) run(args ...string) []byte {
	h.t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(append(args, h.base...))
	require.NoError(h.t, RootCmd.Execute())
	return out.Bytes()
}

func TestCLIMemoryLifecycle(t *testing.T) {
	h := newHarness(t)

	var p struct {
		ID       string `json:"proposal_id"`
		Decision string `json:"decision"`
	}
	require.NoError(t, json.Unmarshal(h.run("propose", "--kind", "preference", "I like building prototypes"), &p))
	assert.Equal(t, "pending", p.Decision)

	assert.JSONEq(t, "[]", string(h.run("list")))

	var item struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(h.run("approve", p.ID, "I like building prototypes"), &item))
	assert.Equal(t, "I like building prototypes", item.Text)

	var sel struct {
		Resolved    []string `json:"resolved_texts"`
		Attribution string   `json:"attribution_line"`
	}
	require.NoError(t, json.Unmarshal(h.run("select", item.ID), &sel))
	assert.Equal(t, []string{"I like building prototypes"}, sel.Resolved)
	assert.NotEmpty(t, sel.Attribution)

	h.run("rm", item.ID)
	h.run("rm", item.ID)
	assert.JSONEq(t, "[]", string(h.run("list")))

	var st struct {
		Deleted  int `json:"deleted_items"`
		Approved int `json:"approved_proposals"`
	}
	require.NoError(t, json.Unmarshal(h.run("stats"), &st))
	assert.Equal(t, 1, st.Deleted)
	assert.Equal(t, 1, st.Approved)
}

func TestCLIEvaluateSilentWithoutTrigger(t *testing.T) {
	h := newHarness(t)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(h.run("evaluate",
		"--text", "thanks for the summary",
		"--mode", "bounded",
		"--consent", "yes",
		"--disallow", "recommendation",
		"--phase3-complete",
		"--stage", "post_summary",
	), &resp))
	assert.Equal(t, "no_intelligence", resp["status"])
	assert.Nil(t, resp["content"])
	assert.NotContains(t, resp["message"], "bounded")
}

func TestCLISchema(t *testing.T) {
	h := newHarness(t)

	var schemas map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(h.run("schema"), &schemas))
	assert.Contains(t, schemas, "memory.json")
	assert.Contains(t, schemas, "proposals.json")
}

func TestCLIFileBackendDir(t *testing.T) {
	h := newHarness(t)
	data := filepath.Join(t.TempDir(), "data")
	h.base = append(h.base, "--backend", "file", "--dir", data)
	t.Cleanup(func() { dirPath = "" })

	var p struct {
		ID string `json:"proposal_id"`
	}
	require.NoError(t, json.Unmarshal(h.run("propose", "--kind", "goal", "I want to ship weekly"), &p))
	h.run("approve", p.ID, "I want to ship weekly")

	assert.FileExists(t, filepath.Join(data, "owners", "u1", "proposals.json"))
	assert.FileExists(t, filepath.Join(data, "owners", "u1", "memory.json"))

	var items []struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(h.run("list"), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "I want to ship weekly", items[0].Text)
}
