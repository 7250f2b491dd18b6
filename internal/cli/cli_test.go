package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points config and data at temp dirs and returns the global flags for a file-backed board.
func isolate(t *testing.T) []string {
	t.Helper()
	t.Setenv("TASKBOARD_CONFIG_DIR", t.TempDir())
	t.Setenv("TASKBOARD_BACKEND", "")
	t.Setenv("TASKBOARD_DIR", "")
	t.Setenv("TASKBOARD_KEY", "")
	t.Setenv("TASKBOARD_FORMAT", "")
	return []string{"--backend", "file", "--data-dir", t.TempDir()}
}

func mustRun(t *testing.T, base []string, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, append(append([]string{}, base...), args...))
	if err != nil {
		t.Fatalf("taskboard %v failed: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected data key in envelope, got %v", env)
	}
	return env
}

func listIDs(v any) []string {
	xs, _ := v.([]any)
	out := []string{}
	for _, x := range xs {
		m, _ := x.(map[string]any)
		id, _ := m["id"].(string)
		out = append(out, id)
	}
	return out
}

func boardIDs(t *testing.T, env map[string]any) (pending, completed []string) {
	t.Helper()
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected board object, got %#v", env["data"])
	}
	if b, ok := data["board"].(map[string]any); ok {
		data = b
	}
	return listIDs(data["pending"]), listIDs(data["completed"])
}

func TestList_FreshBoardShowsSeed(t *testing.T) {
	base := isolate(t)

	env := mustRun(t, base, "list")
	pending, completed := boardIDs(t, env)
	if strings.Join(pending, ",") != "1,2" || strings.Join(completed, ",") != "3" {
		t.Fatalf("unexpected seed board: pending=%v completed=%v", pending, completed)
	}
	meta := env["meta"].(map[string]any)
	load := meta["load"].(map[string]any)
	if load["source"] != "seed" || load["reason"] != "absent" || meta["backend"] != "file" {
		t.Fatalf("unexpected meta: %#v", meta)
	}
}

func TestAdd_PersistsAcrossInvocations(t *testing.T) {
	base := isolate(t)

	env := mustRun(t, base, "add", "  Water", "the", "plants  ")
	task := env["data"].(map[string]any)
	if task["text"] != "Water the plants" || task["list"] != "pending" || task["index"] != float64(2) {
		t.Fatalf("unexpected task: %#v", task)
	}
	id, _ := task["id"].(string)
	if id == "" {
		t.Fatalf("expected generated id")
	}

	pending, _ := boardIDs(t, mustRun(t, base, "list"))
	if len(pending) != 3 || pending[2] != id {
		t.Fatalf("expected new task at end of To Do, got %v", pending)
	}
}

func TestAdd_RejectsInvalidText(t *testing.T) {
	base := isolate(t)

	_, stderr, err := runCLI(t, append(base, "add", "hi"))
	if err == nil {
		t.Fatalf("expected error for short text")
	}
	if !strings.Contains(string(stderr), "invalid task text") {
		t.Fatalf("expected validation message on stderr, got %q", stderr)
	}
	if _, _, err := runCLI(t, append(base, "add", strings.Repeat("x", 101))); err == nil {
		t.Fatalf("expected error for long text")
	}
}

func TestEdit(t *testing.T) {
	base := isolate(t)

	_, stderr, err := runCLI(t, append(base, "edit", "404", "Something else"))
	if err == nil || !strings.Contains(string(stderr), "task not found: 404") {
		t.Fatalf("expected not found, err=%v stderr=%q", err, stderr)
	}

	env := mustRun(t, base, "edit", "3", "Feed", "the", "dog")
	if env["data"].(map[string]any)["text"] != "Feed the dog" {
		t.Fatalf("unexpected edit result: %#v", env["data"])
	}
	if env["meta"].(map[string]any)["changed"] != true {
		t.Fatalf("expected changed=true")
	}
}

func TestMove(t *testing.T) {
	base := isolate(t)

	mustRun(t, base, "move", "1", "--to", "done")
	pending, completed := boardIDs(t, mustRun(t, base, "list"))
	if strings.Join(pending, ",") != "2" || strings.Join(completed, ",") != "3,1" {
		t.Fatalf("unexpected board: pending=%v completed=%v", pending, completed)
	}

	mustRun(t, base, "move", "1", "--to", "completed", "--index", "0")
	_, completed = boardIDs(t, mustRun(t, base, "list"))
	if strings.Join(completed, ",") != "1,3" {
		t.Fatalf("expected reorder within Done, got %v", completed)
	}

	if _, _, err := runCLI(t, append(base, "move", "1", "--to", "later")); err == nil {
		t.Fatalf("expected unknown list error")
	}
	if _, stderr, err := runCLI(t, append(base, "move", "404", "--to", "done")); err == nil || !strings.Contains(string(stderr), "not found") {
		t.Fatalf("expected not found, err=%v stderr=%q", err, stderr)
	}
}

func TestDrop(t *testing.T) {
	base := isolate(t)

	env := mustRun(t, base, "drop", "1", "--over", "completed-container")
	data := env["data"].(map[string]any)
	if data["applied"] != true {
		t.Fatalf("expected drop to apply: %#v", data)
	}
	mv := data["move"].(map[string]any)
	if mv["from"] != "pending" || mv["to"] != "completed" {
		t.Fatalf("unexpected move: %#v", mv)
	}
	pending, completed := boardIDs(t, env)
	if strings.Join(pending, ",") != "2" || strings.Join(completed, ",") != "3,1" {
		t.Fatalf("unexpected board: pending=%v completed=%v", pending, completed)
	}

	// Dropping a task on itself or outside any target changes nothing.
	for _, args := range [][]string{{"drop", "2", "--over", "2"}, {"drop", "2"}} {
		env := mustRun(t, base, args...)
		if env["data"].(map[string]any)["applied"] != false {
			t.Fatalf("%v: expected no-op", args)
		}
	}

	// Drop onto a task in the other list lands at that task's position.
	mustRun(t, base, "drop", "2", "--over", "3")
	_, completed = boardIDs(t, mustRun(t, base, "list"))
	if strings.Join(completed, ",") != "2,3,1" {
		t.Fatalf("expected insert at target index, got %v", completed)
	}
}

func TestNotesAndRm(t *testing.T) {
	base := isolate(t)

	env := mustRun(t, base, "notes", "2", "milk,", "eggs")
	if env["data"].(map[string]any)["notes"] != "milk, eggs" {
		t.Fatalf("unexpected notes: %#v", env["data"])
	}
	env = mustRun(t, base, "notes", "2")
	if env["data"].(map[string]any)["notes"] != "milk, eggs" {
		t.Fatalf("notes not persisted: %#v", env["data"])
	}
	env = mustRun(t, base, "notes", "2", "--clear")
	if _, ok := env["data"].(map[string]any)["notes"]; ok {
		t.Fatalf("expected notes cleared: %#v", env["data"])
	}

	mustRun(t, base, "rm", "2")
	pending, _ := boardIDs(t, mustRun(t, base, "list"))
	if strings.Join(pending, ",") != "1" {
		t.Fatalf("unexpected pending after rm: %v", pending)
	}
	if _, _, err := runCLI(t, append(base, "rm", "2")); err == nil {
		t.Fatalf("expected second rm to fail")
	}
}

func TestReset(t *testing.T) {
	base := isolate(t)

	mustRun(t, base, "rm", "1")
	mustRun(t, base, "rm", "3")
	pending, completed := boardIDs(t, mustRun(t, base, "reset"))
	if strings.Join(pending, ",") != "1,2" || strings.Join(completed, ",") != "3" {
		t.Fatalf("unexpected board after reset: %v %v", pending, completed)
	}
}

func TestList_TextAndEDN(t *testing.T) {
	base := isolate(t)

	stdout, _, err := runCLI(t, append(base, "--format", "text", "list"))
	if err != nil {
		t.Fatalf("list text: %v", err)
	}
	want := "To Do (2)\n  1  Build todo app\n  2  Buy groceries\nDone (1)\n  3  Feed the cats\n"
	if string(stdout) != want {
		t.Fatalf("unexpected text output:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, append(base, "--format", "edn", "list", "--list", "done"))
	if err != nil {
		t.Fatalf("list edn: %v", err)
	}
	if !strings.HasPrefix(string(stdout), `{:data [{:id "3" :text "Feed the cats"}]`) {
		t.Fatalf("unexpected edn output: %s", stdout)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	base := isolate(t)

	mustRun(t, nil, "config", "set", "backend", "memory")
	mustRun(t, nil, "config", "set", "legacyDisplacement", "true")
	if _, _, err := runCLI(t, []string{"config", "set", "backend", "etcd"}); err == nil {
		t.Fatalf("expected invalid backend error")
	}

	env := mustRun(t, nil, "config", "show")
	settings := env["data"].(map[string]any)["settings"].(map[string]any)
	if settings["backend"] != "memory" || settings["legacyDisplacement"] != true {
		t.Fatalf("unexpected settings: %#v", settings)
	}

	// Flags override the config file.
	env = mustRun(t, base, "config", "show")
	settings = env["data"].(map[string]any)["settings"].(map[string]any)
	if settings["backend"] != "file" {
		t.Fatalf("expected --backend to win, got %#v", settings)
	}

	// legacyDisplacement from config reaches the drop resolver.
	env = mustRun(t, base, "drop", "2", "--over", "1", "--dx", "80")
	pending, completed := boardIDs(t, env)
	if strings.Join(pending, ",") != "1" || strings.Join(completed, ",") != "3,2" {
		t.Fatalf("expected legacy displacement to move 2 to Done: %v %v", pending, completed)
	}
}

func TestLogLevel_Invalid(t *testing.T) {
	base := isolate(t)
	if _, _, err := runCLI(t, append(base, "--log-level", "loud", "list")); err == nil {
		t.Fatalf("expected invalid log level error")
	}
}
