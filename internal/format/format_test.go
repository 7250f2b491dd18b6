package format

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

type board struct {
	ToDo []string `json:"toDo"`
	Done []string `json:"done"`
}

func (b board) Text() string { return "To Do (" + strconv.Itoa(len(b.ToDo)) + ")" }

func TestWrite_JSONKeepsMarkup(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"text": "<b> & co"}, "json", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "{\"text\":\"<b> & co\"}\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWrite_EDN(t *testing.T) {
	var buf bytes.Buffer
	v := board{ToDo: []string{"a", "b"}, Done: []string{}}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "{:done [] :toDo [\"a\" \"b\"]}\n" {
		t.Fatalf("unexpected edn: %q", got)
	}

	buf.Reset()
	if err := Write(&buf, map[string]any{"n": 2, "ok": true, "x": nil}, "edn", true); err != nil {
		t.Fatalf("Write pretty: %v", err)
	}
	want := "{\n  :n 2\n  :ok true\n  :x nil\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected pretty edn:\n%s\nwant:\n%s", got, want)
	}
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, board{ToDo: []string{"a"}}, "text", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "To Do (1)\n" {
		t.Fatalf("unexpected text: %q", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, map[string]int{"n": 1}, "text", false); err != nil {
		t.Fatalf("Write fallback: %v", err)
	}
	if strings.TrimSpace(buf.String()) != `{"n":1}` {
		t.Fatalf("expected JSON fallback, got %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "yaml", false); err == nil {
		t.Fatalf("expected error")
	}
}
