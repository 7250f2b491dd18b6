package model

import "testing"

func TestSeedState_Shape(t *testing.T) {
	s := SeedState()
	if got, want := len(s.Pending), 2; got != want {
		t.Fatalf("expected %d pending, got %d", want, got)
	}
	if got, want := len(s.Completed), 1; got != want {
		t.Fatalf("expected %d completed, got %d", want, got)
	}
	if s.Pending[0].Text != "Build todo app" || s.Completed[0].ID != "3" {
		t.Fatalf("unexpected seed: %+v", s)
	}
}

func TestAppState_LocateAndFind(t *testing.T) {
	s := SeedState()

	l, i, ok := s.Locate("2")
	if !ok || l != ListPending || i != 1 {
		t.Fatalf("Locate(2) = %v,%d,%v", l, i, ok)
	}
	task, l, ok := s.Find("3")
	if !ok || l != ListCompleted || task.Text != "Feed the cats" {
		t.Fatalf("Find(3) = %+v,%v,%v", task, l, ok)
	}
	if _, _, ok := s.Locate("nope"); ok {
		t.Fatalf("expected missing id to not be located")
	}
}

func TestAppState_CloneDoesNotAlias(t *testing.T) {
	s := SeedState()
	c := s.Clone()
	c.Pending[0].Text = "changed"
	if s.Pending[0].Text != "Build todo app" {
		t.Fatalf("clone aliased the source list")
	}
}

func TestParseListID_Aliases(t *testing.T) {
	cases := map[string]ListID{
		"pending":   ListPending,
		"TODO":      ListPending,
		" done ":    ListCompleted,
		"completed": ListCompleted,
	}
	for in, want := range cases {
		got, ok := ParseListID(in)
		if !ok || got != want {
			t.Fatalf("ParseListID(%q) = %q,%v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseListID("archive"); ok {
		t.Fatalf("expected unknown list to be rejected")
	}
}

func TestContainerList_RoundTrip(t *testing.T) {
	for _, l := range []ListID{ListPending, ListCompleted} {
		got, ok := ContainerList(l.ContainerID())
		if !ok || got != l {
			t.Fatalf("ContainerList(%q) = %q,%v", l.ContainerID(), got, ok)
		}
	}
	if _, ok := ContainerList("1"); ok {
		t.Fatalf("task id must not be treated as a container")
	}
}
