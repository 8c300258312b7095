package main

import (
	"image"
	"testing"
)

func TestTextPromptEditing(t *testing.T) {
	var got string
	cancelled := false
	p := newPrompt("Name:", "Br", func(s string) { got = s }, func() { cancelled = true })

	p.insert([]rune("it\tain\x7f"))
	if p.value() != "Britain" {
		t.Fatalf("value = %q, want %q", p.value(), "Britain")
	}
	p.backspace()
	p.backspace()
	p.insert([]rune("äí"))
	if p.value() != "Britaäí" {
		t.Fatalf("value = %q", p.value())
	}
	p.submit()
	if got != "Britaäí" {
		t.Errorf("submitted %q", got)
	}
	p.cancel()
	if !cancelled {
		t.Error("cancel callback not called")
	}

	empty := newPrompt("x", "", nil, nil)
	empty.backspace()
	empty.submit()
	empty.cancel()
	if empty.value() != "" {
		t.Errorf("empty prompt value = %q", empty.value())
	}
}

func TestPopupMenuItemAt(t *testing.T) {
	m := &popupMenu{at: image.Pt(100, 50), items: []string{"Rename", "Delete", "Edit Tags"}}
	r := m.rect()
	if r.Dy() != 3*menuItemH {
		t.Fatalf("menu height = %d", r.Dy())
	}
	if r.Dx() != len("Edit Tags")*charW+24 {
		t.Fatalf("menu width = %d", r.Dx())
	}

	tests := []struct {
		p    image.Point
		want int
	}{
		{image.Pt(105, 55), 0},
		{image.Pt(105, 50+menuItemH), 1},
		{image.Pt(105, 50+3*menuItemH-1), 2},
		{image.Pt(105, 50+3*menuItemH), -1},
		{image.Pt(99, 55), -1},
	}
	for _, tt := range tests {
		if got := m.itemAt(tt.p); got != tt.want {
			t.Errorf("itemAt(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestSidebarRow(t *testing.T) {
	tests := []struct {
		y, scroll, want int
	}{
		{0, 0, -1},
		{sidebarRows0 - 1, 3, -1},
		{sidebarRows0, 0, 0},
		{sidebarRows0 + rowH - 1, 0, 0},
		{sidebarRows0 + rowH, 0, 1},
		{sidebarRows0 + 2*rowH, 5, 7},
	}
	for _, tt := range tests {
		if got := sidebarRow(tt.y, tt.scroll); got != tt.want {
			t.Errorf("sidebarRow(%d, %d) = %d, want %d", tt.y, tt.scroll, got, tt.want)
		}
	}
}

func TestFitText(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"Britain", 10, "Britain"},
		{"Britain", 7, "Britain"},
		{"Great Britain", 9, "Great..."},
		{"Britain", 3, "Bri"},
		{"Britain", 0, ""},
		{"Ünïcödé text", 6, "Ünï..."},
	}
	for _, tt := range tests {
		if got := fitText(tt.s, tt.n); got != tt.want {
			t.Errorf("fitText(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestParseTagEdit(t *testing.T) {
	tests := []struct {
		in         string
		key, value string
		ok         bool
	}{
		{"guarded=1", "GUARDED", "1", true},
		{" SpawnRate = 5 ", "SPAWNRATE", "5", true},
		{"MUSIC=", "MUSIC", "", true},
		{"MUSIC", "", "", false},
		{"=3", "", "", false},
		{"NOTE=a=b", "NOTE", "a=b", true},
	}
	for _, tt := range tests {
		key, value, ok := parseTagEdit(tt.in)
		if key != tt.key || value != tt.value || ok != tt.ok {
			t.Errorf("parseTagEdit(%q) = %q, %q, %v", tt.in, key, value, ok)
		}
	}
}
