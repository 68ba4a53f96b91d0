package storage

import (
	"errors"
	"strings"
	"testing"
)

func TestKindValidate(t *testing.T) {
	cases := []struct {
		kind Kind
		name string
		ok   bool
	}{
		{Audio, "track.mp3", true},
		{Audio, "TRACK.WAV", true},
		{Audio, "part1.m4a", true},
		{Audio, "part1.ogg", true},
		{Audio, "track.exe", false},
		{Audio, "track", false},
		{Image, "chart.PNG", true},
		{Image, "chart.jpeg", true},
		{Image, "chart.webp", true},
		{Image, "chart.mp3", false},
	}
	for _, c := range cases {
		err := c.kind.Validate(c.name)
		if c.ok && err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
		}
		if !c.ok && !errors.Is(err, ErrExtensionNotAllowed) {
			t.Errorf("%s: expected ErrExtensionNotAllowed, got %v", c.name, err)
		}
	}
}

func TestSave_RejectsWithoutSideEffects(t *testing.T) {
	base := t.TempDir()
	bs, err := NewFSStore(base, "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Save(bs, Audio, Upload{FileName: "track.exe", Body: strings.NewReader("MZ")})
	if !errors.Is(err, ErrExtensionNotAllowed) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if _, err := bs.Get("listening"); err == nil {
		t.Fatal("nothing should have been written")
	}
}

func TestSave_GeneratesUniqueNames(t *testing.T) {
	bs, err := NewFSStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	k1, err := Save(bs, Audio, Upload{FileName: "track.mp3", Body: strings.NewReader("a")})
	if err != nil {
		t.Fatal(err)
	}
	k2, err := Save(bs, Audio, Upload{FileName: "track.mp3", Body: strings.NewReader("b")})
	if err != nil {
		t.Fatal(err)
	}
	if k1 == k2 {
		t.Fatalf("keys collide: %s", k1)
	}
	for _, k := range []string{k1, k2} {
		if !strings.HasPrefix(k, "listening/") || !strings.HasSuffix(k, "_track.mp3") {
			t.Errorf("unexpected key shape %q", k)
		}
		if k == "listening/track.mp3" {
			t.Errorf("stored under the original name")
		}
	}
}

func TestSanitizeName(t *testing.T) {
	if got := sanitizeName(`C:\fakepath\my song.mp3`); got != "my_song.mp3" {
		t.Fatalf("got %q", got)
	}
	if got := sanitizeName("../../x.png"); got != "x.png" {
		t.Fatalf("got %q", got)
	}
}
