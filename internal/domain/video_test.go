package domain

import "testing"

func TestIsVideoFile(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"talk.mp4":             true,
		"TALK.MP4":             true,
		"clip.webm":            true,
		"deep/nested/a.mkv":    true,
		"archive.zip":          false,
		"notes.txt":            false,
		"mp4":                  false,
		"trailing.mp4.partial": false,
		"":                     false,
	}
	for name, want := range cases {
		if got := IsVideoFile(name); got != want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestHandleConstructors(t *testing.T) {
	t.Parallel()

	private := PrivateHandle("disk:/videos/a.mp4")
	if private.Kind != HandlePrivate || private.Path != "disk:/videos/a.mp4" {
		t.Errorf("unexpected private handle: %+v", private)
	}
	if private.PublicKey != "" || private.InnerPath != "" {
		t.Errorf("private handle must not carry public fields: %+v", private)
	}

	public := PublicHandle("key123", "/inner/b.mp4")
	if public.Kind != HandlePublic || public.PublicKey != "key123" || public.InnerPath != "/inner/b.mp4" {
		t.Errorf("unexpected public handle: %+v", public)
	}
	if public.Path != "" {
		t.Errorf("public handle must not carry a private path: %+v", public)
	}
}
