package media

import "testing"

func TestKindByExtension(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"clip.mp4", KindVideo},
		{"clip.MKV", KindVideo},
		{"song.mp3", KindAudio},
		{"song.flac", KindAudio},
		{"notes.txt", KindUnknown},
		{"noext", KindUnknown},
	}
	for _, tc := range cases {
		if got := KindByExtension(tc.path); got != tc.want {
			t.Fatalf("KindByExtension(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
