package api

import "testing"

func TestIsValidAssetObjectKey(t *testing.T) {
	cases := []struct {
		name string
		key  string
		want bool
	}{
		{"valid png", "assets/6f1b0c9a.png", true},
		{"valid jpeg", "assets/photo.jpeg", true},
		{"valid webp", "assets/photo.webp", true},
		{"empty", "", false},
		{"missing prefix", "photo.png", false},
		{"wrong prefix", "exports/photo.png", false},
		{"path traversal", "assets/../secrets.png", false},
		{"backslash", "assets/a\\b.png", false},
		{"double slash", "assets//a.png", false},
		{"pdf extension", "assets/a.pdf", false},
		{"no extension", "assets/a", false},
		{"invalid utf8", "assets/\xff\xfe.png", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isValidAssetObjectKey(tc.key); got != tc.want {
				t.Fatalf("isValidAssetObjectKey(%q) = %v, want %v", tc.key, got, tc.want)
			}
		})
	}

	long := assetKeyPrefix
	for len(long) < 220 {
		long += "aaaaaaaaaa"
	}
	if isValidAssetObjectKey(long + ".png") {
		t.Fatal("over-long key accepted")
	}
}
