package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{url: "https://example.com/cat.PNG", wantExt: ".png"},
		{url: "https://example.com/cat.jpg?size=large", wantExt: ".jpg"},
		{url: "https://example.com/image", wantExt: ".img"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := Filename(tt.url)
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("Filename() = %s, want suffix %s", got, tt.wantExt)
			}
			if got != Filename(tt.url) {
				t.Error("Filename() is not deterministic")
			}
		})
	}

	if Filename("https://a/x.png") == Filename("https://b/x.png") {
		t.Error("different URLs should not share a filename")
	}
}

func TestGet(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("png-data"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	url := srv.URL + "/pic.png"

	path, err := Get(context.Background(), url, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png-data" {
		t.Fatalf("cached file = %q, %v", data, err)
	}

	if _, err := Get(context.Background(), url, Options{Dir: dir}); err != nil {
		t.Fatalf("Get() second call error = %v", err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}

	if _, err := Get(context.Background(), url, Options{Dir: dir, Refresh: true}); err != nil {
		t.Fatalf("Get() refresh error = %v", err)
	}
	if hits != 2 {
		t.Errorf("server hit %d times after refresh, want 2", hits)
	}

	if _, err := Get(context.Background(), "/local/file.png", Options{Dir: dir}); err == nil {
		t.Error("Get() with a local path should fail")
	}
}
