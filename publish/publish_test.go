package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"disabled", Config{}, true},
		{"minimal", Config{Endpoint: "s3.local:9000", Bucket: "lexii"}, true},
		{"keys", Config{Endpoint: "s3.local:9000", Bucket: "lexii", AccessKey: "a", SecretKey: "b"}, true},
		{"scheme", Config{Endpoint: "https://s3.local", Bucket: "lexii"}, false},
		{"no bucket", Config{Endpoint: "s3.local"}, false},
		{"half keys", Config{Endpoint: "s3.local", Bucket: "lexii", AccessKey: "a"}, false},
	}
	for _, tt := range tests {
		err := tt.cfg.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		prefix, local, want string
	}{
		{"", "/tmp/out/lexii.zip", "lexii.zip"},
		{"rocc/lexii", "/tmp/out/lexii.zip", "rocc/lexii/lexii.zip"},
		{"rocc/", "lexii.zip", "rocc/lexii.zip"},
	}
	for _, tt := range tests {
		if got := (Config{Prefix: tt.prefix}).Key(tt.local); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.prefix, tt.local, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	if got := contentType("a.ZIP"); got != "application/zip" {
		t.Errorf("contentType = %q", got)
	}
	if got := contentType("a.bin"); got != "application/octet-stream" {
		t.Errorf("contentType = %q", got)
	}
}

func TestNew_Disabled(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("expected error without endpoint")
	}
}

// TestUpload_Integration requires a running MinIO instance.
// Set LEXII_MINIO_ENDPOINT (e.g. localhost:9000) to run it.
func TestUpload_Integration(t *testing.T) {
	endpoint := os.Getenv("LEXII_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("LEXII_MINIO_ENDPOINT not set")
	}
	u, err := New(Config{
		Endpoint:  endpoint,
		Bucket:    "lexii-test",
		Prefix:    "it",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if ok, err := u.client.BucketExists(ctx, "lexii-test"); err != nil {
		t.Skipf("MinIO not available: %v", err)
	} else if !ok {
		t.Skip("bucket lexii-test does not exist")
	}

	local := filepath.Join(t.TempDir(), "lexii.zip")
	if err := os.WriteFile(local, []byte("PK"), 0o644); err != nil {
		t.Fatal(err)
	}
	key, err := u.Upload(ctx, local)
	if err != nil {
		t.Fatal(err)
	}
	if key != "it/lexii.zip" {
		t.Errorf("key = %q", key)
	}
}
