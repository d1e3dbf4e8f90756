package storage

import (
	"context"
	"testing"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	path, err := s.Upload(ctx, BucketParsed, "doc-1/parsed_data.json", []byte(`{}`), "application/json")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if path != "netdocgen-parsed/doc-1/parsed_data.json" {
		t.Errorf("path = %q", path)
	}

	data, err := s.Download(ctx, BucketParsed, "doc-1/parsed_data.json")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(data) != `{}` {
		t.Errorf("data = %q", data)
	}
	if ct := s.ContentType(BucketParsed, "doc-1/parsed_data.json"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	if err := s.Delete(ctx, BucketParsed, "doc-1/parsed_data.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Download(ctx, BucketParsed, "doc-1/parsed_data.json"); !errors.Is(err, errors.ErrCodeStorage) {
		t.Fatalf("expected STORAGE_ERROR after delete, got %v", err)
	}
}

func TestMemoryStoreMissingObject(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Download(context.Background(), BucketUploads, "missing.vsdx")
	if !errors.Is(err, errors.ErrCodeStorage) {
		t.Fatalf("expected STORAGE_ERROR, got %v", err)
	}
}

func TestBucketNames(t *testing.T) {
	want := map[Bucket]string{
		BucketUploads:   "netdocgen-uploads",
		BucketParsed:    "netdocgen-parsed",
		BucketGenerated: "netdocgen-generated",
	}
	for bucket, name := range want {
		if string(bucket) != name {
			t.Errorf("bucket = %q, want %q", bucket, name)
		}
	}
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"netdocgen-uploads/net.vsdx", "net.vsdx"},
		{"net.vsdx", "net.vsdx"},
		{"netdocgen-uploads/doc-1/net.vsdx", "doc-1/net.vsdx"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ObjectName(tt.path); got != tt.want {
			t.Errorf("ObjectName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
