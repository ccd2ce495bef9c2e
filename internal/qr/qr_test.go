package qr

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestDataURL(t *testing.T) {
	url, err := DataURL("https://scaninstead.test/v/abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("expected PNG data URL, got %q", url[:30])
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if len(raw) < 8 || string(raw[1:4]) != "PNG" {
		t.Fatal("expected PNG magic bytes in payload")
	}
}

func TestDataURLEmptyContent(t *testing.T) {
	if _, err := DataURL(""); err == nil {
		t.Fatal("expected error for empty content")
	}
}
