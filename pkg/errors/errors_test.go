package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeFileNotFound, "file not found: %s", "diagram.vsdx")
	want := "FILE_NOT_FOUND: file not found: diagram.vsdx"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorStringWithCause(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := Wrap(ErrCodeStorage, cause, "download %s", "parsed_data.json")
	want := "STORAGE_ERROR: download parsed_data.json: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeBroker, cause, "publish completion")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeUnsupportedFormat, "bad extension"), ErrCodeUnsupportedFormat, true},
		{"different code", New(ErrCodeUnsupportedFormat, "bad extension"), ErrCodeFileNotFound, false},
		{"plain error", stderrors.New("plain"), ErrCodeInternal, false},
		{"wrapped in fmt", fmt.Errorf("outer: %w", New(ErrCodeRenderFailed, "pdf")), ErrCodeRenderFailed, true},
	}

	for _, tt := range tests {
		if got := Is(tt.err, tt.code); got != tt.want {
			t.Errorf("%s: Is() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidMessage, "missing document_id")); got != ErrCodeInvalidMessage {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeInvalidMessage)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeNotImplementedFormat, "no decoder for .vsd files")
	if got := UserMessage(err); got != "no decoder for .vsd files" {
		t.Errorf("UserMessage() = %q", got)
	}
	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestIsDocumentFatal(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeFileNotFound, true},
		{ErrCodeUnsupportedFormat, true},
		{ErrCodeNotImplementedFormat, true},
		{ErrCodeInvalidMessage, true},
		{ErrCodeStorage, false},
		{ErrCodeBroker, false},
		{ErrCodeRenderFailed, false},
	}

	for _, tt := range tests {
		if got := IsDocumentFatal(New(tt.code, "x")); got != tt.want {
			t.Errorf("IsDocumentFatal(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
