package errors

import (
	"strings"
	"testing"
)

func TestValidateTaskID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple ID", "task-1", false},
		{"uuid style", "a1b2c3d4-e5f6", false},
		{"dotted", "auth.login", false},
		{"underscore", "task_42", false},
		{"empty", "", true},
		{"leading hyphen", "-task", true},
		{"path traversal", "../etc/passwd", true},
		{"slash", "a/b", true},
		{"control character", "task\x01", true},
		{"null byte", "task\x00", true},
		{"too long", strings.Repeat("a", 257), true},
		{"space", "task 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaskID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTaskID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidTask {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidTask)
			}
		})
	}
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		project string
		wantErr bool
	}{
		{"simple", "roadmap", false},
		{"with spaces", "Q3 roadmap", false},
		{"empty", "", true},
		{"forward slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"control character", "bad\x07name", true},
		{"too long", strings.Repeat("x", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.project)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectName(%q) error = %v, wantErr %v", tt.project, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative path", "projects/roadmap.json", false},
		{"absolute path", "/tmp/out.svg", false},
		{"empty", "", true},
		{"traversal", "../secrets", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("a/", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"svg", "png", "pdf", "dot"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", f, err)
		}
	}

	for _, f := range []string{"", "jpeg", "SVG", "html"} {
		if err := ValidateFormat(f); err == nil {
			t.Errorf("ValidateFormat(%q) = nil, want error", f)
		}
	}
}
