package errors

import (
	"testing"
)

func TestValidateScreen(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"valid", 800, 600, false},
		{"single pixel", 1, 1, false},
		{"zero width", 0, 600, true},
		{"zero height", 800, 0, true},
		{"negative", -1, 10, true},
		{"too large", 100000, 100000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScreen(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScreen(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidScreen) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidScreen)
			}
		})
	}
}

func TestValidateBlocks(t *testing.T) {
	for _, n := range []int{1, 50, 100} {
		if err := ValidateBlocks(n); err != nil {
			t.Errorf("ValidateBlocks(%d) = %v", n, err)
		}
	}
	for _, n := range []int{-1, 0, 101} {
		if err := ValidateBlocks(n); !Is(err, ErrCodeInvalidBlocks) {
			t.Errorf("ValidateBlocks(%d) = %v, want INVALID_BLOCKS", n, err)
		}
	}
}

func TestValidateWorkers(t *testing.T) {
	if err := ValidateWorkers(0); err != nil {
		t.Errorf("0 workers means auto: %v", err)
	}
	if err := ValidateWorkers(-3); err == nil {
		t.Error("negative workers should fail")
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		relative bool
		wantErr  bool
	}{
		{"valid file", "frame.fpz", true, false},
		{"valid nested", "out/frames/a.fpz", true, false},
		{"absolute allowed", "/tmp/a.fpz", false, false},
		{"absolute rejected", "/tmp/a.fpz", true, true},
		{"empty", "", false, true},
		{"traversal", "../etc/passwd", true, true},
		{"null byte", "a\x00b", false, true},
		{"too long", string(make([]byte, 600)), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input, tt.relative)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q, %v) error = %v, wantErr %v", tt.input, tt.relative, err, tt.wantErr)
			}
		})
	}
}
