package password

import (
	"errors"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		expected error
	}{
		{
			name:     "valid password",
			password: "Str0ng&Secure!Pass",
			expected: nil,
		},
		{
			name:     "too short",
			password: "Ab1!",
			expected: ErrTooShort,
		},
		{
			name:     "no uppercase",
			password: "weakpass1!x",
			expected: ErrNoUppercase,
		},
		{
			name:     "no lowercase",
			password: "WEAKPASS1!X",
			expected: ErrNoLowercase,
		},
		{
			name:     "no digit",
			password: "Weakpassword!",
			expected: ErrNoDigit,
		},
		{
			name:     "no special character",
			password: "Weakpassword1",
			expected: ErrNoSpecial,
		},
		{
			name:     "low entropy",
			password: "Aaaaaaaaa1!",
			expected: ErrTooWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if !errors.Is(err, tt.expected) {
				t.Errorf("ValidatePassword(%q) error = %v, want %v", tt.password, err, tt.expected)
			}
		})
	}
}
