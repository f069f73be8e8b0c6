package count

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"1.2K", 1200},
		{"2.5k", 2500},
		{"3M", 3000000},
		{"1.5m", 1500000},
		{"1,234", 1234},
		{"12,345,678", 12345678},
		{"42", 42},
		{"0", 0},
		{" 987 ", 987},
		{"10.7K", 10700},
		{"1.25K", 1250},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"K", 0},
		{"M", 0},
		{"1.2.3K", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
