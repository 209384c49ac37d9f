package validate

import "testing"

func TestEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"user.name@example.com", true},
		{"a@b", false},
		{"ab.co", false},
		{"", false},
		{"a b@c.d", false},
		{"a@b .co", false},
	}
	for _, tc := range cases {
		if got := Email(tc.in); got != tc.want {
			t.Errorf("Email(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPassword(t *testing.T) {
	if !Password("123456") {
		t.Errorf("expected length-6 password to be accepted")
	}
	if Password("12345") {
		t.Errorf("expected length-5 password to be rejected")
	}
	if Password("") {
		t.Errorf("expected empty password to be rejected")
	}
	// rune length, not byte length
	if !Password("абвгде") {
		t.Errorf("expected 6-rune password to be accepted")
	}
}
