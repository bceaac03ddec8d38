package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12", 1200, true},
		{"0.01", 1, true},
		{"12.344", 1234, true},
		{"12.345", 1235, true},
		{"12.346", 1235, true},
		{"", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"0", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got %d, %v; want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestFormatCents(t *testing.T) {
	if got := FormatCents(123456); got != "R$ 1.234,56" {
		t.Fatalf("got %q", got)
	}
	if got := FormatCents(-50); got != "-R$ 0,50" {
		t.Fatalf("got %q", got)
	}
	if got := FormatCents(100000000); got != "R$ 1.000.000,00" {
		t.Fatalf("got %q", got)
	}
}
