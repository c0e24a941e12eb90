package utils

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		value int
		want  string
	}{
		{0, "0đ"},
		{500, "500đ"},
		{20000, "20K"},
		{999000, "999K"},
		{1000000, "1M"},
		{1500000, "1.5M"},
		{2000000, "2M"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.value); got != tc.want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	valid := []string{"0901234567", "090 123 4567", "0351234567"}
	for _, p := range valid {
		if !IsValidPhone(p) {
			t.Errorf("IsValidPhone(%q) = false, want true", p)
		}
	}
	invalid := []string{"", "012345678", "0123456789", "09012345678", "abc"}
	for _, p := range invalid {
		if IsValidPhone(p) {
			t.Errorf("IsValidPhone(%q) = true, want false", p)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	if got := FormatPhone("0901234567"); got != "090 123 4567" {
		t.Errorf("FormatPhone = %q", got)
	}
	if got := FormatPhone("123"); got != "123" {
		t.Errorf("FormatPhone short = %q", got)
	}
}

func TestMoMoLink(t *testing.T) {
	got := MoMoLink("090 123 4567", 50000)
	want := "https://nhantien.momo.vn/0901234567/50000"
	if got != want {
		t.Errorf("MoMoLink = %q, want %q", got, want)
	}
}
