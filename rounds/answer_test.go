package rounds

import "testing"

func TestFoldAnswer(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hoa Đào", "hoa dao"},
		{"  Chúc   Mừng  Năm Mới ", "chuc mung nam moi"},
		{"TẾT ÂM LỊCH", "tet am lich"},
		{"banh chung", "banh chung"},
		{"Đắc Lộc Đắc Tài", "dac loc dac tai"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := foldAnswer(tc.in); got != tc.want {
			t.Errorf("foldAnswer(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAnswersMatch(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Hoa đào", "hoa dao", true},
		{"Tết Âm Lịch", "tet am  lich", true},
		{"Hoa mai", "Hoa đào", false},
		{"Vạn Sự Như Ý", "van su nhu y", true},
	}
	for _, tc := range cases {
		if got := answersMatch(tc.a, tc.b); got != tc.want {
			t.Errorf("answersMatch(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
