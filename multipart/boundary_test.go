package multipart

import "testing"

func TestIsMultipart(t *testing.T) {
	cases := []struct {
		ct   string
		want bool
	}{
		{"multipart/form-data; boundary=abc", true},
		{"MULTIPART/FORM-DATA; boundary=abc", true},
		{"multipart/mixed", true},
		{"application/json", false},
		{"", false},
		{"text/multipart", false},
	}
	for _, c := range cases {
		if got := IsMultipart(c.ct); got != c.want {
			t.Errorf("IsMultipart(%q) = %v, want %v", c.ct, got, c.want)
		}
	}
}

func TestGetBoundary(t *testing.T) {
	cases := []struct {
		ct       string
		want     string
		wantOK   bool
	}{
		{`multipart/form-data; boundary=abc123`, "abc123", true},
		{`multipart/form-data; boundary="abc 123"`, "abc 123", true},
		{`multipart/form-data; boundary="a\"b"`, `a"b`, true},
		{`multipart/form-data`, "", false},
		{`application/json; boundary=abc`, "", false},
		{`multipart/form-data; charset=utf-8; boundary=xyz`, "xyz", true},
		{`multipart/form-data;boundary=xyz;charset=utf-8`, "xyz", true},
	}
	for _, c := range cases {
		got, ok := GetBoundary(c.ct)
		if got != c.want || ok != c.wantOK {
			t.Errorf("GetBoundary(%q) = (%q, %v), want (%q, %v)", c.ct, got, ok, c.want, c.wantOK)
		}
	}
}
