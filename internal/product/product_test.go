package product

import "testing"

func TestOf(t *testing.T) {
	cases := []struct{ in, want string }{
		{"ag2406", "ag"},
		{"ag2406.SHFE", "ag"},
		{"IF2406", "IF"},
		{"IF2406.CFFEX", "IF"},
		{"600519", "600519"},
		{"600519.SH", "600519"},
		{" au ", "au"},
	}
	for _, c := range cases {
		got, err := Of(c.in)
		if err != nil {
			t.Fatalf("Of(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Of(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestOfInvalid(t *testing.T) {
	for _, in := range []string{"", "  ", ".SH"} {
		if _, err := Of(in); err == nil {
			t.Fatalf("Of(%q) must fail", in)
		}
	}
}
