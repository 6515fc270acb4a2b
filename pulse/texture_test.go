package pulse

import "testing"

func TestCheckPixelCount(t *testing.T) {
	cases := []struct {
		width, height, bpp uint32
		count              int
		valid              bool
	}{
		{1, 1, 4, 4, true},
		{640, 360, 4, 640 * 360 * 4, true},
		{640, 360, 4, 640*360*4 - 1, false},
		{2, 2, 4, 4, false},
		{1, 1, 4, 0, false},
	}

	for _, tc := range cases {
		err := checkPixelCount(tc.width, tc.height, tc.bpp, tc.count)
		if (err == nil) != tc.valid {
			t.Errorf("%dx%d with %d bytes: unexpected result %v", tc.width, tc.height, tc.count, err)
		}
	}
}
