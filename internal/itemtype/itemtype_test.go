package itemtype

import (
	"strings"
	"testing"
)

func TestLengthBand_Boundaries(t *testing.T) {
	cases := []struct {
		length int
		want   Band
	}{
		{0, BandShort},
		{150, BandShort},
		{151, BandMedium},
		{199, BandMedium},
		{200, BandLong},
		{500, BandLong},
	}
	for _, c := range cases {
		got := LengthBand(strings.Repeat("a", c.length))
		if got != c.want {
			t.Errorf("LengthBand(len=%d) = %q, want %q", c.length, got, c.want)
		}
	}
}

func TestLengthBand_CountsRunesNotBytes(t *testing.T) {
	// 150 multibyte runes must still fall in the short band.
	p := strings.Repeat("가", 150)
	if got := LengthBand(p); got != BandShort {
		t.Errorf("LengthBand(150 runes) = %q, want %q", got, BandShort)
	}
}

func TestEligible_ShortExcludesSetTypes(t *testing.T) {
	for _, code := range []Code{RC34, RC35, RC40, RC4142, RC4345} {
		if Eligible(BandShort, code) {
			t.Errorf("short band must not admit %s", code)
		}
	}
	for _, code := range []Code{RC18, RC31, RC33} {
		if !Eligible(BandShort, code) {
			t.Errorf("short band must admit %s", code)
		}
	}
}

func TestEligible_MediumExcludesSets(t *testing.T) {
	if Eligible(BandMedium, RC4142) || Eligible(BandMedium, RC4345) {
		t.Error("medium band must not admit set types")
	}
	if !Eligible(BandMedium, RC40) {
		t.Error("medium band must admit RC40")
	}
}

func TestEligible_LongAdmitsSets(t *testing.T) {
	if !Eligible(BandLong, RC4142) || !Eligible(BandLong, RC4345) {
		t.Error("long band must admit set types")
	}
}

func TestKnown(t *testing.T) {
	if !Known(RC22) || !Known(RC4142) {
		t.Error("expected registry codes to be known")
	}
	if Known("RC99") {
		t.Error("RC99 must not be known")
	}
}
