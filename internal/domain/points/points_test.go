package points

import "testing"

func TestFormatCrores(t *testing.T) {
	cases := map[int64]string{
		0:           "0 Cr",
		15_000_000:  "1.5 Cr",
		20_000_000:  "2 Cr",
		5_000_000:   "0.5 Cr",
		12_340_000:  "1.2 Cr",
		125_000_000: "12.5 Cr",
		-400_000:    "0 Cr",
		-15_000_000: "-1.5 Cr",
	}
	for input, want := range cases {
		if got := FormatCrores(input); got != want {
			t.Fatalf("FormatCrores(%d): got=%q want=%q", input, got, want)
		}
	}
}

func TestParseCrores(t *testing.T) {
	got, err := ParseCrores(" 1.5 Cr")
	if err != nil {
		t.Fatalf("parse crores: %v", err)
	}
	if got != 1.5 {
		t.Fatalf("unexpected crores: %v", got)
	}

	if got, err := ParseCrores("2"); err != nil || got != 2 {
		t.Fatalf("parse bare number: got=%v err=%v", got, err)
	}
	if _, err := ParseCrores("Cr"); err == nil {
		t.Fatalf("expected error for empty amount")
	}
	if _, err := ParseCrores("abc"); err == nil {
		t.Fatalf("expected error for non numeric amount")
	}
}

func TestCroreRoundTrip(t *testing.T) {
	for k := int64(0); k <= 500; k++ {
		value := k * BidUnit
		crores, err := ParseCrores(FormatCrores(value))
		if err != nil {
			t.Fatalf("parse formatted %d: %v", value, err)
		}
		if got := CroresToPoints(crores); got != value {
			t.Fatalf("round trip mismatch: got=%d want=%d", got, value)
		}
	}
}

func TestRoundToTenLakh(t *testing.T) {
	cases := map[int64]int64{
		0:          0,
		499_999:    0,
		500_000:    1_000_000,
		1_400_000:  1_000_000,
		12_600_000: 13_000_000,
		-400_000:   0,
		-600_000:   -1_000_000,
	}
	for input, want := range cases {
		if got := RoundToTenLakh(input); got != want {
			t.Fatalf("RoundToTenLakh(%d): got=%d want=%d", input, got, want)
		}
	}
}
