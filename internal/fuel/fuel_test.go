package fuel

import "testing"

func TestTableComplete(t *testing.T) {
	codes := Codes()
	if len(codes) != 18 {
		t.Fatalf("expected 18 fuel codes, got %d", len(codes))
	}
	for _, code := range codes {
		p, err := Lookup(code)
		if err != nil {
			t.Errorf("Lookup(%s): %v", code, err)
			continue
		}
		if p.Code != code {
			t.Errorf("Lookup(%s) returned record for %s", code, p.Code)
		}
		if p.Group == "" {
			t.Errorf("%s has no group", code)
		}
		if p.Q <= 0 || p.Q > 1 {
			t.Errorf("%s has q=%f outside (0,1]", code, p.Q)
		}
		if p.BUI0 <= 0 {
			t.Errorf("%s has bui0=%f", code, p.BUI0)
		}
		if p.BEMax < 1 {
			t.Errorf("%s has BEMax=%f below 1", code, p.BEMax)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup(Code("C9")); err == nil {
		t.Error("expected error for unknown code C9")
	}
	if _, err := Parse("grass"); err == nil {
		t.Error("expected error for unparseable code")
	}
}

func TestParse(t *testing.T) {
	code, err := Parse("O1a")
	if err != nil {
		t.Fatalf("Parse(O1a): %v", err)
	}
	if code != O1a {
		t.Errorf("expected O1a, got %s", code)
	}
}

func TestCanCrown(t *testing.T) {
	cases := []struct {
		code Code
		want bool
	}{
		{C2, true},
		{C6, true},
		{M1, true},
		{D1, false},
		{O1a, false},
		{S2, false},
	}
	for _, tc := range cases {
		p, err := Lookup(tc.code)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", tc.code, err)
		}
		if p.CanCrown() != tc.want {
			t.Errorf("%s: CanCrown() = %v, want %v", tc.code, p.CanCrown(), tc.want)
		}
	}
}

func TestGrassFuelLoad(t *testing.T) {
	for _, code := range []Code{O1a, O1b} {
		p, _ := Lookup(code)
		if p.GFL <= 0 {
			t.Errorf("%s has no grass fuel load", code)
		}
	}
	p, _ := Lookup(C2)
	if p.GFL != 0 {
		t.Errorf("C2 should have no grass fuel load, got %f", p.GFL)
	}
}
