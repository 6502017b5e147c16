package types

import "testing"

func TestInferLiteral(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		lexeme string
		want   Kind
	}{
		{"hex", 255, "0xFF", Hex},
		{"hex upper", 255, "0XFF", Hex},
		{"bin", 10, "0b1010", Bin},
		{"oct", 15, "0o17", Oct},
		{"float dot", 3.14, "3.14", Float},
		{"float exp", 1e10, "1e10", Float},
		{"int", 123, "123", Int},
		{"negative int", -5, "-5", Int},
		{"no lexeme integer valued", 4, "", Int},
		{"no lexeme fractional", 4.5, "", Float},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferLiteral(tc.value, tc.lexeme); got != tc.want {
				t.Errorf("InferLiteral(%v, %q) = %v, want %v", tc.value, tc.lexeme, got, tc.want)
			}
		})
	}
}

func TestParseAnnotation(t *testing.T) {
	for name, want := range annotationNames {
		got, ok := ParseAnnotation(name)
		if !ok || got != want {
			t.Errorf("ParseAnnotation(%q) = (%v, %v), want (%v, true)", name, got, ok, want)
		}
	}
	if _, ok := ParseAnnotation("NotAType"); ok {
		t.Error("ParseAnnotation(\"NotAType\") should fail")
	}
}

func TestPromoteCommutative(t *testing.T) {
	kinds := []Kind{Int, Float, Char, Hex, Bin, Oct}
	for _, a := range kinds {
		for _, b := range kinds {
			if isBaseKind(a) && isBaseKind(b) && a != b {
				continue // mixed-base rejection is tested separately
			}
			got1, err1 := Promote(a, b)
			got2, err2 := Promote(b, a)
			if (err1 == nil) != (err2 == nil) {
				t.Fatalf("Promote(%v,%v) err=%v but Promote(%v,%v) err=%v", a, b, err1, b, a, err2)
			}
			if err1 == nil && got1 != got2 {
				t.Errorf("Promote(%v,%v)=%v != Promote(%v,%v)=%v", a, b, got1, b, a, got2)
			}
		}
	}
}

func TestPromoteMixedBaseRejected(t *testing.T) {
	pairs := [][2]Kind{{Hex, Bin}, {Hex, Oct}, {Bin, Oct}}
	for _, p := range pairs {
		if _, err := Promote(p[0], p[1]); err == nil {
			t.Errorf("Promote(%v,%v) should have rejected mixed base kinds", p[0], p[1])
		}
	}
}

func TestPromoteSameBasePreserved(t *testing.T) {
	for _, k := range []Kind{Hex, Bin, Oct} {
		got, err := Promote(k, k)
		if err != nil {
			t.Fatalf("Promote(%v,%v) error = %v", k, k, err)
		}
		if got != k {
			t.Errorf("Promote(%v,%v) = %v, want %v", k, k, got, k)
		}
	}
}

func TestPromoteFloatDominates(t *testing.T) {
	got, err := Promote(Hex, Float)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Float {
		t.Errorf("Promote(Hex, Float) = %v, want Float", got)
	}
}

func TestPromoteCharPromotesToInt(t *testing.T) {
	got, err := Promote(Char, Int)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Int {
		t.Errorf("Promote(Char, Int) = %v, want Int", got)
	}
}

func TestPromoteNonNumericRejected(t *testing.T) {
	if _, err := Promote(String, Int); err == nil {
		t.Error("Promote(String, Int) should fail")
	}
}

func TestFuncTypeString(t *testing.T) {
	tests := []struct {
		name string
		ft   FuncType
		want string
	}{
		{"variadic only", FuncType{}, "Fn _"},
		{"two required", FuncType{Params: []Param{{Name: "a"}, {Name: "b"}}}, "Fn (_ _)"},
		{
			"optional marker",
			FuncType{Params: []Param{{Name: "a"}, {Name: "b", Optional: true}}},
			"Fn (_ #:optional _)",
		},
		{
			"rest suffix",
			FuncType{Params: []Param{{Name: "a"}, {Name: "rest", Rest: true}}},
			"Fn (_ _ . _)",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ft.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}
