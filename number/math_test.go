package number

import (
	"math"
	"testing"
)

func TestFMod(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{5.5, 2.0, 1.5},
		{-5.5, 2.0, 0.5},
		{5.5, -2.0, -0.5},
		{3, math.Inf(1), 3},
		{-3, math.Inf(-1), -3},
		{3, math.Inf(-1), math.Inf(-1)},
		{-3, math.Inf(1), math.Inf(1)},
	}
	for _, tt := range tests {
		if got := FMod(tt.a, tt.b); got != tt.want {
			t.Errorf("FMod(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIMod(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{-7, 3, 2},
		{7, 3, 1},
		{7, -3, -2},
		{-7, -3, -1},
		{6, 3, 0},
		{math.MinInt64, -1, 0},
	}
	for _, tt := range tests {
		if got := IMod(tt.a, tt.b); got != tt.want {
			t.Errorf("IMod(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
		{-6, 2, -3},
	}
	for _, tt := range tests {
		if got := IFloorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("IFloorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestShifts(t *testing.T) {
	tests := []struct {
		name string
		got  int64
		want int64
	}{
		{"1<<4", ShiftLeft(1, 4), 16},
		{"16<<-4", ShiftLeft(16, -4), 1},
		{"-1>>60", ShiftRight(-1, 60), 0xF},
		{"1>>-3", ShiftRight(1, -3), 8},
		{"1<<64", ShiftLeft(1, 64), 0},
		{"1<<-64", ShiftLeft(1, -64), 0},
		{"-1>>minint", ShiftRight(-1, math.MinInt64), 0},
		{"1<<63", ShiftLeft(1, 63), math.MinInt64},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestFloatToInteger(t *testing.T) {
	if i, ok := FloatToInteger(3.0); !ok || i != 3 {
		t.Errorf("FloatToInteger(3.0) = %d, %v", i, ok)
	}
	if i, ok := FloatToInteger(3.5); ok || i != 0 {
		t.Errorf("FloatToInteger(3.5) = %d, %v, want 0, false", i, ok)
	}
	if i, ok := FloatToInteger(-2.25); ok || i != 0 {
		t.Errorf("FloatToInteger(-2.25) = %d, %v, want 0, false", i, ok)
	}
	if _, ok := FloatToInteger(math.Inf(1)); ok {
		t.Error("FloatToInteger(+Inf) should fail")
	}
	if _, ok := FloatToInteger(math.NaN()); ok {
		t.Error("FloatToInteger(NaN) should fail")
	}
}

func TestFloatingPointByte(t *testing.T) {
	for _, x := range []int{0, 1, 7, 8, 15, 16, 100, 1000} {
		fb := Int2fb(x)
		if got := Fb2int(fb); got < x {
			t.Errorf("Fb2int(Int2fb(%d)) = %d, want >= %d", x, got, x)
		}
	}
	if got := Fb2int(Int2fb(8)); got != 8 {
		t.Errorf("Fb2int(Int2fb(8)) = %d, want 8", got)
	}
}

func TestParse(t *testing.T) {
	if i, ok := ParseInteger(" 42 "); !ok || i != 42 {
		t.Errorf("ParseInteger(\" 42 \") = %d, %v", i, ok)
	}
	if i, ok := ParseInteger("0x10"); !ok || i != 16 {
		t.Errorf("ParseInteger(0x10) = %d, %v", i, ok)
	}
	if _, ok := ParseInteger("4.5"); ok {
		t.Error("ParseInteger(4.5) should fail")
	}
	if f, ok := ParseFloat("2.5"); !ok || f != 2.5 {
		t.Errorf("ParseFloat(2.5) = %v, %v", f, ok)
	}
	if f, ok := ParseFloat("0x10"); !ok || f != 16 {
		t.Errorf("ParseFloat(0x10) = %v, %v", f, ok)
	}
	for _, s := range []string{"", "inf", "nan", "abc", "1_0"} {
		if _, ok := ParseFloat(s); ok {
			t.Errorf("ParseFloat(%q) should fail", s)
		}
	}
}
