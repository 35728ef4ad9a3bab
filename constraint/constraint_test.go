package constraint

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		kind    Kind
		param   string
		display string
		wantErr bool
	}{
		{
			name:    "notnull",
			text:    "notnull",
			kind:    KindNotNull,
			display: "NOT_NULL",
		},
		{
			name:    "notnull display spelling",
			text:    "NOT_NULL",
			kind:    KindNotNull,
			display: "NOT_NULL",
		},
		{
			name:    "min",
			text:    "min=0",
			kind:    KindMin,
			param:   "0",
			display: "MIN(0)",
		},
		{
			name:    "max with fraction",
			text:    " max = 10.5 ",
			kind:    KindMax,
			param:   "10.5",
			display: "MAX(10.5)",
		},
		{
			name:    "quoted pattern",
			text:    `pattern="^[a-z ]+$"`,
			kind:    KindPattern,
			param:   "^[a-z ]+$",
			display: "PATTERN(^[a-z ]+$)",
		},
		{
			name:    "expr",
			text:    "expr=`value > 3`",
			kind:    KindExpr,
			param:   "value > 3",
			display: "EXPR(value > 3)",
		},
		{
			name:    "lenmax",
			text:    "lenmax=64",
			kind:    KindLenMax,
			param:   "64",
			display: "LEN_MAX(64)",
		},
		{
			name:    "empty",
			text:    "  ",
			wantErr: true,
		},
		{
			name:    "unknown kind",
			text:    "positive",
			wantErr: true,
		},
		{
			name:    "notnull with parameter",
			text:    "notnull=1",
			wantErr: true,
		},
		{
			name:    "min without parameter",
			text:    "min",
			wantErr: true,
		},
		{
			name:    "min not a number",
			text:    "min=abc",
			wantErr: true,
		},
		{
			name:    "bad pattern",
			text:    "pattern=[a-",
			wantErr: true,
		},
		{
			name:    "negative length",
			text:    "lenmin=-1",
			wantErr: true,
		},
		{
			name:    "non boolean expression",
			text:    "expr=`size(value)`",
			wantErr: true,
		},
		{
			name:    "unterminated quote",
			text:    `pattern="abc`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %s", tt.text, c)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse %q: %s", tt.text, err)
			}

			if c.Kind() != tt.kind {
				t.Errorf("kind mismatch: got %v, want %v", c.Kind(), tt.kind)
			}
			if c.Param() != tt.param {
				t.Errorf("param mismatch: got %q, want %q", c.Param(), tt.param)
			}
			if c.String() != tt.display {
				t.Errorf("display mismatch: got %q, want %q", c.String(), tt.display)
			}

			again, err := Parse(c.Text())
			if err != nil {
				t.Fatalf("parse canonical text %q: %s", c.Text(), err)
			}
			if !again.Equal(c) {
				t.Errorf("canonical text %q parsed into %s, want %s", c.Text(), again, c)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	type celsius float64
	type small uint8

	tests := []struct {
		name string
		c    Constraint
		want string
	}{
		{name: "int min", c: Min(0), want: "MIN(0)"},
		{name: "negative int max", c: Max(-3), want: "MAX(-3)"},
		{name: "uint64 max", c: Max(uint64(18446744073709551615)), want: "MAX(18446744073709551615)"},
		{name: "float32 min", c: Min(float32(0.1)), want: "MIN(0.1)"},
		{name: "derived float", c: Max(celsius(36.6)), want: "MAX(36.6)"},
		{name: "derived unsigned", c: Min(small(7)), want: "MIN(7)"},
		{name: "pattern", c: MustPattern(`\d+`), want: `PATTERN(\d+)`},
		{name: "length", c: LenMin(2), want: "LEN_MIN(2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if !tt.c.Valid() {
				t.Errorf("constructed constraint %s must be valid", tt.c)
			}
		})
	}

	if (Constraint{}).Valid() {
		t.Error("zero constraint must not be valid")
	}
}

func TestNonFiniteBoundPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on NaN bound")
		}
	}()

	var zero float64
	Min(zero / zero)
}

func TestKindText(t *testing.T) {
	for kind, text := range kindValueMap {
		raw, err := kind.MarshalText()
		if err != nil {
			t.Fatalf("marshal %s: %s", kind, err)
		}
		if string(raw) != text {
			t.Errorf("marshal %s: got %q, want %q", kind, raw, text)
		}

		var got Kind
		if err := got.UnmarshalText(raw); err != nil {
			t.Fatalf("unmarshal %q: %s", raw, err)
		}
		if got != kind {
			t.Errorf("unmarshal %q: got %s, want %s", raw, got, kind)
		}
	}

	if _, err := KindInvalid.MarshalText(); err == nil {
		t.Error("invalid kind must not be marshaled")
	}
}
