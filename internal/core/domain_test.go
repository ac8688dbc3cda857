package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateParse(t *testing.T) {
	cases := []struct {
		in Date
		ok bool
	}{
		{"10/01/2024", true},
		{"31/12/2025", true},
		{"2024-01-10", false},
		{"32/01/2024", false},
		{"", false},
		{"garbage", false},
	}
	for i, tc := range cases {
		_, err := tc.in.Time()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("case %d expected error", i)
			}
			if !errors.Is(err, ErrInvalidDate) || !errors.Is(err, ErrValidation) {
				t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
			}
		}
	}
}

func TestDateFormatRoundTrip(t *testing.T) {
	d := NewDate(time.Date(2024, 2, 15, 13, 45, 0, 0, time.UTC))
	if d != "15/02/2024" {
		t.Fatalf("expected 15/02/2024, got %s", d)
	}
	back, err := d.Time()
	if err != nil {
		t.Fatalf("parse back: %v", err)
	}
	if back.Day() != 15 || back.Month() != 2 || back.Year() != 2024 {
		t.Fatalf("round trip mismatch: %v", back)
	}
}

func TestDateYearMonth(t *testing.T) {
	if ym, ok := Date("10/01/2024").YearMonth(); !ok || ym != "2024-01" {
		t.Fatalf("expected 2024-01, got %q (ok=%v)", ym, ok)
	}
	if _, ok := Date("not a date").YearMonth(); ok {
		t.Fatalf("expected unparseable date to report !ok")
	}
	if y, ok := Date("15/02/2024").Year(); !ok || y != 2024 {
		t.Fatalf("expected year 2024, got %d (ok=%v)", y, ok)
	}
}

func TestMemberValidate(t *testing.T) {
	good := Member{Nome: "Mario", Cognome: "Rossi"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, m := range []Member{{Nome: "Mario"}, {Cognome: "Rossi"}, {}} {
		err := m.Validate()
		if err == nil {
			t.Fatalf("expected error for %+v", m)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	}
}
