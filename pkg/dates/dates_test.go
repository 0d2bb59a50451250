package dates

import (
	"errors"
	"testing"
	"time"
)

func TestParse_KnownFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // wire form of the parsed instant
	}{
		{"iso date", "2008-08-22", "Fri, 22 Aug 2008 00:00:00 +0000"},
		{"rfc822 zero offset", "Fri, 22 Aug 2008 00:00:00 +0000", "Fri, 22 Aug 2008 00:00:00 +0000"},
		{"rfc822 nonzero offset", "Sat, 04 Jan 2020 19:00:00 -0500", "Sun, 05 Jan 2020 00:00:00 +0000"},
		{"rfc822 named zone", "Fri, 22 Aug 2008 12:30:00 GMT", "Fri, 22 Aug 2008 12:30:00 +0000"},
		{"long month name", "August 22, 2008", "Fri, 22 Aug 2008 00:00:00 +0000"},
		{"long month single digit day", "March 5, 2010", "Fri, 05 Mar 2010 00:00:00 +0000"},
		{"surrounding whitespace", "  2008-08-22  ", "Fri, 22 Aug 2008 00:00:00 +0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if got.Location() != time.UTC {
				t.Errorf("Parse(%q) not normalized to UTC: %v", tt.input, got.Location())
			}
			if wire := ToWire(got); wire != tt.want {
				t.Errorf("ToWire(Parse(%q)) = %q, want %q", tt.input, wire, tt.want)
			}
		})
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	for _, input := range []string{"", "not a date", "22/08/2008", "2008.08.22"} {
		_, err := Parse(input)
		if err == nil {
			t.Errorf("Parse(%q) expected error, got nil", input)
			continue
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("Parse(%q) error is %T, want *FormatError", input, err)
		}
	}
}

func TestToDisplay(t *testing.T) {
	got, err := Parse("Fri, 22 Aug 2008 23:59:59 +0000")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if display := ToDisplay(got); display != "2008-08-22" {
		t.Errorf("ToDisplay = %q, want %q", display, "2008-08-22")
	}
}

func TestLatest(t *testing.T) {
	fallback := time.Date(2008, 8, 22, 0, 0, 0, 0, time.UTC)

	got, err := Latest(nil, fallback)
	if err != nil {
		t.Fatalf("Latest(nil) returned error: %v", err)
	}
	if !got.Equal(fallback) {
		t.Errorf("Latest(nil) = %v, want fallback %v", got, fallback)
	}

	got, err = Latest([]string{"2008-08-22", "2020-01-04", "2015-06-01"}, fallback)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if ToDisplay(got) != "2020-01-04" {
		t.Errorf("Latest = %s, want 2020-01-04", ToDisplay(got))
	}
}

func TestLatest_UnparseableEntryIsFatal(t *testing.T) {
	fallback := time.Date(2008, 8, 22, 0, 0, 0, 0, time.UTC)
	_, err := Latest([]string{"2008-08-22", "garbage"}, fallback)
	if err == nil {
		t.Fatal("Latest with unparseable entry expected error, got nil")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Errorf("error is %T, want *FormatError", err)
	}
}
