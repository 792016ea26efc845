package ingestion

import (
	"testing"
	"time"
)

func TestParsePublishDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "rfc3339", input: "2025-06-03T10:30:00Z", want: time.Date(2025, 6, 3, 10, 30, 0, 0, time.UTC)},
		{name: "sql timestamp", input: "2025-06-03 10:30:00", want: time.Date(2025, 6, 3, 10, 30, 0, 0, time.UTC)},
		{name: "rfc1123z", input: "Tue, 03 Jun 2025 10:30:00 +0000", want: time.Date(2025, 6, 3, 10, 30, 0, 0, time.UTC)},
		{name: "date only", input: "2025-06-03", want: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{name: "slash time", input: "June 3, 2025 / 10:30", want: time.Date(2025, 6, 3, 10, 30, 0, 0, time.UTC)},
		{name: "day month year", input: "3 June, 2025", want: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{name: "ordinal suffix", input: "June 3rd, 2025", want: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		{name: "extra whitespace", input: "  2025-06-03  ", want: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParsePublishDate(tc.input)
			if got == nil {
				t.Fatalf("ParsePublishDate(%q) = nil", tc.input)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("ParsePublishDate(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParsePublishDateUnrecognized(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "yesterday", "13/13/2025"} {
		if got := ParsePublishDate(input); got != nil {
			t.Fatalf("ParsePublishDate(%q) = %v, want nil", input, got)
		}
	}
}
