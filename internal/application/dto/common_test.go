package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Hotel-api/internal/application/dto"
)

func TestFormatTime12Hour(t *testing.T) {
	cases := map[string]string{
		"00:05": "12:05 AM",
		"09:30": "9:30 AM",
		"12:00": "12:00 PM",
		"14:30": "2:30 PM",
		"23:59": "11:59 PM",
		"":      "N/A",
		"nope":  "N/A",
		"25:00": "N/A",
	}
	for in, want := range cases {
		assert.Equal(t, want, dto.FormatTime12Hour(in), "entrada %q", in)
	}
}
