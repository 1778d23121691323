package sqsgath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimStrToRect(t *testing.T) {
	short := "one\ntwo"
	assert.Equal(t, short, trimStrToRect(short, 5, 80))

	tall := "a\nb\nc\nd"
	assert.Equal(t, "a\nb\n[...]", trimStrToRect(tall, 2, 80))

	wide := strings.Repeat("x", 10)
	assert.Equal(t, "xxxxx[...]", trimStrToRect(wide, 5, 5))

	tallAndWide := strings.Repeat("y", 6) + "\nsecond\nthird"
	assert.Equal(t, "yyyyy[...]\nsecon[...]\n[...]", trimStrToRect(tallAndWide, 2, 5))
}
