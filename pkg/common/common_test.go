package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "padaria-do-joao", Slugify("Padaria do João"))
	assert.Equal(t, "acai-e-cia", Slugify("Açaí & Cia"))
	assert.Equal(t, "pao-e-vinho", Slugify("Pão & Vinho"))
	assert.Equal(t, "loja-central", Slugify("  Loja_Central  "))
	assert.Equal(t, "cafe", Slugify("--Café--"))
	assert.Equal(t, "", Slugify("???"))
}

func TestUnmaskDigits(t *testing.T) {
	assert.Equal(t, "11999990000", UnmaskDigits("(11) 99999-0000"))
	assert.Equal(t, "01310100", UnmaskDigits("01310-100"))
	assert.Equal(t, "", UnmaskDigits("abc"))
}

func TestUUIDint64(t *testing.T) {
	a := UUIDint64()
	b := UUIDint64()
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
}

func TestIfEmptyStr(t *testing.T) {
	assert.Equal(t, "fallback", IfEmptyStr("", "fallback"))
	assert.Equal(t, "value", IfEmptyStr("value", "fallback"))
}
