package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusIn))
	assert.True(t, ValidStatus(StatusOut))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("present"))
	assert.False(t, ValidStatus("IN"))
}

func TestContactValid(t *testing.T) {
	assert.True(t, Contact{Kind: ContactPhone, Value: "+46701234567"}.Valid())
	assert.True(t, Contact{Kind: ContactUser, Value: "uid-1"}.Valid())
	assert.False(t, Contact{}.Valid())
	assert.False(t, Contact{Kind: ContactPhone}.Valid())
	assert.False(t, Contact{Kind: "email", Value: "a@b.se"}.Valid())
}
