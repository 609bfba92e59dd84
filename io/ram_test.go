package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRam_LoadStore(t *testing.T) {
	assert := assert.New(t)

	ram := &Ram{Capacity: 16}

	value, err := ram.Load(3)
	assert.NoError(err)
	assert.Equal(uint32(0), value)

	assert.NoError(ram.Store(3, 0xdeadbeef))
	assert.NoError(ram.Store(15, 7))

	value, err = ram.Load(3)
	assert.NoError(err)
	assert.Equal(uint32(0xdeadbeef), value)

	value, err = ram.Load(15)
	assert.NoError(err)
	assert.Equal(uint32(7), value)
}

func TestRam_Range(t *testing.T) {
	assert := assert.New(t)

	ram := &Ram{Capacity: 4}

	_, err := ram.Load(4)
	assert.ErrorIs(err, ErrAddressRange)

	err = ram.Store(0xffffffff, 1)
	assert.ErrorIs(err, ErrAddressRange)
}

func TestRam_Empty(t *testing.T) {
	assert := assert.New(t)

	ram := &Ram{}

	_, err := ram.Load(0)
	assert.ErrorIs(err, ErrMemoryEmpty)
}

func TestRam_Rewind(t *testing.T) {
	assert := assert.New(t)

	ram := &Ram{Capacity: 8}
	ram.Store(1, 42)
	ram.Rewind()

	assert.Len(ram.Data, 8)
	value, err := ram.Load(1)
	assert.NoError(err)
	assert.Equal(uint32(0), value)
}
