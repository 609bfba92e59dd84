package io

import (
	"errors"

	"github.com/ezrec/isasim/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrAddressRange = errors.New(f("address out of range"))
	ErrMemoryEmpty  = errors.New(f("memory has no capacity"))
)
