package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Device errors
	ErrDeviceRunning = errors.New(f("device already started"))
	ErrNoInput       = errors.New(f("device has no input"))
	ErrNoOutput      = errors.New(f("device has no output"))
)
