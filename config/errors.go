// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	ErrSampleRate = errors.New("config: sample rate must be positive")
	ErrButtons    = errors.New("config: invalid button range")
	ErrEdge       = errors.New("config: unknown edge")
	ErrPull       = errors.New("config: unknown pull")
	ErrTransport  = errors.New("config: unknown transport")
	ErrResolution = errors.New("config: invalid resolution")
	ErrSound      = errors.New("config: invalid sound binding")
	ErrLogLevel   = errors.New("config: unknown log level")
)
