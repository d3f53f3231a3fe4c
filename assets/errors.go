// SPDX-License-Identifier: EPL-2.0

package assets

import "errors"

var (
	ErrTopTooLarge = errors.New("assets: top does not fit the sample type")
	ErrNoSamples   = errors.New("assets: source produced no samples")
	ErrRawLength   = errors.New("assets: raw data is not a whole number of samples")
	ErrPackage     = errors.New("assets: invalid package name")
)
