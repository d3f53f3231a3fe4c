// SPDX-License-Identifier: EPL-2.0

package soundbox

import "errors"

var (
	ErrNoTimebase  = errors.New("soundbox: no timebase")
	ErrNoTransport = errors.New("soundbox: no transport")
	ErrNotInit     = errors.New("soundbox: Init not called")
	ErrAlreadyInit = errors.New("soundbox: Init called twice")
	ErrInit        = errors.New("soundbox: init failed")
)
