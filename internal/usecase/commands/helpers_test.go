//go:build unit

package commands_test

import "errors"

// errTestDown stands in for any infrastructure outage in these suites.
var errTestDown = errors.New("backing store down")
