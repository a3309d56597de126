// Copyright 2024 Canonical.

package jwkshttp_test

import (
	"encoding/json"

	qt "github.com/frankban/quicktest"
)

func mustUnmarshal(c *qt.C, b []byte) interface{} {
	var v interface{}
	err := json.Unmarshal(b, &v)
	c.Assert(err, qt.IsNil)
	return v
}
