package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lucmans/fraccert"
)

var testRes = fraccert.Resolution{W: 32, H: 24}

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}
