package assert

import (
	"io"
	"testing"

	"github.com/bloeys/vgfb/logging"
)

func TestT(t *testing.T) {

	logging.SetOutput(io.Discard)
	defer logging.SetOutput(nil)

	T(true, "should not panic")

	defer func() {
		if recover() == nil {
			t.Errorf("expected assert.T(false) to panic")
		}
	}()
	T(false, "value was %d", 5)
}
