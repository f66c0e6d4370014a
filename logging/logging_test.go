package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetOutput(t *testing.T) {

	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	InfoLog.Println("hello")
	WarnLog.Println("careful")
	ErrLog.Println("broken")

	out := buf.String()
	for _, want := range []string{"INFO: ", "WARN: ", "ERROR: ", "hello", "careful", "broken"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}
