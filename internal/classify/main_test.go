package classify

import (
	"io"
	"os"
	"testing"

	"github.com/mediplant/mediplant-go/internal/logging"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard, io.Discard)
	os.Exit(m.Run())
}
