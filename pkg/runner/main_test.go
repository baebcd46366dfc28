package runner_test

import (
	"os"
	"testing"

	"github.com/yaklabco/regionfmt/internal/testutil/fakeformat"
)

func TestMain(m *testing.M) {
	fakeformat.Main()
	os.Exit(m.Run())
}
