package testing

import (
	"os"
	stdtesting "testing"

	"github.com/odyssey-erp/inventory-console/internal/testing/guard"
)

func init() {
	guard.Ensure()
	if os.Getenv("API_BASE_URL") == "" {
		_ = os.Setenv("API_BASE_URL", "http://127.0.0.1:0/api")
	}
}

func TestMain(m *stdtesting.M) {
	guard.Ensure()
	os.Exit(m.Run())
}
