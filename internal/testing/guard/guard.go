// Package guard flags the process as a test run so commands skip network
// and server startup when imported from tests.
package guard

import (
	"os"
	"sync"
)

// Env is the variable checked by app.InTestMode.
const Env = "INVENTORY_TEST_MODE"

var once sync.Once

// Ensure sets the test mode flag unless the caller already chose a value.
func Ensure() {
	once.Do(func() {
		if os.Getenv(Env) == "" {
			_ = os.Setenv(Env, "1")
		}
	})
}

func init() {
	Ensure()
}
