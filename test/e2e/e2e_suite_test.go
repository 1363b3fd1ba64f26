package e2e

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TestE2E runs the full evolution pipeline against the real
// branch-and-bound solver: scenario setup, fixpoint iteration, failure
// protocol, and the YAML loading path.
func TestE2E(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "evolution e2e suite")
}
