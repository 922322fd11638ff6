package cpu

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Bootstraps the ginkgo specs in compressed_ginkgo_test.go and
// decode_ginkgo_test.go: one RunSpecs entry point per package.
func TestCPU(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CPU Suite")
}
