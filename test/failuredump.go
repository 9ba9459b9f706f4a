package test

import (
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/elementsproject/lnregtest/network"
)

const defaultLines = 30

// OverrideLinesFromEnvVar lets LNREGTEST_LOG_LINES change the number of
// dumped lines.
func OverrideLinesFromEnvVar(lines int) int {
	if slines, ok := os.LookupEnv("LNREGTEST_LOG_LINES"); ok {
		n, err := strconv.Atoi(slines)
		if err != nil {
			return lines
		}
		return n
	}
	return lines
}

// DumpOnFailure registers a t.Cleanup that tails the logs of every daemon of
// n only when the test fails.
func DumpOnFailure(t *testing.T, n *network.Network) {
	t.Helper()

	t.Cleanup(func() {
		if !t.Failed() {
			return
		}
		fmt.Printf("\n============================== FAILURE ==============================\n\n")
		fmt.Printf("%s\n", n.DumpLogs(OverrideLinesFromEnvVar(defaultLines)))
		fmt.Printf("============================== (End) ==============================\n\n")
	})
}
