package selftest

import (
    "testing"
)

func TestSelftestRom(test *testing.T){
    ok, err := Run(true)
    if err != nil {
        test.Fatalf("selftest could not run: %v", err)
    }
    if !ok {
        test.Fatalf("selftest reported a failure")
    }
}
