package screenshot

import (
    "testing"
)

func TestScreenshots(test *testing.T){
    ok, err := Run(true)
    if err != nil {
        test.Fatalf("screenshots could not run: %v", err)
    }
    if !ok {
        test.Fatalf("a screenshot did not match")
    }
}

func TestIgnoresOtherNames(test *testing.T){
    ok, err := testPng("notes.txt", false)
    if err != nil || !ok {
        test.Fatalf("names that are not screenshots should be skipped")
    }
}
