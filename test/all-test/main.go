package main

import (
    "log"
    "os"

    screenshot "github.com/kazzmir/chip8/test/all-test/screenshot"
    selftest "github.com/kazzmir/chip8/test/all-test/selftest"
    test_utils "github.com/kazzmir/chip8/test/all-test/utils"
)

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds)

    debug := len(os.Args) > 1 && (os.Args[1] == "-debug" || os.Args[1] == "--debug")

    failed := false

    ok, err := selftest.Run(debug)
    if err != nil {
        log.Printf("selftest failed with an error: %v", err)
        failed = true
    } else if !ok {
        failed = true
    }

    ok, err = screenshot.Run(debug)
    if err != nil {
        log.Printf("screenshot failed with an error: %v", err)
        failed = true
    } else if !ok {
        failed = true
    }

    if failed {
        log.Print(test_utils.Failure("all tests"))
        os.Exit(1)
    }
    log.Print(test_utils.Success("all tests"))
}
