package selftest

import (
    "log"

    "github.com/kazzmir/chip8/data"
    get_screenshot "github.com/kazzmir/chip8/test/screenshot"
    test_utils "github.com/kazzmir/chip8/test/all-test/utils"
)

/* The selftest rom checks arithmetic flags, BCD, subroutines and sprite
 * collision on its own. It writes 1 to ResultAddress when every check
 * passed, otherwise the number of the check that failed.
 */

const ResultAddress = 0x300

var checks = []string{
    "",
    "add with carry",
    "subtract with borrow",
    "shift right",
    "bcd and load",
    "call and return",
    "sprite collision",
}

func Run(debug bool) (bool, error) {
    rom, err := data.ReadRom("selftest")
    if err != nil {
        return false, err
    }

    cpu, err := get_screenshot.Run(rom, 500, nil)
    if err != nil {
        return false, err
    }

    result := cpu.Data[ResultAddress]
    if result == 1 {
        log.Print(test_utils.Success("selftest"))
        return true, nil
    }

    name := "unknown"
    if int(result) < len(checks) && result > 0 {
        name = checks[result]
    }
    log.Print(test_utils.Failure("selftest check " + name))
    if debug {
        log.Printf("%v", cpu.String())
    }
    return false, nil
}
