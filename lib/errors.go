package lib

import (
    "errors"
    "fmt"
)

var ErrUnknownInstruction error = errors.New("unknown instruction")
var ErrAddressOutOfRange error = errors.New("address out of range")
var ErrStackOverflow error = errors.New("stack overflow")
var ErrStackUnderflow error = errors.New("stack underflow")
var ErrProgramTooLarge error = errors.New("program too large")

/* a fatal condition raised while executing. Word and PC identify the
 * instruction that was being executed when the fault happened.
 */
type MachineError struct {
    Word uint16
    PC uint16
    Err error
}

func (err *MachineError) Error() string {
    return fmt.Sprintf("%v: instruction 0x%04X at PC 0x%03X", err.Err, err.Word, err.PC)
}

func (err *MachineError) Unwrap() error {
    return err.Err
}

func makeMachineError(word uint16, pc uint16, err error) *MachineError {
    return &MachineError{
        Word: word,
        PC: pc,
        Err: err,
    }
}
