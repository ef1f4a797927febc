package lib

import (
    "fmt"
)

const MemorySize = 0x1000
const ProgramStart uint16 = 0x200
const MaxProgramSize = MemorySize - int(ProgramStart)

const StackSize = 16
const RegisterCount = 16
const FlagRegister = 0xf

/* glyphs for the hex digits 0-F, 5 rows each, stored at the bottom of memory */
const FontBase uint16 = 0x000
const GlyphSize = 5

var FontSet = [16 * GlyphSize]byte{
    0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
    0x20, 0x60, 0x20, 0x20, 0x70, // 1
    0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
    0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
    0x90, 0x90, 0xF0, 0x10, 0x10, // 4
    0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
    0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
    0xF0, 0x10, 0x20, 0x40, 0x40, // 7
    0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
    0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
    0xF0, 0x90, 0xF0, 0x90, 0x90, // A
    0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
    0xF0, 0x80, 0x80, 0x80, 0xF0, // C
    0xE0, 0x90, 0x90, 0x90, 0xE0, // D
    0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
    0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

/* the end of the font area, the first writable address */
const fontEnd uint16 = FontBase + uint16(len(FontSet))

type Memory struct {
    Data [MemorySize]byte
    V [RegisterCount]byte
    I uint16

    /* SP is the number of return addresses currently on the stack,
     * so Stack[SP-1] is the most recent one.
     */
    Stack [StackSize]uint16
    SP byte
}

func MakeMemory() Memory {
    var memory Memory
    copy(memory.Data[FontBase:], FontSet[:])
    return memory
}

func GlyphAddress(digit byte) uint16 {
    return FontBase + uint16(digit & 0xf) * GlyphSize
}

func (memory *Memory) Load(address uint16) (byte, error) {
    if int(address) >= MemorySize {
        return 0, fmt.Errorf("%w: read at 0x%x", ErrAddressOutOfRange, address)
    }
    return memory.Data[address], nil
}

/* the font area is never writable, everything else up to the end of memory is */
func (memory *Memory) Store(address uint16, value byte) error {
    if int(address) >= MemorySize || address < fontEnd {
        return fmt.Errorf("%w: write at 0x%x", ErrAddressOutOfRange, address)
    }
    memory.Data[address] = value
    return nil
}

/* returns a copy of length bytes starting at address */
func (memory *Memory) LoadRange(address uint16, length int) ([]byte, error) {
    if length < 0 || int(address) + length > MemorySize {
        return nil, fmt.Errorf("%w: read of %v bytes at 0x%x", ErrAddressOutOfRange, length, address)
    }
    out := make([]byte, length)
    copy(out, memory.Data[address:int(address) + length])
    return out, nil
}

/* writes all of values starting at address, or nothing at all if any of
 * the addresses is not writable
 */
func (memory *Memory) StoreRange(address uint16, values []byte) error {
    if address < fontEnd || int(address) + len(values) > MemorySize {
        return fmt.Errorf("%w: write of %v bytes at 0x%x", ErrAddressOutOfRange, len(values), address)
    }
    copy(memory.Data[address:], values)
    return nil
}

func (memory *Memory) PushStack(address uint16) error {
    if int(memory.SP) >= StackSize {
        return ErrStackOverflow
    }
    memory.Stack[memory.SP] = address
    memory.SP += 1
    return nil
}

func (memory *Memory) PopStack() (uint16, error) {
    if memory.SP == 0 {
        return 0, ErrStackUnderflow
    }
    memory.SP -= 1
    return memory.Stack[memory.SP], nil
}

/* copy a program image to 0x200 */
func (memory *Memory) LoadProgram(program []byte) error {
    if len(program) > MaxProgramSize {
        return fmt.Errorf("%w: %v bytes, at most %v are allowed", ErrProgramTooLarge, len(program), MaxProgramSize)
    }
    copy(memory.Data[ProgramStart:], program)
    return nil
}
