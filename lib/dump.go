package lib

import (
    "fmt"
    "io"
    "strings"
)

const dumpLineSize = 16

/* Writes memory from start up to end as lines of 16 bytes grouped into
 * big endian words, each line prefixed with its address:
 *   0200  00E0 A22A 600C 6108 D01F 7009 A239 D01F
 */
func DumpMemory(out io.Writer, memory *Memory, start uint16, end uint16) error {
    if int(end) > MemorySize {
        end = MemorySize
    }
    start = start - start % dumpLineSize

    for line := int(start); line < int(end); line += dumpLineSize {
        var words []string
        for offset := 0; offset < dumpLineSize && line + offset < MemorySize; offset += 2 {
            words = append(words, fmt.Sprintf("%02X%02X", memory.Data[line + offset], memory.Data[line + offset + 1]))
        }
        _, err := fmt.Fprintf(out, "%04X  %v\n", line, strings.Join(words, " "))
        if err != nil {
            return err
        }
    }

    return nil
}

/* the keypad in its physical 4x4 layout, pressed keys are shown by their
 * hex digit and released keys by a dot
 */
func (input *Input) String() string {
    layout := [4][4]byte{
        {0x1, 0x2, 0x3, 0xC},
        {0x4, 0x5, 0x6, 0xD},
        {0x7, 0x8, 0x9, 0xE},
        {0xA, 0x0, 0xB, 0xF},
    }

    var out strings.Builder
    for _, row := range layout {
        for i, key := range row {
            if i > 0 {
                out.WriteByte(' ')
            }
            if input.Keys[key] {
                fmt.Fprintf(&out, "%X", key)
            } else {
                out.WriteByte('.')
            }
        }
        out.WriteByte('\n')
    }
    return out.String()
}

/* registers, timers, stack and the code around PC. used for crash reports
 * and the clipboard export
 */
func (cpu *CPUState) Dump(out io.Writer) error {
    _, err := fmt.Fprintf(out, "State: %v\n%v\n", cpu.State, cpu.String())
    if err != nil {
        return err
    }

    if cpu.Fault != nil {
        fmt.Fprintf(out, "Fault: %v\n", cpu.Fault)
    }

    fmt.Fprintf(out, "Stack:")
    for i := 0; i < int(cpu.SP); i++ {
        fmt.Fprintf(out, " %03X", cpu.Stack[i])
    }
    fmt.Fprintln(out)

    start := uint16(0)
    if cpu.PC >= 0x20 {
        start = cpu.PC - 0x20
    }
    end := uint16(MemorySize)
    if int(cpu.PC) + 0x20 < MemorySize {
        end = cpu.PC + 0x20
    }
    return DumpMemory(out, &cpu.Memory, start, end)
}
