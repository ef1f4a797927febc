package lib

import (
    "fmt"
    "log"
    "strings"
)

/* instructions per second when nothing else is configured */
const DefaultInstructionRate uint64 = 700

type MachineState int
const (
    StateRunning MachineState = iota
    /* FX0A is waiting for a key press */
    StateWaitingKey
    /* a fatal fault happened, nothing executes anymore */
    StateCrashed
)

func (state MachineState) String() string {
    switch state {
        case StateRunning: return "running"
        case StateWaitingKey: return "waiting for key"
        case StateCrashed: return "crashed"
    }
    return fmt.Sprintf("state %d", int(state))
}

/* Behaviours that differ between historical interpreters. Programs were
 * written against one or the other, so they are configurable.
 */
type Quirks struct {
    /* 8XY6 and 8XYE shift Vy into Vx. when false they shift Vx in place */
    ShiftSourceVy bool
    /* FX55 and FX65 leave I pointing past the last register they touched */
    LoadStoreIncrementsIndex bool
}

func DefaultQuirks() Quirks {
    return Quirks{
        ShiftSourceVy: true,
        LoadStoreIncrementsIndex: false,
    }
}

type CPUState struct {
    Memory

    PC uint16
    Cycle uint64

    Display Display
    Timers Timers

    Input *Input
    Random RandomSource

    Quirks Quirks
    State MachineState
    Debug uint

    /* the *MachineError that stopped the machine, if any */
    Fault error

    waitRegister byte
    waitPresses uint64
}

func StartupState() CPUState {
    return CPUState{
        Memory: MakeMemory(),
        PC: ProgramStart,
        Display: MakeDisplay(),
        Timers: MakeTimers(DefaultInstructionRate),
        Input: MakeInput(nil),
        Random: MakeRandomSource(0),
        Quirks: DefaultQuirks(),
        State: StateRunning,
    }
}

func (cpu *CPUState) String() string {
    var out strings.Builder
    fmt.Fprintf(&out, "PC:0x%03X I:0x%03X SP:%v DT:%v ST:%v", cpu.PC, cpu.I, cpu.SP, cpu.Timers.Delay, cpu.Timers.Sound)
    for i, value := range cpu.V {
        fmt.Fprintf(&out, " V%X:%02X", i, value)
    }
    fmt.Fprintf(&out, " Cycle:%v", cpu.Cycle)
    return out.String()
}

func (cpu *CPUState) Fetch() (Instruction, error) {
    if int(cpu.PC) + 1 >= MemorySize {
        return Instruction{}, fmt.Errorf("%w: fetch at 0x%x", ErrAddressOutOfRange, cpu.PC)
    }

    word := uint16(cpu.Data[cpu.PC]) << 8 | uint16(cpu.Data[cpu.PC + 1])
    return Decode(word)
}

/* the word at PC, or 0 if PC is outside of memory */
func (cpu *CPUState) currentWord() uint16 {
    if int(cpu.PC) + 1 >= MemorySize {
        return 0
    }
    return uint16(cpu.Data[cpu.PC]) << 8 | uint16(cpu.Data[cpu.PC + 1])
}

func (cpu *CPUState) crash(word uint16, err error) error {
    fault := makeMachineError(word, cpu.PC, err)
    cpu.Fault = fault
    cpu.State = StateCrashed
    log.Printf("Machine crashed: %v", fault)
    return fault
}

/* execute exactly one instruction, or one poll of the keypad while FX0A
 * is blocking. once crashed this keeps returning the same fault.
 */
func (cpu *CPUState) Run() error {
    if cpu.State == StateCrashed {
        return cpu.Fault
    }

    cpu.Input.Poll()
    cpu.Cycle += 1

    if cpu.State == StateWaitingKey {
        if cpu.Input.Presses > cpu.waitPresses {
            cpu.V[cpu.waitRegister] = cpu.Input.LastKey
            cpu.State = StateRunning
            cpu.PC += 2
            if cpu.Debug > 0 {
                log.Printf("Key 0x%X pressed, stored in V%X", cpu.Input.LastKey, cpu.waitRegister)
            }
        }
        return nil
    }

    instruction, err := cpu.Fetch()
    if err != nil {
        return cpu.crash(cpu.currentWord(), err)
    }

    if cpu.Debug > 0 {
        log.Printf("PC: 0x%03X Execute instruction %v I:%03X SP:%v V:% X CYC:%v", cpu.PC, instruction.String(), cpu.I, cpu.SP, cpu.V[:], cpu.Cycle)
    }

    err = cpu.Execute(instruction)
    if err != nil {
        return cpu.crash(instruction.Word, err)
    }

    return nil
}

/* one instruction followed by the timer policy. returns true when a 60Hz
 * timer tick happened during this step
 */
func (cpu *CPUState) Step() (bool, error) {
    err := cpu.Run()
    if err != nil {
        return false, err
    }
    return cpu.Timers.Tick(), nil
}

func (cpu *CPUState) SetRate(instructionRate uint64) {
    cpu.Timers.SetRate(instructionRate)
}

func (cpu *CPUState) LoadProgram(program []byte) error {
    return cpu.Memory.LoadProgram(program)
}

func flag(set bool) byte {
    if set {
        return 1
    }
    return 0
}

func (cpu *CPUState) skipIf(condition bool) {
    if condition {
        cpu.PC += 4
    } else {
        cpu.PC += 2
    }
}

/* the value shifted by 8XY6 and 8XYE */
func (cpu *CPUState) shiftSource(instruction Instruction) byte {
    if cpu.Quirks.ShiftSourceVy {
        return cpu.V[instruction.Y]
    }
    return cpu.V[instruction.X]
}

/* Flags are always computed from the operands as they were before the
 * instruction, and VF is written last so it holds the flag even when
 * x is F.
 */
func (cpu *CPUState) Execute(instruction Instruction) error {
    x := instruction.X
    y := instruction.Y

    switch instruction.Kind {
        case Instruction_CLS:
            cpu.Display.Clear()
            cpu.PC += 2
            return nil
        case Instruction_RET:
            address, err := cpu.PopStack()
            if err != nil {
                return err
            }
            cpu.PC = address
            return nil
        case Instruction_JP:
            cpu.PC = instruction.NNN
            return nil
        case Instruction_CALL:
            err := cpu.PushStack(cpu.PC + 2)
            if err != nil {
                return err
            }
            cpu.PC = instruction.NNN
            return nil
        case Instruction_SE_immediate:
            cpu.skipIf(cpu.V[x] == instruction.KK)
            return nil
        case Instruction_SNE_immediate:
            cpu.skipIf(cpu.V[x] != instruction.KK)
            return nil
        case Instruction_SE_register:
            cpu.skipIf(cpu.V[x] == cpu.V[y])
            return nil
        case Instruction_LD_immediate:
            cpu.V[x] = instruction.KK
            cpu.PC += 2
            return nil
        case Instruction_ADD_immediate:
            cpu.V[x] += instruction.KK
            cpu.PC += 2
            return nil
        case Instruction_LD_register:
            cpu.V[x] = cpu.V[y]
            cpu.PC += 2
            return nil
        case Instruction_OR:
            cpu.V[x] |= cpu.V[y]
            cpu.PC += 2
            return nil
        case Instruction_AND:
            cpu.V[x] &= cpu.V[y]
            cpu.PC += 2
            return nil
        case Instruction_XOR:
            cpu.V[x] ^= cpu.V[y]
            cpu.PC += 2
            return nil
        case Instruction_ADD_register:
            sum := uint16(cpu.V[x]) + uint16(cpu.V[y])
            cpu.V[x] = byte(sum)
            cpu.V[FlagRegister] = flag(sum > 0xff)
            cpu.PC += 2
            return nil
        case Instruction_SUB:
            vx, vy := cpu.V[x], cpu.V[y]
            cpu.V[x] = vx - vy
            cpu.V[FlagRegister] = flag(vx >= vy)
            cpu.PC += 2
            return nil
        case Instruction_SHR:
            source := cpu.shiftSource(instruction)
            cpu.V[x] = source >> 1
            cpu.V[FlagRegister] = source & 0x1
            cpu.PC += 2
            return nil
        case Instruction_SUBN:
            vx, vy := cpu.V[x], cpu.V[y]
            cpu.V[x] = vy - vx
            cpu.V[FlagRegister] = flag(vy >= vx)
            cpu.PC += 2
            return nil
        case Instruction_SHL:
            source := cpu.shiftSource(instruction)
            cpu.V[x] = source << 1
            cpu.V[FlagRegister] = flag(source & 0x80 != 0)
            cpu.PC += 2
            return nil
        case Instruction_SNE_register:
            cpu.skipIf(cpu.V[x] != cpu.V[y])
            return nil
        case Instruction_LD_index:
            cpu.I = instruction.NNN
            cpu.PC += 2
            return nil
        case Instruction_JP_offset:
            cpu.PC = uint16(cpu.V[0]) + instruction.NNN
            return nil
        case Instruction_RND:
            cpu.V[x] = cpu.Random.Byte() & instruction.KK
            cpu.PC += 2
            return nil
        case Instruction_DRW:
            rows, err := cpu.LoadRange(cpu.I, int(instruction.N))
            if err != nil {
                return err
            }
            erased := cpu.Display.CompositeSprite(MakeSprite(rows, int(cpu.V[x]), int(cpu.V[y])))
            cpu.V[FlagRegister] = flag(erased)
            cpu.PC += 2
            return nil
        case Instruction_SKP:
            cpu.skipIf(cpu.Input.IsPressed(cpu.V[x]))
            return nil
        case Instruction_SKNP:
            cpu.skipIf(!cpu.Input.IsPressed(cpu.V[x]))
            return nil
        case Instruction_LD_read_delay:
            cpu.V[x] = cpu.Timers.Delay
            cpu.PC += 2
            return nil
        case Instruction_LD_key:
            /* PC stays here until Run sees a press that happened after this point */
            cpu.State = StateWaitingKey
            cpu.waitRegister = x
            cpu.waitPresses = cpu.Input.Presses
            return nil
        case Instruction_LD_set_delay:
            cpu.Timers.Delay = cpu.V[x]
            cpu.PC += 2
            return nil
        case Instruction_LD_set_sound:
            cpu.Timers.Sound = cpu.V[x]
            cpu.PC += 2
            return nil
        case Instruction_ADD_index:
            cpu.I += uint16(cpu.V[x])
            cpu.PC += 2
            return nil
        case Instruction_LD_font:
            cpu.I = GlyphAddress(cpu.V[x])
            cpu.PC += 2
            return nil
        case Instruction_LD_bcd:
            value := int(cpu.V[x])
            digits := []byte{byte(value / 100), byte((value / 10) % 10), byte(value % 10)}
            err := cpu.StoreRange(cpu.I, digits)
            if err != nil {
                return err
            }
            cpu.PC += 2
            return nil
        case Instruction_LD_store:
            err := cpu.StoreRange(cpu.I, cpu.V[0:x+1])
            if err != nil {
                return err
            }
            if cpu.Quirks.LoadStoreIncrementsIndex {
                cpu.I += uint16(x) + 1
            }
            cpu.PC += 2
            return nil
        case Instruction_LD_load:
            values, err := cpu.LoadRange(cpu.I, int(x) + 1)
            if err != nil {
                return err
            }
            copy(cpu.V[0:x+1], values)
            if cpu.Quirks.LoadStoreIncrementsIndex {
                cpu.I += uint16(x) + 1
            }
            cpu.PC += 2
            return nil
    }

    return fmt.Errorf("%w: unable to execute instruction %v at PC 0x%x", ErrUnknownInstruction, instruction.String(), cpu.PC)
}
