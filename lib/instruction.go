package lib

import (
    "fmt"
)

/* opcode references
 * http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
 * https://github.com/mattmikolay/chip-8/wiki/CHIP%E2%80%908-Instruction-Set
 */

type InstructionType int

const (
    Instruction_CLS InstructionType = iota
    Instruction_RET
    Instruction_JP
    Instruction_CALL
    Instruction_SE_immediate
    Instruction_SNE_immediate
    Instruction_SE_register
    Instruction_LD_immediate
    Instruction_ADD_immediate
    Instruction_LD_register
    Instruction_OR
    Instruction_AND
    Instruction_XOR
    Instruction_ADD_register
    Instruction_SUB
    Instruction_SHR
    Instruction_SUBN
    Instruction_SHL
    Instruction_SNE_register
    Instruction_LD_index
    Instruction_JP_offset
    Instruction_RND
    Instruction_DRW
    Instruction_SKP
    Instruction_SKNP
    Instruction_LD_read_delay
    Instruction_LD_key
    Instruction_LD_set_delay
    Instruction_LD_set_sound
    Instruction_ADD_index
    Instruction_LD_font
    Instruction_LD_bcd
    Instruction_LD_store
    Instruction_LD_load
)

type OperandFormat int
const (
    OperandNone OperandFormat = iota
    OperandAddress       // nnn
    OperandRegisterByte  // Vx, kk
    OperandRegisters     // Vx, Vy
    OperandRegister      // Vx
    OperandDraw          // Vx, Vy, n
)

type InstructionDescription struct {
    Name string
    /* how the operands are shown, Vx and Vy are substituted in Format */
    Format string
    Operands OperandFormat
}

type InstructionTable map[InstructionType]InstructionDescription

func MakeInstructionDescriptiontable() InstructionTable {
    return InstructionTable{
        Instruction_CLS: InstructionDescription{Name: "CLS", Operands: OperandNone},
        Instruction_RET: InstructionDescription{Name: "RET", Operands: OperandNone},
        Instruction_JP: InstructionDescription{Name: "JP", Operands: OperandAddress},
        Instruction_CALL: InstructionDescription{Name: "CALL", Operands: OperandAddress},
        Instruction_SE_immediate: InstructionDescription{Name: "SE", Operands: OperandRegisterByte},
        Instruction_SNE_immediate: InstructionDescription{Name: "SNE", Operands: OperandRegisterByte},
        Instruction_SE_register: InstructionDescription{Name: "SE", Operands: OperandRegisters},
        Instruction_LD_immediate: InstructionDescription{Name: "LD", Operands: OperandRegisterByte},
        Instruction_ADD_immediate: InstructionDescription{Name: "ADD", Operands: OperandRegisterByte},
        Instruction_LD_register: InstructionDescription{Name: "LD", Operands: OperandRegisters},
        Instruction_OR: InstructionDescription{Name: "OR", Operands: OperandRegisters},
        Instruction_AND: InstructionDescription{Name: "AND", Operands: OperandRegisters},
        Instruction_XOR: InstructionDescription{Name: "XOR", Operands: OperandRegisters},
        Instruction_ADD_register: InstructionDescription{Name: "ADD", Operands: OperandRegisters},
        Instruction_SUB: InstructionDescription{Name: "SUB", Operands: OperandRegisters},
        Instruction_SHR: InstructionDescription{Name: "SHR", Operands: OperandRegisters},
        Instruction_SUBN: InstructionDescription{Name: "SUBN", Operands: OperandRegisters},
        Instruction_SHL: InstructionDescription{Name: "SHL", Operands: OperandRegisters},
        Instruction_SNE_register: InstructionDescription{Name: "SNE", Operands: OperandRegisters},
        Instruction_LD_index: InstructionDescription{Name: "LD", Format: "I, %v", Operands: OperandAddress},
        Instruction_JP_offset: InstructionDescription{Name: "JP", Format: "V0, %v", Operands: OperandAddress},
        Instruction_RND: InstructionDescription{Name: "RND", Operands: OperandRegisterByte},
        Instruction_DRW: InstructionDescription{Name: "DRW", Operands: OperandDraw},
        Instruction_SKP: InstructionDescription{Name: "SKP", Operands: OperandRegister},
        Instruction_SKNP: InstructionDescription{Name: "SKNP", Operands: OperandRegister},
        Instruction_LD_read_delay: InstructionDescription{Name: "LD", Format: "%v, DT", Operands: OperandRegister},
        Instruction_LD_key: InstructionDescription{Name: "LD", Format: "%v, K", Operands: OperandRegister},
        Instruction_LD_set_delay: InstructionDescription{Name: "LD", Format: "DT, %v", Operands: OperandRegister},
        Instruction_LD_set_sound: InstructionDescription{Name: "LD", Format: "ST, %v", Operands: OperandRegister},
        Instruction_ADD_index: InstructionDescription{Name: "ADD", Format: "I, %v", Operands: OperandRegister},
        Instruction_LD_font: InstructionDescription{Name: "LD", Format: "F, %v", Operands: OperandRegister},
        Instruction_LD_bcd: InstructionDescription{Name: "LD", Format: "B, %v", Operands: OperandRegister},
        Instruction_LD_store: InstructionDescription{Name: "LD", Format: "[I], %v", Operands: OperandRegister},
        Instruction_LD_load: InstructionDescription{Name: "LD", Format: "%v, [I]", Operands: OperandRegister},
    }
}

var instructionTable InstructionTable = MakeInstructionDescriptiontable()

/* a decoded 16-bit instruction word. every operand field is filled in
 * regardless of the kind, the handler picks the ones it needs.
 */
type Instruction struct {
    Kind InstructionType
    Word uint16
    X byte
    Y byte
    N byte
    KK byte
    NNN uint16
}

func (instruction *Instruction) Equals(other Instruction) bool {
    return instruction.Kind == other.Kind && instruction.Word == other.Word
}

func (instruction *Instruction) Name() string {
    return instructionTable[instruction.Kind].Name
}

func (instruction *Instruction) operands() string {
    description := instructionTable[instruction.Kind]
    var main string
    switch description.Operands {
        case OperandNone:
            return ""
        case OperandAddress:
            main = fmt.Sprintf("0x%03X", instruction.NNN)
        case OperandRegisterByte:
            main = fmt.Sprintf("V%X, 0x%02X", instruction.X, instruction.KK)
        case OperandRegisters:
            main = fmt.Sprintf("V%X, V%X", instruction.X, instruction.Y)
        case OperandRegister:
            main = fmt.Sprintf("V%X", instruction.X)
        case OperandDraw:
            main = fmt.Sprintf("V%X, V%X, %d", instruction.X, instruction.Y, instruction.N)
    }

    if description.Format != "" {
        return fmt.Sprintf(description.Format, main)
    }
    return main
}

func (instruction *Instruction) String() string {
    operands := instruction.operands()
    if operands == "" {
        return fmt.Sprintf("%04X %v", instruction.Word, instruction.Name())
    }
    return fmt.Sprintf("%04X %v %v", instruction.Word, instruction.Name(), operands)
}

/* split a word into its nibbles and map it to an instruction kind */
func Decode(word uint16) (Instruction, error) {
    n1 := (word & 0xf000) >> 12
    n2 := byte((word & 0x0f00) >> 8)
    n3 := byte((word & 0x00f0) >> 4)
    n4 := byte(word & 0x000f)

    out := Instruction{
        Word: word,
        X: n2,
        Y: n3,
        N: n4,
        KK: byte(word & 0xff),
        NNN: word & 0x0fff,
    }

    unknown := func() (Instruction, error) {
        return Instruction{}, fmt.Errorf("%w: 0x%04X", ErrUnknownInstruction, word)
    }

    switch n1 {
        case 0x0:
            switch word {
                case 0x00E0:
                    out.Kind = Instruction_CLS
                case 0x00EE:
                    out.Kind = Instruction_RET
                default:
                    return unknown()
            }
        case 0x1:
            out.Kind = Instruction_JP
        case 0x2:
            out.Kind = Instruction_CALL
        case 0x3:
            out.Kind = Instruction_SE_immediate
        case 0x4:
            out.Kind = Instruction_SNE_immediate
        /* the low nibble of 5xyN and 9xyN is not looked at */
        case 0x5:
            out.Kind = Instruction_SE_register
        case 0x6:
            out.Kind = Instruction_LD_immediate
        case 0x7:
            out.Kind = Instruction_ADD_immediate
        case 0x8:
            switch n4 {
                case 0x0: out.Kind = Instruction_LD_register
                case 0x1: out.Kind = Instruction_OR
                case 0x2: out.Kind = Instruction_AND
                case 0x3: out.Kind = Instruction_XOR
                case 0x4: out.Kind = Instruction_ADD_register
                case 0x5: out.Kind = Instruction_SUB
                case 0x6: out.Kind = Instruction_SHR
                case 0x7: out.Kind = Instruction_SUBN
                case 0xE: out.Kind = Instruction_SHL
                default:
                    return unknown()
            }
        case 0x9:
            out.Kind = Instruction_SNE_register
        case 0xA:
            out.Kind = Instruction_LD_index
        case 0xB:
            out.Kind = Instruction_JP_offset
        case 0xC:
            out.Kind = Instruction_RND
        case 0xD:
            out.Kind = Instruction_DRW
        case 0xE:
            switch out.KK {
                case 0x9E: out.Kind = Instruction_SKP
                case 0xA1: out.Kind = Instruction_SKNP
                default:
                    return unknown()
            }
        case 0xF:
            switch out.KK {
                case 0x07: out.Kind = Instruction_LD_read_delay
                case 0x0A: out.Kind = Instruction_LD_key
                case 0x15: out.Kind = Instruction_LD_set_delay
                case 0x18: out.Kind = Instruction_LD_set_sound
                case 0x1E: out.Kind = Instruction_ADD_index
                case 0x29: out.Kind = Instruction_LD_font
                case 0x33: out.Kind = Instruction_LD_bcd
                case 0x55: out.Kind = Instruction_LD_store
                case 0x65: out.Kind = Instruction_LD_load
                default:
                    return unknown()
            }
    }

    return out, nil
}
