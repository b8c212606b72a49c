package asm

type (
	// Reg is an i386 register as it is spelled in AT&T syntax.
	Reg string
)

// Registers of the generated code. The language is expression-only, so
// two working registers and the hardware stack cover every program: EAX
// holds the value being computed, ECX the right operand of a binary
// operator, EDX the high half of a dividend.
const (
	EAX Reg = "%eax"
	ECX Reg = "%ecx"
	EDX Reg = "%edx"

	AL Reg = "%al"
	CL Reg = "%cl"
	DL Reg = "%dl"
)

// Low8 is the byte-sized alias of a 32-bit register. Byte-only
// instructions such as sete target it.
func (r Reg) Low8() Reg {
	switch r {
	case EAX:
		return AL
	case ECX:
		return CL
	case EDX:
		return DL
	default:
		panic(r)
	}
}
