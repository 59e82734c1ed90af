package analysis

// Opcode classes used by the register-type checks. Float ops load, store and
// compute on floating-point registers; address ops produce addresses and
// expect a general or address register.

var floatOps = makeSet(
	"LE", "LER", "LD", "LDR", "STE", "STD",
	"AE", "AER", "AD", "ADR", "SE", "SER", "SD", "SDR",
	"ME", "MER", "MD", "MDR", "DE", "DER", "DD", "DDR",
	"CE", "CER", "CD", "CDR", "AW", "AWR", "SW", "SWR",
	"HDR", "HER", "LCER", "LCDR", "LNER", "LNDR", "LPER", "LPDR",
	"LTER", "LTDR", "SQER", "SQDR",
)

var addressOps = makeSet(
	"LA", "LAE", "LAM", "LAY", "LARL",
	"BAL", "BALR", "BAS", "BASR",
)

func makeSet(ops ...string) map[string]bool {
	set := make(map[string]bool, len(ops))
	for _, op := range ops {
		set[op] = true
	}
	return set
}

// IsFloatOp reports whether the uppercased opcode is a floating-point op
func IsFloatOp(op string) bool {
	return floatOps[op]
}

// IsAddressOp reports whether the uppercased opcode is an address op
func IsAddressOp(op string) bool {
	return addressOps[op]
}

// Instructions is the fixed instruction set offered by completion: the common
// System/370 instruction repertoire, the float and address classes above, and
// the assembler statements HLASM source leans on.
var Instructions = []string{
	// Load and store
	"L", "LR", "LH", "LM", "LA", "LAE", "LAM", "LAY", "LARL",
	"ST", "STH", "STM", "STC", "IC", "ICM", "LTR", "LCR", "LNR", "LPR",
	// Fixed-point arithmetic
	"A", "AR", "AH", "AL", "ALR", "S", "SR", "SH", "SL", "SLR",
	"M", "MR", "MH", "D", "DR",
	// Compare and logical
	"C", "CR", "CH", "CL", "CLR", "CLC", "CLI", "CLM",
	"N", "NR", "NC", "NI", "O", "OR", "OC", "OI", "X", "XR", "XC", "XI",
	// Shifts
	"SLA", "SLL", "SRA", "SRL", "SLDA", "SLDL", "SRDA", "SRDL",
	// Branching
	"B", "BR", "BC", "BCR", "BCT", "BCTR", "BXH", "BXLE",
	"BAL", "BALR", "BAS", "BASR",
	"BE", "BER", "BNE", "BNER", "BH", "BHR", "BL", "BLR",
	"BNH", "BNL", "BZ", "BNZ", "BM", "BP", "BO", "BNO", "NOP", "NOPR",
	// Storage to storage
	"MVC", "MVI", "MVCL", "MVN", "MVZ", "MVO", "TR", "TRT", "ED", "EDMK",
	// Decimal
	"AP", "SP", "MP", "DP", "ZAP", "CP", "CVB", "CVD", "PACK", "UNPK",
	// Floating point
	"LE", "LER", "LD", "LDR", "STE", "STD",
	"AE", "AER", "AD", "ADR", "SE", "SER", "SD", "SDR",
	"ME", "MER", "MD", "MDR", "DE", "DER", "DD", "DDR",
	"CE", "CER", "CD", "CDR", "AW", "AWR", "SW", "SWR",
	"HDR", "HER", "LCER", "LCDR", "LNER", "LNDR", "LPER", "LPDR",
	"LTER", "LTDR", "SQER", "SQDR",
	// System
	"EX", "SVC", "TM", "TS", "SPM", "STCK",
	// Assembler statements
	"CSECT", "DSECT", "DS", "DC", "EQU", "EQUREG", "USING", "DROP",
	"ORG", "LTORG", "START", "END", "TITLE", "EJECT", "SPACE", "PRINT",
	"MACRO", "MEND", "MEXIT", "COPY", "PUSH", "POP",
}
