package diag

import (
	"fmt"
)

type Code uint16

const (
	// Unknown error, placeholder while triaging.
	UnknownCode Code = 0

	// I/O errors
	IOLoadFileError Code = 1001

	// Snapshot decoding
	SnapInfo           Code = 2000
	SnapDecodeError    Code = 2001
	SnapSchemaMismatch Code = 2002

	// Dataflow diagnostics over lowered MIR
	FlowInfo                Code = 3000
	FlowMissingReturn       Code = 3001
	FlowNonExhaustiveSwitch Code = 3002
	FlowReturnFromNoReturn  Code = 3003

	// MIR structural validation
	MirInfo          Code = 4000
	MirInvalidModule Code = 4001

	// Project / manifest errors
	ProjInfo            Code = 5000
	ProjMissingManifest Code = 5001
	ProjInvalidManifest Code = 5002
	ProjInvalidRoot     Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	IOLoadFileError:         "I/O load file error",
	SnapInfo:                "Snapshot information",
	SnapDecodeError:         "Malformed MIR snapshot",
	SnapSchemaMismatch:      "Unsupported MIR snapshot schema",
	FlowInfo:                "Dataflow information",
	FlowMissingReturn:       "Missing return in function",
	FlowNonExhaustiveSwitch: "Non-exhaustive switch",
	FlowReturnFromNoReturn:  "Return from noreturn function",
	MirInfo:                 "MIR information",
	MirInvalidModule:        "MIR module violates structural invariants",
	ProjInfo:                "Project information",
	ProjMissingManifest:     "Missing project manifest",
	ProjInvalidManifest:     "Invalid project manifest",
	ProjInvalidRoot:         "Invalid snapshot root",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SNP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("FLO%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("MIR%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
