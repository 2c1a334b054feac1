package diag

import (
	"fmt"
)

type Code uint16

const (
	// Unknown error, used when nothing better fits.
	UnknownCode Code = 0

	// Token errors
	TokInfo              Code = 1000
	TokInputNotAllowed   Code = 1001
	TokInputRequired     Code = 1002
	TokUnknownToken      Code = 1003
	TokDuplicateToken    Code = 1004
	TokContractViolation Code = 1005
	TokNotReady          Code = 1006
	TokInvalidInput      Code = 1007
	TokInvalidValue      Code = 1008
	TokUnknownDependency Code = 1010
	TokSelfDependency    Code = 1011
	TokDependencyCycle   Code = 1012

	// Condition errors
	CondInfo         Code = 2000
	CondUnknownToken Code = 2001
	CondInvalidInput Code = 2002
	CondInvalidValue Code = 2003
	CondEmptyValues  Code = 2004

	// Token string (template) errors
	TplInfo                Code = 3000
	TplUnclosedPlaceholder Code = 3001
	TplEmptyPlaceholder    Code = 3002
	TplNestedPlaceholder   Code = 3003
	TplUnknownToken        Code = 3004
	TplNotReady            Code = 3005
	TplInvalidInput        Code = 3006

	// Content pack errors
	PackInfo            Code = 4000
	PackMissingSection  Code = 4001
	PackInvalidManifest Code = 4002
	PackDuplicateToken  Code = 4003
	PackInvalidPatch    Code = 4004
	PackMissingFile     Code = 4005
	PackUnknownAction   Code = 4006
	PackDuplicateName   Code = 4007

	// I/O errors
	IOLoadFileError  Code = 5001
	IOWriteFileError Code = 5002

	// Engine / application
	EngInfo         Code = 6000
	EngTimings      Code = 6001
	EngPatchSkipped Code = 6002
	EngCacheError   Code = 6003
	EngTargetClash  Code = 6004
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	TokInfo:                "Token information",
	TokInputNotAllowed:     "Token does not accept an input argument",
	TokInputRequired:       "Token requires an input argument",
	TokUnknownToken:        "Unknown token",
	TokDuplicateToken:      "Duplicate token registration",
	TokContractViolation:   "Provider requires input but does not accept input",
	TokNotReady:            "Token is not ready in the current context",
	TokInvalidInput:        "Invalid token input argument",
	TokInvalidValue:        "Invalid token value",
	TokUnknownDependency:   "Token depends on an unknown token",
	TokSelfDependency:      "Token depends on itself",
	TokDependencyCycle:     "Token dependency cycle detected",
	CondInfo:               "Condition information",
	CondUnknownToken:       "Condition references an unknown token",
	CondInvalidInput:       "Condition input argument is invalid",
	CondInvalidValue:       "Condition value is not valid for the token",
	CondEmptyValues:        "Condition has no values",
	TplInfo:                "Token string information",
	TplUnclosedPlaceholder: "Unclosed token placeholder",
	TplEmptyPlaceholder:    "Empty token placeholder",
	TplNestedPlaceholder:   "Nested token placeholder",
	TplUnknownToken:        "Token string references an unknown token",
	TplNotReady:            "Token string uses a token that is not ready",
	TplInvalidInput:        "Token string input argument is invalid",
	PackInfo:               "Content pack information",
	PackMissingSection:     "Missing manifest section",
	PackInvalidManifest:    "Invalid pack manifest",
	PackDuplicateToken:     "Duplicate dynamic token in pack",
	PackInvalidPatch:       "Invalid patch definition",
	PackMissingFile:        "Patch references a missing file",
	PackUnknownAction:      "Unknown patch action",
	PackDuplicateName:      "Duplicate pack name",
	IOLoadFileError:        "I/O load file error",
	IOWriteFileError:       "I/O write file error",
	EngInfo:                "Engine information",
	EngTimings:             "Pipeline timings",
	EngPatchSkipped:        "Patch skipped",
	EngCacheError:          "Pack cache error",
	EngTargetClash:         "Multiple load patches target the same file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("TOK%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CND%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TPL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("PCK%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("ENG%04d", ic)
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
