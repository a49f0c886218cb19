package xlgrid

import "fmt"

// ErrorCode is a spreadsheet error code, rendered Excel style.
type ErrorCode uint8

const (
	ErrorCodeNull  ErrorCode = iota + 1 // #NULL!
	ErrorCodeDiv0                       // #DIV/0!
	ErrorCodeValue                      // #VALUE!
	ErrorCodeRef                        // #REF!
	ErrorCodeName                       // #NAME?
	ErrorCodeNum                        // #NUM!
	ErrorCodeNA                         // #N/A
	ErrorCodeOther                      // #ERROR!
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCodeNull:  "#NULL!",
	ErrorCodeDiv0:  "#DIV/0!",
	ErrorCodeValue: "#VALUE!",
	ErrorCodeRef:   "#REF!",
	ErrorCodeName:  "#NAME?",
	ErrorCodeNum:   "#NUM!",
	ErrorCodeNA:    "#N/A",
	ErrorCodeOther: "#ERROR!",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", uint8(c))
}

// FormulaError is the value of a cell whose formula failed. It is stored and
// propagated like any other value, so one faulty cell never stops the
// evaluation of its neighbours.
type FormulaError struct {
	Code    ErrorCode
	Message string
}

// NewFormulaError creates a FormulaError. An empty message defaults to the
// code's name.
func NewFormulaError(code ErrorCode, message string) *FormulaError {
	if message == "" {
		message = code.String()
	}
	return &FormulaError{Code: code, Message: message}
}

func (e *FormulaError) Error() string {
	if e.Message == "" || e.Message == e.Code.String() {
		return e.Code.String()
	}
	return e.Code.String() + " " + e.Message
}

// String renders the error as a cell would display it.
func (e *FormulaError) String() string {
	return e.Code.String()
}
