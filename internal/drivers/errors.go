package drivers

import (
	"fmt"

	"github.com/absgrad-ml/absgrad/internal/tape"
)

// DomainError reports an elementary operation evaluated outside its
// domain: Ln of a non-positive value, division by zero, Tan at a pole,
// or Asin/Acos outside [-1, 1]. It identifies the offending tape slot
// so the recording site can be located. Match with errors.As.
type DomainError struct {
	// Slot is the tape index of the offending node.
	Slot int
	// Op is the operation that failed.
	Op tape.OpCode
	// Arg is the operand value that lies outside the domain.
	Arg float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain error at tape slot %d: %s of %v", e.Slot, e.Op, e.Arg)
}
