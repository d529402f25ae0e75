package diag

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Структурные (op/block verify)
	VerifyBadKind           Code = 1001
	VerifyOperandCount      Code = 1002
	VerifyResultCount       Code = 1003
	VerifySuccessorCount    Code = 1004
	VerifyDanglingOperand   Code = 1005
	VerifyStaleOperand      Code = 1006
	VerifyMissingSuccessor  Code = 1007
	VerifyMissingTerminator Code = 1008
	VerifyTerminatorNotLast Code = 1009
	VerifyMissingAttr       Code = 1010
	VerifyBadType           Code = 1011

	// Снапшоты
	SnapBadSchema Code = 3000
	SnapBadRef    Code = 3001
)

func (c Code) String() string {
	switch c {
	case VerifyBadKind:
		return "bad-kind"
	case VerifyOperandCount:
		return "operand-count"
	case VerifyResultCount:
		return "result-count"
	case VerifySuccessorCount:
		return "successor-count"
	case VerifyDanglingOperand:
		return "dangling-operand"
	case VerifyStaleOperand:
		return "stale-operand"
	case VerifyMissingSuccessor:
		return "missing-successor"
	case VerifyMissingTerminator:
		return "missing-terminator"
	case VerifyTerminatorNotLast:
		return "terminator-not-last"
	case VerifyMissingAttr:
		return "missing-attr"
	case VerifyBadType:
		return "bad-type"
	case SnapBadSchema:
		return "bad-schema"
	case SnapBadRef:
		return "bad-ref"
	}
	return "unknown"
}
