package clientpb

import "fmt"

// OpCode identifies which client RPC a request frame carries.
type OpCode uint8

// The version-1 op-code set. GET_SUPPORTED_RPC_VERSIONS must be the
// first RPC any client issues.
const (
	OpGetSupportedRPCVersions OpCode = 0
	OpOpenSession             OpCode = 1
	OpGetConfiguration        OpCode = 2
	OpSetConfiguration        OpCode = 3
	OpReadOnlyTree            OpCode = 4
	OpReadWriteTree           OpCode = 5
)

func (c OpCode) String() string {
	switch c {
	case OpGetSupportedRPCVersions:
		return "GET_SUPPORTED_RPC_VERSIONS"
	case OpOpenSession:
		return "OPEN_SESSION"
	case OpGetConfiguration:
		return "GET_CONFIGURATION"
	case OpSetConfiguration:
		return "SET_CONFIGURATION"
	case OpReadOnlyTree:
		return "READ_ONLY_TREE"
	case OpReadWriteTree:
		return "READ_WRITE_TREE"
	default:
		return fmt.Sprintf("OpCode(%d)", uint8(c))
	}
}
