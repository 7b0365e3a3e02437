package mem

import "fmt"

// AccessReq is a single-word read or write issued to the memory system.
// Reads ignore Data.
type AccessReq struct {
	Address uint32
	Data    uint32
	IsWrite bool
}

// Kind returns "read" or "write".
func (r AccessReq) Kind() string {
	if r.IsWrite {
		return "write"
	}

	return "read"
}

func (r AccessReq) String() string {
	if r.IsWrite {
		return fmt.Sprintf("W 0x%08x <- 0x%08x", r.Address, r.Data)
	}

	return fmt.Sprintf("R 0x%08x", r.Address)
}
