package remoting

import "slices"

// Contract names a set of remote operations. It carries no transport detail;
// the proxy derives every endpoint from the contract and operation names.
type Contract struct {
	Name       string
	Operations []string
}

func NewContract(name string, operations ...string) Contract {
	return Contract{Name: name, Operations: slices.Clone(operations)}
}

func (c Contract) Declares(operation string) bool {
	return slices.Contains(c.Operations, operation)
}

// Operation describes how one declared operation moves over the wire: Encode
// turns the typed argument into a request body and Decode turns a response
// body back into the declared result type.
type Operation[Req, Resp any] struct {
	Name   string
	Encode func(Req) ([]byte, error)
	Decode func([]byte) (Resp, error)
}
