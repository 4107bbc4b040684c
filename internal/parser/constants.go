package parser

const (
	// ContextType is the only parameter type that is not classified
	ContextType = "context.Context"

	// RelayPackage is the package name generated code and signatures refer to
	RelayPackage = "relay"

	// ResponseType is the generic response wrapper of the runtime package
	ResponseType = "Response"

	// EmptyPayload is the payload type of methods returning only error
	EmptyPayload = RelayPackage + ".Empty"

	minStatus = 100
	maxStatus = 999
)
