package core

// PortRef names one port by its owning element's name and the port's own
// name, as it appears in builder JSON.
type PortRef struct {
	Element string
	Port    string
}

// NetDef is a declarative wiring record: one source and the sinks it feeds.
// It is consumed once by Engine.bind and not retained afterward.
type NetDef struct {
	Output PortRef
	Inputs []PortRef
}
