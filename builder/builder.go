// Package builder turns a JSON configuration document into a wired
// *core.Engine (and, when present, a DNP3 outstation configuration),
// tracking the last failure as a (MajorError, MinorError) pair with a
// message and the offending JSON fragment.
package builder

import (
	"encoding/json"
	"fmt"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/dnp3"
	"github.com/sarchlab/relaylogic/element"
)

// Builder loads engine configuration from JSON and remembers the last
// failure it encountered, so a caller can inspect why a LoadConfig call
// returned false.
type Builder struct {
	major    MajorError
	minor    MinorError
	message  string
	fragment string
}

// New constructs a Builder with no recorded error.
func New() *Builder {
	return &Builder{}
}

// GetMajorError returns the major error from the most recent LoadConfig
// call, or MajorNone if it succeeded or none has run yet.
func (b *Builder) GetMajorError() MajorError { return b.major }

// GetMinorError returns the minor error from the most recent LoadConfig
// call.
func (b *Builder) GetMinorError() MinorError { return b.minor }

// GetErrorMessage returns the formatted message for the most recent
// failure.
func (b *Builder) GetErrorMessage() string { return b.message }

// GetErroneousJSON returns up to 500 bytes of the JSON fragment that
// triggered the most recent failure.
func (b *Builder) GetErroneousJSON() string { return b.fragment }

// GetErrorString renders major, minor, message and the erroneous JSON
// fragment into one multi-line string, truncated to length bytes.
func (b *Builder) GetErrorString(length int) string {
	s := fmt.Sprintf("Major Error: %d, Minor Error: %d\nError Message: %s\nErroneous JSON: %s",
		b.major, b.minor, b.message, b.fragment)
	if length > 0 && len(s) > length {
		return s[:length]
	}
	return s
}

func (b *Builder) clearErrors() {
	b.major = MajorNone
	b.minor = MinorNone
	b.message = ""
	b.fragment = ""
}

func (b *Builder) setError(major MajorError, minor MinorError, fragment string) {
	b.major = major
	b.minor = minor
	if minor == MinorNone {
		b.message = major.String()
	} else {
		b.message = major.String() + ": " + minor.String()
	}
	b.fragment = truncateFragment(fragment)
}

// configDoc is the top-level JSON schema: named elements, named-port nets,
// optional slot-addressed ser points, optional dnp3 outstation config.
// nets and ser use different addressing schemes for their port references:
// nets by name, ser by positional output slot.
type configDoc struct {
	Name     string        `json:"name"`
	Elements []elementDoc  `json:"elements"`
	Nets     []netDoc      `json:"nets"`
	Ser      []serPointDoc `json:"ser"`
	Dnp3     *dnp3Doc      `json:"dnp3"`
}

type elementDoc struct {
	Name string            `json:"name"`
	Type string            `json:"type"`
	Args []json.RawMessage `json:"args"`
}

type portRefDoc struct {
	Name string `json:"name"`
	Port string `json:"port"`
}

type netDoc struct {
	Output portRefDoc   `json:"output"`
	Inputs []portRefDoc `json:"inputs"`
}

// serPointDoc addresses its source by output slot index, not by port name.
type serPointDoc struct {
	Name string `json:"name"`
	Slot int    `json:"slot"`
}

type dnp3Doc struct {
	Outstation *dnp3OutstationDoc `json:"outstation"`
}

type dnp3AddressDoc struct {
	IP   string `json:"ip"`
	DNP  uint16 `json:"dnp"`
	Port uint16 `json:"port"`
}

type dnp3PointDoc struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	SVar  string `json:"sVar"`
	EVar  string `json:"eVar"`
}

type dnp3PointsDoc struct {
	BinaryInputs  []dnp3PointDoc `json:"binary_inputs"`
	BinaryOutputs []dnp3PointDoc `json:"binary_outputs"`
	AnalogInputs  []dnp3PointDoc `json:"analog_inputs"`
	AnalogOutputs []dnp3PointDoc `json:"analog_outputs"`
}

type dnp3SessionDoc struct {
	Name    string         `json:"name"`
	Address dnp3AddressDoc `json:"address"`
	Points  dnp3PointsDoc  `json:"points"`
}

type dnp3OutstationDoc struct {
	Name     string           `json:"name"`
	Address  dnp3AddressDoc   `json:"address"`
	Sessions []dnp3SessionDoc `json:"sessions"`
}

const serElementName = "__SER__"

// Element and argument strings carry fixed maxima; anything longer is
// silently clamped rather than rejected.
const (
	maxElementNameLen = 32
	maxArgumentLen    = 64
)

func clampString(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// LoadConfig parses a JSON configuration document, constructs every
// element, wires every net, optionally synthesizes the __SER__ recorder
// element, and optionally parses a "dnp3" outstation section. On any
// failure it releases whatever partial state it had begun constructing and
// returns (nil, nil, false); the caller reads the failure detail off b.
func (b *Builder) LoadConfig(data []byte) (*core.Engine, *dnp3.OutstationConfig, bool) {
	b.clearErrors()

	var doc configDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		b.setError(MajorInvalidJSON, MinorNone, string(data))
		return nil, nil, false
	}

	if doc.Name == "" {
		b.setError(MajorInvalidEngineName, MinorNone, string(data))
		return nil, nil, false
	}

	eng := core.NewEngine(clampString(doc.Name, maxElementNameLen))

	if !b.parseElements(eng, doc.Elements, data) {
		return nil, nil, false
	}
	if !b.parseNets(eng, doc.Nets) {
		return nil, nil, false
	}
	if doc.Ser != nil {
		if !b.parseSer(eng, doc.Ser) {
			return nil, nil, false
		}
	}

	var dnp3Cfg *dnp3.OutstationConfig
	if doc.Dnp3 != nil {
		cfg, ok := b.parseOutstation(doc.Dnp3.Outstation)
		if !ok {
			return nil, nil, false
		}
		dnp3Cfg = cfg
	}

	return eng, dnp3Cfg, true
}

func (b *Builder) parseElements(eng *core.Engine, elements []elementDoc, raw []byte) bool {
	if elements == nil {
		b.setError(MajorInvalidComponents, MinorNone, string(raw))
		return false
	}

	for _, ed := range elements {
		if ed.Name == "" || ed.Type == "" {
			frag, _ := json.Marshal(ed)
			b.setError(MajorInvalidComponents, MinorInvalidComponentOutput, string(frag))
			return false
		}

		typ, ok := core.ParseElementType(ed.Type)
		if !ok {
			frag, _ := json.Marshal(ed)
			b.setError(MajorInvalidComponents, MinorInvalidComponentOutput, string(frag))
			return false
		}

		args := parseArgs(ed.Args)
		el, err := element.New(typ, clampString(ed.Name, maxElementNameLen), args)
		if err != nil {
			frag, _ := json.Marshal(ed)
			b.setError(MajorInvalidComponents, MinorInvalidComponentOutput, string(frag))
			return false
		}

		if err := eng.AddElement(el); err != nil {
			frag, _ := json.Marshal(ed)
			b.setError(MajorInvalidComponents, MinorInvalidComponentOutput, string(frag))
			return false
		}
	}
	return true
}

// parseArgs converts up to 5 raw JSON values into element.Arg, dispatching
// positionally on the JSON value kind (u16/f32/bool/string). A number
// populates both the integer and float accessors so the constructor can
// read whichever it expects.
func parseArgs(raw []json.RawMessage) []element.Arg {
	args := make([]element.Arg, 0, len(raw))
	for i, r := range raw {
		if i >= 5 {
			break
		}
		var v interface{}
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		var a element.Arg
		switch val := v.(type) {
		case float64:
			a.U16 = uint16(val)
			a.F32 = float32(val)
		case bool:
			a.Bool = val
		case string:
			a.String = clampString(val, maxArgumentLen)
		default:
			continue
		}
		args = append(args, a)
	}
	return args
}

func (b *Builder) parseNets(eng *core.Engine, nets []netDoc) bool {
	if nets == nil {
		b.setError(MajorInvalidNets, MinorNone, "")
		return false
	}

	for _, nd := range nets {
		if nd.Output.Name == "" || nd.Output.Port == "" {
			frag, _ := json.Marshal(nd)
			b.setError(MajorInvalidNets, MinorInvalidNets, string(frag))
			return false
		}

		def := core.NetDef{
			Output: core.PortRef{
				Element: clampString(nd.Output.Name, maxElementNameLen),
				Port:    clampString(nd.Output.Port, maxElementNameLen),
			},
		}
		for _, in := range nd.Inputs {
			if in.Name == "" || in.Port == "" {
				continue
			}
			def.Inputs = append(def.Inputs, core.PortRef{
				Element: clampString(in.Name, maxElementNameLen),
				Port:    clampString(in.Port, maxElementNameLen),
			})
		}
		eng.AddNet(def)
	}
	return true
}

// parseSer resolves each ser entry's integer output slot into the named
// output port it refers to, then synthesizes a single SER element watching
// all of them. This bridges the slot-addressed ser schema to the named-port
// net machinery every other element uses.
func (b *Builder) parseSer(eng *core.Engine, points []serPointDoc) bool {
	var names []string
	var source []core.PortRef

	for _, sp := range points {
		frag, _ := json.Marshal(sp)
		sp.Name = clampString(sp.Name, maxElementNameLen)
		el, ok := eng.GetElement(sp.Name)
		if !ok {
			b.setError(MajorInvalidSer, MinorInvalidSerPoint, string(frag))
			return false
		}
		outs := el.OutputPorts()
		if sp.Slot < 0 || sp.Slot >= len(outs) {
			b.setError(MajorInvalidSer, MinorInvalidSerPoint, string(frag))
			return false
		}
		port := outs[sp.Slot]
		inputName := fmt.Sprintf("in%d", len(names))
		names = append(names, inputName)
		source = append(source, core.PortRef{Element: sp.Name, Port: port.Name()})
	}

	ser := element.NewSER(serElementName, names)
	if err := eng.AddElement(ser); err != nil {
		b.setError(MajorInvalidSer, MinorInvalidSerPoint, "")
		return false
	}

	for i, src := range source {
		eng.AddNet(core.NetDef{
			Output: src,
			Inputs: []core.PortRef{{Element: serElementName, Port: names[i]}},
		})
	}
	return true
}

func (b *Builder) parseOutstation(doc *dnp3OutstationDoc) (*dnp3.OutstationConfig, bool) {
	if doc == nil {
		b.setError(MajorInvalidDnp3, MinorNone, "")
		return nil, false
	}

	cfg := &dnp3.OutstationConfig{
		Name: doc.Name,
		Outstation: dnp3.Address{
			IP: doc.Address.IP, DNP: doc.Address.DNP, Port: doc.Address.Port,
		},
	}

	for _, sd := range doc.Sessions {
		frag, _ := json.Marshal(sd)
		if sd.Name == "" {
			b.setError(MajorInvalidDnp3, MinorInvalidDnp3Session, string(frag))
			return nil, false
		}

		session := dnp3.SessionConfig{
			Name: sd.Name,
			Client: dnp3.Address{
				IP: sd.Address.IP, DNP: sd.Address.DNP, Port: sd.Address.Port,
			},
		}

		for _, p := range sd.Points.BinaryInputs {
			if p.Name == "" {
				b.setError(MajorInvalidDnp3, MinorInvalidDnp3Point, string(frag))
				return nil, false
			}
			session.Points.BinaryInputs = append(session.Points.BinaryInputs, dnp3.BinaryInputPoint{
				Index: p.Index, Name: p.Name,
				SVar: dnp3.ToStaticBinaryVariation(p.SVar),
				EVar: dnp3.ToEventBinaryVariation(p.EVar),
			})
		}
		for _, p := range sd.Points.BinaryOutputs {
			if p.Name == "" {
				b.setError(MajorInvalidDnp3, MinorInvalidDnp3Point, string(frag))
				return nil, false
			}
			session.Points.BinaryOutputs = append(session.Points.BinaryOutputs, dnp3.BinaryOutputPoint{
				Index: p.Index, Name: p.Name,
				SVar: dnp3.ToStaticBinaryOutputStatusVariation(p.SVar),
				EVar: dnp3.ToEventBinaryOutputStatusVariation(p.EVar),
			})
		}
		for _, p := range sd.Points.AnalogInputs {
			if p.Name == "" {
				b.setError(MajorInvalidDnp3, MinorInvalidDnp3Point, string(frag))
				return nil, false
			}
			session.Points.AnalogInputs = append(session.Points.AnalogInputs, dnp3.AnalogInputPoint{
				Index: p.Index, Name: p.Name,
				SVar: dnp3.ToStaticAnalogVariation(p.SVar),
				EVar: dnp3.ToEventAnalogVariation(p.EVar),
			})
		}
		for _, p := range sd.Points.AnalogOutputs {
			if p.Name == "" {
				b.setError(MajorInvalidDnp3, MinorInvalidDnp3Point, string(frag))
				return nil, false
			}
			session.Points.AnalogOutputs = append(session.Points.AnalogOutputs, dnp3.AnalogOutputPoint{
				Index: p.Index, Name: p.Name,
				SVar: dnp3.ToStaticAnalogOutputStatusVariation(p.SVar),
				EVar: dnp3.ToEventAnalogOutputStatusVariation(p.EVar),
			})
		}

		cfg.Sessions = append(cfg.Sessions, session)
	}

	return cfg, true
}
