package shader

import (
	_ "embed"
	"fmt"
	"os"
)

// DefaultSource is the WGSL source of the default shader. It draws ColorVertex geometry with the
// scene object transform and passes the vertex color through.
//
//go:embed assets/default.wgsl
var DefaultSource string

// program is the implementation of the Program interface.
type program struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	groups        []uint32
	declarations  []Declaration
}

// Program is a parsed WGSL render program: a vertex and a fragment entry point in one source.
type Program interface {
	// Key retrieves the unique identifier for this program, used for caching and lookups.
	//
	// Returns:
	//   - string: the program's key
	Key() string

	// Source retrieves the WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// VertexEntryPoint returns the name of the @vertex function, or an empty string.
	//
	// Returns:
	//   - string: the vertex entry point name
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function, or an empty string.
	//
	// Returns:
	//   - string: the fragment entry point name
	FragmentEntryPoint() string

	// Groups returns the sorted numeric @group indices the source references.
	// Symbolic group names are not counted until the source has been pre-processed.
	//
	// Returns:
	//   - []uint32: the referenced group indices
	Groups() []uint32

	// Declarations returns the resource declarations of the source, ordered by group then binding.
	//
	// Returns:
	//   - []Declaration: the parsed declarations
	Declarations() []Declaration

	// GroupDeclarations returns the declarations of a single group.
	//
	// Parameters:
	//   - group: the group index
	//
	// Returns:
	//   - []Declaration: the declarations within the group, ordered by binding
	GroupDeclarations(group uint32) []Declaration
}

var _ Program = &program{}

// NewProgram parses source into a Program.
//
// Parameters:
//   - key: the cache key of the program
//   - source: the WGSL source
//
// Returns:
//   - Program: the parsed program
func NewProgram(key, source string) Program {
	cleaned := stripComments(source)
	return &program{
		key:           key,
		source:        source,
		vertexEntry:   parseEntryPoint(cleaned, vertexEntryRegex),
		fragmentEntry: parseEntryPoint(cleaned, fragmentEntryRegex),
		groups:        parseGroups(cleaned),
		declarations:  parseDeclarations(cleaned),
	}
}

// LoadProgram reads a WGSL file from disk and parses it into a Program.
//
// Parameters:
//   - key: the cache key of the program
//   - path: the path of the WGSL file
//
// Returns:
//   - Program: the parsed program
//   - error: an error if the file could not be read
func LoadProgram(key, path string) (Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader %q: %w", path, err)
	}
	return NewProgram(key, string(b)), nil
}

func (p *program) Key() string {
	return p.key
}

func (p *program) Source() string {
	return p.source
}

func (p *program) VertexEntryPoint() string {
	return p.vertexEntry
}

func (p *program) FragmentEntryPoint() string {
	return p.fragmentEntry
}

func (p *program) Groups() []uint32 {
	return p.groups
}

func (p *program) Declarations() []Declaration {
	return p.declarations
}

func (p *program) GroupDeclarations(group uint32) []Declaration {
	var out []Declaration
	for _, d := range p.declarations {
		if d.Group == group {
			out = append(out, d)
		}
	}
	return out
}
