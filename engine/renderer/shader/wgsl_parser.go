package shader

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// numericGroupRegex matches @group(N) with a numeric index
	numericGroupRegex = regexp.MustCompile(`@group\(\s*(\d+)\s*\)`)

	// symbolicGroupRegex matches @group(name) with one of the symbolic group names
	symbolicGroupRegex = regexp.MustCompile(`@group\(\s*([a-z_]+)\s*\)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> time: f32;
	// or handle types: @group(3) @binding(0) var pane_texture: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// Declaration is one resource declaration parsed from WGSL source.
type Declaration struct {
	Group        uint32
	Binding      uint32
	AddressSpace string
	Name         string
	Type         string
}

// parseEntryPoint returns the first function name following the given stage attribute regex,
// or an empty string.
func parseEntryPoint(cleaned string, re *regexp.Regexp) string {
	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}

// parseGroups returns the sorted, de-duplicated numeric group indices referenced by the source.
func parseGroups(cleaned string) []uint32 {
	var groups []uint32
	for _, m := range numericGroupRegex.FindAllStringSubmatch(cleaned, -1) {
		g, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			continue
		}
		if !slices.Contains(groups, uint32(g)) {
			groups = append(groups, uint32(g))
		}
	}
	slices.Sort(groups)
	return groups
}

// parseDeclarations extracts every @group(N) @binding(M) var declaration, ordered by group then binding.
func parseDeclarations(cleaned string) []Declaration {
	matches := bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1)
	decls := make([]Declaration, 0, len(matches))
	for _, m := range matches {
		group, _ := strconv.ParseUint(m[1], 10, 32)
		binding, _ := strconv.ParseUint(m[2], 10, 32)
		decls = append(decls, Declaration{
			Group:        uint32(group),
			Binding:      uint32(binding),
			AddressSpace: strings.TrimSpace(m[3]),
			Name:         strings.TrimSpace(m[4]),
			Type:         strings.TrimSpace(m[5]),
		})
	}
	slices.SortStableFunc(decls, func(a, b Declaration) int {
		if a.Group != b.Group {
			return int(a.Group) - int(b.Group)
		}
		return int(a.Binding) - int(b.Binding)
	})
	return decls
}

// stripComments removes block comments and then line comments from WGSL source.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes /* */ comments, which nest in WGSL.
func stripBlockComments(source string) string {
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) && source[i] == '/' && source[i+1] == '*' {
			depth++
			i++
			continue
		}
		if depth > 0 && i+1 < len(source) && source[i] == '*' && source[i+1] == '/' {
			depth--
			i++
			continue
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		} else if source[i] == '\n' {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
