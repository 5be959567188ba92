package codegen

// Directive marks a type declaration for generation.
const Directive = "//settings:codec"

// TypeInfo describes one struct type to generate methods for.
type TypeInfo struct {
	Name   string
	Fields []FieldInfo
}

// FieldInfo describes one member of a record.
type FieldInfo struct {
	// Name is the element name.
	Name string
	// Selector reaches the field from the receiver, through embedded
	// structs.
	Selector    string
	OmitEmpty   bool
	Polymorphic bool
}

// PackageInfo holds the generation input of one package.
type PackageInfo struct {
	Name  string
	Path  string
	Dir   string
	Types []*TypeInfo
}

// Config configures Run.
type Config struct {
	Dir       string
	Recursive bool
	// Output overrides the generated file name, relative to each package
	// directory.
	Output string
}
