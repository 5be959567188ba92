// Package codegen generates EncodeNode and DecodeNode methods for struct
// types marked with a //settings:codec directive, so the codec registry
// delegates to them instead of walking the struct by reflection.
//
//	//settings:codec
//	type Pose struct {
//	    X, Y float64
//	    Label string `settings:"label,omitempty"`
//	}
//
// Generated code follows the record contract of package codec: one child
// per exported field named by its tag or field name, polymorphic fields
// tagged with their type, unknown children ignored on decode.
package codegen
