package dto

type SchemaInfo struct {
	Name          string
	Season        string
	Version       string
	SchemaVersion int
	Builtin       bool
	Enabled       bool
}
