// Package config loads and validates onefile configuration: built-in
// defaults, the project .onefile.toml, ONEFILE_* environment variables,
// and YAML preset documents. The product is an immutable GlobalConfig
// consumed read-only by the resolver; the loader never looks at content
// files beyond one existence check per group's requires_path.
package config
