// Package config holds the resolved command-line configuration for a batch
// compilation run: the input path, the output base name, and which
// artifact kinds to emit (§4.6/§6).
package config

import (
	"path/filepath"
	"strings"
)

// Config is the resolved set of options for one `monad build` invocation.
type Config struct {
	InputPath string
	OutBase   string

	EmitIR  bool
	EmitBC  bool
	EmitAsm bool
	EmitObj bool
	// EmitExe, when none of the above Emit* flags are set, is the implicit
	// default artifact: a linked executable.
	EmitExe bool
}

// Resolve derives a Config from the CLI's raw inputs. outFlag is the
// `-o`/`--output` value, empty if unset, in which case the output base
// name is the input's basename with its extension removed, per §6.
func Resolve(inputPath, outFlag string, emitIR, emitBC, emitAsm, emitObj bool) Config {
	base := outFlag
	if base == "" {
		base = defaultBase(inputPath)
	}

	cfg := Config{
		InputPath: inputPath,
		OutBase:   base,
		EmitIR:    emitIR,
		EmitBC:    emitBC,
		EmitAsm:   emitAsm,
		EmitObj:   emitObj,
	}
	if !emitIR && !emitBC && !emitAsm && !emitObj {
		cfg.EmitExe = true
	}
	return cfg
}

func defaultBase(inputPath string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	if ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
