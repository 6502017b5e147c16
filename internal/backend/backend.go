// Package backend drives a lowered module to one of its artifact kinds:
// IR text, bitcode, assembly, an object file, or a linked executable
// (§4.6/§6). Grounded on the target-machine construction pipeline of
// other_examples/...hhramberg-go-vslc__src-ir-llvm-transform.go.go:
// InitializeAllTarget*, a host default triple, a generic-CPU target
// machine, and EmitToMemoryBuffer for object/assembly emission.
package backend

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/monad-lang/monad/internal/config"
	"tinygo.org/x/go-llvm"
)

func init() {
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()
	llvm.InitializeAllTargets()
}

// Emit verifies mod and writes every artifact cfg requests, in the order
// IR text, bitcode, assembly, object file, executable. Verification runs
// once, before any emission, so a malformed module never produces a
// partially written artifact set.
func Emit(mod llvm.Module, cfg config.Config) error {
	if err := llvm.VerifyModule(mod, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("module verification failed: %w", err)
	}

	if cfg.EmitIR {
		if err := os.WriteFile(cfg.OutBase+".ll", []byte(mod.String()), 0644); err != nil {
			return fmt.Errorf("writing IR text: %w", err)
		}
	}
	if cfg.EmitBC {
		if err := llvm.WriteBitcodeToFile(mod, cfg.OutBase+".bc"); err != nil {
			return fmt.Errorf("writing bitcode: %w", err)
		}
	}

	if cfg.EmitAsm || cfg.EmitObj || cfg.EmitExe {
		tm, err := newHostTargetMachine(mod)
		if err != nil {
			return err
		}
		defer tm.Dispose()

		if cfg.EmitAsm {
			if err := writeTargetFile(tm, mod, llvm.AssemblyFile, cfg.OutBase+".s"); err != nil {
				return fmt.Errorf("writing assembly: %w", err)
			}
		}
		if cfg.EmitObj {
			if err := writeTargetFile(tm, mod, llvm.ObjectFile, cfg.OutBase+".o"); err != nil {
				return fmt.Errorf("writing object file: %w", err)
			}
		}
		if cfg.EmitExe {
			if err := linkExecutable(tm, mod, cfg.OutBase); err != nil {
				return err
			}
		}
	}
	return nil
}

// newHostTargetMachine builds a target machine for the host's default
// triple, a generic CPU, no tuned features, no optimisation,
// position-independent relocation and the default code model — this compiler has no optimiser pipeline of
// its own, so CodeGenLevelNone is the honest setting.
func newHostTargetMachine(mod llvm.Module) (llvm.TargetMachine, error) {
	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return llvm.TargetMachine{}, fmt.Errorf("resolving host target: %w", err)
	}

	tm := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelNone,
		llvm.RelocPIC,
		llvm.CodeModelDefault)

	td := tm.CreateTargetData()
	defer td.Dispose()
	mod.SetDataLayout(td.String())
	mod.SetTarget(tm.Triple())

	return tm, nil
}

func writeTargetFile(tm llvm.TargetMachine, mod llvm.Module, kind llvm.CodeGenFileType, path string) error {
	buf, err := tm.EmitToMemoryBuffer(mod, kind)
	if err != nil {
		return err
	}
	defer buf.Dispose()
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// linkExecutable emits a temporary object file and invokes the system C
// compiler as the linker (§4.6), then removes the intermediate object.
func linkExecutable(tm llvm.TargetMachine, mod llvm.Module, outBase string) error {
	objPath := outBase + ".o"
	if err := writeTargetFile(tm, mod, llvm.ObjectFile, objPath); err != nil {
		return fmt.Errorf("writing intermediate object file: %w", err)
	}
	defer os.Remove(objPath)

	cc := systemCompiler()
	cmd := exec.Command(cc, objPath, "-o", outBase, "-lm", "-no-pie")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("linking with %s: %w", cc, err)
	}
	return nil
}

// systemCompiler returns the external linker driver to invoke, honouring
// $CC when the environment sets it.
func systemCompiler() string {
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}
	return "cc"
}
