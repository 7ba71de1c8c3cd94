//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Test mg.Namespace

// Regenerates the enum String methods.
func Generate() error {
	return sh.RunV("go", "generate", "./...")
}

// Runs the unit tests.
func (Test) Unit() error {
	mg.Deps(Generate)
	return goTest()
}

// Runs the unit tests under the race detector.
func (Test) Race() error {
	mg.Deps(Generate)
	return goTest("-race")
}

// Runs the benchmarks without the unit tests.
func (Test) Bench() error {
	return goTest("-run", "^$", "-bench", ".", "-benchmem")
}

// Runs the simulator with both roles in one process for ten seconds.
func Sim() error {
	cfg, err := simConfig()
	if err != nil {
		return err
	}
	return sh.RunV("go", "run", "./cmd/descsim", "-role", "both", "-config", cfg)
}

func goTest(args ...string) error {
	if mg.Verbose() {
		args = append(args, "-v")
	}
	return sh.RunV("go", append(append([]string{"test"}, args...), "./...")...)
}
