// Package main hosts the viewfinder CLI entrypoint and command graph.
//
// The Cobra-based command tree loads a scene script into an in-process
// host, then runs the camera framing or environment verification workflow
// against it. Configuration resolution and logger construction live here
// so subcommands only translate flags into workflow options.
package main
