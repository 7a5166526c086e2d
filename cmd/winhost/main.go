// winhost drives the window host lifecycle engine: a simulated demo session
// and an adapter that manages an existing X11 window.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "demo":
		os.Exit(runDemo(os.Args[2:]))
	case "x11":
		os.Exit(runX11(os.Args[2:]))
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(2)
	}
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: winhost <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  demo    run a scripted simulated session and print the event stream")
	fmt.Fprintln(w, "  x11     adopt an existing X11 window and mirror its lifecycle")
	fmt.Fprintln(w, "  help    show this help")
}
