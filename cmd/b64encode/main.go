// Command b64encode base64-encodes a file and either prints the result to
// stdout or saves it to a file, matching the encoding expected by the
// ticket-submission photo field.
package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"os"
)

func run() error {
	var save string
	var noStdout bool
	flag.StringVar(&save, "s", "", "save the encoded string to the provided filepath; disables printing to stdout")
	flag.StringVar(&save, "save", "", "save the encoded string to the provided filepath; disables printing to stdout")
	flag.BoolVar(&noStdout, "P", false, "do not print the string to stdout")
	flag.BoolVar(&noStdout, "no-stdout", false, "do not print the string to stdout")
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: b64encode [-s filename.b64] [-P] <filename>")
	}
	filename := flag.Arg(0)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("unable to read the file %s: %w", filename, err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)

	if save != "" {
		noStdout = true
		if err := os.WriteFile(save, []byte(encoded), 0o644); err != nil {
			return fmt.Errorf("unable to save file %s: %w", save, err)
		}
	}

	if !noStdout {
		fmt.Println(encoded)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
