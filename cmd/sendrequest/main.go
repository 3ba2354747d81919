// Command sendrequest posts the JSON payload described by a request file to
// the endpoint it names and prints the response. A request file looks like:
//
//	{
//	    "uri": "http://localhost:5443/login",
//	    "payload": { ... }
//	}
//
// Given a directory, every .json file in it is sent in turn.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/ticketapi/internal/netx"
)

type requestFile struct {
	URI     string          `json:"uri"`
	Payload json.RawMessage `json:"payload"`
}

func runFile(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", file, err)
	}

	var req requestFile
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("unable to parse %s: %w", file, err)
	}

	body, err := netx.PostJSON(req.URI, req.Payload)
	if err != nil {
		fmt.Printf("%s: %v\n", file, err)
		return nil
	}

	fmt.Println("==== BODY ====")
	fmt.Println(string(body))
	fmt.Println("==== BODY ====")
	return nil
}

func runDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := runFile(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func run() error {
	var file, dir string
	flag.StringVar(&file, "f", "", "JSON request file to send")
	flag.StringVar(&file, "file", "", "JSON request file to send")
	flag.StringVar(&dir, "d", "", "send every JSON request file within this directory")
	flag.StringVar(&dir, "dir", "", "send every JSON request file within this directory")
	flag.Parse()

	if file == "" && dir == "" {
		return fmt.Errorf("usage: sendrequest -f request.json | -d requests/")
	}

	if file != "" {
		if err := runFile(file); err != nil {
			return err
		}
	}
	if dir != "" {
		if err := runDir(dir); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
