//go:build ignore

// This script prints an image path for a JSON step list and a source URL.
// Run with: go run scripts/image_path.go '[{"type":"resize","width":300}]' https://example.com/cat.jpg
package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/guttosm/image-proxy/internal/codec"
	"github.com/guttosm/image-proxy/internal/domain/dto"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: image_path.go '<steps json>' <source url>")
		os.Exit(2)
	}

	var req dto.SpecRequest
	if err := json.Unmarshal([]byte(os.Args[1]), &req.Steps); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing steps: %v\n", err)
		os.Exit(1)
	}

	spec, err := req.ToSpec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid steps: %v\n", err)
		os.Exit(1)
	}

	token, err := codec.Encode(spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("/image/%s/%s\n", token, url.PathEscape(os.Args[2]))
}
