// Command estimate values a property described by a JSON file without calling
// any external provider.
//
// Usage:
//
//	go run ./cmd/estimate -input home.json
//	cat home.json | go run ./cmd/estimate -format json -year 2025
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/home-valuation/internal/domain"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// jsonOutput mirrors the valuation part of the HTTP estimate response.
type jsonOutput struct {
	domain.ValuationResult
	Breakdown []string `json:"breakdown"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "-", `path to a PropertyInput JSON file, or "-" for stdin`)
	year := fs.Int("year", 0, "valuation year for the age factor (default: current year)")
	format := fs.String("format", formatText, "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *format != formatText && *format != formatJSON {
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		fs.Usage()
		return 2
	}

	in, err := readInput(*input, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}
	if in.Sqft <= 0 {
		fmt.Fprintln(stderr, "sqft must be greater than zero")
		return 1
	}

	var result domain.ValuationResult
	if *year > 0 {
		result = domain.EstimateAsOf(in, *year)
	} else {
		result = domain.Estimate(in)
	}

	if *format == formatJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonOutput{ValuationResult: result, Breakdown: result.Breakdown()}); err != nil {
			fmt.Fprintf(stderr, "encode result: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(stdout, "Estimate: %s\n", domain.FormatCurrency(result.Estimate))
	fmt.Fprintf(stdout, "Range:    %s to %s\n", domain.FormatCurrency(result.Low), domain.FormatCurrency(result.High))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, domain.FormatBreakdown(result))
	return 0
}

func readInput(path string, stdin io.Reader) (domain.PropertyInput, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.PropertyInput{}, err
		}
		defer f.Close()
		r = f
	}

	var in domain.PropertyInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return in, errors.New("empty input")
		}
		return in, err
	}
	return in, nil
}
