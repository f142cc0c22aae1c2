// pdftext extracts plain text from PDF files with the same extractor the
// server uses for uploads, which makes it handy for checking why a document
// is rejected.
//
// Usage:
//
//	pdftext extract [options] <file.pdf>
//	pdftext info <file.pdf>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/porticus-lab/bionic-api/internal/extract"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage(stdout)
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "extract":
		return runExtract(args[1:], stdout)
	case "info":
		return runInfo(args[1:], stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stdout)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `pdftext - PDF text extraction tool

Usage:
  pdftext extract [options] <file.pdf>
  pdftext info <file.pdf>

Commands:
  extract   Extract plain text from a PDF file
  info      Display page count and per-page text size

Extract options:
  -o <file>       Write output to file (default: stdout)
  -p <range>      Page range, e.g. "1", "1-5", "1,3,5" (default: all)
  -f <format>     Output format: text, json, markdown (default: text)

Examples:
  pdftext extract document.pdf
  pdftext extract -p 1-10 -f json document.pdf > out.json
  pdftext extract -o extracted.txt document.pdf
  pdftext info document.pdf
`)
}

type pageResult struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// runExtract implements the "extract" command.
func runExtract(args []string, stdout io.Writer) error {
	var (
		outputFile string
		pageRange  string
		format     = "text"
		inputFile  string
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "-p", "-f":
			flag := args[i]
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires an argument", flag)
			}
			switch flag {
			case "-o":
				outputFile = args[i]
			case "-p":
				pageRange = args[i]
			case "-f":
				format = args[i]
			}
		default:
			if strings.HasPrefix(args[i], "-") {
				return fmt.Errorf("unknown option: %s", args[i])
			}
			inputFile = args[i]
		}
	}

	switch format {
	case "text", "json", "markdown":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	doc, err := load(inputFile)
	if err != nil {
		return err
	}

	indices, err := parsePageRange(pageRange, doc.PageCount())
	if err != nil {
		return fmt.Errorf("invalid page range %q: %w", pageRange, err)
	}
	results := make([]pageResult, 0, len(indices))
	for _, idx := range indices {
		results = append(results, pageResult{Page: idx + 1, Text: doc.Pages[idx]})
	}

	if outputFile == "" {
		return writeResults(stdout, format, results)
	}
	return writeFile(outputFile, func(w io.Writer) error {
		return writeResults(w, format, results)
	})
}

// writeFile creates path, runs write on it and reports a failed close, which
// is where buffered write errors surface.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()
	return write(f)
}

func writeResults(w io.Writer, format string, results []pageResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	case "markdown":
		for _, r := range results {
			fmt.Fprintf(w, "## Page %d\n\n%s\n\n", r.Page, r.Text)
		}
	default:
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w, "\f") // form feed between pages
			}
			fmt.Fprintln(w, r.Text)
		}
	}
	return nil
}

// runInfo implements the "info" command.
func runInfo(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no input file specified")
	}
	inputFile := args[0]

	doc, err := load(inputFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "File:    %s\n", inputFile)
	fmt.Fprintf(stdout, "Pages:   %d\n", doc.PageCount())
	fmt.Fprintf(stdout, "Chars:   %d\n", utf8.RuneCountInString(doc.Text))

	if doc.PageCount() > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Text per page:")
		for i, p := range doc.Pages {
			fmt.Fprintf(stdout, "  Page %d: %d chars", i+1, utf8.RuneCountInString(p))
			if strings.TrimSpace(p) == "" {
				fmt.Fprint(stdout, " (no text layer)")
			}
			fmt.Fprintln(stdout)
		}
	}
	return nil
}

func load(path string) (*extract.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("no input file specified")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := extract.New().ExtractPages(context.Background(), data)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return doc, nil
}

// parsePageRange converts a page range string to a slice of 0-based page indices.
// Supported formats: "" (all), "3" (single page), "1-5" (range), "1,3,5" (list).
func parsePageRange(spec string, total int) ([]int, error) {
	if spec == "" {
		indices := make([]int, total)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	var indices []int
	seen := make(map[int]bool)
	add := func(p int) {
		if !seen[p] {
			indices = append(indices, p-1)
			seen[p] = true
		}
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			p, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid page number: %s", part)
			}
			if p < 1 || p > total {
				return nil, fmt.Errorf("page %d out of bounds (1-%d)", p, total)
			}
			add(p)
			continue
		}

		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid page number: %s", lo)
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid page number: %s", hi)
		}
		if start < 1 || end > total || start > end {
			return nil, fmt.Errorf("page range %d-%d out of bounds (1-%d)", start, end, total)
		}
		for p := start; p <= end; p++ {
			add(p)
		}
	}
	return indices, nil
}
