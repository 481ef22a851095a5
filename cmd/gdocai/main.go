// gdocai is a command-line tool for running scanned PDFs through Google
// Document AI OCR.
//
// The hOCR it writes can be passed to pdfedit -hocr to replace footer and
// header text on pages that have no text layer.
//
// Configuration:
//
// The tool requires a YAML configuration file with Google Document AI settings:
//
//	project_id: "your-gcp-project-id"
//	location: "us"
//	processor_id: "your-processor-id"
//	credentials_file: "/path/to/credentials.json" # optional
//
// Usage:
//
//	gdocai -config config.yml -pdf input.pdf [options]
//
// Required flags:
//
//	-config string  Path to the YAML configuration file
//	-pdf string     Path to the input PDF file
//
// Output options (at least one required):
//
//	-hocr string       Path to save HOCR output
//	-text string       Path to save OCR text output
//	-debug-api string  Path to save raw API response as JSON
//
// Authentication:
//
// Without credentials_file the tool uses the GOOGLE_APPLICATION_CREDENTIALS
// environment variable for authentication with Google Cloud.
//
// Example:
//
//	gdocai -config config.yml -pdf scan.pdf -hocr scan.hocr
//	pdfedit -pdf scan.pdf -hocr scan.hocr -old-roll 21BCE1234 -new-roll 21BCE5678 -output scan_new.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gardar/pdfreplace/pkg/gdocai"
)

// loadConfig reads a YAML file into a Document AI config
func loadConfig(path string) (*gdocai.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg gdocai.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file (required)")
	pdfPath := flag.String("pdf", "", "Path to the input PDF file (required)")
	hocrPath := flag.String("hocr", "", "Path to save HOCR output")
	textPath := flag.String("text", "", "Path to save OCR text output")
	debugAPIPath := flag.String("debug-api", "", "Path to save API response as JSON for debugging purposes")
	flag.Parse()

	if *configPath == "" || *pdfPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config and -pdf flags are required")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *hocrPath == "" && *textPath == "" && *debugAPIPath == "" {
		fmt.Fprintln(os.Stderr, "Error: At least one output flag must be provided (-hocr, -text or -debug-api)")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pdfBytes, err := os.ReadFile(*pdfPath)
	if err != nil {
		log.Fatalf("Failed to read PDF file: %v", err)
	}

	fmt.Println("Processing PDF file:", *pdfPath)
	doc, err := gdocai.DocumentHOCR(context.Background(), pdfBytes, cfg)
	if err != nil {
		log.Fatalf("Error processing document: %v", err)
	}

	if *hocrPath != "" {
		if err := os.WriteFile(*hocrPath, doc.HTML, 0644); err != nil {
			log.Fatalf("Failed to write HOCR output: %v", err)
		}
		fmt.Println("Rendered HOCR output saved to:", *hocrPath)
	}

	if *textPath != "" {
		if err := os.WriteFile(*textPath, []byte(doc.Text), 0644); err != nil {
			log.Fatalf("Failed to write text output: %v", err)
		}
		fmt.Println("Document text saved to:", *textPath)
	}

	if *debugAPIPath != "" {
		apiJSON, err := gdocai.ToJSON(doc.Raw)
		if err != nil {
			log.Fatalf("Failed to convert API response to JSON: %v", err)
		}
		if err := os.WriteFile(*debugAPIPath, []byte(apiJSON), 0644); err != nil {
			log.Fatalf("Failed to write API response JSON: %v", err)
		}
		fmt.Println("API response JSON saved to:", *debugAPIPath)
	}
}
