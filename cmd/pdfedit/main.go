// pdfedit is a command-line tool for replacing the roll number, name and date
// printed in the footer and header of every page of a PDF.
//
// Matches are erased from the page content and the new text is written at the
// same position. Text outside the footer and header bands is never touched.
//
// Usage:
//
//	pdfedit -pdf input.pdf -output output.pdf -old-roll OLD -new-roll NEW [options]
//
// Required flags:
//
//	-pdf string       Path to the input PDF
//	-output string    Output PDF path
//
// Replacement options (or set them in a -config file):
//
//	-old-roll string  Roll number to replace in the footer
//	-new-roll string  Replacement roll number
//	-replace-name     Also replace a name in the footer
//	-old-name string  Name to replace
//	-new-name string  Replacement name
//	-replace-date     Also replace the date in the header
//	-new-date string  Replacement date (DD-MM-YYYY)
//
// Processing options:
//
//	-config string        YAML job file; flags override its values
//	-footer-margin float  Height of the footer band in points (default 120)
//	-header-margin float  Height of the header band in points (default 120)
//	-hocr string          hOCR file used to locate text on scanned pages
//	-dump-hocr string     Write the header and footer words as hOCR and exit
//	-password string      Password of an encrypted PDF
//	-ask-password         Prompt for the password
//	-overwrite            Overwrite output file if it exists
//	-debug                Log every replacement
//
// Example job file:
//
//	old_roll: "21BCE1234"
//	new_roll: "21BCE5678"
//	replace_date: true
//	new_date: "14-09-2025"
//	footer_margin: 100
//
// Examples:
//
//	pdfedit -pdf report.pdf -output report_new.pdf -old-roll 21BCE1234 -new-roll 21BCE5678
//	pdfedit -pdf scan.pdf -hocr scan.hocr -config job.yml -output scan_new.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/gardar/pdfreplace/pkg/hocr"
	"github.com/gardar/pdfreplace/pkg/replacer"
)

// job is the YAML job file.
type job struct {
	OldRoll      string  `yaml:"old_roll"`
	NewRoll      string  `yaml:"new_roll"`
	ReplaceName  bool    `yaml:"replace_name"`
	OldName      string  `yaml:"old_name"`
	NewName      string  `yaml:"new_name"`
	ReplaceDate  bool    `yaml:"replace_date"`
	NewDate      string  `yaml:"new_date"`
	FooterMargin float64 `yaml:"footer_margin"`
	HeaderMargin float64 `yaml:"header_margin"`
	DateLabel    string  `yaml:"date_label"`
}

// loadJob reads a YAML job file.
func loadJob(path string) (job, error) {
	var j job
	data, err := os.ReadFile(path)
	if err != nil {
		return j, err
	}
	if err := yaml.Unmarshal(data, &j); err != nil {
		return j, fmt.Errorf("invalid job file %s: %w", path, err)
	}
	return j, nil
}

func main() {
	pdfPath := flag.String("pdf", "", "Path to the input PDF")
	outputPath := flag.String("output", "", "Output PDF path")
	configPath := flag.String("config", "", "Path to a YAML job file")
	oldRoll := flag.String("old-roll", "", "Roll number to replace in the footer")
	newRoll := flag.String("new-roll", "", "Replacement roll number")
	replaceName := flag.Bool("replace-name", false, "Also replace a name in the footer")
	oldName := flag.String("old-name", "", "Name to replace")
	newName := flag.String("new-name", "", "Replacement name")
	replaceDate := flag.Bool("replace-date", false, "Also replace the date in the header")
	newDate := flag.String("new-date", "", "Replacement date (DD-MM-YYYY)")
	footerMargin := flag.Float64("footer-margin", 120, "Height of the footer band in points")
	headerMargin := flag.Float64("header-margin", 120, "Height of the header band in points")
	hocrPath := flag.String("hocr", "", "hOCR file used to locate text on pages without a text layer")
	dumpPath := flag.String("dump-hocr", "", "Write the header and footer words as hOCR to this path and exit")
	password := flag.String("password", "", "Password of an encrypted PDF")
	askPassword := flag.Bool("ask-password", false, "Prompt for the PDF password")
	overwriteOutput := flag.Bool("overwrite", false, "Overwrite the output PDF if it already exists")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Println("Error: Must provide -pdf path")
		os.Exit(1)
	}
	if *outputPath == "" && *dumpPath == "" {
		fmt.Println("Error: Must provide -output or -dump-hocr path")
		os.Exit(1)
	}

	var j job
	if *configPath != "" {
		var err error
		if j, err = loadJob(*configPath); err != nil {
			fmt.Printf("Failed to load job file: %v\n", err)
			os.Exit(1)
		}
	}

	// Explicit flags take precedence over the job file
	provided := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { provided[f.Name] = true })
	str := func(name, flagValue, fileValue string) string {
		if provided[name] || fileValue == "" {
			return flagValue
		}
		return fileValue
	}
	num := func(name string, flagValue, fileValue float64) float64 {
		if provided[name] || fileValue == 0 {
			return flagValue
		}
		return fileValue
	}

	spec := replacer.Spec{
		OldRoll:     str("old-roll", *oldRoll, j.OldRoll),
		NewRoll:     str("new-roll", *newRoll, j.NewRoll),
		ReplaceName: *replaceName || (!provided["replace-name"] && j.ReplaceName),
		OldName:     str("old-name", *oldName, j.OldName),
		NewName:     str("new-name", *newName, j.NewName),
		ReplaceDate: *replaceDate || (!provided["replace-date"] && j.ReplaceDate),
		NewDate:     str("new-date", *newDate, j.NewDate),
	}

	config := replacer.DefaultConfig()
	config.Debug = *debug
	config.Logger = os.Stderr
	config.FooterMargin = num("footer-margin", *footerMargin, j.FooterMargin)
	config.HeaderMargin = num("header-margin", *headerMargin, j.HeaderMargin)
	if j.DateLabel != "" {
		config.DateLabel = j.DateLabel
	}
	config.Password = *password
	if *askPassword {
		pw, err := readPassword()
		if err != nil {
			fmt.Printf("Failed to read password: %v\n", err)
			os.Exit(1)
		}
		config.Password = pw
	}

	if *hocrPath != "" {
		data, err := os.ReadFile(*hocrPath)
		if err != nil {
			fmt.Printf("Failed to read HOCR file: %v\n", err)
			os.Exit(1)
		}
		config.OCR, err = hocr.ParseHOCR(data)
		if err != nil {
			fmt.Printf("Failed to parse HOCR file: %v\n", err)
			os.Exit(1)
		}
	}

	inputData, err := os.ReadFile(*pdfPath)
	if err != nil {
		fmt.Printf("Failed to read input PDF: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dumpPath != "" {
		regions, err := replacer.RegionHOCR(ctx, inputData, config)
		if err != nil {
			fmt.Printf("Error reading header and footer text: %v\n", err)
			os.Exit(1)
		}
		html, err := hocr.GenerateHOCRDocument(regions)
		if err != nil {
			fmt.Printf("Failed to render HOCR: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*dumpPath, html, 0644); err != nil {
			fmt.Printf("Failed to write HOCR: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Header and footer words saved to:", *dumpPath)
		return
	}

	if _, err := os.Stat(*outputPath); err == nil && !*overwriteOutput {
		fmt.Printf("Output file %s already exists. Use -overwrite to overwrite.\n", *outputPath)
		os.Exit(1)
	}

	res, err := replacer.Process(ctx, inputData, spec, config)
	if err != nil {
		fmt.Printf("Error replacing text: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outputPath, res.Output, 0666); err != nil {
		fmt.Printf("Failed to write output PDF: %v\n", err)
		os.Exit(1)
	}
	if res.Count == 0 {
		fmt.Println("Warning: no matches found; page content is unchanged")
	} else {
		fmt.Printf("Replaced %d occurrence(s): roll %d, name %d, date %d\n",
			res.Count, res.Roll, res.Name, res.DateToken+res.DatePattern)
	}
	fmt.Println("Edited PDF created:", *outputPath)
}

// readPassword prompts on the terminal without echoing input.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "PDF password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
