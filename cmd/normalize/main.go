// Command normalize matches the intensity histograms of a directory of
// micrographs against a single reference image, producing an
// acquisition-normalized copy of the dataset.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"micrograph-prep/internal/normalize"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	refPath := flag.String("ref", "", "Path to the reference (template) image")
	inputDir := flag.String("in", "", "Directory of images to normalize")
	outputDir := flag.String("out", "", "Directory for normalized output")
	flag.Parse()

	in := bufio.NewReader(os.Stdin)
	fmt.Println("--- Image Histogram Normalizer ---")

	if *refPath == "" {
		*refPath = prompt(in, "Enter the path to the REFERENCE image: ")
	}
	if *inputDir == "" {
		*inputDir = prompt(in, "Enter the INPUT folder (images to process): ")
	}
	if *outputDir == "" {
		*outputDir = prompt(in, "Enter the OUTPUT folder (to save results): ")
	}

	summary, err := normalize.Run(*refPath, *inputDir, *outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}

	if summary.Found == 0 {
		return
	}
	fmt.Printf("Done: %d normalized, %d skipped. Output in %s\n",
		summary.Processed, summary.Skipped, *outputDir)
}

func prompt(in *bufio.Reader, label string) string {
	for {
		fmt.Print(label)
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintf(os.Stderr, "Fatal: no input available for %q\n", label)
			os.Exit(1)
		}
		if value := strings.TrimSpace(line); value != "" {
			return value
		}
	}
}
