// Command bankcheck validates course content and converts authoring workbooks
// into assessment banks.
//
//	bankcheck -content ./content
//	bankcheck -xlsx quizzes.xlsx -section ei-01 -out 01-isolation.assessments.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/trade-courses/internal/assessment"
	"github.com/p-n-ai/trade-courses/internal/content"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "bankcheck:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("bankcheck", flag.ContinueOnError)
	contentDir := fs.String("content", "./content", "content tree to validate")
	threshold := fs.Int("threshold", assessment.DefaultPassThreshold, "default pass threshold for banks that set none")
	xlsx := fs.String("xlsx", "", "workbook to convert into a bank")
	section := fs.String("section", "", "section id for the converted bank")
	out := fs.String("out", "", "output path for the converted bank (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *xlsx != "" {
		return convert(*xlsx, *section, *out, *threshold, stdout)
	}
	return check(*contentDir, *threshold, stdout)
}

func check(dir string, threshold int, stdout io.Writer) error {
	loader, err := content.NewLoader(dir, threshold)
	if err != nil {
		return err
	}

	sections := loader.Sections()
	widgets := 0
	for _, s := range sections {
		ws := loader.Widgets(s.ID)
		widgets += len(ws)
		for _, w := range ws {
			fmt.Fprintf(stdout, "%s\t%s\t%s\t%d questions\n", s.ID, w.Kind, w.ID, len(w.Questions))
		}
	}
	fmt.Fprintf(stdout, "ok: %d sections, %d widgets\n", len(sections), widgets)
	return nil
}

func convert(path, sectionID, out string, threshold int, stdout io.Writer) error {
	if sectionID == "" {
		return fmt.Errorf("-section is required with -xlsx")
	}

	bank, err := content.ReadWorkbook(path, sectionID)
	if err != nil {
		return err
	}
	if _, err := content.Build(bank, threshold); err != nil {
		return fmt.Errorf("workbook %s: %w", path, err)
	}

	data, err := yaml.Marshal(bank)
	if err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}
	if err := content.ValidateDocument(data); err != nil {
		return fmt.Errorf("converted bank: %w", err)
	}

	if out == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write bank: %w", err)
	}
	slog.Info("bank written", "path", out, "section_id", sectionID, "quizzes", len(bank.Quizzes))
	return nil
}
