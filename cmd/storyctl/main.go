// Command storyctl generates a story and its CapCut plan from the command line
// without running the server.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/heimdex/storyreel/internal/api"
	"github.com/heimdex/storyreel/internal/config"
	"github.com/heimdex/storyreel/internal/export"
	"github.com/heimdex/storyreel/internal/story"
)

const formatJSON = "json"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("storyctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var body api.StoryRequest
	var format, outDir, catalogPath string
	var listGenres, showVersion bool
	maxFieldLen := api.DefaultMaxFieldLen

	fs.StringVar(&body.Genre, "genre", "", "story genre (default: "+api.DefaultGenre+")")
	fs.StringVar(&body.Setting, "setting", "", "where the story takes place")
	fs.StringVar(&body.Protagonist, "protagonist", "", "who the story follows")
	fs.StringVar(&body.Vibe, "vibe", "", "overall mood")
	fs.StringVar(&format, "format", formatJSON, "output format (json, txt, edl)")
	fs.StringVar(&outDir, "out", "", "write the output into this existing directory instead of stdout")
	fs.StringVar(&catalogPath, "catalog", "", "genre catalog YAML to use instead of the built-in one")
	fs.IntVar(&maxFieldLen, "max-field-len", maxFieldLen, "maximum characters per input field")
	fs.BoolVar(&listGenres, "list-genres", false, "list available genres")
	fs.BoolVar(&showVersion, "version", false, "print version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVersion {
		fmt.Fprintf(stdout, "storyctl %s\n", config.Version)
		return nil
	}

	generator := story.NewGenerator(nil)
	if catalogPath != "" {
		data, err := os.ReadFile(catalogPath)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		c, err := story.ParseCatalog(data)
		if err != nil {
			return err
		}
		generator.SetCatalog(c)
	}

	if listGenres {
		for _, b := range generator.Catalog().Genres() {
			aliases := ""
			if len(b.Aliases) > 0 {
				aliases = " (" + strings.Join(b.Aliases, ", ") + ")"
			}
			fmt.Fprintf(stdout, "  %-10s %s, %s%s\n", b.Key, b.Tone, b.Pace, aliases)
		}
		return nil
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format != formatJSON && !export.IsSupported(format) {
		return fmt.Errorf("unsupported format %q, use json, txt or edl", format)
	}

	req, err := api.ResolveInputs(body, maxFieldLen)
	if err != nil {
		return err
	}

	res, info := generator.GenerateWithInfo(req)
	if info.Fallback {
		fmt.Fprintf(stderr, "genre %q not found, using %s\n", req.Genre, info.Genre)
	}

	output, err := render(generator, req, res, info, format)
	if err != nil {
		return err
	}

	if outDir == "" {
		_, err := io.WriteString(stdout, output)
		return err
	}

	path, err := export.WriteFile(outDir, export.Filename(info.Genre, req.Protagonist, format), output)
	if err != nil {
		return err
	}
	fmt.Fprintln(stderr, path)
	return nil
}

func render(g *story.Generator, req story.Request, res story.Result, info story.Info, format string) (string, error) {
	if format == formatJSON {
		data, err := json.MarshalIndent(api.StoryResponse{
			OK:          true,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Inputs:      req,
			Story:       res,
		}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(data) + "\n", nil
	}

	genreName := info.Genre
	if b, ok := g.Catalog().Lookup(info.Genre); ok {
		genreName = b.Name
	}
	return export.Render(res, export.Title(genreName, req.Protagonist), format)
}
