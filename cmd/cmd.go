package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/thiagokokada/gitlanes/internal/buildinfo"
	"github.com/thiagokokada/gitlanes/internal/git"
	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/gui"
)

func Run() error {
	return run(os.Args[1:])
}

func run(args []string) error {
	fs := flag.NewFlagSet("gitlanes", flag.ContinueOnError)
	limit := fs.Int("limit", git.DefaultBatch, "number of commits to load per batch")
	colors := fs.Int("colors", graph.DefaultPaletteSize, "number of lane colors to cycle through")
	mode := fs.String("mode", gui.ThemeAuto.String(), "color mode: auto, light, or dark")
	gitCLI := fs.Bool("gitcli", false, "shell out to the git executable instead of the built-in implementation")
	noWatch := fs.Bool("nowatch", false, "disable automatic reload when repository changes")
	noSyntax := fs.Bool("nosyntax", false, "disable syntax highlighting in the diff viewer")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Println(buildinfo.Describe())
		return nil
	}
	repoPath := "."
	remaining := fs.Args()
	if len(remaining) > 0 {
		repoPath = remaining[len(remaining)-1]
	}
	return gui.Run(gui.RunConfig{
		RepoPath:        repoPath,
		Batch:           *limit,
		PaletteSize:     *colors,
		UseCLI:          *gitCLI,
		ThemePreference: gui.ThemePreferenceFromString(*mode),
		AutoReload:      !*noWatch,
		SyntaxHighlight: !*noSyntax,
		Verbose:         *verbose,
	})
}
