package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/amterp/color"
	"github.com/fsnotify/fsnotify"
	mdg "github.com/rlehane/mvndepgraph"
	"github.com/rlehane/mvndepgraph/internal/logging"
)

var (
	yellowf  = color.New(color.FgYellow).SprintfFunc()
	hiblackf = color.New(color.FgHiBlack).SprintfFunc()
)

// Projects with these packagings produce no code of their own, so usage analysis is
// meaningless for them.
var skippedPackagings = []string{"pom", "ear"}

type config struct {
	files          []string
	render         *renderFn
	classify       mdg.ClassifyOptions
	verbose        bool
	skip           bool
	failOnWarning  bool
	outputXml      bool
	scriptable     bool
	scriptableFlag string
	watch          bool
}

func ver() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "(devel)" {
		return ""
	}
	return bi.Main.Version
}

func run(ctx context.Context, cfg *config, path string) (warned bool, err error) {
	desc, err := mdg.LoadDescriptor(path)
	if err != nil {
		return false, err
	}
	if cfg.skip {
		fmt.Printf("Skipping project %v\n", desc.ToProject().Coordinate)
		return false, nil
	}
	if slices.Contains(skippedPackagings, desc.ToProject().Packaging()) {
		fmt.Printf("Skipping %v project %v\n", desc.ToProject().Packaging(), desc.ToProject().Coordinate)
		return false, nil
	}
	result, err := mdg.Analyze(ctx, desc.ToProject(), desc, desc, cfg.classify)
	if err != nil {
		return false, err
	}
	if err := (*cfg.render)(os.Stdout, result.Tree, cfg.verbose); err != nil {
		return false, err
	}
	cl := result.Classification
	if err := printReport(os.Stdout, cl, cfg.verbose); err != nil {
		return false, err
	}
	if cfg.outputXml {
		if err := printXmlSnippet(os.Stdout, cl); err != nil {
			return false, err
		}
	}
	if cfg.scriptable {
		if err := printScriptable(os.Stdout, cl, cfg.scriptableFlag, path); err != nil {
			return false, err
		}
	}
	return cl.Warning, nil
}

// watchFiles re-runs the analysis whenever one of the descriptor files changes.
// Editors often replace a file instead of writing it in place, so the watch is on
// the containing directories and events are matched back to the file names.
func watchFiles(ctx context.Context, cfg *config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	byPath := map[string]string{}
	for _, f := range cfg.files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		byPath[abs] = f
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "watch error", "error", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			f, watched := byPath[ev.Name]
			if !watched || !ev.Op.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			slog.InfoContext(ctx, "descriptor changed, re-analyzing", "file", f)
			if _, err := run(ctx, cfg, f); err != nil {
				slog.ErrorContext(ctx, "analysis failed", "file", f, "error", err)
			}
		}
	}
}

var slogLevel = func() *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(logging.LevelInfo)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	return lvl
}()

func choiceFlag[T any](p *T, name string, choices map[string]T, dflt string, usage string) {
	cstr := strings.Join(slices.Sorted(maps.Keys(choices)), ", ")
	var ok bool
	if *p, ok = choices[dflt]; !ok {
		panic(fmt.Errorf("invalid default for %v option: %v", dflt, name))
	}
	usage += fmt.Sprintf(" (one of: %v; default: %v)", cstr, dflt)
	flag.Func(name, usage, func(arg string) error {
		if arg == "" {
			arg = dflt
		}
		v, ok := choices[arg]
		if !ok {
			return fmt.Errorf("expected one of: %v", cstr)
		}
		*p = v
		return nil
	})
}

// patternsFlag accumulates comma-separated artifact patterns across repeated uses of
// the same option.
func patternsFlag(p *[]string, name, usage string) {
	flag.Func(name, usage, func(arg string) error {
		for _, pat := range strings.Split(arg, ",") {
			if pat = strings.TrimSpace(pat); pat != "" {
				*p = append(*p, pat)
			}
		}
		return nil
	})
}

func parseFlags() *config {
	cfg := &config{}

	bumpLogLevel := func(lower bool) {
		slog.Debug("log level pre-change", "level", slogLevel.Level())
		slogLevel.Set(logging.BumpLevel(slogLevel.Level(), lower))
		slog.Debug("log level post-change", "level", slogLevel.Level())
	}
	setLogLevel := func(arg string) error {
		lvl, err := logging.StringToLevel(arg)
		if err != nil {
			return err
		}
		slogLevel.Set(lvl)
		return nil
	}
	flag.BoolFunc("v", "Increase log verbosity.", func(arg string) error {
		switch arg {
		case "", "true":
			bumpLogLevel(true)
		default:
			return setLogLevel(arg)
		}
		return nil
	})
	flag.BoolFunc("q", "Decrease log verbosity.", func(arg string) error {
		switch arg {
		case "", "true":
			bumpLogLevel(false)
		default:
			return setLogLevel(arg)
		}
		return nil
	})

	colorChoices := map[string]bool{
		"auto":   color.NoColor,
		"never":  true,
		"always": false,
	}
	choiceFlag(&color.NoColor, "color", colorChoices, "auto",
		"Output colors according to `mode`.")
	choiceFlag(&cfg.render, "format", allRender, "tree",
		"Print the dependency tree according to `mode`.")
	flag.BoolVar(&cfg.verbose, "verbose", false,
		"Report used declared dependencies, triggering classes, filtered-out artifacts, and dependency management annotations in the tree.")
	flag.BoolVar(&cfg.skip, "skip", false,
		"Skip the analysis entirely.")
	flag.BoolVar(&cfg.failOnWarning, "fail-on-warning", false,
		"Exit with a non-zero status when the analysis finds dependency problems.")
	flag.BoolVar(&cfg.outputXml, "output-xml", false,
		"Print a pom.xml snippet declaring the used undeclared dependencies.")
	flag.BoolVar(&cfg.scriptable, "scriptable", false,
		"Print used undeclared dependencies one per line, prefixed with the -scriptable-flag marker.")
	flag.StringVar(&cfg.scriptableFlag, "scriptable-flag", "$$$%%%",
		"Line `marker` for -scriptable output.")
	flag.BoolVar(&cfg.watch, "watch", false,
		"Keep running and re-analyze whenever a descriptor file changes.")

	flag.BoolVar(&cfg.classify.IgnoreNonCompile, "ignore-non-compile", false,
		"Only report unused declared dependencies with compile scope.")
	flag.BoolVar(&cfg.classify.IgnoreUnusedRuntime, "ignore-unused-runtime", false,
		"Do not report runtime-scoped dependencies as unused.")
	flag.BoolVar(&cfg.classify.IgnoreAllNonTestScoped, "ignore-all-non-test-scoped", false,
		"Ignore the whole non-test scoped category.")
	patternsFlag(&cfg.classify.ForceUsed, "used",
		"Treat the group:artifact `pair` as used even when no usage evidence exists.")
	patternsFlag(&cfg.classify.Include, "include",
		"Restrict the reported artifacts to those matching `patterns`.")
	patternsFlag(&cfg.classify.Ignored, "ignored",
		"Mark artifacts matching `patterns` as ignored in every category.")
	patternsFlag(&cfg.classify.IgnoredUsedUndeclared, "ignored-used-undeclared",
		"Mark used undeclared artifacts matching `patterns` as ignored.")
	patternsFlag(&cfg.classify.IgnoredUnusedDeclared, "ignored-unused-declared",
		"Mark unused declared artifacts matching `patterns` as ignored.")
	patternsFlag(&cfg.classify.IgnoredNonTestScoped, "ignored-non-test-scoped",
		"Mark non-test scoped artifacts matching `patterns` as ignored.")

	help := func(string) error {
		// Pet peeve: Help output should be written to standard output, not standard error, when the
		// user explicitly requests the help.  This makes it easier for them to pipe the help output to
		// a pager.
		flag.CommandLine.SetOutput(os.Stdout)
		flag.Usage()
		os.Exit(0)
		return nil
	}
	helpUsage := "Print usage information and exit."
	flag.BoolFunc("h", helpUsage, help)
	flag.BoolFunc("help", helpUsage, help)
	flag.BoolFunc("version", "Print the version and exit.", func(string) error {
		v := ver()
		if v == "" {
			log.Fatal("the Go build information is unavalable; try passing the \"-buildvcs=true\" build option to go")
		}
		fmt.Printf("%s\n", v)
		os.Exit(0)
		return nil
	})
	flag.Parse()
	cfg.files = flag.Args()
	if len(cfg.files) == 0 {
		log.Fatal("at least one project descriptor file is required")
	}
	return cfg
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := parseFlags()
	warned := false
	for _, f := range cfg.files {
		w, err := run(ctx, cfg, f)
		if err != nil {
			slog.ErrorContext(ctx, "failed", "file", f, "error", err)
			os.Exit(1)
		}
		warned = warned || w
	}
	if cfg.watch {
		if err := watchFiles(ctx, cfg); err != nil {
			slog.ErrorContext(ctx, "failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if warned && cfg.failOnWarning {
		os.Exit(1)
	}
}
