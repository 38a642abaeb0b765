package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"

	"github.com/lifei6671/l10n"
	"github.com/lifei6671/l10n/cmd/i18nlint/checker"
)

// envPrefix is used when no --config file is given, e.g. I18NLINT_LOCALES.
const envPrefix = "I18NLINT_"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("i18nlint", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	dir := flags.StringP("dir", "d", "./locales", "directory of locale subdirectories")
	fallback := flags.StringP("fallback", "f", "en-US", "fallback language")
	core := flags.StringP("core", "c", "", "shared resource file or directory")
	configFile := flags.String("config", "", "TOML or YAML config file (default: "+envPrefix+"* environment)")
	engineName := flags.String("engine", "fluent", fmt.Sprintf("message engine %v", l10n.Engines()))
	follow := flags.Bool("follow-symlinks", false, "follow symbolic links")
	failOnError := flags.Bool("fail", false, "exit with code 1 if any issue found")
	logLevel := flags.String("log-level", "warn", "log level: debug, info, warn, error")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}
	logger := slog.New(tint.NewHandler(stderr, &tint.Options{Level: level, TimeFormat: time.Kitchen}))

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	// 显式传入的参数优先，其次是配置文件或环境变量，最后才是参数默认值。
	if flags.Changed("dir") || cfg.Locales == "" {
		cfg.Locales = *dir
	}
	if flags.Changed("fallback") || cfg.FallbackLanguage == "" {
		cfg.FallbackLanguage = *fallback
	}
	if flags.Changed("core") {
		cfg.CoreLocales = *core
	}
	if flags.Changed("follow-symlinks") {
		cfg.FollowSymlinks = *follow
	}

	engine, err := l10n.EngineByName(*engineName)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}

	res, err := checker.CheckLocales(ctx, cfg, engine, l10n.WithLogger(logger))
	if err != nil {
		logger.Error("check failed", slog.String("dir", cfg.Locales), slog.Any("error", err))
		return 1
	}

	printResult(stdout, res)

	if *failOnError && res.HasIssues() {
		return 1
	}
	return 0
}

func loadConfig(path string) (l10n.Config, error) {
	if path != "" {
		return l10n.LoadConfigFile(path)
	}
	return l10n.ConfigFromEnv(envPrefix)
}

func printResult(w io.Writer, res *checker.Result) {
	fmt.Fprintln(w, "=== I18N CHECK RESULT ===")
	fmt.Fprintln(w, "Languages:", res.Languages)
	fmt.Fprintln(w, "Fallback:", res.Fallback)
	fmt.Fprintln(w, "Total keys:", len(res.AllKeys))
	if len(res.Skipped) > 0 {
		fmt.Fprintln(w, "Skipped directories:", res.Skipped)
	}
	if errs := res.ResourceErrors[checker.CoreLanguage]; len(errs) > 0 {
		fmt.Fprintln(w, "\n--- [core] ---")
		printErrors(w, "Resource errors", errs)
	}

	for _, lang := range res.Languages {
		fmt.Fprintf(w, "\n--- [%s] ---\n", lang)
		printKeys(w, "Missing keys", res.MissingKeys[lang])
		printKeys(w, "Redundant keys", res.RedundantKeys[lang])
		printErrors(w, "Resource errors", res.ResourceErrors[lang])
		printErrors(w, "Reference errors", res.ReferenceErrors[lang])
	}
}

func printKeys(w io.Writer, title string, keys []string) {
	if len(keys) == 0 {
		fmt.Fprintf(w, "%s: None\n", title)
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintln(w, "  -", k)
	}
}

func printErrors(w io.Writer, title string, errs []error) {
	if len(errs) == 0 {
		fmt.Fprintf(w, "%s: None\n", title)
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, err := range errs {
		fmt.Fprintf(w, "  - %v\n", err)
	}
}
