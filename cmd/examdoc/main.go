package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/examdoc/examdoc/internal/handler"
	appi18n "github.com/examdoc/examdoc/internal/i18n"
	"github.com/examdoc/examdoc/internal/parser"
	"github.com/examdoc/examdoc/internal/store"
	"github.com/examdoc/examdoc/internal/validate"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "examdoc",
		Short:         "Parse exam documents into structured exams",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(parseCmd(), validateCmd(), serveCmd())
	return root
}

func commonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("lang", "l", "vi", "Output language for section labels and messages (vi, en)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <document.docx>",
		Short: "Parse a document into an exam JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	f := cmd.Flags()
	f.StringP("title", "t", "", "Exam title (default: document title)")
	f.Int("time-limit", parser.DefaultTimeLimit, "Exam time limit in minutes")
	f.String("db", "", "SQLite database path; when set, the exam is also saved")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	commonFlags(cmd)
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document.docx>",
		Short: "Parse a document and report structural problems",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
	commonFlags(cmd)
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP exam API",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "examdoc.db", "SQLite database path")
	f.Int("time-limit", parser.DefaultTimeLimit, "Default exam time limit in minutes")
	commonFlags(cmd)
	return cmd
}

func setupLogging(cmd *cobra.Command) *viper.Viper {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))

	return v
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examdoc")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/examdoc")
	v.AddConfigPath("/etc/examdoc")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	}

	return v
}

func localizedContext(lang string) (context.Context, error) {
	if err := appi18n.Init(lang); err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}
	return appi18n.WithLocalizer(context.Background(), appi18n.NewLocalizer(lang)), nil
}

func runParse(cmd *cobra.Command, args []string) error {
	v := setupLogging(cmd)

	ctx, err := localizedContext(v.GetString("lang"))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	exam, err := parser.Parse(ctx, data, parser.Options{
		Title:     v.GetString("title"),
		TimeLimit: v.GetInt("time-limit"),
	})
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	if dbPath := v.GetString("db"); dbPath != "" {
		db, err := store.New(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		id, err := db.SaveExam(exam)
		if err != nil {
			return fmt.Errorf("save exam: %w", err)
		}
		exam.ID = id
		slog.Info("saved exam", "id", id, "db", dbPath)
	}

	out, err := json.MarshalIndent(exam, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)

	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	v := setupLogging(cmd)

	ctx, err := localizedContext(v.GetString("lang"))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	exam, err := parser.Parse(ctx, data, parser.Options{})
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	report := validate.Check(ctx, exam)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))

	if !report.Valid {
		return fmt.Errorf("exam has %d validation errors", len(report.Errors))
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := setupLogging(cmd)

	lang := v.GetString("lang")
	if err := appi18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	h := handler.New(db, parser.Options{TimeLimit: v.GetInt("time-limit")})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appi18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server", "addr", addr, "db", v.GetString("db"), "lang", lang)
	return http.ListenAndServe(addr, r)
}
