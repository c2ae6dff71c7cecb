package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"asrama/internal/dashboard"
	"asrama/internal/logger"
)

const usage = `usage: dashboard <command>

commands:
  show                 print stats and the transaction table
  add [flags]          add a transaction (requires ADMIN_TOKEN)
  delete <id>          delete a transaction after confirmation (requires ADMIN_TOKEN)`

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Named("dashboard").Debugw("command failed", "error", err)
		var userErr *dashboard.UserError
		if errors.As(err, &userErr) {
			fmt.Fprintln(os.Stderr, userErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	cfg, err := dashboard.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := dashboard.New(dashboard.NewClient(cfg.BackendURL, &http.Client{Timeout: cfg.RequestTimeout}))

	switch args[0] {
	case "show":
		return show(ctx, d)
	case "add":
		if err := login(ctx, d, cfg.AdminToken); err != nil {
			return err
		}
		form, err := parseAddFlags(args[1:])
		if err != nil {
			return err
		}
		return reportMutation(os.Stdout, os.Stderr, d, d.Submit(ctx, form), "Transaksi ditambahkan")
	case "delete":
		if len(args) != 2 {
			return errors.New("usage: dashboard delete <id>")
		}
		if err := login(ctx, d, cfg.AdminToken); err != nil {
			return err
		}
		err := d.Delete(ctx, args[1], func() bool { return confirm(os.Stdin, os.Stdout, "Hapus transaksi ini?") })
		if errors.Is(err, dashboard.ErrCancelled) {
			fmt.Println("Dibatalkan")
			return nil
		}
		return reportMutation(os.Stdout, os.Stderr, d, err, "Transaksi dihapus")
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// reportMutation prints done when the mutation was stored. A failed reload
// afterwards is reported as a warning, not a failure.
func reportMutation(out, errOut io.Writer, d *dashboard.Dashboard, err error, done string) error {
	var reloadErr *dashboard.ReloadError
	if err != nil && !errors.As(err, &reloadErr) {
		return err
	}
	fmt.Fprintln(out, done)
	if reloadErr != nil {
		fmt.Fprintf(errOut, "Peringatan: %v\n", reloadErr)
		return nil
	}
	return dashboard.Render(out, d.View())
}

func login(ctx context.Context, d *dashboard.Dashboard, token string) error {
	if token == "" {
		return errors.New("ADMIN_TOKEN is required for this command")
	}
	return d.LoginVerified(ctx, token)
}

func show(ctx context.Context, d *dashboard.Dashboard) error {
	loadErr := d.Load(ctx)
	if err := dashboard.Render(os.Stdout, d.View()); err != nil {
		return err
	}
	return loadErr
}

func parseAddFlags(args []string) (dashboard.Form, error) {
	form := dashboard.EmptyForm()
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringVar(&form.Tanggal, "tanggal", time.Now().Format("2006-01-02"), "date (YYYY-MM-DD)")
	fs.StringVar(&form.Penghuni, "penghuni", "", "resident (optional)")
	fs.StringVar(&form.Kamar, "kamar", "", "room (optional)")
	fs.StringVar(&form.Keterangan, "keterangan", "", "description")
	fs.StringVar(&form.Jumlah, "jumlah", "", "amount in Rupiah")
	fs.StringVar(&form.Tipe, "tipe", form.Tipe, "pemasukan or pengeluaran")
	if err := fs.Parse(args); err != nil {
		return dashboard.Form{}, err
	}
	return form, nil
}

// confirm asks a yes/no question and treats anything but y/ya/yes as no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "ya", "yes":
		return true
	}
	return false
}
