// Command getphoto pulls the photo of a ticket out of the database and saves
// it to a file. It is an internal operator tool; the ticket ID has to be
// known up front.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/ticketapi/internal/common"
	"github.com/dmitrijs2005/ticketapi/internal/flagx"
	"github.com/dmitrijs2005/ticketapi/internal/server/config"
	"github.com/dmitrijs2005/ticketapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ticketapi/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const savedPhotosDir = "saved_photos"

// positionalArgs returns the non-flag tokens of args. Flags named in
// valueFlags consume the following token as their value, so a numeric flag
// value is never mistaken for a positional argument.
func positionalArgs(args []string, valueFlags []string) []string {
	flags := make(map[string]struct{}, len(valueFlags))
	for _, f := range valueFlags {
		flags[f] = struct{}{}
	}

	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") {
				if _, ok := flags[a]; ok {
					i++
				}
			}
			continue
		}
		out = append(out, a)
	}
	return out
}

func run() error {
	cfg := config.LoadConfig()

	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-save", "--save"})
	fs := flag.NewFlagSet("getphoto", flag.ContinueOnError)
	var save string
	fs.StringVar(&save, "s", "", "filename to save the photo under (short)")
	fs.StringVar(&save, "save", "", "filename to save the photo under; it is written into the saved_photos directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// the ticket ID is the single positional argument; every flag here and
	// in the config layer takes a value
	positional := positionalArgs(os.Args[1:], []string{
		"-s", "-save", "--save", "-a", "-d", "-k", "-t", "-n", "-c", "-config",
	})
	if len(positional) != 1 {
		return fmt.Errorf("usage: getphoto [-s filename] <ticket-id>")
	}
	ticketID, err := strconv.ParseInt(positional[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ticket id %q", positional[0])
	}

	if save == "" {
		save = fmt.Sprintf("ticket-%d.jpg", ticketID)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}

	tickets := services.NewTicketService(db, rm)

	photo, err := tickets.GetPhoto(context.Background(), ticketID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("ticket %d has no photo or does not exist", ticketID)
		}
		return err
	}

	if err := os.MkdirAll(savedPhotosDir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(savedPhotosDir, filepath.Base(save))
	if err := os.WriteFile(path, photo, 0o644); err != nil {
		return fmt.Errorf("unable to save file %s: %w", path, err)
	}

	fmt.Printf("Saved photo of ticket %d to %s\n", ticketID, path)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
