// Command genauth provisions a company login row. Company name and username
// can be given as flags or entered interactively; the password is read from
// the terminal without echo unless (strongly discouraged) passed as a flag.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/ticketapi/internal/common"
	"github.com/dmitrijs2005/ticketapi/internal/cryptox"
	"github.com/dmitrijs2005/ticketapi/internal/flagx"
	"github.com/dmitrijs2005/ticketapi/internal/server/config"
	"github.com/dmitrijs2005/ticketapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ticketapi/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"
)

const maxPasswordLength = 16

var yesPattern = regexp.MustCompile(`(?i)^y(es)?$`)

type options struct {
	company  string
	username string
	password string
}

func parseOptions() *options {
	args := flagx.FilterArgs(os.Args[1:], []string{"-company", "--company", "-u", "-p"})

	fs := flag.NewFlagSet("genauth", flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.company, "company", "", "company name for the new login row")
	fs.StringVar(&opts.username, "u", "", "company ID for the new company, this should be a unique string")
	fs.StringVar(&opts.password, "p", "", "although strongly discouraged to use on commandline, the password for the new company")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	return opts
}

func prompt(reader *bufio.Reader, text string) (string, error) {
	fmt.Print(text)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(username string) ([]byte, error) {
	fmt.Printf("Password for %s: ", username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}

	if len(password) > maxPasswordLength {
		return nil, fmt.Errorf("password too long, must be at most %d characters", maxPasswordLength)
	}

	fmt.Printf("Confirm password for %s: ", username)
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		return nil, fmt.Errorf("passwords do not match")
	}

	return password, nil
}

func run() error {
	ctx := context.Background()
	cfg := config.LoadConfig()
	opts := parseOptions()

	reader := bufio.NewReader(os.Stdin)

	company := opts.company
	if company == "" {
		var err error
		if company, err = prompt(reader, "Enter company name: "); err != nil {
			return err
		}
	}

	username := opts.username
	if username == "" {
		var err error
		if username, err = prompt(reader, "Enter company username: "); err != nil {
			return err
		}
	}

	fmt.Printf("Adding company: %q\n", company)
	fmt.Printf("   Username   : %q\n", username)

	password := []byte(opts.password)
	if len(password) == 0 {
		var err error
		if password, err = readPassword(username); err != nil {
			return err
		}
	}
	defer common.WipeByteArray(password)

	cont, err := prompt(reader, "Continue (y/n)? ")
	if err != nil {
		return err
	}
	if !yesPattern.MatchString(cont) {
		fmt.Println("User said no")
		return nil
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

	crypto, err := cryptox.NewFromFile(cfg.PepperFile, cryptox.DefaultParams())
	if err != nil {
		return err
	}

	auth := services.NewAuthService(db, rm, crypto, cfg)
	if err := auth.ProvisionCredential(ctx, username, company, string(password)); err != nil {
		return fmt.Errorf("failed to add authentication for %q: %w", company, err)
	}

	fmt.Printf("Added authentication for %q\n", company)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
