package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/omaradel/manaboard/core/auth"
	"github.com/omaradel/manaboard/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp         = errors.New("help provided")
	errLoginFailed  = errors.New("login failed")
	errRemoteFailed = errors.New("remote call failed")
)

type commandLine struct {
	store   *session.Store
	gateway *auth.Gateway
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -email EMAIL - log in; the password will be prompted next")
	fmt.Println("  logout             - log out and clear the local session")
	fmt.Println("  status             - show the current session state")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account email. The password will be prompted next.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, string(pwd))
	case "logout":
		return cli.logout()
	case "status":
		return cli.status()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) login(email, pwd string) error {
	creds := auth.Credentials{Email: email, Password: pwd}
	if err := creds.Validate(); err != nil {
		return err
	}

	res := cli.gateway.Login(context.Background(), creds)
	switch res.Status {
	case auth.Success:
		fmt.Println("Logged in.")
		return nil
	case auth.InvalidCredentials:
		fmt.Println(res.Message)
		return errLoginFailed
	default:
		fmt.Println(res.Message)
		return errRemoteFailed
	}
}

func (cli *commandLine) logout() error {
	res := cli.gateway.Logout(context.Background())
	// the local session is gone either way
	if !res.OK() {
		fmt.Println("Remote logout failed; local session cleared anyway.")
		return nil
	}
	fmt.Println("Logged out.")
	return nil
}

func (cli *commandLine) status() error {
	if !cli.store.Authenticated() {
		fmt.Println("Not logged in.")
		return nil
	}

	if profile, err := cli.gateway.Profile(context.Background()); err == nil {
		fmt.Printf("Logged in as %s (%s).\n", profile.Name, profile.Role)
		return nil
	}
	// remote unreachable; fall back to what the token itself says
	if info, err := auth.PeekToken(cli.store.Token()); err == nil && info.Name != "" {
		fmt.Printf("Logged in as %s (remote unreachable).\n", info.Name)
		return nil
	}
	fmt.Println("Logged in.")
	return nil
}
